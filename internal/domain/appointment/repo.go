package appointment

import (
	"context"
	"fmt"

	"community-sport/backend/internal/apperr"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	ref := r.fs.Collection(Collection).NewDoc()
	a.ID = ref.ID
	if _, err := ref.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return &a, nil
}

func (r *Repo) Get(ctx context.Context, appointmentID string) (*Appointment, error) {
	doc, err := r.fs.Collection(Collection).Doc(appointmentID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, apperr.NotFound("Appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment %s: %w", appointmentID, err)
	}

	var a Appointment
	if err := doc.DataTo(&a); err != nil {
		return nil, fmt.Errorf("failed to decode appointment %s: %w", appointmentID, err)
	}
	a.ID = doc.Ref.ID
	return &a, nil
}

// Update merges fields into the stored document, leaving other fields alone.
func (r *Repo) Update(ctx context.Context, appointmentID string, fields map[string]interface{}) error {
	_, err := r.fs.Collection(Collection).Doc(appointmentID).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update appointment %s: %w", appointmentID, err)
	}
	return nil
}

// ListByUser returns every appointment booked by email, cancelled ones
// included, in no particular order.
func (r *Repo) ListByUser(ctx context.Context, email string) ([]Appointment, error) {
	iter := r.fs.Collection(Collection).Where("user_email", "==", email).Documents(ctx)
	defer iter.Stop()

	out := []Appointment{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list appointments: %w", err)
		}
		var a Appointment
		if err := doc.DataTo(&a); err != nil {
			return nil, fmt.Errorf("failed to decode appointment %s: %w", doc.Ref.ID, err)
		}
		a.ID = doc.Ref.ID
		out = append(out, a)
	}
	return out, nil
}
