package program

import (
	"context"
	"fmt"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/logger"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const Collection = "programs"

type Repo struct {
	fs  *firestore.Client
	log *logger.Logger
}

func NewRepo(fs *firestore.Client, log *logger.Logger) *Repo {
	if log == nil {
		log = logger.Discard()
	}
	return &Repo{fs: fs, log: log}
}

// List returns every program document that decodes. A malformed document is
// logged and skipped. Ordering is left to callers.
func (r *Repo) List(ctx context.Context) ([]Program, error) {
	iter := r.fs.Collection(Collection).Documents(ctx)
	defer iter.Stop()

	out := []Program{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list programs: %w", err)
		}
		var p Program
		if err := doc.DataTo(&p); err != nil {
			r.log.WarnContext(ctx, "Skipping program that failed to decode", "program_id", doc.Ref.ID, "error", err)
			continue
		}
		p.ID = doc.Ref.ID
		p.Normalize()
		out = append(out, p)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, programID string) (*Program, error) {
	doc, err := r.fs.Collection(Collection).Doc(programID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, apperr.NotFound("Program not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get program %s: %w", programID, err)
	}

	var p Program
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode program %s: %w", programID, err)
	}
	p.ID = doc.Ref.ID
	p.Normalize()
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p Program) (*Program, error) {
	ref := r.fs.Collection(Collection).NewDoc()
	p.ID = ref.ID
	if _, err := ref.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return &p, nil
}
