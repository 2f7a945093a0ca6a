package faq

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

// List returns all FAQs ordered by their order field, then question.
func (r *Repo) List(ctx context.Context) ([]Faq, error) {
	iter := r.fs.Collection(Collection).Documents(ctx)
	defer iter.Stop()

	out := []Faq{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list faqs: %w", err)
		}
		var f Faq
		if err := doc.DataTo(&f); err != nil {
			return nil, fmt.Errorf("failed to decode faq %s: %w", doc.Ref.ID, err)
		}
		f.ID = doc.Ref.ID
		out = append(out, f)
	}

	Sort(out)
	return out, nil
}

// Sort orders FAQs in place the way they are displayed.
func Sort(faqs []Faq) {
	sort.SliceStable(faqs, func(i, j int) bool {
		if faqs[i].Order != faqs[j].Order {
			return faqs[i].Order < faqs[j].Order
		}
		return faqs[i].Question < faqs[j].Question
	})
}
