package attendance

import (
	"context"

	"go.uber.org/zap"

	"rollbook/internal/store"
)

const documentName = "secure_data"

// Repository persists the secure_data document.
type Repository struct {
	snap *store.Snapshot[*Document]
}

// NewRepository creates a repo.
func NewRepository(backend store.Backend, log *zap.Logger) *Repository {
	return &Repository{snap: store.NewSnapshot(backend, documentName, NewDocument, log)}
}

// Load returns the current document.
func (r *Repository) Load(ctx context.Context) (*Document, error) {
	doc, err := r.snap.Read(ctx)
	if err != nil {
		return nil, err
	}
	doc.normalize()
	return doc, nil
}

// Update applies fn to the current document and saves it whole.
func (r *Repository) Update(ctx context.Context, fn func(*Document) error) error {
	return r.snap.Update(ctx, func(doc *Document) (*Document, error) {
		doc.normalize()
		if err := fn(doc); err != nil {
			return nil, err
		}
		return doc, nil
	})
}
