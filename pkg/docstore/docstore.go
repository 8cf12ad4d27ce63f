package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document does not exist. Callers treat it
// as "the record vanished between read and write" and abort only the
// affected operation.
var ErrNotFound = errors.New("docstore: document not found")

// Document is one record from an account-type collection. Fields is the
// loosely typed payload the platform's writers have evolved over time.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is the document-store surface the moderation engine consumes.
// Setting a field to nil removes it from the document.
type Store interface {
	ListDocuments(ctx context.Context, collection string) ([]Document, error)
	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	SetFields(ctx context.Context, collection, id string, fields map[string]any) error
}
