package docstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/types"
)

// GormStore persists collections as rows in the documents table with a
// JSONB payload per owner record.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a document store bound to the provided GORM DB.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ListDocuments returns every document in the collection, ordered by doc id
// so repeated aggregation passes see a stable ordering.
func (s *GormStore) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	var rows []models.Document
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("doc_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", collection, err)
	}

	docs := make([]Document, len(rows))
	for i, row := range rows {
		docs[i] = Document{ID: row.DocID, Fields: cloneFields(row.Data)}
	}
	return docs, nil
}

// GetDocument loads one document or ErrNotFound.
func (s *GormStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	var row models.Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}
	return &Document{ID: row.DocID, Fields: cloneFields(row.Data)}, nil
}

// SetFields merges the partial update into the document payload inside a
// transaction. A nil value deletes the field. The document must exist.
func (s *GormStore) SetFields(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Document
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load document %s/%s: %w", collection, id, err)
		}

		if row.Data == nil {
			row.Data = types.JSONMap{}
		}
		for key, value := range fields {
			if value == nil {
				delete(row.Data, key)
				continue
			}
			row.Data[key] = value
		}

		if err := tx.Model(&models.Document{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("data", row.Data).Error; err != nil {
			return fmt.Errorf("write document %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

func cloneFields(data types.JSONMap) map[string]any {
	fields := make(map[string]any, len(data))
	for k, v := range data {
		fields[k] = v
	}
	return fields
}
