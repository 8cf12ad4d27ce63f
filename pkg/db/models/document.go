package models

import (
	"time"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/types"
)

// Document is one owner record inside an account-type collection. Media
// entries, moderation statuses, and owner contact details all live inside
// the Data payload; there is no separate moderation table.
type Document struct {
	ID         int64         `gorm:"column:id;primaryKey;autoIncrement"`
	Collection string        `gorm:"column:collection;not null;index:idx_documents_collection_doc,unique"`
	DocID      string        `gorm:"column:doc_id;not null;index:idx_documents_collection_doc,unique"`
	Data       types.JSONMap `gorm:"column:data;type:jsonb;not null"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name.
func (Document) TableName() string {
	return "documents"
}
