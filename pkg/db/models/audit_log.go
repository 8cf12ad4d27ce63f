package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
)

// AuditLog is one append-only entry in a media item's moderation history,
// keyed by the item's synthetic id.
type AuditLog struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MediaID      string             `gorm:"column:media_id;not null;index" json:"media_id"`
	OwnerID      string             `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Action       enums.AuditAction  `gorm:"column:action;not null" json:"action"`
	ActorID      string             `gorm:"column:actor_id;not null" json:"actor_id"`
	ActorRole    string             `gorm:"column:actor_role;not null" json:"actor_role"`
	BeforeStatus *enums.MediaStatus `gorm:"column:before_status" json:"before_status,omitempty"`
	AfterStatus  *enums.MediaStatus `gorm:"column:after_status" json:"after_status,omitempty"`
	Method       *string            `gorm:"column:method" json:"method,omitempty"`
	Note         string             `gorm:"column:note" json:"note"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName pins the table name.
func (AuditLog) TableName() string {
	return "audit_logs"
}
