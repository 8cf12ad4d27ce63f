package media

import (
	"time"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/identity"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
)

// Actor is the administrator performing a moderation action, resolved from
// the request headers by the API layer.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Owner is the account record a media item belongs to. Collection is the
// write-side document collection; storage-only items have none.
type Owner struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone,omitempty"`
	AccountType enums.AccountType `json:"account_type"`
	Collection  string            `json:"-"`
}

// Item is the canonical in-memory representation of one media asset,
// synthesized fresh on every aggregation pass regardless of origin store.
type Item struct {
	ID           string             `json:"id"`
	Kind         enums.MediaKind    `json:"kind"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	URL          string             `json:"url"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
	UploadedAt   time.Time          `json:"uploaded_at"`
	Owner        Owner              `json:"owner"`
	Status       enums.MediaStatus  `json:"status"`
	Views        int                `json:"views"`
	Likes        int                `json:"likes"`
	Comments     int                `json:"comments"`
	Source       enums.SourceType   `json:"source"`
	Subtype      enums.ImageSubtype `json:"subtype,omitempty"`
	SizeBytes    int64              `json:"size_bytes,omitempty"`

	// Ref is the structured identity used for write-back and deletion.
	Ref identity.Ref `json:"-"`
	// Bucket is set for storage-backed items so deletion can resolve the
	// object to remove.
	Bucket string `json:"-"`
	// Path is the object path inside Bucket.
	Path string `json:"-"`
}

// DocumentBacked reports whether the item lives inside an owner document.
func (i Item) DocumentBacked() bool {
	return i.Ref.Kind == identity.ArrayField || i.Ref.Kind == identity.SingletonField
}

// StorageBacked reports whether deleting the item requires an object
// removal in addition to any document rewrite.
func (i Item) StorageBacked() bool {
	return i.Bucket != "" && i.Path != ""
}
