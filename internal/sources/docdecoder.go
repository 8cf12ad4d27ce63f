package sources

import (
	"strings"
	"time"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/docstore"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
)

// The owner-document schema evolved across several writer generations, so
// most reads go through a fallback chain of legacy field names. All of that
// lives here; adapters only see the canonical shape.

// Array-valued media fields per kind.
var (
	videoArrayFields = []string{"videos"}
	imageArrayFields = []string{"images", "additional_images"}

	// Single-valued image fields, in both snake_case and camelCase
	// generations. camelCase duplicates are skipped when the snake_case
	// field is present.
	imageSingletonFields = []string{"profile_image", "profileImage", "cover_image", "coverImage", "avatar"}

	singletonAliases = map[string]string{
		"profileImage": "profile_image",
		"coverImage":   "cover_image",
	}
)

// statusFieldSuffix is the companion key holding moderation status for
// single-valued image fields, which store a bare URL string.
const statusFieldSuffix = "_status"

func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := fields[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func asInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// parseTime accepts the timestamp shapes seen in the wild: RFC3339 strings,
// date-only strings, and unix milliseconds.
func parseTime(value any) time.Time {
	switch v := value.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	case float64:
		if v > 0 {
			return time.UnixMilli(int64(v)).UTC()
		}
	case int64:
		if v > 0 {
			return time.UnixMilli(v).UTC()
		}
	}
	return time.Time{}
}

func firstTime(fields map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		if t := parseTime(fields[key]); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

func parseStatus(value any) enums.MediaStatus {
	if s, ok := value.(string); ok {
		if status, err := enums.ParseMediaStatus(strings.ToLower(strings.TrimSpace(s))); err == nil {
			return status
		}
	}
	return enums.MediaStatusPending
}

// ownerFromDocument decodes the owner identity shared by every media item
// on the document.
func ownerFromDocument(doc docstore.Document, collection string) media.Owner {
	return media.Owner{
		ID:          doc.ID,
		Name:        firstString(doc.Fields, "full_name", "name", "userName"),
		Email:       firstString(doc.Fields, "email", "userEmail"),
		Phone:       firstString(doc.Fields, "phone", "phoneNumber"),
		AccountType: enums.AccountTypeForCollection(collection),
		Collection:  collection,
	}
}

// ownerDisabled reports whether the document is soft-deleted or deactivated.
func ownerDisabled(fields map[string]any) bool {
	if deleted, ok := fields["isDeleted"].(bool); ok && deleted {
		return true
	}
	if active, ok := fields["isActive"].(bool); ok && !active {
		return true
	}
	return false
}

// mediaEntry is one decoded entry of an array-valued media field.
type mediaEntry struct {
	URL          string
	Title        string
	Description  string
	ThumbnailURL string
	UploadedAt   time.Time
	Status       enums.MediaStatus
	Views        int
	Likes        int
	Comments     int
}

// decodeEntry decodes one array element. ok is false when the entry has no
// usable URL and must be skipped silently.
func decodeEntry(value any) (mediaEntry, bool) {
	fields, isMap := value.(map[string]any)
	if !isMap {
		// A bare string entry is just the URL.
		url, ok := usableURL(value)
		if !ok {
			return mediaEntry{}, false
		}
		return mediaEntry{URL: url, Status: enums.MediaStatusPending}, true
	}

	url, ok := usableURL(fields["url"])
	if !ok {
		return mediaEntry{}, false
	}

	return mediaEntry{
		URL:          url,
		Title:        firstString(fields, "title", "desc"),
		Description:  firstString(fields, "description", "desc"),
		ThumbnailURL: firstString(fields, "thumbnail", "thumbnailUrl"),
		UploadedAt:   firstTime(fields, "uploadDate", "createdAt", "updated_at"),
		Status:       parseStatus(fields["status"]),
		Views:        asInt(fields["views"]),
		Likes:        asInt(fields["likes"]),
		Comments:     asInt(fields["comments"]),
	}, true
}

// singleton is one decoded single-valued image field.
type singleton struct {
	Field  string
	URL    string
	Status enums.MediaStatus
}

// decodeSingletons returns the usable single-valued image fields on the
// document, deduplicating camelCase aliases against their canonical names.
func decodeSingletons(fields map[string]any) []singleton {
	var out []singleton
	seen := map[string]bool{}
	for _, field := range imageSingletonFields {
		canonical := field
		if alias, ok := singletonAliases[field]; ok {
			canonical = alias
		}
		if seen[canonical] {
			continue
		}
		url, ok := usableURL(fields[field])
		if !ok {
			continue
		}
		seen[canonical] = true
		out = append(out, singleton{
			Field:  field,
			URL:    url,
			Status: parseStatus(fields[field+statusFieldSuffix]),
		})
	}
	return out
}

// sniffVideoSource classifies a video URL by host.
func sniffVideoSource(url string, storageMarkers []string) enums.SourceType {
	lowered := strings.ToLower(url)
	if strings.Contains(lowered, "youtube.com") || strings.Contains(lowered, "youtu.be") {
		return enums.SourceTypeYouTube
	}
	for _, marker := range storageMarkers {
		if marker != "" && strings.Contains(lowered, strings.ToLower(marker)) {
			return enums.SourceTypeStorage
		}
	}
	return enums.SourceTypeExternal
}
