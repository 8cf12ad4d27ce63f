package identity

import (
	"fmt"
	"strings"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
)

// UnknownOwner is assigned to storage objects whose path yields no owner id.
// Orphaned media stays triageable instead of being dropped.
const UnknownOwner = "unknown"

// objectIDPrefix namespaces ids minted for raw storage objects so they can
// never collide with document-derived ids.
const objectIDPrefix = "supabase"

// RefKind distinguishes where a media item physically lives.
type RefKind int

const (
	// ArrayField is one entry of an array-valued media field on an owner
	// document.
	ArrayField RefKind = iota
	// SingletonField is a single-valued media field on an owner document.
	SingletonField
	// Object is a raw object in a storage bucket with no document entry.
	Object
)

// Ref is the structured identity of a media item. Encode derives the stable
// string id; the structured form keeps write-back logic free of string
// parsing.
type Ref struct {
	Kind    RefKind
	OwnerID string
	Field   string
	Index   int
	Store   string
	Path    string
}

// ArrayFieldRef identifies entry index of an array-valued field.
func ArrayFieldRef(ownerID, field string, index int) Ref {
	return Ref{Kind: ArrayField, OwnerID: ownerID, Field: field, Index: index}
}

// SingletonFieldRef identifies a single-valued media field.
func SingletonFieldRef(ownerID, field string) Ref {
	return Ref{Kind: SingletonField, OwnerID: ownerID, Field: field}
}

// ObjectRef identifies a raw storage object by bucket and path.
func ObjectRef(store, path string) Ref {
	return Ref{Kind: Object, Store: store, Path: path}
}

// Encode produces the stable string id for the ref. Ids are unique within a
// media kind as long as (collection doc id, field, index) and (bucket, path)
// are unique upstream.
func (r Ref) Encode() string {
	switch r.Kind {
	case ArrayField:
		return fmt.Sprintf("%s_%s_%d", r.OwnerID, r.Field, r.Index)
	case SingletonField:
		return fmt.Sprintf("%s_%s", r.OwnerID, r.Field)
	default:
		return fmt.Sprintf("%s_%s_%s", objectIDPrefix, r.Store, sanitizePath(r.Path))
	}
}

// sanitizePath replaces every non-alphanumeric byte with an underscore so
// object paths become safe id segments.
func sanitizePath(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// singletonSubtypes maps single-valued document fields to their semantic
// image subtype. Both snake_case and camelCase writer generations exist.
var singletonSubtypes = map[string]enums.ImageSubtype{
	"profile_image": enums.ImageSubtypeProfile,
	"profileImage":  enums.ImageSubtypeProfile,
	"cover_image":   enums.ImageSubtypeCover,
	"coverImage":    enums.ImageSubtypeCover,
	"avatar":        enums.ImageSubtypeAvatar,
}

// SubtypeForField infers the image subtype of a document-backed item.
// Array-valued fields hold additional gallery images unless the field name
// says otherwise.
func SubtypeForField(field string, isArray bool) enums.ImageSubtype {
	if subtype, ok := singletonSubtypes[field]; ok {
		return subtype
	}
	if isArray {
		return enums.ImageSubtypeAdditional
	}
	return enums.ImageSubtypeUnknown
}

// SubtypeForBucket classifies a storage object by bucket-name substring.
func SubtypeForBucket(bucket string) enums.ImageSubtype {
	name := strings.ToLower(bucket)
	switch {
	case strings.Contains(name, "profile"), strings.Contains(name, "avatar"):
		return enums.ImageSubtypeProfile
	case strings.Contains(name, "cover"):
		return enums.ImageSubtypeCover
	case strings.Contains(name, "additional"):
		return enums.ImageSubtypeAdditional
	default:
		return enums.ImageSubtypeUnknown
	}
}
