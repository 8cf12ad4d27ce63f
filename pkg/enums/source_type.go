package enums

import "fmt"

// SourceType records which backing store a media item was aggregated from.
type SourceType string

const (
	SourceTypeDocument SourceType = "document"
	SourceTypeStorage  SourceType = "storage"
	SourceTypeYouTube  SourceType = "youtube"
	SourceTypeExternal SourceType = "external"
)

var validSourceTypes = []SourceType{
	SourceTypeDocument,
	SourceTypeStorage,
	SourceTypeYouTube,
	SourceTypeExternal,
}

// String returns the literal string for the source type.
func (s SourceType) String() string {
	return string(s)
}

// IsValid reports whether the source type is known.
func (s SourceType) IsValid() bool {
	for _, candidate := range validSourceTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSourceType converts raw input into a SourceType.
func ParseSourceType(value string) (SourceType, error) {
	for _, candidate := range validSourceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid source type %q", value)
}
