package enums

import "fmt"

// ImageSubtype classifies image items by their role on the owner profile.
// Video items carry no subtype.
type ImageSubtype string

const (
	ImageSubtypeProfile    ImageSubtype = "profile"
	ImageSubtypeCover      ImageSubtype = "cover"
	ImageSubtypeAdditional ImageSubtype = "additional"
	ImageSubtypeAvatar     ImageSubtype = "avatar"
	ImageSubtypeUnknown    ImageSubtype = "unknown"
)

var validImageSubtypes = []ImageSubtype{
	ImageSubtypeProfile,
	ImageSubtypeCover,
	ImageSubtypeAdditional,
	ImageSubtypeAvatar,
	ImageSubtypeUnknown,
}

// String returns the literal string for the subtype.
func (i ImageSubtype) String() string {
	return string(i)
}

// IsValid reports whether the subtype is known.
func (i ImageSubtype) IsValid() bool {
	for _, candidate := range validImageSubtypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseImageSubtype converts raw input into an ImageSubtype.
func ParseImageSubtype(value string) (ImageSubtype, error) {
	for _, candidate := range validImageSubtypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid image subtype %q", value)
}
