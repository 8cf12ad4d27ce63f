package enums

import "fmt"

// MediaStatus is the moderation state of one media item. No state is
// terminal; every status can be revisited.
type MediaStatus string

const (
	MediaStatusPending  MediaStatus = "pending"
	MediaStatusApproved MediaStatus = "approved"
	MediaStatusRejected MediaStatus = "rejected"
	MediaStatusFlagged  MediaStatus = "flagged"
)

var validMediaStatuses = []MediaStatus{
	MediaStatusPending,
	MediaStatusApproved,
	MediaStatusRejected,
	MediaStatusFlagged,
}

// statusSortPriority drives the fixed "status" sort order:
// pending, flagged, approved, rejected.
var statusSortPriority = map[MediaStatus]int{
	MediaStatusPending:  0,
	MediaStatusFlagged:  1,
	MediaStatusApproved: 2,
	MediaStatusRejected: 3,
}

// String returns the literal string for the status.
func (m MediaStatus) String() string {
	return string(m)
}

// IsValid reports whether the status is known.
func (m MediaStatus) IsValid() bool {
	for _, candidate := range validMediaStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// SortPriority returns the fixed review ordering for the status. Unknown
// statuses sort last.
func (m MediaStatus) SortPriority() int {
	if p, ok := statusSortPriority[m]; ok {
		return p
	}
	return len(statusSortPriority)
}

// ParseMediaStatus converts raw input into a MediaStatus.
func ParseMediaStatus(value string) (MediaStatus, error) {
	for _, candidate := range validMediaStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media status %q", value)
}
