package sources

import (
	"context"
	"strings"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
)

// Adapter normalizes one backing store's records into canonical items.
// Adapters report the byte total they observed for capacity reporting; a
// failing adapter returns what it has plus the error, and the aggregator
// keeps going.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, kind enums.MediaKind) ([]media.Item, int64, error)
}

// corruptURLSentinel is what a stringified object literal looks like after a
// buggy writer stored it instead of the URL.
const corruptURLSentinel = "[object"

// usableURL extracts a usable URL from a loosely typed field value.
// Non-strings, empty strings and corrupt stringified objects are rejected.
func usableURL(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, corruptURLSentinel) {
		return "", false
	}
	return s, true
}
