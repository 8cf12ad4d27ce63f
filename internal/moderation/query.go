package moderation

import (
	"sort"
	"strings"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/audit"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/pagination"
)

// SortOrder names the supported orderings.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortTitleAsc  SortOrder = "title_asc"
	SortTitleDesc SortOrder = "title_desc"
	SortStatus    SortOrder = "status"
)

// Filters are AND-combined predicates over the aggregated collection. Nil
// pointer fields mean "no constraint".
type Filters struct {
	Search      string
	Status      *enums.MediaStatus
	AccountType *enums.AccountType
	Source      *enums.SourceType
	Subtype     *enums.ImageSubtype
	LastAction  *enums.AuditAction
	ActionTaken *bool
	Notified    *bool
}

// NeedsAuditSummaries reports whether evaluating the filters requires the
// per-item audit digests.
func (f Filters) NeedsAuditSummaries() bool {
	return f.LastAction != nil || f.ActionTaken != nil || f.Notified != nil
}

// PageRequest is one read of the aggregate.
type PageRequest struct {
	Kind    enums.MediaKind
	Filters Filters
	Sort    SortOrder
	Page    int
}

// PageResult is one page plus the pre-pagination total.
type PageResult struct {
	Items      []media.Item    `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       pagination.Page `json:"pagination"`
}

// Apply filters and sorts the snapshot. The input slice is not modified.
func Apply(items []media.Item, filters Filters, order SortOrder, summaries map[string]audit.Summary) []media.Item {
	out := make([]media.Item, 0, len(items))
	for _, item := range items {
		if matches(item, filters, summaries) {
			out = append(out, item)
		}
	}
	sortItems(out, order)
	return out
}

func matches(item media.Item, f Filters, summaries map[string]audit.Summary) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Title), needle) &&
			!strings.Contains(strings.ToLower(item.Owner.Name), needle) &&
			!strings.Contains(strings.ToLower(item.Owner.Email), needle) {
			return false
		}
	}
	if f.Status != nil && item.Status != *f.Status {
		return false
	}
	if f.AccountType != nil && item.Owner.AccountType != *f.AccountType {
		return false
	}
	if f.Source != nil && item.Source != *f.Source {
		return false
	}
	if f.Subtype != nil && item.Subtype != *f.Subtype {
		return false
	}

	if f.LastAction != nil || f.ActionTaken != nil || f.Notified != nil {
		summary := summaries[item.ID]
		if f.LastAction != nil && summary.LastAction != *f.LastAction {
			return false
		}
		if f.ActionTaken != nil && summary.ActionTaken != *f.ActionTaken {
			return false
		}
		if f.Notified != nil && summary.NotificationSent != *f.Notified {
			return false
		}
	}
	return true
}

// sortItems orders in place. Every order is stable on ties because the
// session snapshot arrives pre-sorted by id.
func sortItems(items []media.Item, order SortOrder) {
	switch order {
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UploadedAt.Before(items[j].UploadedAt)
		})
	case SortTitleAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		})
	case SortTitleDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) > strings.ToLower(items[j].Title)
		})
	case SortStatus:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Status.SortPriority() < items[j].Status.SortPriority()
		})
	default: // SortNewest
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UploadedAt.After(items[j].UploadedAt)
		})
	}
}

// Paginate slices the filtered collection, clamping past-the-end pages.
func Paginate(items []media.Item, pageNumber, pageSize int) PageResult {
	page := pagination.Params{Page: pageNumber, Size: pageSize}.Normalize(len(items))
	start, end := page.Bounds()
	return PageResult{
		Items:      items[start:end],
		TotalCount: len(items),
		Page:       page,
	}
}
