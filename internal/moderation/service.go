package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/audit"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/identity"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/docstore"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	pkgerrors "github.com/scoutdeskhq/scoutdesk-backend/pkg/errors"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/metrics"
)

// statusFieldSuffix mirrors the companion key the document adapter reads
// moderation status from for single-valued image fields.
const statusFieldSuffix = "_status"

// AuditLog is the audit surface the moderation service depends on.
type AuditLog interface {
	Record(ctx context.Context, entry *models.AuditLog) error
	Trail(ctx context.Context, mediaID string) ([]models.AuditLog, error)
	Summaries(ctx context.Context) (map[string]audit.Summary, error)
}

// Service is the moderation state machine plus the read path over the
// session's aggregate.
type Service struct {
	session  *Session
	store    docstore.Store
	audit    AuditLog
	metrics  *metrics.ModerationMetrics
	logg     *logger.Logger
	pageSize int
}

func NewService(session *Session, store docstore.Store, auditLog AuditLog, m *metrics.ModerationMetrics, logg *logger.Logger, pageSize int) *Service {
	return &Service{
		session:  session,
		store:    store,
		audit:    auditLog,
		metrics:  m,
		logg:     logg,
		pageSize: pageSize,
	}
}

// Session exposes the underlying aggregate for collaborators (deletion,
// owner watcher, boot refresh).
func (s *Service) Session() *Session {
	return s.session
}

// GetPage evaluates filters and sorting over the kind's snapshot and
// returns one page plus the pre-pagination total. Audit digests are loaded
// only when an audit-derived filter is present.
func (s *Service) GetPage(ctx context.Context, req PageRequest) (PageResult, error) {
	var summaries map[string]audit.Summary
	if req.Filters.NeedsAuditSummaries() {
		loaded, err := s.audit.Summaries(ctx)
		if err != nil {
			return PageResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading audit summaries")
		}
		summaries = loaded
	}

	filtered := Apply(s.session.Items(req.Kind), req.Filters, req.Sort, summaries)
	return Paginate(filtered, req.Page, s.pageSize), nil
}

// Trail returns the audit history for one item.
func (s *Service) Trail(ctx context.Context, mediaID string) ([]models.AuditLog, error) {
	entries, err := s.audit.Trail(ctx, mediaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading audit trail")
	}
	return entries, nil
}

// transitionActions maps the target status to the recorded action.
var transitionActions = map[enums.MediaStatus]enums.AuditAction{
	enums.MediaStatusApproved: enums.AuditActionApprove,
	enums.MediaStatusRejected: enums.AuditActionReject,
	enums.MediaStatusFlagged:  enums.AuditActionFlag,
	enums.MediaStatusPending:  enums.AuditActionReview,
}

// Transition moves one item to a new status: rewrite the status into the
// owning document, append an audit entry, then patch the in-memory copy.
// Re-transitioning to the current status still writes and logs. Failures
// are independent per item; nothing here blocks another item's transition.
func (s *Service) Transition(ctx context.Context, itemID string, newStatus enums.MediaStatus, actor media.Actor, note string) (media.Item, error) {
	ctx = s.logg.WithMediaID(ctx, itemID)

	item, ok := s.session.Item(itemID)
	if !ok {
		return media.Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
	}
	if !newStatus.IsValid() {
		return media.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}
	if !item.DocumentBacked() {
		return media.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "storage-only items carry no moderation status")
	}
	collection := item.Owner.Collection
	if collection == "" {
		return media.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "item has no owning collection")
	}

	before := item.Status
	if err := s.writeStatus(ctx, collection, item.Ref, newStatus); err != nil {
		s.logg.Error(ctx, "status write failed", err)
		return media.Item{}, err
	}

	item.Status = newStatus
	s.session.ApplyStatus(itemID, newStatus)
	s.metrics.IncAction(string(transitionActions[newStatus]))

	entry := &models.AuditLog{
		MediaID:      itemID,
		OwnerID:      item.Owner.ID,
		Action:       transitionActions[newStatus],
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		BeforeStatus: &before,
		AfterStatus:  &newStatus,
		Note:         note,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		// The upstream write landed; the trail is now behind it.
		s.logg.Error(ctx, "audit append failed after status write", err)
		return item, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording audit entry")
	}

	return item, nil
}

// writeStatus rewrites the status into the owning document. Array entries
// require rewriting the whole array; single-element updates are not
// supported by the store.
func (s *Service) writeStatus(ctx context.Context, collection string, ref identity.Ref, status enums.MediaStatus) error {
	switch ref.Kind {
	case identity.ArrayField:
		doc, err := s.store.GetDocument(ctx, collection, ref.OwnerID)
		if err != nil {
			return mapStoreError(err, "owner document")
		}
		entries, ok := doc.Fields[ref.Field].([]any)
		if !ok || ref.Index < 0 || ref.Index >= len(entries) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media entry no longer present on owner document")
		}
		entry, ok := entries[ref.Index].(map[string]any)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "media entry shape changed upstream")
		}

		rewritten := make([]any, len(entries))
		copy(rewritten, entries)
		patched := make(map[string]any, len(entry)+1)
		for k, v := range entry {
			patched[k] = v
		}
		patched["status"] = status.String()
		rewritten[ref.Index] = patched

		err = s.store.SetFields(ctx, collection, ref.OwnerID, map[string]any{ref.Field: rewritten})
		return mapStoreError(err, "owner document")

	case identity.SingletonField:
		if _, err := s.store.GetDocument(ctx, collection, ref.OwnerID); err != nil {
			return mapStoreError(err, "owner document")
		}
		err := s.store.SetFields(ctx, collection, ref.OwnerID, map[string]any{
			ref.Field + statusFieldSuffix: status.String(),
		})
		return mapStoreError(err, "owner document")

	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "item is not document backed")
	}
}

func mapStoreError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, docstore.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s vanished between read and write", what))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "document store write")
}

// StorageReport returns the byte totals the last aggregation pass observed.
func (s *Service) StorageReport() map[string]int64 {
	return map[string]int64{
		enums.MediaKindVideo.String(): s.session.TotalBytes(enums.MediaKindVideo),
		enums.MediaKindImage.String(): s.session.TotalBytes(enums.MediaKindImage),
	}
}
