package deletion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/audit"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/identity"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/moderation"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/notify"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/saga"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/docstore"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	pkgerrors "github.com/scoutdeskhq/scoutdesk-backend/pkg/errors"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/metrics"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/storage/supabase"
)

// publicObjectMarker splits a public storage URL into bucket and path.
const publicObjectMarker = "/object/public/"

// Service coordinates cascade deletion across the document store and object
// storage. Each delete runs as a saga: the document rewrite is compensable,
// storage removal is not, so the document step always runs first.
type Service struct {
	session  *moderation.Session
	store    docstore.Store
	storage  supabase.API
	audit    audit.Recorder
	notifier *notify.Dispatcher
	metrics  *metrics.ModerationMetrics
	logg     *logger.Logger
}

func NewService(
	session *moderation.Session,
	store docstore.Store,
	storage supabase.API,
	auditLog audit.Recorder,
	notifier *notify.Dispatcher,
	m *metrics.ModerationMetrics,
	logg *logger.Logger,
) *Service {
	return &Service{
		session:  session,
		store:    store,
		storage:  storage,
		audit:    auditLog,
		notifier: notifier,
		metrics:  m,
		logg:     logg,
	}
}

// FailedItem is one member of a bulk delete that did not go through.
type FailedItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// BulkResult partitions a bulk delete into completed and failed members.
type BulkResult struct {
	Succeeded []string     `json:"succeeded"`
	Failed    []FailedItem `json:"failed"`
}

// Delete removes one item everywhere it lives. On any step failure the
// completed steps are compensated and the item stays visible in the session.
// Notification is best effort and runs only after the delete committed.
func (s *Service) Delete(ctx context.Context, itemID string, notifyOwner bool, actor media.Actor) error {
	ctx = s.logg.WithMediaID(s.logg.WithActorID(ctx, actor.ID), itemID)

	item, ok := s.session.Item(itemID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "media item not found")
	}

	steps, err := s.buildSteps(item, actor)
	if err != nil {
		return err
	}
	if err := saga.Run(ctx, s.logg, steps); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade delete failed")
	}

	s.session.Remove(itemID)
	s.metrics.IncAction(enums.AuditActionDelete.String())
	s.logg.Info(ctx, "media item deleted")

	if notifyOwner && s.notifier != nil {
		if _, err := s.notifier.Dispatch(ctx, item, notify.DeletionMessage(item), actor); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("owner notification after delete failed: %v", err))
		}
	}
	return nil
}

// BulkDelete deletes each id independently, continuing past failures. The
// returned error aggregates the per-item failures for logging; the result
// carries everything a caller needs to report back.
func (s *Service) BulkDelete(ctx context.Context, ids []string, notifyOwner bool, actor media.Actor) (BulkResult, error) {
	var result BulkResult
	var errs error

	for _, id := range ids {
		title := id
		if item, ok := s.session.Item(id); ok && item.Title != "" {
			title = item.Title
		}
		if err := s.Delete(ctx, id, notifyOwner, actor); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", id, err))
			result.Failed = append(result.Failed, FailedItem{ID: id, Title: title, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, errs
}

func (s *Service) buildSteps(item media.Item, actor media.Actor) ([]saga.Step, error) {
	var steps []saga.Step

	switch item.Ref.Kind {
	case identity.ArrayField:
		steps = append(steps, s.arrayEntryStep(item))
	case identity.SingletonField:
		steps = append(steps, s.singletonFieldStep(item))
	case identity.Object:
		// Raw storage objects have no document entry to rewrite.
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item has an unrecognized backing")
	}

	if step, ok := s.storageStep(item); ok {
		steps = append(steps, step)
	}
	steps = append(steps, s.auditStep(item, actor))
	return steps, nil
}

// arrayEntryStep rewrites the owner's array without the entry. The removed
// entry and its position are captured so compensation can splice it back.
func (s *Service) arrayEntryStep(item media.Item) saga.Step {
	collection := item.Owner.Collection
	ref := item.Ref
	var original []any

	return saga.Step{
		Name: "remove-array-entry",
		Run: func(ctx context.Context) error {
			doc, err := s.store.GetDocument(ctx, collection, ref.OwnerID)
			if err != nil {
				return mapStoreError(err)
			}
			entries, ok := doc.Fields[ref.Field].([]any)
			if !ok || ref.Index < 0 || ref.Index >= len(entries) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "media entry no longer present on owner document")
			}
			original = entries

			rewritten := make([]any, 0, len(entries)-1)
			rewritten = append(rewritten, entries[:ref.Index]...)
			rewritten = append(rewritten, entries[ref.Index+1:]...)
			return mapStoreError(s.store.SetFields(ctx, collection, ref.OwnerID, map[string]any{ref.Field: rewritten}))
		},
		Compensate: func(ctx context.Context) error {
			return s.store.SetFields(ctx, collection, ref.OwnerID, map[string]any{ref.Field: original})
		},
	}
}

// singletonFieldStep nulls the field and its status companion, capturing the
// previous values for compensation.
func (s *Service) singletonFieldStep(item media.Item) saga.Step {
	collection := item.Owner.Collection
	ref := item.Ref
	statusKey := ref.Field + "_status"
	var prevValue, prevStatus any

	return saga.Step{
		Name: "clear-singleton-field",
		Run: func(ctx context.Context) error {
			doc, err := s.store.GetDocument(ctx, collection, ref.OwnerID)
			if err != nil {
				return mapStoreError(err)
			}
			prevValue = doc.Fields[ref.Field]
			prevStatus = doc.Fields[statusKey]
			return mapStoreError(s.store.SetFields(ctx, collection, ref.OwnerID, map[string]any{
				ref.Field: nil,
				statusKey: nil,
			}))
		},
		Compensate: func(ctx context.Context) error {
			return s.store.SetFields(ctx, collection, ref.OwnerID, map[string]any{
				ref.Field: prevValue,
				statusKey: prevStatus,
			})
		},
	}
}

// storageStep removes the backing object when one is resolvable. Removed
// objects cannot be restored, so the step carries no compensation and runs
// after the document rewrite.
func (s *Service) storageStep(item media.Item) (saga.Step, bool) {
	bucket, path := item.Bucket, item.Path
	if bucket == "" || path == "" {
		bucket, path = objectFromURL(item.URL)
	}
	if bucket == "" || path == "" {
		return saga.Step{}, false
	}

	return saga.Step{
		Name: "remove-storage-object",
		Run: func(ctx context.Context) error {
			return s.storage.RemoveObjects(ctx, bucket, []string{path})
		},
	}, true
}

func (s *Service) auditStep(item media.Item, actor media.Actor) saga.Step {
	before := item.Status
	return saga.Step{
		Name: "append-audit-entry",
		Run: func(ctx context.Context) error {
			return s.audit.Record(ctx, &models.AuditLog{
				MediaID:      item.ID,
				OwnerID:      item.Owner.ID,
				Action:       enums.AuditActionDelete,
				ActorID:      actor.ID,
				ActorRole:    actor.Role,
				BeforeStatus: &before,
			})
		},
	}
}

// objectFromURL resolves a public storage URL into bucket and object path.
// Anything that does not look like a public object URL resolves to nothing
// and the storage step is skipped.
func objectFromURL(rawURL string) (string, string) {
	idx := strings.Index(rawURL, publicObjectMarker)
	if idx < 0 {
		return "", ""
	}
	rest := strings.TrimPrefix(rawURL[idx+len(publicObjectMarker):], "/")
	bucket, path, found := strings.Cut(rest, "/")
	if !found || bucket == "" || path == "" {
		return "", ""
	}
	return bucket, path
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, docstore.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "owner document vanished between read and write")
	}
	return err
}
