package owners

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/moderation"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/storage/supabase"
)

// Subscriber is the receive loop the watcher consumes. Satisfied by the
// Pub/Sub subscriber handle.
type Subscriber interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

// ownerEvent is the change notice emitted when an owner document mutates.
// Pointer fields distinguish "absent" from "false".
type ownerEvent struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	IsDeleted  *bool  `json:"isDeleted"`
	IsActive   *bool  `json:"isActive"`
}

func (e ownerEvent) disabled() bool {
	if e.IsDeleted != nil && *e.IsDeleted {
		return true
	}
	if e.IsActive != nil && !*e.IsActive {
		return true
	}
	return false
}

// Watcher reacts to owner-disable events: the owner's media is excluded from
// the aggregates immediately and their storage prefixes are purged once per
// session. The purge is best effort; a failed bucket is logged and skipped.
type Watcher struct {
	session      *moderation.Session
	storage      supabase.API
	watched      map[string]bool
	videoBucket  string
	imageBuckets []string
	logg         *logger.Logger

	mu     sync.Mutex
	purged map[string]bool
}

func NewWatcher(
	session *moderation.Session,
	storage supabase.API,
	watchCollections []string,
	videoBucket string,
	imageBuckets []string,
	logg *logger.Logger,
) *Watcher {
	watched := make(map[string]bool, len(watchCollections))
	for _, collection := range watchCollections {
		watched[collection] = true
	}
	return &Watcher{
		session:      session,
		storage:      storage,
		watched:      watched,
		videoBucket:  videoBucket,
		imageBuckets: imageBuckets,
		logg:         logg,
		purged:       map[string]bool{},
	}
}

// Run consumes the subscription until the context is cancelled. Every
// message is acked; a malformed or irrelevant event is not worth a redelivery.
func (w *Watcher) Run(ctx context.Context, sub Subscriber) error {
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		w.Handle(ctx, msg.Data)
		msg.Ack()
	})
}

// Handle processes one owner event payload.
func (w *Watcher) Handle(ctx context.Context, payload []byte) {
	var event ownerEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		w.logg.Warn(ctx, fmt.Sprintf("dropping malformed owner event: %v", err))
		return
	}
	if event.ID == "" || !w.watched[event.Collection] {
		return
	}
	if !event.disabled() {
		return
	}

	ctx = w.logg.WithOwnerID(ctx, event.ID)
	w.session.DisableOwner(event.ID)

	w.mu.Lock()
	already := w.purged[event.ID]
	w.purged[event.ID] = true
	w.mu.Unlock()
	if already {
		return
	}

	w.purge(ctx, event.ID)
}

// purge removes every object under the owner's prefix in the video bucket
// and each image bucket.
func (w *Watcher) purge(ctx context.Context, ownerID string) {
	buckets := append([]string{w.videoBucket}, w.imageBuckets...)
	prefix := ownerID + "/"

	for _, bucket := range buckets {
		objects, err := w.storage.ListObjects(ctx, bucket, prefix)
		if err != nil {
			w.logg.Error(ctx, fmt.Sprintf("listing bucket %s for owner purge failed", bucket), err)
			continue
		}
		if len(objects) == 0 {
			continue
		}
		paths := make([]string, 0, len(objects))
		for _, obj := range objects {
			paths = append(paths, obj.Name)
		}
		if err := w.storage.RemoveObjects(ctx, bucket, paths); err != nil {
			w.logg.Error(ctx, fmt.Sprintf("purging bucket %s for disabled owner failed", bucket), err)
			continue
		}
		w.logg.Info(ctx, fmt.Sprintf("purged %d objects from %s", len(paths), bucket))
	}
	w.logg.Info(ctx, "disabled owner purge sweep finished")
}
