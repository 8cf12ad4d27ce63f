package moderation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/sources"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/metrics"
)

// Session owns the working media collections. It is constructed at startup,
// refreshed by adapter passes, patched optimistically by moderation and
// deletion actions, and torn down with Close.
//
// Optimistic edits live in overlays keyed by item id. A refresh replaces a
// kind's collection wholesale, then reconciles the overlays: an edit whose
// effect is visible upstream is dropped, one whose backing write has not
// landed yet keeps masking the stale upstream value.
type Session struct {
	adapters []sources.Adapter
	metrics  *metrics.ModerationMetrics
	logg     *logger.Logger

	mu         sync.RWMutex
	items      map[enums.MediaKind]map[string]media.Item
	bytes      map[enums.MediaKind]int64
	disabled   map[string]bool
	statusEdit map[string]enums.MediaStatus
	tombstone  map[string]bool
	teardown   []func()
}

func NewSession(adapters []sources.Adapter, m *metrics.ModerationMetrics, logg *logger.Logger) *Session {
	return &Session{
		adapters: adapters,
		metrics:  m,
		logg:     logg,
		items: map[enums.MediaKind]map[string]media.Item{
			enums.MediaKindVideo: {},
			enums.MediaKindImage: {},
		},
		bytes:      map[enums.MediaKind]int64{},
		disabled:   map[string]bool{},
		statusEdit: map[string]enums.MediaStatus{},
		tombstone:  map[string]bool{},
	}
}

// Refresh runs every adapter for the kind and replaces the working
// collection. Adapter failures degrade the pass to partial results; the
// aggregated error is returned for reporting but the collection is still
// replaced. Id collisions across adapters resolve last-writer-wins.
func (s *Session) Refresh(ctx context.Context, kind enums.MediaKind) error {
	collected := make(map[string]media.Item)
	var totalBytes int64
	var errs error

	for _, adapter := range s.adapters {
		start := time.Now()
		items, bytes, err := adapter.Fetch(ctx, kind)
		s.metrics.ObserveRefresh(adapter.Name(), time.Since(start))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", adapter.Name(), err))
			s.metrics.IncSourceFailure(adapter.Name())
			if s.logg != nil {
				s.logg.Error(s.logg.WithSource(ctx, adapter.Name()), "source adapter pass degraded", err)
			}
		}
		if len(items) > 0 {
			s.metrics.SetItems(adapter.Name(), len(items))
		}
		for _, item := range items {
			collected[item.ID] = item
		}
		totalBytes += bytes
	}

	s.mu.Lock()
	previous := s.items[kind]
	for id, status := range s.statusEdit {
		if item, ok := collected[id]; ok {
			if item.Status == status {
				delete(s.statusEdit, id)
			}
			continue
		}
		if _, was := previous[id]; was {
			delete(s.statusEdit, id)
		}
	}
	for id := range s.tombstone {
		if _, ok := collected[id]; ok {
			continue
		}
		if _, was := previous[id]; was {
			delete(s.tombstone, id)
		}
	}
	s.items[kind] = collected
	s.bytes[kind] = totalBytes
	s.mu.Unlock()

	return errs
}

// RefreshAll refreshes both media kinds.
func (s *Session) RefreshAll(ctx context.Context) error {
	return multierr.Append(
		s.Refresh(ctx, enums.MediaKindVideo),
		s.Refresh(ctx, enums.MediaKindImage),
	)
}

// Items returns a snapshot of the kind's collection with overlays applied
// and disabled owners excluded, ordered by id for a deterministic base.
func (s *Session) Items(kind enums.MediaKind) []media.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]media.Item, 0, len(s.items[kind]))
	for id, item := range s.items[kind] {
		if s.disabled[item.Owner.ID] || s.tombstone[id] {
			continue
		}
		if status, ok := s.statusEdit[id]; ok {
			item.Status = status
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Item looks an id up across both kinds, overlays applied. Tombstoned items
// and disabled owners are not found.
func (s *Session) Item(id string) (media.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.tombstone[id] {
		return media.Item{}, false
	}
	for _, kind := range []enums.MediaKind{enums.MediaKindVideo, enums.MediaKindImage} {
		item, ok := s.items[kind][id]
		if !ok {
			continue
		}
		if s.disabled[item.Owner.ID] {
			return media.Item{}, false
		}
		if status, edited := s.statusEdit[id]; edited {
			item.Status = status
		}
		return item, true
	}
	return media.Item{}, false
}

// ApplyStatus records an optimistic status patch after a confirmed write.
func (s *Session) ApplyStatus(id string, status enums.MediaStatus) {
	s.mu.Lock()
	s.statusEdit[id] = status
	s.mu.Unlock()
}

// Remove hides an item after a confirmed deletion. The tombstone clears
// once a refresh no longer sees the item upstream.
func (s *Session) Remove(id string) {
	s.mu.Lock()
	s.tombstone[id] = true
	s.mu.Unlock()
}

// Restore clears a tombstone, making a re-inserted item visible again.
func (s *Session) Restore(id string) {
	s.mu.Lock()
	delete(s.tombstone, id)
	s.mu.Unlock()
}

// DisableOwner excludes every item of the owner from both aggregates,
// effective immediately.
func (s *Session) DisableOwner(ownerID string) {
	s.mu.Lock()
	s.disabled[ownerID] = true
	s.mu.Unlock()
}

// OwnerDisabled reports whether the owner is currently excluded.
func (s *Session) OwnerDisabled(ownerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disabled[ownerID]
}

// TotalBytes reports the byte total the last pass observed for the kind.
func (s *Session) TotalBytes(kind enums.MediaKind) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bytes[kind]
}

// OnClose registers a teardown hook, typically a subscription cancel.
func (s *Session) OnClose(fn func()) {
	s.mu.Lock()
	s.teardown = append(s.teardown, fn)
	s.mu.Unlock()
}

// Close tears the session down, unsubscribing live listeners. In-flight
// calls are not aborted and must tolerate landing after close.
func (s *Session) Close() {
	s.mu.Lock()
	hooks := s.teardown
	s.teardown = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
