package sources

import (
	"context"
	"fmt"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/identity"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/docstore"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
)

// DocumentAdapter walks the configured owner collections and emits one item
// per media entry found on each document.
type DocumentAdapter struct {
	store          docstore.Store
	collections    []string
	storageMarkers []string
	logg           *logger.Logger
}

func NewDocumentAdapter(store docstore.Store, collections, storageMarkers []string, logg *logger.Logger) *DocumentAdapter {
	return &DocumentAdapter{
		store:          store,
		collections:    collections,
		storageMarkers: storageMarkers,
		logg:           logg,
	}
}

func (a *DocumentAdapter) Name() string {
	return "document"
}

// Fetch lists every configured collection. A collection that fails to list
// is logged and skipped; the pass continues with what the rest produced.
func (a *DocumentAdapter) Fetch(ctx context.Context, kind enums.MediaKind) ([]media.Item, int64, error) {
	var items []media.Item
	var failed []string

	for _, collection := range a.collections {
		docs, err := a.store.ListDocuments(ctx, collection)
		if err != nil {
			failed = append(failed, collection)
			if a.logg != nil {
				a.logg.Error(a.logg.WithSource(ctx, a.Name()), fmt.Sprintf("listing collection %s failed", collection), err)
			}
			continue
		}

		for _, doc := range docs {
			if ownerDisabled(doc.Fields) {
				continue
			}
			owner := ownerFromDocument(doc, collection)
			switch kind {
			case enums.MediaKindVideo:
				items = append(items, a.videoItems(doc, owner)...)
			case enums.MediaKindImage:
				items = append(items, a.imageItems(doc, owner)...)
			}
		}
	}

	if len(failed) > 0 {
		return items, 0, fmt.Errorf("document adapter: %d collection(s) unavailable: %v", len(failed), failed)
	}
	return items, 0, nil
}

func (a *DocumentAdapter) videoItems(doc docstore.Document, owner media.Owner) []media.Item {
	var items []media.Item
	for _, field := range videoArrayFields {
		entries, ok := doc.Fields[field].([]any)
		if !ok {
			continue
		}
		for i, raw := range entries {
			entry, usable := decodeEntry(raw)
			if !usable {
				continue
			}
			ref := identity.ArrayFieldRef(doc.ID, field, i)
			items = append(items, media.Item{
				ID:           ref.Encode(),
				Kind:         enums.MediaKindVideo,
				Title:        entry.Title,
				Description:  entry.Description,
				URL:          entry.URL,
				ThumbnailURL: entry.ThumbnailURL,
				UploadedAt:   entry.UploadedAt,
				Owner:        owner,
				Status:       entry.Status,
				Views:        entry.Views,
				Likes:        entry.Likes,
				Comments:     entry.Comments,
				Source:       sniffVideoSource(entry.URL, a.storageMarkers),
				Ref:          ref,
			})
		}
	}
	return items
}

func (a *DocumentAdapter) imageItems(doc docstore.Document, owner media.Owner) []media.Item {
	var items []media.Item

	for _, field := range imageArrayFields {
		entries, ok := doc.Fields[field].([]any)
		if !ok {
			continue
		}
		for i, raw := range entries {
			entry, usable := decodeEntry(raw)
			if !usable {
				continue
			}
			ref := identity.ArrayFieldRef(doc.ID, field, i)
			items = append(items, media.Item{
				ID:          ref.Encode(),
				Kind:        enums.MediaKindImage,
				Title:       entry.Title,
				Description: entry.Description,
				URL:         entry.URL,
				UploadedAt:  entry.UploadedAt,
				Owner:       owner,
				Status:      entry.Status,
				Views:       entry.Views,
				Likes:       entry.Likes,
				Comments:    entry.Comments,
				Source:      enums.SourceTypeDocument,
				Subtype:     identity.SubtypeForField(field, true),
				Ref:         ref,
			})
		}
	}

	for _, single := range decodeSingletons(doc.Fields) {
		ref := identity.SingletonFieldRef(doc.ID, single.Field)
		items = append(items, media.Item{
			ID:         ref.Encode(),
			Kind:       enums.MediaKindImage,
			Title:      single.Field,
			URL:        single.URL,
			UploadedAt: firstTime(doc.Fields, "updated_at", "createdAt"),
			Owner:      owner,
			Status:     single.Status,
			Source:     enums.SourceTypeDocument,
			Subtype:    identity.SubtypeForField(single.Field, false),
			Ref:        ref,
		})
	}

	return items
}
