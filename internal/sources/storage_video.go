package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/identity"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/storage/supabase"
)

// VideoStorageAdapter lists the single video bucket and emits one item per
// object. Objects are keyed `{ownerId}/{filename}`; objects without an
// owner segment are skipped.
type VideoStorageAdapter struct {
	storage supabase.API
	bucket  string
	logg    *logger.Logger
}

func NewVideoStorageAdapter(storage supabase.API, bucket string, logg *logger.Logger) *VideoStorageAdapter {
	return &VideoStorageAdapter{storage: storage, bucket: bucket, logg: logg}
}

func (a *VideoStorageAdapter) Name() string {
	return "storage-video"
}

func (a *VideoStorageAdapter) Fetch(ctx context.Context, kind enums.MediaKind) ([]media.Item, int64, error) {
	if kind != enums.MediaKindVideo {
		return nil, 0, nil
	}

	objects, err := a.storage.ListObjects(ctx, a.bucket, "")
	if err != nil {
		return nil, 0, fmt.Errorf("listing bucket %s: %w", a.bucket, err)
	}

	var items []media.Item
	var totalBytes int64
	for _, obj := range objects {
		totalBytes += obj.Size

		ownerID, _, found := strings.Cut(obj.Name, "/")
		if !found || ownerID == "" {
			continue
		}

		url := a.storage.PublicURL(a.bucket, obj.Name)
		if _, ok := usableURL(url); !ok {
			continue
		}

		ref := identity.ObjectRef(a.bucket, obj.Name)
		items = append(items, media.Item{
			ID:         ref.Encode(),
			Kind:       enums.MediaKindVideo,
			Title:      filenameOf(obj.Name),
			URL:        url,
			UploadedAt: newerOf(obj.CreatedAt, obj.UpdatedAt),
			Owner: media.Owner{
				ID:          ownerID,
				AccountType: enums.AccountTypeStorage,
			},
			Status:    enums.MediaStatusPending,
			Source:    enums.SourceTypeStorage,
			SizeBytes: obj.Size,
			Ref:       ref,
			Bucket:    a.bucket,
			Path:      obj.Name,
		})
	}

	return items, totalBytes, nil
}
