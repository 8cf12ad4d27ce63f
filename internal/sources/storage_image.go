package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/identity"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/storage/supabase"
)

// imageExtensions are the object suffixes treated as images. Everything
// else in an image bucket (docs, placeholders) is ignored.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// ImageStorageAdapter lists every configured image bucket and emits one
// item per image object, classifying subtype from the bucket name.
type ImageStorageAdapter struct {
	storage supabase.API
	buckets []string
	logg    *logger.Logger
}

func NewImageStorageAdapter(storage supabase.API, buckets []string, logg *logger.Logger) *ImageStorageAdapter {
	return &ImageStorageAdapter{storage: storage, buckets: buckets, logg: logg}
}

func (a *ImageStorageAdapter) Name() string {
	return "storage-image"
}

// Fetch continues past buckets that fail to list and reports them together
// at the end so the aggregator can degrade to a partial pass.
func (a *ImageStorageAdapter) Fetch(ctx context.Context, kind enums.MediaKind) ([]media.Item, int64, error) {
	if kind != enums.MediaKindImage {
		return nil, 0, nil
	}

	var items []media.Item
	var totalBytes int64
	var errs error

	for _, bucket := range a.buckets {
		objects, err := a.storage.ListObjects(ctx, bucket, "")
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("listing bucket %s: %w", bucket, err))
			if a.logg != nil {
				a.logg.Error(a.logg.WithSource(ctx, a.Name()), fmt.Sprintf("listing bucket %s failed", bucket), err)
			}
			continue
		}

		for _, obj := range objects {
			if !hasImageExtension(obj.Name) {
				continue
			}
			totalBytes += obj.Size

			url := a.storage.PublicURL(bucket, obj.Name)
			if _, ok := usableURL(url); !ok {
				continue
			}

			ref := identity.ObjectRef("img_"+bucket, obj.Name)
			items = append(items, media.Item{
				ID:         ref.Encode(),
				Kind:       enums.MediaKindImage,
				Title:      filenameOf(obj.Name),
				URL:        url,
				UploadedAt: newerOf(obj.CreatedAt, obj.UpdatedAt),
				Owner: media.Owner{
					ID:          ownerFromPath(obj.Name),
					AccountType: enums.AccountTypeStorage,
				},
				Status:    enums.MediaStatusPending,
				Source:    enums.SourceTypeStorage,
				Subtype:   identity.SubtypeForBucket(bucket),
				SizeBytes: obj.Size,
				Ref:       ref,
				Bucket:    bucket,
				Path:      obj.Name,
			})
		}
	}

	return items, totalBytes, errs
}

func hasImageExtension(name string) bool {
	lowered := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

// ownerFromPath derives the owner id from the path prefix, or the filename
// stem when the object sits at the bucket root. Never empty.
func ownerFromPath(path string) string {
	if prefix, _, found := strings.Cut(path, "/"); found && prefix != "" {
		return prefix
	}
	stem := path
	if dot := strings.LastIndexByte(stem, '.'); dot > 0 {
		stem = stem[:dot]
	}
	if stem == "" {
		return identity.UnknownOwner
	}
	return stem
}

func filenameOf(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func newerOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
