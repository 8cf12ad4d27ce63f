package deletion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/identity"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/moderation"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/sources"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/docstore"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	pkgerrors "github.com/scoutdeskhq/scoutdesk-backend/pkg/errors"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/storage/supabase"
)

type seedAdapter struct {
	items map[enums.MediaKind][]media.Item
}

func (a *seedAdapter) Name() string { return "seed" }

func (a *seedAdapter) Fetch(ctx context.Context, kind enums.MediaKind) ([]media.Item, int64, error) {
	return a.items[kind], 0, nil
}

type stubDocStore struct {
	docs map[string]map[string]map[string]any
}

func (s *stubDocStore) ListDocuments(ctx context.Context, collection string) ([]docstore.Document, error) {
	return nil, nil
}

func (s *stubDocStore) GetDocument(ctx context.Context, collection, id string) (*docstore.Document, error) {
	fields, ok := s.docs[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &docstore.Document{ID: id, Fields: fields}, nil
}

func (s *stubDocStore) SetFields(ctx context.Context, collection, id string, fields map[string]any) error {
	doc, ok := s.docs[collection][id]
	if !ok {
		return docstore.ErrNotFound
	}
	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	return nil
}

type stubStorage struct {
	removed   map[string][]string
	removeErr error
}

func (s *stubStorage) ListObjects(ctx context.Context, bucket, prefix string) ([]supabase.Object, error) {
	return nil, nil
}

func (s *stubStorage) RemoveObjects(ctx context.Context, bucket string, paths []string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	if s.removed == nil {
		s.removed = map[string][]string{}
	}
	s.removed[bucket] = append(s.removed[bucket], paths...)
	return nil
}

func (s *stubStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("https://proj.supabase.co/storage/v1/object/public/%s/%s", bucket, path)
}

type stubRecorder struct {
	entries   []*models.AuditLog
	recordErr error
}

func (s *stubRecorder) Record(ctx context.Context, entry *models.AuditLog) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func docVideo(ownerID string, index int, title string) media.Item {
	ref := identity.ArrayFieldRef(ownerID, "videos", index)
	return media.Item{
		ID:     ref.Encode(),
		Kind:   enums.MediaKindVideo,
		Title:  title,
		URL:    fmt.Sprintf("https://x/%s/%d", ownerID, index),
		Owner:  media.Owner{ID: ownerID, Collection: "players", AccountType: enums.AccountTypePlayer},
		Status: enums.MediaStatusPending,
		Source: enums.SourceTypeExternal,
		Ref:    ref,
	}
}

func seedSession(t *testing.T, items ...media.Item) *moderation.Session {
	t.Helper()
	byKind := map[enums.MediaKind][]media.Item{}
	for _, item := range items {
		byKind[item.Kind] = append(byKind[item.Kind], item)
	}
	session := moderation.NewSession([]sources.Adapter{&seedAdapter{items: byKind}}, nil, nil)
	if err := session.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	return session
}

func testService(session *moderation.Session, store *stubDocStore, storage *stubStorage, recorder *stubRecorder) *Service {
	return NewService(session, store, storage, recorder, nil, nil, logger.New(logger.Options{ServiceName: "test"}))
}

func TestDeleteRemovesArrayEntryAndObject(t *testing.T) {
	store := &stubDocStore{docs: map[string]map[string]map[string]any{
		"players": {
			"p1": {"videos": []any{
				map[string]any{"title": "first", "url": "https://proj.supabase.co/storage/v1/object/public/videos/p1/first.mp4"},
				map[string]any{"title": "second", "url": "https://x/2"},
			}},
		},
	}}
	storage := &stubStorage{}
	recorder := &stubRecorder{}

	item := docVideo("p1", 0, "first")
	item.URL = "https://proj.supabase.co/storage/v1/object/public/videos/p1/first.mp4"
	session := seedSession(t, item, docVideo("p1", 1, "second"))
	svc := testService(session, store, storage, recorder)

	if err := svc.Delete(context.Background(), item.ID, false, media.Actor{ID: "admin-1"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	entries := store.docs["players"]["p1"]["videos"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected one entry left, got %d", len(entries))
	}
	if entries[0].(map[string]any)["title"] != "second" {
		t.Fatalf("wrong entry removed: %v", entries[0])
	}
	if got := storage.removed["videos"]; len(got) != 1 || got[0] != "p1/first.mp4" {
		t.Fatalf("unexpected storage removals %v", storage.removed)
	}

	if len(recorder.entries) != 1 || recorder.entries[0].Action != enums.AuditActionDelete {
		t.Fatalf("unexpected audit entries %v", recorder.entries)
	}
	if recorder.entries[0].ActorID != "admin-1" {
		t.Fatalf("unexpected actor %s", recorder.entries[0].ActorID)
	}

	if _, ok := session.Item(item.ID); ok {
		t.Fatal("expected item hidden from the session")
	}
}

func TestDeleteCompensatesOnStorageFailure(t *testing.T) {
	store := &stubDocStore{docs: map[string]map[string]map[string]any{
		"players": {
			"p1": {"videos": []any{map[string]any{"title": "only"}}},
		},
	}}
	storage := &stubStorage{removeErr: errors.New("storage down")}
	recorder := &stubRecorder{}

	item := docVideo("p1", 0, "only")
	item.Bucket = "videos"
	item.Path = "p1/only.mp4"
	session := seedSession(t, item)
	svc := testService(session, store, storage, recorder)

	err := svc.Delete(context.Background(), item.ID, false, media.Actor{})
	if err == nil {
		t.Fatal("expected failure surfaced")
	}

	// The compensating write put the entry back.
	entries := store.docs["players"]["p1"]["videos"].([]any)
	if len(entries) != 1 || entries[0].(map[string]any)["title"] != "only" {
		t.Fatalf("expected entry re-inserted, got %v", entries)
	}
	if len(recorder.entries) != 0 {
		t.Fatal("expected no audit entry for a failed delete")
	}
	if _, ok := session.Item(item.ID); !ok {
		t.Fatal("expected item still visible after failed delete")
	}
}

func TestDeleteClearsSingletonField(t *testing.T) {
	store := &stubDocStore{docs: map[string]map[string]map[string]any{
		"trainers": {
			"c1": {
				"profile_image":        "https://cdn/x.png",
				"profile_image_status": "approved",
			},
		},
	}}
	recorder := &stubRecorder{}

	ref := identity.SingletonFieldRef("c1", "profile_image")
	item := media.Item{
		ID:      ref.Encode(),
		Kind:    enums.MediaKindImage,
		URL:     "https://cdn/x.png",
		Owner:   media.Owner{ID: "c1", Collection: "trainers", AccountType: enums.AccountTypeTrainer},
		Status:  enums.MediaStatusApproved,
		Source:  enums.SourceTypeExternal,
		Subtype: enums.ImageSubtypeProfile,
		Ref:     ref,
	}
	session := seedSession(t, item)
	svc := testService(session, store, &stubStorage{}, recorder)

	if err := svc.Delete(context.Background(), item.ID, false, media.Actor{}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	doc := store.docs["trainers"]["c1"]
	if _, ok := doc["profile_image"]; ok {
		t.Fatal("expected field cleared")
	}
	if _, ok := doc["profile_image_status"]; ok {
		t.Fatal("expected status companion cleared")
	}
}

func TestDeleteStorageOnlyItem(t *testing.T) {
	storage := &stubStorage{}
	recorder := &stubRecorder{}

	ref := identity.ObjectRef("videos", "u9/clip.mp4")
	item := media.Item{
		ID:     ref.Encode(),
		Kind:   enums.MediaKindVideo,
		Owner:  media.Owner{ID: "u9", AccountType: enums.AccountTypeStorage},
		Status: enums.MediaStatusPending,
		Source: enums.SourceTypeStorage,
		Ref:    ref,
		Bucket: "videos",
		Path:   "u9/clip.mp4",
	}
	session := seedSession(t, item)
	svc := testService(session, &stubDocStore{}, storage, recorder)

	if err := svc.Delete(context.Background(), item.ID, false, media.Actor{}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := storage.removed["videos"]; len(got) != 1 || got[0] != "u9/clip.mp4" {
		t.Fatalf("unexpected removals %v", storage.removed)
	}
	if len(recorder.entries) != 1 {
		t.Fatalf("expected audit entry, got %d", len(recorder.entries))
	}
}

func TestDeleteUnknownItem(t *testing.T) {
	svc := testService(seedSession(t), &stubDocStore{}, &stubStorage{}, &stubRecorder{})
	err := svc.Delete(context.Background(), "missing", false, media.Actor{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestBulkDeleteContinuesPastFailures(t *testing.T) {
	store := &stubDocStore{docs: map[string]map[string]map[string]any{
		"players": {
			"p1": {"videos": []any{map[string]any{"title": "one"}}},
			"p3": {"videos": []any{map[string]any{"title": "three"}}},
		},
	}}
	recorder := &stubRecorder{}

	one := docVideo("p1", 0, "one")
	two := docVideo("p2", 0, "two") // owner document is missing upstream
	three := docVideo("p3", 0, "three")
	session := seedSession(t, one, two, three)
	svc := testService(session, store, &stubStorage{}, recorder)

	result, err := svc.BulkDelete(context.Background(), []string{one.ID, two.ID, three.ID}, false, media.Actor{})
	if err == nil {
		t.Fatal("expected aggregated error for the failed member")
	}

	if len(result.Succeeded) != 2 || result.Succeeded[0] != one.ID || result.Succeeded[1] != three.ID {
		t.Fatalf("unexpected succeeded %v", result.Succeeded)
	}
	if len(result.Failed) != 1 || result.Failed[0].ID != two.ID || result.Failed[0].Title != "two" {
		t.Fatalf("unexpected failed %v", result.Failed)
	}

	// The failed member stays visible; the deleted ones do not.
	if _, ok := session.Item(two.ID); !ok {
		t.Fatal("expected failed member still visible")
	}
	if _, ok := session.Item(one.ID); ok {
		t.Fatal("expected deleted member hidden")
	}
	if len(recorder.entries) != 2 {
		t.Fatalf("expected two audit entries, got %d", len(recorder.entries))
	}
}

func TestObjectFromURL(t *testing.T) {
	bucket, path := objectFromURL("https://proj.supabase.co/storage/v1/object/public/profile-images/u1/a.png")
	if bucket != "profile-images" || path != "u1/a.png" {
		t.Fatalf("unexpected parse %s %s", bucket, path)
	}
	if b, p := objectFromURL("https://elsewhere.example/u1/a.png"); b != "" || p != "" {
		t.Fatalf("expected foreign URL skipped, got %s %s", b, p)
	}
}
