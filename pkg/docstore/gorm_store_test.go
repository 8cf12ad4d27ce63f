package docstore

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Document{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func seedDocument(t *testing.T, conn *gorm.DB, collection, id string, data types.JSONMap) {
	t.Helper()
	row := models.Document{Collection: collection, DocID: id, Data: data}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}
}

func TestGormStoreListDocuments(t *testing.T) {
	conn := openTestDB(t)
	store := NewGormStore(conn)

	seedDocument(t, conn, "players", "u2", types.JSONMap{"name": "second"})
	seedDocument(t, conn, "players", "u1", types.JSONMap{"name": "first"})
	seedDocument(t, conn, "coaches", "c1", types.JSONMap{"name": "coach"})

	docs, err := store.ListDocuments(context.Background(), "players")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 players, got %d", len(docs))
	}
	if docs[0].ID != "u1" || docs[1].ID != "u2" {
		t.Fatalf("expected stable doc_id ordering, got %s, %s", docs[0].ID, docs[1].ID)
	}
}

func TestGormStoreGetDocumentNotFound(t *testing.T) {
	store := NewGormStore(openTestDB(t))

	_, err := store.GetDocument(context.Background(), "players", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGormStoreSetFieldsMergesAndDeletes(t *testing.T) {
	conn := openTestDB(t)
	store := NewGormStore(conn)

	seedDocument(t, conn, "players", "u1", types.JSONMap{
		"name":          "first",
		"profile_image": "https://cdn.example/u1.jpg",
	})

	err := store.SetFields(context.Background(), "players", "u1", map[string]any{
		"videos":        []any{map[string]any{"url": "https://x/y.mp4", "status": "pending"}},
		"profile_image": nil,
	})
	if err != nil {
		t.Fatalf("SetFields: %v", err)
	}

	doc, err := store.GetDocument(context.Background(), "players", "u1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Fields["name"] != "first" {
		t.Fatalf("expected untouched field to survive, got %v", doc.Fields["name"])
	}
	if _, ok := doc.Fields["profile_image"]; ok {
		t.Fatal("expected nil value to delete the field")
	}
	if _, ok := doc.Fields["videos"]; !ok {
		t.Fatal("expected merged field to be written")
	}
}

func TestGormStoreSetFieldsMissingDocument(t *testing.T) {
	store := NewGormStore(openTestDB(t))

	err := store.SetFields(context.Background(), "players", "ghost", map[string]any{"x": 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
