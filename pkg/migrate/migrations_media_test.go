package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDocumentsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_documents.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS documents",
		"data JSONB NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_collection_doc ON documents (collection, doc_id)",
		"DROP TABLE IF EXISTS documents",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAuditLogsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_audit_logs.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS audit_logs",
		"media_id TEXT NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_media_id ON audit_logs (media_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_owner_id ON audit_logs (owner_id)",
		"DROP TABLE IF EXISTS audit_logs",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matches %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
