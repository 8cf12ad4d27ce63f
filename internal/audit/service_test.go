package audit

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
)

func openTestService(t *testing.T) *Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(NewRepo(conn), nil)
}

func record(t *testing.T, svc *Service, mediaID string, action enums.AuditAction, at time.Time) {
	t.Helper()
	err := svc.Record(context.Background(), &models.AuditLog{
		MediaID:   mediaID,
		OwnerID:   "u1",
		Action:    action,
		ActorID:   "admin-1",
		ActorRole: "admin",
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestTrailOrderedOldestFirst(t *testing.T) {
	svc := openTestService(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	record(t, svc, "m1", enums.AuditActionUpload, base)
	record(t, svc, "m1", enums.AuditActionApprove, base.Add(time.Minute))
	record(t, svc, "m2", enums.AuditActionFlag, base)

	trail, err := svc.Trail(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Trail: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(trail))
	}
	if trail[0].Action != enums.AuditActionUpload || trail[1].Action != enums.AuditActionApprove {
		t.Fatalf("unexpected order %s, %s", trail[0].Action, trail[1].Action)
	}
	if trail[0].ID == trail[1].ID {
		t.Fatal("expected distinct entry ids")
	}
}

func TestSummariesFold(t *testing.T) {
	svc := openTestService(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	record(t, svc, "m1", enums.AuditActionUpload, base)
	record(t, svc, "m1", enums.AuditActionApprove, base.Add(time.Minute))
	record(t, svc, "m1", enums.AuditActionNotificationSent, base.Add(2*time.Minute))
	record(t, svc, "m2", enums.AuditActionUpload, base)

	summaries, err := svc.Summaries(context.Background())
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}

	m1 := summaries["m1"]
	if m1.LastAction != enums.AuditActionNotificationSent {
		t.Fatalf("unexpected last action %s", m1.LastAction)
	}
	if !m1.ActionTaken || !m1.NotificationSent {
		t.Fatalf("unexpected summary %+v", m1)
	}

	m2 := summaries["m2"]
	if m2.ActionTaken || m2.NotificationSent {
		t.Fatalf("expected untouched summary, got %+v", m2)
	}
	if m2.LastAction != enums.AuditActionUpload {
		t.Fatalf("unexpected last action %s", m2.LastAction)
	}
}
