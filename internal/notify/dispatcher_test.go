package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	pkgerrors "github.com/scoutdeskhq/scoutdesk-backend/pkg/errors"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
)

type stubSender struct {
	err   error
	calls []string
}

func (s *stubSender) SendText(ctx context.Context, phone, message string) error {
	s.calls = append(s.calls, phone)
	return s.err
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

func notifyItem() media.Item {
	return media.Item{
		ID:    "p1_videos_0",
		Kind:  enums.MediaKindVideo,
		Title: "Match Highlights",
		Owner: media.Owner{ID: "p1", Name: "Karim", Phone: "+20 100 555 0101"},
	}
}

func testDispatcher(sender *stubSender, recorder *stubRecorder) *Dispatcher {
	return NewDispatcher(sender, recorder, nil, logger.New(logger.Options{ServiceName: "test"}))
}

func TestDispatchDeliversSMS(t *testing.T) {
	sender := &stubSender{}
	recorder := &stubRecorder{}
	d := testDispatcher(sender, recorder)

	result, err := d.Dispatch(context.Background(), notifyItem(), "body", media.Actor{ID: "admin-1", Role: "moderator"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Method != enums.NotifyMethodSMS || result.ChatLink != "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(sender.calls) != 1 || sender.calls[0] != "+20 100 555 0101" {
		t.Fatalf("unexpected sender calls %v", sender.calls)
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.Action != enums.AuditActionNotificationSent {
		t.Fatalf("unexpected action %s", entry.Action)
	}
	if entry.Method == nil || *entry.Method != "sms" {
		t.Fatalf("unexpected method %v", entry.Method)
	}
	if entry.MediaID != "p1_videos_0" || entry.OwnerID != "p1" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestDispatchFallsBackToChatLink(t *testing.T) {
	sender := &stubSender{err: errors.New("gateway rejected")}
	recorder := &stubRecorder{}
	d := testDispatcher(sender, recorder)

	result, err := d.Dispatch(context.Background(), notifyItem(), "hello there", media.Actor{ID: "admin-1"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Method != enums.NotifyMethodChatLink {
		t.Fatalf("expected chat-link fallback, got %s", result.Method)
	}
	if !strings.HasPrefix(result.ChatLink, "https://wa.me/201005550101?text=") {
		t.Fatalf("unexpected chat link %s", result.ChatLink)
	}
	if len(recorder.entries) != 1 || *recorder.entries[0].Method != "whatsapp_link" {
		t.Fatalf("expected fallback method recorded, got %v", recorder.entries)
	}
}

func TestDispatchWithoutPhone(t *testing.T) {
	sender := &stubSender{}
	recorder := &stubRecorder{}
	d := testDispatcher(sender, recorder)

	item := notifyItem()
	item.Owner.Phone = "  "
	_, err := d.Dispatch(context.Background(), item, "body", media.Actor{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(sender.calls) != 0 {
		t.Fatal("expected no send attempt without a phone")
	}
	if len(recorder.entries) != 0 {
		t.Fatal("expected no audit entry without an attempt")
	}
}

func TestDispatchAuditFailure(t *testing.T) {
	sender := &stubSender{}
	recorder := &stubRecorder{recordErr: errors.New("log store down")}
	d := testDispatcher(sender, recorder)

	result, err := d.Dispatch(context.Background(), notifyItem(), "body", media.Actor{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	// The message went out; the caller still learns which channel carried it.
	if result.Method != enums.NotifyMethodSMS {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestDeletionMessage(t *testing.T) {
	msg := DeletionMessage(notifyItem())
	if !strings.Contains(msg, "Karim") || !strings.Contains(msg, `"Match Highlights"`) || !strings.Contains(msg, "video") {
		t.Fatalf("unexpected message %q", msg)
	}

	anon := DeletionMessage(media.Item{Kind: enums.MediaKindImage})
	if !strings.Contains(anon, "Hi there,") || !strings.Contains(anon, "your upload") {
		t.Fatalf("unexpected fallback message %q", anon)
	}
}
