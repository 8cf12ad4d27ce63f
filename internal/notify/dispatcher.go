package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/scoutdeskhq/scoutdesk-backend/internal/audit"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/media"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	pkgerrors "github.com/scoutdeskhq/scoutdesk-backend/pkg/errors"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/metrics"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/sms"
)

// Dispatcher delivers owner notifications. SMS is the primary channel; when
// the gateway rejects the send, the fallback is a chat deep link the
// moderation frontend can surface to the administrator.
type Dispatcher struct {
	sender  sms.Sender
	audit   audit.Recorder
	metrics *metrics.ModerationMetrics
	logg    *logger.Logger
}

func NewDispatcher(sender sms.Sender, auditLog audit.Recorder, m *metrics.ModerationMetrics, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, audit: auditLog, metrics: m, logg: logg}
}

// Result reports which channel carried the notification. ChatLink is set
// only for the fallback method.
type Result struct {
	Method   enums.NotifyMethod `json:"method"`
	ChatLink string             `json:"chat_link,omitempty"`
}

// Dispatch sends the body to the item's owner and appends a
// notification_sent audit entry, separate from whatever action triggered the
// notification. An owner without a phone number is not reachable on either
// channel; the caller decides whether that is fatal.
func (d *Dispatcher) Dispatch(ctx context.Context, item media.Item, body string, actor media.Actor) (Result, error) {
	ctx = d.logg.WithMediaID(d.logg.WithOwnerID(ctx, item.Owner.ID), item.ID)

	phone := strings.TrimSpace(item.Owner.Phone)
	if phone == "" {
		d.metrics.IncNotification(enums.NotifyMethodSMS.String(), "unreachable")
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "owner has no phone number on record")
	}

	result := Result{Method: enums.NotifyMethodSMS}
	if err := d.sender.SendText(ctx, phone, body); err != nil {
		d.logg.Warn(ctx, fmt.Sprintf("sms delivery failed, falling back to chat link: %v", err))
		d.metrics.IncNotification(enums.NotifyMethodSMS.String(), "failure")

		link := sms.BuildChatLink(phone, body)
		if link == "" {
			d.metrics.IncNotification(enums.NotifyMethodChatLink.String(), "failure")
			return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "owner unreachable on every channel")
		}
		result = Result{Method: enums.NotifyMethodChatLink, ChatLink: link}
	}
	d.metrics.IncNotification(result.Method.String(), "success")

	method := result.Method.String()
	entry := &models.AuditLog{
		MediaID:   item.ID,
		OwnerID:   item.Owner.ID,
		Action:    enums.AuditActionNotificationSent,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Method:    &method,
		Note:      body,
	}
	if err := d.audit.Record(ctx, entry); err != nil {
		d.logg.Error(ctx, "recording notification audit entry failed", err)
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording notification")
	}

	return result, nil
}

// DeletionMessage builds the owner-facing body for a removed item.
func DeletionMessage(item media.Item) string {
	name := strings.TrimSpace(item.Owner.Name)
	if name == "" {
		name = "there"
	}
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "your upload"
	} else {
		title = fmt.Sprintf("%q", title)
	}
	return fmt.Sprintf(
		"Hi %s, the %s %s was removed from your profile by the moderation team. Reply to this message if you believe this was a mistake.",
		name, item.Kind.String(), title,
	)
}
