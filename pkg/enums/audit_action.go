package enums

import "fmt"

// AuditAction names the recorded moderation events.
type AuditAction string

const (
	AuditActionUpload           AuditAction = "upload"
	AuditActionStatusChange     AuditAction = "status_change"
	AuditActionNotificationSent AuditAction = "notification_sent"
	AuditActionApprove          AuditAction = "approve"
	AuditActionReject           AuditAction = "reject"
	AuditActionFlag             AuditAction = "flag"
	AuditActionReview           AuditAction = "review"
	AuditActionDelete           AuditAction = "delete"
)

var validAuditActions = []AuditAction{
	AuditActionUpload,
	AuditActionStatusChange,
	AuditActionNotificationSent,
	AuditActionApprove,
	AuditActionReject,
	AuditActionFlag,
	AuditActionReview,
	AuditActionDelete,
}

// actionTakenActions are the actions that count as "an administrator acted
// on this item" for the audit-derived filters.
var actionTakenActions = map[AuditAction]bool{
	AuditActionStatusChange: true,
	AuditActionApprove:      true,
	AuditActionReject:       true,
	AuditActionFlag:         true,
	AuditActionReview:       true,
	AuditActionDelete:       true,
}

// String returns the literal string for the action.
func (a AuditAction) String() string {
	return string(a)
}

// IsValid reports whether the action is known.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsActionTaken reports whether the action counts as a moderation decision.
func (a AuditAction) IsActionTaken() bool {
	return actionTakenActions[a]
}

// ParseAuditAction converts raw input into an AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}
