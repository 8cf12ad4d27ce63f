package audit

import (
	"context"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db/models"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/enums"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
)

// Recorder is the append surface handed to the moderation, deletion and
// notification services.
type Recorder interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}

// Summary is the per-item digest the query engine filters on, computed from
// the trail instead of scanning the raw log per item.
type Summary struct {
	LastAction       enums.AuditAction `json:"last_action"`
	ActionTaken      bool              `json:"action_taken"`
	NotificationSent bool              `json:"notification_sent"`
}

type Service struct {
	repo *Repo
	logg *logger.Logger
}

func NewService(repo *Repo, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Record appends one entry to the trail.
func (s *Service) Record(ctx context.Context, entry *models.AuditLog) error {
	return s.repo.Insert(ctx, entry)
}

// Trail returns the full history for one item, oldest first.
func (s *Service) Trail(ctx context.Context, mediaID string) ([]models.AuditLog, error) {
	return s.repo.ListByMedia(ctx, mediaID)
}

// Summaries folds the whole log into one digest per media id.
func (s *Service) Summaries(ctx context.Context) (map[string]Summary, error) {
	entries, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]Summary)
	for _, entry := range entries {
		summary := summaries[entry.MediaID]
		summary.LastAction = entry.Action
		if entry.Action.IsActionTaken() {
			summary.ActionTaken = true
		}
		if entry.Action == enums.AuditActionNotificationSent {
			summary.NotificationSent = true
		}
		summaries[entry.MediaID] = summary
	}
	return summaries, nil
}
