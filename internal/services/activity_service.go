package services

import (
	"context"

	"tsharaki/internal/domain/models"
	"tsharaki/internal/repositories"
	"tsharaki/internal/utils"

	"github.com/google/uuid"
)

// ActivityService records audit entries. Logging is best-effort: a failed
// write never fails the operation that triggered it.
type ActivityService struct {
	ActivityRepo repositories.ActivityRepository
	RequestID    string
}

func (s ActivityService) Log(ctx context.Context, userID, activityType, description string, metadata map[string]any) {
	if userID == "" || activityType == "" {
		return
	}
	entry := models.ActivityLog{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		Metadata:     metadata,
		CreatedAt:    utils.NowUTC(),
	}
	if err := s.ActivityRepo.Insert(ctx, entry); err != nil {
		utils.LogEvent(s.RequestID, "activity", "log_failed", err.Error())
	}
}
