package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	intconfig "tsharaki/internal/config"
	"tsharaki/internal/domain/models"
)

type ActivityRepository struct {
	DB *sql.DB
}

func (r ActivityRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ActivityRepository) Insert(ctx context.Context, entry models.ActivityLog) error {
	var metadata any
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadata = raw
	}

	_, err := r.db().ExecContext(ctx, `
		INSERT INTO activity_logs (id, user_id, activity_type, description, metadata, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`,
		entry.ID, entry.UserID, entry.ActivityType, entry.Description, metadata, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}
	return nil
}
