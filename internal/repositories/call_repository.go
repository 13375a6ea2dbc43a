package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intconfig "tsharaki/internal/config"
	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
)

type CallRepository struct {
	DB *sql.DB
}

func (r CallRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r CallRepository) CreateRequest(ctx context.Context, req models.CallRequest) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO call_requests (id, user_id, language, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		req.ID, req.UserID, req.Language, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert call request: %w", err)
	}
	return nil
}

func (r CallRepository) GetRequest(ctx context.Context, id string) (models.CallRequest, error) {
	var req models.CallRequest
	err := r.db().QueryRowContext(ctx, `
		SELECT id, user_id, language, status, created_at, updated_at
		FROM call_requests WHERE id = $1`, id,
	).Scan(&req.ID, &req.UserID, &req.Language, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.CallRequest{}, domain.NotFoundError{Resource: "call request"}
	}
	if err != nil {
		return models.CallRequest{}, fmt.Errorf("failed to load call request: %w", err)
	}
	return req, nil
}

// ConnectRequest marks a waiting request connected and opens the call row
// in one transaction.
func (r CallRepository) ConnectRequest(ctx context.Context, requestID string, call models.Call) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE call_requests SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		domain.CallConnected, call.StartedAt, requestID, domain.CallWaiting,
	)
	if err != nil {
		return fmt.Errorf("failed to update call request: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ConflictError{Resource: "call request", Msg: "request is not waiting"}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO calls (id, caller_id, callee_id, language, status, room_id, started_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		call.ID, call.CallerID, call.CalleeID, call.Language, call.Status, call.RoomID, call.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert call: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r CallRepository) GetCall(ctx context.Context, id string) (models.Call, error) {
	var c models.Call
	var roomID sql.NullString
	var endedAt sql.NullTime
	var duration sql.NullInt64
	err := r.db().QueryRowContext(ctx, `
		SELECT id, caller_id, callee_id, language, status, room_id, started_at, ended_at, duration_seconds
		FROM calls WHERE id = $1`, id,
	).Scan(&c.ID, &c.CallerID, &c.CalleeID, &c.Language, &c.Status, &roomID, &c.StartedAt, &endedAt, &duration)
	if err == sql.ErrNoRows {
		return models.Call{}, domain.NotFoundError{Resource: "call"}
	}
	if err != nil {
		return models.Call{}, fmt.Errorf("failed to load call: %w", err)
	}
	c.RoomID = roomID.String
	if endedAt.Valid {
		t := endedAt.Time
		c.EndedAt = &t
	}
	c.DurationSeconds = int(duration.Int64)
	return c, nil
}

func (r CallRepository) EndCall(ctx context.Context, id string, endedAt time.Time, durationSeconds int) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE calls SET status = $1, ended_at = $2, duration_seconds = $3
		WHERE id = $4 AND status = $5`,
		domain.CallEnded, endedAt, durationSeconds, id, domain.CallConnected,
	)
	if err != nil {
		return fmt.Errorf("failed to end call: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ConflictError{Resource: "call", Msg: "call is not connected"}
	}
	return nil
}

// CreateFeedback stores the rating and folds it into the reviewee's
// running mean in the same transaction.
func (r CallRepository) CreateFeedback(ctx context.Context, fb models.CallFeedback) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO call_feedback (id, call_id, reviewer_id, reviewee_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		fb.ID, fb.CallID, fb.ReviewerID, fb.RevieweeID, fb.Rating, fb.Comment, fb.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ConflictError{Resource: "feedback", Msg: "feedback already submitted", Err: err}
	}
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	// new_mean = (mean*n + rating) / (n+1)
	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET rating = (COALESCE(rating, 0) * total_ratings + $1) / (total_ratings + 1),
			total_ratings = total_ratings + 1,
			updated_at = $2
		WHERE id = $3`,
		fb.Rating, fb.CreatedAt, fb.RevieweeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
