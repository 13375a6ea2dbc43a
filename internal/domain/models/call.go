package models

import (
	"time"

	"tsharaki/internal/domain"
)

// CallRequest is an open request for emergency assistance in a given
// language.
type CallRequest struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Language  domain.Language   `json:"language"`
	Status    domain.CallStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type Call struct {
	ID              string            `json:"id"`
	CallerID        string            `json:"caller_id"`
	CalleeID        string            `json:"callee_id"`
	Language        domain.Language   `json:"language"`
	Status          domain.CallStatus `json:"status"`
	RoomID          string            `json:"room_id,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	EndedAt         *time.Time        `json:"ended_at,omitempty"`
	DurationSeconds int               `json:"duration_seconds,omitempty"`
}

type CallFeedback struct {
	ID         string    `json:"id"`
	CallID     string    `json:"call_id"`
	ReviewerID string    `json:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
