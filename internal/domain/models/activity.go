package models

import "time"

type ActivityLog struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	Description  string         `json:"description,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
