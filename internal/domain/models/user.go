package models

import (
	"time"

	"tsharaki/internal/domain"
)

// User is the application-level profile row, linked to an auth account
// through UserID.
type User struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"user_id"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	PhoneNumber    string                 `json:"phone_number,omitempty"`
	ProfilePicture string                 `json:"profile_picture,omitempty"`
	UserType       domain.UserType        `json:"user_type"`
	Gender         domain.GenderType      `json:"gender,omitempty"`
	Rating         float64                `json:"rating"`
	TotalRatings   int                    `json:"total_ratings"`
	CinVerified    bool                   `json:"cin_verified"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// UserUpdate supports PATCH-style updates via key presence.
type UserUpdate struct {
	Name        *string
	PhoneNumber *string
	UserType    *domain.UserType
	Gender      *domain.GenderType
}

// Empty reports whether no field is set.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.PhoneNumber == nil && u.UserType == nil && u.Gender == nil
}

// Profile is the lightweight presence record kept alongside users.
type Profile struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	DisplayName       string            `json:"display_name,omitempty"`
	PreferredLanguage domain.Language   `json:"preferred_language"`
	Status            domain.UserStatus `json:"status"`
	MemberSince       time.Time         `json:"member_since"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
