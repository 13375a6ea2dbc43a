package services

import (
	"context"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
	"tsharaki/internal/repositories"
)

type ProfileService struct {
	UserRepo    repositories.UserRepository
	TripRepo    repositories.TripRepository
	BookingRepo repositories.BookingRepository
}

func (s ProfileService) LoadProfile(ctx context.Context, userID string) (models.User, error) {
	return s.UserRepo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update; only fields carried by the
// request touch the row.
func (s ProfileService) UpdateProfile(ctx context.Context, userID string, upd models.UserUpdate) error {
	if upd.Empty() {
		return domain.ValidationError{Msg: "no fields to update"}
	}
	if upd.Name != nil && *upd.Name == "" {
		return domain.ValidationError{Field: "name", Msg: "name cannot be empty"}
	}
	if upd.UserType != nil && !upd.UserType.Valid() {
		return domain.ValidationError{Field: "user_type", Msg: "must be driver or passenger"}
	}
	if upd.Gender != nil && !upd.Gender.Valid() {
		return domain.ValidationError{Field: "gender", Msg: "must be male, female or other"}
	}
	return s.UserRepo.UpdatePartial(ctx, userID, upd)
}

// ListAuthoredTrips returns the user's posted trips, most recent first.
func (s ProfileService) ListAuthoredTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	return s.TripRepo.ListByDriver(ctx, userID)
}

// ListBookings returns the user's bookings, most recent first, with trip
// summary fields joined on for display.
func (s ProfileService) ListBookings(ctx context.Context, userID string) ([]models.BookingWithTrip, error) {
	return s.BookingRepo.ListByPassenger(ctx, userID)
}
