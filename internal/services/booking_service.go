package services

import (
	"context"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
	"tsharaki/internal/repositories"
	"tsharaki/internal/session"
	"tsharaki/internal/utils"

	"github.com/google/uuid"
)

type BookingService struct {
	BookingRepo repositories.BookingRepository
	TripRepo    repositories.TripRepository
	Activity    ActivityService
}

// Book places a pending single-seat booking against a trip the caller has
// already fetched. The capacity check runs locally against that fetched
// view, so a full trip never reaches the store; the real race is settled
// by the store's uniqueness and seat constraints, not here. No retries.
func (s BookingService) Book(ctx context.Context, sess session.Session, trip models.Trip) (models.Booking, error) {
	if !sess.Authenticated() {
		return models.Booking{}, domain.UnauthenticatedError{Msg: "sign in to book a trip"}
	}
	if sess.Profile == nil {
		return models.Booking{}, domain.ProfileIncompleteError{AuthID: sess.AuthID}
	}

	if trip.AvailableSeats <= 0 {
		return models.Booking{}, domain.NoCapacityError{TripID: trip.ID}
	}

	now := utils.NowUTC()
	b := models.Booking{
		ID:          uuid.NewString(),
		TripID:      trip.ID,
		PassengerID: sess.Profile.ID,
		SeatsBooked: 1,
		Status:      domain.BookingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.BookingRepo.Create(ctx, b); err != nil {
		if domain.IsConflict(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}

	s.Activity.Log(ctx, b.PassengerID, "booking_created", trip.FromLocation+" -> "+trip.ToLocation, map[string]any{
		"booking_id": b.ID,
		"trip_id":    trip.ID,
	})
	return b, nil
}

func (s BookingService) Get(ctx context.Context, id string) (models.Booking, error) {
	return s.BookingRepo.GetByID(ctx, id)
}

// Confirm is the driver-side transition pending -> confirmed. Seats come
// off the trip atomically; a failed seat guard surfaces as no capacity.
func (s BookingService) Confirm(ctx context.Context, sess session.Session, bookingID string) (models.Booking, error) {
	booking, trip, err := s.loadForTransition(ctx, sess, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if trip.DriverID != sess.Profile.ID {
		return models.Booking{}, domain.ValidationError{Field: "driver_id", Msg: "only the trip driver can confirm a booking"}
	}

	if err := s.BookingRepo.Confirm(ctx, booking, utils.NowUTC()); err != nil {
		return models.Booking{}, err
	}
	booking.Status = domain.BookingConfirmed

	s.Activity.Log(ctx, trip.DriverID, "booking_confirmed", "", map[string]any{
		"booking_id": booking.ID,
		"trip_id":    trip.ID,
	})
	return booking, nil
}

// Cancel is allowed to the trip driver and to the booking passenger.
// Cancelling a confirmed booking hands its seats back to the trip.
func (s BookingService) Cancel(ctx context.Context, sess session.Session, bookingID string) (models.Booking, error) {
	booking, trip, err := s.loadForTransition(ctx, sess, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	actor := sess.Profile.ID
	if trip.DriverID != actor && booking.PassengerID != actor {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "not your booking"}
	}

	if err := s.BookingRepo.Cancel(ctx, booking, utils.NowUTC()); err != nil {
		return models.Booking{}, err
	}
	booking.Status = domain.BookingCancelled

	s.Activity.Log(ctx, actor, "booking_cancelled", "", map[string]any{
		"booking_id": booking.ID,
		"trip_id":    trip.ID,
	})
	return booking, nil
}

func (s BookingService) loadForTransition(ctx context.Context, sess session.Session, bookingID string) (models.Booking, models.Trip, error) {
	if !sess.Authenticated() {
		return models.Booking{}, models.Trip{}, domain.UnauthenticatedError{}
	}
	if sess.Profile == nil {
		return models.Booking{}, models.Trip{}, domain.ProfileIncompleteError{AuthID: sess.AuthID}
	}

	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, models.Trip{}, err
	}
	trip, err := s.TripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return models.Booking{}, models.Trip{}, err
	}
	return booking, trip, nil
}
