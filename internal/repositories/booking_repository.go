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

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create inserts a pending booking. The partial unique index on
// (trip_id, passenger_id) for non-cancelled rows turns a second active
// booking into a conflict.
func (r BookingRepository) Create(ctx context.Context, b models.Booking) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO bookings (id, trip_id, passenger_id, seats_booked, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		b.ID, b.TripID, b.PassengerID, b.SeatsBooked, b.Status, b.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ConflictError{
			Resource: "booking",
			Msg:      "passenger already holds an active booking for this trip",
			Err:      err,
		}
	}
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	err := r.db().QueryRowContext(ctx, `
		SELECT id, trip_id, passenger_id, seats_booked, status, created_at, updated_at
		FROM bookings WHERE id = $1`, id,
	).Scan(&b.ID, &b.TripID, &b.PassengerID, &b.SeatsBooked, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to load booking: %w", err)
	}
	return b, nil
}

// ListByPassenger returns the passenger's bookings, most recent first, with
// trip summary fields joined on for display.
func (r BookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]models.BookingWithTrip, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT b.id, b.trip_id, b.passenger_id, b.seats_booked, b.status, b.created_at, b.updated_at,
			t.from_location, t.to_location, t.departure_time, t.price_per_seat
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE b.passenger_id = $1
		ORDER BY b.created_at DESC`,
		passengerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	out := []models.BookingWithTrip{}
	for rows.Next() {
		var b models.BookingWithTrip
		if err := rows.Scan(
			&b.ID, &b.TripID, &b.PassengerID, &b.SeatsBooked, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&b.FromLocation, &b.ToLocation, &b.DepartureTime, &b.PricePerSeat,
		); err != nil {
			return out, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Confirm moves a pending booking to confirmed and takes its seats off the
// trip in the same transaction. The guarded UPDATE keeps available_seats
// from ever going below zero.
func (r BookingRepository) Confirm(ctx context.Context, b models.Booking, now time.Time) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE trips SET available_seats = available_seats - $1, updated_at = $2
		WHERE id = $3 AND available_seats >= $1`,
		b.SeatsBooked, now, b.TripID,
	)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.NoCapacityError{TripID: b.TripID}
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		domain.BookingConfirmed, now, b.ID, domain.BookingPending,
	)
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "booking is not pending"}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Cancel marks a booking cancelled; seats taken by a confirmed booking are
// handed back to the trip.
func (r BookingRepository) Cancel(ctx context.Context, b models.Booking, now time.Time) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = $2
		WHERE id = $3 AND status <> $1`,
		domain.BookingCancelled, now, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "booking is already cancelled"}
	}

	if b.Status == domain.BookingConfirmed {
		_, err = tx.ExecContext(ctx, `
			UPDATE trips SET available_seats = LEAST(available_seats + $1, total_seats), updated_at = $2
			WHERE id = $3`,
			b.SeatsBooked, now, b.TripID,
		)
		if err != nil {
			return fmt.Errorf("failed to release seats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
