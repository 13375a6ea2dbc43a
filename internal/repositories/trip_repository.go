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

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, driver_id, from_location, to_location, departure_time,
	total_seats, available_seats, price_per_seat, gender_preference,
	COALESCE(car_model, ''), COALESCE(car_plate, ''), COALESCE(notes, ''),
	created_at, updated_at`

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID, &t.DriverID, &t.FromLocation, &t.ToLocation, &t.DepartureTime,
		&t.TotalSeats, &t.AvailableSeats, &t.PricePerSeat, &t.GenderPreference,
		&t.CarModel, &t.CarPlate, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// ListUpcoming returns trips departing at or after now that still have
// seats, in chronological order.
func (r TripRepository) ListUpcoming(ctx context.Context, now time.Time) ([]models.Trip, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE departure_time >= $1 AND available_seats > 0
		ORDER BY departure_time ASC`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming trips: %w", err)
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, fmt.Errorf("failed to scan trip: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r TripRepository) GetByID(ctx context.Context, id string) (models.Trip, error) {
	row := r.db().QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return models.Trip{}, fmt.Errorf("failed to load trip: %w", err)
	}
	return t, nil
}

func (r TripRepository) Create(ctx context.Context, t models.Trip) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO trips (id, driver_id, from_location, to_location, departure_time,
			total_seats, available_seats, price_per_seat, gender_preference,
			car_model, car_plate, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), $13, $13)`,
		t.ID, t.DriverID, t.FromLocation, t.ToLocation, t.DepartureTime,
		t.TotalSeats, t.AvailableSeats, t.PricePerSeat, t.GenderPreference,
		t.CarModel, t.CarPlate, t.Notes, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// ListByDriver returns the driver's authored trips, most recent first.
func (r TripRepository) ListByDriver(ctx context.Context, driverID string) ([]models.Trip, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE driver_id = $1
		ORDER BY created_at DESC`,
		driverID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list driver trips: %w", err)
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, fmt.Errorf("failed to scan trip: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
