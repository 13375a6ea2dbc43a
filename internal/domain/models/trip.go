package models

import (
	"time"

	"tsharaki/internal/domain"
)

// Trip is a driver-posted shared ride with fixed capacity and a per-seat
// price in MAD.
type Trip struct {
	ID               string                  `json:"id"`
	DriverID         string                  `json:"driver_id"`
	FromLocation     string                  `json:"from_location"`
	ToLocation       string                  `json:"to_location"`
	DepartureTime    time.Time               `json:"departure_time"`
	TotalSeats       int                     `json:"total_seats"`
	AvailableSeats   int                     `json:"available_seats"`
	PricePerSeat     int64                   `json:"price_per_seat"`
	GenderPreference domain.GenderPreference `json:"gender_preference"`
	CarModel         string                  `json:"car_model,omitempty"`
	CarPlate         string                  `json:"car_plate,omitempty"`
	Notes            string                  `json:"notes,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// SearchCriteria holds the optional filter inputs for a trip search.
// Zero values mean "not supplied"; MaxPrice carries presence through the
// pointer so a ceiling of zero (free trips only) stays expressible.
type SearchCriteria struct {
	From             string
	To               string
	Date             time.Time
	Passengers       int
	MaxPrice         *int64
	GenderPreference domain.GenderPreference
}
