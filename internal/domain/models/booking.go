package models

import (
	"time"

	"tsharaki/internal/domain"
)

// Booking links a passenger to a trip. At most one non-cancelled booking
// exists per (passenger, trip) pair; the store enforces it.
type Booking struct {
	ID          string               `json:"id"`
	TripID      string               `json:"trip_id"`
	PassengerID string               `json:"passenger_id"`
	SeatsBooked int                  `json:"seats_booked"`
	Status      domain.BookingStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// BookingWithTrip joins trip summary fields onto a booking for display.
type BookingWithTrip struct {
	Booking
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	DepartureTime time.Time `json:"departure_time"`
	PricePerSeat  int64     `json:"price_per_seat"`
}
