package services

import (
	"context"
	"testing"
	"time"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
	"tsharaki/internal/repositories"
	"tsharaki/internal/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func authedSession() session.Session {
	return session.Session{
		Token:  "tok",
		AuthID: "auth-1",
		State:  session.Authenticated,
		Profile: &models.User{
			ID:       "user-1",
			UserID:   "auth-1",
			Name:     "Tester",
			UserType: domain.UserPassenger,
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestBookInsertsPendingBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO activity_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	svc := BookingService{
		BookingRepo: repositories.BookingRepository{DB: db},
		Activity:    ActivityService{ActivityRepo: repositories.ActivityRepository{DB: db}},
	}

	trip := models.Trip{ID: "trip-1", FromLocation: "الرباط", ToLocation: "فاس", AvailableSeats: 2}
	booking, err := svc.Book(context.Background(), authedSession(), trip)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	if booking.Status != domain.BookingPending {
		t.Fatalf("new booking should be pending, got %s", booking.Status)
	}
	if booking.SeatsBooked != 1 {
		t.Fatalf("new booking should hold one seat, got %d", booking.SeatsBooked)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookDuplicateIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uniq_active_booking"})

	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}

	trip := models.Trip{ID: "trip-1", AvailableSeats: 2}
	_, err = svc.Book(context.Background(), authedSession(), trip)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on duplicate booking, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookFullTripNeverReachesStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	// No expectations: any store call fails the test.

	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}

	trip := models.Trip{ID: "trip-1", AvailableSeats: 0}
	_, err = svc.Book(context.Background(), authedSession(), trip)
	if !domain.IsNoCapacity(err) {
		t.Fatalf("expected no-capacity error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("store was touched for a full trip: %v", err)
	}
}

func TestBookRequiresSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := BookingService{BookingRepo: repositories.BookingRepository{DB: db}}

	_, err = svc.Book(context.Background(), session.Session{}, models.Trip{ID: "trip-1", AvailableSeats: 2})
	if !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}

	// Signed in but no user row yet: booking is blocked until the profile
	// exists.
	incomplete := authedSession()
	incomplete.Profile = nil
	_, err = svc.Book(context.Background(), incomplete, models.Trip{ID: "trip-1", AvailableSeats: 2})
	if !domain.IsProfileIncomplete(err) {
		t.Fatalf("expected profile-incomplete error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("store was touched without a session: %v", err)
	}
}

func TestConfirmOnlyByDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	bookingRows := sqlmock.NewRows([]string{"id", "trip_id", "passenger_id", "seats_booked", "status", "created_at", "updated_at"}).
		AddRow("b1", "trip-1", "user-2", 1, "pending", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").WillReturnRows(bookingRows)

	tripRows := sqlmock.NewRows([]string{
		"id", "driver_id", "from_location", "to_location", "departure_time",
		"total_seats", "available_seats", "price_per_seat", "gender_preference",
		"car_model", "car_plate", "notes", "created_at", "updated_at",
	}).AddRow("trip-1", "someone-else", "a", "b", time.Now(), 4, 2, 80, "any", "", "", "", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WillReturnRows(tripRows)

	svc := BookingService{
		BookingRepo: repositories.BookingRepository{DB: db},
		TripRepo:    repositories.TripRepository{DB: db},
	}

	_, err = svc.Confirm(context.Background(), authedSession(), "b1")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for non-driver confirm, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
