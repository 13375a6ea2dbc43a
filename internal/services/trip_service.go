package services

import (
	"context"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
	"tsharaki/internal/repositories"
	"tsharaki/internal/utils"

	"github.com/google/uuid"
)

type TripService struct {
	TripRepo repositories.TripRepository
	Activity ActivityService
}

// FetchUpcoming returns trips with departure_time >= now and available
// seats, ascending by departure time.
func (s TripService) FetchUpcoming(ctx context.Context) ([]models.Trip, error) {
	trips, err := s.TripRepo.ListUpcoming(ctx, utils.NowUTC())
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return trips, nil
}

// Search fetches the upcoming set and filters it in memory.
func (s TripService) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Trip, error) {
	trips, err := s.FetchUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilters(trips, criteria), nil
}

// ApplyFilters runs the search criteria over an already-fetched trip set.
// Pure and order-preserving: active predicates are AND-ed, absent criteria
// skip their predicate, and re-applying the same criteria is a no-op.
func ApplyFilters(trips []models.Trip, c models.SearchCriteria) []models.Trip {
	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if c.From != "" && !utils.ContainsFold(t.FromLocation, c.From) {
			continue
		}
		if c.To != "" && !utils.ContainsFold(t.ToLocation, c.To) {
			continue
		}
		if !c.Date.IsZero() && !utils.SameOrAfterDate(t.DepartureTime, c.Date) {
			continue
		}
		// Seat count only filters for group searches; a single passenger
		// can take any trip that still has a seat.
		if c.Passengers > 1 && t.AvailableSeats < c.Passengers {
			continue
		}
		if c.MaxPrice != nil && t.PricePerSeat > *c.MaxPrice {
			continue
		}
		if c.GenderPreference != "" &&
			t.GenderPreference != domain.PreferAny &&
			t.GenderPreference != c.GenderPreference {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s TripService) Get(ctx context.Context, id string) (models.Trip, error) {
	return s.TripRepo.GetByID(ctx, id)
}

type PostTripInput struct {
	FromLocation     string
	ToLocation       string
	DepartureTime    string
	TotalSeats       int
	PricePerSeat     int64
	GenderPreference domain.GenderPreference
	CarModel         string
	CarPlate         string
	Notes            string
}

// PostTrip creates a trip for a driver. Available seats start at full
// capacity; confirmed bookings take them down later.
func (s TripService) PostTrip(ctx context.Context, driver models.User, in PostTripInput) (models.Trip, error) {
	if driver.UserType != domain.UserDriver {
		return models.Trip{}, domain.ValidationError{Field: "user_type", Msg: "only drivers can post trips"}
	}

	from := utils.NormalizeSpace(in.FromLocation)
	to := utils.NormalizeSpace(in.ToLocation)
	if from == "" || to == "" {
		return models.Trip{}, domain.ValidationError{Field: "route", Msg: "origin and destination are required"}
	}

	departure, err := utils.ParseDateTime(in.DepartureTime)
	if err != nil {
		return models.Trip{}, domain.ValidationError{Field: "departure_time", Msg: "expected YYYY-MM-DD HH:MM", Err: err}
	}
	now := utils.NowUTC()
	if departure.Before(now) {
		return models.Trip{}, domain.ValidationError{Field: "departure_time", Msg: "departure must be in the future"}
	}

	if in.TotalSeats < 1 {
		return models.Trip{}, domain.ValidationError{Field: "total_seats", Msg: "at least one seat is required"}
	}
	if in.PricePerSeat < 0 {
		return models.Trip{}, domain.ValidationError{Field: "price_per_seat", Msg: "price cannot be negative"}
	}

	pref := in.GenderPreference
	if pref == "" {
		pref = domain.PreferAny
	}
	if !pref.Valid() {
		return models.Trip{}, domain.ValidationError{Field: "gender_preference", Msg: "must be any, men or women"}
	}

	trip := models.Trip{
		ID:               uuid.NewString(),
		DriverID:         driver.ID,
		FromLocation:     from,
		ToLocation:       to,
		DepartureTime:    departure,
		TotalSeats:       in.TotalSeats,
		AvailableSeats:   in.TotalSeats,
		PricePerSeat:     in.PricePerSeat,
		GenderPreference: pref,
		CarModel:         utils.TrimOrEmpty(in.CarModel),
		CarPlate:         utils.TrimOrEmpty(in.CarPlate),
		Notes:            utils.TrimOrEmpty(in.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.TripRepo.Create(ctx, trip); err != nil {
		return models.Trip{}, domain.InternalError{Err: err}
	}

	s.Activity.Log(ctx, driver.ID, "trip_posted", from+" -> "+to, map[string]any{
		"trip_id": trip.ID,
	})
	return trip, nil
}

// ListAuthored returns the trips a driver has posted, most recent first.
func (s TripService) ListAuthored(ctx context.Context, driverID string) ([]models.Trip, error) {
	return s.TripRepo.ListByDriver(ctx, driverID)
}
