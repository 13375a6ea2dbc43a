package handlers

import (
	"net/http"
	"strconv"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
	"tsharaki/internal/http/middleware"
	"tsharaki/internal/metrics"
	"tsharaki/internal/services"
	"tsharaki/internal/utils"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	Trips    services.TripService
	Bookings services.BookingService
	Metrics  *metrics.Collector
}

// GET /api/trips
//
// Without query parameters this lists the upcoming trips; with them it is
// a filtered search. All filters are optional and combine.
func (h TripHandler) List(c *gin.Context) {
	criteria, err := searchCriteriaFromQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	trips, err := h.Trips.Search(c.Request.Context(), criteria)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordTripSearch()
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

func searchCriteriaFromQuery(c *gin.Context) (models.SearchCriteria, error) {
	criteria := models.SearchCriteria{
		From:             c.Query("from"),
		To:               c.Query("to"),
		GenderPreference: domain.GenderPreference(c.Query("gender_preference")),
	}

	if raw := c.Query("date"); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return criteria, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
		}
		criteria.Date = date
	}
	if raw := c.Query("passengers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return criteria, domain.ValidationError{Field: "passengers", Msg: "must be a positive integer"}
		}
		criteria.Passengers = n
	}
	if raw := c.Query("max_price"); raw != "" {
		p, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || p < 0 {
			return criteria, domain.ValidationError{Field: "max_price", Msg: "must be a non-negative integer"}
		}
		criteria.MaxPrice = &p
	}
	if criteria.GenderPreference != "" && !criteria.GenderPreference.Valid() {
		return criteria, domain.ValidationError{Field: "gender_preference", Msg: "must be any, men or women"}
	}
	return criteria, nil
}

// GET /api/trips/:id
func (h TripHandler) Get(c *gin.Context) {
	trip, err := h.Trips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

type postTripRequest struct {
	FromLocation     string `json:"from_location" binding:"required"`
	ToLocation       string `json:"to_location" binding:"required"`
	DepartureTime    string `json:"departure_time" binding:"required"`
	TotalSeats       int    `json:"total_seats" binding:"required"`
	PricePerSeat     int64  `json:"price_per_seat"`
	GenderPreference string `json:"gender_preference"`
	CarModel         string `json:"car_model"`
	CarPlate         string `json:"car_plate"`
	Notes            string `json:"notes"`
}

// POST /api/trips
func (h TripHandler) Create(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}
	if sess.Profile == nil {
		RespondDomainError(c, domain.ProfileIncompleteError{AuthID: sess.AuthID})
		return
	}

	var req postTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	trip, err := h.Trips.PostTrip(c.Request.Context(), *sess.Profile, services.PostTripInput{
		FromLocation:     req.FromLocation,
		ToLocation:       req.ToLocation,
		DepartureTime:    req.DepartureTime,
		TotalSeats:       req.TotalSeats,
		PricePerSeat:     req.PricePerSeat,
		GenderPreference: domain.GenderPreference(req.GenderPreference),
		CarModel:         req.CarModel,
		CarPlate:         req.CarPlate,
		Notes:            req.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "trips", "create", "trip_id="+trip.ID)
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// POST /api/trips/:id/bookings
//
// The trip is fetched here so the capacity pre-check in the booking
// service runs against the same view the caller saw.
func (h TripHandler) Book(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	trip, err := h.Trips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	booking, err := h.Bookings.Book(c.Request.Context(), sess, trip)
	if err != nil {
		if h.Metrics != nil && domain.IsConflict(err) {
			h.Metrics.RecordBookingConflict()
		}
		RespondDomainError(c, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordBookingCreated()
	}
	utils.LogEvent(middleware.GetRequestID(c), "bookings", "create", "booking_id="+booking.ID)
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}
