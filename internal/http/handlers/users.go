package handlers

import (
	"net/http"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
	"tsharaki/internal/http/middleware"
	"tsharaki/internal/services"
	"tsharaki/internal/session"
	"tsharaki/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Profiles services.ProfileService
	Sessions *session.Manager
}

// GET /api/users/:id
func (h UserHandler) Get(c *gin.Context) {
	user, err := h.Profiles.LoadProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateUserRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	UserType    *string `json:"user_type"`
	Gender      *string `json:"gender"`
}

// PUT /api/users/:id
//
// Self-service only: the path id has to be the caller's own user row.
// Absent JSON keys leave their columns untouched.
func (h UserHandler) Update(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok || sess.Profile == nil {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}
	userID := c.Param("id")
	if userID != sess.Profile.ID {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "can only update your own profile"})
		return
	}

	var req updateUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	upd := models.UserUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	}
	if req.UserType != nil {
		ut := domain.UserType(*req.UserType)
		upd.UserType = &ut
	}
	if req.Gender != nil {
		g := domain.GenderType(*req.Gender)
		upd.Gender = &g
	}

	if err := h.Profiles.UpdateProfile(c.Request.Context(), userID, upd); err != nil {
		RespondDomainError(c, err)
		return
	}

	// The session snapshot carries the profile, so refresh it after a
	// successful write.
	h.Sessions.RefreshProfile(c.Request.Context(), sess.Token)

	user, err := h.Profiles.LoadProfile(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "users", "update", "user_id="+userID)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GET /api/users/:id/trips
func (h UserHandler) Trips(c *gin.Context) {
	trips, err := h.Profiles.ListAuthoredTrips(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// GET /api/users/:id/bookings
//
// Bookings carry personal travel history, so the list is self-only.
func (h UserHandler) Bookings(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok || sess.Profile == nil {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}
	userID := c.Param("id")
	if userID != sess.Profile.ID {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "can only list your own bookings"})
		return
	}

	bookings, err := h.Profiles.ListBookings(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}
