package handlers

import (
	"fmt"
	"net/http"

	"tsharaki/internal/domain"
	"tsharaki/internal/http/middleware"
	"tsharaki/internal/services"
	"tsharaki/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Bookings services.BookingService
	Docs     services.DocsService
}

// GET /api/bookings/:id
func (h BookingHandler) Get(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok || sess.Profile == nil {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	booking, err := h.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if booking.PassengerID != sess.Profile.ID {
		// Drivers reach bookings through the confirm/cancel transitions;
		// reads stay passenger-scoped.
		RespondDomainError(c, domain.NotFoundError{Resource: "booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// PUT /api/bookings/:id/confirm
func (h BookingHandler) Confirm(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	booking, err := h.Bookings.Confirm(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "bookings", "confirm", "booking_id="+booking.ID)
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// PUT /api/bookings/:id/cancel
func (h BookingHandler) Cancel(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	booking, err := h.Bookings.Cancel(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "bookings", "cancel", "booking_id="+booking.ID)
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GET /api/bookings/:id/receipt
func (h BookingHandler) Receipt(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok || sess.Profile == nil {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	booking, err := h.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if booking.PassengerID != sess.Profile.ID {
		RespondDomainError(c, domain.NotFoundError{Resource: "booking"})
		return
	}

	docs := h.Docs
	docs.RequestID = middleware.GetRequestID(c)
	pdf, filename, err := docs.GenerateReceipt(c.Request.Context(), booking.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
