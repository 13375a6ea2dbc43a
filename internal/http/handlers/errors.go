package handlers

import (
	"net/http"

	"tsharaki/internal/domain"
	"tsharaki/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Every failure
// is a response; none tears down the process.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsUnauthenticated(err):
		respondError(c, http.StatusUnauthorized, "unauthenticated", err.Error())
	case domain.IsProfileIncomplete(err):
		respondError(c, http.StatusForbidden, "profile_incomplete", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsNoCapacity(err):
		respondError(c, http.StatusConflict, "no_capacity", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	default:
		// Store errors are surfaced with their message; the user decides
		// whether to re-initiate the action.
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
