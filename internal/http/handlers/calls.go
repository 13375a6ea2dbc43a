package handlers

import (
	"net/http"

	"tsharaki/internal/domain"
	"tsharaki/internal/http/middleware"
	"tsharaki/internal/services"
	"tsharaki/internal/utils"

	"github.com/gin-gonic/gin"
)

type CallHandler struct {
	Calls services.CallService
}

type callRequestBody struct {
	Language string `json:"language" binding:"required"`
}

// POST /api/calls/requests
func (h CallHandler) Request(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	var req callRequestBody
	if !BindJSONOrError(c, &req) {
		return
	}

	out, err := h.Calls.RequestCall(c.Request.Context(), sess, domain.Language(req.Language))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "calls", "request", "request_id="+out.ID)
	c.JSON(http.StatusCreated, gin.H{"request": out})
}

type connectRequestBody struct {
	CalleeID string `json:"callee_id"`
}

// PUT /api/calls/requests/:id/connect
func (h CallHandler) Connect(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok || sess.Profile == nil {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	var req connectRequestBody
	if !BindJSONOrError(c, &req) {
		return
	}
	calleeID := req.CalleeID
	if calleeID == "" {
		calleeID = sess.Profile.ID
	}

	call, err := h.Calls.ConnectRequest(c.Request.Context(), c.Param("id"), calleeID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "calls", "connect", "call_id="+call.ID)
	c.JSON(http.StatusOK, gin.H{"call": call})
}

// PUT /api/calls/:id/end
func (h CallHandler) End(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	call, err := h.Calls.EndCall(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "calls", "end", "call_id="+call.ID)
	c.JSON(http.StatusOK, gin.H{"call": call})
}

type feedbackRequestBody struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// POST /api/calls/:id/feedback
func (h CallHandler) Feedback(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}

	var req feedbackRequestBody
	if !BindJSONOrError(c, &req) {
		return
	}

	fb, err := h.Calls.SubmitFeedback(c.Request.Context(), sess, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}
