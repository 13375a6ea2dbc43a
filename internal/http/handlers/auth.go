package handlers

import (
	"net/http"

	"tsharaki/internal/domain"
	"tsharaki/internal/http/middleware"
	"tsharaki/internal/services"
	"tsharaki/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Auth services.AuthService
}

type registerRequest struct {
	Email             string `json:"email" binding:"required"`
	Password          string `json:"password" binding:"required"`
	Name              string `json:"name" binding:"required"`
	PhoneNumber       string `json:"phone_number"`
	UserType          string `json:"user_type"`
	Gender            string `json:"gender"`
	PreferredLanguage string `json:"preferred_language"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := h.Auth.SignUp(c.Request.Context(), services.SignUpInput{
		Email:             req.Email,
		Password:          req.Password,
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		UserType:          domain.UserType(req.UserType),
		Gender:            domain.GenderType(req.Gender),
		PreferredLanguage: domain.Language(req.PreferredLanguage),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", "user_id="+user.ID)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	token, sess, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "auth_id="+sess.AuthID)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": sess.ExpiresAt,
		"state":      sess.State.String(),
		"profile":    sess.Profile,
	})
}

// POST /api/auth/logout
func (h AuthHandler) Logout(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}
	h.Auth.SignOut(sess.Token)
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

// GET /api/auth/session
func (h AuthHandler) Session(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":              sess.State.String(),
		"auth_id":            sess.AuthID,
		"expires_at":         sess.ExpiresAt,
		"profile":            sess.Profile,
		"profile_incomplete": sess.ProfileIncomplete(),
	})
}
