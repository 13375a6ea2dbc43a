package services

import (
	"context"
	"strings"
	"time"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
	"tsharaki/internal/repositories"
	"tsharaki/internal/session"
	"tsharaki/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo repositories.UserRepository
	Sessions *session.Manager
	Secret   []byte
	TokenTTL time.Duration
}

func (s AuthService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return 24 * time.Hour
}

type SignUpInput struct {
	Email             string
	Password          string
	Name              string
	PhoneNumber       string
	UserType          domain.UserType
	Gender            domain.GenderType
	PreferredLanguage domain.Language
}

// SignUp creates the auth account plus the user and profile rows. The
// caller still has to sign in afterwards; no session is opened here.
func (s AuthService) SignUp(ctx context.Context, in SignUpInput) (models.User, error) {
	email := strings.ToLower(utils.TrimOrEmpty(in.Email))
	name := utils.NormalizeSpace(in.Name)

	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "valid email is required"}
	}
	if len(in.Password) < 8 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	if name == "" {
		return models.User{}, domain.ValidationError{Field: "name", Msg: "name is required"}
	}

	userType := in.UserType
	if userType == "" {
		userType = domain.UserPassenger
	}
	if !userType.Valid() {
		return models.User{}, domain.ValidationError{Field: "user_type", Msg: "must be driver or passenger"}
	}
	if in.Gender != "" && !in.Gender.Valid() {
		return models.User{}, domain.ValidationError{Field: "gender", Msg: "must be male, female or other"}
	}

	lang := in.PreferredLanguage
	if lang == "" {
		lang = "arabic"
	}
	if !lang.Valid() {
		return models.User{}, domain.ValidationError{Field: "preferred_language", Msg: "unsupported language"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}

	now := utils.NowUTC()
	authID := uuid.NewString()
	user := models.User{
		ID:          uuid.NewString(),
		UserID:      authID,
		Name:        name,
		Email:       email,
		PhoneNumber: utils.TrimOrEmpty(in.PhoneNumber),
		UserType:    userType,
		Gender:      in.Gender,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	profile := models.Profile{
		ID:                uuid.NewString(),
		UserID:            authID,
		DisplayName:       name,
		PreferredLanguage: lang,
		Status:            domain.StatusOffline,
		MemberSince:       now,
	}

	if err := s.UserRepo.CreateWithAccount(ctx, string(hash), user, profile); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// SignIn verifies credentials, issues a signed token and commits the
// session. Bad credentials never reveal whether the account exists.
func (s AuthService) SignIn(ctx context.Context, email, password string) (string, session.Session, error) {
	authID, hash, err := s.UserRepo.GetAccountByEmail(ctx, email)
	if domain.IsNotFound(err) {
		return "", session.Session{}, domain.UnauthenticatedError{Msg: "invalid email or password"}
	}
	if err != nil {
		return "", session.Session{}, domain.InternalError{Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", session.Session{}, domain.UnauthenticatedError{Msg: "invalid email or password"}
	}

	expiresAt := utils.NowUTC().Add(s.ttl())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": authID,
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", session.Session{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}

	// Explicit sign-in write site: commit the session state, then the
	// manager resolves the profile.
	s.Sessions.Dispatch(session.Event{
		Kind:      session.EventSignedIn,
		Token:     signed,
		AuthID:    authID,
		ExpiresAt: expiresAt,
	})

	sess, _ := s.Sessions.Resolve(signed)
	return signed, sess, nil
}

// SignOut tears down the session for a token. Teardown does not need the
// resulting state, so it rides the manager's event channel and is applied
// by the consumer loop. Unknown tokens are a no-op.
func (s AuthService) SignOut(token string) {
	s.Sessions.Events() <- session.Event{Kind: session.EventSignedOut, Token: token}
}

// VerifyToken checks signature and expiry and returns the auth account id.
func (s AuthService) VerifyToken(tokenString string) (string, time.Time, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", time.Time{}, domain.UnauthenticatedError{Msg: "invalid or expired token"}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, domain.UnauthenticatedError{Msg: "invalid token claims"}
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return "", time.Time{}, domain.UnauthenticatedError{Msg: "invalid token claims"}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, domain.UnauthenticatedError{Msg: "invalid token claims"}
	}
	return sub, exp.Time, nil
}
