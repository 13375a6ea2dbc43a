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
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (AuthService, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		return &models.User{ID: "user-1", UserID: authID, Name: "Tester"}, nil
	})
	go sessions.Run()
	t.Cleanup(sessions.Stop)
	svc := AuthService{
		Sessions: sessions,
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}
	return svc, sessions
}

func TestSignInIssuesVerifiableToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	mock.ExpectQuery("SELECT id, password_hash FROM auth_accounts").
		WithArgs("tester@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow("auth-1", string(hash)))

	svc, _ := newTestAuthService(t)
	svc.UserRepo = repositories.UserRepository{DB: db}

	token, sess, err := svc.SignIn(context.Background(), "tester@example.com", "correct horse")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if !sess.Authenticated() {
		t.Fatalf("session should be authenticated after sign-in, got %v", sess.State)
	}
	if sess.Profile == nil || sess.Profile.Name != "Tester" {
		t.Fatalf("profile not resolved on sign-in: %+v", sess.Profile)
	}

	authID, expiresAt, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if authID != "auth-1" {
		t.Fatalf("wrong subject: %s", authID)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("token already expired: %v", expiresAt)
	}
}

func TestSignInWrongPasswordIsUnauthenticated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT id, password_hash FROM auth_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow("auth-1", string(hash)))

	svc, _ := newTestAuthService(t)
	svc.UserRepo = repositories.UserRepository{DB: db}

	_, _, err = svc.SignIn(context.Background(), "tester@example.com", "wrong")
	if !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	// Unknown email reads the same to the caller as a wrong password.
	mock.ExpectQuery("SELECT id, password_hash FROM auth_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}))
	_, _, err = svc.SignIn(context.Background(), "nobody@example.com", "whatever")
	if !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated for unknown email, got %v", err)
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc, _ := newTestAuthService(t)
	svc.UserRepo = repositories.UserRepository{DB: db}

	if _, _, err := svc.VerifyToken("not-a-jwt"); !domain.IsUnauthenticated(err) {
		t.Fatalf("garbage token should be unauthenticated, got %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT id, password_hash FROM auth_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow("auth-1", string(hash)))

	token, _, err := svc.SignIn(context.Background(), "tester@example.com", "correct horse")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	// A token signed for one secret never verifies against another.
	other := svc
	other.Secret = []byte("another-secret")
	if _, _, err := other.VerifyToken(token); !domain.IsUnauthenticated(err) {
		t.Fatalf("token signed with a different secret should fail, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	cases := []struct {
		name  string
		input SignUpInput
	}{
		{"missing email", SignUpInput{Password: "longenough", Name: "A"}},
		{"short password", SignUpInput{Email: "a@b.c", Password: "short", Name: "A"}},
		{"missing name", SignUpInput{Email: "a@b.c", Password: "longenough"}},
		{"bad user type", SignUpInput{Email: "a@b.c", Password: "longenough", Name: "A", UserType: "pilot"}},
		{"bad language", SignUpInput{Email: "a@b.c", Password: "longenough", Name: "A", PreferredLanguage: "klingon"}},
	}
	for _, tc := range cases {
		if _, err := svc.SignUp(context.Background(), tc.input); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestSignUpDuplicateEmailIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO auth_accounts").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "auth_accounts_email_key"})
	mock.ExpectRollback()

	svc, _ := newTestAuthService(t)
	svc.UserRepo = repositories.UserRepository{DB: db}

	_, err = svc.SignUp(context.Background(), SignUpInput{
		Email:    "taken@example.com",
		Password: "longenough",
		Name:     "Tester",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSignOutDropsSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT id, password_hash FROM auth_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow("auth-1", string(hash)))

	svc, sessions := newTestAuthService(t)
	svc.UserRepo = repositories.UserRepository{DB: db}

	token, _, err := svc.SignIn(context.Background(), "tester@example.com", "correct horse")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	// Sign-out rides the event channel; the consumer loop applies it.
	svc.SignOut(token)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := sessions.Resolve(token); !ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("session should be gone after sign-out")
		}
		time.Sleep(time.Millisecond)
	}
}
