package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"tsharaki/internal/domain/models"
)

func TestDispatchSignInCommitsStateBeforeProfileFetch(t *testing.T) {
	var m *Manager
	var stateAtLoad State

	m = NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		// The loader observes the session already committed: the token
		// resolves while its profile is still being fetched.
		sess, ok := m.Resolve("tok")
		if !ok {
			t.Fatalf("session not committed before profile fetch")
		}
		stateAtLoad = sess.State
		return &models.User{ID: "user-1", UserID: authID}, nil
	})

	m.Dispatch(Event{
		Kind:      EventSignedIn,
		Token:     "tok",
		AuthID:    "auth-1",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	if stateAtLoad != Authenticating {
		t.Fatalf("loader should see the authenticating state, got %v", stateAtLoad)
	}

	sess, ok := m.Resolve("tok")
	if !ok {
		t.Fatalf("session missing after sign-in")
	}
	if !sess.Authenticated() {
		t.Fatalf("session should be authenticated, got %v", sess.State)
	}
	if sess.Profile == nil || sess.Profile.ID != "user-1" {
		t.Fatalf("profile not attached: %+v", sess.Profile)
	}
}

func TestDispatchSignOutRemovesSession(t *testing.T) {
	m := NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		return &models.User{ID: "user-1"}, nil
	})

	m.Dispatch(Event{Kind: EventSignedIn, Token: "tok", AuthID: "auth-1", ExpiresAt: time.Now().Add(time.Hour)})
	m.Dispatch(Event{Kind: EventSignedOut, Token: "tok"})

	if _, ok := m.Resolve("tok"); ok {
		t.Fatalf("session should be gone after sign-out")
	}

	// Signing out an unknown token is a no-op.
	m.Dispatch(Event{Kind: EventSignedOut, Token: "never-seen"})
}

func TestMissingProfileMeansIncompleteNotBroken(t *testing.T) {
	m := NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		return nil, nil
	})

	m.Dispatch(Event{Kind: EventSignedIn, Token: "tok", AuthID: "auth-1", ExpiresAt: time.Now().Add(time.Hour)})

	sess, ok := m.Resolve("tok")
	if !ok {
		t.Fatalf("session missing")
	}
	if !sess.Authenticated() {
		t.Fatalf("session should still authenticate without a profile")
	}
	if !sess.ProfileIncomplete() {
		t.Fatalf("session should report an incomplete profile")
	}
}

func TestLoaderFailureDoesNotBlockSignIn(t *testing.T) {
	m := NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		return nil, errors.New("store down")
	})

	m.Dispatch(Event{Kind: EventSignedIn, Token: "tok", AuthID: "auth-1", ExpiresAt: time.Now().Add(time.Hour)})

	sess, ok := m.Resolve("tok")
	if !ok || !sess.Authenticated() {
		t.Fatalf("sign-in should survive a failed profile fetch")
	}
	if sess.Profile != nil {
		t.Fatalf("failed fetch must not attach a profile")
	}
}

func TestResolveDropsExpiredSessions(t *testing.T) {
	m := NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		return &models.User{ID: "user-1"}, nil
	})

	m.Dispatch(Event{Kind: EventSignedIn, Token: "tok", AuthID: "auth-1", ExpiresAt: time.Now().Add(-time.Minute)})

	if _, ok := m.Resolve("tok"); ok {
		t.Fatalf("expired session should not resolve")
	}
	// A second resolve sees the entry already purged.
	if _, ok := m.Resolve("tok"); ok {
		t.Fatalf("expired session should stay gone")
	}
}

func TestEventChannelFeedsTheConsumerLoop(t *testing.T) {
	m := NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		return &models.User{ID: "user-1", UserID: authID}, nil
	})
	go m.Run()
	defer m.Stop()

	// Sign-in delivered over the channel instead of a direct apply.
	m.Events() <- Event{Kind: EventSignedIn, Token: "tok", AuthID: "auth-1", ExpiresAt: time.Now().Add(time.Hour)}

	waitFor(t, "sign-in event applied", func() bool {
		sess, ok := m.Resolve("tok")
		return ok && sess.Authenticated()
	})

	m.Events() <- Event{Kind: EventSignedOut, Token: "tok"}

	waitFor(t, "sign-out event applied", func() bool {
		_, ok := m.Resolve("tok")
		return !ok
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRefreshProfileReloadsUserRow(t *testing.T) {
	name := "Before"
	m := NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		return &models.User{ID: "user-1", Name: name}, nil
	})

	m.Dispatch(Event{Kind: EventSignedIn, Token: "tok", AuthID: "auth-1", ExpiresAt: time.Now().Add(time.Hour)})

	name = "After"
	m.RefreshProfile(context.Background(), "tok")

	sess, _ := m.Resolve("tok")
	if sess.Profile == nil || sess.Profile.Name != "After" {
		t.Fatalf("profile not refreshed: %+v", sess.Profile)
	}
}
