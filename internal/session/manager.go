// Package session holds the authenticated-session state machine. State is
// written only by the auth event consumer and the explicit sign-in /
// sign-out paths; everything else reads snapshots through Resolve.
package session

import (
	"context"
	"sync"
	"time"

	"tsharaki/internal/domain/models"
)

type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event is an auth-state change. The auth service emits these; the manager
// is their only consumer.
type Event struct {
	Kind      EventKind
	Token     string
	AuthID    string
	ExpiresAt time.Time
}

// Session pairs a token with its resolved application profile. Profile is
// nil while resolution is pending or when no user row exists for the auth
// account (profile incomplete).
type Session struct {
	Token     string
	AuthID    string
	State     State
	Profile   *models.User
	ExpiresAt time.Time
}

func (s Session) Authenticated() bool {
	return s.State == Authenticated
}

func (s Session) ProfileIncomplete() bool {
	return s.State == Authenticated && s.Profile == nil
}

// ProfileLoader resolves the user row for an auth account. (nil, nil)
// means the account has no profile yet.
type ProfileLoader func(ctx context.Context, authID string) (*models.User, error)

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	loader ProfileLoader
	events chan Event

	done     chan struct{}
	stopOnce sync.Once
}

func NewManager(loader ProfileLoader) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		loader:   loader,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events is the channel auth-state changes arrive on. Producers that do
// not need the new state synchronously (sign-out, external invalidation)
// send here; Run applies the events in arrival order.
func (m *Manager) Events() chan<- Event {
	return m.events
}

// Run consumes auth events until Stop is called.
func (m *Manager) Run() {
	for {
		select {
		case ev := <-m.events:
			m.Dispatch(ev)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// Dispatch applies one auth event synchronously. For sign-in the session
// state is committed first and the profile resolved strictly after; a
// session removed in the meantime discards the stale profile result.
func (m *Manager) Dispatch(ev Event) {
	switch ev.Kind {
	case EventSignedIn:
		m.mu.Lock()
		m.sessions[ev.Token] = &Session{
			Token:     ev.Token,
			AuthID:    ev.AuthID,
			State:     Authenticating,
			ExpiresAt: ev.ExpiresAt,
		}
		m.mu.Unlock()

		profile, err := m.loader(context.Background(), ev.AuthID)
		if err != nil {
			profile = nil
		}

		m.mu.Lock()
		if s, ok := m.sessions[ev.Token]; ok && s.AuthID == ev.AuthID {
			s.Profile = profile
			s.State = Authenticated
		}
		m.mu.Unlock()

	case EventSignedOut:
		m.mu.Lock()
		delete(m.sessions, ev.Token)
		m.mu.Unlock()
	}
}

// Resolve returns a snapshot of the session for a token. Expired sessions
// are dropped and reported as absent.
func (m *Manager) Resolve(token string) (Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	if ok && !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		ok = false
	}
	var snap Session
	if ok {
		snap = *s
	}
	m.mu.RUnlock()

	if !ok {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return Session{}, false
	}
	return snap, true
}

// RefreshProfile re-resolves the profile for an active session, e.g. after
// the user row was updated.
func (m *Manager) RefreshProfile(ctx context.Context, token string) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	var authID string
	if ok {
		authID = s.AuthID
	}
	m.mu.RUnlock()
	if !ok {
		return
	}

	profile, err := m.loader(ctx, authID)
	if err != nil {
		return
	}

	m.mu.Lock()
	if s, ok := m.sessions[token]; ok && s.AuthID == authID {
		s.Profile = profile
	}
	m.mu.Unlock()
}
