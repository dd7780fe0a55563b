// Package state holds the observable view of who is signed in. It is the
// single source of truth consumers read; only its actions mutate it.
package state

import (
	"context"
	"sync"

	"github.com/homeserv-dev/homeserv/internal/cli/auth"
	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

// SessionSource is where the state is (re)initialized from
type SessionSource interface {
	Current() *session.Session
}

// Authenticator performs the auth flows the state delegates to
type Authenticator interface {
	Login(ctx context.Context, creds auth.Credentials) (*session.Session, error)
	Register(ctx context.Context, reg auth.Registration) (*auth.RegisterResponse, error)
	Logout() error
}

// Snapshot is an immutable copy of the state. Authenticated is derived
// from User and never set independently.
type Snapshot struct {
	User          *session.Session
	Authenticated bool
}

func snapshotOf(user *session.Session) Snapshot {
	return Snapshot{User: user.Clone(), Authenticated: user != nil}
}

// Listener is called with the new snapshot after every mutation
type Listener func(Snapshot)

// AuthState is the process-wide authentication state container
type AuthState struct {
	sessions SessionSource
	auth     Authenticator

	mu        sync.RWMutex
	user      *session.Session
	listeners map[int]Listener
	nextID    int
}

// New creates the state initialized from the current persisted session
func New(sessions SessionSource, authenticator Authenticator) *AuthState {
	return &AuthState{
		sessions:  sessions,
		auth:      authenticator,
		user:      sessions.Current(),
		listeners: make(map[int]Listener),
	}
}

// User returns a copy of the signed-in user, or nil
func (s *AuthState) User() *session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// IsAuthenticated reports whether a user is signed in
func (s *AuthState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Snapshot returns both fields read under one lock
func (s *AuthState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotOf(s.user)
}

// Subscribe registers fn for change notifications
func (s *AuthState) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Login signs in and, on success, makes the new session current.
// On failure the state is left unchanged.
func (s *AuthState) Login(ctx context.Context, creds auth.Credentials) (*session.Session, error) {
	user, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	s.set(user)
	return user, nil
}

// Logout clears the session. The state is reset even when the store
// fails to clear, and that failure is returned.
func (s *AuthState) Logout() error {
	err := s.auth.Logout()
	s.set(nil)
	return err
}

// Register creates an account without touching the state
func (s *AuthState) Register(ctx context.Context, reg auth.Registration) (*auth.RegisterResponse, error) {
	return s.auth.Register(ctx, reg)
}

// Refresh re-reads the persisted session, picking up out-of-band changes
func (s *AuthState) Refresh() {
	s.set(s.sessions.Current())
}

func (s *AuthState) set(user *session.Session) {
	s.mu.Lock()
	s.user = user.Clone()
	snap := snapshotOf(s.user)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
