// Package session holds the authenticated identity and keeps it in
// durable storage so it survives restarts.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"taskwiz/internal/errors"
	"taskwiz/internal/logging"
	"taskwiz/internal/service"
	"taskwiz/internal/storage"
	"taskwiz/internal/validate"
)

// Notification fallbacks.
const (
	MsgSignInFailed = "Sign in failed"
	MsgSignUpFailed = "Sign up failed"
	MsgNotSignedIn  = "not signed in (run: taskwiz signin)"
)

// Session is the authenticated identity.
type Session struct {
	Token    string
	Username string
}

// IsAuthenticated reports whether the session carries a token.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// Manager owns the current session. The in-memory copy and durable
// storage are always written together.
type Manager struct {
	svc   service.Service
	store storage.Store
	log   *slog.Logger

	mu      sync.RWMutex
	current Session
}

// NewManager returns a Manager with the session restored from store.
// svc may be nil when only the guard is needed.
func NewManager(svc service.Service, store storage.Store, log *slog.Logger) (*Manager, error) {
	m := &Manager{
		svc:   svc,
		store: store,
		log:   logging.OrDiscard(log).With("component", "session"),
	}
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load replaces the in-memory session with what durable storage holds.
func (m *Manager) Load() error {
	token, _, err := m.store.Get(storage.KeyToken)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	username, _, err := m.store.Get(storage.KeyUsername)
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	m.mu.Lock()
	m.current = Session{Token: token, Username: username}
	m.mu.Unlock()
	return nil
}

// Current returns the current session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// IsAuthenticated reports whether a token is held.
func (m *Manager) IsAuthenticated() bool {
	return m.Current().IsAuthenticated()
}

// RequireAuth returns an unauthenticated error when no session is held.
func (m *Manager) RequireAuth() error {
	if !m.IsAuthenticated() {
		return errors.Unauthenticated(MsgNotSignedIn)
	}
	return nil
}

// SignIn authenticates and persists the resulting session. The username
// is normalized before sending; only emptiness is checked locally.
func (m *Manager) SignIn(ctx context.Context, username, password string) (Session, error) {
	creds, err := validate.SignIn(service.Credentials{Username: username, Password: password})
	if err != nil {
		return Session{}, err
	}

	res, err := m.svc.SignIn(ctx, creds)
	if err != nil {
		m.log.Debug("signin failed", "username", creds.Username, "error", err)
		return Session{}, errors.WithFallback(err, MsgSignInFailed)
	}

	s := Session{Token: res.AccessToken, Username: creds.Username}
	if err := m.store.Set(storage.KeyToken, s.Token); err != nil {
		return Session{}, fmt.Errorf("failed to save token: %w", err)
	}
	if err := m.store.Set(storage.KeyUsername, s.Username); err != nil {
		// Drop the token too so a later Load does not see half a session.
		if rmErr := m.store.Remove(storage.KeyToken); rmErr != nil {
			m.log.Warn("failed to roll back token", "error", rmErr)
		}
		return Session{}, fmt.Errorf("failed to save username: %w", err)
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	m.log.Debug("signed in", "username", s.Username)
	return s, nil
}

// SignUp registers a new account. It does not sign in.
func (m *Manager) SignUp(ctx context.Context, username, password string) (service.User, error) {
	creds, err := validate.SignUp(service.Credentials{Username: username, Password: password})
	if err != nil {
		return service.User{}, err
	}

	user, err := m.svc.SignUp(ctx, creds)
	if err != nil {
		return service.User{}, errors.WithFallback(err, MsgSignUpFailed)
	}
	return user, nil
}

// Logout clears the session from durable storage, then from memory. If
// the token cannot be removed the in-memory session is kept, matching
// what the next Load would see.
func (m *Manager) Logout() error {
	if err := m.store.Remove(storage.KeyToken); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()

	if err := m.store.Remove(storage.KeyUsername); err != nil {
		return fmt.Errorf("failed to remove username: %w", err)
	}
	return nil
}
