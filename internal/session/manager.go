// ABOUTME: Session manager for the active user: login, logout, switch, refresh
// ABOUTME: Persists the current-user id through the store and caches the user record

package session

import (
	"context"
	"log/slog"

	"github.com/2389/math-adventure/internal/store"
)

// Manager tracks the active user. Construct with New and call Load to pick
// up a persisted session.
type Manager struct {
	store  *store.Store
	logger *slog.Logger

	current *store.User
}

// New creates a session manager over the given store.
func New(s *store.Store) *Manager {
	return &Manager{
		store:  s,
		logger: slog.Default().With("component", "session"),
	}
}

// Load restores the active user from the persisted current-user key.
func (m *Manager) Load(ctx context.Context) {
	m.current = m.store.CurrentUser(ctx)
}

// CurrentUser returns the active user, or nil when nobody is logged in.
func (m *Manager) CurrentUser() *store.User {
	return m.current
}

// IsAuthenticated reports whether a user is active.
func (m *Manager) IsAuthenticated() bool {
	return m.current != nil
}

// Login authenticates the credentials and activates the matching user.
// Returns false on any mismatch.
func (m *Manager) Login(ctx context.Context, username, password string) (bool, error) {
	user := m.store.AuthenticateUser(ctx, username, password)
	if user == nil {
		return false, nil
	}

	if err := m.store.SetCurrentUser(ctx, user.ID); err != nil {
		return false, err
	}
	m.current = user
	m.logger.Info("user logged in", "user_id", user.ID)
	return true, nil
}

// Register creates a new user and activates it. Returns
// store.ErrUsernameTaken when the username exists.
func (m *Manager) Register(ctx context.Context, username, password string) (*store.User, error) {
	user, err := m.store.CreateUser(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.SetCurrentUser(ctx, user.ID); err != nil {
		return nil, err
	}
	m.current = user
	return user, nil
}

// Logout clears the persisted session and the in-process user.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.ClearCurrentUser(ctx); err != nil {
		return err
	}
	m.current = nil
	return nil
}

// SwitchUser activates another existing user without credentials. Unknown
// ids leave the session unchanged.
func (m *Manager) SwitchUser(ctx context.Context, userID string) error {
	for _, u := range m.store.Users(ctx) {
		if u.ID == userID {
			if err := m.store.SetCurrentUser(ctx, userID); err != nil {
				return err
			}
			m.current = &u
			return nil
		}
	}
	return nil
}

// Refresh re-reads the active user's record from the store so balance and
// level mutations become visible on the session copy.
func (m *Manager) Refresh(ctx context.Context) {
	if m.current == nil {
		return
	}
	for _, u := range m.store.Users(ctx) {
		if u.ID == m.current.ID {
			m.current = &u
			return
		}
	}
}

// Users lists every registered user.
func (m *Manager) Users(ctx context.Context) []store.User {
	return m.store.Users(ctx)
}
