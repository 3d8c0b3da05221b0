// Package session owns the authenticated-user identity for the whole
// process. There is exactly one Manager, constructed at startup and passed
// explicitly to every consumer; the local store mirror exists purely so the
// session survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/model"
	"github.com/vkuzn/tubedesk/internal/store"
)

// AuthError reports a failed login or registration. Message is the
// server-supplied reason (bad credentials, duplicate username, ...).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Authenticator is the slice of the backend client the manager needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (backend.Credentials, error)
	Register(ctx context.Context, username, email, password, displayName string) (backend.Credentials, error)
}

// Settings is the slice of the local store the manager needs.
type Settings interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Manager holds the session: user and token are set or cleared together,
// never one without the other, and every transition is mirrored to the
// persistent store in the same step.
type Manager struct {
	auth     Authenticator
	settings Settings

	mu    sync.RWMutex
	user  *model.UserProfile
	token string
}

// NewManager constructs an empty (signed-out) manager.
func NewManager(auth Authenticator, settings Settings) *Manager {
	return &Manager{auth: auth, settings: settings}
}

// Login authenticates against the remote backend. On failure the previous
// session state is left untouched.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	creds, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return asAuthError(err)
	}
	return m.adopt(creds)
}

// Register creates an account remotely; same contract as Login.
func (m *Manager) Register(ctx context.Context, username, email, password, displayName string) error {
	creds, err := m.auth.Register(ctx, username, email, password, displayName)
	if err != nil {
		return asAuthError(err)
	}
	return m.adopt(creds)
}

// Logout clears the session in memory and on disk. No network call; calling
// it while signed out is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.user = nil
	m.token = ""
	m.clearPersisted()
}

func (m *Manager) clearPersisted() {
	if err := m.settings.Delete(store.KeySessionToken); err != nil {
		slog.Warn("clear session token", "error", err)
	}
	if err := m.settings.Delete(store.KeySessionUser); err != nil {
		slog.Warn("clear session user", "error", err)
	}
}

// Restore loads a persisted session, once, at process start. A missing or
// unparseable entry leaves the manager empty: there is no partial restore.
func (m *Manager) Restore() error {
	token, haveToken, err := m.settings.Get(store.KeySessionToken)
	if err != nil {
		return fmt.Errorf("restore token: %w", err)
	}
	rawUser, haveUser, err := m.settings.Get(store.KeySessionUser)
	if err != nil {
		return fmt.Errorf("restore user: %w", err)
	}

	if !haveToken || !haveUser {
		if haveToken || haveUser {
			slog.Warn("discarding half-persisted session")
			m.clearPersisted()
		}
		return nil
	}

	var user model.UserProfile
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		slog.Warn("discarding unparseable persisted session", "error", err)
		m.clearPersisted()
		return nil
	}

	m.mu.Lock()
	m.user = &user
	m.token = token
	m.mu.Unlock()
	return nil
}

// Current returns a copy of the signed-in user, or nil.
func (m *Manager) Current() *model.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

// Token returns the credential token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// adopt replaces the session wholesale and mirrors it to the store.
func (m *Manager) adopt(creds backend.Credentials) error {
	raw, err := json.Marshal(creds.User)
	if err != nil {
		return fmt.Errorf("serialize user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.settings.Set(store.KeySessionToken, creds.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := m.settings.Set(store.KeySessionUser, string(raw)); err != nil {
		// Never leave the new token beside a stale user; Restore would
		// adopt the mismatched pair.
		if delErr := m.settings.Delete(store.KeySessionToken); delErr != nil {
			slog.Warn("roll back session token", "error", delErr)
		}
		return fmt.Errorf("persist user: %w", err)
	}

	user := creds.User
	m.user = &user
	m.token = creds.Token
	return nil
}

// asAuthError converts a backend-declared failure into an *AuthError so the
// UI can show the server's message; transport errors pass through as-is.
func asAuthError(err error) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return &AuthError{Message: apiErr.Message}
	}
	return err
}
