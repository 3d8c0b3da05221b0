package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/model"
	"github.com/vkuzn/tubedesk/internal/session"
)

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, username, password string) (backend.Credentials, error) {
	return backend.Credentials{
		Token: "tok-1",
		User:  model.UserProfile{ID: 7, Username: username, DisplayName: "Alice"},
	}, nil
}

func (stubAuth) Register(ctx context.Context, username, email, password, displayName string) (backend.Credentials, error) {
	return backend.Credentials{}, nil
}

type stubSettings struct{ values map[string]string }

func (s *stubSettings) Get(key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}
func (s *stubSettings) Set(key, value string) error { s.values[key] = value; return nil }
func (s *stubSettings) Delete(key string) error     { delete(s.values, key); return nil }

func TestRequireAuthRedirectsSignedOut(t *testing.T) {
	h := &Handler{Session: session.NewManager(stubAuth{}, &stubSettings{values: map[string]string{}})}

	nextCalled := false
	guarded := h.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upload", nil))

	assert.False(t, nextCalled, "signed-out requests must never reach the guarded handler")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?flash="+flashSignInRequired, rec.Header().Get("Location"))
}

func TestRequireAuthPassesSignedIn(t *testing.T) {
	sess := session.NewManager(stubAuth{}, &stubSettings{values: map[string]string{}})
	require.NoError(t, sess.Login(context.Background(), "alice", "secret"))
	h := &Handler{Session: sess}

	nextCalled := false
	guarded := h.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upload", nil))

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 2)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 1)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	reqA := httptest.NewRequest(http.MethodPost, "/login", nil)
	reqA.Header.Set("X-Real-Ip", "192.0.2.10")
	handler.ServeHTTP(first, reqA)

	blocked := httptest.NewRecorder()
	handler.ServeHTTP(blocked, reqA)

	other := httptest.NewRecorder()
	reqB := httptest.NewRequest(http.MethodPost, "/login", nil)
	reqB.Header.Set("X-Real-Ip", "192.0.2.20")
	handler.ServeHTTP(other, reqB)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, http.StatusOK, other.Code)
}
