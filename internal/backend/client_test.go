package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginDecodesCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "login", body["action"])
		assert.Equal(t, "alice", body["username"])
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user": map[string]any{
				"id": 7, "username": "alice", "email": "a@b.c",
				"display_name": "Alice", "created_at": "2024-01-01T00:00:00Z",
			},
		})
	}))
	defer srv.Close()

	client := New(Options{AuthURL: srv.URL})
	creds, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", creds.Token)
	assert.Equal(t, int64(7), creds.User.ID)
	assert.Equal(t, "Alice", creds.User.DisplayName)
}

func TestServerErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid username or password"})
	}))
	defer srv.Close()

	client := New(Options{AuthURL: srv.URL})
	_, err := client.Login(context.Background(), "alice", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid username or password", apiErr.Message)
}

func TestServerErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(Options{ContentURL: srv.URL})
	_, err := client.ListVideos(context.Background(), false)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestListVideosShortsFilter(t *testing.T) {
	var gotQuery []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = append(gotQuery, r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]any{"videos": []any{}})
	}))
	defer srv.Close()

	client := New(Options{ContentURL: srv.URL})

	_, err := client.ListVideos(context.Background(), true)
	require.NoError(t, err)
	_, err = client.ListVideos(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, gotQuery, 2)
	assert.Equal(t, "is_short=true", gotQuery[0])
	assert.Empty(t, gotQuery[1])
}

func TestToggleLikeReturnsServerPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		require.Equal(t, "like", body["action"])
		json.NewEncoder(w).Encode(map[string]any{"liked": false, "likes_count": 12})
	}))
	defer srv.Close()

	client := New(Options{EngagementURL: srv.URL})
	state, err := client.ToggleLike(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, int64(12), state.LikesCount)
}

func TestListCommentsParsesAuthors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "comment", r.URL.Query().Get("action"))
		assert.Equal(t, "3", r.URL.Query().Get("video_id"))
		json.NewEncoder(w).Encode(map[string]any{
			"comments": []map[string]any{
				{"id": 2, "content": "second", "created_at": "2024-02-01T00:00:00Z",
					"user": map[string]any{"id": 9, "username": "bob", "display_name": "Bob"}},
				{"id": 1, "content": "first", "created_at": "2024-01-01T00:00:00Z",
					"user": map[string]any{"id": 7, "username": "alice", "display_name": "Alice"}},
			},
		})
	}))
	defer srv.Close()

	client := New(Options{EngagementURL: srv.URL})
	comments, err := client.ListComments(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "Bob", comments[0].Author.DisplayName)
}

func TestRecordViewAnonymousSendsNullUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		_, present := body["user_id"]
		assert.True(t, present)
		assert.Nil(t, body["user_id"])
		json.NewEncoder(w).Encode(map[string]any{"views_count": 42})
	}))
	defer srv.Close()

	client := New(Options{EngagementURL: srv.URL})
	views, err := client.RecordView(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), views)
}
