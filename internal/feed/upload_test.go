package feed

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/model"
)

type fixedProber struct {
	duration int64
	err      error
}

func (p *fixedProber) VideoDuration(ctx context.Context, path string) (int64, error) {
	return p.duration, p.err
}

func stageFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUploadRequiresSession(t *testing.T) {
	remote := newFakeBackend()
	c := New(remote, &fakeSession{}, &fixedProber{})

	err := c.Upload(context.Background(), UploadInput{
		Path:        stageFile(t, "data"),
		ContentType: "video/mp4",
		Title:       "My clip",
	})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, remote.callCount("upload"))
}

func TestUploadValidationNeverHitsNetwork(t *testing.T) {
	remote := newFakeBackend()
	c := New(remote, signedIn(5, "alice"), &fixedProber{duration: 10})

	cases := []struct {
		name  string
		in    UploadInput
		field string
	}{
		{
			name:  "missing title",
			in:    UploadInput{Path: "/tmp/x.mp4", ContentType: "video/mp4", Title: "   "},
			field: "title",
		},
		{
			name:  "missing file",
			in:    UploadInput{Title: "My clip", ContentType: "video/mp4"},
			field: "file",
		},
		{
			name:  "not a video",
			in:    UploadInput{Path: "/tmp/x.png", ContentType: "image/png", Title: "My clip"},
			field: "file",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Upload(context.Background(), tc.in)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tc.field, valErr.Field)
		})
	}
	assert.Zero(t, remote.callCount("upload"))
}

func TestUploadEncodesFileAndReloadsFeed(t *testing.T) {
	remote := newFakeBackend()
	var got backend.UploadRequest
	remote.uploadFn = func(ctx context.Context, req backend.UploadRequest) (backend.UploadResult, error) {
		got = req
		return backend.UploadResult{VideoID: 42}, nil
	}
	remote.listVideosFn = func(ctx context.Context, shortsOnly bool) ([]model.Video, error) {
		return []model.Video{video(42, 5)}, nil
	}
	c := New(remote, signedIn(5, "alice"), &fixedProber{duration: 37})
	require.NoError(t, c.LoadFeed(context.Background(), TabShorts))

	err := c.Upload(context.Background(), UploadInput{
		Path:        stageFile(t, "raw video bytes"),
		ContentType: "video/mp4; codecs=avc1",
		Title:       "  My clip  ",
		Description: "demo",
		IsShort:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), got.UserID)
	assert.Equal(t, "My clip", got.Title)
	assert.Equal(t, "demo", got.Description)
	assert.Equal(t, int64(37), got.Duration)
	assert.True(t, got.IsShort)

	decoded, decErr := base64.StdEncoding.DecodeString(got.VideoData)
	require.NoError(t, decErr)
	assert.Equal(t, "raw video bytes", string(decoded))

	// The current tab reloads so the new video shows up.
	assert.Equal(t, 2, remote.callCount("list_videos"))
	assert.True(t, remote.lastShortsOnly.Load())
}

func TestUploadSucceedsWhenFeedReloadFails(t *testing.T) {
	remote := newFakeBackend()
	remote.listVideosFn = func(ctx context.Context, shortsOnly bool) ([]model.Video, error) {
		return nil, errors.New("content down")
	}
	c := New(remote, signedIn(5, "alice"), &fixedProber{duration: 10})

	err := c.Upload(context.Background(), UploadInput{
		Path:        stageFile(t, "data"),
		ContentType: "video/mp4",
		Title:       "My clip",
	})

	assert.NoError(t, err, "the video was created; a listing refresh failure is not an upload failure")
	assert.Equal(t, 1, remote.callCount("upload"))
}

func TestUploadProbeFailureAborts(t *testing.T) {
	remote := newFakeBackend()
	c := New(remote, signedIn(5, "alice"), &fixedProber{err: os.ErrNotExist})

	err := c.Upload(context.Background(), UploadInput{
		Path:        stageFile(t, "data"),
		ContentType: "video/mp4",
		Title:       "My clip",
	})
	require.Error(t, err)
	assert.Zero(t, remote.callCount("upload"))
}
