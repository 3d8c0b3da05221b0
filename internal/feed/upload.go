package feed

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/media"
)

// DurationProber reads a video file's duration from its decoded metadata.
type DurationProber interface {
	VideoDuration(ctx context.Context, path string) (int64, error)
}

// UploadInput describes a locally staged file about to be submitted.
type UploadInput struct {
	Path        string
	Filename    string
	ContentType string
	Title       string
	Description string
	IsShort     bool
}

// Upload validates the input locally, probes the file's duration, encodes
// the content and submits it. On success the current tab's listing is
// reloaded so the new video appears. Validation failures never reach the
// network.
func (c *Coordinator) Upload(ctx context.Context, in UploadInput) error {
	user := c.session.Current()
	if user == nil {
		return ErrNotAuthenticated
	}

	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if in.Path == "" {
		return &ValidationError{Field: "file", Message: "select a video file"}
	}
	if !media.IsVideoType(in.ContentType) {
		return &ValidationError{Field: "file", Message: "file must be a video"}
	}

	duration, err := c.prober.VideoDuration(ctx, in.Path)
	if err != nil {
		return fmt.Errorf("probe duration: %w", err)
	}

	raw, err := os.ReadFile(in.Path)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	_, err = c.backend.Upload(ctx, backend.UploadRequest{
		UserID:      user.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		VideoData:   base64.StdEncoding.EncodeToString(raw),
		Duration:    duration,
		IsShort:     in.IsShort,
	})
	if err != nil {
		return err
	}

	if err := c.LoadFeed(ctx, c.Tab()); err != nil {
		// The video is created; only the listing refresh failed.
		slog.Warn("reload feed after upload", "error", err)
	}
	return nil
}
