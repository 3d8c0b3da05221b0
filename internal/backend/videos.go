package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/vkuzn/tubedesk/internal/model"
)

// ListVideos fetches the feed listing. shortsOnly toggles the is_short
// filter; the backend returns newest first, capped server-side.
func (c *Client) ListVideos(ctx context.Context, shortsOnly bool) ([]model.Video, error) {
	query := url.Values{}
	if shortsOnly {
		query.Set("is_short", "true")
	}

	var resp struct {
		Videos []model.Video `json:"videos"`
	}
	if err := c.getJSON(ctx, c.contentURL, query, &resp); err != nil {
		return nil, err
	}
	return resp.Videos, nil
}

// ListVideosByOwner fetches a single channel's uploads.
func (c *Client) ListVideosByOwner(ctx context.Context, ownerID int64) ([]model.Video, error) {
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(ownerID, 10))

	var resp struct {
		Videos []model.Video `json:"videos"`
	}
	if err := c.getJSON(ctx, c.contentURL, query, &resp); err != nil {
		return nil, err
	}
	return resp.Videos, nil
}

// UploadRequest is the content endpoint's upload action. VideoData is the
// base64-encoded file content; Duration comes from local media probing.
type UploadRequest struct {
	UserID      int64
	Title       string
	Description string
	VideoData   string
	Duration    int64
	IsShort     bool
}

// UploadResult identifies the created video.
type UploadResult struct {
	VideoID   int64  `json:"video_id"`
	VideoURL  string `json:"video_url"`
	CreatedAt string `json:"created_at"`
}

// Upload submits a new video.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	var result UploadResult
	err := c.postJSON(ctx, c.contentURL, map[string]any{
		"action":      "upload",
		"user_id":     req.UserID,
		"title":       req.Title,
		"description": req.Description,
		"video_data":  req.VideoData,
		"duration":    req.Duration,
		"is_short":    req.IsShort,
	}, &result)
	return result, err
}
