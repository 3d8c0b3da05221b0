package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/vkuzn/tubedesk/internal/model"
)

// LikeState is the authoritative like pair returned by the like action.
// It replaces local state wholesale; the client never computes its own flip.
type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// RecordView reports a playback start. userID may be zero for anonymous
// viewers; the backend accepts a null user. Returns the refreshed count.
func (c *Client) RecordView(ctx context.Context, videoID, userID int64) (int64, error) {
	var user any
	if userID != 0 {
		user = userID
	}

	var resp struct {
		ViewsCount int64 `json:"views_count"`
	}
	err := c.postJSON(ctx, c.engagementURL, map[string]any{
		"action":   "view",
		"video_id": videoID,
		"user_id":  user,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.ViewsCount, nil
}

// ToggleLike flips the like server-side and returns the confirmed state.
func (c *Client) ToggleLike(ctx context.Context, videoID, userID int64) (LikeState, error) {
	var state LikeState
	err := c.postJSON(ctx, c.engagementURL, map[string]any{
		"action":   "like",
		"video_id": videoID,
		"user_id":  userID,
	}, &state)
	return state, err
}

// ToggleSubscription flips the subscription server-side and returns the
// confirmed flag.
func (c *Client) ToggleSubscription(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	var resp struct {
		Subscribed bool `json:"subscribed"`
	}
	err := c.postJSON(ctx, c.engagementURL, map[string]any{
		"action":        "subscribe",
		"subscriber_id": subscriberID,
		"channel_id":    channelID,
	}, &resp)
	return resp.Subscribed, err
}

// CheckSubscription reports whether subscriber follows channel.
func (c *Client) CheckSubscription(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	query := url.Values{}
	query.Set("action", "check_subscription")
	query.Set("subscriber_id", strconv.FormatInt(subscriberID, 10))
	query.Set("channel_id", strconv.FormatInt(channelID, 10))

	var resp struct {
		Subscribed bool `json:"subscribed"`
	}
	err := c.getJSON(ctx, c.engagementURL, query, &resp)
	return resp.Subscribed, err
}

// ListComments fetches a video's comments, newest first.
func (c *Client) ListComments(ctx context.Context, videoID int64) ([]model.Comment, error) {
	query := url.Values{}
	query.Set("action", "comment")
	query.Set("video_id", strconv.FormatInt(videoID, 10))

	var resp struct {
		Comments []model.Comment `json:"comments"`
	}
	if err := c.getJSON(ctx, c.engagementURL, query, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// PostComment stores a comment. Callers reload the list afterwards; the
// response only confirms creation.
func (c *Client) PostComment(ctx context.Context, videoID, userID int64, content string) error {
	return c.postJSON(ctx, c.engagementURL, map[string]any{
		"action":   "comment",
		"video_id": videoID,
		"user_id":  userID,
		"content":  content,
	}, nil)
}
