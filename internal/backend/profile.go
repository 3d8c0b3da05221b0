package backend

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/vkuzn/tubedesk/internal/model"
)

// ErrProfileDisabled is returned when no profile endpoint is configured.
var ErrProfileDisabled = errors.New("profile endpoint not configured")

// GetChannel fetches a channel's public profile by username.
func (c *Client) GetChannel(ctx context.Context, username string) (model.ChannelProfile, error) {
	var profile model.ChannelProfile
	if c.profileURL == "" {
		return profile, ErrProfileDisabled
	}

	query := url.Values{}
	query.Set("username", username)
	err := c.getJSON(ctx, c.profileURL, query, &profile)
	return profile, err
}

// GetChannelByID is GetChannel keyed by user id. The endpoint accepts
// either key.
func (c *Client) GetChannelByID(ctx context.Context, userID int64) (model.ChannelProfile, error) {
	var profile model.ChannelProfile
	if c.profileURL == "" {
		return profile, ErrProfileDisabled
	}

	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))
	err := c.getJSON(ctx, c.profileURL, query, &profile)
	return profile, err
}

// ProfileUpdate carries the optional profile fields. Nil means "leave as is";
// the backend requires at least one field to be set.
type ProfileUpdate struct {
	DisplayName        *string
	ChannelDescription *string
	AvatarURL          *string
}

// UpdateProfile changes the signed-in user's channel settings.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) error {
	if c.profileURL == "" {
		return ErrProfileDisabled
	}

	body := map[string]any{"user_id": userID}
	if update.DisplayName != nil {
		body["display_name"] = *update.DisplayName
	}
	if update.ChannelDescription != nil {
		body["channel_description"] = *update.ChannelDescription
	}
	if update.AvatarURL != nil {
		body["avatar_url"] = *update.AvatarURL
	}

	return c.postJSON(ctx, c.profileURL, body, nil)
}
