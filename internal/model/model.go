// Package model holds the wire types shared with the remote YouBube backend.
// Field names and JSON tags mirror the backend contract exactly; the backend
// is a black box and these shapes are the only agreement we have with it.
package model

// UserProfile is the authenticated user's identity as returned by the auth
// endpoint and mirrored into the local state store.
type UserProfile struct {
	ID                 int64  `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	DisplayName        string `json:"display_name"`
	ChannelDescription string `json:"channel_description,omitempty"`
	AvatarURL          string `json:"avatar_url,omitempty"`
	CreatedAt          string `json:"created_at"`
}

// ChannelRef identifies a video's owner or a comment's author.
type ChannelRef struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Video is immutable once fetched except ViewsCount, which is refreshed
// after a view event.
type Video struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	VideoURL     string     `json:"video_url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Duration     int64      `json:"duration"`
	IsShort      bool       `json:"is_short"`
	ViewsCount   int64      `json:"views_count"`
	CreatedAt    string     `json:"created_at"`
	Owner        ChannelRef `json:"user"`
}

// Comment is one entry of a video's comment list, newest first.
type Comment struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	CreatedAt string     `json:"created_at"`
	Author    ChannelRef `json:"user"`
}

// ChannelProfile is the public view of a channel, including aggregate
// counters the profile endpoint computes server-side.
type ChannelProfile struct {
	UserProfile
	SubscribersCount int64 `json:"subscribers_count"`
	VideosCount      int64 `json:"videos_count"`
}
