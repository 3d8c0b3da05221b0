// Package feed coordinates the video listing and the per-video interaction
// state (likes, subscription, comments) for whichever video is currently
// open. All state is re-derived from the backend on every open; nothing is
// cached across opens.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/model"
)

// Tabs understood by LoadFeed. Only TabShorts changes the listing filter;
// the remaining tabs show the unfiltered feed, as the platform does.
const (
	TabHome          = "home"
	TabShorts        = "shorts"
	TabSubscriptions = "subscriptions"
	TabHistory       = "history"
)

var (
	// ErrNotAuthenticated means the action needs a session that is absent.
	ErrNotAuthenticated = errors.New("sign in required")
	// ErrSelfSubscription rejects subscribing to one's own channel. Checked
	// locally, before any network call.
	ErrSelfSubscription = errors.New("cannot subscribe to your own channel")
	// ErrEmptyComment rejects empty or whitespace-only comments before any
	// network call.
	ErrEmptyComment = errors.New("comment must not be empty")
	// ErrNoActiveVideo means an interaction was attempted with no video open.
	ErrNoActiveVideo = errors.New("no video is open")
)

// LoadError wraps a failed feed load so callers can report it while the
// previous listing stays on screen.
type LoadError struct {
	Tab string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s feed: %v", e.Tab, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError reports a locally rejected upload field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Backend is the slice of the remote client the coordinator uses.
type Backend interface {
	ListVideos(ctx context.Context, shortsOnly bool) ([]model.Video, error)
	RecordView(ctx context.Context, videoID, userID int64) (int64, error)
	ToggleLike(ctx context.Context, videoID, userID int64) (backend.LikeState, error)
	ToggleSubscription(ctx context.Context, subscriberID, channelID int64) (bool, error)
	CheckSubscription(ctx context.Context, subscriberID, channelID int64) (bool, error)
	ListComments(ctx context.Context, videoID int64) ([]model.Comment, error)
	PostComment(ctx context.Context, videoID, userID int64, content string) error
	Upload(ctx context.Context, req backend.UploadRequest) (backend.UploadResult, error)
}

// Sessions is the read-only view of the session the coordinator needs.
type Sessions interface {
	Current() *model.UserProfile
	IsAuthenticated() bool
}

// Interaction is the ephemeral state of the open video. It starts zeroed on
// every open and fills in as the independent fetches complete, in any order.
type Interaction struct {
	Liked             bool
	LikesCount        int64
	Subscribed        bool
	SubscriptionKnown bool
	Comments          []model.Comment
	CommentsLoaded    bool
}

// Coordinator owns the feed listing and the open-video interaction state.
// Every asynchronous completion carries the generation it was issued under
// and is discarded if the target has moved on since.
type Coordinator struct {
	backend Backend
	session Sessions
	prober  DurationProber

	mu          sync.Mutex
	tab         string
	tabGen      uuid.UUID
	videos      []model.Video
	active      *model.Video
	openGen     uuid.UUID
	interaction Interaction

	fetches   int
	fetchDone *sync.Cond
}

// New creates a coordinator showing the home tab with no listing yet.
func New(remote Backend, sessions Sessions, prober DurationProber) *Coordinator {
	c := &Coordinator{backend: remote, session: sessions, prober: prober, tab: TabHome}
	c.fetchDone = sync.NewCond(&c.mu)
	return c
}

// Wait blocks until all in-flight open-video fetches have settled. Used at
// shutdown and by tests.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	for c.fetches > 0 {
		c.fetchDone.Wait()
	}
	c.mu.Unlock()
}

// spawn runs fn on its own goroutine, counted so Wait can drain it. The
// counter increments before the goroutine exists, so a concurrent Wait
// either sees the fetch or its completed effect, never a half-started one.
func (c *Coordinator) spawn(fn func()) {
	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.fetches--
			if c.fetches == 0 {
				c.fetchDone.Broadcast()
			}
			c.mu.Unlock()
		}()
		fn()
	}()
}

// LoadFeed fetches the listing for tab and replaces the in-memory list
// wholesale. On failure the previous list is kept and a *LoadError is
// returned; there is no automatic retry. A load that finishes after a newer
// one started is discarded.
func (c *Coordinator) LoadFeed(ctx context.Context, tab string) error {
	gen := uuid.New()
	c.mu.Lock()
	c.tab = tab
	c.tabGen = gen
	c.mu.Unlock()

	videos, err := c.backend.ListVideos(ctx, tab == TabShorts)
	if err != nil {
		return &LoadError{Tab: tab, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tabGen != gen {
		slog.Debug("discarding stale feed load", "tab", tab)
		return nil
	}
	c.videos = videos
	return nil
}

// Tab returns the active tab.
func (c *Coordinator) Tab() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// Videos returns a copy of the current listing.
func (c *Coordinator) Videos() []model.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Video, len(c.videos))
	copy(out, c.videos)
	return out
}

// OpenVideo makes video the active one. Prior interaction state is fully
// discarded first, then three independent fetches start: view recording
// (best effort), the comment list, and for signed-in non-owners the
// subscription flag. They complete in any order; each result is applied
// only if the video is still the open one.
func (c *Coordinator) OpenVideo(ctx context.Context, video model.Video) {
	gen := uuid.New()

	c.mu.Lock()
	v := video
	c.active = &v
	c.openGen = gen
	c.interaction = Interaction{}
	c.mu.Unlock()

	user := c.session.Current()

	c.spawn(func() { c.recordView(ctx, video, user, gen) })
	c.spawn(func() { c.loadComments(ctx, video.ID, gen) })

	if user != nil && user.ID != video.Owner.ID {
		c.spawn(func() { c.checkSubscription(ctx, user.ID, video.Owner.ID, gen) })
	}
}

// CloseVideo discards the open video and its interaction state. Any fetch
// still in flight will find its generation stale and drop its result.
func (c *Coordinator) CloseVideo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.openGen = uuid.Nil
	c.interaction = Interaction{}
}

// Active returns the open video and its interaction snapshot.
func (c *Coordinator) Active() (model.Video, Interaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return model.Video{}, Interaction{}, false
	}
	return *c.active, c.interaction, true
}

func (c *Coordinator) recordView(ctx context.Context, video model.Video, user *model.UserProfile, gen uuid.UUID) {
	var userID int64
	if user != nil {
		userID = user.ID
	}
	views, err := c.backend.RecordView(ctx, video.ID, userID)
	if err != nil {
		// Best effort: never surfaced to the user.
		slog.Warn("record view", "video_id", video.ID, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openGen == gen && c.active != nil {
		c.active.ViewsCount = views
	}
	for i := range c.videos {
		if c.videos[i].ID == video.ID {
			c.videos[i].ViewsCount = views
		}
	}
}

func (c *Coordinator) loadComments(ctx context.Context, videoID int64, gen uuid.UUID) {
	comments, err := c.backend.ListComments(ctx, videoID)
	if err != nil {
		slog.Warn("load comments", "video_id", videoID, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openGen != gen {
		slog.Debug("discarding stale comment list", "video_id", videoID)
		return
	}
	c.interaction.Comments = comments
	c.interaction.CommentsLoaded = true
}

func (c *Coordinator) checkSubscription(ctx context.Context, subscriberID, channelID int64, gen uuid.UUID) {
	subscribed, err := c.backend.CheckSubscription(ctx, subscriberID, channelID)
	if err != nil {
		slog.Warn("check subscription", "channel_id", channelID, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openGen != gen {
		return
	}
	c.interaction.Subscribed = subscribed
	c.interaction.SubscriptionKnown = true
}

// ToggleLike flips the like on the open video. The server's answer replaces
// local state; the client never guesses the complement.
func (c *Coordinator) ToggleLike(ctx context.Context) error {
	user := c.session.Current()
	if user == nil {
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return ErrNoActiveVideo
	}
	videoID := c.active.ID
	gen := c.openGen
	c.mu.Unlock()

	state, err := c.backend.ToggleLike(ctx, videoID, user.ID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openGen == gen {
		c.interaction.Liked = state.Liked
		c.interaction.LikesCount = state.LikesCount
	}
	return nil
}

// ToggleSubscription flips the subscription to the open video's channel.
// Subscribing to oneself is rejected locally, before any request goes out.
func (c *Coordinator) ToggleSubscription(ctx context.Context) error {
	user := c.session.Current()
	if user == nil {
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return ErrNoActiveVideo
	}
	channelID := c.active.Owner.ID
	gen := c.openGen
	c.mu.Unlock()

	if channelID == user.ID {
		return ErrSelfSubscription
	}

	subscribed, err := c.backend.ToggleSubscription(ctx, user.ID, channelID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openGen == gen {
		c.interaction.Subscribed = subscribed
		c.interaction.SubscriptionKnown = true
	}
	return nil
}

// PostComment stores a comment on the open video, then reloads the whole
// list so the displayed order is always the server's. No optimistic insert.
func (c *Coordinator) PostComment(ctx context.Context, content string) error {
	user := c.session.Current()
	if user == nil {
		return ErrNotAuthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyComment
	}

	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return ErrNoActiveVideo
	}
	videoID := c.active.ID
	gen := c.openGen
	c.mu.Unlock()

	if err := c.backend.PostComment(ctx, videoID, user.ID, content); err != nil {
		return err
	}

	comments, err := c.backend.ListComments(ctx, videoID)
	if err != nil {
		// The comment is stored; only the refresh failed.
		slog.Warn("reload comments after post", "video_id", videoID, "error", err)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openGen == gen {
		c.interaction.Comments = comments
		c.interaction.CommentsLoaded = true
	}
	return nil
}
