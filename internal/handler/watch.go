package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/feed"
	"github.com/vkuzn/tubedesk/internal/model"
)

type watchPageData struct {
	Video       model.Video
	Interaction feed.Interaction
	IsOwner     bool
}

// WatchPage renders a video, opening it first if it is not already the
// active one. Opening triggers the view recording, comment and subscription
// fetches; the render waits for them so the page is complete, but a
// partially populated interaction state is still valid output. Same-id
// renders reuse the live interaction state: the redirect after a like or
// comment must show the state that action just confirmed, and must not
// record another view.
func (h *Handler) WatchPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	active, interaction, ok := h.Feed.Active()
	if !ok || active.ID != id {
		video, found := h.findVideo(r, id)
		if !found {
			http.NotFound(w, r)
			return
		}

		h.Feed.OpenVideo(r.Context(), video)
		h.Feed.Wait()

		active, interaction, ok = h.Feed.Active()
		if !ok {
			http.NotFound(w, r)
			return
		}
	}

	isOwner := false
	if user := h.Session.Current(); user != nil {
		isOwner = user.ID == active.Owner.ID
	}

	h.render(w, r, "watch.html", PageData{
		Title: active.Title,
		Tab:   h.Feed.Tab(),
		Data: watchPageData{
			Video:       active,
			Interaction: interaction,
			IsOwner:     isOwner,
		},
	})
}

// Like forwards the like toggle; the confirmed state lands in the
// coordinator before the redirect re-renders it.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, func() error {
		return h.Feed.ToggleLike(r.Context())
	})
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, func() error {
		return h.Feed.ToggleSubscription(r.Context())
	})
}

func (h *Handler) CommentSubmit(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, func() error {
		return h.Feed.PostComment(r.Context(), r.FormValue("content"))
	})
}

// interact runs a mutation against the open video and redirects back with
// the outcome. The URL id must still be the open video; a mismatch means
// the state moved on and we simply reopen.
func (h *Handler) interact(w http.ResponseWriter, r *http.Request, action func() error) {
	id := chi.URLParam(r, "id")
	backTo := "/watch/" + id

	active, _, ok := h.Feed.Active()
	if !ok || strconv.FormatInt(active.ID, 10) != id {
		http.Redirect(w, r, backTo, http.StatusSeeOther)
		return
	}

	if err := action(); err != nil {
		switch {
		case errors.Is(err, feed.ErrNotAuthenticated):
			http.Redirect(w, r, "/login?flash="+flashSignInRequired, http.StatusSeeOther)
		case errors.Is(err, feed.ErrSelfSubscription), errors.Is(err, feed.ErrEmptyComment):
			http.Redirect(w, r, backTo+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		default:
			var apiErr *backend.APIError
			msg := "The request failed. Try again."
			if errors.As(err, &apiErr) {
				msg = apiErr.Message
			}
			http.Redirect(w, r, backTo+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
		}
		return
	}

	http.Redirect(w, r, backTo, http.StatusSeeOther)
}

// findVideo resolves an id against the loaded listing, reloading the
// current tab once for direct links issued before this process started.
func (h *Handler) findVideo(r *http.Request, id int64) (model.Video, bool) {
	if v, ok := lookup(h.Feed.Videos(), id); ok {
		return v, true
	}
	if err := h.Feed.LoadFeed(r.Context(), h.Feed.Tab()); err != nil {
		return model.Video{}, false
	}
	return lookup(h.Feed.Videos(), id)
}

func lookup(videos []model.Video, id int64) (model.Video, bool) {
	for _, v := range videos {
		if v.ID == id {
			return v, true
		}
	}
	return model.Video{}, false
}
