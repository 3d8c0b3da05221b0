package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vkuzn/tubedesk/internal/feed"
	"github.com/vkuzn/tubedesk/internal/model"
	"github.com/vkuzn/tubedesk/internal/store"
)

type feedPageData struct {
	Videos []model.Video
}

var knownTabs = map[string]bool{
	feed.TabHome:          true,
	feed.TabShorts:        true,
	feed.TabSubscriptions: true,
	feed.TabHistory:       true,
}

// FeedPage renders the listing for a tab. Navigating here closes any open
// video. A failed load keeps the previous listing on screen with a notice.
func (h *Handler) FeedPage(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	if !knownTabs[tab] {
		http.NotFound(w, r)
		return
	}

	h.Feed.CloseVideo()

	data := PageData{
		Title:        "TubeDesk",
		Tab:          tab,
		ShowTutorial: h.tutorialPending(),
	}

	if err := h.Feed.LoadFeed(r.Context(), tab); err != nil {
		var loadErr *feed.LoadError
		if errors.As(err, &loadErr) {
			data.Error = "Could not load videos."
		} else {
			data.Error = err.Error()
		}
	}

	data.Data = feedPageData{Videos: h.Feed.Videos()}
	h.render(w, r, "feed.html", data)
}

// TutorialDismiss records the one-time onboarding flag.
func (h *Handler) TutorialDismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.Settings.Set(store.KeyTutorialSeen, "true"); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/feed/"+h.Feed.Tab(), http.StatusSeeOther)
}
