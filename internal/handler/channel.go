package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/model"
)

type channelPageData struct {
	Channel model.ChannelProfile
	Videos  []model.Video
	IsSelf  bool
}

// ChannelPage shows a channel's public profile and uploads.
func (h *Handler) ChannelPage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	channel, err := h.Remote.GetChannel(r.Context(), username)
	if err != nil {
		if errors.Is(err, backend.ErrProfileDisabled) {
			http.NotFound(w, r)
			return
		}
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Channel unavailable", http.StatusBadGateway)
		return
	}

	videos, err := h.Remote.ListVideosByOwner(r.Context(), channel.ID)
	if err != nil {
		// Profile still renders; the listing is the degradable part.
		videos = nil
	}

	isSelf := false
	if user := h.Session.Current(); user != nil {
		isSelf = user.ID == channel.ID
	}

	h.render(w, r, "channel.html", PageData{
		Title: channel.DisplayName,
		Data:  channelPageData{Channel: channel, Videos: videos, IsSelf: isSelf},
	})
}

type profileFormData struct {
	DisplayName        string
	ChannelDescription string
	AvatarURL          string
}

func (h *Handler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	user := h.Session.Current()
	if user == nil {
		http.Redirect(w, r, "/login?flash="+flashSignInRequired, http.StatusSeeOther)
		return
	}
	h.render(w, r, "profile.html", PageData{Title: "Channel settings", Data: profileFormData{
		DisplayName:        user.DisplayName,
		ChannelDescription: user.ChannelDescription,
		AvatarURL:          user.AvatarURL,
	}})
}

// ProfileSubmit forwards only the fields the user changed.
func (h *Handler) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	user := h.Session.Current()
	if user == nil {
		http.Redirect(w, r, "/login?flash="+flashSignInRequired, http.StatusSeeOther)
		return
	}

	form := profileFormData{
		DisplayName:        strings.TrimSpace(r.FormValue("display_name")),
		ChannelDescription: r.FormValue("channel_description"),
		AvatarURL:          strings.TrimSpace(r.FormValue("avatar_url")),
	}

	update := backend.ProfileUpdate{}
	if form.DisplayName != "" && form.DisplayName != user.DisplayName {
		update.DisplayName = &form.DisplayName
	}
	if form.ChannelDescription != user.ChannelDescription {
		update.ChannelDescription = &form.ChannelDescription
	}
	if form.AvatarURL != user.AvatarURL {
		update.AvatarURL = &form.AvatarURL
	}

	if update.DisplayName == nil && update.ChannelDescription == nil && update.AvatarURL == nil {
		h.render(w, r, "profile.html", PageData{Title: "Channel settings",
			Flash: "Nothing to update.", Data: form})
		return
	}

	if err := h.Remote.UpdateProfile(r.Context(), user.ID, update); err != nil {
		var apiErr *backend.APIError
		msg := "Could not update the profile."
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		h.render(w, r, "profile.html", PageData{Title: "Channel settings", Error: msg, Data: form})
		return
	}

	h.render(w, r, "profile.html", PageData{Title: "Channel settings",
		Flash: "Profile updated.", Data: form})
}
