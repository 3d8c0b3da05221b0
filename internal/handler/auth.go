package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vkuzn/tubedesk/internal/session"
)

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.Session.IsAuthenticated() {
		http.Redirect(w, r, "/feed/home", http.StatusSeeOther)
		return
	}
	h.render(w, r, "login.html", PageData{Title: "Sign in"})
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.render(w, r, "login.html", PageData{Title: "Sign in",
			Error: "Username and password are required.",
			Data:  map[string]string{"Username": username}})
		return
	}

	if err := h.Session.Login(r.Context(), username, password); err != nil {
		var authErr *session.AuthError
		msg := "Could not reach the sign-in service."
		if errors.As(err, &authErr) {
			msg = authErr.Message
		}
		h.render(w, r, "login.html", PageData{Title: "Sign in", Error: msg,
			Data: map[string]string{"Username": username}})
		return
	}

	http.Redirect(w, r, "/feed/home", http.StatusSeeOther)
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.Session.IsAuthenticated() {
		http.Redirect(w, r, "/feed/home", http.StatusSeeOther)
		return
	}
	h.render(w, r, "register.html", PageData{Title: "Create account"})
}

func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")

	keep := map[string]string{"Username": username, "Email": email, "DisplayName": displayName}

	if username == "" || email == "" || password == "" || displayName == "" {
		h.render(w, r, "register.html", PageData{Title: "Create account",
			Error: "All fields are required.", Data: keep})
		return
	}

	if err := h.Session.Register(r.Context(), username, email, password, displayName); err != nil {
		var authErr *session.AuthError
		msg := "Could not reach the registration service."
		if errors.As(err, &authErr) {
			msg = authErr.Message
		}
		h.render(w, r, "register.html", PageData{Title: "Create account", Error: msg, Data: keep})
		return
	}

	http.Redirect(w, r, "/feed/home", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout()
	http.Redirect(w, r, "/feed/home", http.StatusSeeOther)
}
