package handler

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
)

// Routes builds the chi router for the local UI.
func (h *Handler) Routes(staticFS fs.FS, authRL *RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	csrfProtect := csrf.Protect(
		[]byte(h.Cfg.CSRFSecret),
		csrf.Secure(strings.HasPrefix(h.Cfg.BaseURL, "https")),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	r.Use(csrfProtect)

	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.FS(staticFS))))

	// Auth forms go straight to the remote auth endpoint; rate-limit them.
	r.Group(func(r chi.Router) {
		r.Use(authRL.Middleware)
		r.Get("/login", h.LoginForm)
		r.Post("/login", h.LoginSubmit)
		r.Get("/register", h.RegisterForm)
		r.Post("/register", h.RegisterSubmit)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/feed/home", http.StatusSeeOther)
	})
	r.Get("/feed/{tab}", h.FeedPage)
	r.Post("/tutorial/dismiss", h.TutorialDismiss)

	r.Get("/watch/{id}", h.WatchPage)
	r.Post("/watch/{id}/like", h.Like)
	r.Post("/watch/{id}/subscribe", h.Subscribe)
	r.Post("/watch/{id}/comment", h.CommentSubmit)

	r.Get("/c/{username}", h.ChannelPage)

	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/upload", h.UploadForm)
		r.Post("/upload", h.UploadSubmit)
		r.Get("/settings/profile", h.ProfileForm)
		r.Post("/settings/profile", h.ProfileSubmit)
	})

	return r
}

// RequireAuth gates pages behind a signed-in session. The redirect with a
// notice is the gateway's version of popping the auth modal.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.Session.IsAuthenticated() {
			http.Redirect(w, r, "/login?flash="+flashSignInRequired, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const flashSignInRequired = "Sign+in+or+register+to+continue"
