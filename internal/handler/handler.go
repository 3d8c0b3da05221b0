package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/config"
	"github.com/vkuzn/tubedesk/internal/feed"
	"github.com/vkuzn/tubedesk/internal/session"
	"github.com/vkuzn/tubedesk/internal/store"
)

// Handler serves the local UI. It holds the one Session manager and the one
// feed coordinator for the process and renders them with server-side
// templates; every mutation is forwarded to the remote backend.
type Handler struct {
	Session   *session.Manager
	Feed      *feed.Coordinator
	Remote    *backend.Client
	Settings  *store.Store
	Cfg       *config.Config
	templates map[string]*template.Template
}

// New parses the embedded templates and wires the handler.
func New(sess *session.Manager, coordinator *feed.Coordinator, remote *backend.Client, settings *store.Store, cfg *config.Config, templateFS fs.FS) *Handler {
	funcMap := template.FuncMap{
		"formatDuration": func(seconds int64) string {
			return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
		},
		"formatViews": func(count int64) string {
			switch {
			case count == 1:
				return "1 view"
			case count < 1000:
				return fmt.Sprintf("%d views", count)
			case count < 1000000:
				return fmt.Sprintf("%.1fK views", float64(count)/1000)
			default:
				return fmt.Sprintf("%.1fM views", float64(count)/1000000)
			}
		},
		"formatTimeAgo": func(stamp string) string {
			t, err := time.Parse(time.RFC3339, stamp)
			if err != nil {
				if t, err = time.Parse("2006-01-02T15:04:05.999999", stamp); err != nil {
					return stamp
				}
			}
			diff := time.Since(t)
			switch {
			case diff < time.Hour:
				return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
			case diff < 24*time.Hour:
				return fmt.Sprintf("%d hours ago", int(diff.Hours()))
			case diff < 7*24*time.Hour:
				return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
			case diff < 30*24*time.Hour:
				return fmt.Sprintf("%d weeks ago", int(diff.Hours()/(24*7)))
			default:
				return fmt.Sprintf("%d months ago", int(diff.Hours()/(24*30)))
			}
		},
		"initial": func(name string) string {
			for _, r := range name {
				return string(r)
			}
			return "?"
		},
	}

	layoutTmpl := template.Must(
		template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "layout.html"),
	)

	templates := make(map[string]*template.Template)
	entries, err := fs.ReadDir(templateFS, ".")
	if err != nil {
		panic("read template dir: " + err.Error())
	}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" || e.IsDir() {
			continue
		}
		t := template.Must(template.Must(layoutTmpl.Clone()).ParseFS(templateFS, name))
		templates[name] = t
	}

	return &Handler{
		Session:   sess,
		Feed:      coordinator,
		Remote:    remote,
		Settings:  settings,
		Cfg:       cfg,
		templates: templates,
	}
}

// PageData is what every template receives.
type PageData struct {
	Title         string
	Authenticated bool
	UserName      string
	Tab           string
	ShowTutorial  bool
	Flash         string
	Error         string
	CSRFField     template.HTML
	Data          interface{}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data PageData) {
	t, ok := h.templates[name]
	if !ok {
		slog.Error("template not found", "name", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data.Authenticated = h.Session.IsAuthenticated()
	if user := h.Session.Current(); user != nil {
		data.UserName = user.DisplayName
	}
	if data.Flash == "" {
		data.Flash = r.URL.Query().Get("flash")
	}
	if data.Error == "" {
		data.Error = r.URL.Query().Get("error")
	}
	data.CSRFField = csrf.TemplateField(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("render template", "name", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// tutorialPending reports whether the one-time onboarding banner should
// show: never for signed-in users, and only until dismissed.
func (h *Handler) tutorialPending() bool {
	if h.Session.IsAuthenticated() {
		return false
	}
	seen, ok, err := h.Settings.Get(store.KeyTutorialSeen)
	if err != nil {
		slog.Warn("read tutorial flag", "error", err)
		return false
	}
	return !ok || seen != "true"
}
