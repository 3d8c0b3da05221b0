package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	tubedesk "github.com/vkuzn/tubedesk"
	"github.com/vkuzn/tubedesk/internal/backend"
	"github.com/vkuzn/tubedesk/internal/config"
	"github.com/vkuzn/tubedesk/internal/feed"
	"github.com/vkuzn/tubedesk/internal/handler"
	"github.com/vkuzn/tubedesk/internal/media"
	"github.com/vkuzn/tubedesk/internal/session"
	"github.com/vkuzn/tubedesk/internal/store"
)

// Run wires the gateway together and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	for _, dir := range []string{cfg.DataDir, cfg.DataDir + "/uploads"} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	settings, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer settings.Close()

	if err := settings.Migrate(tubedesk.MigrationFS); err != nil {
		return err
	}
	slog.Info("local state ready")

	remote := backend.New(backend.Options{
		AuthURL:       cfg.AuthURL,
		ContentURL:    cfg.ContentURL,
		EngagementURL: cfg.EngagementURL,
		ProfileURL:    cfg.ProfileURL,
		Timeout:       cfg.HTTPTimeout,
	})

	// One session for the whole process, restored before anything else
	// reads it.
	sess := session.NewManager(remote, settings)
	if err := sess.Restore(); err != nil {
		return err
	}
	if user := sess.Current(); user != nil {
		slog.Info("session restored", "username", user.Username)
	}

	coordinator := feed.New(remote, sess, &media.Prober{})
	defer coordinator.Wait()

	templateFS, err := fs.Sub(tubedesk.TemplateFS, "templates")
	if err != nil {
		return err
	}
	staticFS, err := fs.Sub(tubedesk.StaticFS, "static")
	if err != nil {
		return err
	}

	// Auth submissions: 5 per minute, burst of 5.
	authRL := handler.NewRateLimiter(5.0/60.0, 5)
	defer authRL.Stop()

	h := handler.New(sess, coordinator, remote, settings, cfg, templateFS)
	router := h.Routes(staticFS, authRL)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		srv.Shutdown(context.Background())
	}()

	slog.Info("server starting", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
