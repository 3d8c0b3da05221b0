package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the TubeDesk gateway. The three
// backend endpoints are opaque remote services; their URLs are the whole
// contract we have with them.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	DataDir    string `env:"DATA_DIR"    envDefault:"./data"`
	BaseURL    string `env:"BASE_URL"    envDefault:"http://localhost:8080"`

	// CSRFSecret signs form tokens for the local UI. 32 bytes.
	CSRFSecret string `env:"CSRF_SECRET" envDefault:"change-me-in-production-32bytes!"`

	// Remote YouBube endpoints.
	AuthURL       string `env:"AUTH_URL,required"`
	ContentURL    string `env:"CONTENT_URL,required"`
	EngagementURL string `env:"ENGAGEMENT_URL,required"`
	ProfileURL    string `env:"PROFILE_URL"`

	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT"     envDefault:"15s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"1073741824"`
	LogLevel       string        `env:"LOG_LEVEL"        envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
