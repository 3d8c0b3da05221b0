package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("AUTH_URL", "https://auth.example.com")
	t.Setenv("CONTENT_URL", "https://content.example.com")
	t.Setenv("ENGAGEMENT_URL", "https://engagement.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.ProfileURL, "the profile endpoint is optional")
	assert.Len(t, cfg.CSRFSecret, 32)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("PROFILE_URL", "https://profile.example.com")
	t.Setenv("HTTP_TIMEOUT", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "https://profile.example.com", cfg.ProfileURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRequiresEndpoints(t *testing.T) {
	// t.Setenv records the originals for restore; the unset is what Load sees.
	for _, key := range []string{"AUTH_URL", "CONTENT_URL", "ENGAGEMENT_URL"} {
		t.Setenv(key, "placeholder")
		os.Unsetenv(key)
	}

	_, err := Load()
	require.Error(t, err)
}
