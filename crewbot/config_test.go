package crewbot

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundcrew/crewbot/crewbot/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(TokenEnv, "")
	cfg, err := LoadConfig(writeConfig(t, `
[bot]
token = "abc"
`))
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Bot.Token)
	assert.Equal(t, config.DefaultFooter, cfg.Bot.Footer)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "bot_data.json", cfg.Storage.File.Path)
	assert.Equal(t, config.StatusRefreshInterval, cfg.Status.RefreshInterval.Duration)
	assert.False(t, cfg.API.Enabled)
}

func TestLoadConfig_Full(t *testing.T) {
	t.Setenv(TokenEnv, "")
	cfg, err := LoadConfig(writeConfig(t, `
airports = ["IRFD Greater Rockford", "ITKO Tokyo International"]

[log]
level = "debug"
format = "plain"

[bot]
token = "abc"
dev_guilds = [123]
welcome_members = true

[storage]
backend = "redis"
[storage.redis]
addr = "localhost:6379"

[status]
refresh_interval = "90s"
max_concurrent = 2

[api]
enabled = true
addr = ":9090"
token = "secret"

[[links]]
name = "Charts"
url = "https://example.com/charts"
`))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Len(t, cfg.Bot.DevGuilds, 1)
	assert.True(t, cfg.Bot.WelcomeMembers)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, 90*time.Second, cfg.Status.RefreshInterval.Duration)
	assert.Equal(t, 2, cfg.Status.MaxConcurrent)
	assert.Equal(t, ":9090", cfg.API.Addr)
	assert.Len(t, cfg.Airports, 2)
	require.Len(t, cfg.Links, 1)
	assert.Equal(t, "Charts", cfg.Links[0].Name)
}

func TestLoadConfig_TokenFromEnv(t *testing.T) {
	t.Setenv(TokenEnv, "from-env")
	cfg, err := LoadConfig(writeConfig(t, `
[bot]
token = "from-file"
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Bot.Token)

	cfg, err = LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Bot.Token)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv(TokenEnv, "")

	tests := []struct {
		name string
		body string
	}{
		{name: "missing token", body: ""},
		{name: "unknown backend", body: "[bot]\ntoken = \"a\"\n[storage]\nbackend = \"ftp\"\n"},
		{name: "backend without settings", body: "[bot]\ntoken = \"a\"\n[storage]\nbackend = \"postgres\"\n"},
		{name: "bad link url", body: "[bot]\ntoken = \"a\"\n[[links]]\nname = \"x\"\nurl = \"not a url\"\n"},
		{name: "bad duration", body: "[bot]\ntoken = \"a\"\n[status]\nrefresh_interval = \"soon\"\n"},
		{name: "bad log format", body: "[bot]\ntoken = \"a\"\n[log]\nformat = \"xml\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
