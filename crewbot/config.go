package crewbot

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/storage"
)

// TokenEnv overrides bot.token when set.
const TokenEnv = "DISCORD_BOT_TOKEN"

var validate = validator.New()

func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env", slog.String("type", "sys"), slog.Any("error", err))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Bot.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig is what an empty config file decodes to.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: slog.LevelInfo},
		Bot: BotConfig{Footer: config.DefaultFooter},
		Storage: storage.Config{
			Backend: "file",
			File:    storage.FileConfig{Path: "bot_data.json"},
		},
		Status: StatusConfig{
			RefreshInterval: Duration{config.StatusRefreshInterval},
			MaxConcurrent:   config.MaxConcurrentRefreshes,
		},
		API: APIConfig{Addr: ":8080"},
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	Bot      BotConfig      `toml:"bot"`
	Storage  storage.Config `toml:"storage"`
	Status   StatusConfig   `toml:"status"`
	API      APIConfig      `toml:"api"`
	Airports []string       `toml:"airports"`
	Links    []LinkConfig   `toml:"links" validate:"dive"`
}

type BotConfig struct {
	DevGuilds      []snowflake.ID `toml:"dev_guilds"`
	Token          string         `toml:"token" validate:"required"`
	SyncCommands   bool           `toml:"sync_commands"`
	WelcomeMembers bool           `toml:"welcome_members"`
	Footer         string         `toml:"footer"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format" validate:"omitempty,oneof=text plain"`
	AddSource bool       `toml:"add_source"`
}

type StatusConfig struct {
	RefreshInterval Duration `toml:"refresh_interval"`
	MaxConcurrent   int      `toml:"max_concurrent" validate:"min=1"`
}

type APIConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr" validate:"required_if=Enabled true"`
	Token   string `toml:"token"`
}

type LinkConfig struct {
	Name string `toml:"name" validate:"required"`
	URL  string `toml:"url" validate:"required,url"`
}

// Duration decodes TOML strings such as "90s" or "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
