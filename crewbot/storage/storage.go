// Package storage holds the backends the crew store flushes its document to.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/database"
)

// DocumentKey identifies the state document in keyed backends.
const DocumentKey = "crewbot"

// Backend is a crew.Backend that holds a connection.
type Backend interface {
	crew.Backend
	Close() error
}

type Config struct {
	Backend  string            `toml:"backend" validate:"required,oneof=file memory postgres sqlite redis spaces mongo"`
	File     FileConfig        `toml:"file"`
	Postgres database.DBConfig `toml:"postgres"`
	SQLite   SQLiteConfig      `toml:"sqlite"`
	Redis    RedisConfig       `toml:"redis"`
	Spaces   SpacesConfig      `toml:"spaces"`
	Mongo    MongoConfig       `toml:"mongo"`
}

type FileConfig struct {
	Path string `toml:"path"`
}

type SQLiteConfig struct {
	Path string `toml:"path"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Object string `toml:"object"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	missing := func(field string) error {
		return fmt.Errorf("storage.%s.%s is required", c.Backend, field)
	}
	switch c.Backend {
	case "file":
		if c.File.Path == "" {
			return missing("path")
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return missing("path")
		}
	case "postgres":
		if c.Postgres.Host == "" {
			return missing("host")
		}
		if c.Postgres.Database == "" {
			return missing("database")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return missing("addr")
		}
	case "spaces":
		if c.Spaces.Bucket == "" {
			return missing("bucket")
		}
		if c.Spaces.Region == "" {
			return missing("region")
		}
	case "mongo":
		if c.Mongo.URI == "" {
			return missing("uri")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Backend)
	}
	return nil
}

// Open connects the configured backend.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case "file":
		backend = NewFile(cfg.File.Path)
	case "memory":
		backend = NewMemory()
	case "sqlite":
		backend, err = NewSQLite(ctx, cfg.SQLite.Path)
	case "postgres":
		backend, err = NewPostgres(ctx, cfg.Postgres)
	case "redis":
		backend, err = NewRedis(ctx, cfg.Redis)
	case "spaces":
		backend, err = NewSpaces(ctx, cfg.Spaces)
	case "mongo":
		backend, err = NewMongo(ctx, cfg.Mongo)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Backend, err)
	}

	slog.Info("Storage backend ready",
		slog.String("type", "store"),
		slog.String("backend", backend.Name()),
		slog.Duration("took", time.Since(start)))
	return backend, nil
}
