// Command crewctl is the operator CLI for the crew state document.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/logger"
	"github.com/groundcrew/crewbot/crewbot/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "crewctl",
	Short:         "inspect, export and import the crew state",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(logger.Options{Level: slog.LevelInfo})))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(1)
	}
}

// openStore connects the backend named in the config and loads the
// document from it.
func openStore(ctx context.Context) (*crew.Store, storage.Backend, error) {
	cfg, err := crewbot.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	openCtx, cancel := context.WithTimeout(ctx, config.StorageOpenTimeout)
	defer cancel()
	backend, err := storage.Open(openCtx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	store := crew.NewStore(backend)
	if err := store.Load(ctx); err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("load state: %w", err)
	}
	return store, backend, nil
}
