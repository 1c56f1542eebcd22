package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/api"
	"github.com/groundcrew/crewbot/crewbot/commands"
	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/handlers"
	"github.com/groundcrew/crewbot/crewbot/logger"
	"github.com/groundcrew/crewbot/crewbot/metrics"
	"github.com/groundcrew/crewbot/crewbot/services"
	"github.com/groundcrew/crewbot/crewbot/storage"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler(logger.Options{Level: slog.LevelInfo})))

	cfg, err := crewbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(logger.Options{
		Level:     cfg.Log.Level,
		AddSource: cfg.Log.AddSource,
		NoColor:   cfg.Log.Format == "plain",
	})))
	slog.Info("Starting CrewBot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	slog.Info("Opening storage...", slog.String("type", "sys"), slog.String("backend", cfg.Storage.Backend))
	storageStart := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), config.StorageOpenTimeout)
	defer cancel()

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Storage connection failed",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(storageStart)))
		os.Exit(-1)
	}
	defer backend.Close()

	b := crewbot.New(*cfg, version, commit)

	var promRecorder *metrics.PrometheusRecorder
	if cfg.API.Enabled {
		promRecorder = metrics.NewPrometheusRecorder(nil)
		b.Metrics = promRecorder
		handlers.UseRecorder(promRecorder)
	}

	b.Store = crew.NewStore(backend, crew.WithFlushHook(metrics.FlushHook(b.Metrics)))
	if err = b.Store.Load(ctx); err != nil {
		slog.Error("Failed to load state",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("State loaded",
		slog.String("type", "sys"),
		slog.String("backend", b.Store.Backend()),
		slog.Duration("took", time.Since(storageStart)))

	h := handler.New()

	// Admin commands
	h.Command("/setup", handlers.WrapWithLogging("setup", handlers.RequireAdmin("setup", commands.SetupHandler(b))))
	h.Command("/operation-start", handlers.WrapWithLogging("operation-start", handlers.RequireAdmin("operation-start", commands.OperationStartHandler(b))))
	h.Command("/operation-stop", handlers.WrapWithLogging("operation-stop", handlers.RequireAdmin("operation-stop", commands.OperationStopHandler(b))))
	h.Command("/shift-manage", handlers.WrapWithLogging("shift-manage", handlers.RequireAdmin("shift-manage", commands.ShiftManageHandler(b))))
	h.Autocomplete("/operation-start", commands.AirportAutocomplete(b))

	// Shift commands
	h.Route("/shift", func(r handler.Router) {
		r.Command("/start", handlers.WrapWithLogging("shift start", commands.ShiftStartHandler(b)))
		r.Command("/end", handlers.WrapWithLogging("shift end", commands.ShiftEndHandler(b)))
		r.Command("/break-start", handlers.WrapWithLogging("shift break-start", commands.BreakStartHandler(b)))
		r.Command("/break-end", handlers.WrapWithLogging("shift break-end", commands.BreakEndHandler(b)))
		r.Autocomplete("/start", commands.AirportAutocomplete(b))
	})

	// Public commands
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))
	h.Command("/status", handlers.WrapWithLogging("status", commands.StatusHandler(b)))
	h.Command("/links", handlers.WrapWithLogging("links", commands.LinksHandler(b)))
	h.Command("/version", handlers.WrapWithLogging("version", commands.VersionHandler(b)))

	// Components
	h.Component(services.AttendCustomID+"{operation_id}", handlers.WrapComponentWithLogging("attend", commands.AttendHandler(b)))
	h.Component(commands.ManageAddTimeID, handlers.WrapComponentWithLogging("manage-add-time",
		handlers.RequireAdminComponent("manage-add-time", commands.OpenManageModal(commands.ManageAddTimeID))))
	h.Component(commands.ManageRemoveTimeID, handlers.WrapComponentWithLogging("manage-remove-time",
		handlers.RequireAdminComponent("manage-remove-time", commands.OpenManageModal(commands.ManageRemoveTimeID))))
	h.Component(commands.ManageEndShiftID, handlers.WrapComponentWithLogging("manage-end-shift",
		handlers.RequireAdminComponent("manage-end-shift", commands.OpenManageModal(commands.ManageEndShiftID))))
	h.Component(commands.ManageLeaderboardID, handlers.WrapComponentWithLogging("manage-leaderboard",
		handlers.RequireAdminComponent("manage-leaderboard", commands.UpdateLeaderboardHandler(b))))

	// Modals
	h.Modal(commands.ManageAddTimeID, handlers.WrapModalWithLogging("add-time",
		handlers.RequireAdminModal("add-time", commands.AdjustTimeHandler(b, 1))))
	h.Modal(commands.ManageRemoveTimeID, handlers.WrapModalWithLogging("remove-time",
		handlers.RequireAdminModal("remove-time", commands.AdjustTimeHandler(b, -1))))
	h.Modal(commands.ManageEndShiftID, handlers.WrapModalWithLogging("end-shift",
		handlers.RequireAdminModal("end-shift", commands.EndMemberShiftHandler(b))))

	if err = b.SetupBot(h,
		bot.NewListenerFunc(b.OnReady),
		handlers.MemberJoinHandler(b),
		handlers.MemberLeaveHandler(b),
	); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}
	b.InitServices()

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands || cfg.Bot.SyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("error_details", fmt.Sprintf("%+v", err)),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	if err = b.Refresher.Start(); err != nil {
		slog.Error("Failed to start status refresher",
			slog.String("type", "sys"),
			slog.Any("error", err))
	}

	var server *api.Server
	if cfg.API.Enabled {
		server = api.New(api.Options{
			Addr:    cfg.API.Addr,
			Token:   cfg.API.Token,
			Version: version,
			Commit:  commit,
			Metrics: promRecorder.Handler(),
		}, b.Boards)
		server.Start()
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")

	if err := b.Refresher.Stop(); err != nil {
		slog.Warn("Failed to stop status refresher", slog.String("type", "sys"), slog.Any("error", err))
	}
	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Failed to stop API server", slog.String("type", "sys"), slog.Any("error", err))
		}
	}
}
