// Package api serves a read-only view of the crew state over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

// Source is what the API reads from.
type Source interface {
	Leaderboard(ctx context.Context, guildID string, limit int) ([]crew.LeaderboardEntry, error)
	Status(ctx context.Context, guildID string) (crew.StatusBoard, error)
}

type Options struct {
	Addr    string
	Token   string
	Version string
	Commit  string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

type Server struct {
	app    *fiber.App
	addr   string
	source Source
	opts   Options
}

func New(opts Options, source Source) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "CrewBot API",
			ErrorHandler:          errorHandler,
			DisableStartupMessage: true,
		}),
		addr:   opts.Addr,
		source: source,
		opts:   opts,
	}

	s.app.Use(recover.New())
	s.app.Use(loggingMiddleware())

	s.app.Get("/healthz", s.health)
	if opts.Metrics != nil {
		s.app.Get("/metrics", bearerAuth(opts.Token), adaptor.HTTPHandler(opts.Metrics))
	}

	communities := s.app.Group("/api/communities", bearerAuth(opts.Token))
	communities.Get("/:id/leaderboard", s.leaderboard)
	communities.Get("/:id/status", s.status)
	return s
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		slog.Info("API server listening", slog.String("type", "sys"), slog.String("addr", s.addr))
		if err := s.app.Listen(s.addr); err != nil {
			slog.Error("API server stopped", slog.String("type", "sys"), slog.Any("error", err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
