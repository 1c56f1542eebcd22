package api

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

// loggingMiddleware logs every request, at warn for 4xx and error for 5xx.
func loggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		attrs := []any{
			slog.String("type", "api"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("took", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}
		slog.Log(c.Context(), level, "HTTP request processed", attrs...)
		return err
	}
}

// bearerAuth rejects requests without "Authorization: Bearer <token>". An
// empty token disables the check.
func bearerAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}
		got, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return sendError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid bearer token")
		}
		return c.Next()
	}
}

// errorHandler answers errors returned by handlers with the JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return sendError(c, fe.Code, strings.ToUpper(strings.ReplaceAll(http.StatusText(fe.Code), " ", "_")), fe.Message)
	}

	switch crew.KindOf(err) {
	case crew.KindValidation:
		return sendError(c, http.StatusBadRequest, "BAD_REQUEST", crew.UserMessage(err))
	case crew.KindConflict:
		return sendError(c, http.StatusConflict, "CONFLICT", crew.UserMessage(err))
	case crew.KindExternal:
		return sendError(c, http.StatusNotFound, "NOT_FOUND", crew.UserMessage(err))
	default:
		return sendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
	}
}
