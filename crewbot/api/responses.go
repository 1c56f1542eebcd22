package api

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Response is the envelope of every JSON answer.
type Response struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *Error    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendSuccess(c *fiber.Ctx, data any) error {
	return c.Status(http.StatusOK).JSON(Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func sendError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Response{
		Error:     &Error{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}
