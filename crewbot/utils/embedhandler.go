package utils

import (
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"

	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/logger"
)

// ResponseHandler provides standardized response methods for commands, components and modals
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// ErrorType represents different categories of errors for consistent handling
type ErrorType int

const (
	// UserError - malformed input
	UserError ErrorType = iota
	// SystemError - failed saves and anything unexpected
	SystemError
	// NotFoundError - missing roles, channels or setup
	NotFoundError
	// PermissionError - non-admins running admin commands
	PermissionError
	// BusinessLogicError - requests that do not fit the current shift or operation state
	BusinessLogicError
)

// ErrorTypeOf maps a crew error kind onto the response category.
func ErrorTypeOf(err error) ErrorType {
	switch crew.KindOf(err) {
	case crew.KindValidation:
		return UserError
	case crew.KindConflict:
		return BusinessLogicError
	case crew.KindExternal:
		return NotFoundError
	default:
		return SystemError
	}
}

func getErrorPrefix(errorType ErrorType) string {
	switch errorType {
	case UserError:
		return "⚠️"
	case SystemError:
		return "🔧"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	case BusinessLogicError:
		return "⏰"
	default:
		return "❌"
	}
}

func getErrorColor(errorType ErrorType) int {
	switch errorType {
	case UserError, BusinessLogicError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	default:
		return config.ErrorColor
	}
}

// messageCreator is satisfied by command, component and modal events.
type messageCreator interface {
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}

// CreateClassifiedError replies with an ephemeral embed styled by errorType.
func (h *ResponseHandler) CreateClassifiedError(event messageCreator, errorType ErrorType, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: getErrorPrefix(errorType) + " " + message,
			Color:       getErrorColor(errorType),
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

// HandleCrewError replies to the invoking user with the message for err.
func (h *ResponseHandler) HandleCrewError(event messageCreator, err error) error {
	return h.CreateClassifiedError(event, ErrorTypeOf(err), crew.UserMessage(err))
}

// UpdateWithCrewError answers a deferred interaction with the message for
// err. Persistence and internal failures are logged, the rest are expected.
func (h *ResponseHandler) UpdateWithCrewError(event *handler.CommandEvent, err error) error {
	errorType := ErrorTypeOf(err)
	if kind := crew.KindOf(err); kind == crew.KindPersistence || kind == crew.KindInternal {
		logger.LogError("Interaction failed", err, slog.String("kind", kind.String()))
	}
	_, updateErr := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Description: getErrorPrefix(errorType) + " " + crew.UserMessage(err),
			Color:       getErrorColor(errorType),
		}},
	})
	return updateErr
}

func (h *ResponseHandler) CreatePermissionError(event messageCreator, action string) error {
	return h.CreateClassifiedError(event, PermissionError, fmt.Sprintf("You need administrator permissions to %s.", action))
}

func (h *ResponseHandler) CreateUserError(event messageCreator, message string) error {
	return h.CreateClassifiedError(event, UserError, message)
}

// CreateEphemeralSuccess replies with a private green embed.
func (h *ResponseHandler) CreateEphemeralSuccess(event messageCreator, title, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: message,
			Color:       config.SuccessColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateEphemeralInfo(event messageCreator, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: "ℹ️ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

// CreateEmbed replies with embed, privately when ephemeral is set.
func (h *ResponseHandler) CreateEmbed(event messageCreator, embed discord.Embed, ephemeral bool) error {
	msg := discord.MessageCreate{Embeds: []discord.Embed{embed}}
	if ephemeral {
		msg.Flags = discord.MessageFlagEphemeral
	}
	return event.CreateMessage(msg)
}

var _ messageCreator = (*handler.CommandEvent)(nil)
var _ messageCreator = (*handler.ComponentEvent)(nil)
var _ messageCreator = (*handler.ModalEvent)(nil)
