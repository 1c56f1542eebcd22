package handlers

import (
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/groundcrew/crewbot/crewbot/utils"
)

// IsAdmin reports whether the invoking member has the administrator
// permission in the guild.
func IsAdmin(m *discord.ResolvedMember) bool {
	return m != nil && m.Permissions.Has(discord.PermissionAdministrator)
}

func denied(kind, name string, user discord.User) {
	slog.Info("Permission denied",
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_name", user.Username),
		slog.String("status", "denied"))
}

// RequireAdmin only lets administrators run h.
func RequireAdmin(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !IsAdmin(e.Member()) {
			denied("cmd", name, e.User())
			return utils.EH.CreatePermissionError(e, "use this command")
		}
		return h(e)
	}
}

func RequireAdminComponent(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		if !IsAdmin(e.Member()) {
			denied("component", name, e.User())
			return utils.EH.CreatePermissionError(e, "use this button")
		}
		return h(e)
	}
}

func RequireAdminModal(name string, h handler.ModalHandler) handler.ModalHandler {
	return func(e *handler.ModalEvent) error {
		if !IsAdmin(e.Member()) {
			denied("modal", name, e.User())
			return utils.EH.CreatePermissionError(e, "do this")
		}
		return h(e)
	}
}
