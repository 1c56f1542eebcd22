package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/metrics"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

var recorder metrics.Recorder = metrics.NoopRecorder{}

// UseRecorder sets where interaction timings are reported.
func UseRecorder(r metrics.Recorder) {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	recorder = r
}

// interaction is what the wrappers need from any event.
type interaction struct {
	kind    string
	label   string
	name    string
	user    discord.User
	guildID *snowflake.ID
	channel snowflake.ID
}

func (i interaction) attrs() []any {
	guild := ""
	if i.guildID != nil {
		guild = i.guildID.String()
	}
	return []any{
		slog.String("type", i.kind),
		slog.String("name", i.name),
		slog.String("user_id", i.user.ID.String()),
		slog.String("user_name", i.user.Username),
		slog.String("guild_id", guild),
	}
}

// run executes fn with the start/completion/slow/timeout logging every
// interaction gets. Crew errors returned by fn are answered with reply and
// count as handled.
func run(in interaction, fn func() error, reply func(error) error) error {
	start := time.Now()
	slog.Info(in.label+" started", append(in.attrs(), slog.String("channel_id", in.channel.String()))...)

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		duration := time.Since(start)
		attrs := append(in.attrs(), slog.Duration("took", duration))

		var crewErr *crew.Error
		switch {
		case err == nil:
			outcome := "success"
			if duration > config.SlowCommandThreshold {
				outcome = "slow"
				slog.Warn(in.label+" executed slowly", append(attrs, slog.String("status", outcome))...)
			} else {
				slog.Info(in.label+" completed", append(attrs, slog.String("status", outcome))...)
			}
			recorder.ObserveInteraction(in.kind, in.name, duration, outcome)
			return nil

		case errors.As(err, &crewErr):
			outcome := crewErr.Kind.String()
			recorder.ObserveInteraction(in.kind, in.name, duration, outcome)
			if crewErr.Kind == crew.KindValidation || crewErr.Kind == crew.KindConflict {
				slog.Info(in.label+" rejected", append(attrs, slog.String("status", outcome), slog.String("code", crewErr.Code))...)
			} else {
				slog.Error(in.label+" failed", append(attrs, slog.String("status", outcome), slog.Any("error", err))...)
			}
			return reply(err)

		default:
			recorder.ObserveInteraction(in.kind, in.name, duration, "failed")
			slog.Error(in.label+" failed", append(attrs, slog.Any("error", err), slog.String("status", "failed"))...)
			return err
		}

	case <-time.After(config.CommandTimeout):
		recorder.ObserveInteraction(in.kind, in.name, config.CommandTimeout, "timeout")
		slog.Error(in.label+" timed out", append(in.attrs(),
			slog.String("status", "timeout"),
			slog.Duration("timeout", config.CommandTimeout))...)
		return fmt.Errorf("%s timed out after %s", in.name, config.CommandTimeout)
	}
}

// WrapWithLogging wraps a command handler with logging functionality
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return run(interaction{
			kind:    "cmd",
			label:   "Command",
			name:    name,
			user:    e.User(),
			guildID: e.GuildID(),
			channel: e.ChannelID(),
		}, func() error {
			return h(e)
		}, func(err error) error {
			return utils.EH.HandleCrewError(e, err)
		})
	}
}

// WrapComponentWithLogging wraps a component handler with logging functionality
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		return run(interaction{
			kind:    "component",
			label:   "Component interaction",
			name:    name,
			user:    e.User(),
			guildID: e.GuildID(),
			channel: e.ChannelID(),
		}, func() error {
			return h(e)
		}, func(err error) error {
			return utils.EH.HandleCrewError(e, err)
		})
	}
}

// WrapModalWithLogging wraps a modal submit handler with logging functionality
func WrapModalWithLogging(name string, h handler.ModalHandler) handler.ModalHandler {
	return func(e *handler.ModalEvent) error {
		return run(interaction{
			kind:    "modal",
			label:   "Modal submit",
			name:    name,
			user:    e.User(),
			guildID: e.GuildID(),
			channel: e.ChannelID(),
		}, func() error {
			return h(e)
		}, func(err error) error {
			return utils.EH.HandleCrewError(e, err)
		})
	}
}
