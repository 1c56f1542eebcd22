package crewbot

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/metrics"
	"github.com/groundcrew/crewbot/crewbot/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		Clock:     crew.SystemClock{},
		Metrics:   metrics.NoopRecorder{},
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	Clock   crew.Clock
	Store   *crew.Store
	Shifts  *crew.ShiftTracker
	Ops     *crew.OperationTracker
	Setup   *crew.Setup
	Metrics metrics.Recorder

	Platform         *services.Platform
	Members          *services.MemberResolver
	Boards           *services.Boards
	Airports         *services.Airports
	LeaderboardImage *services.LeaderboardImageService
	Refresher        *services.Refresher
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMembers)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagRoles, cache.FlagMembers)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

// InitServices wires the crew core to the Discord client. SetupBot must
// have run and Store must be set.
func (b *Bot) InitServices() {
	rest := b.Client.Rest()

	b.Members = services.NewMemberResolver(rest, config.MemberCacheSize)
	b.Platform = services.NewPlatform(rest, b.Clock, b.Cfg.Bot.Footer)
	b.Setup = crew.NewSetup(b.Store)
	b.Shifts = crew.NewShiftTracker(b.Store, b.Clock)
	b.Ops = crew.NewOperationTracker(b.Store, b.Clock, b.Platform)
	b.Boards = services.NewBoards(rest, b.Store, b.Setup, b.Members, b.Clock, b.Cfg.Bot.Footer)
	b.Airports = services.NewAirports(b.Cfg.Airports)
	b.LeaderboardImage = services.NewLeaderboardImageService(b.Cfg.Bot.Footer)
	b.Refresher = services.NewRefresher(b.Store, b.Boards, b.Metrics,
		b.Cfg.Status.RefreshInterval.Duration, b.Cfg.Status.MaxConcurrent)
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("CrewBot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), config.PresenceTimeout)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("the ramp"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
