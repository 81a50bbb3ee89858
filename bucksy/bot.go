package bucksy

import (
	"context"
	"log/slog"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/bucksy-bot/bucksy/bucksy/handlers"
	"github.com/bucksy-bot/bucksy/bucksy/qotd"
	"github.com/bucksy-bot/bucksy/bucksy/scheduler"
	"github.com/bucksy-bot/bucksy/bucksy/services"
	"github.com/bucksy-bot/bucksy/bucksy/wtp"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		StartTime: time.Now(),
	}
}

type Bot struct {
	Cfg        Config
	Client     bot.Client
	Paginator  *paginator.Manager
	Version    string
	Commit     string
	StartTime  time.Time
	DB         *database.DB
	Users      repositories.UserRepository
	Questions  repositories.QuestionRepository
	Shinies    repositories.ShinyRepository
	Admins     repositories.AdminRepository
	Economy    *economy.Service
	Spaces     *services.SpacesService
	QOTD       *qotd.Publisher
	Game       *wtp.Game
	Poster     *scheduler.Poster
	Cooldowns  *command.CooldownTracker
	Dispatcher *command.Dispatcher
	Messages   *handlers.Messages
	Greeter    *handlers.Greeter
}

// SetupBot creates the gateway client. Event listeners read the bot's
// fields lazily, so Wire may run after this but must finish before
// OpenGateway.
func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMembers,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds|cache.FlagRoles)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
		bot.WithEventListeners(
			bot.NewListenerFunc(b.onMessageCreate),
			bot.NewListenerFunc(b.onMemberJoin),
			bot.NewListenerFunc(b.onMemberLeave),
		),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Bucksy is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithListeningActivity("!help"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}

func (b *Bot) onMessageCreate(e *events.MessageCreate) {
	if b.Messages != nil {
		b.Messages.OnMessageCreate(e)
	}
}

func (b *Bot) onMemberJoin(e *events.GuildMemberJoin) {
	if b.Greeter != nil {
		b.Greeter.OnMemberJoin(e)
	}
}

func (b *Bot) onMemberLeave(e *events.GuildMemberLeave) {
	if b.Greeter != nil {
		b.Greeter.OnMemberLeave(e)
	}
}

// Start runs the schedules and the cooldown purge until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	if b.Poster != nil {
		b.Poster.Run()
	}
	if b.Cooldowns != nil {
		go b.Cooldowns.Run(ctx, time.Minute, 10*time.Minute)
	}
}

func (b *Bot) Close(ctx context.Context) {
	if b.Poster != nil {
		b.Poster.Stop(ctx)
	}
	if b.Client != nil {
		b.Client.Close(ctx)
	}
	if b.DB != nil {
		if err := b.DB.Close(ctx); err != nil {
			slog.Error("Failed to close database", slog.String("type", "db"), slog.Any("error", err))
		}
	}
}
