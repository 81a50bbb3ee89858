package bucksy

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/commands/admin"
	"github.com/bucksy-bot/bucksy/bucksy/commands/games"
	"github.com/bucksy-bot/bucksy/bucksy/commands/moderation"
	"github.com/bucksy-bot/bucksy/bucksy/commands/roles"
	"github.com/bucksy-bot/bucksy/bucksy/commands/system"
	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/bucksy-bot/bucksy/bucksy/handlers"
	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/bucksy-bot/bucksy/bucksy/notify"
	"github.com/bucksy-bot/bucksy/bucksy/qotd"
	"github.com/bucksy-bot/bucksy/bucksy/scheduler"
	"github.com/bucksy-bot/bucksy/bucksy/services"
	"github.com/bucksy-bot/bucksy/bucksy/wtp"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
)

const httpTimeout = 15 * time.Second

// SlashCommands is every slash command definition synced to Discord.
func SlashCommands() []discord.ApplicationCommandCreate {
	return slices.Concat(
		games.Commands,
		admin.Commands,
		moderation.Commands,
		roles.Commands,
		system.Commands,
	)
}

// ConnectDB opens the store, makes sure its indexes exist and builds the
// repositories on top of it.
func (b *Bot) ConnectDB(ctx context.Context) error {
	start := time.Now()
	db, err := database.New(ctx, database.DBConfig{
		URI:      b.Cfg.DB.URI,
		Database: b.Cfg.DB.Database,
		PoolSize: b.Cfg.DB.PoolSize,
	})
	if err != nil {
		return err
	}
	if err = db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(ctx)
		return err
	}
	slog.Info("Database connected successfully",
		slog.String("type", "db"),
		slog.String("database", b.Cfg.DB.Database),
		slog.Duration("took", time.Since(start)))

	b.DB = db
	b.Users = repositories.NewUserRepository(db)
	b.Questions = repositories.NewQuestionRepository(db)
	b.Shinies = repositories.NewShinyRepository(db)
	b.Admins = repositories.NewAdminRepository(db)
	return nil
}

// Wire builds the economy, the scheduled posters and the command pipeline
// and routes slash commands on r. It needs SetupBot and ConnectDB first.
func (b *Bot) Wire(ctx context.Context, r handler.Router) error {
	rest := b.Client.Rest()
	sender := handlers.NewRestSender(rest)
	guild := handlers.NewRestGuild(rest)
	httpClient := &http.Client{Timeout: httpTimeout}

	b.Economy = economy.NewService(b.Users, b.Cfg.Economy.StartingPoints)

	var source qotd.Source
	switch b.Cfg.QOTD.Source {
	case "scrape":
		source = qotd.NewScrapeSource(b.Cfg.QOTD.URL, "")
	default:
		source = qotd.NewRedditSource(b.Cfg.QOTD.URL, httpClient)
	}
	b.QOTD = qotd.NewPublisher(qotd.NewRotator(b.Questions, source), sender, b.Cfg.Channels.QOTD.ID)

	game, err := b.newGame(ctx, sender, httpClient)
	if err != nil {
		return err
	}
	b.Game = game

	b.Poster = scheduler.New(b.Cfg.Location())
	if err = b.Poster.Start(scheduler.KindQOTD, b.Cfg.QOTD.Schedule, func(ctx context.Context) error {
		_, err := b.QOTD.Post(ctx)
		return err
	}); err != nil {
		return err
	}
	if err = b.Poster.Start(scheduler.KindWTP, b.Cfg.WTP.Schedule, func(ctx context.Context) error {
		_, err := b.Game.Start(ctx)
		return err
	}); err != nil {
		return err
	}

	if err = b.buildDispatcher(guild); err != nil {
		return err
	}
	handlers.NewInteractions(b.Dispatcher).Register(r)

	caches := b.Client.Caches()
	b.Messages = handlers.NewMessages(b.Dispatcher, sender, b.Game, caches).
		WithRares(notify.New(sender, b.Cfg.Channels.Rares.ID)).
		WithoutCommandsIn(b.Cfg.Channels.PvP.ID)

	welcome := b.Cfg.Channels.Welcome.ID
	if welcome == 0 {
		welcome = b.Cfg.Channels.Admin.ID
	}
	b.Greeter = handlers.NewGreeter(sender, welcome, b.Cfg.Bot.Name, func(id snowflake.ID) (string, int) {
		g, ok := caches.Guild(id)
		if !ok {
			return "", 0
		}
		return g.Name, g.MemberCount
	})
	return nil
}

func (b *Bot) newGame(ctx context.Context, sender interfaces.MessageSender, httpClient *http.Client) (*wtp.Game, error) {
	creatures, err := wtp.NewClient(b.Cfg.WTP.PokeAPIURL, b.Cfg.WTP.CacheSize, httpClient)
	if err != nil {
		return nil, err
	}

	var opts []wtp.GameOpt
	if s := b.Cfg.Spaces; s.Enabled() {
		spaces, err := services.NewSpacesService(ctx, s.Key, s.Secret, s.Region, s.Bucket, "")
		if err != nil {
			return nil, err
		}
		b.Spaces = spaces
		opts = append(opts, wtp.WithImageStore(spaces))
	}

	return wtp.NewGame(wtp.Config{
		ChannelID:   b.Cfg.Channels.Guess.ID,
		RevealAfter: time.Duration(b.Cfg.WTP.RevealAfter) * time.Second,
		Reward:      b.Cfg.WTP.Reward,
		MaxID:       b.Cfg.WTP.MaxPokemonID,
		Message:     b.Cfg.WTP.Message,
		Emoji:       b.Cfg.Bot.Emoji,
		Dir:         b.Cfg.WTP.SilhouetteDir,
	}, creatures, sender, b.Economy, opts...), nil
}

func (b *Bot) buildDispatcher(guild interfaces.GuildActions) error {
	cfg := b.Cfg
	gamesCfg := games.Config{
		Emoji:        cfg.Bot.Emoji,
		Currency:     cfg.Economy.Currency,
		SlotsChannel: commandChannel(cfg.Channels.Slots),
		SpinCooldown: time.Duration(cfg.Economy.SpinCooldown) * time.Second,
	}
	systemDeps := system.Deps{
		StartTime: b.StartTime,
		Version:   b.Version,
		Commit:    b.Commit,
	}

	text := command.NewRegistry()
	textSystem := systemDeps
	textSystem.Commands, textSystem.Prefix = text, cfg.Bot.Prefixes[0]
	cooldown := time.Duration(cfg.Bot.DefaultCooldown) * time.Second
	if err := text.Register(withCooldown(cooldown, slices.Concat(
		games.Descriptors(b.Economy, gamesCfg),
		system.Descriptors(textSystem),
	))...); err != nil {
		return fmt.Errorf("failed to register chat commands: %w", err)
	}

	slash := command.NewRegistry()
	slashSystem := systemDeps
	slashSystem.Commands, slashSystem.Prefix = slash, "/"
	adminChannel := commandChannel(cfg.Channels.Admin)
	if err := slash.Register(withCooldown(cooldown, slices.Concat(
		games.Descriptors(b.Economy, gamesCfg),
		admin.Descriptors(admin.Deps{
			Questions:    b.Questions,
			Shinies:      b.Shinies,
			Admins:       b.Admins,
			Pages:        b.sendPages,
			Poster:       b.Poster,
			AdminChannel: adminChannel,
		}),
		moderation.Descriptors(moderation.Deps{
			Users:        b.Users,
			Guild:        guild,
			AdminChannel: adminChannel,
		}),
		roles.Descriptors(guild, roles.Config{
			GuildID: cfg.Bot.GuildID,
			Mod:     cfg.Roles.Mod,
			Teams:   cfg.Roles.Teams,
		}),
		system.Descriptors(slashSystem),
	))...); err != nil {
		return fmt.Errorf("failed to register slash commands: %w", err)
	}

	b.Cooldowns = command.NewCooldownTracker()
	b.Dispatcher = command.NewDispatcher(text, slash,
		command.WithPrefixes(cfg.Bot.Prefixes...),
		command.WithCooldowns(b.Cooldowns),
		command.WithMiddleware(handlers.WrapWithLogging),
	)

	slog.Info("Commands registered",
		slog.String("type", "sys"),
		slog.Int("chat", text.Len()),
		slog.Int("slash", slash.Len()))
	return nil
}

func (b *Bot) sendPages(ev *command.Event, pages paginator.Pages) error {
	return b.Paginator.Create(ev.Respond, pages, false)
}

// withCooldown gives every descriptor without its own cooldown the default.
func withCooldown(d time.Duration, descriptors []*command.Descriptor) []*command.Descriptor {
	for _, desc := range descriptors {
		if desc.Cooldown == 0 {
			desc.Cooldown = d
		}
	}
	return descriptors
}

func commandChannel(c Channel) *command.Channel {
	if c.ID == 0 {
		return nil
	}
	return &command.Channel{ID: c.ID, Name: c.Name}
}
