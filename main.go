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

	"github.com/bucksy-bot/bucksy/bucksy"
	"github.com/bucksy-bot/bucksy/bucksy/api"
	"github.com/bucksy-bot/bucksy/bucksy/logger"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	logger.Setup(slog.LevelInfo)
	slog.Info("Starting Bucksy",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	cfg, err := bucksy.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	logger.Setup(cfg.Log.Level)
	slog.Info("Configuration loaded successfully", slog.String("type", "sys"))

	b := bucksy.New(*cfg, version, commit)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err = b.ConnectDB(ctx); err != nil {
		slog.Error("Database connection failed", slog.String("type", "db"), slog.Any("error", err))
		os.Exit(-1)
	}

	h := handler.New()
	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "bot_setup"))
		os.Exit(-1)
	}
	if err = b.Wire(ctx, h); err != nil {
		slog.Error("Failed to wire bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "wiring"))
		os.Exit(-1)
	}

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, bucksy.SlashCommands(), cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"))
		}
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	b.Start(runCtx)

	server := startAPI(cfg, b)

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.", slog.String("type", "sys"))
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...", slog.String("type", "sys"))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if server != nil {
		if err = server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Admin API shutdown error", slog.String("type", "api"), slog.Any("error", err))
		}
	}
	stop()
	b.Close(shutdownCtx)
}

// startAPI serves the admin API in the background. Without a session
// secret there is nothing to sign cookies with, so it stays off.
func startAPI(cfg *bucksy.Config, b *bucksy.Bot) *api.Server {
	if cfg.API.SessionSecret == "" {
		slog.Warn("Admin API disabled, no session secret configured", slog.String("type", "api"))
		return nil
	}

	server, err := api.New(api.Config{
		SessionSecret:  cfg.API.SessionSecret,
		SessionTTL:     time.Duration(cfg.API.SessionTTL) * time.Hour,
		RatePerMinute:  cfg.API.RatePerMinute,
		AllowOrigins:   cfg.API.AllowOrigins,
		SecureCookies:  cfg.API.SecureCookies,
		TrustedProxies: cfg.API.TrustedProxies,
	}, api.Deps{
		Questions: b.Questions,
		Shinies:   b.Shinies,
		Admins:    b.Admins,
		Schedules: b.Poster,
		Version:   version,
	})
	if err != nil {
		slog.Error("Failed to create admin API", slog.String("type", "api"), slog.Any("error", err))
		return nil
	}

	go func() {
		slog.Info("Starting admin API", slog.String("type", "api"), slog.String("address", cfg.API.Address))
		if err := server.Listen(cfg.API.Address); err != nil {
			slog.Error("Admin API stopped", slog.String("type", "api"), slog.Any("error", err))
		}
	}()
	return server
}
