package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bucksy-bot/bucksy/bucksy"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const syncParallelism = 4

var (
	syncGuilds []string
	syncGlobal bool
)

type commandSetter interface {
	SetGlobalCommands(applicationID snowflake.ID, commandCreates []discord.ApplicationCommandCreate, opts ...rest.RequestOpt) ([]discord.ApplicationCommand, error)
	SetGuildCommands(applicationID snowflake.ID, guildID snowflake.ID, commandCreates []discord.ApplicationCommandCreate, opts ...rest.RequestOpt) ([]discord.ApplicationCommand, error)
}

var syncCommandsCmd = &cobra.Command{
	Use:   "sync-commands",
	Short: "register slash commands with discord",
	Long:  "sync-commands overwrites the slash commands of every dev guild in the config, or of the guilds given with --guild. With --global it registers them for all guilds instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		guilds, err := targetGuilds(syncGuilds, cfg.Bot.DevGuilds)
		if err != nil {
			return err
		}

		client, err := disgo.New(cfg.Bot.Token)
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		return syncCommands(cmd.Context(), client.Rest(), client.ApplicationID(), bucksy.SlashCommands(), guilds, syncGlobal)
	},
}

func init() {
	syncCommandsCmd.Flags().StringSliceVarP(&syncGuilds, "guild", "g", nil, "guild id to sync, repeatable")
	syncCommandsCmd.Flags().BoolVar(&syncGlobal, "global", false, "register commands globally")
	rootCmd.AddCommand(syncCommandsCmd)
}

func targetGuilds(flags []string, fallback []snowflake.ID) ([]snowflake.ID, error) {
	if len(flags) == 0 {
		return fallback, nil
	}
	guilds := make([]snowflake.ID, 0, len(flags))
	for _, raw := range flags {
		id, err := snowflake.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("guild id %q is invalid", raw)
		}
		guilds = append(guilds, id)
	}
	return guilds, nil
}

func syncCommands(ctx context.Context, setter commandSetter, appID snowflake.ID, commands []discord.ApplicationCommandCreate, guilds []snowflake.ID, global bool) error {
	if global {
		if _, err := setter.SetGlobalCommands(appID, commands, rest.WithCtx(ctx)); err != nil {
			return fmt.Errorf("failed to sync global commands: %w", err)
		}
		slog.Info("Synced global commands", slog.String("type", "sys"), slog.Int("count", len(commands)))
		return nil
	}
	if len(guilds) == 0 {
		return fmt.Errorf("no guilds to sync, set bot.dev_guilds or pass --guild")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(syncParallelism)
	for _, guildID := range guilds {
		g.Go(func() error {
			if _, err := setter.SetGuildCommands(appID, guildID, commands, rest.WithCtx(ctx)); err != nil {
				return fmt.Errorf("failed to sync commands for guild %s: %w", guildID, err)
			}
			slog.Info("Synced guild commands",
				slog.String("type", "sys"),
				slog.String("guild_id", guildID.String()),
				slog.Int("count", len(commands)))
			return nil
		})
	}
	return g.Wait()
}
