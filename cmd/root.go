// Package cmd is bucksyctl, the operator CLI next to the bot binary.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy"
	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/logger"
	"github.com/spf13/cobra"
)

const dbTimeout = 30 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:           "bucksyctl",
	Short:         "Operator tooling for the Bucksy bot",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(slog.LevelInfo)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("Command failed", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(1)
	}
}

func loadConfig() (*bucksy.Config, error) {
	return bucksy.LoadConfig(configPath)
}

// openDB connects with the configured settings; callers close it.
func openDB(ctx context.Context, cfg *bucksy.Config) (*database.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return database.New(ctx, database.DBConfig{
		URI:      cfg.DB.URI,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
}
