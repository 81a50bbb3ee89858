// Package games holds the points registry commands, available both as chat
// commands and as slash commands.
package games

import (
	"context"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/disgoorg/disgo/discord"
)

const NotRegisteredMessage = `You need to register to the points registry first. Please type "!register"`

var Commands = []discord.ApplicationCommandCreate{
	Register,
	Balance,
	Spend,
	Spin,
}

type Economy interface {
	Register(ctx context.Context, userID string) (*models.User, error)
	Balance(ctx context.Context, userID string) (int64, error)
	Spend(ctx context.Context, userID string, amount int64) (int64, error)
	Spin(ctx context.Context, userID string) (economy.SpinResult, error)
}

type Config struct {
	// Emoji follows amounts in replies, Currency names them in sentences.
	Emoji        string
	Currency     string
	SlotsChannel *command.Channel
	SpinCooldown time.Duration
}

func Descriptors(eco Economy, cfg Config) []*command.Descriptor {
	if cfg.Emoji == "" {
		cfg.Emoji = cfg.Currency
	}
	if cfg.SpinCooldown <= 0 {
		cfg.SpinCooldown = 5 * time.Second
	}

	return []*command.Descriptor{
		{
			Name:        "register",
			Description: Register.Description,
			Category:    "games",
			Handler:     RegisterHandler(eco),
		},
		{
			Name:        "balance",
			Aliases:     []string{"bal"},
			Description: Balance.Description,
			Category:    "games",
			Handler:     BalanceHandler(eco, cfg),
		},
		{
			Name:        "spend",
			Description: Spend.Description,
			Usage:       "<points>",
			Category:    "games",
			Handler:     SpendHandler(eco, cfg),
		},
		{
			Name:        "spin",
			Description: Spin.Description,
			Category:    "games",
			GuildOnly:   true,
			Channel:     cfg.SlotsChannel,
			Cooldown:    cfg.SpinCooldown,
			Handler:     SpinHandler(eco, cfg),
		},
	}
}
