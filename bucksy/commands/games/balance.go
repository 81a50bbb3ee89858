package games

import (
	"context"
	"errors"
	"fmt"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/disgoorg/disgo/discord"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "Check your points balance",
}

func BalanceHandler(eco Economy, cfg Config) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		balance, err := eco.Balance(ctx, inv.UserID())
		if errors.Is(err, economy.ErrNotRegistered) {
			return command.Invalid(NotRegisteredMessage).Public(), nil
		}
		if err != nil {
			return command.Result{}, command.StoreError("balance", err)
		}
		return command.OK(fmt.Sprintf("You currently have %d %s", balance, cfg.Emoji)), nil
	}
}
