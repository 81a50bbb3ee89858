package games

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/disgoorg/disgo/discord"
)

var Spend = discord.SlashCommandCreate{
	Name:        "spend",
	Description: "Spend points from your balance",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "How many points to spend",
			Required:    true,
		},
	},
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

func SpendHandler(eco Economy, cfg Config) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		raw, ok := inv.Arg(0, "amount")
		if !ok {
			return command.Invalid("You must specify an amount of coins to spend.").Public(), nil
		}
		if !digitsOnly.MatchString(raw) {
			return command.Invalid("You must specify an amount of coins as digits only.").Public(), nil
		}
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return command.Invalid("You must specify an amount of coins as digits only.").Public(), nil
		}

		remaining, err := eco.Spend(ctx, inv.UserID(), amount)
		var insufficient *economy.InsufficientFundsError
		switch {
		case errors.Is(err, economy.ErrNotRegistered):
			return command.Invalid(NotRegisteredMessage).Public(), nil
		case errors.As(err, &insufficient):
			return command.Invalid(fmt.Sprintf("You only have %d %s, better go play more games!", insufficient.Balance, cfg.Emoji)).Public(), nil
		case err != nil:
			return command.Result{}, command.StoreError("spend", err)
		}
		return command.OK(fmt.Sprintf("You now have %d %s remaining.", remaining, cfg.Emoji)), nil
	}
}
