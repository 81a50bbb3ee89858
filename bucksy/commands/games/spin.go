package games

import (
	"context"
	"errors"
	"fmt"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/disgoorg/disgo/discord"
)

var Spin = discord.SlashCommandCreate{
	Name:        "spin",
	Description: "Spin a slot machine for rewards",
}

func SpinHandler(eco Economy, cfg Config) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		res, err := eco.Spin(ctx, inv.UserID())
		var insufficient *economy.InsufficientFundsError
		switch {
		case errors.Is(err, economy.ErrNotRegistered):
			return command.Invalid(NotRegisteredMessage).Public(), nil
		case errors.As(err, &insufficient):
			return command.Invalid(fmt.Sprintf("You only have %d %s, better go play more games!", insufficient.Balance, cfg.Emoji)).Public(), nil
		case err != nil:
			return command.Result{}, command.StoreError("spin", err)
		}
		return command.OKEmbed(SpinEmbed(res, cfg)), nil
	}
}

// SpinEmbed shows the reels with a footer saying whether the spin paid out.
func SpinEmbed(res economy.SpinResult, cfg Config) discord.Embed {
	inline := true
	if !res.Win {
		return discord.Embed{
			Color:  utils.SlotsLoseColor,
			Fields: []discord.EmbedField{{Name: "Slot Machine Results", Value: res.Symbols(), Inline: &inline}},
			Footer: &discord.EmbedFooter{Text: "Try again."},
		}
	}
	return discord.Embed{
		Color:  utils.SlotsWinColor,
		Fields: []discord.EmbedField{{Name: "Slot Machine Results " + cfg.Emoji, Value: res.Symbols(), Inline: &inline}},
		Footer: &discord.EmbedFooter{Text: fmt.Sprintf("You Won! %d %s have been added to your account.", res.Payout, cfg.Currency)},
	}
}
