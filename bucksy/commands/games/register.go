package games

import (
	"context"
	"errors"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/disgoorg/disgo/discord"
)

var Register = discord.SlashCommandCreate{
	Name:        "register",
	Description: "Register to the points registry",
}

func RegisterHandler(eco Economy) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		_, err := eco.Register(ctx, inv.UserID())
		if errors.Is(err, economy.ErrAlreadyRegistered) {
			return command.Invalid(`You are already registered to the points registry. Try "!balance" or play a game.`).Public(), nil
		}
		if err != nil {
			return command.Result{}, command.StoreError("register", err)
		}
		return command.OK("Welcome to the game registry!"), nil
	}
}
