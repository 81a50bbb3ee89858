package admin

import (
	"context"
	"fmt"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/scheduler"
	"github.com/disgoorg/disgo/discord"
)

var QOTDNow = discord.SlashCommandCreate{
	Name:        "qotd-now",
	Description: "Post the question of the day immediately",
}

var WTPNow = discord.SlashCommandCreate{
	Name:        "wtp-now",
	Description: "Start a Who's That Pokémon round immediately",
}

func TriggerHandler(poster Trigger, kind scheduler.Kind, done string) command.HandlerFunc {
	return func(ctx context.Context, _ *command.Invocation) (command.Result, error) {
		if poster == nil {
			return command.Reject(command.KindDisabled, command.DisabledMessage), nil
		}
		if err := poster.Trigger(ctx, kind); err != nil {
			return command.Result{}, fmt.Errorf("failed to trigger %s: %w", kind, err)
		}
		return command.OK(done).Public(), nil
	}
}
