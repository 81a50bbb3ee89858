package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/disgoorg/disgo/discord"
)

var Warnings = discord.SlashCommandCreate{
	Name:        "warnings",
	Description: "View warnings for a user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to view warnings for",
			Required:    true,
		},
	},
}

var ClearWarnings = discord.SlashCommandCreate{
	Name:        "clear-warnings",
	Description: "Clear warnings for a user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to clear warnings for",
			Required:    true,
		},
	},
}

func WarningsHandler(users repositories.UserRepository) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		userID, name, ok := inv.User("user")
		if !ok {
			return command.Invalid(memberNotFound), nil
		}

		warnings, err := users.GetWarnings(ctx, userID.String())
		if err != nil {
			return command.Result{}, command.StoreError("warnings", err)
		}
		if len(warnings) == 0 {
			return command.OK(fmt.Sprintf("%s has no warnings.", name)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "**Warnings for %s:**", name)
		for _, w := range warnings {
			fmt.Fprintf(&b, "\n• %s (%s)", w.Reason, w.Timestamp.Format("2006-01-02"))
		}
		return command.OK(b.String()), nil
	}
}

func ClearWarningsHandler(users repositories.UserRepository) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		userID, name, ok := inv.User("user")
		if !ok {
			return command.Invalid(memberNotFound), nil
		}

		cleared, err := users.ClearWarnings(ctx, userID.String())
		if err != nil {
			return command.Result{}, command.StoreError("clear warnings", err)
		}
		if cleared == 0 {
			return command.OK(fmt.Sprintf("%s has no warnings to clear.", name)), nil
		}
		return command.OK(fmt.Sprintf("Cleared all warnings for %s.", name)), nil
	}
}
