package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"github.com/disgoorg/disgo/discord"
)

const (
	noReason        = "No reason provided"
	cannotModerate  = "I cannot moderate this user. They may have higher permissions than me."
	memberNotFound  = "Could not find the specified user in this server."
	missingDuration = "Please specify a duration for the timeout."
)

var Mod = discord.SlashCommandCreate{
	Name:        "mod",
	Description: "Perform moderation actions",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to moderate",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "action",
			Description: "The action to perform",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Kick", Value: "kick"},
				{Name: "Ban", Value: "ban"},
				{Name: "Timeout", Value: "timeout"},
				{Name: "Warn", Value: "warn"},
			},
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "The reason for the action",
		},
		discord.ApplicationCommandOptionInt{
			Name:        "duration",
			Description: "Duration in minutes (for timeout)",
		},
	},
}

func ModHandler(d Deps) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		userID, name, ok := inv.User("user")
		if !ok {
			return command.Invalid(memberNotFound), nil
		}
		action, _ := inv.Event.Options.String("action")
		reason, ok := inv.Event.Options.String("reason")
		if !ok {
			reason = noReason
		}

		guildID := inv.GuildID()
		member, err := d.Guild.Member(ctx, guildID, userID)
		if err != nil || member == nil {
			return command.Invalid(memberNotFound), nil
		}

		actionErr := func(err error) command.Result {
			slog.Warn("Moderation action failed",
				slog.String("type", "cmd"),
				slog.String("name", "mod"),
				slog.String("action", action),
				slog.String("target_id", userID.String()),
				slog.Any("error", err))
			return command.Invalid(cannotModerate)
		}

		switch action {
		case "kick":
			if err = d.Guild.Kick(ctx, guildID, userID, reason); err != nil {
				return actionErr(err), nil
			}
			return command.OK(fmt.Sprintf("Kicked %s for: %s", name, reason)), nil

		case "ban":
			if err = d.Guild.Ban(ctx, guildID, userID, reason); err != nil {
				return actionErr(err), nil
			}
			return command.OK(fmt.Sprintf("Banned %s for: %s", name, reason)), nil

		case "timeout":
			minutes, ok := inv.Event.Options.Int("duration")
			if !ok || minutes <= 0 {
				return command.Invalid(missingDuration), nil
			}
			until := d.Now().Add(time.Duration(minutes) * time.Minute)
			if err = d.Guild.Timeout(ctx, guildID, userID, until, reason); err != nil {
				return actionErr(err), nil
			}
			return command.OK(fmt.Sprintf("Timed out %s for %d minutes for: %s", name, minutes, reason)), nil

		case "warn":
			warning := models.Warning{
				Reason:      reason,
				Timestamp:   d.Now(),
				ModeratorID: inv.UserID(),
			}
			if err = d.Users.AddWarning(ctx, userID.String(), warning); err != nil {
				return command.Result{}, command.StoreError("warn", err)
			}
			return command.OK(fmt.Sprintf("Warned %s for: %s", name, reason)), nil
		}

		return command.Invalid("Invalid moderation action."), nil
	}
}
