package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/disgoorg/disgo/discord"
)

var MakeAdmin = discord.SlashCommandCreate{
	Name:        "make-admin",
	Description: "Make a user an admin",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to make admin",
			Required:    true,
		},
	},
}

var RemoveAdmin = discord.SlashCommandCreate{
	Name:        "remove-admin",
	Description: "Remove admin status from a user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to remove admin status from",
			Required:    true,
		},
	},
}

var ListAdmins = discord.SlashCommandCreate{
	Name:        "list-admins",
	Description: "List all admin users",
}

func MakeAdminHandler(admins repositories.AdminRepository) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		id, name, ok := inv.User("user")
		if !ok {
			return command.Invalid("Please specify a user."), nil
		}

		isAdmin, err := admins.IsAdmin(ctx, id.String())
		if err != nil {
			return command.Result{}, command.StoreError("make admin", err)
		}
		if isAdmin {
			return command.Invalid(fmt.Sprintf("%s is already an admin!", name)), nil
		}

		if err = admins.Promote(ctx, id.String(), name); err != nil {
			return command.Result{}, command.StoreError("make admin", err)
		}
		return command.OK(fmt.Sprintf("%s is now an admin!", name)), nil
	}
}

func RemoveAdminHandler(admins repositories.AdminRepository) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		id, name, ok := inv.User("user")
		if !ok {
			return command.Invalid("Please specify a user."), nil
		}

		err := admins.Demote(ctx, id.String())
		if errors.Is(err, database.ErrNotFound) {
			return command.Invalid(fmt.Sprintf("%s is not an admin!", name)), nil
		}
		if err != nil {
			return command.Result{}, command.StoreError("remove admin", err)
		}
		return command.OK(fmt.Sprintf("%s is no longer an admin!", name)), nil
	}
}

func ListAdminsHandler(admins repositories.AdminRepository) command.HandlerFunc {
	return func(ctx context.Context, _ *command.Invocation) (command.Result, error) {
		all, err := admins.List(ctx)
		if err != nil {
			return command.Result{}, command.StoreError("list admins", err)
		}
		if len(all) == 0 {
			return command.OK("No admin users found."), nil
		}

		var b strings.Builder
		b.WriteString("**Admin Users:**")
		for _, u := range all {
			name := u.Username
			if name == "" {
				name = "unknown"
			}
			fmt.Fprintf(&b, "\n• %s (%s)", name, u.ID)
		}
		return command.OK(b.String()), nil
	}
}
