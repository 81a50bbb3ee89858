package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const cannotManageRole = "I cannot manage this role. It may be higher than my highest role."

var ListRoles = discord.SlashCommandCreate{
	Name:        "list-roles",
	Description: "List all roles for a user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to list roles for",
			Required:    true,
		},
	},
}

var ManageRoles = discord.SlashCommandCreate{
	Name:        "manage-roles",
	Description: "Manage roles for a user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to manage roles for",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "action",
			Description: "The action to perform",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Add Role", Value: "add"},
				{Name: "Remove Role", Value: "remove"},
			},
		},
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "The role to add or remove",
			Required:    true,
		},
	},
}

// memberRoles returns the guild roles the member holds, highest first.
// @everyone shares the guild's ID and is left out.
func memberRoles(member *discord.Member, roles []discord.Role, guildID snowflake.ID) []discord.Role {
	var held []discord.Role
	for _, r := range roles {
		if r.ID != guildID && slices.Contains(member.RoleIDs, r.ID) {
			held = append(held, r)
		}
	}
	slices.SortFunc(held, func(a, b discord.Role) int { return b.Position - a.Position })
	return held
}

func ListRolesHandler(d Deps) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		userID, name, ok := inv.User("user")
		if !ok {
			return command.Invalid(memberNotFound), nil
		}
		guildID := inv.GuildID()
		member, err := d.Guild.Member(ctx, guildID, userID)
		if err != nil || member == nil {
			return command.Invalid(memberNotFound), nil
		}
		roles, err := d.Guild.Roles(ctx, guildID)
		if err != nil {
			return command.Result{}, fmt.Errorf("failed to fetch roles: %w", err)
		}

		held := memberRoles(member, roles, guildID)
		if len(held) == 0 {
			return command.OK(fmt.Sprintf("%s has no roles.", name)), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "**Roles for %s:**", name)
		for _, r := range held {
			fmt.Fprintf(&b, "\n• %s", r.Name)
		}
		return command.OK(b.String()), nil
	}
}

func ManageRolesHandler(d Deps) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		userID, name, ok := inv.User("user")
		if !ok {
			return command.Invalid(memberNotFound), nil
		}
		action, _ := inv.Event.Options.String("action")
		roleID, ok := inv.Event.Options.Snowflake("role")
		if !ok {
			return command.Invalid("Could not find the specified role."), nil
		}

		guildID := inv.GuildID()
		member, err := d.Guild.Member(ctx, guildID, userID)
		if err != nil || member == nil {
			return command.Invalid(memberNotFound), nil
		}
		roles, err := d.Guild.Roles(ctx, guildID)
		if err != nil {
			return command.Result{}, fmt.Errorf("failed to fetch roles: %w", err)
		}
		i := slices.IndexFunc(roles, func(r discord.Role) bool { return r.ID == roleID })
		if i < 0 || roleID == guildID {
			return command.Invalid("Could not find the specified role."), nil
		}
		role := roles[i]
		has := slices.Contains(member.RoleIDs, roleID)

		reason := fmt.Sprintf("manage-roles by %s", inv.Event.SenderName)
		roleErr := func(err error) command.Result {
			slog.Warn("Role change failed",
				slog.String("type", "cmd"),
				slog.String("name", "manage-roles"),
				slog.String("role", role.Name),
				slog.String("target_id", userID.String()),
				slog.Any("error", err))
			return command.Invalid(cannotManageRole)
		}

		switch action {
		case "add":
			if has {
				return command.Invalid(fmt.Sprintf("%s already has the %s role.", name, role.Name)), nil
			}
			if err = d.Guild.AddRole(ctx, guildID, userID, roleID, reason); err != nil {
				return roleErr(err), nil
			}
			return command.OK(fmt.Sprintf("Added %s role to %s.", role.Name, name)), nil

		case "remove":
			if !has {
				return command.Invalid(fmt.Sprintf("%s does not have the %s role.", name, role.Name)), nil
			}
			if err = d.Guild.RemoveRole(ctx, guildID, userID, roleID, reason); err != nil {
				return roleErr(err), nil
			}
			return command.OK(fmt.Sprintf("Removed %s role from %s.", role.Name, name)), nil
		}

		return command.Invalid("Invalid role action."), nil
	}
}
