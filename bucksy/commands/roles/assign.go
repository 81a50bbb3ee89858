package roles

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/disgoorg/disgo/discord"
)

const (
	cannotAssignMod = "I'm sorry, I can't assign moderator roles."
	cannotRemoveMod = "I'm sorry, I can't remove moderator roles."
	notAssignable   = "That role is not self-assignable."
	auditReason     = "self-assigned"
)

type assigner struct {
	guild interfaces.GuildActions
	mod   map[string]struct{}
	teams map[string]struct{}
}

func (a *assigner) add(option, name string) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		roleName, ok := inv.Rest(0, option)
		if !ok {
			return command.Invalid(notAssignable), nil
		}
		roleName = strings.ToLower(strings.TrimSpace(roleName))
		if _, blocked := a.mod[roleName]; blocked {
			return command.Invalid(cannotAssignMod), nil
		}

		guildID := inv.GuildID()
		roles, err := a.guild.Roles(ctx, guildID)
		if err != nil {
			return command.Result{}, fmt.Errorf("%s: failed to fetch roles: %w", name, err)
		}
		role, ok := findRole(roles, roleName)
		if !ok {
			return command.Invalid(notAssignable), nil
		}

		held := inv.Event.RoleIDs
		if slices.Contains(held, role.ID) {
			return command.Invalid(fmt.Sprintf("You already have the **%s** role.", roleName)), nil
		}

		if _, team := a.teams[roleName]; team {
			for _, r := range roles {
				if r.ID == role.ID || !slices.Contains(held, r.ID) {
					continue
				}
				if _, other := a.teams[strings.ToLower(r.Name)]; !other {
					continue
				}
				if err = a.guild.RemoveRole(ctx, guildID, inv.Event.SenderID, r.ID, auditReason); err != nil {
					return command.Result{}, fmt.Errorf("%s: failed to leave team %s: %w", name, r.Name, err)
				}
			}
		}

		if err = a.guild.AddRole(ctx, guildID, inv.Event.SenderID, role.ID, auditReason); err != nil {
			return command.Result{}, fmt.Errorf("%s: failed to add role: %w", name, err)
		}
		return command.OK(fmt.Sprintf("You now have the **%s** role.", roleName)), nil
	}
}

func (a *assigner) remove(option, name string) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		roleName, ok := inv.Rest(0, option)
		if !ok {
			return command.Invalid(notAssignable), nil
		}
		roleName = strings.ToLower(strings.TrimSpace(roleName))
		if _, blocked := a.mod[roleName]; blocked {
			return command.Invalid(cannotRemoveMod), nil
		}

		guildID := inv.GuildID()
		roles, err := a.guild.Roles(ctx, guildID)
		if err != nil {
			return command.Result{}, fmt.Errorf("%s: failed to fetch roles: %w", name, err)
		}
		role, ok := findRole(roles, roleName)
		if !ok {
			return command.Invalid(notAssignable), nil
		}
		if !slices.Contains(inv.Event.RoleIDs, role.ID) {
			return command.Invalid(fmt.Sprintf("You don't have the **%s** role.", roleName)), nil
		}

		if err = a.guild.RemoveRole(ctx, guildID, inv.Event.SenderID, role.ID, auditReason); err != nil {
			return command.Result{}, fmt.Errorf("%s: failed to remove role: %w", name, err)
		}
		return command.OK(fmt.Sprintf("You no longer have the **%s** role.", roleName)), nil
	}
}

// Autocomplete suggests the guild's role names, leaving out mod roles,
// managed roles and @everyone.
func Autocomplete(guild interfaces.GuildActions, cfg Config) command.AutocompleteFunc {
	mod := lowerSet(cfg.Mod)
	return func(ctx context.Context, _ string, query string) ([]command.Choice, error) {
		if cfg.GuildID == 0 {
			return nil, nil
		}
		roles, err := guild.Roles(ctx, cfg.GuildID)
		if err != nil {
			return nil, err
		}

		names := make([]string, 0, len(roles))
		for _, r := range roles {
			name := strings.ToLower(r.Name)
			if _, blocked := mod[name]; blocked || r.Managed || r.ID == cfg.GuildID {
				continue
			}
			names = append(names, name)
		}
		slices.Sort(names)

		matched := utils.FuzzyMatch(query, names, utils.MaxChoices)
		out := make([]command.Choice, 0, len(matched))
		for _, n := range matched {
			out = append(out, command.Choice{Name: n, Value: n})
		}
		return out, nil
	}
}

func findRole(roles []discord.Role, name string) (discord.Role, bool) {
	for _, r := range roles {
		if strings.ToLower(r.Name) == name {
			return r, true
		}
	}
	return discord.Role{}, false
}

func lowerSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
