// Package moderation holds the member moderation and role management slash
// commands.
package moderation

import (
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	Mod,
	Warnings,
	ClearWarnings,
	ListRoles,
	ManageRoles,
}

type Deps struct {
	Users        repositories.UserRepository
	Guild        interfaces.GuildActions
	AdminChannel *command.Channel
	Now          func() time.Time
}

func Descriptors(d Deps) []*command.Descriptor {
	if d.Now == nil {
		d.Now = time.Now
	}

	return []*command.Descriptor{
		{
			Name:        Mod.Name,
			Description: Mod.Description,
			Category:    "moderation",
			GuildOnly:   true,
			Channel:     d.AdminChannel,
			Permissions: discord.PermissionModerateMembers,
			Handler:     ModHandler(d),
		},
		{
			Name:        Warnings.Name,
			Description: Warnings.Description,
			Category:    "moderation",
			GuildOnly:   true,
			Channel:     d.AdminChannel,
			Permissions: discord.PermissionAdministrator,
			Handler:     WarningsHandler(d.Users),
		},
		{
			Name:        ClearWarnings.Name,
			Description: ClearWarnings.Description,
			Category:    "moderation",
			GuildOnly:   true,
			Channel:     d.AdminChannel,
			Permissions: discord.PermissionModerateMembers,
			Handler:     ClearWarningsHandler(d.Users),
		},
		{
			Name:        ListRoles.Name,
			Description: ListRoles.Description,
			Category:    "moderation",
			GuildOnly:   true,
			Channel:     d.AdminChannel,
			Permissions: discord.PermissionManageRoles,
			Handler:     ListRolesHandler(d),
		},
		{
			Name:        ManageRoles.Name,
			Description: ManageRoles.Description,
			Category:    "moderation",
			GuildOnly:   true,
			Channel:     d.AdminChannel,
			Permissions: discord.PermissionManageRoles,
			Handler:     ManageRolesHandler(d),
		},
	}
}
