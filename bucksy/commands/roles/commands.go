// Package roles lets members add and remove their own roles.
package roles

import (
	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var Commands = []discord.ApplicationCommandCreate{
	IAm,
	IAmNot,
	Want,
	Unwant,
}

// Config names the roles that need special handling.
type Config struct {
	// GuildID is the guild autocomplete reads roles from.
	GuildID snowflake.ID
	// Mod roles are never assigned or removed by the bot.
	Mod []string
	// Teams are exclusive: joining one leaves the others.
	Teams []string
}

func Descriptors(guild interfaces.GuildActions, cfg Config) []*command.Descriptor {
	a := &assigner{guild: guild, mod: lowerSet(cfg.Mod), teams: lowerSet(cfg.Teams)}
	complete := Autocomplete(guild, cfg)

	return []*command.Descriptor{
		{
			Name:         IAm.Name,
			Description:  IAm.Description,
			Category:     "roles",
			GuildOnly:    true,
			Handler:      a.add("role", "iam"),
			Autocomplete: complete,
		},
		{
			Name:         IAmNot.Name,
			Description:  IAmNot.Description,
			Category:     "roles",
			GuildOnly:    true,
			Handler:      a.remove("role", "iamnot"),
			Autocomplete: complete,
		},
		{
			Name:         Want.Name,
			Description:  Want.Description,
			Category:     "roles",
			GuildOnly:    true,
			Handler:      a.add("pokemon", "want"),
			Autocomplete: complete,
		},
		{
			Name:         Unwant.Name,
			Description:  Unwant.Description,
			Category:     "roles",
			GuildOnly:    true,
			Handler:      a.remove("pokemon", "unwant"),
			Autocomplete: complete,
		},
	}
}

var IAm = discord.SlashCommandCreate{
	Name:        "iam",
	Description: "Add a role to your profile",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "role",
			Description:  "The role to add",
			Required:     true,
			Autocomplete: true,
		},
	},
}

var IAmNot = discord.SlashCommandCreate{
	Name:        "iamnot",
	Description: "Remove a role from your profile",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "role",
			Description:  "The role to remove",
			Required:     true,
			Autocomplete: true,
		},
	},
}

var Want = discord.SlashCommandCreate{
	Name:        "want",
	Description: "Set a desired pokemon for your profile",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "pokemon",
			Description:  "The pokemon to add",
			Required:     true,
			Autocomplete: true,
		},
	},
}

var Unwant = discord.SlashCommandCreate{
	Name:        "unwant",
	Description: "Remove a desired pokemon role from your profile",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "pokemon",
			Description:  "The pokemon to remove",
			Required:     true,
			Autocomplete: true,
		},
	},
}
