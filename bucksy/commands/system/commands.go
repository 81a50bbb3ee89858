// Package system holds the bot's own status and help commands.
package system

import (
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	Status,
	Help,
	Version,
}

type Deps struct {
	Probe     Probe
	StartTime time.Time
	Version   string
	Commit    string
	// Commands is the registry /help and !help describe.
	Commands *command.Registry
	// Prefix is shown before each command name in the help listing.
	Prefix string
}

func Descriptors(d Deps) []*command.Descriptor {
	if d.Probe == nil {
		d.Probe = HostProbe
	}
	if d.StartTime.IsZero() {
		d.StartTime = time.Now()
	}

	return []*command.Descriptor{
		{
			Name:        Status.Name,
			Description: Status.Description,
			Category:    "system",
			Cooldown:    5 * time.Second,
			Handler:     StatusHandler(d),
		},
		{
			Name:        Help.Name,
			Aliases:     []string{"commands"},
			Description: Help.Description,
			Usage:       "[category]",
			Category:    "system",
			Handler:     HelpHandler(d.Commands, d.Prefix),
		},
		{
			Name:        Version.Name,
			Description: Version.Description,
			Category:    "system",
			Handler:     VersionHandler(d.Version, d.Commit),
		},
	}
}
