package system

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/disgoorg/disgo/discord"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "📖 Display all available commands and their descriptions",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "category",
			Description: "Filter commands by category",
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Admin", Value: "admin"},
				{Name: "Games", Value: "games"},
				{Name: "Moderation", Value: "moderation"},
				{Name: "Roles", Value: "roles"},
				{Name: "System", Value: "system"},
			},
		},
	},
}

var categoryTitles = map[string]string{
	"admin":      "🛠️ Admin",
	"games":      "🎰 Games",
	"moderation": "🛡️ Moderation",
	"roles":      "🏷️ Roles",
	"system":     "⚙️ System",
}

// HelpHandler lists the commands of registry grouped by category. The
// registry is read on every call, so it may include help itself.
func HelpHandler(registry *command.Registry, prefix string) command.HandlerFunc {
	return func(_ context.Context, inv *command.Invocation) (command.Result, error) {
		if registry == nil {
			return command.Invalid("No commands are registered."), nil
		}
		filter, _ := inv.Arg(0, "category")
		filter = strings.ToLower(filter)

		embed, ok := HelpEmbed(registry.All(), prefix, filter)
		if !ok {
			return command.Invalid(fmt.Sprintf("Unknown category `%s`.", filter)), nil
		}
		return command.OKEmbed(embed), nil
	}
}

func HelpEmbed(descriptors []*command.Descriptor, prefix, filter string) (discord.Embed, bool) {
	groups := make(map[string][]*command.Descriptor)
	for _, d := range descriptors {
		if d.Disabled {
			continue
		}
		category := d.Category
		if category == "" {
			category = "other"
		}
		groups[category] = append(groups[category], d)
	}

	embed := discord.Embed{
		Title: "📖 Bucksy - Command Help",
		Color: utils.InfoColor,
	}

	if filter != "" {
		cmds, ok := groups[filter]
		if !ok {
			return embed, false
		}
		var b strings.Builder
		for _, d := range cmds {
			fmt.Fprintf(&b, "`%s%s", prefix, d.Name)
			if d.Usage != "" {
				b.WriteString(" " + d.Usage)
			}
			b.WriteString("`")
			if d.Description != "" {
				b.WriteString(" - " + d.Description)
			}
			if len(d.Aliases) > 0 {
				fmt.Fprintf(&b, " (aliases: %s)", strings.Join(d.Aliases, ", "))
			}
			b.WriteString("\n")
		}
		embed.Title = "📖 " + title(filter)
		embed.Description = strings.TrimSuffix(b.String(), "\n")
		return embed, true
	}

	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	total := 0
	for _, c := range categories {
		names := make([]string, 0, len(groups[c]))
		for _, d := range groups[c] {
			names = append(names, fmt.Sprintf("`%s%s`", prefix, d.Name))
		}
		total += len(names)
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  title(c),
			Value: strings.Join(names, " • "),
		})
	}
	embed.Footer = &discord.EmbedFooter{Text: fmt.Sprintf("Total: %d commands • Use help <category> for details", total)}
	return embed, true
}

func title(category string) string {
	if t, ok := categoryTitles[category]; ok {
		return t
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
