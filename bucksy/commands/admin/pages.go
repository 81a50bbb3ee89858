package admin

import (
	"fmt"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/paginator"
)

// PageSender answers an interaction with a paginated embed.
type PageSender func(ev *command.Event, pages paginator.Pages) error

// listResult pages lines through send when the event is an interaction,
// otherwise it falls back to a single text reply.
func listResult(ev *command.Event, send PageSender, title string, lines []string) (command.Result, error) {
	if send == nil || ev.Respond == nil {
		return command.OK(fmt.Sprintf("**%s:**\n%s", title, strings.Join(lines, "\n"))), nil
	}

	totalPages := (len(lines) + utils.ItemsPerPage - 1) / utils.ItemsPerPage
	err := send(ev, paginator.Pages{
		ID:      ev.InteractionID.String(),
		Creator: ev.SenderID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * utils.ItemsPerPage
			end := min(start+utils.ItemsPerPage, len(lines))
			embed.
				SetTitle(title).
				SetDescription(strings.Join(lines[start:end], "\n")).
				SetColor(utils.InfoColor).
				SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, totalPages, len(lines)), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	})
	if err != nil {
		return command.Result{}, fmt.Errorf("failed to create paginator: %w", err)
	}
	return command.Responded(), nil
}

func choices(values []string) []command.Choice {
	out := make([]command.Choice, 0, len(values))
	for _, v := range values {
		name := v
		if len(name) > 100 {
			name = name[:97] + "..."
		}
		out = append(out, command.Choice{Name: name, Value: v})
	}
	return out
}
