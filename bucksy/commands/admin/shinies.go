package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/disgoorg/disgo/discord"
)

var AddShiny = discord.SlashCommandCreate{
	Name:        "add-shiny",
	Description: "Add a shiny to the collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "pokemon",
			Description: "The pokemon to add",
			Required:    true,
		},
	},
}

var RemoveShiny = discord.SlashCommandCreate{
	Name:        "remove-shiny",
	Description: "Remove a shiny from the collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "pokemon",
			Description:  "The pokemon to remove",
			Required:     true,
			Autocomplete: true,
		},
	},
}

var ListShinies = discord.SlashCommandCreate{
	Name:        "list-shinies",
	Description: "List all shinies in the collection",
}

func AddShinyHandler(shinies repositories.ShinyRepository) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		pokemon, ok := inv.Rest(0, "pokemon")
		if !ok {
			return command.Invalid("Please provide a pokemon."), nil
		}

		exists, err := shinies.Exists(ctx, pokemon)
		if err != nil {
			return command.Result{}, command.StoreError("add shiny", err)
		}
		if exists {
			return command.Invalid(fmt.Sprintf("Oops, %s is already registered to the shiny list!", pokemon)), nil
		}

		_, err = shinies.Add(ctx, pokemon, inv.UserID())
		if errors.Is(err, database.ErrDuplicate) {
			return command.Invalid(fmt.Sprintf("Oops, %s is already registered to the shiny list!", pokemon)), nil
		}
		if err != nil {
			return command.Result{}, command.StoreError("add shiny", err)
		}
		return command.OK(fmt.Sprintf("%s is now registered to the shiny list!", pokemon)), nil
	}
}

func RemoveShinyHandler(shinies repositories.ShinyRepository) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		pokemon, ok := inv.Rest(0, "pokemon")
		if !ok {
			return command.Invalid("Please provide a pokemon."), nil
		}

		err := shinies.Remove(ctx, pokemon)
		if errors.Is(err, database.ErrNotFound) {
			return command.Invalid(fmt.Sprintf("Oops, %s is not registered to the shiny list!", pokemon)), nil
		}
		if err != nil {
			return command.Result{}, command.StoreError("remove shiny", err)
		}
		return command.OK(fmt.Sprintf("%s has been removed from the shiny list!", pokemon)), nil
	}
}

func ListShiniesHandler(shinies repositories.ShinyRepository, send PageSender) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		all, err := shinies.GetAll(ctx)
		if err != nil {
			return command.Result{}, command.StoreError("list shinies", err)
		}
		if len(all) == 0 {
			return command.OK("No shinies found."), nil
		}

		lines := make([]string, 0, len(all))
		for _, s := range all {
			lines = append(lines, "• "+s.Title)
		}
		return listResult(inv.Event, send, "Shinies", lines)
	}
}

func ShinyAutocomplete(shinies repositories.ShinyRepository) command.AutocompleteFunc {
	return func(ctx context.Context, _ string, query string) ([]command.Choice, error) {
		all, err := shinies.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		titles := make([]string, 0, len(all))
		for _, s := range all {
			titles = append(titles, s.Title)
		}
		return choices(utils.FuzzyMatch(query, titles, utils.MaxChoices)), nil
	}
}
