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

var AddQuestion = discord.SlashCommandCreate{
	Name:        "add-question",
	Description: "Add a question to the collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "text",
			Description: "The question text",
			Required:    true,
		},
	},
}

var RemoveQuestion = discord.SlashCommandCreate{
	Name:        "remove-question",
	Description: "Remove a question from the collection",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "text",
			Description:  "The question text to remove",
			Required:     true,
			Autocomplete: true,
		},
	},
}

var ListQuestions = discord.SlashCommandCreate{
	Name:        "list-questions",
	Description: "List all questions in the collection",
}

func AddQuestionHandler(questions repositories.QuestionRepository) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		text, ok := inv.Rest(0, "text")
		if !ok {
			return command.Invalid("Please provide the question text."), nil
		}

		exists, err := questions.Exists(ctx, text)
		if err != nil {
			return command.Result{}, command.StoreError("add question", err)
		}
		if exists {
			return command.Invalid("Oops, this question already exists!"), nil
		}

		_, err = questions.Add(ctx, text)
		if errors.Is(err, database.ErrDuplicate) {
			return command.Invalid("Oops, this question already exists!"), nil
		}
		if err != nil {
			return command.Result{}, command.StoreError("add question", err)
		}
		return command.OK("Question has been added successfully!"), nil
	}
}

func RemoveQuestionHandler(questions repositories.QuestionRepository) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		text, ok := inv.Rest(0, "text")
		if !ok {
			return command.Invalid("Please provide the question text."), nil
		}

		err := questions.Remove(ctx, text)
		if errors.Is(err, database.ErrNotFound) {
			return command.Invalid("Oops, this question doesn't exist!"), nil
		}
		if err != nil {
			return command.Result{}, command.StoreError("remove question", err)
		}
		return command.OK("Question has been removed successfully!"), nil
	}
}

func ListQuestionsHandler(questions repositories.QuestionRepository, send PageSender) command.HandlerFunc {
	return func(ctx context.Context, inv *command.Invocation) (command.Result, error) {
		all, err := questions.GetAll(ctx)
		if err != nil {
			return command.Result{}, command.StoreError("list questions", err)
		}
		if len(all) == 0 {
			return command.OK("No questions found."), nil
		}

		lines := make([]string, 0, len(all))
		for _, q := range all {
			used := ""
			if q.Used {
				used = " (used)"
			}
			lines = append(lines, fmt.Sprintf("`%d` %s%s", q.Priority, q.Text, used))
		}
		return listResult(inv.Event, send, "Questions", lines)
	}
}

func QuestionAutocomplete(questions repositories.QuestionRepository) command.AutocompleteFunc {
	return func(ctx context.Context, _ string, query string) ([]command.Choice, error) {
		all, err := questions.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		texts := make([]string, 0, len(all))
		for _, q := range all {
			texts = append(texts, q.Text)
		}
		return choices(utils.FuzzyMatch(query, texts, utils.MaxChoices)), nil
	}
}
