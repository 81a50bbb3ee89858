// Package admin holds the server staff slash commands: question and shiny
// pools, manual posts and admin accounts.
package admin

import (
	"context"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/bucksy-bot/bucksy/bucksy/scheduler"
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	AddQuestion,
	RemoveQuestion,
	ListQuestions,
	AddShiny,
	RemoveShiny,
	ListShinies,
	QOTDNow,
	WTPNow,
	MakeAdmin,
	RemoveAdmin,
	ListAdmins,
}

// Trigger runs a scheduled post right away.
type Trigger interface {
	Trigger(ctx context.Context, kind scheduler.Kind) error
}

type Deps struct {
	Questions    repositories.QuestionRepository
	Shinies      repositories.ShinyRepository
	Admins       repositories.AdminRepository
	Pages        PageSender
	Poster       Trigger
	AdminChannel *command.Channel
}

func Descriptors(d Deps) []*command.Descriptor {
	staff := func(desc *command.Descriptor) *command.Descriptor {
		desc.Category = "admin"
		desc.GuildOnly = true
		desc.Channel = d.AdminChannel
		desc.Permissions = discord.PermissionManageRoles
		return desc
	}
	owner := func(desc *command.Descriptor) *command.Descriptor {
		desc.Category = "admin"
		desc.GuildOnly = true
		desc.Permissions = discord.PermissionAdministrator
		return desc
	}

	return []*command.Descriptor{
		staff(&command.Descriptor{
			Name:        AddQuestion.Name,
			Description: AddQuestion.Description,
			Handler:     AddQuestionHandler(d.Questions),
		}),
		staff(&command.Descriptor{
			Name:         RemoveQuestion.Name,
			Description:  RemoveQuestion.Description,
			Handler:      RemoveQuestionHandler(d.Questions),
			Autocomplete: QuestionAutocomplete(d.Questions),
		}),
		staff(&command.Descriptor{
			Name:        ListQuestions.Name,
			Description: ListQuestions.Description,
			Handler:     ListQuestionsHandler(d.Questions, d.Pages),
		}),
		staff(&command.Descriptor{
			Name:        AddShiny.Name,
			Description: AddShiny.Description,
			Handler:     AddShinyHandler(d.Shinies),
		}),
		staff(&command.Descriptor{
			Name:         RemoveShiny.Name,
			Description:  RemoveShiny.Description,
			Handler:      RemoveShinyHandler(d.Shinies),
			Autocomplete: ShinyAutocomplete(d.Shinies),
		}),
		staff(&command.Descriptor{
			Name:        ListShinies.Name,
			Description: ListShinies.Description,
			Handler:     ListShiniesHandler(d.Shinies, d.Pages),
		}),
		staff(&command.Descriptor{
			Name:        QOTDNow.Name,
			Description: QOTDNow.Description,
			Handler:     TriggerHandler(d.Poster, scheduler.KindQOTD, "Question of the day posted."),
		}),
		staff(&command.Descriptor{
			Name:        WTPNow.Name,
			Description: WTPNow.Description,
			Handler:     TriggerHandler(d.Poster, scheduler.KindWTP, "A new round of Who's That Pokémon has started!"),
		}),
		owner(&command.Descriptor{
			Name:        MakeAdmin.Name,
			Description: MakeAdmin.Description,
			Handler:     MakeAdminHandler(d.Admins),
		}),
		owner(&command.Descriptor{
			Name:        RemoveAdmin.Name,
			Description: RemoveAdmin.Description,
			Handler:     RemoveAdminHandler(d.Admins),
		}),
		owner(&command.Descriptor{
			Name:        ListAdmins.Name,
			Description: ListAdmins.Description,
			Handler:     ListAdminsHandler(d.Admins),
		}),
	}
}
