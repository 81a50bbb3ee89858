package handlers

import (
	"context"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

// messageCreator is the slice of rest.Rest that RestSender needs.
type messageCreator interface {
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// guildREST is the slice of rest.Rest that RestGuild needs.
type guildREST interface {
	GetRoles(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.Role, error)
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
	AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) error
	AddBan(guildID snowflake.ID, userID snowflake.ID, deleteMessageDuration time.Duration, opts ...rest.RequestOpt) error
	UpdateMember(guildID snowflake.ID, userID snowflake.ID, memberUpdate discord.MemberUpdate, opts ...rest.RequestOpt) (*discord.Member, error)
}

var (
	_ interfaces.MessageSender = (*RestSender)(nil)
	_ interfaces.GuildActions  = (*RestGuild)(nil)
)

type RestSender struct {
	rest messageCreator
}

func NewRestSender(r messageCreator) *RestSender {
	return &RestSender{rest: r}
}

func (s *RestSender) SendMessage(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) (*discord.Message, error) {
	return s.rest.CreateMessage(channelID, message, rest.WithCtx(ctx))
}

type RestGuild struct {
	rest guildREST
}

func NewRestGuild(r guildREST) *RestGuild {
	return &RestGuild{rest: r}
}

func (g *RestGuild) Roles(ctx context.Context, guildID snowflake.ID) ([]discord.Role, error) {
	return g.rest.GetRoles(guildID, rest.WithCtx(ctx))
}

func (g *RestGuild) Member(ctx context.Context, guildID, userID snowflake.ID) (*discord.Member, error) {
	return g.rest.GetMember(guildID, userID, rest.WithCtx(ctx))
}

func (g *RestGuild) AddRole(ctx context.Context, guildID, userID, roleID snowflake.ID, reason string) error {
	return g.rest.AddMemberRole(guildID, userID, roleID, rest.WithCtx(ctx), rest.WithReason(reason))
}

func (g *RestGuild) RemoveRole(ctx context.Context, guildID, userID, roleID snowflake.ID, reason string) error {
	return g.rest.RemoveMemberRole(guildID, userID, roleID, rest.WithCtx(ctx), rest.WithReason(reason))
}

func (g *RestGuild) Kick(ctx context.Context, guildID, userID snowflake.ID, reason string) error {
	return g.rest.RemoveMember(guildID, userID, rest.WithCtx(ctx), rest.WithReason(reason))
}

func (g *RestGuild) Ban(ctx context.Context, guildID, userID snowflake.ID, reason string) error {
	return g.rest.AddBan(guildID, userID, 0, rest.WithCtx(ctx), rest.WithReason(reason))
}

func (g *RestGuild) Timeout(ctx context.Context, guildID, userID snowflake.ID, until time.Time, reason string) error {
	_, err := g.rest.UpdateMember(guildID, userID, discord.MemberUpdate{
		CommunicationDisabledUntil: json.NewNullablePtr(until),
	}, rest.WithCtx(ctx), rest.WithReason(reason))
	return err
}
