package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// GuildInfo looks up the name and member count shown in greetings.
type GuildInfo func(guildID snowflake.ID) (name string, members int)

// Greeter posts welcome and farewell embeds to one channel.
type Greeter struct {
	sender    interfaces.MessageSender
	channelID snowflake.ID
	botName   string
	guild     GuildInfo
	now       func() time.Time
}

func NewGreeter(sender interfaces.MessageSender, channelID snowflake.ID, botName string, guild GuildInfo) *Greeter {
	return &Greeter{sender: sender, channelID: channelID, botName: botName, guild: guild, now: time.Now}
}

func (g *Greeter) OnMemberJoin(e *events.GuildMemberJoin) {
	if e.Member.User.Bot {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	g.Welcome(ctx, e.GuildID, e.Member.User)
}

func (g *Greeter) OnMemberLeave(e *events.GuildMemberLeave) {
	if e.User.Bot {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	g.Farewell(ctx, e.User)
}

func (g *Greeter) Welcome(ctx context.Context, guildID snowflake.ID, user discord.User) {
	name, members := "the server", 0
	if g.guild != nil {
		if n, m := g.guild(guildID); n != "" {
			name, members = n, m
		}
	}

	now := g.now()
	inline := true
	embed := discord.Embed{
		Title:       fmt.Sprintf("Welcome to %s!", name),
		Description: fmt.Sprintf("Hey %s, welcome to the server! We're glad to have you here.", user.Mention()),
		Color:       utils.GreetingColor,
		Thumbnail:   &discord.EmbedResource{URL: user.EffectiveAvatarURL()},
		Fields: []discord.EmbedField{
			{Name: "Getting Started", Value: "Check out the rules and introduction channels to get started.", Inline: &inline},
		},
		Timestamp: &now,
		Footer:    &discord.EmbedFooter{Text: g.botName},
	}
	if members > 0 {
		embed.Fields = append([]discord.EmbedField{
			{Name: "Member Count", Value: fmt.Sprintf("You are member #%d!", members), Inline: &inline},
		}, embed.Fields...)
	}
	g.send(ctx, "welcome", user, embed)
}

func (g *Greeter) Farewell(ctx context.Context, user discord.User) {
	now := g.now()
	g.send(ctx, "farewell", user, discord.Embed{
		Title:       "A Member Has Left",
		Description: fmt.Sprintf("%s has left the server. We'll miss you!", user.Tag()),
		Color:       utils.FarewellColor,
		Thumbnail:   &discord.EmbedResource{URL: user.EffectiveAvatarURL()},
		Timestamp:   &now,
		Footer:      &discord.EmbedFooter{Text: g.botName},
	})
}

func (g *Greeter) send(ctx context.Context, kind string, user discord.User, embed discord.Embed) {
	if g.channelID == 0 {
		return
	}
	_, err := g.sender.SendMessage(ctx, g.channelID, discord.MessageCreate{Embeds: []discord.Embed{embed}})
	if err != nil {
		slog.Error("Failed to send greeting",
			slog.String("type", "sys"),
			slog.String("kind", kind),
			slog.String("user_id", user.ID.String()),
			slog.Any("error", err))
		return
	}
	slog.Info("Sent greeting",
		slog.String("type", "sys"),
		slog.String("kind", kind),
		slog.String("user_id", user.ID.String()))
}
