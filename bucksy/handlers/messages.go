package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/command"
	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/bucksy-bot/bucksy/bucksy/notify"
	"github.com/bucksy-bot/bucksy/bucksy/utils"
	"github.com/bucksy-bot/bucksy/bucksy/wtp"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

const messageTimeout = 30 * time.Second

// Guesser is the part of the WTP game the message listener feeds.
type Guesser interface {
	ChannelID() snowflake.ID
	Guess(ctx context.Context, guess wtp.Guess) (wtp.GuessResult, error)
}

// RoleCache resolves the roles a chat message's member holds into a
// permission set; bot.Client's caches satisfy it.
type RoleCache interface {
	Guild(guildID snowflake.ID) (discord.Guild, bool)
	Role(guildID snowflake.ID, roleID snowflake.ID) (discord.Role, bool)
}

// RareNotifier alerts on spawn bot messages in its channel.
type RareNotifier interface {
	ChannelID() snowflake.ID
	Notify(ctx context.Context, s notify.Sighting) (bool, error)
}

type Messages struct {
	dispatcher *command.Dispatcher
	sender     interfaces.MessageSender
	game       Guesser
	roles      RoleCache
	rares      RareNotifier
	// prefixed messages here are not commands
	quiet map[snowflake.ID]struct{}
}

func NewMessages(d *command.Dispatcher, sender interfaces.MessageSender, game Guesser, roles RoleCache) *Messages {
	return &Messages{dispatcher: d, sender: sender, game: game, roles: roles}
}

func (m *Messages) WithRares(n RareNotifier) *Messages {
	m.rares = n
	return m
}

// WithoutCommandsIn stops chat commands in the given channels. Zero IDs
// are ignored.
func (m *Messages) WithoutCommandsIn(channelIDs ...snowflake.ID) *Messages {
	for _, id := range channelIDs {
		if id == 0 {
			continue
		}
		if m.quiet == nil {
			m.quiet = make(map[snowflake.ID]struct{})
		}
		m.quiet[id] = struct{}{}
	}
	return m
}

func (m *Messages) OnMessageCreate(e *events.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()
	m.HandleMessage(ctx, e.Message, e.Client().ID())
}

// HandleMessage routes a gateway message. Bot messages only matter to the
// rares notifier; selfID keeps the bot from reacting to its own alerts.
func (m *Messages) HandleMessage(ctx context.Context, msg discord.Message, selfID snowflake.ID) {
	author := msg.Author
	if author.System || author.ID == selfID {
		return
	}
	if author.Bot {
		if m.rares != nil && m.rares.ChannelID() != 0 && msg.ChannelID == m.rares.ChannelID() {
			if _, err := m.rares.Notify(ctx, notify.SightingFromMessage(msg)); err != nil {
				slog.Error("Failed to send rare alert",
					slog.String("type", "sys"),
					slog.String("channel_id", msg.ChannelID.String()),
					slog.Any("error", err))
			}
		}
		return
	}

	ev := &command.Event{
		Source:     command.SourceMessage,
		RawText:    msg.Content,
		SenderID:   author.ID,
		SenderName: author.Username,
		GuildID:    msg.GuildID,
		ChannelID:  msg.ChannelID,
	}
	if member := msg.Member; member != nil && msg.GuildID != nil {
		ev.RoleIDs = member.RoleIDs
		if m.roles != nil {
			ev.Permissions = MemberPermissions(m.roles, *msg.GuildID, author.ID, member.RoleIDs)
		}
	}
	m.Handle(ctx, ev, msg.ID)
}

// Handle sends prefixed messages to the dispatcher and treats everything
// else in the game channel as a guess.
func (m *Messages) Handle(ctx context.Context, ev *command.Event, messageID snowflake.ID) {
	if m.dispatcher.HasPrefix(ev.RawText) {
		if _, quiet := m.quiet[ev.ChannelID]; quiet {
			return
		}
		res := m.dispatcher.Dispatch(ctx, ev)
		if res.Outcome == command.OutcomeNotFound || res.Responded {
			return
		}
		msg := utils.EH.Render(res, false)
		msg.MessageReference = &discord.MessageReference{MessageID: &messageID}
		if _, err := m.sender.SendMessage(ctx, ev.ChannelID, msg); err != nil {
			slog.Error("Failed to send command reply",
				slog.String("type", "cmd"),
				slog.String("channel_id", ev.ChannelID.String()),
				slog.Any("error", err))
		}
		return
	}

	if m.game == nil || m.game.ChannelID() == 0 || ev.ChannelID != m.game.ChannelID() {
		return
	}
	_, err := m.game.Guess(ctx, wtp.Guess{
		UserID:    ev.SenderID.String(),
		ChannelID: ev.ChannelID,
		MessageID: messageID,
		Content:   ev.RawText,
	})
	if err != nil {
		slog.Error("Failed to check guess",
			slog.String("type", "sys"),
			slog.String("user_id", ev.SenderID.String()),
			slog.Any("error", err))
	}
}

// MemberPermissions folds @everyone and the member's roles into one
// permission set. Owners and administrators get everything.
func MemberPermissions(c RoleCache, guildID, userID snowflake.ID, roleIDs []snowflake.ID) discord.Permissions {
	if guild, ok := c.Guild(guildID); ok && guild.OwnerID == userID {
		return discord.PermissionsAll
	}

	var perms discord.Permissions
	if everyone, ok := c.Role(guildID, guildID); ok {
		perms |= everyone.Permissions
	}
	for _, id := range roleIDs {
		if role, ok := c.Role(guildID, id); ok {
			perms |= role.Permissions
		}
	}
	if perms.Has(discord.PermissionAdministrator) {
		return discord.PermissionsAll
	}
	return perms
}
