package interfaces

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// MessageSender posts to a channel; implemented over the disgo REST client.
type MessageSender interface {
	SendMessage(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) (*discord.Message, error)
}

// GuildActions are the member and role operations moderation and role
// commands need.
type GuildActions interface {
	Roles(ctx context.Context, guildID snowflake.ID) ([]discord.Role, error)
	Member(ctx context.Context, guildID, userID snowflake.ID) (*discord.Member, error)
	AddRole(ctx context.Context, guildID, userID, roleID snowflake.ID, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID snowflake.ID, reason string) error
	Kick(ctx context.Context, guildID, userID snowflake.ID, reason string) error
	Ban(ctx context.Context, guildID, userID snowflake.ID, reason string) error
	Timeout(ctx context.Context, guildID, userID snowflake.ID, until time.Time, reason string) error
}
