package qotd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

type Publisher struct {
	rotator   *Rotator
	sender    interfaces.MessageSender
	channelID snowflake.ID
}

func NewPublisher(rotator *Rotator, sender interfaces.MessageSender, channelID snowflake.ID) *Publisher {
	return &Publisher{rotator: rotator, sender: sender, channelID: channelID}
}

func Format(question string) string {
	return fmt.Sprintf("**Question of the Day**: %s", question)
}

// Post selects the next question and sends it to the configured channel.
func (p *Publisher) Post(ctx context.Context) (Pick, error) {
	pick := p.rotator.Next(ctx)

	msg := discord.NewMessageCreateBuilder().SetContent(Format(pick.Text)).Build()
	if _, err := p.sender.SendMessage(ctx, p.channelID, msg); err != nil {
		return pick, fmt.Errorf("failed to post question of the day: %w", err)
	}

	slog.Info("Posted question of the day",
		slog.String("type", "sys"),
		slog.String("origin", string(pick.Origin)),
		slog.String("channel_id", p.channelID.String()))
	return pick, nil
}
