package qotd

import (
	"context"
	"errors"
	"testing"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories/mock"
	imock "github.com/bucksy-bot/bucksy/bucksy/interfaces/mock"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/mock/gomock"
)

func TestPublisher_Post(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuestionRepository(ctrl)
	sender := imock.NewMockMessageSender(ctrl)
	channel := snowflake.ID(42)

	store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound)
	store.EXPECT().GetAll(gomock.Any()).Return(nil, nil)

	var sent discord.MessageCreate
	sender.EXPECT().SendMessage(gomock.Any(), channel, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ snowflake.ID, msg discord.MessageCreate) (*discord.Message, error) {
			sent = msg
			return &discord.Message{}, nil
		})

	p := NewPublisher(NewRotator(store, nil), sender, channel)
	pick, err := p.Post(context.Background())
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if pick.Origin != OriginFallback {
		t.Errorf("Post() origin = %s, want fallback", pick.Origin)
	}
	if want := "**Question of the Day**: " + FallbackQuestion; sent.Content != want {
		t.Errorf("sent content = %q, want %q", sent.Content, want)
	}
}

func TestPublisher_PostSendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockQuestionRepository(ctrl)
	sender := imock.NewMockMessageSender(ctrl)

	store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrInvalidID)
	sender.EXPECT().SendMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("missing access"))

	p := NewPublisher(NewRotator(store, nil), sender, 1)
	if _, err := p.Post(context.Background()); err == nil {
		t.Error("Post() error = nil, want send failure")
	}
}
