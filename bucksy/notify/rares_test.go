package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	imock "github.com/bucksy-bot/bucksy/bucksy/interfaces/mock"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/mock/gomock"
)

const raresChannel = snowflake.ID(300)

var spotted = time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

func TestMatch(t *testing.T) {
	tests := []struct {
		content string
		want    string
		ok      bool
	}{
		{content: "A wild MEWTWO appeared!", want: "mewtwo", ok: true},
		{content: "A wild Mew appeared!", want: "mew", ok: true},
		{content: "A wild Tapu Koko appeared!", want: "tapu koko", ok: true},
		{content: "A shiny Magikarp appeared!", want: "shiny", ok: true},
		{content: "A wild Pidgey appeared!"},
		{content: ""},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			got, ok := Match(tt.content)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Match(%q) = %q, %v, want %q, %v", tt.content, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSightingFromMessage(t *testing.T) {
	text, png := "text/plain", "image/png"
	s := SightingFromMessage(discord.Message{
		ChannelID: raresChannel,
		Content:   "A wild Lugia appeared!",
		Author:    discord.User{Username: "spawnbot", Discriminator: "0"},
		Attachments: []discord.Attachment{
			{URL: "https://cdn.example/notes.txt", ContentType: &text},
			{URL: "https://cdn.example/lugia.png", ContentType: &png},
		},
	})
	if s.ImageURL != "https://cdn.example/lugia.png" || s.AuthorTag != "spawnbot" || s.ChannelID != raresChannel {
		t.Errorf("SightingFromMessage() = %+v", s)
	}
}

func TestNotifier_Notify(t *testing.T) {
	sighting := Sighting{
		ChannelID: raresChannel,
		Content:   "A wild Rayquaza appeared!",
		AuthorTag: "spawnbot#0001",
		ImageURL:  "https://cdn.example/rayquaza.png",
	}

	t.Run("rare", func(t *testing.T) {
		sender := imock.NewMockMessageSender(gomock.NewController(t))
		var sent discord.MessageCreate
		sender.EXPECT().SendMessage(gomock.Any(), raresChannel, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ snowflake.ID, msg discord.MessageCreate) (*discord.Message, error) {
				sent = msg
				return &discord.Message{}, nil
			})

		n := New(sender, raresChannel).WithClock(func() time.Time { return spotted })
		ok, err := n.Notify(context.Background(), sighting)
		if !ok || err != nil {
			t.Fatalf("Notify() = %v, %v", ok, err)
		}
		if sent.Content != alertContent || len(sent.Embeds) != 1 {
			t.Fatalf("sent = %+v", sent)
		}
		if sent.AllowedMentions == nil || len(sent.AllowedMentions.Parse) != 1 || sent.AllowedMentions.Parse[0] != discord.AllowedMentionTypeEveryone {
			t.Errorf("allowed mentions = %+v", sent.AllowedMentions)
		}
		embed := sent.Embeds[0]
		if !strings.Contains(embed.Description, "**RAYQUAZA**") || embed.Image == nil || embed.Image.URL != sighting.ImageURL {
			t.Errorf("embed = %+v", embed)
		}
		if len(embed.Fields) != 3 || embed.Fields[1].Value != "<#300>" || embed.Fields[2].Value != "spawnbot#0001" {
			t.Errorf("fields = %+v", embed.Fields)
		}
		if embed.Timestamp == nil || !embed.Timestamp.Equal(spotted) {
			t.Errorf("timestamp = %v", embed.Timestamp)
		}
	})

	t.Run("long message is truncated", func(t *testing.T) {
		sender := imock.NewMockMessageSender(gomock.NewController(t))
		sender.EXPECT().SendMessage(gomock.Any(), raresChannel, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ snowflake.ID, msg discord.MessageCreate) (*discord.Message, error) {
				if v := msg.Embeds[0].Fields[0].Value; len(v) != maxFieldLen || !strings.HasSuffix(v, "...") {
					t.Errorf("original message field has %d chars", len(v))
				}
				return &discord.Message{}, nil
			})
		long := sighting
		long.Content = "A wild Zekrom appeared! " + strings.Repeat("z", 2000)
		if ok, err := New(sender, raresChannel).Notify(context.Background(), long); !ok || err != nil {
			t.Errorf("Notify() = %v, %v", ok, err)
		}
	})

	t.Run("common", func(t *testing.T) {
		sender := imock.NewMockMessageSender(gomock.NewController(t))
		common := sighting
		common.Content = "A wild Rattata appeared!"
		if ok, err := New(sender, raresChannel).Notify(context.Background(), common); ok || err != nil {
			t.Errorf("Notify() = %v, %v", ok, err)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		sender := imock.NewMockMessageSender(gomock.NewController(t))
		if ok, err := New(sender, 0).Notify(context.Background(), sighting); ok || err != nil {
			t.Errorf("Notify() = %v, %v", ok, err)
		}
	})

	t.Run("send failure", func(t *testing.T) {
		sender := imock.NewMockMessageSender(gomock.NewController(t))
		sender.EXPECT().SendMessage(gomock.Any(), raresChannel, gomock.Any()).Return(nil, errors.New("missing access"))
		if ok, err := New(sender, raresChannel).Notify(context.Background(), sighting); ok || err == nil {
			t.Errorf("Notify() = %v, %v, want error", ok, err)
		}
	})
}
