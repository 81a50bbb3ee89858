// Package notify pings the server when a spawn bot announces a rare Pokémon.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const (
	alertColor   = 0xFFD700
	alertContent = "@everyone A rare Pokemon has been spotted!"
	maxFieldLen  = 1024
)

// Rares are matched as lowercase substrings in list order, so longer names
// must come before names they contain (mewtwo before mew).
var Rares = []string{
	"mewtwo", "mew", "articuno", "zapdos", "moltres",
	"raikou", "entei", "suicune", "lugia", "ho-oh", "celebi",
	"regirock", "regice", "registeel", "latias", "latios", "kyogre", "groudon", "rayquaza", "jirachi", "deoxys",
	"uxie", "mesprit", "azelf", "dialga", "palkia", "heatran", "regigigas", "giratina", "cresselia", "phione", "manaphy", "darkrai", "shaymin", "arceus",
	"victini", "cobalion", "terrakion", "virizion", "tornadus", "thundurus", "reshiram", "zekrom", "landorus", "kyurem", "keldeo", "meloetta", "genesect",
	"xerneas", "yveltal", "zygarde", "diancie", "hoopa", "volcanion",
	"type: null", "silvally", "tapu koko", "tapu lele", "tapu bulu", "tapu fini", "cosmog", "cosmoem", "solgaleo", "lunala", "nihilego", "buzzwole", "pheromosa", "xurkitree", "celesteela", "kartana", "guzzlord", "necrozma", "magearna", "marshadow", "poipole", "naganadel", "stakataka", "blacephalon", "zeraora",
	"meltan", "melmetal",
	"zacian", "zamazenta", "eternatus", "kubfu", "urshifu", "zarude", "regieleki", "regidrago", "glastrier", "spectrier", "calyrex",
	"shiny",
}

// Match returns the first rare name mentioned in content.
func Match(content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, name := range Rares {
		if strings.Contains(lower, name) {
			return name, true
		}
	}
	return "", false
}

// Sighting is a spawn bot message in the rares channel.
type Sighting struct {
	ChannelID snowflake.ID
	Content   string
	AuthorTag string
	ImageURL  string
}

// SightingFromMessage picks the first image attachment, if any.
func SightingFromMessage(msg discord.Message) Sighting {
	s := Sighting{
		ChannelID: msg.ChannelID,
		Content:   msg.Content,
		AuthorTag: msg.Author.Tag(),
	}
	for _, a := range msg.Attachments {
		if a.ContentType != nil && strings.HasPrefix(*a.ContentType, "image/") {
			s.ImageURL = a.URL
			break
		}
	}
	return s
}

type Notifier struct {
	sender  interfaces.MessageSender
	channel snowflake.ID
	now     func() time.Time
}

func New(sender interfaces.MessageSender, channel snowflake.ID) *Notifier {
	return &Notifier{sender: sender, channel: channel, now: time.Now}
}

func (n *Notifier) WithClock(now func() time.Time) *Notifier {
	n.now = now
	return n
}

// ChannelID is the channel watched for spawn messages and alerted in.
// Zero disables the notifier.
func (n *Notifier) ChannelID() snowflake.ID {
	return n.channel
}

// Notify posts an @everyone alert when the sighting names a rare. It
// reports whether an alert was sent.
func (n *Notifier) Notify(ctx context.Context, s Sighting) (bool, error) {
	if n.channel == 0 {
		return false, nil
	}
	rare, ok := Match(s.Content)
	if !ok {
		return false, nil
	}

	original := s.Content
	if len(original) > maxFieldLen {
		original = original[:maxFieldLen-3] + "..."
	}
	embed := discord.NewEmbedBuilder().
		SetColor(alertColor).
		SetTitle("Rare Pokemon Alert!").
		SetDescription(fmt.Sprintf("A rare Pokemon has been spotted: **%s**!", strings.ToUpper(rare))).
		AddField("Original Message", original, false).
		AddField("Channel", fmt.Sprintf("<#%s>", s.ChannelID), true).
		AddField("Posted By", s.AuthorTag, true).
		SetTimestamp(n.now()).
		SetFooterText("Go catch it!")
	if s.ImageURL != "" {
		embed.SetImage(s.ImageURL)
	}

	msg := discord.NewMessageCreateBuilder().
		SetContent(alertContent).
		SetEmbeds(embed.Build()).
		SetAllowedMentions(&discord.AllowedMentions{
			Parse: []discord.AllowedMentionType{discord.AllowedMentionTypeEveryone},
		}).
		Build()
	if _, err := n.sender.SendMessage(ctx, n.channel, msg); err != nil {
		return false, fmt.Errorf("failed to send rare alert for %s: %w", rare, err)
	}

	slog.Info("Sent rare Pokemon alert",
		slog.String("type", "sys"),
		slog.String("pokemon", rare),
		slog.String("channel_id", n.channel.String()))
	return true, nil
}
