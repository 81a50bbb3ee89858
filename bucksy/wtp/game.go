package wtp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/bucksy-bot/bucksy/bucksy/interfaces"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

const (
	DefaultRevealAfter = 5 * time.Minute
	DefaultReward      = 100
	DefaultMaxID       = 898
	DefaultMessage     = "Who's that Pokémon?"

	revealTimeout = 30 * time.Second
)

var ErrNoRound = errors.New("no active round")

type Creatures interface {
	Pokemon(ctx context.Context, id int) (Pokemon, error)
	Image(ctx context.Context, url string) ([]byte, error)
}

// ImageStore hosts silhouettes so they can be embedded by URL.
type ImageStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

type Awarder interface {
	Award(ctx context.Context, userID string, points int64) (int64, error)
}

type Timer interface {
	Stop() bool
}

type Config struct {
	ChannelID   snowflake.ID
	RevealAfter time.Duration
	Reward      int64
	MaxID       int
	Message     string
	Emoji       string
	Dir         string
}

type Round struct {
	ID        string
	Pokemon   Pokemon
	Answer    string
	StartedAt time.Time
	Revealed  bool
}

// Guess is one chat message posted in the guess channel.
type Guess struct {
	UserID    string
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Content   string
}

type GuessResult struct {
	Correct    bool
	Registered bool
	Awarded    int64
	Balance    int64
}

// Game owns the single active round. A new round supersedes the previous
// one; a reveal only ever applies to the round it was armed for.
type Game struct {
	mu    sync.Mutex
	round *Round
	timer Timer

	cfg       Config
	creatures Creatures
	images    ImageStore
	sender    interfaces.MessageSender
	awarder   Awarder
	intn      func(n int) int
	afterFunc func(d time.Duration, f func()) Timer
	now       func() time.Time
}

type GameOpt func(g *Game)

func WithImageStore(store ImageStore) GameOpt {
	return func(g *Game) {
		g.images = store
	}
}

func WithRand(intn func(n int) int) GameOpt {
	return func(g *Game) {
		g.intn = intn
	}
}

func WithAfterFunc(afterFunc func(d time.Duration, f func()) Timer) GameOpt {
	return func(g *Game) {
		g.afterFunc = afterFunc
	}
}

func WithClock(now func() time.Time) GameOpt {
	return func(g *Game) {
		g.now = now
	}
}

func NewGame(cfg Config, creatures Creatures, sender interfaces.MessageSender, awarder Awarder, opts ...GameOpt) *Game {
	if cfg.RevealAfter <= 0 {
		cfg.RevealAfter = DefaultRevealAfter
	}
	if cfg.Reward <= 0 {
		cfg.Reward = DefaultReward
	}
	if cfg.MaxID <= 0 {
		cfg.MaxID = DefaultMaxID
	}
	if cfg.Message == "" {
		cfg.Message = DefaultMessage
	}

	g := &Game{
		cfg:       cfg,
		creatures: creatures,
		sender:    sender,
		awarder:   awarder,
		intn:      rand.IntN,
		afterFunc: func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) ChannelID() snowflake.ID {
	return g.cfg.ChannelID
}

// Current returns a copy of the active round.
func (g *Game) Current() (Round, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.round == nil {
		return Round{}, false
	}
	return *g.round, true
}

// Start picks a random creature, posts its silhouette and arms the reveal.
func (g *Game) Start(ctx context.Context) (Round, error) {
	id := g.intn(g.cfg.MaxID) + 1

	p, err := g.creatures.Pokemon(ctx, id)
	if err != nil {
		return Round{}, fmt.Errorf("failed to load pokemon %d: %w", id, err)
	}
	artwork, err := g.creatures.Image(ctx, p.ImageURL)
	if err != nil {
		return Round{}, fmt.Errorf("failed to load artwork for %s: %w", p.Name, err)
	}
	silhouette, err := Silhouette(artwork)
	if err != nil {
		return Round{}, err
	}

	if _, err = g.sender.SendMessage(ctx, g.cfg.ChannelID, g.silhouetteMessage(ctx, p, silhouette)); err != nil {
		return Round{}, fmt.Errorf("failed to post silhouette: %w", err)
	}

	round := &Round{
		ID:        uuid.NewString(),
		Pokemon:   p,
		Answer:    normalize(p.Name),
		StartedAt: g.now(),
	}

	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.round = round
	roundID := round.ID
	g.timer = g.afterFunc(g.cfg.RevealAfter, func() {
		ctx, cancel := context.WithTimeout(context.Background(), revealTimeout)
		defer cancel()
		if _, err := g.Reveal(ctx, roundID); err != nil {
			slog.Error("Failed to reveal pokemon",
				slog.String("type", "sys"),
				slog.String("round_id", roundID),
				slog.Any("error", err))
		}
	})
	started := *round
	g.mu.Unlock()

	slog.Info("Started guessing round",
		slog.String("type", "sys"),
		slog.String("round_id", round.ID),
		slog.Int("pokemon_id", p.ID))
	return started, nil
}

func (g *Game) silhouetteMessage(ctx context.Context, p Pokemon, silhouette []byte) discord.MessageCreate {
	if g.images != nil {
		name := path.Join(g.cfg.Dir, fmt.Sprintf("%d.png", p.ID))
		url, err := g.images.Put(ctx, name, silhouette, "image/png")
		if err == nil {
			return discord.MessageCreate{
				Content: g.cfg.Message,
				Embeds:  []discord.Embed{{Image: &discord.EmbedResource{URL: url}}},
			}
		}
		slog.Warn("Failed to upload silhouette, attaching instead",
			slog.String("type", "api"),
			slog.Any("error", err))
	}

	return discord.MessageCreate{
		Content: g.cfg.Message,
		Files: []*discord.File{{
			Name:   "silhouette.png",
			Reader: bytes.NewReader(silhouette),
		}},
	}
}

// Reveal shows the answer for roundID if that round is still active and
// unrevealed. It reports whether anything was posted.
func (g *Game) Reveal(ctx context.Context, roundID string) (bool, error) {
	g.mu.Lock()
	if g.round == nil || g.round.ID != roundID || g.round.Revealed {
		g.mu.Unlock()
		return false, nil
	}
	g.round.Revealed = true
	p := g.round.Pokemon
	g.mu.Unlock()

	msg := discord.MessageCreate{
		Content: fmt.Sprintf("It's %s!", p.DisplayName()),
		Embeds:  []discord.Embed{{Image: &discord.EmbedResource{URL: p.ImageURL}}},
	}
	if _, err := g.sender.SendMessage(ctx, g.cfg.ChannelID, msg); err != nil {
		return true, fmt.Errorf("failed to post reveal: %w", err)
	}
	return true, nil
}

// RevealCurrent reveals whatever round is active.
func (g *Game) RevealCurrent(ctx context.Context) (bool, error) {
	round, ok := g.Current()
	if !ok {
		return false, ErrNoRound
	}
	return g.Reveal(ctx, round.ID)
}

// Guess checks a chat message against the active round. Only the first
// correct guess wins; the round is closed before any points move.
func (g *Game) Guess(ctx context.Context, guess Guess) (GuessResult, error) {
	answer := normalize(guess.Content)

	g.mu.Lock()
	if g.round == nil || g.round.Revealed || answer != g.round.Answer {
		g.mu.Unlock()
		return GuessResult{}, nil
	}
	g.round.Revealed = true
	if g.timer != nil {
		g.timer.Stop()
	}
	p := g.round.Pokemon
	roundID := g.round.ID
	g.mu.Unlock()

	res := GuessResult{Correct: true}
	balance, err := g.awarder.Award(ctx, guess.UserID, g.cfg.Reward)
	switch {
	case err == nil:
		res.Registered = true
		res.Awarded = g.cfg.Reward
		res.Balance = balance
	case errors.Is(err, economy.ErrNotRegistered):
	default:
		slog.Error("Failed to award guess",
			slog.String("type", "db"),
			slog.String("user_id", guess.UserID),
			slog.String("round_id", roundID),
			slog.Any("error", err))
	}

	slog.Info("Round won",
		slog.String("type", "sys"),
		slog.String("round_id", roundID),
		slog.String("user_id", guess.UserID),
		slog.Int64("awarded", res.Awarded))

	reply := discord.MessageCreate{Content: g.winMessage(p, res, err)}
	if guess.MessageID != 0 {
		messageID := guess.MessageID
		reply.MessageReference = &discord.MessageReference{MessageID: &messageID}
	}
	if _, err := g.sender.SendMessage(ctx, g.cfg.ChannelID, reply); err != nil {
		return res, fmt.Errorf("failed to reply to guess: %w", err)
	}

	image := discord.MessageCreate{
		Embeds: []discord.Embed{{Image: &discord.EmbedResource{URL: p.ImageURL}}},
	}
	if _, err := g.sender.SendMessage(ctx, g.cfg.ChannelID, image); err != nil {
		return res, fmt.Errorf("failed to post artwork: %w", err)
	}
	return res, nil
}

func (g *Game) winMessage(p Pokemon, res GuessResult, awardErr error) string {
	switch {
	case res.Registered:
		return fmt.Sprintf("Correct! It's %s! You've earned %d %s", p.DisplayName(), res.Awarded, g.cfg.Emoji)
	case errors.Is(awardErr, economy.ErrNotRegistered):
		return fmt.Sprintf("Correct! It's %s! Register with !register to earn points next time.", p.DisplayName())
	default:
		return fmt.Sprintf("Correct! It's %s!", p.DisplayName())
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
