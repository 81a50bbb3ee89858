package wtp

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/economy"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

func artworkPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode artwork: %v", err)
	}
	return buf.Bytes()
}

type fakeCreatures struct {
	pokemon Pokemon
	artwork []byte
}

func (f *fakeCreatures) Pokemon(_ context.Context, id int) (Pokemon, error) {
	p := f.pokemon
	p.ID = id
	return p, nil
}

func (f *fakeCreatures) Image(context.Context, string) ([]byte, error) {
	return f.artwork, nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []discord.MessageCreate
}

func (s *recordingSender) SendMessage(_ context.Context, _ snowflake.ID, msg discord.MessageCreate) (*discord.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return &discord.Message{}, nil
}

func (s *recordingSender) messages() []discord.MessageCreate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]discord.MessageCreate(nil), s.sent...)
}

type fakeAwarder struct {
	mu         sync.Mutex
	registered map[string]bool
	awards     map[string]int64
	calls      int
}

func (a *fakeAwarder) Award(_ context.Context, userID string, points int64) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if !a.registered[userID] {
		return 0, economy.ErrNotRegistered
	}
	if a.awards == nil {
		a.awards = make(map[string]int64)
	}
	a.awards[userID] += points
	return a.awards[userID], nil
}

type fakeTimer struct {
	after   time.Duration
	fire    func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type timers struct {
	armed []*fakeTimer
}

func (ts *timers) afterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{after: d, fire: f}
	ts.armed = append(ts.armed, t)
	return t
}

type fixture struct {
	game    *Game
	sender  *recordingSender
	awarder *fakeAwarder
	timers  *timers
}

func newFixture(t *testing.T, opts ...GameOpt) *fixture {
	t.Helper()
	f := &fixture{
		sender:  &recordingSender{},
		awarder: &fakeAwarder{registered: map[string]bool{"ash": true}},
		timers:  &timers{},
	}
	creatures := &fakeCreatures{
		pokemon: Pokemon{Name: "pikachu", ImageURL: "https://img.example/25.png"},
		artwork: artworkPNG(t),
	}
	opts = append([]GameOpt{
		WithRand(func(int) int { return 24 }),
		WithAfterFunc(f.timers.afterFunc),
	}, opts...)
	f.game = NewGame(Config{ChannelID: 7, Emoji: "🪙"}, creatures, f.sender, f.awarder, opts...)
	return f
}
