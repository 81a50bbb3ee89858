package wtp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type fakeImageStore struct {
	name string
	err  error
}

func (s *fakeImageStore) Put(_ context.Context, name string, _ []byte, _ string) (string, error) {
	s.name = name
	if s.err != nil {
		return "", s.err
	}
	return "https://cdn.example/" + name, nil
}

func TestGame_StartArmsReveal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	round, err := f.game.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if round.Pokemon.ID != 25 || round.Answer != "pikachu" || round.Revealed {
		t.Errorf("Start() round = %+v", round)
	}

	sent := f.sender.messages()
	if len(sent) != 1 || sent[0].Content != DefaultMessage || len(sent[0].Files) != 1 {
		t.Fatalf("silhouette message = %+v", sent)
	}
	if len(f.timers.armed) != 1 || f.timers.armed[0].after != DefaultRevealAfter {
		t.Fatalf("armed timers = %+v, want one after %v", f.timers.armed, DefaultRevealAfter)
	}

	f.timers.armed[0].fire()
	sent = f.sender.messages()
	if len(sent) != 2 || sent[1].Content != "It's Pikachu!" {
		t.Fatalf("reveal message = %+v", sent)
	}
	if sent[1].Embeds[0].Image.URL != "https://img.example/25.png" {
		t.Errorf("reveal image = %q", sent[1].Embeds[0].Image.URL)
	}

	if posted, _ := f.game.Reveal(ctx, round.ID); posted {
		t.Error("second Reveal() posted again")
	}
}

func TestGame_NewRoundSupersedes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, _ := f.game.Start(ctx)
	second, _ := f.game.Start(ctx)
	if first.ID == second.ID {
		t.Fatal("rounds share an ID")
	}
	if !f.timers.armed[0].stopped {
		t.Error("first reveal timer was not stopped")
	}

	f.timers.armed[0].fire()
	if got := len(f.sender.messages()); got != 2 {
		t.Errorf("stale reveal posted; messages = %d, want 2", got)
	}
	if cur, _ := f.game.Current(); cur.ID != second.ID || cur.Revealed {
		t.Errorf("Current() = %+v, want unrevealed second round", cur)
	}
}

func TestGame_Guess(t *testing.T) {
	tests := []struct {
		name        string
		user        string
		content     string
		wantCorrect bool
		wantAward   int64
		wantReply   string
	}{
		{name: "wrong answer", user: "ash", content: "raichu"},
		{
			name:        "registered winner",
			user:        "ash",
			content:     "  PikaChu ",
			wantCorrect: true,
			wantAward:   DefaultReward,
			wantReply:   "Correct! It's Pikachu! You've earned 100 🪙",
		},
		{
			name:        "unregistered winner",
			user:        "gary",
			content:     "pikachu",
			wantCorrect: true,
			wantReply:   "Correct! It's Pikachu! Register with !register to earn points next time.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			if _, err := f.game.Start(ctx); err != nil {
				t.Fatalf("Start() error = %v", err)
			}

			res, err := f.game.Guess(ctx, Guess{UserID: tt.user, MessageID: 99, Content: tt.content})
			if err != nil {
				t.Fatalf("Guess() error = %v", err)
			}
			if res.Correct != tt.wantCorrect || res.Awarded != tt.wantAward {
				t.Errorf("Guess() = %+v", res)
			}
			if !tt.wantCorrect {
				if got := len(f.sender.messages()); got != 1 {
					t.Errorf("wrong guess posted %d extra messages", got-1)
				}
				return
			}

			sent := f.sender.messages()
			if len(sent) != 3 {
				t.Fatalf("messages = %d, want silhouette, reply and artwork", len(sent))
			}
			if sent[1].Content != tt.wantReply {
				t.Errorf("reply = %q, want %q", sent[1].Content, tt.wantReply)
			}
			if sent[1].MessageReference == nil || *sent[1].MessageReference.MessageID != 99 {
				t.Error("reply does not reference the guess")
			}
			if !f.timers.armed[0].stopped {
				t.Error("reveal timer still armed after win")
			}
			if again, _ := f.game.Guess(ctx, Guess{UserID: "ash", Content: "pikachu"}); again.Correct {
				t.Error("second correct guess accepted")
			}
		})
	}
}

func TestGame_GuessWithoutRound(t *testing.T) {
	f := newFixture(t)
	res, err := f.game.Guess(context.Background(), Guess{UserID: "ash", Content: "pikachu"})
	if err != nil || res.Correct {
		t.Errorf("Guess() = %+v, %v, want nothing", res, err)
	}
	if _, err := f.game.RevealCurrent(context.Background()); !errors.Is(err, ErrNoRound) {
		t.Errorf("RevealCurrent() error = %v, want %v", err, ErrNoRound)
	}
}

func TestGame_ConcurrentGuessesAwardOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.game.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _ := f.game.Guess(ctx, Guess{UserID: "ash", Content: "pikachu"})
			if res.Correct {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("winners = %d, want 1", winners)
	}
	if f.awarder.calls != 1 || f.awarder.awards["ash"] != DefaultReward {
		t.Errorf("award calls = %d, points = %d", f.awarder.calls, f.awarder.awards["ash"])
	}
}

func TestGame_UploadsSilhouette(t *testing.T) {
	store := &fakeImageStore{}
	f := newFixture(t, WithImageStore(store))
	f.game.cfg.Dir = "wtp"

	if _, err := f.game.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	sent := f.sender.messages()[0]
	if store.name != "wtp/25.png" {
		t.Errorf("uploaded name = %q", store.name)
	}
	if len(sent.Files) != 0 || !strings.HasSuffix(sent.Embeds[0].Image.URL, "wtp/25.png") {
		t.Errorf("silhouette message = %+v, want embedded upload", sent)
	}
}

func TestGame_UploadFailureAttaches(t *testing.T) {
	f := newFixture(t, WithImageStore(&fakeImageStore{err: errors.New("denied")}))
	if _, err := f.game.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sent := f.sender.messages()[0]; len(sent.Files) != 1 {
		t.Errorf("silhouette message = %+v, want attachment", sent)
	}
}
