// Package qotd picks the question of the day from the stored pool, falling
// back to a remote source once the pool is empty.
package qotd

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
)

const (
	FallbackQuestion = "What is your favorite Pokémon and why?"
	OfflineQuestion  = "If you could have any Pokémon as a pet, which would you choose and why?"

	DefaultFetchAttempts = 3
)

// Store is the part of the question repository the rotator needs.
type Store interface {
	GetNextByPriority(ctx context.Context) (*models.Question, error)
	GetAll(ctx context.Context) ([]*models.Question, error)
	MarkUsed(ctx context.Context, id string, at time.Time) error
	Exists(ctx context.Context, text string) (bool, error)
	Add(ctx context.Context, text string) (*models.Question, error)
}

// Source produces one candidate question per call.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

type Origin string

const (
	OriginPool     Origin = "pool"
	OriginReused   Origin = "reused"
	OriginRemote   Origin = "remote"
	OriginFallback Origin = "fallback"
)

type Pick struct {
	Text   string
	Origin Origin
}

type Rotator struct {
	store    Store
	source   Source
	attempts int
	intn     func(n int) int
	now      func() time.Time
}

type RotatorOpt func(r *Rotator)

func WithAttempts(n int) RotatorOpt {
	return func(r *Rotator) {
		if n > 0 {
			r.attempts = n
		}
	}
}

func WithRand(intn func(n int) int) RotatorOpt {
	return func(r *Rotator) {
		r.intn = intn
	}
}

func WithClock(now func() time.Time) RotatorOpt {
	return func(r *Rotator) {
		r.now = now
	}
}

// NewRotator accepts a nil source, in which case an empty pool goes straight
// to the fallback question.
func NewRotator(store Store, source Source, opts ...RotatorOpt) *Rotator {
	r := &Rotator{
		store:    store,
		source:   source,
		attempts: DefaultFetchAttempts,
		intn:     rand.IntN,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next never fails: store and remote errors are logged and end in a
// built-in question.
func (r *Rotator) Next(ctx context.Context) Pick {
	q, err := r.store.GetNextByPriority(ctx)
	switch {
	case err == nil:
		r.markUsed(ctx, q)
		return Pick{Text: q.Text, Origin: OriginPool}
	case !errors.Is(err, database.ErrNotFound):
		logError("Failed to load next question", err)
		return Pick{Text: FallbackQuestion, Origin: OriginFallback}
	}

	all, err := r.store.GetAll(ctx)
	if err != nil {
		logError("Failed to load question pool", err)
		return Pick{Text: FallbackQuestion, Origin: OriginFallback}
	}
	if len(all) > 0 {
		q := all[r.intn(len(all))]
		r.markUsed(ctx, q)
		return Pick{Text: q.Text, Origin: OriginReused}
	}

	return r.fetchRemote(ctx)
}

func (r *Rotator) fetchRemote(ctx context.Context) Pick {
	if r.source == nil {
		return Pick{Text: FallbackQuestion, Origin: OriginFallback}
	}

	for attempt := 1; attempt <= r.attempts; attempt++ {
		text, err := r.source.Fetch(ctx)
		if err != nil {
			logError("Failed to fetch remote question", err, slog.Int("attempt", attempt))
			if errors.Is(err, ErrNoCandidates) {
				return Pick{Text: FallbackQuestion, Origin: OriginFallback}
			}
			return Pick{Text: OfflineQuestion, Origin: OriginFallback}
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		exists, err := r.store.Exists(ctx, text)
		if err != nil {
			logError("Failed to check remote question", err)
			return Pick{Text: FallbackQuestion, Origin: OriginFallback}
		}
		if exists {
			slog.Debug("Remote question already stored",
				slog.String("type", "db"),
				slog.Int("attempt", attempt))
			continue
		}

		q, err := r.store.Add(ctx, text)
		if errors.Is(err, database.ErrDuplicate) {
			continue
		}
		if err != nil {
			logError("Failed to store remote question", err)
			return Pick{Text: FallbackQuestion, Origin: OriginFallback}
		}
		r.markUsed(ctx, q)
		return Pick{Text: q.Text, Origin: OriginRemote}
	}

	return Pick{Text: FallbackQuestion, Origin: OriginFallback}
}

func (r *Rotator) markUsed(ctx context.Context, q *models.Question) {
	if err := r.store.MarkUsed(ctx, q.ID.Hex(), r.now()); err != nil {
		logError("Failed to mark question used", err, slog.String("question_id", q.ID.Hex()))
	}
}

func logError(msg string, err error, attrs ...any) {
	slog.Error(msg, append([]any{slog.String("type", "db"), slog.Any("error", err)}, attrs...)...)
}
