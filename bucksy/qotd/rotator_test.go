package qotd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"github.com/bucksy-bot/bucksy/bucksy/database/repositories/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type fakeSource struct {
	texts []string
	err   error
	calls int
}

func (s *fakeSource) Fetch(context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.texts) == 0 {
		return "", ErrNoCandidates
	}
	text := s.texts[0]
	if len(s.texts) > 1 {
		s.texts = s.texts[1:]
	}
	return text, nil
}

func question(text string, priority int) *models.Question {
	return &models.Question{ID: primitive.NewObjectID(), Text: text, Priority: priority}
}

func TestRotator_Next(t *testing.T) {
	a := question("A?", 1)
	b := question("B?", 0)
	c := question("C?", 0)

	tests := []struct {
		name       string
		source     *fakeSource
		setup      func(store *mock.MockQuestionRepository)
		wantText   string
		wantOrigin Origin
	}{
		{
			name:   "lowest priority unused question",
			source: &fakeSource{},
			setup: func(store *mock.MockQuestionRepository) {
				store.EXPECT().GetNextByPriority(gomock.Any()).Return(b, nil)
				store.EXPECT().MarkUsed(gomock.Any(), b.ID.Hex(), gomock.Any()).Return(nil)
			},
			wantText:   "B?",
			wantOrigin: OriginPool,
		},
		{
			name:   "exhausted pool reuses a stored question",
			source: &fakeSource{},
			setup: func(store *mock.MockQuestionRepository) {
				store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound)
				store.EXPECT().GetAll(gomock.Any()).Return([]*models.Question{b, a}, nil)
				store.EXPECT().MarkUsed(gomock.Any(), a.ID.Hex(), gomock.Any()).Return(nil)
			},
			wantText:   "A?",
			wantOrigin: OriginReused,
		},
		{
			name:   "empty pool inserts remote question",
			source: &fakeSource{texts: []string{"C?"}},
			setup: func(store *mock.MockQuestionRepository) {
				store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound)
				store.EXPECT().GetAll(gomock.Any()).Return(nil, nil)
				store.EXPECT().Exists(gomock.Any(), "C?").Return(false, nil)
				store.EXPECT().Add(gomock.Any(), "C?").Return(c, nil)
				store.EXPECT().MarkUsed(gomock.Any(), c.ID.Hex(), gomock.Any()).Return(nil)
			},
			wantText:   "C?",
			wantOrigin: OriginRemote,
		},
		{
			name:   "only duplicates falls back without inserting",
			source: &fakeSource{texts: []string{"C?"}},
			setup: func(store *mock.MockQuestionRepository) {
				store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound)
				store.EXPECT().GetAll(gomock.Any()).Return(nil, nil)
				store.EXPECT().Exists(gomock.Any(), "C?").Return(true, nil).Times(DefaultFetchAttempts)
				store.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)
			},
			wantText:   FallbackQuestion,
			wantOrigin: OriginFallback,
		},
		{
			name:   "source offline",
			source: &fakeSource{err: errors.New("dial tcp: timeout")},
			setup: func(store *mock.MockQuestionRepository) {
				store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound)
				store.EXPECT().GetAll(gomock.Any()).Return(nil, nil)
			},
			wantText:   OfflineQuestion,
			wantOrigin: OriginFallback,
		},
		{
			name:   "source without candidates",
			source: &fakeSource{},
			setup: func(store *mock.MockQuestionRepository) {
				store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound)
				store.EXPECT().GetAll(gomock.Any()).Return(nil, nil)
			},
			wantText:   FallbackQuestion,
			wantOrigin: OriginFallback,
		},
		{
			name:   "store unavailable",
			source: &fakeSource{texts: []string{"C?"}},
			setup: func(store *mock.MockQuestionRepository) {
				store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrInvalidID)
			},
			wantText:   FallbackQuestion,
			wantOrigin: OriginFallback,
		},
		{
			name:   "insert failure falls back",
			source: &fakeSource{texts: []string{"C?"}},
			setup: func(store *mock.MockQuestionRepository) {
				store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound)
				store.EXPECT().GetAll(gomock.Any()).Return(nil, nil)
				store.EXPECT().Exists(gomock.Any(), "C?").Return(false, nil)
				store.EXPECT().Add(gomock.Any(), "C?").Return(nil, errors.New("write concern"))
			},
			wantText:   FallbackQuestion,
			wantOrigin: OriginFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock.NewMockQuestionRepository(gomock.NewController(t))
			tt.setup(store)
			r := NewRotator(store, tt.source, WithRand(func(n int) int { return n - 1 }))

			got := r.Next(context.Background())
			if got.Text != tt.wantText || got.Origin != tt.wantOrigin {
				t.Errorf("Next() = %+v, want {%s %s}", got, tt.wantText, tt.wantOrigin)
			}
		})
	}
}

func TestRotator_DuplicateThenFresh(t *testing.T) {
	store := mock.NewMockQuestionRepository(gomock.NewController(t))
	source := &fakeSource{texts: []string{"Old?", "New?"}}
	fresh := question("New?", 0)

	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	gomock.InOrder(
		store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound),
		store.EXPECT().GetAll(gomock.Any()).Return(nil, nil),
		store.EXPECT().Exists(gomock.Any(), "Old?").Return(true, nil),
		store.EXPECT().Exists(gomock.Any(), "New?").Return(false, nil),
		store.EXPECT().Add(gomock.Any(), "New?").Return(fresh, nil),
		store.EXPECT().MarkUsed(gomock.Any(), fresh.ID.Hex(), at).Return(nil),
	)

	r := NewRotator(store, source, WithClock(func() time.Time { return at }))
	got := r.Next(context.Background())
	if got.Text != "New?" || got.Origin != OriginRemote {
		t.Errorf("Next() = %+v, want New? from remote", got)
	}
	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2", source.calls)
	}
}

func TestRotator_TwoQuestionPool(t *testing.T) {
	store := mock.NewMockQuestionRepository(gomock.NewController(t))
	a := question("A?", 1)
	b := question("B?", 0)

	gomock.InOrder(
		store.EXPECT().GetNextByPriority(gomock.Any()).Return(b, nil),
		store.EXPECT().MarkUsed(gomock.Any(), b.ID.Hex(), gomock.Any()).Return(nil),
		store.EXPECT().GetNextByPriority(gomock.Any()).Return(a, nil),
		store.EXPECT().MarkUsed(gomock.Any(), a.ID.Hex(), gomock.Any()).Return(nil),
		store.EXPECT().GetNextByPriority(gomock.Any()).Return(nil, database.ErrNotFound),
		store.EXPECT().GetAll(gomock.Any()).Return([]*models.Question{b, a}, nil),
		store.EXPECT().MarkUsed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	r := NewRotator(store, nil)
	ctx := context.Background()
	if got := r.Next(ctx).Text; got != "B?" {
		t.Fatalf("first Next() = %q, want B?", got)
	}
	if got := r.Next(ctx).Text; got != "A?" {
		t.Fatalf("second Next() = %q, want A?", got)
	}
	third := r.Next(ctx)
	if third.Origin != OriginReused || (third.Text != "A?" && third.Text != "B?") {
		t.Errorf("third Next() = %+v, want a reused pool question", third)
	}
}
