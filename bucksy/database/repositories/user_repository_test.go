package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func userDoc(id string, points int64) bson.D {
	return bson.D{{Key: "id", Value: id}, {Key: "points", Value: points}}
}

func TestUserRepository_Exists(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	tests := []struct {
		name     string
		response bson.D
		want     bool
	}{
		{"registered", mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch, userDoc("1", 10)), true},
		{"unknown", mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch), false},
	}
	for _, tt := range tests {
		mt.Run(tt.name, func(mt *mtest.T) {
			mt.AddMockResponses(tt.response)
			repo := NewUserRepository(database.Wrap(mt.DB))

			got, err := repo.Exists(context.Background(), "1")
			if err != nil {
				t.Fatalf("Exists() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Exists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("new user gets starting points", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(database.Wrap(mt.DB))

		user, err := repo.Create(context.Background(), "1", 10)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if user.Points != 10 || user.ID != "1" || user.RegisteredAt.IsZero() {
			t.Errorf("Create() = %+v", user)
		}
	})

	mt.Run("duplicate id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}))
		repo := NewUserRepository(database.Wrap(mt.DB))

		_, err := repo.Create(context.Background(), "1", 10)
		if !errors.Is(err, database.ErrDuplicate) {
			t.Errorf("Create() error = %v, want ErrDuplicate", err)
		}
	})
}

func TestUserRepository_GetBalance(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("registered", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch, userDoc("1", 42)))
		repo := NewUserRepository(database.Wrap(mt.DB))

		got, err := repo.GetBalance(context.Background(), "1")
		if err != nil || got != 42 {
			t.Errorf("GetBalance() = %d, %v; want 42, nil", got, err)
		}
	})

	mt.Run("unknown", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch))
		repo := NewUserRepository(database.Wrap(mt.DB))

		if _, err := repo.GetBalance(context.Background(), "1"); !errors.Is(err, database.ErrNotFound) {
			t.Errorf("GetBalance() error = %v, want ErrNotFound", err)
		}
	})
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns new balance", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc("1", 60)}))
		repo := NewUserRepository(database.Wrap(mt.DB))

		got, err := repo.UpdateBalance(context.Background(), "1", 50)
		if err != nil || got != 60 {
			t.Errorf("UpdateBalance() = %d, %v; want 60, nil", got, err)
		}
	})
}

func TestUserRepository_Spend(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("covered", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc("1", 5)}))
		repo := NewUserRepository(database.Wrap(mt.DB))

		got, err := repo.Spend(context.Background(), "1", 5)
		if err != nil || got != 5 {
			t.Errorf("Spend() = %d, %v; want 5, nil", got, err)
		}
	})

	mt.Run("insufficient", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch, userDoc("1", 3)),
		)
		repo := NewUserRepository(database.Wrap(mt.DB))

		if _, err := repo.Spend(context.Background(), "1", 5); !errors.Is(err, database.ErrInsufficientFunds) {
			t.Errorf("Spend() error = %v, want ErrInsufficientFunds", err)
		}
	})

	mt.Run("unregistered", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch),
		)
		repo := NewUserRepository(database.Wrap(mt.DB))

		if _, err := repo.Spend(context.Background(), "1", 5); !errors.Is(err, database.ErrNotFound) {
			t.Errorf("Spend() error = %v, want ErrNotFound", err)
		}
	})
}

func TestUserRepository_Warnings(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get", func(mt *mtest.T) {
		doc := bson.D{
			{Key: "id", Value: "1"},
			{Key: "warnings", Value: bson.A{
				bson.D{{Key: "reason", Value: "spam"}, {Key: "moderatorId", Value: "9"}},
				bson.D{{Key: "reason", Value: "caps"}, {Key: "moderatorId", Value: "9"}},
			}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch, doc))
		repo := NewUserRepository(database.Wrap(mt.DB))

		got, err := repo.GetWarnings(context.Background(), "1")
		if err != nil || len(got) != 2 || got[0].Reason != "spam" {
			t.Errorf("GetWarnings() = %+v, %v", got, err)
		}
	})

	mt.Run("get unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch))
		repo := NewUserRepository(database.Wrap(mt.DB))

		got, err := repo.GetWarnings(context.Background(), "1")
		if err != nil || len(got) != 0 {
			t.Errorf("GetWarnings() = %+v, %v; want empty, nil", got, err)
		}
	})

	mt.Run("clear reports count", func(mt *mtest.T) {
		before := bson.D{
			{Key: "id", Value: "1"},
			{Key: "warnings", Value: bson.A{bson.D{{Key: "reason", Value: "spam"}}}},
		}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: before}))
		repo := NewUserRepository(database.Wrap(mt.DB))

		got, err := repo.ClearWarnings(context.Background(), "1")
		if err != nil || got != 1 {
			t.Errorf("ClearWarnings() = %d, %v; want 1, nil", got, err)
		}
	})
}
