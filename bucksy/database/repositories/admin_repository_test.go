package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestAdminRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("is admin", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch, bson.D{{Key: "id", Value: "1"}}))
		repo := NewAdminRepository(database.Wrap(mt.DB))

		got, err := repo.IsAdmin(context.Background(), "1")
		if err != nil || !got {
			t.Errorf("IsAdmin() = %v, %v; want true, nil", got, err)
		}
	})

	mt.Run("demote non admin", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewAdminRepository(database.Wrap(mt.DB))

		if err := repo.Demote(context.Background(), "1"); !errors.Is(err, database.ErrNotFound) {
			t.Errorf("Demote() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch,
			bson.D{{Key: "id", Value: "1"}, {Key: "username", Value: "ash"}, {Key: "role", Value: "admin"}},
			bson.D{{Key: "id", Value: "2"}, {Key: "username", Value: "misty"}, {Key: "role", Value: "admin"}},
		))
		repo := NewAdminRepository(database.Wrap(mt.DB))

		got, err := repo.List(context.Background())
		if err != nil || len(got) != 2 || got[1].Username != "misty" || !got[0].IsAdmin() {
			t.Errorf("List() = %+v, %v", got, err)
		}
	})

	mt.Run("find by username", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bucksy.users", mtest.FirstBatch,
			bson.D{{Key: "id", Value: "1"}, {Key: "username", Value: "ash"}, {Key: "passwordHash", Value: "$2a$hash"}, {Key: "role", Value: "admin"}},
		))
		repo := NewAdminRepository(database.Wrap(mt.DB))

		got, err := repo.FindByUsername(context.Background(), "ash")
		if err != nil || got.PasswordHash != "$2a$hash" {
			t.Errorf("FindByUsername() = %+v, %v", got, err)
		}
	})
}
