package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminRepository manages the admin role on user documents. Accounts that
// can log into the admin API also carry a username and bcrypt hash.
type AdminRepository interface {
	IsAdmin(ctx context.Context, id string) (bool, error)
	Promote(ctx context.Context, id, username string) error
	Demote(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.User, error)
	SetCredentials(ctx context.Context, id, username, passwordHash string) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type adminRepository struct {
	baseRepository
}

func NewAdminRepository(db *database.DB) AdminRepository {
	return &adminRepository{baseRepository: newBase(db, database.CollectionUsers)}
}

func (r *adminRepository) IsAdmin(ctx context.Context, id string) (bool, error) {
	err := r.op(ctx, "IsAdmin", func(ctx context.Context) error {
		return r.coll.FindOne(ctx,
			bson.D{{Key: "id", Value: id}, {Key: "role", Value: models.RoleAdmin}},
			options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})).Err()
	})
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *adminRepository) Promote(ctx context.Context, id, username string) error {
	return r.op(ctx, "Promote", func(ctx context.Context) error {
		_, err := r.coll.UpdateOne(ctx,
			bson.D{{Key: "id", Value: id}},
			bson.D{
				{Key: "$set", Value: bson.D{{Key: "role", Value: models.RoleAdmin}, {Key: "username", Value: username}}},
				{Key: "$setOnInsert", Value: bson.D{{Key: "points", Value: 0}, {Key: "registeredAt", Value: time.Now()}}},
			},
			options.Update().SetUpsert(true))
		return err
	})
}

// Demote fails with database.ErrNotFound when id was not an admin.
func (r *adminRepository) Demote(ctx context.Context, id string) error {
	return r.op(ctx, "Demote", func(ctx context.Context) error {
		res, err := r.coll.UpdateOne(ctx,
			bson.D{{Key: "id", Value: id}, {Key: "role", Value: models.RoleAdmin}},
			bson.D{{Key: "$unset", Value: bson.D{{Key: "role", Value: ""}, {Key: "passwordHash", Value: ""}}}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

func (r *adminRepository) List(ctx context.Context) ([]*models.User, error) {
	var admins []*models.User
	err := r.op(ctx, "List", func(ctx context.Context) error {
		cur, err := r.coll.Find(ctx,
			bson.D{{Key: "role", Value: models.RoleAdmin}},
			options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
		if err != nil {
			return err
		}
		return cur.All(ctx, &admins)
	})
	return admins, err
}

func (r *adminRepository) SetCredentials(ctx context.Context, id, username, passwordHash string) error {
	return r.op(ctx, "SetCredentials", func(ctx context.Context) error {
		_, err := r.coll.UpdateOne(ctx,
			bson.D{{Key: "id", Value: id}},
			bson.D{
				{Key: "$set", Value: bson.D{
					{Key: "role", Value: models.RoleAdmin},
					{Key: "username", Value: username},
					{Key: "passwordHash", Value: passwordHash},
				}},
				{Key: "$setOnInsert", Value: bson.D{{Key: "points", Value: 0}, {Key: "registeredAt", Value: time.Now()}}},
			},
			options.Update().SetUpsert(true))
		return err
	})
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := r.op(ctx, "FindByUsername", func(ctx context.Context) error {
		return r.coll.FindOne(ctx,
			bson.D{{Key: "username", Value: username}, {Key: "role", Value: models.RoleAdmin}}).Decode(user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
