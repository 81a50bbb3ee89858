package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, id string, startingPoints int64) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetBalance(ctx context.Context, id string) (int64, error)
	UpdateBalance(ctx context.Context, id string, delta int64) (int64, error)
	Spend(ctx context.Context, id string, amount int64) (int64, error)
	AddWarning(ctx context.Context, id string, warning models.Warning) error
	GetWarnings(ctx context.Context, id string) ([]models.Warning, error)
	ClearWarnings(ctx context.Context, id string) (int, error)
}

type userRepository struct {
	baseRepository
	now func() time.Time
}

func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{baseRepository: newBase(db, database.CollectionUsers), now: time.Now}
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	err := r.op(ctx, "Exists", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}},
			options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})).Err()
	})
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *userRepository) Create(ctx context.Context, id string, startingPoints int64) (*models.User, error) {
	now := r.now()
	user := &models.User{
		ID:           id,
		Points:       startingPoints,
		RegisteredAt: now,
		LastActive:   now,
	}
	err := r.op(ctx, "Create", func(ctx context.Context) error {
		res, err := r.coll.InsertOne(ctx, user)
		if err == nil {
			user.ObjectID, _ = res.InsertedID.(primitive.ObjectID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	user := new(models.User)
	err := r.op(ctx, "Get", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetBalance(ctx context.Context, id string) (int64, error) {
	var doc struct {
		Points int64 `bson:"points"`
	}
	err := r.op(ctx, "GetBalance", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}},
			options.FindOne().SetProjection(bson.D{{Key: "points", Value: 1}})).Decode(&doc)
	})
	return doc.Points, err
}

// UpdateBalance applies delta and returns the balance after the change.
func (r *userRepository) UpdateBalance(ctx context.Context, id string, delta int64) (int64, error) {
	return r.applyDelta(ctx, "UpdateBalance", bson.D{{Key: "id", Value: id}}, delta)
}

// Spend only decrements when the balance covers amount, so two concurrent
// spends can never drive the balance negative.
func (r *userRepository) Spend(ctx context.Context, id string, amount int64) (int64, error) {
	filter := bson.D{
		{Key: "id", Value: id},
		{Key: "points", Value: bson.D{{Key: "$gte", Value: amount}}},
	}
	balance, err := r.applyDelta(ctx, "Spend", filter, -amount)
	if !errors.Is(err, database.ErrNotFound) {
		return balance, err
	}

	exists, existsErr := r.Exists(ctx, id)
	if existsErr != nil {
		return 0, existsErr
	}
	if exists {
		return 0, database.ErrInsufficientFunds
	}
	return 0, err
}

func (r *userRepository) applyDelta(ctx context.Context, name string, filter bson.D, delta int64) (int64, error) {
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "points", Value: delta}}},
		{Key: "$set", Value: bson.D{{Key: "lastActive", Value: r.now()}}},
	}
	user := new(models.User)
	err := r.op(ctx, name, func(ctx context.Context) error {
		return r.coll.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(user)
	})
	return user.Points, err
}

// AddWarning records a warning even for users who never registered.
func (r *userRepository) AddWarning(ctx context.Context, id string, warning models.Warning) error {
	if warning.Timestamp.IsZero() {
		warning.Timestamp = r.now()
	}
	return r.op(ctx, "AddWarning", func(ctx context.Context) error {
		_, err := r.coll.UpdateOne(ctx,
			bson.D{{Key: "id", Value: id}},
			bson.D{{Key: "$push", Value: bson.D{{Key: "warnings", Value: warning}}}},
			options.Update().SetUpsert(true))
		return err
	})
}

func (r *userRepository) GetWarnings(ctx context.Context, id string) ([]models.Warning, error) {
	user := new(models.User)
	err := r.op(ctx, "GetWarnings", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}},
			options.FindOne().SetProjection(bson.D{{Key: "warnings", Value: 1}})).Decode(user)
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user.Warnings, nil
}

// ClearWarnings returns how many warnings were removed.
func (r *userRepository) ClearWarnings(ctx context.Context, id string) (int, error) {
	before := new(models.User)
	err := r.op(ctx, "ClearWarnings", func(ctx context.Context) error {
		return r.coll.FindOneAndUpdate(ctx,
			bson.D{{Key: "id", Value: id}},
			bson.D{{Key: "$set", Value: bson.D{{Key: "warnings", Value: bson.A{}}}}},
			options.FindOneAndUpdate().SetReturnDocument(options.Before)).Decode(before)
	})
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(before.Warnings), nil
}
