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

type ShinyRepository interface {
	Add(ctx context.Context, title, addedBy string) (*models.Shiny, error)
	Remove(ctx context.Context, title string) error
	Exists(ctx context.Context, title string) (bool, error)
	GetAll(ctx context.Context) ([]*models.Shiny, error)
}

type shinyRepository struct {
	baseRepository
}

func NewShinyRepository(db *database.DB) ShinyRepository {
	return &shinyRepository{baseRepository: newBase(db, database.CollectionShinies)}
}

func (r *shinyRepository) Add(ctx context.Context, title, addedBy string) (*models.Shiny, error) {
	shiny := &models.Shiny{Title: title, AddedAt: time.Now(), AddedBy: addedBy}
	err := r.op(ctx, "Add", func(ctx context.Context) error {
		res, err := r.coll.InsertOne(ctx, shiny)
		if err == nil {
			shiny.ID, _ = res.InsertedID.(primitive.ObjectID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return shiny, nil
}

func (r *shinyRepository) Remove(ctx context.Context, title string) error {
	return r.op(ctx, "Remove", func(ctx context.Context) error {
		res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "title", Value: title}})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

func (r *shinyRepository) Exists(ctx context.Context, title string) (bool, error) {
	err := r.op(ctx, "Exists", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.D{{Key: "title", Value: title}},
			options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})).Err()
	})
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *shinyRepository) GetAll(ctx context.Context) ([]*models.Shiny, error) {
	var shinies []*models.Shiny
	err := r.op(ctx, "GetAll", func(ctx context.Context) error {
		cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
		if err != nil {
			return err
		}
		return cur.All(ctx, &shinies)
	})
	return shinies, err
}
