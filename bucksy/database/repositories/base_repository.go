package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// defaultTimeout bounds every single repository call.
const defaultTimeout = 5 * time.Second

type baseRepository struct {
	coll *mongo.Collection
}

func newBase(db *database.DB, collection string) baseRepository {
	return baseRepository{coll: db.Collection(collection)}
}

// op runs fn with a timeout and records its duration on the db log channel.
func (b baseRepository) op(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	err := database.Translate(fn(ctx))
	logger.LogQuery(b.coll.Name(), name, time.Since(start), ignoreExpected(err))
	return err
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", database.ErrInvalidID, id)
	}
	return oid, nil
}

// ignoreExpected hides sentinel outcomes from the error log; callers still
// receive them.
func ignoreExpected(err error) error {
	if errors.Is(err, database.ErrNotFound) ||
		errors.Is(err, database.ErrDuplicate) ||
		errors.Is(err, database.ErrInsufficientFunds) {
		return nil
	}
	return err
}
