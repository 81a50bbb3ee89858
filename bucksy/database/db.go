package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultConnTimeout   = 10 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

const (
	CollectionUsers     = "users"
	CollectionQuestions = "questions"
	CollectionShinies   = "shinies"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)

type DBConfig struct {
	URI      string
	Database string
	PoolSize int
}

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(defaultConnTimeout).
		SetServerSelectionTimeout(defaultConnTimeout).
		SetAppName("bucksy")
	if cfg.PoolSize > 0 {
		opts.SetMaxPoolSize(uint64(cfg.PoolSize))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	for i := 0; i < defaultMaxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err == nil {
			break
		}
		slog.Warn("Database ping failed, retrying",
			slog.String("type", "db"),
			slog.Int("attempt", i+1),
			slog.Any("error", err))
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

// Wrap uses an existing database handle, mostly for tests.
func Wrap(db *mongo.Database) *DB {
	return &DB{client: db.Client(), db: db}
}

func (d *DB) Database() *mongo.Database {
	return d.db
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the repositories rely on for
// duplicate detection.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("id_unique")},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName("username").SetSparse(true)},
		},
		CollectionShinies: {
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true).SetName("title_unique")},
		},
		CollectionQuestions: {
			{Keys: bson.D{{Key: "text", Value: 1}}, Options: options.Index().SetUnique(true).SetName("text_unique")},
			{Keys: bson.D{{Key: "used", Value: 1}, {Key: "priority", Value: 1}, {Key: "addedAt", Value: 1}}, Options: options.Index().SetName("rotation")},
		},
	}

	for collection, models := range indexes {
		start := time.Now()
		names, err := d.db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		slog.Info("Indexes ensured",
			slog.String("type", "db"),
			slog.String("collection", collection),
			slog.Any("indexes", names),
			slog.Duration("took", time.Since(start)))
	}
	return nil
}

// Translate maps driver errors onto the package sentinels.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

var (
	ErrInsufficientFunds = errors.New("insufficient points")
	ErrInvalidID         = errors.New("invalid document id")
)
