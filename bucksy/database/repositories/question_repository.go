package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuestionRepository interface {
	Add(ctx context.Context, text string) (*models.Question, error)
	Exists(ctx context.Context, text string) (bool, error)
	GetAll(ctx context.Context) ([]*models.Question, error)
	GetNextByPriority(ctx context.Context) (*models.Question, error)
	Update(ctx context.Context, id string, update models.QuestionUpdate) (*models.Question, error)
	UpdatePriorities(ctx context.Context, updates []models.PriorityUpdate) (int64, error)
	MarkUsed(ctx context.Context, id string, at time.Time) error
	Remove(ctx context.Context, text string) error
	RemoveByID(ctx context.Context, id string) error
}

var rotationOrder = bson.D{{Key: "priority", Value: 1}, {Key: "addedAt", Value: 1}}

type questionRepository struct {
	baseRepository
	now func() time.Time
}

func NewQuestionRepository(db *database.DB) QuestionRepository {
	return &questionRepository{baseRepository: newBase(db, database.CollectionQuestions), now: time.Now}
}

// Add inserts text one priority slot after the current maximum, or at 0 for
// an empty pool. Duplicate text fails with database.ErrDuplicate.
func (r *questionRepository) Add(ctx context.Context, text string) (*models.Question, error) {
	priority, err := r.nextPriority(ctx)
	if err != nil {
		return nil, err
	}

	q := &models.Question{Text: text, AddedAt: r.now(), Priority: priority}
	err = r.op(ctx, "Add", func(ctx context.Context) error {
		res, err := r.coll.InsertOne(ctx, q)
		if err == nil {
			q.ID, _ = res.InsertedID.(primitive.ObjectID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *questionRepository) nextPriority(ctx context.Context) (int, error) {
	var top models.Question
	err := r.op(ctx, "MaxPriority", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.D{},
			options.FindOne().
				SetSort(bson.D{{Key: "priority", Value: -1}}).
				SetProjection(bson.D{{Key: "priority", Value: 1}})).Decode(&top)
	})
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return top.Priority + 1, nil
}

func (r *questionRepository) Exists(ctx context.Context, text string) (bool, error) {
	err := r.op(ctx, "Exists", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.D{{Key: "text", Value: text}},
			options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})).Err()
	})
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *questionRepository) GetAll(ctx context.Context) ([]*models.Question, error) {
	var questions []*models.Question
	err := r.op(ctx, "GetAll", func(ctx context.Context) error {
		cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(rotationOrder))
		if err != nil {
			return err
		}
		return cur.All(ctx, &questions)
	})
	return questions, err
}

// GetNextByPriority returns the lowest priority unused question, or
// database.ErrNotFound when every question has been used.
func (r *questionRepository) GetNextByPriority(ctx context.Context) (*models.Question, error) {
	q := new(models.Question)
	err := r.op(ctx, "GetNextByPriority", func(ctx context.Context) error {
		return r.coll.FindOne(ctx,
			bson.D{{Key: "used", Value: bson.D{{Key: "$ne", Value: true}}}},
			options.FindOne().SetSort(rotationOrder)).Decode(q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *questionRepository) Update(ctx context.Context, id string, update models.QuestionUpdate) (*models.Question, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, fmt.Errorf("question update has no fields")
	}

	set := bson.D{}
	unset := bson.D{}
	if update.Text != nil {
		set = append(set, bson.E{Key: "text", Value: *update.Text})
	}
	if update.Priority != nil {
		set = append(set, bson.E{Key: "priority", Value: *update.Priority})
	}
	if update.Used != nil {
		set = append(set, bson.E{Key: "used", Value: *update.Used})
		if *update.Used {
			set = append(set, bson.E{Key: "usedAt", Value: r.now()})
		} else {
			unset = append(unset, bson.E{Key: "usedAt", Value: ""})
		}
	}

	doc := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		doc = append(doc, bson.E{Key: "$unset", Value: unset})
	}

	q := new(models.Question)
	err = r.op(ctx, "Update", func(ctx context.Context) error {
		return r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, doc,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// UpdatePriorities renumbers questions in one bulk write and reports how
// many documents matched.
func (r *questionRepository) UpdatePriorities(ctx context.Context, updates []models.PriorityUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(updates))
	for _, u := range updates {
		oid, err := parseID(u.ID)
		if err != nil {
			return 0, err
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: oid}}).
			SetUpdate(bson.D{{Key: "$set", Value: bson.D{{Key: "priority", Value: u.Priority}}}}))
	}

	var matched int64
	err := r.op(ctx, "UpdatePriorities", func(ctx context.Context) error {
		res, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	return matched, err
}

func (r *questionRepository) MarkUsed(ctx context.Context, id string, at time.Time) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return r.op(ctx, "MarkUsed", func(ctx context.Context) error {
		res, err := r.coll.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: oid}},
			bson.D{{Key: "$set", Value: bson.D{{Key: "used", Value: true}, {Key: "usedAt", Value: at}}}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

func (r *questionRepository) Remove(ctx context.Context, text string) error {
	return r.remove(ctx, "Remove", bson.D{{Key: "text", Value: text}})
}

func (r *questionRepository) RemoveByID(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return r.remove(ctx, "RemoveByID", bson.D{{Key: "_id", Value: oid}})
}

func (r *questionRepository) remove(ctx context.Context, name string, filter bson.D) error {
	return r.op(ctx, name, func(ctx context.Context) error {
		res, err := r.coll.DeleteOne(ctx, filter)
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}
