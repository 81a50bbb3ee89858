package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is one entry of the question-of-the-day pool. Lower priority is
// posted first; ties go to the oldest AddedAt.
type Question struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text     string             `bson:"text" json:"text"`
	AddedAt  time.Time          `bson:"addedAt" json:"addedAt"`
	Used     bool               `bson:"used" json:"used"`
	UsedAt   *time.Time         `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	Priority int                `bson:"priority" json:"priority"`
}

// QuestionUpdate carries the fields an admin may change; nil means untouched.
type QuestionUpdate struct {
	Text     *string `json:"text,omitempty"`
	Used     *bool   `json:"used,omitempty"`
	Priority *int    `json:"priority,omitempty"`
}

func (u QuestionUpdate) Empty() bool {
	return u.Text == nil && u.Used == nil && u.Priority == nil
}

type PriorityUpdate struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
}
