package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Shiny struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	AddedAt time.Time          `bson:"addedAt" json:"addedAt"`
	AddedBy string             `bson:"addedBy,omitempty" json:"addedBy,omitempty"`
}
