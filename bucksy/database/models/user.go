package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleMember = ""
	RoleAdmin  = "admin"
)

type User struct {
	ObjectID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID           string             `bson:"id" json:"id"`
	Points       int64              `bson:"points" json:"points"`
	RegisteredAt time.Time          `bson:"registeredAt,omitempty" json:"registeredAt"`
	LastActive   time.Time          `bson:"lastActive,omitempty" json:"lastActive"`
	Role         string             `bson:"role,omitempty" json:"role,omitempty"`
	Username     string             `bson:"username,omitempty" json:"username,omitempty"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	Warnings     []Warning          `bson:"warnings,omitempty" json:"warnings,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Warning struct {
	Reason      string    `bson:"reason" json:"reason"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	ModeratorID string    `bson:"moderatorId" json:"moderatorId"`
}
