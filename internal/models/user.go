package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
)

// User matches the document in the users collection. A user is created on
// first sign-in via an upsert keyed by email; the role of an existing record
// is never overwritten by a later upsert.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Role      string             `bson:"role" json:"role"` // "organizer", "participant" or ""
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Password  string             `bson:"password,omitempty" json:"-"` // bcrypt hash, seeded admin only
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
