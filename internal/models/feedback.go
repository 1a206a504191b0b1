package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is an append-only entry a participant leaves for a camp.
type Feedback struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampID           primitive.ObjectID `bson:"campId" json:"campId"`
	CampName         string             `bson:"campName" json:"campName"`
	ParticipantEmail string             `bson:"participantEmail" json:"participantEmail"`
	ParticipantName  string             `bson:"participantName" json:"participantName"`
	Rating           int                `bson:"rating" json:"rating"`
	Feedback         string             `bson:"feedback" json:"feedback"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
