package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Camp is an offered medical-camp event record.
type Camp struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampName               string             `bson:"campName" json:"campName"`
	CampFees               float64            `bson:"campFees" json:"campFees"`
	DateTime               time.Time          `bson:"dateTime" json:"dateTime"`
	Location               string             `bson:"location" json:"location"`
	HealthcareProfessional string             `bson:"healthcareProfessional" json:"healthcareProfessional"`
	Description            string             `bson:"description" json:"description"`
	OrganizerEmail         string             `bson:"organizerEmail" json:"organizerEmail"`
	Image                  string             `bson:"image,omitempty" json:"image,omitempty"`
	ParticipantCount       int                `bson:"participantCount" json:"participantCount"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}
