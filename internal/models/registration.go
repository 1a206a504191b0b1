package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"

	ConfirmationPending   = "pending"
	ConfirmationConfirmed = "confirmed"
)

// Registration links a participant to a camp. Payment and confirmation status
// are mutated by follow-up requests; there is no cross-document atomicity with
// the payments collection.
type Registration struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampID             primitive.ObjectID `bson:"campId" json:"campId"`
	CampName           string             `bson:"campName" json:"campName"`
	CampFees           float64            `bson:"campFees" json:"campFees"`
	ParticipantEmail   string             `bson:"participantEmail" json:"participantEmail"`
	ParticipantName    string             `bson:"participantName" json:"participantName"`
	OrganizerEmail     string             `bson:"organizerEmail" json:"organizerEmail"`
	PaymentStatus      string             `bson:"paymentStatus" json:"paymentStatus"`           // "unpaid" or "paid"
	ConfirmationStatus string             `bson:"confirmationStatus" json:"confirmationStatus"` // "pending" or "confirmed"
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}
