package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentRecordPending   = "pending"
	PaymentRecordCompleted = "completed"
)

// Payment records a confirmed external charge. Follow-up status patches are
// matched on RegistrationID, not on the payment's own _id.
type Payment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RegistrationID   primitive.ObjectID `bson:"registrationId" json:"registrationId"`
	CampName         string             `bson:"campName" json:"campName"`
	ParticipantEmail string             `bson:"participantEmail" json:"participantEmail"`
	Amount           float64            `bson:"amount" json:"amount"`
	Currency         string             `bson:"currency" json:"currency"`
	TransactionID    string             `bson:"transactionId" json:"transactionId"`
	Status           string             `bson:"status" json:"status"` // "pending" or "completed"
	PaidAt           time.Time          `bson:"paidAt" json:"paidAt"`
}
