package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentRecord is a completed transaction stored in the `payments`
// collection. Records are written once, after the gateway confirmed the
// charge, and never modified.
//
// Fields:
//
//	TransactionID    - gateway transaction reference; unique per record.
//	ClassID          - the listing that was paid for.
//	BookingID        - the booking the payment settles, if the client sent it.
//	Date             - when the payment completed; enrolled classes sort on it.
type PaymentRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	StudentEmail  string             `bson:"studentEmail" json:"studentEmail"`
	Price         float64            `bson:"price" json:"price"`
	Date          time.Time          `bson:"date" json:"date"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	ClassID       string             `bson:"classId,omitempty" json:"classId,omitempty"`
	BookingID     string             `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	ClassName     string             `bson:"className,omitempty" json:"className,omitempty"`
}
