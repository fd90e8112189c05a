package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Booking is a student's selection of a class before payment, stored in
// the `booking-classes` collection. The class fields are a snapshot taken
// when the student selected the class so the payment page can render
// without another lookup.
type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ClassID         string             `bson:"classId" json:"classId"`
	StudentEmail    string             `bson:"studentEmail" json:"studentEmail"`
	Name            string             `bson:"name,omitempty" json:"name,omitempty"`
	Image           string             `bson:"image,omitempty" json:"image,omitempty"`
	Price           float64            `bson:"price" json:"price"`
	InstructorName  string             `bson:"instructorName,omitempty" json:"instructorName,omitempty"`
	InstructorEmail string             `bson:"instructorEmail,omitempty" json:"instructorEmail,omitempty"`
}
