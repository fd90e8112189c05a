package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// PopularClass is a read-only projection from the `all-classes`
// collection. It is seeded outside this service and ranked by
// EnrolledStudents on the home page.
type PopularClass struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Image            string             `bson:"image" json:"image"`
	Instructor       string             `bson:"instructor,omitempty" json:"instructor,omitempty"`
	Price            float64            `bson:"price,omitempty" json:"price,omitempty"`
	AvailableSeats   int                `bson:"availableSeats,omitempty" json:"availableSeats,omitempty"`
	EnrolledStudents int                `bson:"enrolledStudents" json:"enrolledStudents"`
}

// PopularTeacher is the read-only counterpart for the `all-teachers`
// collection.
type PopularTeacher struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Image            string             `bson:"image" json:"image"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	Classes          []string           `bson:"classes,omitempty" json:"classes,omitempty"`
	EnrolledStudents int                `bson:"enrolledStudents" json:"enrolledStudents"`
}
