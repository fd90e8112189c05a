package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Listing review states. A listing is created as pending and only an admin
// moves it to approved or denied.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// ClassListing is a class submitted by an instructor and stored in the
// `add-classes` collection.
//
// Fields:
//
//	ID               - document id.
//	Name, Image      - display fields shown on the class cards.
//	Price            - price per seat in dollars.
//	InstructorName   - display name of the submitting instructor.
//	InstructorEmail  - owner of the listing; used for ownership checks.
//	AvailableSeats   - remaining capacity, never negative.
//	EnrolledStudents - number of confirmed seats.
//	Status           - pending, approved or denied.
//	Feedback         - optional admin feedback on the submission.
type ClassListing struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Image            string             `bson:"image" json:"image"`
	Price            float64            `bson:"price" json:"price"`
	InstructorName   string             `bson:"instructorName,omitempty" json:"instructorName,omitempty"`
	InstructorEmail  string             `bson:"instructorEmail" json:"instructorEmail"`
	AvailableSeats   int                `bson:"availableSeats" json:"availableSeats"`
	EnrolledStudents int                `bson:"enrolledStudents" json:"enrolledStudents"`
	Status           string             `bson:"status" json:"status"`
	Feedback         string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// ValidStatus reports whether s is one of the review states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied:
		return true
	}
	return false
}
