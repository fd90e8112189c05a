package repository

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/summer-camp/internal/model"
)

// Collection names used by the original deployment.
const (
	PopularClassesCollection  = "all-classes"
	PopularTeachersCollection = "all-teachers"
	UsersCollection           = "all-users"
	ClassesCollection         = "add-classes"
	BookingsCollection        = "booking-classes"
	PaymentsCollection        = "payments"
)

// Collections bundles one Collection per resource.
type Collections struct {
	PopularClasses  Collection[model.PopularClass]
	PopularTeachers Collection[model.PopularTeacher]
	Users           Collection[model.User]
	Classes         Collection[model.ClassListing]
	Bookings        Collection[model.Booking]
	Payments        Collection[model.PaymentRecord]
}

// NewMongoCollections binds every resource to db.
func NewMongoCollections(db *mongo.Database) *Collections {
	return &Collections{
		PopularClasses:  NewMongoCollection[model.PopularClass](db, PopularClassesCollection),
		PopularTeachers: NewMongoCollection[model.PopularTeacher](db, PopularTeachersCollection),
		Users:           NewMongoCollection[model.User](db, UsersCollection),
		Classes:         NewMongoCollection[model.ClassListing](db, ClassesCollection),
		Bookings:        NewMongoCollection[model.Booking](db, BookingsCollection),
		Payments:        NewMongoCollection[model.PaymentRecord](db, PaymentsCollection),
	}
}

// NewMemoryCollections returns empty in-process collections.
func NewMemoryCollections() *Collections {
	return &Collections{
		PopularClasses:  NewMemoryCollection[model.PopularClass](PopularClassesCollection),
		PopularTeachers: NewMemoryCollection[model.PopularTeacher](PopularTeachersCollection),
		Users:           NewMemoryCollection[model.User](UsersCollection),
		Classes:         NewMemoryCollection[model.ClassListing](ClassesCollection),
		Bookings:        NewMemoryCollection[model.Booking](BookingsCollection),
		Payments:        NewMemoryCollection[model.PaymentRecord](PaymentsCollection),
	}
}
