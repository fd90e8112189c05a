package service

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/model"
	"github.com/iliyamo/summer-camp/internal/policy"
	"github.com/iliyamo/summer-camp/internal/repository"
)

// BookingInput is the body of POST /booking-class: the selected class and
// a snapshot of its display fields.
type BookingInput struct {
	ClassID         string  `json:"classId" validate:"required"`
	StudentEmail    string  `json:"studentEmail" validate:"required,email"`
	Name            string  `json:"name"`
	Image           string  `json:"image"`
	Price           float64 `json:"price" validate:"gte=0"`
	InstructorName  string  `json:"instructorName"`
	InstructorEmail string  `json:"instructorEmail"`
}

// BookingService manages the booking-classes collection.
type BookingService struct {
	bookings repository.Collection[model.Booking]
	log      *zap.Logger
}

func NewBookingService(bookings repository.Collection[model.Booking], log *zap.Logger) *BookingService {
	return &BookingService{bookings: bookings, log: log}
}

// Create stores a booking for the calling student.
func (s *BookingService) Create(ctx context.Context, caller policy.Caller, in BookingInput) (repository.InsertResult, error) {
	classID, err := repository.ParseID(in.ClassID)
	if err != nil {
		return repository.InsertResult{}, err
	}
	if err := authorize(s.log, caller, policy.CreateBooking, in.StudentEmail); err != nil {
		return repository.InsertResult{}, err
	}
	if in.Price < 0 {
		return repository.InsertResult{}, invalid("price must not be negative")
	}
	b := model.Booking{
		ID:              primitive.NewObjectID(),
		ClassID:         classID.Hex(),
		StudentEmail:    normalizeEmail(in.StudentEmail),
		Name:            strings.TrimSpace(in.Name),
		Image:           in.Image,
		Price:           in.Price,
		InstructorName:  in.InstructorName,
		InstructorEmail: in.InstructorEmail,
	}
	return s.bookings.Insert(ctx, &b)
}

// ListByStudent returns the bookings of email; the email is required.
func (s *BookingService) ListByStudent(ctx context.Context, email string) ([]model.Booking, error) {
	f, err := repository.RequireField("studentEmail", normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.bookings.Find(ctx, f)
}

// Get fetches one booking for the payment page. Absent is (nil, nil).
func (s *BookingService) Get(ctx context.Context, rawID string) (*model.Booking, error) {
	byID, err := repository.ByID(rawID)
	if err != nil {
		return nil, err
	}
	return s.bookings.FindOne(ctx, byID)
}

// Delete removes a booking owned by the caller. Deleting a booking that is
// already gone succeeds with a zero count; one owned by another student is
// forbidden.
func (s *BookingService) Delete(ctx context.Context, caller policy.Caller, rawID string) (repository.DeleteResult, error) {
	byID, err := repository.ByID(rawID)
	if err != nil {
		return repository.DeleteResult{}, err
	}
	if err := authorize(s.log, caller, policy.DeleteBooking, caller.Email); err != nil {
		return repository.DeleteResult{}, err
	}
	res, err := s.bookings.DeleteOne(ctx, byID.And(repository.Eq("studentEmail", caller.Email)))
	if err != nil || res.DeletedCount > 0 {
		return res, err
	}
	existing, err := s.bookings.FindOne(ctx, byID)
	if err != nil {
		return repository.DeleteResult{}, err
	}
	if existing == nil {
		return res, nil
	}
	if err := authorize(s.log, caller, policy.DeleteBooking, existing.StudentEmail); err != nil {
		return repository.DeleteResult{}, err
	}
	return s.bookings.DeleteOne(ctx, byID.And(repository.Eq("studentEmail", existing.StudentEmail)))
}
