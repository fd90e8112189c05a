package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/apperr"
	"github.com/iliyamo/summer-camp/internal/model"
	"github.com/iliyamo/summer-camp/internal/policy"
	"github.com/iliyamo/summer-camp/internal/queue"
	"github.com/iliyamo/summer-camp/internal/repository"
)

// ClassInput is the body of an instructor's class submission.
type ClassInput struct {
	Name            string  `json:"name" validate:"required"`
	Image           string  `json:"image"`
	Price           float64 `json:"price" validate:"gte=0"`
	InstructorName  string  `json:"instructorName"`
	InstructorEmail string  `json:"instructorEmail" validate:"required,email"`
	AvailableSeats  int     `json:"availableSeats" validate:"gte=0"`
}

// ClassPatch carries the fields an instructor may edit. Nil fields are left
// untouched; anything else in the request body is ignored.
type ClassPatch struct {
	Name           *string  `json:"name"`
	Image          *string  `json:"image"`
	Price          *float64 `json:"price"`
	AvailableSeats *int     `json:"availableSeats"`
}

// ReviewPatch carries the fields an admin may set while reviewing.
type ReviewPatch struct {
	Status   *string `json:"status"`
	Feedback *string `json:"feedback"`
}

// SeatReservation is the outcome of a successful ReserveSeat.
type SeatReservation struct {
	Success          bool `json:"success"`
	AvailableSeats   int  `json:"availableSeats"`
	EnrolledStudents int  `json:"enrolledStudents"`
}

// ClassService manages instructor listings in the add-classes collection.
type ClassService struct {
	classes repository.Collection[model.ClassListing]
	pub     queue.Publisher
	log     *zap.Logger
}

func NewClassService(classes repository.Collection[model.ClassListing], pub queue.Publisher, log *zap.Logger) *ClassService {
	return &ClassService{classes: classes, pub: pub, log: log}
}

// ListAll returns every listing regardless of status (admin dashboard).
func (s *ClassService) ListAll(ctx context.Context) ([]model.ClassListing, error) {
	return s.classes.Find(ctx, nil)
}

// ListByInstructor returns the listings owned by email. A missing email is
// rejected instead of listing everything.
func (s *ClassService) ListByInstructor(ctx context.Context, email string) ([]model.ClassListing, error) {
	f, err := repository.RequireField("instructorEmail", normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.classes.Find(ctx, f)
}

// Create stores a new listing in pending state.
func (s *ClassService) Create(ctx context.Context, caller policy.Caller, in ClassInput) (repository.InsertResult, error) {
	if err := authorize(s.log, caller, policy.CreateClass, in.InstructorEmail); err != nil {
		return repository.InsertResult{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return repository.InsertResult{}, invalid("name is required")
	}
	if in.AvailableSeats < 0 || in.Price < 0 {
		return repository.InsertResult{}, invalid("price and availableSeats must not be negative")
	}
	listing := model.ClassListing{
		ID:              primitive.NewObjectID(),
		Name:            strings.TrimSpace(in.Name),
		Image:           in.Image,
		Price:           in.Price,
		InstructorName:  in.InstructorName,
		InstructorEmail: normalizeEmail(in.InstructorEmail),
		AvailableSeats:  in.AvailableSeats,
		Status:          model.StatusPending,
	}
	res, err := s.classes.Insert(ctx, &listing)
	if err != nil {
		return res, err
	}
	s.log.Info("class submitted", zap.String("id", res.InsertedID.Hex()), zap.String("instructor", listing.InstructorEmail))
	return res, nil
}

// Edit applies an instructor's patch to a listing they own. A listing that
// does not exist yields a zero-count result; one owned by another
// instructor is forbidden.
func (s *ClassService) Edit(ctx context.Context, caller policy.Caller, rawID string, p ClassPatch) (repository.UpdateResult, error) {
	byID, err := repository.ByID(rawID)
	if err != nil {
		return repository.UpdateResult{}, err
	}
	// role check up front; ownership is enforced by the filter below
	if err := authorize(s.log, caller, policy.EditClass, caller.Email); err != nil {
		return repository.UpdateResult{}, err
	}
	u, err := p.update()
	if err != nil {
		return repository.UpdateResult{}, err
	}

	res, err := s.classes.UpdateOne(ctx, byID.And(repository.Eq("instructorEmail", caller.Email)), u)
	if err != nil || res.MatchedCount > 0 {
		return res, err
	}
	existing, err := s.classes.FindOne(ctx, byID)
	if err != nil {
		return repository.UpdateResult{}, err
	}
	if existing == nil {
		return res, nil
	}
	if err := authorize(s.log, caller, policy.EditClass, existing.InstructorEmail); err != nil {
		return repository.UpdateResult{}, err
	}
	// stored email differs only in case
	return s.classes.UpdateOne(ctx, byID.And(repository.Eq("instructorEmail", existing.InstructorEmail)), u)
}

func (p ClassPatch) update() (*repository.Update, error) {
	u := repository.NewUpdate()
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		u.Set("name", name)
	}
	if p.Image != nil {
		u.Set("image", *p.Image)
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return nil, invalid("price must not be negative")
		}
		u.Set("price", *p.Price)
	}
	if p.AvailableSeats != nil {
		if *p.AvailableSeats < 0 {
			return nil, invalid("availableSeats must not be negative")
		}
		u.Set("availableSeats", *p.AvailableSeats)
	}
	if u.Empty() {
		return nil, invalid("nothing to update")
	}
	return u, nil
}

// Review sets status and/or feedback on any listing. Both fields go out in
// a single update.
func (s *ClassService) Review(ctx context.Context, caller policy.Caller, rawID string, p ReviewPatch) (repository.UpdateResult, error) {
	byID, err := repository.ByID(rawID)
	if err != nil {
		return repository.UpdateResult{}, err
	}
	if err := authorize(s.log, caller, policy.ReviewClass, ""); err != nil {
		return repository.UpdateResult{}, err
	}
	u := repository.NewUpdate()
	if p.Status != nil && *p.Status != "" {
		if !model.ValidStatus(*p.Status) {
			return repository.UpdateResult{}, invalid("unknown status %q", *p.Status)
		}
		u.Set("status", *p.Status)
	}
	if p.Feedback != nil && *p.Feedback != "" {
		u.Set("feedback", *p.Feedback)
	}
	if u.Empty() {
		return repository.UpdateResult{}, invalid("status or feedback is required")
	}
	return s.classes.UpdateOne(ctx, byID, u)
}

// ReserveSeat takes one seat from a listing in a single atomic
// find-and-modify conditioned on availableSeats > 0. When the update does
// not match, a follow-up read only decides which error to report; it
// never retries the write.
func (s *ClassService) ReserveSeat(ctx context.Context, caller policy.Caller, rawID string) (SeatReservation, error) {
	byID, err := repository.ByID(rawID)
	if err != nil {
		return SeatReservation{}, err
	}
	if err := authorize(s.log, caller, policy.ReserveSeat, ""); err != nil {
		return SeatReservation{}, err
	}

	u := repository.NewUpdate().Inc("availableSeats", -1).Inc("enrolledStudents", 1)
	updated, err := s.classes.FindOneAndUpdate(ctx, byID.And(repository.Gt("availableSeats", 0)), u)
	if err != nil {
		return SeatReservation{}, err
	}
	if updated == nil {
		existing, err := s.classes.FindOne(ctx, byID)
		if err != nil {
			return SeatReservation{}, err
		}
		if existing == nil {
			return SeatReservation{}, fmt.Errorf("%w: class %s", apperr.ErrNotFound, rawID)
		}
		return SeatReservation{}, fmt.Errorf("%w: class %s", apperr.ErrSeatsExhausted, rawID)
	}

	ev := queue.SeatReservedEvent{
		ClassID:          updated.ID.Hex(),
		StudentEmail:     caller.Email,
		AvailableSeats:   updated.AvailableSeats,
		EnrolledStudents: updated.EnrolledStudents,
		ReservedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.pub.Publish(ctx, queue.SeatReservedQueue, ev); err != nil {
		s.log.Warn("publish seat reserved failed", zap.String("class", ev.ClassID), zap.Error(err))
	}
	return SeatReservation{
		Success:          true,
		AvailableSeats:   updated.AvailableSeats,
		EnrolledStudents: updated.EnrolledStudents,
	}, nil
}
