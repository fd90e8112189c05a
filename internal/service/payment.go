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
	"github.com/iliyamo/summer-camp/internal/payment"
	"github.com/iliyamo/summer-camp/internal/policy"
	"github.com/iliyamo/summer-camp/internal/queue"
	"github.com/iliyamo/summer-camp/internal/repository"
)

// IntentInput is the body of POST /create-payment-intent.
type IntentInput struct {
	Price    float64 `json:"price" validate:"gt=0"`
	ClassID  string  `json:"classId"`
	Currency string  `json:"currency"`
}

// PaymentInput is the body of POST /save-payment-info.
type PaymentInput struct {
	StudentEmail  string     `json:"studentEmail" validate:"required,email"`
	Price         float64    `json:"price" validate:"gte=0"`
	Date          *time.Time `json:"date"`
	TransactionID string     `json:"transactionId" validate:"required"`
	ClassID       string     `json:"classId"`
	BookingID     string     `json:"bookingId"`
	ClassName     string     `json:"className"`
}

// RecordResult reports the stored payment. Created is false when the
// transaction had already been recorded.
type RecordResult struct {
	InsertedID primitive.ObjectID `json:"insertedId"`
	Created    bool               `json:"created"`
}

// PaymentService bridges the payment gateway and the payments collection.
// Creating an intent and recording the payment are independent steps
// driven by the client.
type PaymentService struct {
	payments repository.Collection[model.PaymentRecord]
	gateway  payment.Gateway
	pub      queue.Publisher
	log      *zap.Logger
}

func NewPaymentService(payments repository.Collection[model.PaymentRecord], gw payment.Gateway, pub queue.Publisher, log *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, gateway: gw, pub: pub, log: log}
}

// CreateIntent asks the gateway for a payment intent of price dollars.
func (s *PaymentService) CreateIntent(ctx context.Context, caller policy.Caller, in IntentInput) (payment.Intent, error) {
	if err := authorize(s.log, caller, policy.CreatePaymentIntent, ""); err != nil {
		return payment.Intent{}, err
	}
	cents, err := payment.ToCents(in.Price)
	if err != nil {
		return payment.Intent{}, err
	}
	if s.gateway == nil {
		return payment.Intent{}, fmt.Errorf("%w: no gateway configured", apperr.ErrPaymentGateway)
	}
	ch := payment.Charge{
		AmountCents: cents,
		Currency:    strings.ToLower(strings.TrimSpace(in.Currency)),
		Email:       caller.Email,
	}
	if id := strings.TrimSpace(in.ClassID); id != "" {
		ch.Description = "summer camp class " + id
	}
	intent, err := s.gateway.CreateIntent(ctx, ch)
	if err != nil {
		s.log.Error("create payment intent failed",
			zap.String("provider", s.gateway.Provider()),
			zap.String("caller", caller.Email),
			zap.Int64("amount_cents", cents),
			zap.Error(err))
		return payment.Intent{}, err
	}
	return intent, nil
}

// Record persists a completed payment for the caller. Recording the same
// transactionId twice returns the first record.
func (s *PaymentService) Record(ctx context.Context, caller policy.Caller, in PaymentInput) (RecordResult, error) {
	if err := authorize(s.log, caller, policy.RecordPayment, in.StudentEmail); err != nil {
		return RecordResult{}, err
	}
	txID := strings.TrimSpace(in.TransactionID)
	if txID == "" {
		return RecordResult{}, invalid("transactionId is required")
	}
	if in.Price < 0 {
		return RecordResult{}, invalid("price must not be negative")
	}

	existing, err := s.payments.FindOne(ctx, repository.ByField("transactionId", txID))
	if err != nil {
		return RecordResult{}, err
	}
	if existing != nil {
		s.log.Info("payment already recorded", zap.String("transaction", txID))
		return RecordResult{InsertedID: existing.ID}, nil
	}

	rec := model.PaymentRecord{
		ID:            primitive.NewObjectID(),
		StudentEmail:  normalizeEmail(in.StudentEmail),
		Price:         in.Price,
		Date:          time.Now().UTC(),
		TransactionID: txID,
		ClassID:       strings.TrimSpace(in.ClassID),
		BookingID:     strings.TrimSpace(in.BookingID),
		ClassName:     in.ClassName,
	}
	if in.Date != nil && !in.Date.IsZero() {
		rec.Date = in.Date.UTC()
	}
	res, err := s.payments.Insert(ctx, &rec)
	if err != nil {
		// the charge already went through; make the loss visible
		s.log.Error("payment record not persisted",
			zap.String("transaction", txID),
			zap.String("student", rec.StudentEmail),
			zap.Error(err))
		return RecordResult{}, err
	}

	ev := queue.EnrollmentRecordedEvent{
		PaymentID:     res.InsertedID.Hex(),
		TransactionID: txID,
		StudentEmail:  rec.StudentEmail,
		ClassID:       rec.ClassID,
		BookingID:     rec.BookingID,
		Amount:        rec.Price,
		RecordedAt:    rec.Date.Format(time.RFC3339),
	}
	if err := s.pub.Publish(ctx, queue.EnrollmentRecordedQueue, ev); err != nil {
		s.log.Warn("publish enrollment recorded failed", zap.String("transaction", txID), zap.Error(err))
	}
	return RecordResult{InsertedID: res.InsertedID, Created: true}, nil
}

// Enrolled lists the payments of email, newest first.
func (s *PaymentService) Enrolled(ctx context.Context, email string) ([]model.PaymentRecord, error) {
	f, err := repository.RequireField("studentEmail", normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.payments.Find(ctx, f, repository.SortBy("date", true))
}
