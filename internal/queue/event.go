// Package queue defines the domain events published to the message broker
// and the publisher that delivers them.
package queue

// Queue names. Both queues are durable.
const (
	EnrollmentRecordedQueue = "enrollment.recorded"
	SeatReservedQueue       = "seat.reserved"
)

// EnrollmentRecordedEvent is published after a payment record has been
// persisted. Downstream consumers use it to clean up the student's booking
// or send a receipt; nothing in this service waits for them.
type EnrollmentRecordedEvent struct {
	PaymentID     string  `json:"payment_id"`
	TransactionID string  `json:"transaction_id"`
	StudentEmail  string  `json:"student_email"`
	ClassID       string  `json:"class_id,omitempty"`
	BookingID     string  `json:"booking_id,omitempty"`
	Amount        float64 `json:"amount"`
	RecordedAt    string  `json:"recorded_at"`
}

// SeatReservedEvent is published after a seat was taken from a listing.
type SeatReservedEvent struct {
	ClassID          string `json:"class_id"`
	StudentEmail     string `json:"student_email,omitempty"`
	AvailableSeats   int    `json:"available_seats"`
	EnrolledStudents int    `json:"enrolled_students"`
	ReservedAt       string `json:"reserved_at"`
}
