// Package service implements the business rules of each resource on top of
// the repository collections: ownership and role checks through the policy
// gate, field whitelists for patches, create-if-absent, the atomic seat
// reservation and the two-step payment bridge.
package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/apperr"
	"github.com/iliyamo/summer-camp/internal/payment"
	"github.com/iliyamo/summer-camp/internal/policy"
	"github.com/iliyamo/summer-camp/internal/queue"
	"github.com/iliyamo/summer-camp/internal/repository"
)

// Services groups every resource service sharing one set of collections.
type Services struct {
	Showcase *ShowcaseService
	Classes  *ClassService
	Users    *UserService
	Bookings *BookingService
	Payments *PaymentService
}

// New wires all services. pub may be nil, in which case events are dropped.
func New(cols *repository.Collections, gw payment.Gateway, pub queue.Publisher, log *zap.Logger) *Services {
	if pub == nil {
		pub = queue.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Services{
		Showcase: NewShowcaseService(cols.PopularClasses, cols.PopularTeachers),
		Classes:  NewClassService(cols.Classes, pub, log),
		Users:    NewUserService(cols.Users, log),
		Bookings: NewBookingService(cols.Bookings, log),
		Payments: NewPaymentService(cols.Payments, gw, pub, log),
	}
}

// authorize runs the policy gate and turns a deny into apperr.ErrForbidden.
func authorize(log *zap.Logger, c policy.Caller, op policy.Operation, owner string) error {
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: %s requires a signed-in user", apperr.ErrUnauthorized, op)
	}
	if policy.Authorize(c, op, owner) == policy.Deny {
		log.Warn("operation denied",
			zap.String("op", string(op)),
			zap.String("caller", c.Email),
			zap.String("role", c.Role),
			zap.String("owner", owner))
		return fmt.Errorf("%w: %s", apperr.ErrForbidden, op)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
