// Package apperr defines the error kinds shared by the repository, service
// and handler layers. Lower layers wrap one of the sentinels below with
// fmt.Errorf("...: %w", ...) and handlers translate the kind into an HTTP
// status with KindOf.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the machine readable error category returned to API clients.
type Kind string

const (
	KindInvalidRequest    Kind = "invalid_request"
	KindInvalidIdentifier Kind = "invalid_identifier"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindDuplicateUser     Kind = "duplicate_user"
	KindSeatsExhausted    Kind = "seats_exhausted"
	KindPaymentGateway    Kind = "payment_gateway_error"
	KindStoreUnavailable  Kind = "store_unavailable"
	KindInternal          Kind = "internal"
)

var (
	// ErrInvalidRequest signals a missing or malformed request parameter.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidIdentifier signals an id that is not a 24 character hex ObjectID.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrUnauthorized is returned when a mutating call carries no caller identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the role policy denies an operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a single document lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUser is returned by create-if-absent when the email exists.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrSeatsExhausted is returned when a listing has no seat left to reserve.
	ErrSeatsExhausted = errors.New("no seats available")
	// ErrPaymentGateway wraps any failure reported by the payment provider.
	ErrPaymentGateway = errors.New("payment gateway error")
	// ErrStoreUnavailable wraps connection level failures of the document store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

var kinds = []struct {
	err    error
	kind   Kind
	status int
}{
	{ErrInvalidRequest, KindInvalidRequest, http.StatusBadRequest},
	{ErrInvalidIdentifier, KindInvalidIdentifier, http.StatusBadRequest},
	{ErrUnauthorized, KindUnauthorized, http.StatusUnauthorized},
	{ErrForbidden, KindForbidden, http.StatusForbidden},
	{ErrNotFound, KindNotFound, http.StatusNotFound},
	{ErrDuplicateUser, KindDuplicateUser, http.StatusConflict},
	{ErrSeatsExhausted, KindSeatsExhausted, http.StatusConflict},
	{ErrPaymentGateway, KindPaymentGateway, http.StatusBadGateway},
	{ErrStoreUnavailable, KindStoreUnavailable, http.StatusServiceUnavailable},
}

// KindOf returns the kind of the first sentinel found in err's chain.
func KindOf(err error) Kind {
	kind, _ := classify(err)
	return kind
}

// Status returns the HTTP status code matching err's kind.
func Status(err error) int {
	_, status := classify(err)
	return status
}

func classify(err error) (Kind, int) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind, k.status
		}
	}
	return KindInternal, http.StatusInternalServerError
}
