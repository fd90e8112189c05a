// Package policy decides whether a caller may perform a mutating
// operation. It is a pure function of the caller's stored role, the
// operation and the email of the resource owner; it never touches the
// store itself.
package policy

import (
	"strings"

	"github.com/iliyamo/summer-camp/internal/model"
)

// Operation names a guarded action.
type Operation string

const (
	CreateClass         Operation = "create_class"
	EditClass           Operation = "edit_class"
	ReviewClass         Operation = "review_class"
	SetRole             Operation = "set_role"
	ListUsers           Operation = "list_users"
	CreateBooking       Operation = "create_booking"
	DeleteBooking       Operation = "delete_booking"
	ReserveSeat         Operation = "reserve_seat"
	CreatePaymentIntent Operation = "create_payment_intent"
	RecordPayment       Operation = "record_payment"
)

// Caller is the authenticated identity behind a request, with the role
// read from the users collection.
type Caller struct {
	Email string
	Role  string
}

// Decision is the outcome of Authorize.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

type rule struct {
	roles []string
	// owned operations also require the caller to own the resource
	owned bool
}

var table = map[Operation]rule{
	CreateClass:         {roles: []string{model.RoleInstructor}, owned: true},
	EditClass:           {roles: []string{model.RoleInstructor}, owned: true},
	ReviewClass:         {roles: []string{model.RoleAdmin}},
	SetRole:             {roles: []string{model.RoleAdmin}},
	ListUsers:           {roles: []string{model.RoleAdmin}},
	CreateBooking:       {roles: []string{model.RoleStudent}, owned: true},
	DeleteBooking:       {roles: []string{model.RoleStudent}, owned: true},
	ReserveSeat:         {roles: []string{model.RoleStudent}},
	CreatePaymentIntent: {roles: []string{model.RoleStudent}},
	RecordPayment:       {roles: []string{model.RoleStudent}, owned: true},
}

// Authorize maps (caller, operation) to allow or deny. owner is the email
// stored on the target resource (instructorEmail, studentEmail); it is
// compared case-insensitively and only for operations that require
// ownership. An unknown operation or an anonymous caller is denied.
func Authorize(c Caller, op Operation, owner string) Decision {
	r, ok := table[op]
	if !ok || strings.TrimSpace(c.Email) == "" {
		return Deny
	}
	role := c.Role
	if role == "" {
		role = model.RoleStudent
	}
	permitted := false
	for _, allowed := range r.roles {
		if role == allowed {
			permitted = true
			break
		}
	}
	if !permitted {
		return Deny
	}
	if r.owned && !sameEmail(c.Email, owner) {
		return Deny
	}
	return Allow
}

func sameEmail(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
