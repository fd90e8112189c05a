package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	instructor := Caller{Email: "teach@camp.io", Role: "instructor"}
	admin := Caller{Email: "boss@camp.io", Role: "admin"}
	student := Caller{Email: "kid@camp.io", Role: "student"}
	unset := Caller{Email: "new@camp.io"}

	cases := []struct {
		name   string
		caller Caller
		op     Operation
		owner  string
		want   Decision
	}{
		{"instructor creates own class", instructor, CreateClass, "teach@camp.io", Allow},
		{"owner match ignores case", instructor, EditClass, "Teach@Camp.io", Allow},
		{"instructor edits someone else's class", instructor, EditClass, "other@camp.io", Deny},
		{"admin cannot edit listing fields", admin, EditClass, "boss@camp.io", Deny},
		{"admin reviews any class", admin, ReviewClass, "teach@camp.io", Allow},
		{"instructor cannot review", instructor, ReviewClass, "teach@camp.io", Deny},
		{"admin sets role", admin, SetRole, "", Allow},
		{"student cannot set role", student, SetRole, "", Deny},
		{"student books for self", student, CreateBooking, "kid@camp.io", Allow},
		{"student books for another", student, CreateBooking, "other@camp.io", Deny},
		{"unset role counts as student", unset, DeleteBooking, "new@camp.io", Allow},
		{"instructor cannot book", instructor, CreateBooking, "teach@camp.io", Deny},
		{"student reserves seat", student, ReserveSeat, "", Allow},
		{"student records own payment", student, RecordPayment, "kid@camp.io", Allow},
		{"empty owner never matches", student, RecordPayment, "", Deny},
		{"anonymous caller", Caller{}, ReserveSeat, "", Deny},
		{"unknown operation", admin, Operation("drop_database"), "", Deny},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Authorize(tc.caller, tc.op, tc.owner))
		})
	}
}
