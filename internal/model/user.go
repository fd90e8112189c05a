package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Platform roles. A user without a role is treated as a student.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User is a registered participant stored in the `all-users` collection.
// Email is unique across the collection; Role is empty until an admin
// assigns one.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Email string             `bson:"email" json:"email"`
	Photo string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"`
}

// ValidRole reports whether r is a role an admin may assign.
func ValidRole(r string) bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// EffectiveRole maps the unset role to student.
func (u User) EffectiveRole() string {
	if u.Role == "" {
		return RoleStudent
	}
	return u.Role
}
