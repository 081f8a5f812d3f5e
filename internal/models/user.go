package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies which variant of the user record a document represents.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleProfessor Role = "PROFESSOR"
	RoleStudent   Role = "STUDENT"
	RoleTutor     Role = "TUTOR"
	RoleAssistant Role = "ASSISTANT"
)

// Valid reports whether the role is one of the five known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent, RoleTutor, RoleAssistant:
		return true
	}
	return false
}

// Authority returns the authority name carried in access tokens for this role.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// User is the users-collection document. All five role variants live in one
// collection; the role field discriminates and the optional slices below are
// populated per variant.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Surname      string             `bson:"surname" json:"surname"`
	Email        string             `bson:"email" json:"email"`
	DNI          string             `bson:"dni" json:"dni"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`

	// Admin
	Comments string `bson:"comments,omitempty" json:"comments,omitempty"`

	// Student
	EnrolledCourseIDs StringList `bson:"enrolledCourseIds,omitempty" json:"enrolledCourseIds,omitempty"`

	// Professor / Assistant
	CourseIDs StringList `bson:"courseIds,omitempty" json:"courseIds,omitempty"`

	// Professor / Tutor
	StudentIDs StringList `bson:"studentIds,omitempty" json:"studentIds,omitempty"`

	// Tutor
	TutoredSubjects StringList `bson:"tutoredSubjects,omitempty" json:"tutoredSubjects,omitempty"`

	// Assistant
	Duties StringList `bson:"duties,omitempty" json:"duties,omitempty"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time `bson:"modifiedAt" json:"modifiedAt"`
}

// Authorities returns the authority list embedded in access tokens issued for
// this user, order preserved.
func (u *User) Authorities() []string {
	return []string{u.Role.Authority()}
}
