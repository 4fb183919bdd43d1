package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownRole = errors.New("unknown role")

// Role is a closed enum. Every policy decision switches on it exhaustively,
// so adding a role forces each decision point to be revisited.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleInstructor:
		return RoleInstructor, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", ErrUnknownRole
	}
}

type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	PassHash  []byte
	FirstName string
	LastName  string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Identity is the authenticated caller. Role always comes from the stored
// user record, never from a client-supplied claim.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

type FailedLogin struct {
	Attempts    int
	FirstFail   time.Time
	LockedUntil time.Time
}

type UserEvent struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     Role
}
