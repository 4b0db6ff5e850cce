package auth

import (
	"time"

	"github.com/crewdesk/crewdesk/internal/capability"
)

// User represents an authenticated account.
type User struct {
	ID           int64
	Name         string
	Email        string
	Role         capability.Role
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Subject converts the user to an authorization subject.
func (u *User) Subject() capability.Subject {
	return capability.Subject{ID: u.ID, Role: u.Role}
}
