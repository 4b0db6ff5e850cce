// Package directory is the read side of the user base. Other modules depend
// on small interfaces; this package implements them all against the users
// table so identity is joined in one place.
package directory

import "time"

// Profile is a user as the rest of the platform sees them.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Skills    []string  `json:"skills,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
