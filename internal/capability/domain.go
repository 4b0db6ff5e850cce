package capability

import "time"

// Role is the coarse account role. Only admins and employees participate in
// capability checks; clients never hold capabilities.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
)

// Subject describes the authenticated actor for an authorization decision.
type Subject struct {
	ID   int64
	Role Role
}

// Grant associates an employee with their currently-effective capability set.
// At most one grant exists per employee; granting replaces the prior set.
type Grant struct {
	EmployeeID   int64        `json:"employee_id"`
	Capabilities []Capability `json:"capabilities"`
	GrantedBy    int64        `json:"granted_by"`
	GrantedAt    time.Time    `json:"granted_at"`
}

// Has reports whether the grant includes the given capability.
func (g Grant) Has(c Capability) bool {
	for _, held := range g.Capabilities {
		if held == c {
			return true
		}
	}
	return false
}
