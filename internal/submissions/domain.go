package submissions

import "time"

// DailySubmission is one employee's end-of-day update. Checks are the named
// behavioral checkboxes; AdminScore is set during review and stays nil until
// then.
type DailySubmission struct {
	ID         int64           `json:"id"`
	EmployeeID int64           `json:"employee_id"`
	Date       time.Time       `json:"date"`
	Checks     map[string]bool `json:"checks"`
	Notes      string          `json:"notes,omitempty"`
	Approved   bool            `json:"approved"`
	AdminScore *float64        `json:"admin_score,omitempty"`
	ReviewedBy *int64          `json:"reviewed_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
