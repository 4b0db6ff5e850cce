package scoring

import "time"

// Submission is one employee's approved daily update. Checks holds the named
// checkbox fields; AdminScore is the reviewer's optional manual score on the
// 0-100 scale.
type Submission struct {
	EmployeeID int64
	Date       time.Time
	Checks     map[string]bool
	AdminScore *float64
}

// EmployeeScore is a derived leaderboard row. Computed fresh per query,
// never persisted.
type EmployeeScore struct {
	EmployeeID      int64   `json:"employee_id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	TotalScore      float64 `json:"total_score"`
	SubmissionCount int     `json:"submission_count"`
	AverageScore    float64 `json:"average_score"`
	Rank            int     `json:"rank"`
}

// DefaultCheckboxFields are the behavioral fields counted toward the daily
// score.
var DefaultCheckboxFields = []string{
	"on_time",
	"full_day",
	"standup_attended",
	"tasks_updated",
	"blockers_reported",
	"priorities_set",
	"client_updates_sent",
	"documentation_updated",
	"peer_review_done",
	"goals_met",
	"timesheet_submitted",
	"tools_logged_off",
}
