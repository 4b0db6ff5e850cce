package scoring

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads approved submissions from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindApproved returns admin-approved submissions whose date falls inside
// [start, end).
func (r *Repository) FindApproved(ctx context.Context, start, end time.Time) ([]Submission, error) {
	const query = `
		SELECT employee_id, submitted_on, checks, admin_score
		FROM daily_submissions
		WHERE approved
		  AND submitted_on >= $1
		  AND submitted_on < $2
		ORDER BY submitted_on ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]Submission, 0)
	for rows.Next() {
		var sub Submission
		var checks []byte
		if err := rows.Scan(&sub.EmployeeID, &sub.Date, &checks, &sub.AdminScore); err != nil {
			return nil, err
		}
		if len(checks) > 0 {
			if err := json.Unmarshal(checks, &sub.Checks); err != nil {
				return nil, err
			}
		}
		submissions = append(submissions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}

var _ SubmissionStore = (*Repository)(nil)
