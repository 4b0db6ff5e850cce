package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewdesk/crewdesk/internal/shared"
)

// Repository persists submissions in PostgreSQL. The
// (employee_id, submitted_on) unique index backs the one-per-day rule.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const submissionColumns = `id, employee_id, submitted_on, checks, notes, approved, admin_score, reviewed_by, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, sub DailySubmission) (DailySubmission, error) {
	checks, err := json.Marshal(sub.Checks)
	if err != nil {
		return DailySubmission{}, fmt.Errorf("submissions: encode checks: %w", err)
	}
	query := fmt.Sprintf(`
		INSERT INTO daily_submissions (employee_id, submitted_on, checks, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, submissionColumns)
	row := r.pool.QueryRow(ctx, query, sub.EmployeeID, sub.Date, checks, sub.Notes)
	created, err := scanSubmission(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return DailySubmission{}, ErrAlreadySubmitted
		}
		return DailySubmission{}, err
	}
	return created, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (DailySubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_submissions WHERE id = $1`, submissionColumns)
	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return DailySubmission{}, shared.ErrNotFound
	}
	return sub, err
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]DailySubmission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM daily_submissions
		WHERE employee_id = $1
		ORDER BY submitted_on DESC
		LIMIT $2
	`, submissionColumns)
	rows, err := r.pool.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

func (r *Repository) ListPending(ctx context.Context) ([]DailySubmission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM daily_submissions
		WHERE NOT approved
		ORDER BY submitted_on ASC, id ASC
	`, submissionColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

func (r *Repository) Approve(ctx context.Context, id, reviewerID int64, adminScore *float64) (DailySubmission, error) {
	query := fmt.Sprintf(`
		UPDATE daily_submissions
		SET approved = TRUE, reviewed_by = $2, admin_score = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, submissionColumns)
	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, id, reviewerID, adminScore))
	if errors.Is(err, pgx.ErrNoRows) {
		return DailySubmission{}, shared.ErrNotFound
	}
	return sub, err
}

func scanSubmission(row pgx.Row) (DailySubmission, error) {
	var sub DailySubmission
	var checks []byte
	err := row.Scan(
		&sub.ID,
		&sub.EmployeeID,
		&sub.Date,
		&checks,
		&sub.Notes,
		&sub.Approved,
		&sub.AdminScore,
		&sub.ReviewedBy,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return DailySubmission{}, err
	}
	if len(checks) > 0 {
		if err := json.Unmarshal(checks, &sub.Checks); err != nil {
			return DailySubmission{}, fmt.Errorf("submissions: decode checks for %d: %w", sub.ID, err)
		}
	}
	return sub, nil
}

func collectSubmissions(rows pgx.Rows) ([]DailySubmission, error) {
	out := make([]DailySubmission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Store = (*Repository)(nil)
