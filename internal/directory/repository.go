package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewdesk/crewdesk/internal/capability"
	"github.com/crewdesk/crewdesk/internal/checklist"
	"github.com/crewdesk/crewdesk/internal/scoring"
	"github.com/crewdesk/crewdesk/internal/shared"
)

// Repository reads profiles from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns one active or inactive profile by id.
func (r *Repository) Get(ctx context.Context, id int64) (Profile, error) {
	const query = `
		SELECT id, name, email, role, skills, is_active, created_at
		FROM users
		WHERE id = $1
	`
	var p Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.Role, &p.Skills, &p.IsActive, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, shared.ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// ListEmployees returns active employees ordered by name, for admin screens.
func (r *Repository) ListEmployees(ctx context.Context) ([]Profile, error) {
	const query = `
		SELECT id, name, email, role, skills, is_active, created_at
		FROM users
		WHERE role = 'employee' AND is_active
		ORDER BY name ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Profile, 0)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.Skills, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SubjectByUser resolves the authorization subject for a user id. Deactivated
// accounts resolve to no subject at all.
func (r *Repository) SubjectByUser(ctx context.Context, userID int64) (capability.Subject, error) {
	const query = `SELECT id, role FROM users WHERE id = $1 AND is_active`
	var sub capability.Subject
	err := r.pool.QueryRow(ctx, query, userID).Scan(&sub.ID, &sub.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return capability.Subject{}, shared.ErrNotFound
	}
	if err != nil {
		return capability.Subject{}, err
	}
	return sub, nil
}

// ChecklistEmployee loads the identity and normalized skill tags checklist
// resolution matches against.
func (r *Repository) ChecklistEmployee(ctx context.Context, userID int64) (checklist.Employee, error) {
	const query = `SELECT id, skills FROM users WHERE id = $1 AND is_active`
	var emp checklist.Employee
	var skills []string
	err := r.pool.QueryRow(ctx, query, userID).Scan(&emp.ID, &skills)
	if errors.Is(err, pgx.ErrNoRows) {
		return checklist.Employee{}, shared.ErrNotFound
	}
	if err != nil {
		return checklist.Employee{}, err
	}
	emp.Skills = checklist.NormalizeSkills(skills)
	return emp, nil
}

// Profiles resolves display identity for a set of employee ids. Missing ids
// are simply absent from the result.
func (r *Repository) Profiles(ctx context.Context, ids []int64) (map[int64]scoring.Profile, error) {
	const query = `SELECT id, name, email FROM users WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]scoring.Profile, len(ids))
	for rows.Next() {
		var id int64
		var profile scoring.Profile
		if err := rows.Scan(&id, &profile.Name, &profile.Email); err != nil {
			return nil, err
		}
		out[id] = profile
	}
	return out, rows.Err()
}

var (
	_ capability.SubjectSource = (*Repository)(nil)
	_ checklist.SkillDirectory = (*Repository)(nil)
	_ scoring.ProfileDirectory = (*Repository)(nil)
)
