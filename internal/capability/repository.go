package capability

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewdesk/crewdesk/internal/shared"
)

// Repository provides PostgreSQL backed persistence for capability grants.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByEmployee fetches the grant record for an employee.
func (r *Repository) FindByEmployee(ctx context.Context, employeeID int64) (Grant, error) {
	const query = `
		SELECT employee_id, capabilities, granted_by, granted_at
		FROM capability_grants
		WHERE employee_id = $1
	`
	var grant Grant
	var caps []string
	err := r.pool.QueryRow(ctx, query, employeeID).Scan(
		&grant.EmployeeID, &caps, &grant.GrantedBy, &grant.GrantedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Grant{}, shared.ErrNotFound
		}
		return Grant{}, err
	}
	grant.Capabilities = toCapabilities(caps)
	return grant, nil
}

// Upsert replaces the grant record for the employee. The single-row insert
// gives the atomic replace the resolver relies on: readers never observe a
// capability set from one write mixed with metadata from another.
func (r *Repository) Upsert(ctx context.Context, grant Grant) (Grant, error) {
	const query = `
		INSERT INTO capability_grants (employee_id, capabilities, granted_by, granted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id) DO UPDATE
		SET capabilities = EXCLUDED.capabilities,
		    granted_by = EXCLUDED.granted_by,
		    granted_at = EXCLUDED.granted_at
		RETURNING employee_id, capabilities, granted_by, granted_at
	`
	var stored Grant
	var caps []string
	err := r.pool.QueryRow(ctx, query,
		grant.EmployeeID, toStrings(grant.Capabilities), grant.GrantedBy, grant.GrantedAt,
	).Scan(&stored.EmployeeID, &caps, &stored.GrantedBy, &stored.GrantedAt)
	if err != nil {
		return Grant{}, err
	}
	stored.Capabilities = toCapabilities(caps)
	return stored, nil
}

// DeleteByEmployee removes the grant record. Deleting a missing record is a
// no-op so revocation stays idempotent.
func (r *Repository) DeleteByEmployee(ctx context.Context, employeeID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM capability_grants WHERE employee_id = $1`, employeeID)
	return err
}

func toStrings(caps []Capability) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}

func toCapabilities(raw []string) []Capability {
	out := make([]Capability, len(raw))
	for i, s := range raw {
		out[i] = Capability(s)
	}
	return out
}

var _ GrantStore = (*Repository)(nil)
