package checklist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewdesk/crewdesk/internal/shared"
)

// uniqueViolation is the PostgreSQL error code raised by the partial unique
// index that keeps at most one global definition live.
const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for checklist
// definitions.
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{pool: pool, logger: logger}
}

// ListByType returns definitions of one tier ordered by creation time
// ascending. Rows whose item payload cannot be decoded are skipped and
// logged so one malformed admin-entered record cannot block resolution for
// every employee.
func (r *Repository) ListByType(ctx context.Context, t SourceType) ([]Definition, error) {
	const query = `
		SELECT id, type, name, skills, employee_ids, employee_id, items, created_at, updated_at
		FROM checklist_definitions
		WHERE type = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, string(t))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := make([]Definition, 0)
	for rows.Next() {
		def, err := r.scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		items, err := DecodeItems(def.rawItems)
		if err != nil {
			r.logger.Warn("skip malformed checklist definition",
				slog.Int64("id", def.Definition.ID), slog.Any("error", err))
			continue
		}
		def.Definition.Items = items
		defs = append(defs, def.Definition)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}

// Get fetches a definition by id.
func (r *Repository) Get(ctx context.Context, id int64) (Definition, error) {
	const query = `
		SELECT id, type, name, skills, employee_ids, employee_id, items, created_at, updated_at
		FROM checklist_definitions
		WHERE id = $1
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return Definition{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Definition{}, err
		}
		return Definition{}, shared.ErrNotFound
	}
	def, err := r.scanDefinition(rows)
	if err != nil {
		return Definition{}, err
	}
	items, err := DecodeItems(def.rawItems)
	if err != nil {
		return Definition{}, err
	}
	def.Definition.Items = items
	return def.Definition, nil
}

// Create inserts a definition. A second global definition trips the partial
// unique index and surfaces as ErrGlobalExists.
func (r *Repository) Create(ctx context.Context, def Definition) (Definition, error) {
	items, err := EncodeItems(def.Items)
	if err != nil {
		return Definition{}, err
	}
	const query = `
		INSERT INTO checklist_definitions (type, name, skills, employee_ids, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, created_at, updated_at
	`
	now := time.Now().UTC()
	err = r.pool.QueryRow(ctx, query,
		string(def.Type), def.Name, def.Skills, def.EmployeeIDs, items, now,
	).Scan(&def.ID, &def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		return Definition{}, mapWriteError(err)
	}
	return def, nil
}

// Update replaces an existing definition in place.
func (r *Repository) Update(ctx context.Context, def Definition) (Definition, error) {
	items, err := EncodeItems(def.Items)
	if err != nil {
		return Definition{}, err
	}
	const query = `
		UPDATE checklist_definitions
		SET type = $2, name = $3, skills = $4, employee_ids = $5, items = $6, updated_at = $7
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		def.ID, string(def.Type), def.Name, def.Skills, def.EmployeeIDs, items, time.Now().UTC(),
	).Scan(&def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Definition{}, shared.ErrNotFound
		}
		return Definition{}, mapWriteError(err)
	}
	return def, nil
}

// Delete removes a definition by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM checklist_definitions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type scannedDefinition struct {
	Definition Definition
	rawItems   []byte
}

// scanDefinition reads one row, folding the legacy single employee_id column
// into the employee id set so old custom overrides keep binding.
func (r *Repository) scanDefinition(rows pgx.Rows) (scannedDefinition, error) {
	var def Definition
	var raw []byte
	var legacyEmployeeID *int64
	err := rows.Scan(
		&def.ID, &def.Type, &def.Name, &def.Skills, &def.EmployeeIDs,
		&legacyEmployeeID, &raw, &def.CreatedAt, &def.UpdatedAt,
	)
	if err != nil {
		return scannedDefinition{}, err
	}
	if legacyEmployeeID != nil && !containsID(def.EmployeeIDs, *legacyEmployeeID) {
		def.EmployeeIDs = append(def.EmployeeIDs, *legacyEmployeeID)
	}
	return scannedDefinition{Definition: def, rawItems: raw}, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrGlobalExists
	}
	return err
}

var _ Store = (*Repository)(nil)
