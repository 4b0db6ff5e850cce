package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrInvalidDefinition indicates a definition that violates its tier
	// invariant on write.
	ErrInvalidDefinition = errors.New("checklist: invalid definition")
	// ErrGlobalExists indicates a second global definition was submitted while
	// one is already live. The single-global invariant is enforced at write
	// time, never papered over with a read-time tie-break.
	ErrGlobalExists = errors.New("checklist: a global definition already exists")
)

// Store persists checklist definitions.
type Store interface {
	// ListByType returns definitions of one tier ordered by creation time
	// ascending, so "first configured rule wins" is a stable property.
	ListByType(ctx context.Context, t SourceType) ([]Definition, error)
	Get(ctx context.Context, id int64) (Definition, error)
	Create(ctx context.Context, def Definition) (Definition, error)
	Update(ctx context.Context, def Definition) (Definition, error)
	Delete(ctx context.Context, id int64) error
}

// Service resolves the applicable checklist for an employee and manages
// definitions.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Resolve selects the single applicable definition for the employee with
// strict precedence: custom, then skill, then global. The first matching tier
// is authoritative; tiers are never merged, so a per-employee override can
// fully replace (and thereby simplify) what would otherwise apply. Absence of
// any definition is a valid result with SourceNone, not an error.
func (s *Service) Resolve(ctx context.Context, emp Employee) (Resolution, error) {
	custom, err := s.store.ListByType(ctx, SourceCustom)
	if err != nil {
		return Resolution{}, fmt.Errorf("checklist: list custom definitions: %w", err)
	}
	for _, def := range custom {
		// An override whose employee set was cleared no longer binds anyone
		// and falls through to the lower tiers.
		if len(def.EmployeeIDs) == 0 {
			continue
		}
		if containsID(def.EmployeeIDs, emp.ID) {
			return buildResolution(def, SourceCustom), nil
		}
	}

	if skills := NormalizeSkills(emp.Skills); len(skills) > 0 {
		defs, err := s.store.ListByType(ctx, SourceSkill)
		if err != nil {
			return Resolution{}, fmt.Errorf("checklist: list skill definitions: %w", err)
		}
		for _, def := range defs {
			configSkills := NormalizeSkills(def.Skills)
			if len(configSkills) == 0 {
				continue
			}
			if skillsOverlap(skills, configSkills) {
				return buildResolution(def, SourceSkill), nil
			}
		}
	}

	globals, err := s.store.ListByType(ctx, SourceGlobal)
	if err != nil {
		return Resolution{}, fmt.Errorf("checklist: list global definitions: %w", err)
	}
	if len(globals) > 0 {
		return buildResolution(globals[0], SourceGlobal), nil
	}

	return Resolution{Source: SourceNone, Items: []ResolvedItem{}}, nil
}

// skillsOverlap applies the deliberately permissive fuzzy match: any employee
// skill and any configured skill that are substring-related in either
// direction count as a hit.
func skillsOverlap(employeeSkills, configSkills []string) bool {
	for _, emp := range employeeSkills {
		for _, cfg := range configSkills {
			if strings.Contains(emp, cfg) || strings.Contains(cfg, emp) {
				return true
			}
		}
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func buildResolution(def Definition, source SourceType) Resolution {
	items := make([]ResolvedItem, 0, len(def.Items))
	for _, item := range def.Items {
		items = append(items, ResolvedItem{
			Label:       item.Label,
			Source:      source,
			BonusPoints: item.BonusPoints,
			FinePoints:  item.FinePoints,
			BonusAmount: item.BonusAmount,
			FineAmount:  item.FineAmount,
		})
	}
	return Resolution{
		Source:       source,
		DefinitionID: def.ID,
		Name:         def.Name,
		Items:        items,
	}
}

// Create validates the tier invariant and persists a new definition.
func (s *Service) Create(ctx context.Context, def Definition) (Definition, error) {
	if err := validateDefinition(def); err != nil {
		return Definition{}, err
	}
	created, err := s.store.Create(ctx, def)
	if err != nil {
		return Definition{}, err
	}
	s.logger.Info("checklist definition created",
		slog.Int64("id", created.ID), slog.String("type", string(created.Type)))
	return created, nil
}

// Update validates the tier invariant and replaces an existing definition.
func (s *Service) Update(ctx context.Context, def Definition) (Definition, error) {
	if err := validateDefinition(def); err != nil {
		return Definition{}, err
	}
	return s.store.Update(ctx, def)
}

// Delete removes a definition by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Get fetches a single definition.
func (s *Service) Get(ctx context.Context, id int64) (Definition, error) {
	return s.store.Get(ctx, id)
}

// List returns all definitions of one tier, or all tiers when t is empty.
func (s *Service) List(ctx context.Context, t SourceType) ([]Definition, error) {
	if t != "" {
		return s.store.ListByType(ctx, t)
	}
	out := make([]Definition, 0)
	for _, tier := range []SourceType{SourceCustom, SourceSkill, SourceGlobal} {
		defs, err := s.store.ListByType(ctx, tier)
		if err != nil {
			return nil, err
		}
		out = append(out, defs...)
	}
	return out, nil
}

func validateDefinition(def Definition) error {
	switch def.Type {
	case SourceCustom:
		if len(def.Skills) > 0 {
			return fmt.Errorf("%w: custom definition must not carry skills", ErrInvalidDefinition)
		}
	case SourceSkill:
		if len(def.EmployeeIDs) > 0 {
			return fmt.Errorf("%w: skill definition must not carry employee ids", ErrInvalidDefinition)
		}
		if len(NormalizeSkills(def.Skills)) == 0 {
			return fmt.Errorf("%w: skill definition requires at least one skill", ErrInvalidDefinition)
		}
	case SourceGlobal:
		if len(def.Skills) > 0 || len(def.EmployeeIDs) > 0 {
			return fmt.Errorf("%w: global definition must not target skills or employees", ErrInvalidDefinition)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDefinition, def.Type)
	}
	return nil
}
