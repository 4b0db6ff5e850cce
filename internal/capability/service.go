package capability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/crewdesk/crewdesk/internal/shared"
)

// GrantStore persists capability grants keyed by employee.
type GrantStore interface {
	// FindByEmployee returns the grant for the employee, or shared.ErrNotFound
	// when no grant record exists.
	FindByEmployee(ctx context.Context, employeeID int64) (Grant, error)
	// Upsert replaces the grant record for the employee atomically.
	Upsert(ctx context.Context, grant Grant) (Grant, error)
	// DeleteByEmployee removes the grant record. Absence is not an error.
	DeleteByEmployee(ctx context.Context, employeeID int64) error
}

// InvalidCapabilityError reports grant requests naming identifiers outside
// the registry. The grant is never partially applied.
type InvalidCapabilityError struct {
	Names []string
}

func (e *InvalidCapabilityError) Error() string {
	return fmt.Sprintf("capability: unknown capabilities: %s", strings.Join(e.Names, ", "))
}

// Service is the single authorization entry point. Every caller, HTTP
// middleware included, goes through HasCapability so the admin bypass lives
// in exactly one place.
type Service struct {
	store   GrantStore
	logger  *slog.Logger
	metrics *Metrics
	clock   func() time.Time
}

// NewService constructs a Service.
func NewService(store GrantStore, logger *slog.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		logger:  logger,
		metrics: metrics,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// HasCapability decides whether the subject holds the capability. Admins
// implicitly hold every registered capability and never require a grant
// record. Clients always resolve to false, as do unregistered identifiers.
func (s *Service) HasCapability(ctx context.Context, sub Subject, c Capability) bool {
	allowed := s.resolve(ctx, sub, c)
	s.metrics.RecordDecision(c, allowed)
	return allowed
}

func (s *Service) resolve(ctx context.Context, sub Subject, c Capability) bool {
	if !IsValid(c) {
		return false
	}
	switch sub.Role {
	case RoleAdmin:
		return true
	case RoleEmployee:
		grant, err := s.store.FindByEmployee(ctx, sub.ID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				s.logger.Error("capability lookup", slog.Int64("employee_id", sub.ID), slog.Any("error", err))
			}
			return false
		}
		return grant.Has(c)
	default:
		return false
	}
}

// Grant replaces the target employee's capability set with the requested one.
// The grantor must be an admin or hold manage_permissions. Every requested
// identifier must be a registry member; otherwise the call fails with an
// InvalidCapabilityError naming all offenders and nothing is applied.
// manage_permissions is silently dropped from the effective set unless the
// grantor is an admin, so delegated authority cannot re-propagate it.
func (s *Service) Grant(ctx context.Context, grantor Subject, employeeID int64, requested []Capability) (Grant, error) {
	if grantor.Role != RoleAdmin && !s.HasCapability(ctx, grantor, ManagePermissions) {
		return Grant{}, shared.ErrForbidden
	}

	var invalid []string
	seen := make(map[Capability]struct{}, len(requested))
	effective := make([]Capability, 0, len(requested))
	for _, c := range requested {
		if !IsValid(c) {
			invalid = append(invalid, string(c))
			continue
		}
		if c == ManagePermissions && grantor.Role != RoleAdmin {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		effective = append(effective, c)
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return Grant{}, &InvalidCapabilityError{Names: invalid}
	}

	grant, err := s.store.Upsert(ctx, Grant{
		EmployeeID:   employeeID,
		Capabilities: effective,
		GrantedBy:    grantor.ID,
		GrantedAt:    s.clock(),
	})
	if err != nil {
		return Grant{}, err
	}
	s.logger.Info("capabilities granted",
		slog.Int64("employee_id", employeeID),
		slog.Int64("granted_by", grantor.ID),
		slog.Int("count", len(grant.Capabilities)))
	return grant, nil
}

// RevokeAll deletes the employee's grant record. Only admins may revoke.
// Revocation is idempotent: revoking an absent grant is not an error.
func (s *Service) RevokeAll(ctx context.Context, grantor Subject, employeeID int64) error {
	if grantor.Role != RoleAdmin {
		return shared.ErrForbidden
	}
	if err := s.store.DeleteByEmployee(ctx, employeeID); err != nil {
		return err
	}
	s.logger.Info("capabilities revoked",
		slog.Int64("employee_id", employeeID),
		slog.Int64("revoked_by", grantor.ID))
	return nil
}

// EffectiveGrant returns the employee's current grant, or an empty grant when
// no record exists.
func (s *Service) EffectiveGrant(ctx context.Context, employeeID int64) (Grant, error) {
	grant, err := s.store.FindByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Grant{EmployeeID: employeeID, Capabilities: []Capability{}}, nil
		}
		return Grant{}, err
	}
	return grant, nil
}
