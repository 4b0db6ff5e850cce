package capability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/shared"
)

type memoryGrantStore struct {
	grants map[int64]Grant
}

func newMemoryGrantStore() *memoryGrantStore {
	return &memoryGrantStore{grants: make(map[int64]Grant)}
}

func (s *memoryGrantStore) FindByEmployee(ctx context.Context, employeeID int64) (Grant, error) {
	grant, ok := s.grants[employeeID]
	if !ok {
		return Grant{}, shared.ErrNotFound
	}
	return grant, nil
}

func (s *memoryGrantStore) Upsert(ctx context.Context, grant Grant) (Grant, error) {
	s.grants[grant.EmployeeID] = grant
	return grant, nil
}

func (s *memoryGrantStore) DeleteByEmployee(ctx context.Context, employeeID int64) error {
	delete(s.grants, employeeID)
	return nil
}

func newTestService(store GrantStore) *Service {
	svc := NewService(store, nil, nil)
	svc.clock = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAdminHoldsEveryCapabilityWithoutGrant(t *testing.T) {
	svc := newTestService(newMemoryGrantStore())
	admin := Subject{ID: 1, Role: RoleAdmin}
	for _, c := range All() {
		require.True(t, svc.HasCapability(context.Background(), admin, c))
	}
}

func TestClientNeverHoldsCapabilities(t *testing.T) {
	store := newMemoryGrantStore()
	store.grants[7] = Grant{EmployeeID: 7, Capabilities: []Capability{ManageProjects}}
	svc := newTestService(store)
	client := Subject{ID: 7, Role: RoleClient}
	for _, c := range All() {
		require.False(t, svc.HasCapability(context.Background(), client, c))
	}
}

func TestEmployeeCapabilityResolution(t *testing.T) {
	store := newMemoryGrantStore()
	store.grants[5] = Grant{EmployeeID: 5, Capabilities: []Capability{ManageProjects, ViewLeaderboard}}
	svc := newTestService(store)
	emp := Subject{ID: 5, Role: RoleEmployee}

	require.True(t, svc.HasCapability(context.Background(), emp, ManageProjects))
	require.False(t, svc.HasCapability(context.Background(), emp, ManageEmployees))
	require.False(t, svc.HasCapability(context.Background(), emp, "not_in_registry"))

	// No grant record resolves to no capabilities, not an error.
	other := Subject{ID: 99, Role: RoleEmployee}
	require.False(t, svc.HasCapability(context.Background(), other, ManageProjects))
}

func TestGrantReplacesPriorSet(t *testing.T) {
	store := newMemoryGrantStore()
	svc := newTestService(store)
	admin := Subject{ID: 1, Role: RoleAdmin}

	_, err := svc.Grant(context.Background(), admin, 5, []Capability{ManageProjects, AssignProjects})
	require.NoError(t, err)

	grant, err := svc.Grant(context.Background(), admin, 5, []Capability{ViewLeaderboard})
	require.NoError(t, err)
	require.Equal(t, []Capability{ViewLeaderboard}, grant.Capabilities)

	stored, err := store.FindByEmployee(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, []Capability{ViewLeaderboard}, stored.Capabilities)
}

func TestGrantRejectsUnknownCapabilities(t *testing.T) {
	store := newMemoryGrantStore()
	svc := newTestService(store)
	admin := Subject{ID: 1, Role: RoleAdmin}

	_, err := svc.Grant(context.Background(), admin, 5, []Capability{ManageProjects, "frobnicate", "teleport"})
	var invalid *InvalidCapabilityError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, []string{"frobnicate", "teleport"}, invalid.Names)

	// Nothing applied.
	_, err = store.FindByEmployee(context.Background(), 5)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestNonAdminCannotPropagateManagePermissions(t *testing.T) {
	store := newMemoryGrantStore()
	store.grants[2] = Grant{EmployeeID: 2, Capabilities: []Capability{ManagePermissions}}
	svc := newTestService(store)
	delegate := Subject{ID: 2, Role: RoleEmployee}

	grant, err := svc.Grant(context.Background(), delegate, 5, []Capability{ManageProjects, ManagePermissions})
	require.NoError(t, err, "escalation attempt filters silently, it does not error")
	require.Equal(t, []Capability{ManageProjects}, grant.Capabilities)
	require.False(t, grant.Has(ManagePermissions))
}

func TestAdminMayGrantManagePermissions(t *testing.T) {
	svc := newTestService(newMemoryGrantStore())
	admin := Subject{ID: 1, Role: RoleAdmin}

	grant, err := svc.Grant(context.Background(), admin, 5, []Capability{ManagePermissions})
	require.NoError(t, err)
	require.True(t, grant.Has(ManagePermissions))
}

func TestGrantRequiresAuthority(t *testing.T) {
	svc := newTestService(newMemoryGrantStore())
	nobody := Subject{ID: 3, Role: RoleEmployee}

	_, err := svc.Grant(context.Background(), nobody, 5, []Capability{ManageProjects})
	require.ErrorIs(t, err, shared.ErrForbidden)

	client := Subject{ID: 4, Role: RoleClient}
	_, err = svc.Grant(context.Background(), client, 5, []Capability{ManageProjects})
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestRevokeAllIsIdempotent(t *testing.T) {
	store := newMemoryGrantStore()
	store.grants[5] = Grant{EmployeeID: 5, Capabilities: []Capability{ManageProjects}}
	svc := newTestService(store)
	admin := Subject{ID: 1, Role: RoleAdmin}

	require.NoError(t, svc.RevokeAll(context.Background(), admin, 5))
	require.NoError(t, svc.RevokeAll(context.Background(), admin, 5))
	_, err := store.FindByEmployee(context.Background(), 5)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRevokeAllRequiresAdmin(t *testing.T) {
	store := newMemoryGrantStore()
	store.grants[2] = Grant{EmployeeID: 2, Capabilities: []Capability{ManagePermissions}}
	store.grants[5] = Grant{EmployeeID: 5, Capabilities: []Capability{ManageProjects}}
	svc := newTestService(store)

	delegate := Subject{ID: 2, Role: RoleEmployee}
	err := svc.RevokeAll(context.Background(), delegate, 5)
	require.ErrorIs(t, err, shared.ErrForbidden)

	stored, err := store.FindByEmployee(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, stored.Has(ManageProjects))
}

func TestEffectiveGrantForMissingRecord(t *testing.T) {
	svc := newTestService(newMemoryGrantStore())
	grant, err := svc.EffectiveGrant(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), grant.EmployeeID)
	require.Empty(t, grant.Capabilities)
}

func TestGrantDeduplicatesRequestedSet(t *testing.T) {
	svc := newTestService(newMemoryGrantStore())
	admin := Subject{ID: 1, Role: RoleAdmin}
	grant, err := svc.Grant(context.Background(), admin, 5, []Capability{ManageProjects, ManageProjects, ViewLeaderboard})
	require.NoError(t, err)
	require.Equal(t, []Capability{ManageProjects, ViewLeaderboard}, grant.Capabilities)
}

type failingGrantStore struct{}

func (failingGrantStore) FindByEmployee(context.Context, int64) (Grant, error) {
	return Grant{}, errors.New("boom")
}
func (failingGrantStore) Upsert(context.Context, Grant) (Grant, error) {
	return Grant{}, errors.New("boom")
}
func (failingGrantStore) DeleteByEmployee(context.Context, int64) error {
	return errors.New("boom")
}

func TestStoreFailureDeniesEmployee(t *testing.T) {
	svc := newTestService(failingGrantStore{})
	emp := Subject{ID: 5, Role: RoleEmployee}
	require.False(t, svc.HasCapability(context.Background(), emp, ManageProjects))
}
