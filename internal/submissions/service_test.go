package submissions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/shared"
)

type memoryStore struct {
	nextID int64
	items  map[int64]DailySubmission
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1, items: map[int64]DailySubmission{}}
}

func (m *memoryStore) Create(_ context.Context, sub DailySubmission) (DailySubmission, error) {
	key := sub.Date.Format("2006-01-02")
	for _, existing := range m.items {
		if existing.EmployeeID == sub.EmployeeID && existing.Date.Format("2006-01-02") == key {
			return DailySubmission{}, ErrAlreadySubmitted
		}
	}
	sub.ID = m.nextID
	m.nextID++
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	m.items[sub.ID] = sub
	return sub, nil
}

func (m *memoryStore) Get(_ context.Context, id int64) (DailySubmission, error) {
	sub, ok := m.items[id]
	if !ok {
		return DailySubmission{}, shared.ErrNotFound
	}
	return sub, nil
}

func (m *memoryStore) ListByEmployee(_ context.Context, employeeID int64, limit int) ([]DailySubmission, error) {
	out := make([]DailySubmission, 0)
	for _, sub := range m.items {
		if sub.EmployeeID == employeeID && len(out) < limit {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *memoryStore) ListPending(_ context.Context) ([]DailySubmission, error) {
	out := make([]DailySubmission, 0)
	for _, sub := range m.items {
		if !sub.Approved {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *memoryStore) Approve(_ context.Context, id, reviewerID int64, adminScore *float64) (DailySubmission, error) {
	sub, ok := m.items[id]
	if !ok {
		return DailySubmission{}, shared.ErrNotFound
	}
	sub.Approved = true
	sub.ReviewedBy = &reviewerID
	sub.AdminScore = adminScore
	m.items[id] = sub
	return sub, nil
}

type countingInvalidator struct {
	calls int
	err   error
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return c.err
}

func TestSubmitFiltersUnknownChecks(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil, nil)

	created, err := svc.Submit(context.Background(), 1, map[string]bool{
		"on_time":     true,
		"full_day":    false,
		"made_coffee": true,
	}, "wrapped up the sprint board")
	require.NoError(t, err)
	require.True(t, created.Checks["on_time"])
	require.NotContains(t, created.Checks, "made_coffee")
	require.NotContains(t, created.Checks, "full_day")
	require.False(t, created.Approved)
}

func TestSubmitTruncatesDateToMidnight(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil, nil)
	svc.clock = func() time.Time {
		return time.Date(2026, 8, 26, 17, 45, 0, 0, time.UTC)
	}

	created, err := svc.Submit(context.Background(), 1, nil, "")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), created.Date)
}

func TestSubmitRejectsSecondDailySubmission(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil, nil)

	_, err := svc.Submit(context.Background(), 1, nil, "")
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), 1, nil, "")
	require.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestApproveValidatesScoreRange(t *testing.T) {
	store := newMemoryStore()
	inv := &countingInvalidator{}
	svc := NewService(store, inv, nil)

	created, err := svc.Submit(context.Background(), 1, nil, "")
	require.NoError(t, err)

	bad := 101.0
	_, err = svc.Approve(context.Background(), created.ID, 9, &bad)
	require.ErrorIs(t, err, ErrInvalidScore)
	require.Zero(t, inv.calls)

	negative := -1.0
	_, err = svc.Approve(context.Background(), created.ID, 9, &negative)
	require.ErrorIs(t, err, ErrInvalidScore)
}

func TestApproveBustsLeaderboardCache(t *testing.T) {
	store := newMemoryStore()
	inv := &countingInvalidator{}
	svc := NewService(store, inv, nil)

	created, err := svc.Submit(context.Background(), 1, nil, "")
	require.NoError(t, err)

	score := 88.0
	approved, err := svc.Approve(context.Background(), created.ID, 9, &score)
	require.NoError(t, err)
	require.True(t, approved.Approved)
	require.Equal(t, int64(9), *approved.ReviewedBy)
	require.Equal(t, 88.0, *approved.AdminScore)
	require.Equal(t, 1, inv.calls)
}

func TestApproveSucceedsWhenInvalidationFails(t *testing.T) {
	store := newMemoryStore()
	inv := &countingInvalidator{err: errors.New("redis down")}
	svc := NewService(store, inv, nil)

	created, err := svc.Submit(context.Background(), 1, nil, "")
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), created.ID, 9, nil)
	require.NoError(t, err)
	require.True(t, approved.Approved)
}

func TestApproveMissingSubmission(t *testing.T) {
	svc := NewService(newMemoryStore(), nil, nil)
	_, err := svc.Approve(context.Background(), 404, 9, nil)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
