package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memorySubmissionStore struct {
	submissions []Submission
	calls       int
	err         error
}

func (m *memorySubmissionStore) FindApproved(_ context.Context, start, end time.Time) ([]Submission, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Submission, 0)
	for _, sub := range m.submissions {
		if !sub.Date.Before(start) && sub.Date.Before(end) {
			out = append(out, sub)
		}
	}
	return out, nil
}

type memoryDirectory struct {
	profiles map[int64]Profile
	err      error
}

func (m *memoryDirectory) Profiles(_ context.Context, ids []int64) (map[int64]Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]Profile, len(ids))
	for _, id := range ids {
		if profile, ok := m.profiles[id]; ok {
			out[id] = profile
		}
	}
	return out, nil
}

func testCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestServiceLeaderboardEnrichesProfiles(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	store := &memorySubmissionStore{submissions: []Submission{
		{EmployeeID: 1, Date: now.Add(-time.Hour), Checks: checksFor(DefaultCheckboxFields, 12)},
		{EmployeeID: 2, Date: now.Add(-time.Hour), Checks: checksFor(DefaultCheckboxFields, 6)},
	}}
	directory := &memoryDirectory{profiles: map[int64]Profile{
		1: {Name: "Ava Stone", Email: "ava@crewdesk.test"},
	}}

	svc := NewService(store, directory, testCache(t), nil)
	svc.clock = func() time.Time { return now }

	scores, err := svc.Leaderboard(context.Background(), PeriodDaily)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	require.Equal(t, "Ava Stone", scores[0].Name)
	require.Equal(t, "ava@crewdesk.test", scores[0].Email)
	require.Empty(t, scores[1].Name)
}

func TestServiceLeaderboardCachesUntilInvalidated(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	store := &memorySubmissionStore{submissions: []Submission{
		{EmployeeID: 1, Date: now.Add(-time.Hour), Checks: checksFor(DefaultCheckboxFields, 12)},
	}}
	directory := &memoryDirectory{}

	svc := NewService(store, directory, testCache(t), nil)
	svc.clock = func() time.Time { return now }

	ctx := context.Background()
	_, err := svc.Leaderboard(ctx, PeriodDaily)
	require.NoError(t, err)
	_, err = svc.Leaderboard(ctx, PeriodDaily)
	require.NoError(t, err)
	require.Equal(t, 1, store.calls)

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Leaderboard(ctx, PeriodDaily)
	require.NoError(t, err)
	require.Equal(t, 2, store.calls)
}

func TestServiceLeaderboardSurvivesDirectoryFailure(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	store := &memorySubmissionStore{submissions: []Submission{
		{EmployeeID: 1, Date: now.Add(-time.Hour), Checks: checksFor(DefaultCheckboxFields, 9)},
	}}
	directory := &memoryDirectory{err: errors.New("directory down")}

	svc := NewService(store, directory, nil, nil)
	svc.clock = func() time.Time { return now }

	scores, err := svc.Leaderboard(context.Background(), PeriodDaily)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.InDelta(t, 75.0, scores[0].AverageScore, 1e-9)
	require.Empty(t, scores[0].Name)
}

func TestServiceLeaderboardPropagatesStoreFailure(t *testing.T) {
	store := &memorySubmissionStore{err: errors.New("db down")}
	svc := NewService(store, &memoryDirectory{}, nil, nil)

	_, err := svc.Leaderboard(context.Background(), PeriodWeekly)
	require.Error(t, err)
}

func TestServiceWarmPeriods(t *testing.T) {
	store := &memorySubmissionStore{}
	svc := NewService(store, &memoryDirectory{}, testCache(t), nil)

	require.NoError(t, svc.WarmPeriods(context.Background(), []string{"daily", "weekly", "monthly"}))
	require.Equal(t, 3, store.calls)

	require.Error(t, svc.WarmPeriods(context.Background(), []string{"yearly"}))
}
