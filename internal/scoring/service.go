package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// SubmissionStore yields the approved submissions inside a period window.
type SubmissionStore interface {
	FindApproved(ctx context.Context, start, end time.Time) ([]Submission, error)
}

// Profile is the display identity attached to leaderboard rows.
type Profile struct {
	Name  string
	Email string
}

// ProfileDirectory is a read-only side lookup for display identity. It is
// never consulted for authorization decisions.
type ProfileDirectory interface {
	Profiles(ctx context.Context, ids []int64) (map[int64]Profile, error)
}

// Service computes period leaderboards over approved submissions.
type Service struct {
	store          SubmissionStore
	directory      ProfileDirectory
	cache          *Cache
	group          singleflight.Group
	checkboxFields []string
	logger         *slog.Logger
	clock          func() time.Time
}

// NewService constructs a Service. A nil cache disables caching.
func NewService(store SubmissionStore, directory ProfileDirectory, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:          store,
		directory:      directory,
		cache:          cache,
		checkboxFields: DefaultCheckboxFields,
		logger:         logger,
		clock:          time.Now,
	}
}

// Leaderboard returns the ranked employee scores for the period ending now.
// Concurrent requests for the same window collapse into one computation.
func (s *Service) Leaderboard(ctx context.Context, period Period) ([]EmployeeScore, error) {
	start, end := period.Window(s.clock())
	key, err := s.cache.BuildKey(ctx, keyLeaderboard(period, start)...)
	if err != nil {
		return nil, fmt.Errorf("scoring: build cache key: %w", err)
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var rows []EmployeeScore
		err := s.cache.FetchJSON(ctx, key, &rows, func(ctx context.Context) (interface{}, error) {
			return s.compute(ctx, start, end)
		})
		return rows, err
	})
	if err != nil {
		return nil, err
	}
	return result.([]EmployeeScore), nil
}

func (s *Service) compute(ctx context.Context, start, end time.Time) ([]EmployeeScore, error) {
	submissions, err := s.store.FindApproved(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("scoring: load approved submissions: %w", err)
	}
	rows := ComputeLeaderboard(submissions, s.checkboxFields)
	if len(rows) == 0 {
		return rows, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.EmployeeID
	}
	profiles, err := s.directory.Profiles(ctx, ids)
	if err != nil {
		// Identity is decoration; a directory hiccup should not empty the
		// leaderboard.
		s.logger.Warn("leaderboard profile lookup", slog.Any("error", err))
		return rows, nil
	}
	for i := range rows {
		if profile, ok := profiles[rows[i].EmployeeID]; ok {
			rows[i].Name = profile.Name
			rows[i].Email = profile.Email
		}
	}
	return rows, nil
}

// Invalidate drops cached leaderboards after submissions change.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// WarmPeriods precomputes the leaderboard for each period token, returning
// the first failure. Used by the background warmup job.
func (s *Service) WarmPeriods(ctx context.Context, periods []string) error {
	for _, raw := range periods {
		period, err := ParsePeriod(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		if _, err := s.Leaderboard(ctx, period); err != nil {
			return fmt.Errorf("scoring: warm %s leaderboard: %w", period, err)
		}
	}
	return nil
}
