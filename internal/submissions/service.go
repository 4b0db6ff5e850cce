package submissions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crewdesk/crewdesk/internal/scoring"
)

// Store persists daily submissions.
type Store interface {
	Create(ctx context.Context, sub DailySubmission) (DailySubmission, error)
	Get(ctx context.Context, id int64) (DailySubmission, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]DailySubmission, error)
	ListPending(ctx context.Context) ([]DailySubmission, error)
	Approve(ctx context.Context, id, reviewerID int64, adminScore *float64) (DailySubmission, error)
}

// Invalidator drops derived leaderboard caches after review decisions.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

var (
	// ErrAlreadySubmitted marks a second submission for the same day.
	ErrAlreadySubmitted = errors.New("submissions: already submitted for this date")
	// ErrInvalidScore marks a manual score outside the 0-100 scale.
	ErrInvalidScore = errors.New("submissions: admin score must be between 0 and 100")
)

const defaultListLimit = 30

// Service owns submission intake and review.
type Service struct {
	store          Store
	invalidator    Invalidator
	checkboxFields []string
	logger         *slog.Logger
	clock          func() time.Time
}

// NewService constructs a Service. A nil invalidator skips cache busting.
func NewService(store Store, invalidator Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:          store,
		invalidator:    invalidator,
		checkboxFields: scoring.DefaultCheckboxFields,
		logger:         logger,
		clock:          time.Now,
	}
}

// Submit records today's update for the employee. Unknown checkbox names are
// dropped so stale clients cannot inflate scores; missing fields count as
// unchecked.
func (s *Service) Submit(ctx context.Context, employeeID int64, checks map[string]bool, notes string) (DailySubmission, error) {
	filtered := make(map[string]bool, len(s.checkboxFields))
	for _, field := range s.checkboxFields {
		if checks[field] {
			filtered[field] = true
		}
	}
	now := s.clock()
	sub := DailySubmission{
		EmployeeID: employeeID,
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Checks:     filtered,
		Notes:      notes,
	}
	created, err := s.store.Create(ctx, sub)
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			return DailySubmission{}, err
		}
		return DailySubmission{}, fmt.Errorf("submissions: create: %w", err)
	}
	return created, nil
}

// History lists the employee's most recent submissions, newest first.
func (s *Service) History(ctx context.Context, employeeID int64) ([]DailySubmission, error) {
	return s.store.ListByEmployee(ctx, employeeID, defaultListLimit)
}

// Pending lists submissions awaiting review, oldest first.
func (s *Service) Pending(ctx context.Context) ([]DailySubmission, error) {
	return s.store.ListPending(ctx)
}

// Approve marks a submission reviewed, optionally attaching a manual score.
// Leaderboards only count approved submissions, so approval busts their cache.
func (s *Service) Approve(ctx context.Context, id, reviewerID int64, adminScore *float64) (DailySubmission, error) {
	if adminScore != nil && (*adminScore < 0 || *adminScore > 100) {
		return DailySubmission{}, ErrInvalidScore
	}
	approved, err := s.store.Approve(ctx, id, reviewerID, adminScore)
	if err != nil {
		return DailySubmission{}, err
	}
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("invalidate leaderboard cache", slog.Int64("submission_id", id), slog.Any("error", err))
		}
	}
	return approved, nil
}
