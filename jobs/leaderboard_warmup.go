package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/crewdesk/crewdesk/internal/jobs"
	"github.com/crewdesk/crewdesk/internal/scoring"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// LeaderboardWarmupJob precomputes period leaderboards so the first request
// after a cache bump does not pay the aggregation cost.
type LeaderboardWarmupJob struct {
	Scoring *scoring.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewLeaderboardWarmupJob wires dependencies for the warmup handler.
func NewLeaderboardWarmupJob(scoringSvc *scoring.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *LeaderboardWarmupJob {
	return &LeaderboardWarmupJob{
		Scoring: scoringSvc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes leaderboard warmup tasks.
func (j *LeaderboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Scoring == nil {
		return errors.New("leaderboard warmup: handler not configured")
	}
	var payload LeaderboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if len(payload.Periods) == 0 {
		payload.Periods = []string{"daily", "weekly", "monthly"}
	}

	tracker := j.metrics().Track(TaskLeaderboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	start := j.now()
	logger.Info("starting leaderboard warmup", slog.Any("periods", payload.Periods))

	for _, period := range payload.Periods {
		warmCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		err := j.Scoring.WarmPeriods(warmCtx, []string{period})
		cancel()
		if err != nil {
			resultErr = err
			logger.Error("warm leaderboard", slog.String("period", period), slog.Any("error", err))
			return resultErr
		}
		j.metrics().AddWarmedLeaderboards(period, 1)
	}

	logger.Info("completed leaderboard warmup",
		slog.Int("periods", len(payload.Periods)),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *LeaderboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLeaderboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskLeaderboardWarmup))
}

func (j *LeaderboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *LeaderboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
