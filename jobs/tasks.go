package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLeaderboardWarmup is the task type for precomputing leaderboards.
	TaskLeaderboardWarmup = "scoring:leaderboard_warmup"
)

// LeaderboardWarmupPayload selects the leaderboard periods to precompute.
// Empty means all periods.
type LeaderboardWarmupPayload struct {
	Periods []string `json:"periods"`
}

// NewLeaderboardWarmupTask constructs an Asynq task.
func NewLeaderboardWarmupTask(payload LeaderboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeaderboardWarmup, data), nil
}
