package scoring

import (
	"fmt"
	"time"
)

// Period selects the submission window a leaderboard aggregates over.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod validates a period token from the request layer.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return Period(raw), nil
	case "":
		return PeriodWeekly, nil
	default:
		return "", fmt.Errorf("scoring: unknown period %q", raw)
	}
}

// Window returns the half-open interval [start, now) for the period. Starts
// are truncated to local midnight: today for daily, the most recent Sunday
// for weekly, the first of the month for monthly.
func (p Period) Window(now time.Time) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch p {
	case PeriodDaily:
		return midnight, now
	case PeriodWeekly:
		return midnight.AddDate(0, 0, -int(midnight.Weekday())), now
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	default:
		return midnight, now
	}
}
