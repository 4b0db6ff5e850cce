package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		raw     string
		want    Period
		wantErr bool
	}{
		{raw: "daily", want: PeriodDaily},
		{raw: "weekly", want: PeriodWeekly},
		{raw: "monthly", want: PeriodMonthly},
		{raw: "", want: PeriodWeekly},
		{raw: "quarterly", wantErr: true},
		{raw: "Daily", wantErr: true},
	}
	for _, tc := range cases {
		period, err := ParsePeriod(tc.raw)
		if tc.wantErr {
			require.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.want, period)
	}
}

func TestPeriodWindow(t *testing.T) {
	// Wednesday afternoon.
	now := time.Date(2026, 8, 26, 15, 30, 45, 0, time.UTC)

	start, end := PeriodDaily.Window(now)
	require.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, now, end)

	start, end = PeriodWeekly.Window(now)
	require.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, now, end)

	start, end = PeriodMonthly.Window(now)
	require.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, now, end)
}

func TestPeriodWindowWeeklyOnSunday(t *testing.T) {
	// A Sunday maps onto itself, not the previous week.
	now := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	start, _ := PeriodWeekly.Window(now)
	require.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), start)
}
