package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldRun(t *testing.T) {
	at := func(month time.Month, day, hour int) time.Time {
		return time.Date(2025, month, day, hour, 15, 0, 0, eastern)
	}

	require.True(t, ShouldRun(at(time.June, 10, 5), ""))
	require.True(t, ShouldRun(at(time.June, 10, 6), "2025-06-09"))
	require.False(t, ShouldRun(at(time.June, 10, 5), "2025-06-10"), "already ran today")
	require.False(t, ShouldRun(at(time.June, 10, 4), ""))
	require.False(t, ShouldRun(at(time.June, 10, 7), ""))

	require.False(t, ShouldRun(at(time.March, 19, 5), ""))
	require.True(t, ShouldRun(at(time.March, 20, 5), ""))
	require.True(t, ShouldRun(at(time.November, 5, 5), ""))
	require.False(t, ShouldRun(at(time.November, 6, 5), ""))
	require.False(t, ShouldRun(at(time.January, 15, 5), ""))

	// 10:15 UTC is 6:15 EDT
	require.True(t, ShouldRun(time.Date(2025, 7, 1, 10, 15, 0, 0, time.UTC), ""))
}
