package util

import "time"

// Clock returns the current time; swapped out in tests.
type Clock func() time.Time

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// MillisToDuration converts a millisecond count from env/config into a duration.
func MillisToDuration(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
