package helpers

import "time"

// TestNow returns a fixed time (2026-02-11 12:00:00 UTC) for deterministic tests (session start times, queue timestamps).
func TestNow() time.Time {
	return time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
}
