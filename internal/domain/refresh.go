package domain

import "time"

// RefreshStats holds statistics about one background feed refresh run.
type RefreshStats struct {
	Channels  int
	Fetched   int
	Published int
	Errors    int
	Duration  time.Duration
}
