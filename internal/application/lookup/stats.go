package lookup

import "time"

type Attempt struct {
	Source string
	Ms     float64
	Hit    bool
}

type LookupStats struct {
	// Source is the name of the source that produced the user.
	Source     string
	Attempts   []Attempt
	Backfilled []string
	BackfillMs float64
}

func convertToMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
