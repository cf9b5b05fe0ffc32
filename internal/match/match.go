package match

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// PlaceholderTeam is shown for a side the source has not announced yet.
	PlaceholderTeam = "TBA"

	// DefaultBestOf is the canonical fallback when the source omits or
	// garbles the match format descriptor.
	DefaultBestOf = 1

	// DefaultLimit is the maximum number of matches included in a report.
	DefaultLimit = 5
)

// Record represents one upcoming match extracted from the schedule page.
// Records are immutable after extraction.
type Record struct {
	StartTime time.Time `json:"start_time"`
	Event     string    `json:"event"`
	Stars     int       `json:"stars"`
	Team1     string    `json:"team1"`
	Team2     string    `json:"team2"`
	BestOf    int       `json:"best_of"`
}

// Date returns the calendar date the match starts on, the grouping key
// used by report layout.
func (r Record) Date() string {
	return r.StartTime.Format("2006-01-02")
}

// Select sorts records chronologically and truncates to limit. The sort is
// stable, so matches starting at the same time keep their extraction order.
// The input slice is not modified. A negative limit means no truncation.
func Select(records []Record, limit int) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ParseBestOf extracts the game count from a free-text format descriptor
// such as "bo3", "BO5" or "Best of 3". It returns DefaultBestOf when the
// descriptor is empty or carries no usable number.
func ParseBestOf(s string) int {
	s = strings.TrimSpace(s)

	// First run of digits in the descriptor is the game count.
	start, end := -1, -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			end = i + 1
		} else if start >= 0 {
			break
		}
	}
	if start < 0 {
		return DefaultBestOf
	}

	n, err := strconv.Atoi(s[start:end])
	if err != nil || n < 1 {
		return DefaultBestOf
	}
	return n
}
