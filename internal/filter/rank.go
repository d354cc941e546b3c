package filter

import (
	"fmt"
	"sort"

	"github.com/pfrederiksen/vax-slots/internal/location"
)

// Ranking is the presentable view of one cycle's changes
type Ranking struct {
	// Locations are the allow-listed changes, fewest available times first
	Locations []location.Location `json:"locations"`

	// FilteredOut counts changes dropped because their region is not allow-listed
	FilteredOut int `json:"filtered_out"`

	// Candidate is the first entry of Locations, nil when there is none
	Candidate *location.Location `json:"candidate,omitempty"`
}

// Rank sorts changed by availability, ascending, and keeps only allow-listed regions.
// Ties keep their input order. changed itself is not modified.
func Rank(changed []location.Location, allow *AllowList) Ranking {
	sorted := make([]location.Location, len(changed))
	copy(sorted, changed)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Available < sorted[j].Available
	})

	kept := make([]location.Location, 0, len(sorted))
	for _, loc := range sorted {
		if allow.Allows(loc.Region) {
			kept = append(kept, loc)
		}
	}

	ranking := Ranking{
		Locations:   kept,
		FilteredOut: len(sorted) - len(kept),
	}
	if len(kept) > 0 {
		candidate := kept[0]
		ranking.Candidate = &candidate
	}

	return ranking
}

// FilteredMessage describes how many changes were filtered out.
// It returns an empty string when n is zero.
func FilteredMessage(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "Filtered 1 location."
	default:
		return fmt.Sprintf("Filtered %d locations.", n)
	}
}
