package library

import (
	"sort"
	"strings"
	"time"
)

// Collection is a group of local tracks that is searched either as a single
// unit (a proper album) or item by item (a compilation or loose grouping).
type Collection struct {
	Name   string
	Tracks []*Track
}

// Artist returns the most common track artist in the collection. Ties go to
// the artist seen first in track order.
func (c *Collection) Artist() string {
	counts := make(map[string]int)
	order := make([]string, 0, len(c.Tracks))
	for _, t := range c.Tracks {
		key := strings.ToLower(strings.TrimSpace(t.Artist))
		if key == "" {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}
	if len(order) == 0 {
		return ""
	}

	best := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[best] {
			best = key
		}
	}

	// Return the original casing of the first track carrying the winner
	for _, t := range c.Tracks {
		if strings.ToLower(strings.TrimSpace(t.Artist)) == best {
			return strings.TrimSpace(t.Artist)
		}
	}
	return ""
}

// Compilation reports whether the collection should be treated as a loose
// grouping rather than a searchable album unit. A collection is a
// compilation when more than half its tracks carry the compilation flag, or
// when no single artist accounts for more than half the tracks.
func (c *Collection) Compilation() bool {
	if len(c.Tracks) == 0 {
		return false
	}

	flagged := 0
	counts := make(map[string]int)
	for _, t := range c.Tracks {
		if t.Compilation {
			flagged++
		}
		key := strings.ToLower(strings.TrimSpace(t.Artist))
		if key != "" {
			counts[key]++
		}
	}
	if flagged*2 > len(c.Tracks) {
		return true
	}

	most := 0
	for _, n := range counts {
		if n > most {
			most = n
		}
	}
	return most*2 <= len(c.Tracks)
}

// Length returns the summed duration of all tracks.
func (c *Collection) Length() time.Duration {
	var total time.Duration
	for _, t := range c.Tracks {
		total += t.Length
	}
	return total
}

// Year returns the most common track year, or 0 when untagged.
func (c *Collection) Year() int {
	counts := make(map[int]int)
	for _, t := range c.Tracks {
		if t.Year > 0 {
			counts[t.Year]++
		}
	}
	best, bestN := 0, 0
	for year, n := range counts {
		if n > bestN || (n == bestN && year < best) {
			best, bestN = year, n
		}
	}
	return best
}

// SortTracks orders tracks by disc then track number, leaving untagged
// tracks in their current relative position at the end.
func (c *Collection) SortTracks() {
	sort.SliceStable(c.Tracks, func(i, j int) bool {
		a, b := c.Tracks[i], c.Tracks[j]
		if a.TrackNumber == 0 || b.TrackNumber == 0 {
			return b.TrackNumber == 0 && a.TrackNumber != 0
		}
		if a.DiscNumber != b.DiscNumber {
			return a.DiscNumber < b.DiscNumber
		}
		return a.TrackNumber < b.TrackNumber
	})
}
