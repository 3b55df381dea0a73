package match

import (
	"github.com/sv4u/musicmatch/match/library"
	"github.com/sv4u/musicmatch/match/logging"
)

// SearchResult partitions one collection's tracks after a search pass. Every
// track lands in exactly one of the three buckets.
type SearchResult struct {
	Collection string
	Matched    []*library.Track
	Unmatched  []*library.Track
	Skipped    []*library.Track
}

// Counts returns the tallies for logging and reporting.
func (r *SearchResult) Counts() logging.ResultCounts {
	return logging.ResultCounts{
		Matched:   len(r.Matched),
		Unmatched: len(r.Unmatched),
		Skipped:   len(r.Skipped),
		Total:     len(r.Matched) + len(r.Unmatched) + len(r.Skipped),
	}
}

// AggregateCounts sums the tallies across all collections of a search run.
func AggregateCounts(results map[string]*SearchResult) logging.ResultCounts {
	total := logging.ResultCounts{}
	for _, r := range results {
		counts := r.Counts()
		total.Matched += counts.Matched
		total.Unmatched += counts.Unmatched
		total.Skipped += counts.Skipped
		total.Total += counts.Total
	}
	return total
}
