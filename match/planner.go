package match

import (
	"context"
	"strings"

	"github.com/sv4u/musicmatch/match/library"
	"github.com/sv4u/musicmatch/match/spotify"
)

// QueryFunc runs one remote search query and returns up to limit candidates.
type QueryFunc func(ctx context.Context, query string, limit int) ([]spotify.Candidate, error)

// Planner builds queries from cleaned tags and walks a kind's query cascade.
// It holds no state and is safe for concurrent use.
type Planner struct{}

// NewPlanner creates a new query planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// BuildQuery joins the cleaned values of one field combination into a query
// string. Fields with no cleaned value are skipped rather than contributing
// empty segments.
func BuildQuery(tags map[library.Tag]string, fields []library.Tag) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if v := tags[field]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Execute walks the configured query cascade in order, issuing one remote
// query per field combination and stopping at the first one that returns
// candidates. Combinations that build an empty query are skipped without a
// remote call.
//
// When the whole cascade comes up empty, Execute returns no candidates
// together with the last query attempted so the caller can log it.
func (p *Planner) Execute(ctx context.Context, tags map[library.Tag]string, cfg SearchConfig, query QueryFunc) ([]spotify.Candidate, string, error) {
	lastQuery := ""
	for _, fields := range cfg.SearchFields {
		q := BuildQuery(tags, fields)
		if q == "" {
			continue
		}
		lastQuery = q

		candidates, err := query(ctx, q, cfg.ResultCount)
		if err != nil {
			return nil, lastQuery, err
		}
		if len(candidates) > 0 {
			return candidates, q, nil
		}
	}
	return nil, lastQuery, nil
}
