package match

import (
	"context"
	"errors"
	"testing"

	"github.com/sv4u/musicmatch/match/library"
	"github.com/sv4u/musicmatch/match/spotify"
)

type queryRecorder struct {
	queries []string
	limits  []int
	results map[string][]spotify.Candidate
	err     error
}

func (r *queryRecorder) query(ctx context.Context, q string, limit int) ([]spotify.Candidate, error) {
	r.queries = append(r.queries, q)
	r.limits = append(r.limits, limit)
	if r.err != nil {
		return nil, r.err
	}
	return r.results[q], nil
}

func TestBuildQuery(t *testing.T) {
	tags := map[library.Tag]string{
		library.TagTitle:  "yesterday",
		library.TagArtist: "the beatles",
	}

	got := BuildQuery(tags, []library.Tag{library.TagTitle, library.TagArtist})
	if got != "yesterday the beatles" {
		t.Errorf("BuildQuery = %q", got)
	}

	// A missing field is skipped, not joined as an empty segment.
	got = BuildQuery(tags, []library.Tag{library.TagTitle, library.TagAlbum})
	if got != "yesterday" {
		t.Errorf("BuildQuery with missing album = %q", got)
	}

	got = BuildQuery(tags, []library.Tag{library.TagAlbum})
	if got != "" {
		t.Errorf("BuildQuery with no present fields = %q", got)
	}
}

func TestPlannerFirstQueryHits(t *testing.T) {
	planner := NewPlanner()
	cfg := DefaultSettings()[KindTrack]
	recorder := &queryRecorder{results: map[string][]spotify.Candidate{
		"yesterday the beatles": {{ID: "a"}},
	}}

	results, query, err := planner.Execute(context.Background(), sourceTags(), cfg, recorder.query)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if query != "yesterday the beatles" {
		t.Errorf("query = %q", query)
	}
	if len(recorder.queries) != 1 {
		t.Errorf("issued %d queries, want 1", len(recorder.queries))
	}
	if recorder.limits[0] != cfg.ResultCount {
		t.Errorf("limit = %d, want %d", recorder.limits[0], cfg.ResultCount)
	}
}

func TestPlannerFallsThroughCascade(t *testing.T) {
	planner := NewPlanner()
	cfg := DefaultSettings()[KindTrack]
	recorder := &queryRecorder{results: map[string][]spotify.Candidate{
		"yesterday help!": {{ID: "b"}},
	}}

	results, query, err := planner.Execute(context.Background(), sourceTags(), cfg, recorder.query)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(results) != 1 || results[0].ID != "b" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if query != "yesterday help!" {
		t.Errorf("query = %q", query)
	}
	if len(recorder.queries) != 2 {
		t.Errorf("issued %d queries, want 2", len(recorder.queries))
	}
}

func TestPlannerExhaustsCascade(t *testing.T) {
	planner := NewPlanner()
	cfg := DefaultSettings()[KindTrack]
	recorder := &queryRecorder{}

	results, query, err := planner.Execute(context.Background(), sourceTags(), cfg, recorder.query)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}

	want := []string{"yesterday the beatles", "yesterday help!", "yesterday"}
	if len(recorder.queries) != len(want) {
		t.Fatalf("issued %d queries, want %d: %v", len(recorder.queries), len(want), recorder.queries)
	}
	for i := range want {
		if recorder.queries[i] != want[i] {
			t.Errorf("query %d = %q, want %q", i, recorder.queries[i], want[i])
		}
	}

	// The last attempted query comes back for logging.
	if query != "yesterday" {
		t.Errorf("last query = %q, want %q", query, "yesterday")
	}
}

func TestPlannerSkipsEmptyCombinations(t *testing.T) {
	planner := NewPlanner()
	cfg := DefaultSettings()[KindTrack]
	recorder := &queryRecorder{}

	// Only the artist tag exists: the title+artist set still builds a query
	// from the artist alone, the title-only sets build nothing.
	tags := map[library.Tag]string{library.TagArtist: "the beatles"}

	_, query, err := planner.Execute(context.Background(), tags, cfg, recorder.query)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(recorder.queries) != 1 {
		t.Fatalf("issued %d queries, want 1: %v", len(recorder.queries), recorder.queries)
	}
	if recorder.queries[0] != "the beatles" {
		t.Errorf("query = %q", recorder.queries[0])
	}
	if query != "the beatles" {
		t.Errorf("last query = %q", query)
	}
}

func TestPlannerPropagatesError(t *testing.T) {
	planner := NewPlanner()
	cfg := DefaultSettings()[KindTrack]
	wantErr := errors.New("remote broke")
	recorder := &queryRecorder{err: wantErr}

	results, query, err := planner.Execute(context.Background(), sourceTags(), cfg, recorder.query)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if results != nil {
		t.Errorf("results = %+v, want nil", results)
	}
	if query != "yesterday the beatles" {
		t.Errorf("query = %q", query)
	}
	if len(recorder.queries) != 1 {
		t.Errorf("issued %d queries, want 1", len(recorder.queries))
	}
}
