package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sv4u/musicmatch/match/library"
	"github.com/sv4u/musicmatch/match/logging"
	"github.com/sv4u/musicmatch/match/spotify"
)

// Catalog is the remote search surface the searcher depends on.
type Catalog interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]spotify.Candidate, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]spotify.Candidate, error)
	AlbumTracks(ctx context.Context, albumID string) ([]spotify.Candidate, error)
}

// Searcher runs the batch matching workflow: collections are processed
// concurrently, each one either skipped outright, matched as a whole album,
// or matched track by track.
type Searcher struct {
	catalog  Catalog
	settings Settings
	cleaner  *Cleaner
	matcher  *Matcher
	planner  *Planner
	log      *logging.Logger

	maxCollections int
	maxItems       int
}

// NewSearcher creates a searcher with bounded concurrency. maxCollections
// limits how many collections are in flight at once, maxItems how many
// tracks per collection. A limit of 1 makes that level sequential.
func NewSearcher(catalog Catalog, settings Settings, log *logging.Logger, maxCollections, maxItems int) *Searcher {
	if maxCollections < 1 {
		maxCollections = 1
	}
	if maxItems < 1 {
		maxItems = 1
	}
	return &Searcher{
		catalog:        catalog,
		settings:       settings,
		cleaner:        NewCleaner(),
		matcher:        NewMatcher(),
		planner:        NewPlanner(),
		log:            log,
		maxCollections: maxCollections,
		maxItems:       maxItems,
	}
}

// Search processes all collections and partitions every collection's tracks
// into matched, unmatched and skipped. Collection level failures abort the
// batch, but the partial results gathered so far are still returned and the
// aggregate tally is still logged; a failed collection appears with its
// pending tracks counted unmatched.
func (s *Searcher) Search(ctx context.Context, collections []*library.Collection) (map[string]*SearchResult, error) {
	results := make(map[string]*SearchResult, len(collections))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxCollections)

	for _, coll := range collections {
		g.Go(func() error {
			result, err := s.searchCollection(gctx, coll)
			mu.Lock()
			results[coll.Name] = result
			mu.Unlock()
			return err
		})
	}

	err := g.Wait()
	s.log.Aggregate("search", AggregateCounts(results))
	return results, err
}

// searchCollection runs the state machine for one collection. The returned
// result is valid even when an error is returned: every track is classified.
func (s *Searcher) searchCollection(ctx context.Context, coll *library.Collection) (*SearchResult, error) {
	result := &SearchResult{Collection: coll.Name}

	if len(coll.Tracks) == 0 {
		return result, &AmbiguousKindError{Collection: coll.Name}
	}

	pending := make([]*library.Track, 0, len(coll.Tracks))
	for _, t := range coll.Tracks {
		if t.URIState() != library.URIUnknown {
			result.Skipped = append(result.Skipped, t)
			continue
		}
		pending = append(pending, t)
	}
	if len(pending) == 0 {
		s.log.InfoWithCollection(coll.Name, "every track already resolved, skipping")
		return result, nil
	}

	kind, err := DetermineKind(coll)
	if err != nil {
		classifyPending(result, pending)
		return result, err
	}

	if kind == KindAlbum {
		if err := s.unitSearch(ctx, coll, pending); err != nil {
			classifyPending(result, pending)
			return result, err
		}
	}

	if err := s.itemSearch(ctx, coll, pending); err != nil {
		classifyPending(result, pending)
		return result, err
	}

	classifyPending(result, pending)
	s.log.Result(coll.Name, result.Counts())
	return result, nil
}

// classifyPending buckets the searched tracks by their final URI state.
func classifyPending(result *SearchResult, pending []*library.Track) {
	for _, t := range pending {
		if t.URIState() == library.URISet {
			result.Matched = append(result.Matched, t)
		} else {
			result.Unmatched = append(result.Unmatched, t)
		}
	}
}

// unitSearch tries to match the collection as one remote album. On a match
// the album's full track listing is fetched and each pending track is
// matched against it by title alone; whatever stays unmatched falls through
// to the track by track search. Failures here abort the batch because a
// fetch that breaks mid album would leave the collection half resolved.
func (s *Searcher) unitSearch(ctx context.Context, coll *library.Collection, pending []*library.Track) error {
	cfg := s.settings[KindAlbum]
	tags := s.cleaner.CleanCollection(coll)

	candidates, query, err := s.planner.Execute(ctx, tags, cfg, s.catalog.SearchAlbums)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		s.log.InfoWithCollection(coll.Name, fmt.Sprintf("no album results, last query %q", query))
		return nil
	}

	sortByTrackCount(candidates, len(coll.Tracks))

	album, score := s.matcher.Match(tags, IsKaraoke(coll.Name), candidates, cfg)
	if album == nil {
		s.log.InfoWithCollection(coll.Name, fmt.Sprintf("no album candidate above threshold, best %.2f", score))
		return nil
	}
	s.log.InfoWithCollection(coll.Name, fmt.Sprintf("album matched %q score %.2f", album.Album, score))

	listing, err := s.catalog.AlbumTracks(ctx, album.ID)
	if err != nil {
		return err
	}

	titleCfg := s.settings[KindTrack]
	titleCfg.MatchFields = []library.Tag{library.TagTitle}
	// Title is the only signal here, so the floor rises to the short-circuit
	// bound. A track missing from the listing is better retried as a full
	// track search than pinned to the closest album track.
	titleCfg.MinScore = titleCfg.MaxScore

	g := new(errgroup.Group)
	g.SetLimit(s.maxItems)
	for _, t := range pending {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tags := s.cleaner.Clean(t)
			candidate, _ := s.matcher.Match(tags, trackKaraoke(t), listing, titleCfg)
			if candidate != nil {
				t.URI = candidate.URI
			}
			return nil
		})
	}
	return g.Wait()
}

// itemSearch matches the still unresolved tracks one by one. Track level
// failures are logged and leave the track unmatched; only cancellation stops
// the collection.
func (s *Searcher) itemSearch(ctx context.Context, coll *library.Collection, pending []*library.Track) error {
	cfg := s.settings[KindTrack]

	g := new(errgroup.Group)
	g.SetLimit(s.maxItems)
	for _, t := range pending {
		if t.URIState() != library.URIUnknown {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.matchTrack(ctx, t, cfg); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				matchErr := &ItemMatchError{Track: t.Name(), Original: err}
				s.log.ErrorWithCollection(coll.Name, "track match failed", matchErr)
			}
			return nil
		})
	}
	return g.Wait()
}

// matchTrack runs the query cascade and scoring for one track, assigning the
// URI on success. Finding nothing is not an error.
func (s *Searcher) matchTrack(ctx context.Context, t *library.Track, cfg SearchConfig) error {
	tags := s.cleaner.Clean(t)

	candidates, query, err := s.planner.Execute(ctx, tags, cfg, s.catalog.SearchTracks)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		s.log.Debugf("no results for %q, last query %q", t.Name(), query)
		return nil
	}

	best, score := s.matcher.Match(tags, trackKaraoke(t), candidates, cfg)
	if best == nil {
		s.log.Debugf("no candidate above threshold for %q, best %.2f", t.Name(), score)
		return nil
	}

	t.URI = best.URI
	s.log.Debugf("matched %q to %s score %.2f", t.Name(), best.URI, score)
	return nil
}

// trackKaraoke reports whether the local track itself is a karaoke
// recording, judged from its raw title and album names.
func trackKaraoke(t *library.Track) bool {
	return IsKaraoke(t.Title) || IsKaraoke(t.Album)
}

// sortByTrackCount orders album candidates by how close their track count is
// to the local collection's size, keeping the remote order for ties.
func sortByTrackCount(candidates []spotify.Candidate, localCount int) {
	distance := func(c spotify.Candidate) int {
		d := c.TrackCount - localCount
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return distance(candidates[i]) < distance(candidates[j])
	})
}
