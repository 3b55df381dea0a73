package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sv4u/musicmatch/match/config"
	"github.com/sv4u/musicmatch/match/library"
	"github.com/sv4u/musicmatch/match/logging"
)

// PlaylistProvider opens the authorized playlist surface on demand. User
// authorization is interactive, so it must not run before a check actually
// needs it.
type PlaylistProvider func(ctx context.Context) (PlaylistService, error)

// Service wires the local library, the remote catalog and the interactive
// checker into the command level operations.
type Service struct {
	cfg       *config.MatchConfig
	log       *logging.Logger
	catalog   Catalog
	playlists PlaylistProvider

	// DryRun suppresses URI persistence. Reports and the census still
	// reflect the in-memory matches.
	DryRun bool

	in  io.Reader
	out io.Writer
}

// NewService creates the match service.
func NewService(cfg *config.MatchConfig, log *logging.Logger, catalog Catalog, playlists PlaylistProvider) *Service {
	return &Service{
		cfg:       cfg,
		log:       log,
		catalog:   catalog,
		playlists: playlists,
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

// Search loads the library, runs the batch search and persists every newly
// assigned URI. The outcome report and the updated census are printed even
// when the batch aborts early, and whatever matched before the abort is
// still saved.
func (s *Service) Search(ctx context.Context) error {
	lib, err := s.loadLibrary()
	if err != nil {
		return err
	}

	results, searchErr := s.search(ctx, lib)
	PrintReport(s.out, results)
	if searchErr != nil {
		s.log.Error("search aborted", searchErr)
	}

	saveErr := s.save(lib)
	lib.PrintCensus(s.out)

	return errors.Join(searchErr, saveErr)
}

// Check loads the library and walks every track carrying a URI through the
// interactive verification flow, then persists the decisions.
func (s *Service) Check(ctx context.Context) error {
	lib, err := s.loadLibrary()
	if err != nil {
		return err
	}

	if err := s.check(ctx, GroupMatches(lib.Collections)); err != nil {
		return err
	}

	saveErr := s.save(lib)
	lib.PrintCensus(s.out)
	return saveErr
}

// Sync runs a search and immediately verifies what it matched. Matches are
// persisted before the interactive part starts so an abandoned session
// cannot lose them, and again afterwards to record the verdicts.
func (s *Service) Sync(ctx context.Context) error {
	lib, err := s.loadLibrary()
	if err != nil {
		return err
	}

	results, searchErr := s.search(ctx, lib)
	PrintReport(s.out, results)
	saveErr := s.save(lib)
	if searchErr != nil {
		s.log.Error("search aborted, skipping verification", searchErr)
		lib.PrintCensus(s.out)
		return errors.Join(searchErr, saveErr)
	}
	if saveErr != nil {
		return saveErr
	}

	if err := s.check(ctx, GroupNewMatches(results)); err != nil {
		return err
	}

	saveErr = s.save(lib)
	lib.PrintCensus(s.out)
	return saveErr
}

// loadLibrary scans the configured library root and prints the URI census.
func (s *Service) loadLibrary() (*library.Library, error) {
	lib, err := library.Load(s.cfg.Library.Path)
	if err != nil {
		s.log.Error("library load failed", err)
		return nil, err
	}
	s.log.Infof("library loaded, %d tracks in %d collections", len(lib.Tracks), len(lib.Collections))
	lib.PrintCensus(s.out)
	return lib, nil
}

// search runs the batch search over the library's collections.
func (s *Service) search(ctx context.Context, lib *library.Library) (map[string]*SearchResult, error) {
	searcher := NewSearcher(
		s.catalog,
		NewSettings(&s.cfg.Search),
		s.log,
		s.cfg.Search.MaxCollections,
		s.cfg.Search.MaxItems,
	)
	return searcher.Search(ctx, lib.Collections)
}

// check runs the interactive verification flow over the given groups. The
// playlist surface is only opened when there is something to verify.
func (s *Service) check(ctx context.Context, groups []*CheckGroup) error {
	if len(groups) == 0 {
		fmt.Fprintln(s.out, "Nothing to verify.")
		return nil
	}

	playlists, err := s.playlists(ctx)
	if err != nil {
		s.log.Error("playlist authorization failed", err)
		return err
	}

	checker := NewChecker(playlists, s.log, s.cfg.Check)
	checker.in = s.in
	checker.out = s.out
	return checker.Check(ctx, groups)
}

// save persists modified URIs back into the library's files.
func (s *Service) save(lib *library.Library) error {
	if s.DryRun {
		s.log.Info("dry run, URIs not written")
		return nil
	}

	saved, err := lib.SaveURIs()
	if saved > 0 {
		s.log.Infof("saved %d updated URIs", saved)
	}
	if err != nil {
		s.log.Error("saving URIs failed", err)
	}
	return err
}
