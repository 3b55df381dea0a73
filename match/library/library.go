package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Library is the loaded set of local tracks grouped into collections.
type Library struct {
	Root        string
	Tracks      []*Track
	Collections []*Collection
}

// Load walks root for MP3 files and groups them into album collections.
// Tracks that fail to load are logged and skipped rather than aborting the
// whole scan.
func Load(root string) (*Library, error) {
	lib := &Library{Root: root}

	failed := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mp3") {
			return nil
		}
		t, err := LoadTrack(path)
		if err != nil {
			log.Printf("WARN: track_load_failed path=%s error=%v", path, err)
			failed++
			return nil
		}
		lib.Tracks = append(lib.Tracks, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan library: %w", err)
	}

	lib.Collections = Group(lib.Tracks)
	log.Printf("INFO: library_loaded root=%s tracks=%d collections=%d failed=%d",
		root, len(lib.Tracks), len(lib.Collections), failed)

	return lib, nil
}

// Group organizes tracks into collections keyed by album tag, falling back
// to the parent folder name for untagged files. Collections come back sorted
// by name with their tracks in disc/track order.
func Group(tracks []*Track) []*Collection {
	byName := make(map[string]*Collection)
	var names []string

	for _, t := range tracks {
		name := strings.TrimSpace(t.Album)
		if name == "" {
			name = filepath.Base(filepath.Dir(t.Path))
		}
		coll, ok := byName[name]
		if !ok {
			coll = &Collection{Name: name}
			byName[name] = coll
			names = append(names, name)
		}
		coll.Tracks = append(coll.Tracks, t)
	}

	sort.Strings(names)
	out := make([]*Collection, 0, len(names))
	for _, name := range names {
		coll := byName[name]
		coll.SortTracks()
		out = append(out, coll)
	}
	return out
}

// Counts tallies the URI states across all tracks.
func (l *Library) Counts() (available, missing, unavailable int) {
	for _, t := range l.Tracks {
		switch t.URIState() {
		case URISet:
			available++
		case URIUnavailable:
			unavailable++
		default:
			missing++
		}
	}
	return available, missing, unavailable
}

// PrintCensus writes the colored URI census line for the whole library.
func (l *Library) PrintCensus(w io.Writer) {
	available, missing, unavailable := l.Counts()

	green := color.New(color.FgGreen).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()
	yellow := color.New(color.FgYellow).SprintfFunc()
	bold := color.New(color.Bold).SprintfFunc()

	fmt.Fprintf(w, "%s | %s | %s | %s | %d total\n",
		bold("%-14s", "LIBRARY URIS"),
		green("%6d available", available),
		red("%6d missing", missing),
		yellow("%6d unavailable", unavailable),
		len(l.Tracks))
}

// SaveURIs persists every modified URI back to its file's tag. All failures
// are reported joined together; successfully saved tracks are counted even
// when siblings fail.
func (l *Library) SaveURIs() (int, error) {
	saved := 0
	var errs []error
	for _, t := range l.Tracks {
		if !t.Modified() {
			continue
		}
		if err := SaveURI(t); err != nil {
			errs = append(errs, err)
			continue
		}
		t.markSaved()
		saved++
	}
	return saved, errors.Join(errs...)
}
