package match

import (
	"github.com/sv4u/musicmatch/match/config"
	"github.com/sv4u/musicmatch/match/library"
)

// Kind names the remote object type a search targets.
type Kind int

const (
	// KindTrack searches track by track.
	KindTrack Kind = iota
	// KindAlbum searches for the whole collection as one remote album.
	KindAlbum
)

// String returns the remote API type name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAlbum:
		return "album"
	default:
		return "track"
	}
}

// SearchConfig bundles everything one kind of search needs: which fields are
// scored, which field combinations form the query cascade, and the score
// thresholds.
type SearchConfig struct {
	Kind Kind

	// MatchFields are the fields considered when scoring a candidate.
	// Fields missing on either side are left out of the score.
	MatchFields []library.Tag

	// SearchFields is the ordered query cascade. Each entry is one field
	// combination; the first combination that yields results wins.
	SearchFields [][]library.Tag

	// ResultCount is the number of candidates requested per query.
	ResultCount int

	// MinScore is the floor below which the best candidate is discarded.
	MinScore float64

	// MaxScore short-circuits scanning: a candidate at or above it is
	// accepted immediately without scoring the rest.
	MaxScore float64

	// AllowKaraoke admits karaoke and backing-track candidates.
	AllowKaraoke bool
}

// Settings maps each kind to its resolved search configuration.
type Settings map[Kind]SearchConfig

// DefaultSettings returns the built-in per-kind configuration.
func DefaultSettings() Settings {
	return Settings{
		KindTrack: {
			Kind: KindTrack,
			MatchFields: []library.Tag{
				library.TagTitle, library.TagArtist, library.TagAlbum, library.TagLength,
			},
			SearchFields: [][]library.Tag{
				{library.TagTitle, library.TagArtist},
				{library.TagTitle, library.TagAlbum},
				{library.TagTitle},
			},
			ResultCount: 10,
			MinScore:    0.1,
			MaxScore:    0.8,
		},
		KindAlbum: {
			Kind: KindAlbum,
			MatchFields: []library.Tag{
				library.TagArtist, library.TagAlbum, library.TagLength,
			},
			SearchFields: [][]library.Tag{
				{library.TagAlbum, library.TagArtist},
				{library.TagAlbum},
			},
			ResultCount: 5,
			MinScore:    0.1,
			MaxScore:    0.7,
		},
	}
}

// NewSettings resolves the per-kind configuration, applying any overrides
// from the configuration file on top of the defaults.
func NewSettings(cfg *config.SearchSettings) Settings {
	settings := DefaultSettings()
	if cfg == nil {
		return settings
	}

	track := settings[KindTrack]
	applyOverrides(&track, cfg.Track)
	track.AllowKaraoke = cfg.AllowKaraoke
	settings[KindTrack] = track

	album := settings[KindAlbum]
	applyOverrides(&album, cfg.Album)
	album.AllowKaraoke = cfg.AllowKaraoke
	settings[KindAlbum] = album

	return settings
}

// applyOverrides copies the non-zero override values onto a kind's config.
func applyOverrides(sc *SearchConfig, overrides config.KindSettings) {
	if overrides.ResultCount > 0 {
		sc.ResultCount = overrides.ResultCount
	}
	if overrides.MinScore > 0 {
		sc.MinScore = overrides.MinScore
	}
	if overrides.MaxScore > 0 {
		sc.MaxScore = overrides.MaxScore
	}
}

// DetermineKind decides how a collection should be searched. Cohesive albums
// are looked up as a single remote album; compilations and loose groupings go
// track by track. An empty collection has no kind.
func DetermineKind(c *library.Collection) (Kind, error) {
	if c == nil || len(c.Tracks) == 0 {
		name := ""
		if c != nil {
			name = c.Name
		}
		return KindTrack, &AmbiguousKindError{Collection: name}
	}
	if c.Compilation() {
		return KindTrack, nil
	}
	return KindAlbum, nil
}
