package library

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// UnavailableURI is the marker stored on tracks that are known to have no
// counterpart in the remote catalog. It keeps the URI field a plain string
// while remaining distinguishable from both real URIs and the empty
// not-yet-searched state.
const UnavailableURI = "spotify:track:unavailable"

// URIState is the three-state classification of a track's remote reference.
type URIState int

const (
	// URIUnknown means the track has never been matched; a search should
	// attempt it.
	URIUnknown URIState = iota
	// URISet means the track carries a real remote URI.
	URISet
	// URIUnavailable means the track was explicitly marked as missing from
	// the remote catalog; searches skip it.
	URIUnavailable
)

// String returns the state name used in logs and the library census.
func (s URIState) String() string {
	switch s {
	case URISet:
		return "available"
	case URIUnavailable:
		return "unavailable"
	default:
		return "missing"
	}
}

// StateOfURI classifies a raw URI value.
func StateOfURI(uri string) URIState {
	switch uri {
	case "":
		return URIUnknown
	case UnavailableURI:
		return URIUnavailable
	default:
		return URISet
	}
}

// TrackURI builds a track URI from a remote catalog ID.
func TrackURI(id string) string {
	return "spotify:track:" + id
}

// AlbumURI builds an album URI from a remote catalog ID.
func AlbumURI(id string) string {
	return "spotify:album:" + id
}

var uriPattern = regexp.MustCompile(`^spotify:([a-z]+):([a-zA-Z0-9]+)$`)

// ParseURI splits a URI into its kind and ID parts.
func ParseURI(uri string) (kind, id string, err error) {
	m := uriPattern.FindStringSubmatch(uri)
	if m == nil {
		return "", "", fmt.Errorf("malformed URI: %q", uri)
	}
	return m[1], m[2], nil
}

// Tag identifies a track metadata field. The same vocabulary drives tag
// cleaning, query building and match scoring.
type Tag int

const (
	TagTitle Tag = iota
	TagArtist
	TagAlbum
	TagAlbumArtist
	TagTrackNumber
	TagYear
	TagLength
)

// String returns the lower-case field name.
func (t Tag) String() string {
	switch t {
	case TagTitle:
		return "title"
	case TagArtist:
		return "artist"
	case TagAlbum:
		return "album"
	case TagAlbumArtist:
		return "album_artist"
	case TagTrackNumber:
		return "track_number"
	case TagYear:
		return "year"
	case TagLength:
		return "length"
	default:
		return "unknown"
	}
}

// Track is a local audio file's metadata view. The URI field is the only
// part the matching engine mutates; everything else is read-only input.
type Track struct {
	Title       string
	Artist      string
	Artists     []string
	Album       string
	AlbumArtist string
	TrackNumber int
	DiscNumber  int
	Year        int
	Length      time.Duration
	Compilation bool
	Path        string

	// URI is empty until a search assigns one. See StateOfURI.
	URI string

	loadedURI string
	clean     map[Tag]string
}

// Modified reports whether the URI changed since the track was loaded or
// last saved. Freshly constructed tracks count any non-empty URI as a
// change.
func (t *Track) Modified() bool {
	return t.URI != t.loadedURI
}

// markSaved records the current URI as persisted.
func (t *Track) markSaved() {
	t.loadedURI = t.URI
}

// URIState reports the track's current remote reference state.
func (t *Track) URIState() URIState {
	return StateOfURI(t.URI)
}

// CleanTags returns the cached cleaned tag map, or nil if the track has not
// been cleaned yet.
func (t *Track) CleanTags() map[Tag]string {
	return t.clean
}

// SetCleanTags caches cleaned tag values on the track so query planning and
// scoring share one computation.
func (t *Track) SetCleanTags(tags map[Tag]string) {
	t.clean = tags
}

// CleanTag returns one cached cleaned value, or "" when absent.
func (t *Track) CleanTag(tag Tag) string {
	return t.clean[tag]
}

// Name returns the display name used in logs and prompts.
func (t *Track) Name() string {
	if t.Artist != "" {
		return t.Artist + " - " + t.Title
	}
	return t.Title
}

var artistSeparators = regexp.MustCompile(`\s*[;/]\s*`)

// SplitArtists breaks a joined artist tag into individual names. Only the
// unambiguous separators are split on; names like "Hall & Oates" stay whole.
func SplitArtists(artist string) []string {
	if strings.TrimSpace(artist) == "" {
		return nil
	}
	parts := artistSeparators.Split(artist, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
