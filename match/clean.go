package match

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sv4u/musicmatch/match/library"
)

var (
	// bracketedPattern strips parenthetical and bracketed qualifiers like
	// "(Remastered 2011)" or "[Live]".
	bracketedPattern = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)

	// featuringPattern strips guest credits from the point of the marker to
	// the end of the value. The marker must stand alone as a word so names
	// like "featherweight" survive.
	featuringPattern = regexp.MustCompile(`(?i)\s+(?:feat|ft|featuring)\b\.?.*$`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanString normalizes one raw tag value into its canonical comparable
// form: casefolded, stripped of bracketed qualifiers and featuring credits,
// with whitespace collapsed. Cleaning an already cleaned value returns it
// unchanged.
func CleanString(value string) string {
	v := strings.ToLower(value)
	v = bracketedPattern.ReplaceAllString(v, " ")
	v = featuringPattern.ReplaceAllString(v, " ")
	v = whitespacePattern.ReplaceAllString(v, " ")
	v = strings.TrimSpace(v)
	v = strings.TrimRight(v, "-")
	return strings.TrimSpace(v)
}

// karaokeWords flag candidates that are re-recordings rather than the
// original release.
var karaokeWords = []string{"karaoke", "backing", "instrumental"}

// IsKaraoke reports whether a title or album name marks a karaoke style
// recording. It works on raw values because the marker usually sits in a
// bracketed qualifier that cleaning strips away.
func IsKaraoke(name string) bool {
	lowered := strings.ToLower(name)
	for _, word := range karaokeWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

// Cleaner computes cleaned tag maps for tracks and collections. Track
// results are cached on the track so planning and scoring share one
// computation.
type Cleaner struct{}

// NewCleaner creates a new tag cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean returns the cleaned tag map for a track, computing and caching it on
// first use. Fields that clean down to nothing are left out of the map.
func (c *Cleaner) Clean(t *library.Track) map[library.Tag]string {
	if cached := t.CleanTags(); cached != nil {
		return cached
	}

	tags := make(map[library.Tag]string)
	if v := CleanString(t.Title); v != "" {
		tags[library.TagTitle] = v
	}
	if v := CleanString(t.Artist); v != "" {
		tags[library.TagArtist] = v
	}
	if v := CleanString(t.Album); v != "" {
		tags[library.TagAlbum] = v
	}
	if seconds := int(t.Length.Seconds()); seconds > 0 {
		tags[library.TagLength] = strconv.Itoa(seconds)
	}

	t.SetCleanTags(tags)
	return tags
}

// CleanCollection builds the album-level tag map used when a collection is
// searched as one remote album.
func (c *Cleaner) CleanCollection(coll *library.Collection) map[library.Tag]string {
	tags := make(map[library.Tag]string)
	if v := CleanString(coll.Name); v != "" {
		tags[library.TagAlbum] = v
	}
	if v := CleanString(coll.Artist()); v != "" {
		tags[library.TagArtist] = v
	}
	if seconds := int(coll.Length().Seconds()); seconds > 0 {
		tags[library.TagLength] = strconv.Itoa(seconds)
	}
	return tags
}
