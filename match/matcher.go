package match

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/sv4u/musicmatch/match/library"
	"github.com/sv4u/musicmatch/match/spotify"
)

// lengthTolerance is the play time delta at which two recordings stop
// counting as the same one.
const lengthTolerance = 30 * time.Second

// Matcher scores remote candidates against cleaned local tags. It holds no
// state and is safe for concurrent use.
type Matcher struct{}

// NewMatcher creates a new scoring matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match scores every candidate against the cleaned source tags and returns
// the best one together with its score, or nil when nothing clears the
// configured floor. A candidate scoring at or above MaxScore is accepted
// immediately without scanning the rest. Ties keep the earlier candidate.
//
// Karaoke style candidates are filtered out unless the config allows them or
// the source itself is karaoke titled; sourceKaraoke carries that flag
// because the raw marker is gone from the cleaned tags.
func (m *Matcher) Match(tags map[library.Tag]string, sourceKaraoke bool, candidates []spotify.Candidate, cfg SearchConfig) (*spotify.Candidate, float64) {
	if len(candidates) == 0 {
		return nil, 0
	}

	sourceArtists := cleanNames(library.SplitArtists(tags[library.TagArtist]))
	sourceLength := parseLengthTag(tags[library.TagLength])

	var best *spotify.Candidate
	bestScore := 0.0

	for i := range candidates {
		candidate := &candidates[i]

		if !cfg.AllowKaraoke && !sourceKaraoke && candidateKaraoke(candidate) {
			continue
		}

		score := m.score(tags, sourceArtists, sourceLength, candidate, cfg.MatchFields)
		if score >= cfg.MaxScore {
			return candidate, score
		}
		if best == nil || score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if best == nil || bestScore < cfg.MinScore {
		return nil, bestScore
	}
	return best, bestScore
}

// score averages the per-field similarities over the fields present on both
// sides. A candidate sharing no scorable field with the source scores 0.
func (m *Matcher) score(tags map[library.Tag]string, sourceArtists []string, sourceLength time.Duration, c *spotify.Candidate, fields []library.Tag) float64 {
	sum := 0.0
	count := 0
	for _, field := range fields {
		similarity, ok := m.fieldSimilarity(tags, sourceArtists, sourceLength, c, field)
		if !ok {
			continue
		}
		sum += similarity
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// fieldSimilarity computes one field's similarity in [0, 1]. The second
// return value is false when the field is missing on either side, which
// drops it from the average instead of scoring it 0.
func (m *Matcher) fieldSimilarity(tags map[library.Tag]string, sourceArtists []string, sourceLength time.Duration, c *spotify.Candidate, field library.Tag) (float64, bool) {
	switch field {
	case library.TagTitle:
		source := tags[library.TagTitle]
		remote := CleanString(c.Title)
		if source == "" || remote == "" {
			return 0, false
		}
		return stringSimilarity(source, remote), true

	case library.TagArtist:
		remote := cleanNames(c.Artists)
		if len(sourceArtists) == 0 || len(remote) == 0 {
			return 0, false
		}
		return artistOverlap(sourceArtists, remote), true

	case library.TagAlbum:
		source := tags[library.TagAlbum]
		remote := CleanString(c.Album)
		if source == "" || remote == "" {
			return 0, false
		}
		if source == remote {
			return 1, true
		}
		return 0, true

	case library.TagLength:
		if sourceLength <= 0 || c.Length <= 0 {
			return 0, false
		}
		return lengthSimilarity(sourceLength, c.Length), true
	}
	return 0, false
}

// stringSimilarity is the normalized edit distance ratio between two cleaned
// values.
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	similarity := 1 - float64(distance)/float64(longest)
	if similarity < 0 {
		return 0
	}
	return similarity
}

// artistOverlap is the share of source artists found among the candidate's
// artists. Extra candidate artists do not count against the score, so
// featured guests on the remote side stay harmless.
func artistOverlap(source, remote []string) float64 {
	matched := 0
	for _, s := range source {
		for _, r := range remote {
			if s == r || strings.Contains(r, s) || strings.Contains(s, r) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(source))
}

// lengthSimilarity maps a play time delta onto [0, 1], hitting 0 at the
// tolerance bound.
func lengthSimilarity(a, b time.Duration) float64 {
	delta := a - b
	if delta < 0 {
		delta = -delta
	}
	if delta >= lengthTolerance {
		return 0
	}
	return 1 - delta.Seconds()/lengthTolerance.Seconds()
}

// candidateKaraoke reports whether a candidate looks like a karaoke or
// backing track release.
func candidateKaraoke(c *spotify.Candidate) bool {
	return IsKaraoke(c.Title) || IsKaraoke(c.Album)
}

// cleanNames cleans a list of names, dropping any that clean down to
// nothing.
func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if v := CleanString(name); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseLengthTag reads the cleaned length tag back into a duration.
func parseLengthTag(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
