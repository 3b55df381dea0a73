package library

import (
	"strconv"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
)

// uriCommentDescription labels the comment frame holding the remote URI.
const uriCommentDescription = "URI"

// LoadTrack reads a track's metadata from its ID3 tag. The remote URI, when
// previously written back, is restored from its comment frame.
func LoadTrack(path string) (*Track, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, &TrackError{
			Path:     path,
			Message:  "failed to open ID3 tag",
			Original: err,
		}
	}
	defer func() { _ = tag.Close() }()

	t := &Track{
		Path:   path,
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
	}
	t.Artists = SplitArtists(t.Artist)
	t.AlbumArtist = strings.TrimSpace(tag.GetTextFrame(tag.CommonID("TPE2")).Text)

	t.TrackNumber = parseTagNumber(tag.GetTextFrame(tag.CommonID("TRCK")).Text)
	t.DiscNumber = parseTagNumber(tag.GetTextFrame(tag.CommonID("TPOS")).Text)
	t.Year = parseTagYear(tag)
	t.Compilation = parseTagFlag(tag.GetTextFrame(tag.CommonID("TCMP")).Text)

	// Prefer the declared length; fall back to probing the audio stream
	if ms := parseTagNumber(tag.GetTextFrame(tag.CommonID("TLEN")).Text); ms > 0 {
		t.Length = time.Duration(ms) * time.Millisecond
	} else if d, err := ProbeDuration(path); err == nil {
		t.Length = d
	}

	t.URI = readURIComment(tag)
	t.loadedURI = t.URI

	return t, nil
}

// SaveURI writes the track's URI into its comment frame, replacing any
// previous URI comment and preserving unrelated comments. A track whose URI
// was cleared back to unknown has the frame removed.
func SaveURI(t *Track) error {
	tag, err := id3v2.Open(t.Path, id3v2.Options{Parse: true})
	if err != nil {
		return &TrackError{
			Path:     t.Path,
			Message:  "failed to open ID3 tag",
			Original: err,
		}
	}
	defer func() { _ = tag.Close() }()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	var keep []id3v2.CommentFrame
	for _, frame := range tag.GetFrames(tag.CommonID("Comments")) {
		cf, ok := frame.(id3v2.CommentFrame)
		if !ok {
			continue
		}
		if cf.Description == uriCommentDescription || isRemoteURI(cf.Text) {
			continue
		}
		keep = append(keep, cf)
	}

	tag.DeleteFrames(tag.CommonID("Comments"))
	for _, cf := range keep {
		tag.AddCommentFrame(cf)
	}
	if t.URI != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: uriCommentDescription,
			Text:        t.URI,
		})
	}

	if err := tag.Save(); err != nil {
		return &TrackError{
			Path:     t.Path,
			Message:  "failed to save ID3 tag",
			Original: err,
		}
	}
	return nil
}

// readURIComment finds the stored remote URI among the tag's comments.
// Comments labeled with the URI description win; otherwise any comment whose
// text is a well-formed remote URI is accepted, matching tags written by
// other library tools.
func readURIComment(tag *id3v2.Tag) string {
	fallback := ""
	for _, frame := range tag.GetFrames(tag.CommonID("Comments")) {
		cf, ok := frame.(id3v2.CommentFrame)
		if !ok {
			continue
		}
		text := strings.TrimSpace(cf.Text)
		if cf.Description == uriCommentDescription && isRemoteURI(text) {
			return text
		}
		if fallback == "" && isRemoteURI(text) {
			fallback = text
		}
	}
	return fallback
}

// isRemoteURI reports whether text is a parseable remote URI, including the
// explicit unavailable marker.
func isRemoteURI(text string) bool {
	if text == UnavailableURI {
		return true
	}
	if !strings.HasPrefix(text, "spotify:") {
		return false
	}
	_, _, err := ParseURI(text)
	return err == nil
}

// parseTagNumber extracts the leading number from values like "3" or "3/12".
func parseTagNumber(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if idx := strings.IndexByte(value, '/'); idx >= 0 {
		value = value[:idx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseTagYear reads the release year from TDRC (v2.4) or TYER (v2.3).
func parseTagYear(tag *id3v2.Tag) int {
	for _, id := range []string{"TDRC", "TYER"} {
		value := strings.TrimSpace(tag.GetTextFrame(tag.CommonID(id)).Text)
		if len(value) >= 4 {
			if year, err := strconv.Atoi(value[:4]); err == nil && year > 0 {
				return year
			}
		}
	}
	return 0
}

// parseTagFlag interprets the iTunes-style compilation flag.
func parseTagFlag(value string) bool {
	value = strings.TrimSpace(value)
	return value == "1" || strings.EqualFold(value, "true")
}
