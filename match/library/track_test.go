package library

import (
	"testing"
	"time"
)

func TestStateOfURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want URIState
	}{
		{"empty is unknown", "", URIUnknown},
		{"marker is unavailable", UnavailableURI, URIUnavailable},
		{"real URI is set", "spotify:track:6rqhFgbbKwnb9MLmUQDhG6", URISet},
		{"album URI is set", "spotify:album:6dVIqQ8qmQ5GBnJ9shOYGE", URISet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOfURI(tt.uri); got != tt.want {
				t.Errorf("StateOfURI(%q) = %v, want %v", tt.uri, got, tt.want)
			}
		})
	}
}

func TestTrackURIState(t *testing.T) {
	track := &Track{Title: "Help!"}
	if track.URIState() != URIUnknown {
		t.Errorf("Expected unknown state, got %v", track.URIState())
	}

	track.URI = TrackURI("6rqhFgbbKwnb9MLmUQDhG6")
	if track.URIState() != URISet {
		t.Errorf("Expected set state, got %v", track.URIState())
	}

	track.URI = UnavailableURI
	if track.URIState() != URIUnavailable {
		t.Errorf("Expected unavailable state, got %v", track.URIState())
	}
}

func TestURIStateString(t *testing.T) {
	if URISet.String() != "available" {
		t.Errorf("Expected 'available', got %s", URISet.String())
	}
	if URIUnknown.String() != "missing" {
		t.Errorf("Expected 'missing', got %s", URIUnknown.String())
	}
	if URIUnavailable.String() != "unavailable" {
		t.Errorf("Expected 'unavailable', got %s", URIUnavailable.String())
	}
}

func TestTrackURIBuilders(t *testing.T) {
	if got := TrackURI("abc123"); got != "spotify:track:abc123" {
		t.Errorf("TrackURI = %s", got)
	}
	if got := AlbumURI("def456"); got != "spotify:album:def456" {
		t.Errorf("AlbumURI = %s", got)
	}
}

func TestParseURI(t *testing.T) {
	kind, id, err := ParseURI("spotify:track:6rqhFgbbKwnb9MLmUQDhG6")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if kind != "track" {
		t.Errorf("Expected kind track, got %s", kind)
	}
	if id != "6rqhFgbbKwnb9MLmUQDhG6" {
		t.Errorf("Expected ID 6rqhFgbbKwnb9MLmUQDhG6, got %s", id)
	}

	for _, bad := range []string{"", "spotify:track", "http://open.spotify.com/track/x", "spotify::x", "spotify:track:has spaces"} {
		if _, _, err := ParseURI(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestTrackModified(t *testing.T) {
	track := &Track{Title: "Taxman"}
	if track.Modified() {
		t.Error("Fresh track without URI should not be modified")
	}

	track.URI = TrackURI("abc")
	if !track.Modified() {
		t.Error("Track with newly assigned URI should be modified")
	}

	track.markSaved()
	if track.Modified() {
		t.Error("Track should not be modified after save")
	}

	track.URI = ""
	if !track.Modified() {
		t.Error("Clearing a saved URI should count as modified")
	}
}

func TestTrackCleanTagsCache(t *testing.T) {
	track := &Track{Title: "Something"}
	if track.CleanTags() != nil {
		t.Error("Expected no cached tags on a fresh track")
	}

	tags := map[Tag]string{TagTitle: "something"}
	track.SetCleanTags(tags)

	if track.CleanTag(TagTitle) != "something" {
		t.Errorf("Expected cached title, got %q", track.CleanTag(TagTitle))
	}
	if track.CleanTag(TagAlbum) != "" {
		t.Errorf("Expected empty value for uncached tag, got %q", track.CleanTag(TagAlbum))
	}
}

func TestTrackName(t *testing.T) {
	track := &Track{Title: "Yesterday", Artist: "The Beatles"}
	if track.Name() != "The Beatles - Yesterday" {
		t.Errorf("Unexpected name: %s", track.Name())
	}

	track.Artist = ""
	if track.Name() != "Yesterday" {
		t.Errorf("Unexpected name without artist: %s", track.Name())
	}
}

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		name   string
		artist string
		want   []string
	}{
		{"single", "The Beatles", []string{"The Beatles"}},
		{"semicolon", "Daft Punk; Pharrell Williams", []string{"Daft Punk", "Pharrell Williams"}},
		{"slash", "Simon/Garfunkel", []string{"Simon", "Garfunkel"}},
		{"ampersand stays whole", "Hall & Oates", []string{"Hall & Oates"}},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitArtists(tt.artist)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitArtists(%q) = %v, want %v", tt.artist, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitArtists(%q)[%d] = %q, want %q", tt.artist, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTagString(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
	}{
		{TagTitle, "title"},
		{TagArtist, "artist"},
		{TagAlbum, "album"},
		{TagAlbumArtist, "album_artist"},
		{TagTrackNumber, "track_number"},
		{TagYear, "year"},
		{TagLength, "length"},
	}
	for _, tt := range tests {
		if got := tt.tag.String(); got != tt.want {
			t.Errorf("Tag(%d).String() = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestTrackLengthField(t *testing.T) {
	track := &Track{Length: 245 * time.Second}
	if track.Length.Seconds() != 245 {
		t.Errorf("Expected 245 seconds, got %v", track.Length.Seconds())
	}
}
