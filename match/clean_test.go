package match

import (
	"testing"
	"time"

	"github.com/sv4u/musicmatch/match/library"
)

func TestCleanString(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"casefold", "Hello World", "hello world"},
		{"parenthetical", "Song (Remastered 2011)", "song"},
		{"bracketed", "Song [Live]", "song"},
		{"bracketed_feat", "Song (feat. Artist B)", "song"},
		{"feat", "Song feat. Artist B", "song"},
		{"ft", "Song Ft. B", "song"},
		{"featuring", "Song featuring Someone Else", "song"},
		{"feat_no_dot", "Song feat Artist", "song"},
		{"feat_inside_word", "Featherweight", "featherweight"},
		{"whitespace", "  Too   many\tspaces  ", "too many spaces"},
		{"dangling_separator", "Title - (Live)", "title"},
		{"slash_kept", "AC/DC", "ac/dc"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanString(tc.input)
			if got != tc.want {
				t.Errorf("CleanString(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if again := CleanString(got); again != got {
				t.Errorf("CleanString not idempotent: %q -> %q -> %q", tc.input, got, again)
			}
		})
	}
}

func TestIsKaraoke(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"party hits karaoke", true},
		{"song backing track", true},
		{"song instrumental", true},
		{"ordinary song", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsKaraoke(tc.input); got != tc.want {
			t.Errorf("IsKaraoke(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCleanerCleanTrack(t *testing.T) {
	cleaner := NewCleaner()
	track := &library.Track{
		Title:  "Song (Live)",
		Artist: "The Band feat. Guest",
		Album:  "",
		Length: 3*time.Minute + 2*time.Second,
	}

	tags := cleaner.Clean(track)

	if got := tags[library.TagTitle]; got != "song" {
		t.Errorf("title = %q, want %q", got, "song")
	}
	if got := tags[library.TagArtist]; got != "the band" {
		t.Errorf("artist = %q, want %q", got, "the band")
	}
	if _, ok := tags[library.TagAlbum]; ok {
		t.Error("empty album should not produce a cleaned tag")
	}
	if got := tags[library.TagLength]; got != "182" {
		t.Errorf("length = %q, want %q", got, "182")
	}
}

func TestCleanerCachesOnTrack(t *testing.T) {
	cleaner := NewCleaner()
	track := &library.Track{Title: "First Title"}

	first := cleaner.Clean(track)

	// The cached result must win over re-reading the raw tags.
	track.Title = "Changed Title"
	second := cleaner.Clean(track)

	if second[library.TagTitle] != first[library.TagTitle] {
		t.Errorf("second clean recomputed: got %q, want cached %q",
			second[library.TagTitle], first[library.TagTitle])
	}
	if track.CleanTags() == nil {
		t.Error("cleaned tags were not cached on the track")
	}
}

func TestCleanCollection(t *testing.T) {
	cleaner := NewCleaner()
	coll := &library.Collection{
		Name: "Greatest Hits (Deluxe Edition)",
		Tracks: []*library.Track{
			{Title: "One", Artist: "The Band", Length: 100 * time.Second},
			{Title: "Two", Artist: "The Band", Length: 140 * time.Second},
		},
	}

	tags := cleaner.CleanCollection(coll)

	if got := tags[library.TagAlbum]; got != "greatest hits" {
		t.Errorf("album = %q, want %q", got, "greatest hits")
	}
	if got := tags[library.TagArtist]; got != "the band" {
		t.Errorf("artist = %q, want %q", got, "the band")
	}
	if got := tags[library.TagLength]; got != "240" {
		t.Errorf("length = %q, want %q", got, "240")
	}
}
