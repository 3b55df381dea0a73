package spotify

import (
	"testing"
	"time"

	"github.com/sv4u/spotigo"
)

func TestTrackCandidate(t *testing.T) {
	track := spotigo.Track{
		ID:   "6rqhFgbbKwnb9MLmUQDhG6",
		Name: "Speak to Me",
		Artists: []spotigo.Artist{
			{Name: "Pink Floyd"},
		},
		Album: &spotigo.SimplifiedAlbum{
			ID:   "4LH4d3cOWNNsVw41Gqt2kv",
			Name: "The Dark Side of the Moon",
		},
		DurationMs:  90000,
		TrackNumber: 1,
		DiscNumber:  1,
		ExternalURLs: &spotigo.ExternalURLs{
			Spotify: "https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6",
		},
	}

	c := trackCandidate(track)

	if c.ID != "6rqhFgbbKwnb9MLmUQDhG6" {
		t.Errorf("Unexpected ID: %s", c.ID)
	}
	if c.URI != "spotify:track:6rqhFgbbKwnb9MLmUQDhG6" {
		t.Errorf("Unexpected URI: %s", c.URI)
	}
	if c.Title != "Speak to Me" {
		t.Errorf("Unexpected title: %s", c.Title)
	}
	if len(c.Artists) != 1 || c.Artists[0] != "Pink Floyd" {
		t.Errorf("Unexpected artists: %v", c.Artists)
	}
	if c.Album != "The Dark Side of the Moon" {
		t.Errorf("Unexpected album: %s", c.Album)
	}
	if c.AlbumID != "4LH4d3cOWNNsVw41Gqt2kv" {
		t.Errorf("Unexpected album ID: %s", c.AlbumID)
	}
	if c.Length != 90*time.Second {
		t.Errorf("Unexpected length: %v", c.Length)
	}
	if c.TrackNumber != 1 {
		t.Errorf("Unexpected track number: %d", c.TrackNumber)
	}
	if c.URL == "" {
		t.Error("Expected external URL")
	}
}

func TestTrackCandidateMissingFields(t *testing.T) {
	c := trackCandidate(spotigo.Track{ID: "abc", Name: "Sparse"})

	if c.Album != "" {
		t.Errorf("Expected empty album, got %q", c.Album)
	}
	if c.Length != 0 {
		t.Errorf("Expected zero length, got %v", c.Length)
	}
	if len(c.Artists) != 0 {
		t.Errorf("Expected no artists, got %v", c.Artists)
	}
}

func TestAlbumCandidate(t *testing.T) {
	album := spotigo.SimplifiedAlbum{
		ID:          "4LH4d3cOWNNsVw41Gqt2kv",
		Name:        "The Dark Side of the Moon",
		TotalTracks: 10,
	}

	c := albumCandidate(album)

	if c.URI != "spotify:album:4LH4d3cOWNNsVw41Gqt2kv" {
		t.Errorf("Unexpected URI: %s", c.URI)
	}
	if c.Album != "The Dark Side of the Moon" {
		t.Errorf("Unexpected album: %s", c.Album)
	}
	if c.Title != "The Dark Side of the Moon" {
		t.Errorf("Unexpected title: %s", c.Title)
	}
	if c.TrackCount != 10 {
		t.Errorf("Unexpected track count: %d", c.TrackCount)
	}
	if c.Length != 0 {
		t.Errorf("Album candidates carry no length before track fetch, got %v", c.Length)
	}
}

func TestAlbumTrackCandidate(t *testing.T) {
	album := &spotigo.Album{
		ID:   "4LH4d3cOWNNsVw41Gqt2kv",
		Name: "The Dark Side of the Moon",
	}
	track := spotigo.SimplifiedTrack{
		ID:   "2up3OPMp9Tb4dAKM2erWXQ",
		Name: "Time",
		Artists: []spotigo.SimplifiedArtist{
			{Name: "Pink Floyd"},
		},
		DurationMs:  413000,
		TrackNumber: 4,
		DiscNumber:  1,
	}

	c := albumTrackCandidate(track, album)

	if c.URI != "spotify:track:2up3OPMp9Tb4dAKM2erWXQ" {
		t.Errorf("Unexpected URI: %s", c.URI)
	}
	if c.Title != "Time" {
		t.Errorf("Unexpected title: %s", c.Title)
	}
	if c.Album != "The Dark Side of the Moon" {
		t.Errorf("Album listing should lend its name, got %q", c.Album)
	}
	if c.AlbumID != "4LH4d3cOWNNsVw41Gqt2kv" {
		t.Errorf("Unexpected album ID: %s", c.AlbumID)
	}
	if len(c.Artists) != 1 || c.Artists[0] != "Pink Floyd" {
		t.Errorf("Unexpected artists: %v", c.Artists)
	}
	if c.Length != 413*time.Second {
		t.Errorf("Unexpected length: %v", c.Length)
	}
	if c.TrackNumber != 4 {
		t.Errorf("Unexpected track number: %d", c.TrackNumber)
	}
}
