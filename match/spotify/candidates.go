package spotify

import (
	"time"

	"github.com/sv4u/spotigo"

	"github.com/sv4u/musicmatch/match/library"
)

// Candidate is one remote result reduced to the fields scoring needs. Zero
// values mean the remote side did not provide the field.
type Candidate struct {
	ID          string
	URI         string
	Title       string
	Artists     []string
	Album       string
	AlbumID     string
	Length      time.Duration
	TrackCount  int
	TrackNumber int
	DiscNumber  int
	URL         string
}

// trackCandidate converts a full track from a search response.
func trackCandidate(t spotigo.Track) Candidate {
	c := Candidate{
		ID:          t.ID,
		URI:         library.TrackURI(t.ID),
		Title:       t.Name,
		Length:      time.Duration(t.DurationMs) * time.Millisecond,
		TrackNumber: t.TrackNumber,
		DiscNumber:  t.DiscNumber,
	}
	for _, artist := range t.Artists {
		c.Artists = append(c.Artists, artist.Name)
	}
	if t.Album != nil {
		c.Album = t.Album.Name
		c.AlbumID = t.Album.ID
	}
	if t.ExternalURLs != nil {
		c.URL = t.ExternalURLs.Spotify
	}
	return c
}

// albumCandidate converts a simplified album from a search response. Albums
// carry no play time until their tracks are fetched.
func albumCandidate(a spotigo.SimplifiedAlbum) Candidate {
	c := Candidate{
		ID:         a.ID,
		URI:        library.AlbumURI(a.ID),
		Title:      a.Name,
		Album:      a.Name,
		TrackCount: a.TotalTracks,
	}
	for _, artist := range a.Artists {
		c.Artists = append(c.Artists, artist.Name)
	}
	if a.ExternalURLs != nil {
		c.URL = a.ExternalURLs.Spotify
	}
	return c
}

// albumTrackCandidate converts one track of a fetched album listing. The
// album lends its name and artists, matching how simplified track objects
// omit them.
func albumTrackCandidate(st spotigo.SimplifiedTrack, album *spotigo.Album) Candidate {
	c := Candidate{
		ID:          st.ID,
		URI:         library.TrackURI(st.ID),
		Title:       st.Name,
		Length:      time.Duration(st.DurationMs) * time.Millisecond,
		TrackNumber: st.TrackNumber,
		DiscNumber:  st.DiscNumber,
	}
	for _, artist := range st.Artists {
		c.Artists = append(c.Artists, artist.Name)
	}
	if len(c.Artists) == 0 && album != nil {
		for _, artist := range album.Artists {
			c.Artists = append(c.Artists, artist.Name)
		}
	}
	if album != nil {
		c.Album = album.Name
		c.AlbumID = album.ID
	}
	if st.ExternalURLs != nil {
		c.URL = st.ExternalURLs.Spotify
	}
	return c
}
