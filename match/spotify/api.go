package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// defaultAPIBaseURL is the Web API root.
const defaultAPIBaseURL = "https://api.spotify.com/v1"

// addTracksChunkSize is the API's per-request cap for playlist additions.
const addTracksChunkSize = 100

// CreatedPlaylist identifies a playlist made for a verification round.
type CreatedPlaylist struct {
	ID   string
	Name string
	URL  string
}

// UserSession performs playlist operations as the authorized user. The
// catalog client stays on app credentials; only playlist writes need a user
// token.
type UserSession struct {
	http    *http.Client
	baseURL string
	userID  string
	limiter *RateLimiter
}

// NewUserSession resolves the current user profile with the given authorized
// client. The limiter is shared with the catalog client so both respect the
// same backoff; it may be nil.
func NewUserSession(ctx context.Context, client *http.Client, limiter *RateLimiter) (*UserSession, error) {
	s := &UserSession{http: client, baseURL: defaultAPIBaseURL, limiter: limiter}
	if err := s.resolveUser(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *UserSession) resolveUser(ctx context.Context) error {
	var me struct {
		ID string `json:"id"`
	}
	if err := s.request(ctx, http.MethodGet, "/me", nil, &me); err != nil {
		return err
	}
	if me.ID == "" {
		return &SpotifyError{Operation: "current_user", Message: "no user ID in profile"}
	}
	s.userID = me.ID
	return nil
}

// UserID returns the authorized user's ID.
func (s *UserSession) UserID() string {
	return s.userID
}

// CreatePlaylist creates a private playlist holding the given URIs.
func (s *UserSession) CreatePlaylist(ctx context.Context, name, description string, uris []string) (*CreatedPlaylist, error) {
	var created struct {
		ID           string `json:"id"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}
	body := map[string]interface{}{
		"name":        name,
		"public":      false,
		"description": description,
	}
	path := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.userID))
	if err := s.request(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, &SpotifyError{Operation: "create_playlist", Message: "no playlist ID in response"}
	}

	for start := 0; start < len(uris); start += addTracksChunkSize {
		end := start + addTracksChunkSize
		if end > len(uris) {
			end = len(uris)
		}
		addPath := fmt.Sprintf("/playlists/%s/tracks", created.ID)
		addBody := map[string]interface{}{"uris": uris[start:end]}
		if err := s.request(ctx, http.MethodPost, addPath, addBody, nil); err != nil {
			return nil, err
		}
	}

	return &CreatedPlaylist{ID: created.ID, Name: name, URL: created.ExternalURLs.Spotify}, nil
}

// UnfollowPlaylist removes the playlist from the user's account. Playlists
// are never deleted on Spotify, only unfollowed.
func (s *UserSession) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	path := fmt.Sprintf("/playlists/%s/followers", url.PathEscape(playlistID))
	return s.request(ctx, http.MethodDelete, path, nil, nil)
}

// request runs one API call, decoding the JSON response into out when it is
// non-nil.
func (s *UserSession) request(ctx context.Context, method, path string, body, out interface{}) error {
	operation := method + " " + path

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &SpotifyError{Operation: operation, Message: "failed to encode body", Original: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return &SpotifyError{Operation: operation, Message: "failed to build request", Original: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return &SpotifyError{Operation: operation, Message: "request failed", Original: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		if s.limiter != nil {
			s.limiter.Backoff(retryAfter)
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &SpotifyError{
			Operation: operation,
			Message:   fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
		}
	}

	if s.limiter != nil {
		s.limiter.ClearBackoff()
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &SpotifyError{Operation: operation, Message: "failed to decode response", Original: err}
		}
	}
	return nil
}

func parseRetryAfter(header string) int {
	if seconds, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && seconds > 0 {
		return seconds
	}
	return 1
}
