package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sv4u/spotigo"
)

// Config holds configuration for the Spotify client wrapper.
type Config struct {
	// Spotify API credentials
	ClientID     string
	ClientSecret string

	// Cache configuration
	CacheMaxSize int
	CacheTTL     int

	// Rate limiting configuration
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   float64
}

// SpotifyClient is a wrapper around spotigo.Client that adds:
// - Proactive rate limiting with server backoff tracking
// - Response caching
// - Conversion of API responses into match candidates
type SpotifyClient struct {
	client      *spotigo.Client
	cache       *ResponseCache
	rateLimiter *RateLimiter
	config      *Config
}

// NewSpotifyClient creates a new Spotify client wrapper.
func NewSpotifyClient(config *Config) (*SpotifyClient, error) {
	auth, err := spotigo.NewClientCredentials(config.ClientID, config.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth: %w", err)
	}

	spotigoClient, err := spotigo.NewClient(auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotigo client: %w", err)
	}

	return &SpotifyClient{
		client:      spotigoClient,
		cache:       NewResponseCache(config.CacheMaxSize, config.CacheTTL),
		rateLimiter: NewRateLimiter(config.RateLimitEnabled, config.RateLimitRequests, config.RateLimitWindow),
		config:      config,
	}, nil
}

// applyRateLimiting waits for both the sliding window and any active server
// backoff before a request goes out.
func (c *SpotifyClient) applyRateLimiting(ctx context.Context) error {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return c.rateLimiter.Wait(ctx)
}

// handleError processes spotigo errors and updates backoff state.
func (c *SpotifyClient) handleError(operation string, err error) error {
	if err == nil {
		return nil
	}

	if c.isRateLimitError(err) {
		retryAfter := c.extractRetryAfter(err)
		c.rateLimiter.Backoff(retryAfter)
		return &RateLimitError{
			RetryAfter: retryAfter,
			Original:   err,
		}
	}

	return &SpotifyError{
		Operation: operation,
		Message:   "request failed",
		Original:  err,
	}
}

// isRateLimitError checks if an error is a rate limit error (HTTP 429).
func (c *SpotifyClient) isRateLimitError(err error) bool {
	if httpErr, ok := err.(interface {
		StatusCode() int
	}); ok {
		return httpErr.StatusCode() == http.StatusTooManyRequests
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

// extractRetryAfter extracts the Retry-After value from an error, defaulting
// to one second when the error does not carry one.
func (c *SpotifyClient) extractRetryAfter(err error) int {
	if httpErr, ok := err.(interface {
		RetryAfter() int
	}); ok {
		if retryAfter := httpErr.RetryAfter(); retryAfter > 0 {
			return retryAfter
		}
	}

	return 1
}

// BackoffRemaining reports how long the client still holds off requests
// after a server rate limit, zero when none is active.
func (c *SpotifyClient) BackoffRemaining() time.Duration {
	return c.rateLimiter.BackoffRemaining()
}

// RateLimiter exposes the limiter for sharing with a user session, so
// catalog reads and playlist writes respect one request budget.
func (c *SpotifyClient) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// ClearCache clears the response cache.
func (c *SpotifyClient) ClearCache() {
	c.cache.Clear()
}

// GetCacheStats returns cache statistics.
func (c *SpotifyClient) GetCacheStats() CacheStats {
	return c.cache.Stats()
}

// SearchTracks runs a track search and returns candidates in result order.
// An empty result list is not an error.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]Candidate, error) {
	cacheKey := fmt.Sprintf("search:track:%s", query)
	if cached := c.cache.Get(cacheKey); cached != nil {
		if candidates, ok := cached.([]Candidate); ok {
			return candidates, nil
		}
	}

	if err := c.applyRateLimiting(ctx); err != nil {
		return nil, err
	}

	response, err := c.client.Search(ctx, query, "track", &spotigo.SearchOptions{Limit: limit})
	if err != nil {
		return nil, c.handleError("search_tracks", err)
	}

	candidates := []Candidate{}
	if response.Tracks != nil {
		for _, track := range response.Tracks.Items {
			candidates = append(candidates, trackCandidate(track))
		}
	}

	c.cache.Set(cacheKey, candidates)
	c.rateLimiter.ClearBackoff()

	return candidates, nil
}

// SearchAlbums runs an album search and returns candidates in result order.
// An empty result list is not an error.
func (c *SpotifyClient) SearchAlbums(ctx context.Context, query string, limit int) ([]Candidate, error) {
	cacheKey := fmt.Sprintf("search:album:%s", query)
	if cached := c.cache.Get(cacheKey); cached != nil {
		if candidates, ok := cached.([]Candidate); ok {
			return candidates, nil
		}
	}

	if err := c.applyRateLimiting(ctx); err != nil {
		return nil, err
	}

	response, err := c.client.Search(ctx, query, "album", &spotigo.SearchOptions{Limit: limit})
	if err != nil {
		return nil, c.handleError("search_albums", err)
	}

	candidates := []Candidate{}
	if response.Albums != nil {
		for _, album := range response.Albums.Items {
			candidates = append(candidates, albumCandidate(album))
		}
	}

	c.cache.Set(cacheKey, candidates)
	c.rateLimiter.ClearBackoff()

	return candidates, nil
}

// AlbumTracks retrieves the full track listing of an album in disc and
// track order (cached).
func (c *SpotifyClient) AlbumTracks(ctx context.Context, albumID string) ([]Candidate, error) {
	id, err := spotigo.GetID(albumID, "album")
	if err != nil {
		return nil, fmt.Errorf("invalid album ID/URL: %w", err)
	}

	cacheKey := fmt.Sprintf("album_tracks:%s", id)
	if cached := c.cache.Get(cacheKey); cached != nil {
		if candidates, ok := cached.([]Candidate); ok {
			return candidates, nil
		}
	}

	if err := c.applyRateLimiting(ctx); err != nil {
		return nil, err
	}

	album, err := c.client.Album(ctx, id)
	if err != nil {
		return nil, c.handleError("album_tracks", err)
	}

	candidates := []Candidate{}
	if album.Tracks != nil {
		for _, track := range album.Tracks.Items {
			candidates = append(candidates, albumTrackCandidate(track, album))
		}

		// Paginate through remaining pages
		paging := album.Tracks
		for paging.GetNext() != nil {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("context cancelled during pagination: %w", err)
			}

			if err := c.applyRateLimiting(ctx); err != nil {
				return nil, err
			}
			paging, err = spotigo.NextGeneric[spotigo.SimplifiedTrack](c.client, ctx, paging)
			if err != nil {
				return nil, c.handleError("album_tracks", err)
			}
			if paging == nil {
				break
			}

			for _, track := range paging.Items {
				candidates = append(candidates, albumTrackCandidate(track, album))
			}
		}
	}

	c.cache.Set(cacheKey, candidates)
	c.rateLimiter.ClearBackoff()

	return candidates, nil
}
