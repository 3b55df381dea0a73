package config

import (
	"fmt"
	"os"
	"strings"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// RejectPolicy controls what happens to a track's URI when the user rejects
// its tentative match during an interactive check.
type RejectPolicy string

const (
	// RejectUnavailable marks rejected tracks as explicitly unavailable so
	// future searches skip them.
	RejectUnavailable RejectPolicy = "unavailable"
	// RejectUnknown clears rejected tracks back to the unsearched state so
	// the next search retries them.
	RejectUnknown RejectPolicy = "unknown"
)

// LibrarySettings holds local library configuration.
type LibrarySettings struct {
	// Path is the root folder scanned for audio files (required)
	Path string `yaml:"path"`
}

// KindSettings holds optional per-kind search threshold overrides.
// Zero values mean "use the built-in default".
type KindSettings struct {
	ResultCount int     `yaml:"result_count"`
	MinScore    float64 `yaml:"min_score"`
	MaxScore    float64 `yaml:"max_score"`
}

// SearchSettings holds search workflow configuration.
type SearchSettings struct {
	// Worker pool bounds
	MaxCollections int `yaml:"max_collections"`
	MaxItems       int `yaml:"max_items"`

	// Karaoke candidates are excluded unless enabled
	AllowKaraoke bool `yaml:"allow_karaoke"`

	// Per-kind threshold overrides
	Track KindSettings `yaml:"track"`
	Album KindSettings `yaml:"album"`
}

// SetDefaults sets default values for SearchSettings.
func (s *SearchSettings) SetDefaults() {
	if s.MaxCollections == 0 {
		s.MaxCollections = 8
	}
	if s.MaxItems == 0 {
		s.MaxItems = 16
	}
}

// Validate validates SearchSettings.
func (s *SearchSettings) Validate() error {
	if s.MaxCollections < 1 || s.MaxCollections > 64 {
		return &ConfigError{
			Message: fmt.Sprintf("Invalid search.max_collections: %d. Must be between 1 and 64", s.MaxCollections),
		}
	}
	if s.MaxItems < 1 || s.MaxItems > 64 {
		return &ConfigError{
			Message: fmt.Sprintf("Invalid search.max_items: %d. Must be between 1 and 64", s.MaxItems),
		}
	}
	for name, kind := range map[string]KindSettings{"track": s.Track, "album": s.Album} {
		if kind.MinScore < 0 || kind.MinScore > 1 {
			return &ConfigError{
				Message: fmt.Sprintf("Invalid search.%s.min_score: %v. Must be between 0 and 1", name, kind.MinScore),
			}
		}
		if kind.MaxScore < 0 || kind.MaxScore > 1 {
			return &ConfigError{
				Message: fmt.Sprintf("Invalid search.%s.max_score: %v. Must be between 0 and 1", name, kind.MaxScore),
			}
		}
		if kind.MinScore > 0 && kind.MaxScore > 0 && kind.MinScore > kind.MaxScore {
			return &ConfigError{
				Message: fmt.Sprintf("Invalid search.%s scores: min_score %v exceeds max_score %v", name, kind.MinScore, kind.MaxScore),
			}
		}
		if kind.ResultCount < 0 || kind.ResultCount > 50 {
			return &ConfigError{
				Message: fmt.Sprintf("Invalid search.%s.result_count: %d. Must be between 1 and 50", name, kind.ResultCount),
			}
		}
	}
	return nil
}

// CheckSettings holds interactive check configuration.
type CheckSettings struct {
	// Interval is the number of collections presented per batch
	Interval int `yaml:"interval"`
	// RejectPolicy decides the URI state written on rejection
	RejectPolicy RejectPolicy `yaml:"reject_policy"`
}

// SetDefaults sets default values for CheckSettings.
func (c *CheckSettings) SetDefaults() {
	if c.Interval == 0 {
		c.Interval = 10
	}
	if c.RejectPolicy == "" {
		c.RejectPolicy = RejectUnavailable
	}
}

// Validate validates CheckSettings.
func (c *CheckSettings) Validate() error {
	if c.Interval < 1 {
		return &ConfigError{
			Message: fmt.Sprintf("Invalid check.interval: %d. Must be at least 1", c.Interval),
		}
	}
	if c.RejectPolicy != RejectUnavailable && c.RejectPolicy != RejectUnknown {
		return &ConfigError{
			Message: fmt.Sprintf("Invalid check.reject_policy: %s. Must be one of: unavailable, unknown", c.RejectPolicy),
		}
	}
	return nil
}

// SpotifySettings holds remote API configuration.
type SpotifySettings struct {
	// Credentials; empty values fall back to the SPOTIFY_CLIENT_ID and
	// SPOTIFY_CLIENT_SECRET environment variables
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// User authorization for playlist writes
	RedirectURI string `yaml:"redirect_uri"`
	TokenPath   string `yaml:"token_path"`

	// Response cache settings
	CacheMaxSize int `yaml:"cache_max_size"`
	CacheTTL     int `yaml:"cache_ttl"`

	// Rate limiting settings
	RateLimitEnabled  bool    `yaml:"rate_limit_enabled"`
	RateLimitRequests int     `yaml:"rate_limit_requests"`
	RateLimitWindow   float64 `yaml:"rate_limit_window"`
}

// SetDefaults sets default values for SpotifySettings.
func (s *SpotifySettings) SetDefaults() {
	if s.ClientID == "" {
		s.ClientID = os.Getenv("SPOTIFY_CLIENT_ID")
	}
	if s.ClientSecret == "" {
		s.ClientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	}
	if s.RedirectURI == "" {
		s.RedirectURI = "http://localhost:8017/callback"
	}
	if s.TokenPath == "" {
		s.TokenPath = ".cache/token.json"
	}
	if s.CacheMaxSize == 0 {
		s.CacheMaxSize = 1000
	}
	if s.CacheTTL == 0 {
		s.CacheTTL = 3600
	}
	if !s.RateLimitEnabled && s.RateLimitRequests == 0 {
		s.RateLimitEnabled = true
	}
	if s.RateLimitRequests == 0 {
		s.RateLimitRequests = 10
	}
	if s.RateLimitWindow == 0 {
		s.RateLimitWindow = 1.0
	}
}

// Validate validates SpotifySettings.
func (s *SpotifySettings) Validate() error {
	s.ClientID = strings.TrimSpace(s.ClientID)
	s.ClientSecret = strings.TrimSpace(s.ClientSecret)

	missing := []string{}
	if s.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if s.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if len(missing) > 0 {
		return &ConfigError{
			Message: fmt.Sprintf(
				"Missing Spotify %s. Provide spotify.client_id and spotify.client_secret in the configuration file or set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET",
				strings.Join(missing, " and "),
			),
		}
	}
	return nil
}

// LoggingSettings holds log file configuration.
type LoggingSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// SetDefaults sets default values for LoggingSettings.
func (l *LoggingSettings) SetDefaults() {
	if l.Path == "" {
		l.Path = ".logs/musicmatch.log"
	}
	if l.Level == "" {
		l.Level = "info"
	}
}

// Validate validates LoggingSettings.
func (l *LoggingSettings) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return &ConfigError{
			Message: fmt.Sprintf("Invalid logging.level: %s. Must be one of: debug, info, warn, error", l.Level),
		}
	}
	return nil
}

// MatchConfig represents the main configuration model.
type MatchConfig struct {
	Version string          `yaml:"version"`
	Library LibrarySettings `yaml:"library"`
	Spotify SpotifySettings `yaml:"spotify"`
	Search  SearchSettings  `yaml:"search"`
	Check   CheckSettings   `yaml:"check"`
	Logging LoggingSettings `yaml:"logging"`
}

// SetDefaults sets default values for all sections.
func (c *MatchConfig) SetDefaults() {
	c.Spotify.SetDefaults()
	c.Search.SetDefaults()
	c.Check.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate validates MatchConfig.
func (c *MatchConfig) Validate() error {
	if c.Version != "1" {
		return &ConfigError{
			Message: fmt.Sprintf("Invalid version: %s. Expected 1", c.Version),
		}
	}
	if strings.TrimSpace(c.Library.Path) == "" {
		return &ConfigError{
			Message: "Missing library.path. The local library root folder must be configured",
		}
	}
	if err := c.Spotify.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Check.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
