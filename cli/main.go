package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sv4u/musicmatch/match"
	"github.com/sv4u/musicmatch/match/config"
	"github.com/sv4u/musicmatch/match/logging"
	"github.com/sv4u/musicmatch/match/spotify"
)

var (
	// Version is set at build time via ldflags
	// Example: go build -ldflags="-X main.Version=v1.2.3"
	Version = "dev"
)

const (
	// Default config path
	defaultConfigPath = "config.yaml"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// Handle version command
	if command == "version" || command == "--version" || command == "-v" {
		fmt.Printf("musicmatch version %s\n", Version)
		os.Exit(0)
	}

	switch command {
	case "search":
		searchCommand()
	case "check":
		checkCommand()
	case "sync":
		syncCommand()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `musicmatch - Match a local music library against Spotify

USAGE:
    musicmatch <command> [flags]

COMMANDS:
    search     Find Spotify matches for unresolved tracks and record their URIs
    check      Verify tentative matches through throwaway playlists
    sync       Search, then verify the new matches in one session
    version    Show version information

FLAGS:
    -h, --help    Show this help message

EXAMPLES:
    musicmatch search --config config.yaml
    musicmatch search --no-save
    musicmatch sync --library /mnt/music

For more information, see https://github.com/sv4u/musicmatch
`)
}

func searchCommand() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	libraryPath := fs.String("library", "", "Override the configured library root")
	noSave := fs.Bool("no-save", false, "Report matches without writing URIs into files")

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	cfg, err := loadMatchConfig(*configPath, *libraryPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Path, "musicmatch")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	service, client, err := createMatchService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create match service: %v", err)
	}
	service.DryRun = *noSave

	ctx, cancel := signalContext()
	defer cancel()

	log.Printf("musicmatch version %s", Version)
	log.Printf("Starting search...")
	exitOnError("Search", service.Search(ctx))
	printCacheStats(client, cfg.Spotify.CacheTTL)
}

func checkCommand() {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	libraryPath := fs.String("library", "", "Override the configured library root")

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	cfg, err := loadMatchConfig(*configPath, *libraryPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Path, "musicmatch-check")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	service, _, err := createMatchService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create match service: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Printf("musicmatch version %s", Version)
	log.Printf("Starting interactive check...")
	exitOnError("Check", service.Check(ctx))
}

func syncCommand() {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	libraryPath := fs.String("library", "", "Override the configured library root")

	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Error parsing flags: %v", err)
	}

	cfg, err := loadMatchConfig(*configPath, *libraryPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Path, "musicmatch-sync")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	service, client, err := createMatchService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create match service: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Printf("musicmatch version %s", Version)
	log.Printf("Starting sync...")
	exitOnError("Sync", service.Sync(ctx))
	printCacheStats(client, cfg.Spotify.CacheTTL)
}

// loadMatchConfig loads configuration from file. A .env file is applied
// first so credential fallbacks resolve, and a non-empty libraryPath
// overrides the configured library root.
func loadMatchConfig(configPath, libraryPath string) (*config.MatchConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if libraryPath != "" {
		cfg.Library.Path = libraryPath
	}
	return cfg, nil
}

// createMatchService creates a match service with the given configuration.
func createMatchService(cfg *config.MatchConfig, logger *logging.Logger) (*match.Service, *spotify.SpotifyClient, error) {
	// Create Spotify client for catalog searches
	spotifyConfig := &spotify.Config{
		ClientID:          cfg.Spotify.ClientID,
		ClientSecret:      cfg.Spotify.ClientSecret,
		CacheMaxSize:      cfg.Spotify.CacheMaxSize,
		CacheTTL:          cfg.Spotify.CacheTTL,
		RateLimitEnabled:  cfg.Spotify.RateLimitEnabled,
		RateLimitRequests: cfg.Spotify.RateLimitRequests,
		RateLimitWindow:   cfg.Spotify.RateLimitWindow,
	}
	client, err := spotify.NewSpotifyClient(spotifyConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Spotify client: %w", err)
	}

	// Playlist writes need user authorization, which is interactive, so the
	// session is only opened when a check actually runs. It shares the
	// client's rate limiter so reads and writes respect one request budget.
	playlists := func(ctx context.Context) (match.PlaylistService, error) {
		auth := spotify.NewAuthenticator(
			cfg.Spotify.ClientID,
			cfg.Spotify.ClientSecret,
			cfg.Spotify.RedirectURI,
			cfg.Spotify.TokenPath,
		)
		httpClient, err := auth.Client(ctx)
		if err != nil {
			return nil, err
		}
		return spotify.NewUserSession(ctx, httpClient, client.RateLimiter())
	}

	return match.NewService(cfg, logger, client, playlists), client, nil
}

// printCacheStats prints response cache statistics.
func printCacheStats(client *spotify.SpotifyClient, ttlSeconds int) {
	stats := client.GetCacheStats()

	log.Println("Spotify API Cache:")
	log.Printf("  Size: %d/%d entries", stats.Size, stats.MaxSize)
	log.Printf("  TTL: %ds (%dh)", ttlSeconds, ttlSeconds/3600)
	log.Printf("  Hits: %d, Misses: %d", stats.Hits, stats.Misses)
	log.Printf("  Hit Rate: %.2f%%", stats.HitRate*100)
	if stats.Evictions > 0 {
		log.Printf("  Evictions: %d", stats.Evictions)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v, cancelling...", sig)
		cancel()
	}()

	return ctx, cancel
}

// exitOnError reports a command failure and exits. Cancellation exits with
// code 130 so shells see the interrupt.
func exitOnError(operation string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		log.Printf("%s cancelled", operation)
		os.Exit(130)
	}
	log.Fatalf("%s failed: %v", operation, err)
}
