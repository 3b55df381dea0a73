package match

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/sv4u/musicmatch/match/config"
	"github.com/sv4u/musicmatch/match/library"
	"github.com/sv4u/musicmatch/match/logging"
	"github.com/sv4u/musicmatch/match/spotify"
)

// PlaylistService is the remote playlist surface the checker presents
// batches through.
type PlaylistService interface {
	CreatePlaylist(ctx context.Context, name, description string, uris []string) (*spotify.CreatedPlaylist, error)
	UnfollowPlaylist(ctx context.Context, playlistID string) error
}

// CheckState tracks one group through the verification flow. Accepted and
// rejected are terminal; a group is never re-presented.
type CheckState int

const (
	CheckPending CheckState = iota
	CheckPresented
	CheckAccepted
	CheckRejected
)

// String returns the state name used in logs.
func (s CheckState) String() string {
	switch s {
	case CheckPresented:
		return "presented"
	case CheckAccepted:
		return "accepted"
	case CheckRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// CheckGroup is one collection's tentative matches, verified as a unit.
type CheckGroup struct {
	Name   string
	Tracks []*library.Track

	state    CheckState
	playlist *spotify.CreatedPlaylist
}

// State returns the group's verification state.
func (g *CheckGroup) State() CheckState {
	return g.state
}

// uris collects the group's remote track URIs in track order.
func (g *CheckGroup) uris() []string {
	out := make([]string, 0, len(g.Tracks))
	for _, t := range g.Tracks {
		if t.URIState() == library.URISet {
			out = append(out, t.URI)
		}
	}
	return out
}

// GroupMatches builds check groups from collections, one per collection that
// has at least one track carrying a real URI. Collection order is kept.
func GroupMatches(collections []*library.Collection) []*CheckGroup {
	groups := make([]*CheckGroup, 0, len(collections))
	for _, coll := range collections {
		var tracks []*library.Track
		for _, t := range coll.Tracks {
			if t.URIState() == library.URISet {
				tracks = append(tracks, t)
			}
		}
		if len(tracks) > 0 {
			groups = append(groups, &CheckGroup{Name: coll.Name, Tracks: tracks})
		}
	}
	return groups
}

// GroupNewMatches builds check groups from a search run, covering only the
// tracks that run matched. Groups come out in collection name order.
func GroupNewMatches(results map[string]*SearchResult) []*CheckGroup {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]*CheckGroup, 0, len(names))
	for _, name := range names {
		r := results[name]
		if len(r.Matched) > 0 {
			groups = append(groups, &CheckGroup{Name: name, Tracks: r.Matched})
		}
	}
	return groups
}

// Checker presents tentative matches for human verification. Matched groups
// are turned into throwaway remote playlists a batch at a time; the user
// listens through them and accepts or rejects each group.
type Checker struct {
	playlists PlaylistService
	log       *logging.Logger
	interval  int
	policy    config.RejectPolicy
	in        io.Reader
	out       io.Writer
}

// NewChecker creates a checker reading decisions from stdin.
func NewChecker(playlists PlaylistService, log *logging.Logger, cfg config.CheckSettings) *Checker {
	interval := cfg.Interval
	if interval < 1 {
		interval = 10
	}
	policy := cfg.RejectPolicy
	if policy == "" {
		policy = config.RejectUnavailable
	}
	return &Checker{
		playlists: playlists,
		log:       log,
		interval:  interval,
		policy:    policy,
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

// Check walks the groups in batches of the configured interval. Rejecting a
// group resets its tracks' URIs according to the reject policy; accepting
// leaves them as they are. Typing q stops after the current batch, leaving
// the remaining groups untouched.
func (c *Checker) Check(ctx context.Context, groups []*CheckGroup) error {
	if len(groups) == 0 {
		fmt.Fprintln(c.out, "Nothing to verify.")
		return nil
	}

	reader := bufio.NewScanner(c.in)
	for start := 0; start < len(groups); start += c.interval {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + c.interval
		if end > len(groups) {
			end = len(groups)
		}
		batch := groups[start:end]

		if err := c.presentBatch(ctx, batch); err != nil {
			return err
		}
		quit := c.promptBatch(reader, batch)
		c.applyDecisions(batch)
		c.cleanupBatch(ctx, batch)
		if quit {
			break
		}
	}
	return nil
}

// presentBatch creates one verification playlist per group and prints the
// links to listen through.
func (c *Checker) presentBatch(ctx context.Context, batch []*CheckGroup) error {
	fmt.Fprintln(c.out)
	for _, group := range batch {
		playlist, err := c.playlists.CreatePlaylist(
			ctx,
			fmt.Sprintf("musicmatch: %s", group.Name),
			"Tentative matches pending verification",
			group.uris(),
		)
		if err != nil {
			return fmt.Errorf("failed to present %q: %w", group.Name, err)
		}
		group.playlist = playlist
		group.state = CheckPresented
		c.log.InfoWithCollection(group.Name, "presented for verification")

		link := playlist.URL
		if link == "" {
			link = playlist.ID
		}
		fmt.Fprintf(c.out, "  %s (%d tracks)\n    %s\n", color.New(color.Bold).Sprint(group.Name), len(group.Tracks), link)
	}
	return nil
}

// promptBatch reads the user's verdicts for one batch. An empty line accepts
// everything not rejected, a collection name toggles that group's rejection,
// and q accepts the rest and stops checking. Returns whether the user quit.
func (c *Checker) promptBatch(reader *bufio.Scanner, batch []*CheckGroup) bool {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Listen through the playlists above. Press enter to accept,")
	fmt.Fprintln(c.out, "type a collection name to toggle its rejection, or q to stop.")

	for {
		fmt.Fprint(c.out, "> ")
		if !reader.Scan() {
			return true
		}
		line := strings.TrimSpace(reader.Text())
		switch {
		case line == "":
			return false
		case strings.EqualFold(line, "q"):
			return true
		default:
			c.toggleRejection(batch, line)
		}
	}
}

// toggleRejection flips the named group between presented and rejected.
func (c *Checker) toggleRejection(batch []*CheckGroup, name string) {
	for _, group := range batch {
		if !strings.EqualFold(group.Name, name) {
			continue
		}
		if group.state == CheckRejected {
			group.state = CheckPresented
			fmt.Fprintf(c.out, "  %s %s\n", color.GreenString("kept"), group.Name)
		} else {
			group.state = CheckRejected
			fmt.Fprintf(c.out, "  %s %s\n", color.RedString("rejected"), group.Name)
		}
		return
	}
	fmt.Fprintf(c.out, "  no collection named %q in this batch\n", name)
}

// applyDecisions finalizes the batch. Groups left presented become accepted;
// rejected groups have their URIs reset per the reject policy so they no
// longer count as matched.
func (c *Checker) applyDecisions(batch []*CheckGroup) {
	for _, group := range batch {
		switch group.state {
		case CheckRejected:
			for _, t := range group.Tracks {
				c.rejectTrack(t)
			}
			c.log.InfoWithCollection(group.Name, "matches rejected")
		case CheckPresented:
			group.state = CheckAccepted
			c.log.InfoWithCollection(group.Name, "matches accepted")
		}
	}
}

// rejectTrack resets one track's URI according to the policy.
func (c *Checker) rejectTrack(t *library.Track) {
	if c.policy == config.RejectUnknown {
		t.URI = ""
		return
	}
	t.URI = library.UnavailableURI
}

// cleanupBatch unfollows the verification playlists. Failures only warn; a
// leftover playlist is harmless.
func (c *Checker) cleanupBatch(ctx context.Context, batch []*CheckGroup) {
	for _, group := range batch {
		if group.playlist == nil {
			continue
		}
		if err := c.playlists.UnfollowPlaylist(ctx, group.playlist.ID); err != nil {
			c.log.WarnWithCollection(group.Name, fmt.Sprintf("failed to remove verification playlist %s", group.playlist.ID))
		}
		group.playlist = nil
	}
}
