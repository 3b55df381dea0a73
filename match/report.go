package match

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

// PrintReport writes the per-collection outcome table for a search run,
// followed by the aggregate line. Collections come out in name order; the
// aggregate line is printed even when the run only partially completed.
func PrintReport(w io.Writer, results map[string]*SearchResult) {
	green := color.New(color.FgGreen).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()
	yellow := color.New(color.FgYellow).SprintfFunc()
	bold := color.New(color.Bold).SprintfFunc()

	names := make([]string, 0, len(results))
	width := len("TOTAL")
	for name := range results {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		counts := results[name].Counts()
		fmt.Fprintf(w, "%-*s | %s | %s | %s\n",
			width, name,
			green("%4d matched", counts.Matched),
			red("%4d unmatched", counts.Unmatched),
			yellow("%4d skipped", counts.Skipped))
	}

	total := AggregateCounts(results)
	fmt.Fprintf(w, "%s | %s | %s | %s | %d total\n",
		bold("%-*s", width, "TOTAL"),
		green("%4d matched", total.Matched),
		red("%4d unmatched", total.Unmatched),
		yellow("%4d skipped", total.Skipped),
		total.Total)
}
