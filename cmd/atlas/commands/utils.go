// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Output helpers used by the places, search, and recommend tables
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/2389-research/atlas/internal/models"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// printJSON writes v as indented JSON
func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(out, "%s\n", data)
	return nil
}

// printPlaceTable renders places in the shared tabular layout
func printPlaceTable(out io.Writer, places []models.Place) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCATEGORY\tRATING\tVISITS\tLAST VISIT\tSENTIMENT\n")
	fmt.Fprintf(w, "----\t--------\t------\t------\t----------\t---------\n")

	for _, p := range places {
		lastVisit := "never"
		if p.LastVisited != nil {
			lastVisit = formatTime(*p.LastVisited)
		}
		category := p.Category
		if category == "" {
			category = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%s\t%s\n",
			truncate(p.Name, 30),
			truncate(category, 15),
			p.EffectiveRating(),
			p.VisitCount,
			lastVisit,
			p.Sentiment)
	}
	w.Flush()
}
