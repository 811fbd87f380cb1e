package radarr

import (
	"fmt"
	"strings"
)

// FormatPushResults formats push results as a tree for console display
func FormatPushResults(results []PushResult) string {
	if len(results) == 0 {
		return "No movies to push"
	}

	var sb strings.Builder
	counts := make(map[PushStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}

	fmt.Fprintf(&sb, "\nRadarr (%d):\n\n", len(results))

	for i, r := range results {
		isLast := i == len(results)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(&sb, "%s── %s", prefix, r.Candidate.Title)
		if r.Candidate.Year > 0 {
			fmt.Fprintf(&sb, " (%d)", r.Candidate.Year)
		}
		sb.WriteString("\n")

		switch r.Status {
		case StatusAdded:
			fmt.Fprintf(&sb, "%sAdded (Radarr ID %d)\n", indent, r.RadarrID)
		case StatusExists:
			fmt.Fprintf(&sb, "%sAlready in Radarr (ID %d)\n", indent, r.RadarrID)
		case StatusWouldAdd:
			fmt.Fprintf(&sb, "%sWould add (dry run)\n", indent)
		case StatusFailed:
			fmt.Fprintf(&sb, "%sFailed: %v\n", indent, r.Err)
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	fmt.Fprintf(&sb, "\nAdded: %d | Existing: %d | Dry run: %d | Failed: %d\n",
		counts[StatusAdded], counts[StatusExists], counts[StatusWouldAdd], counts[StatusFailed])
	return sb.String()
}
