package drift

import (
	"encoding/json"
	"fmt"
	"strings"

	"themekit/internal/theme"
)

// FormatCLI formats a report for terminal output. Empty when there is no drift.
func FormatCLI(report Report) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Theme drift since baseline '%s' (%s):\n", report.BaselineName, report.BaselineTime.Format("2006-01-02 15:04:05"))
	for _, change := range report.Changes {
		switch change.Type {
		case Added:
			fmt.Fprintf(&sb, "  + %s: (new) → %s\n", change.Path, change.CurrentValue)
		case Removed:
			fmt.Fprintf(&sb, "  - %s: %s → (removed)\n", change.Path, change.BaselineValue)
		case Changed:
			fmt.Fprintf(&sb, "  ~ %s: %s → %s\n", change.Path, change.BaselineValue, change.CurrentValue)
		}
	}

	counts := make([]string, 0, len(report.ByCategory))
	for _, cat := range theme.SortedKeys(report.ByCategory) {
		counts = append(counts, fmt.Sprintf("%s %d", cat, report.ByCategory[cat]))
	}
	fmt.Fprintf(&sb, "\n%d change(s): %s\n", len(report.Changes), strings.Join(counts, ", "))
	return sb.String()
}

// FormatCI formats a report as GitHub Actions warning annotations on file.
func FormatCI(report Report, file string) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder
	for _, change := range report.Changes {
		var msg string
		switch change.Type {
		case Added:
			msg = fmt.Sprintf("Theme drift: %s added (value: %s)", change.Path, change.CurrentValue)
		case Removed:
			msg = fmt.Sprintf("Theme drift: %s removed (was: %s)", change.Path, change.BaselineValue)
		case Changed:
			msg = fmt.Sprintf("Theme drift: %s changed from '%s' to '%s'", change.Path, change.BaselineValue, change.CurrentValue)
		}
		fmt.Fprintf(&sb, "::warning file=%s::%s\n", file, msg)
	}
	fmt.Fprintf(&sb, "\nTheme drift detected: %d change(s) since baseline '%s'\n", len(report.Changes), report.BaselineName)
	return sb.String()
}

// FormatJSON formats a report as indented JSON.
func FormatJSON(report Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
