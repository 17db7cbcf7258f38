// Package drift compares the current theme tokens against a saved baseline.
package drift

import (
	"strings"
	"time"

	"themekit/internal/baseline"
	"themekit/internal/theme"
)

// ChangeType is the kind of change to one token path.
type ChangeType string

const (
	Added   ChangeType = "added"
	Removed ChangeType = "removed"
	Changed ChangeType = "changed"
)

// TokenDrift is a single token path that differs from the baseline.
type TokenDrift struct {
	Path          string     `json:"path"`
	Category      string     `json:"category"`
	Type          ChangeType `json:"type"`
	BaselineValue string     `json:"baselineValue,omitempty"`
	CurrentValue  string     `json:"currentValue,omitempty"`
}

// Report is the result of comparing tokens against a baseline.
type Report struct {
	HasDrift        bool           `json:"hasDrift"`
	BaselineName    string         `json:"baselineName"`
	BaselineVersion string         `json:"baselineVersion"`
	CurrentVersion  string         `json:"currentVersion"`
	BaselineTime    time.Time      `json:"baselineTime"`
	Changes         []TokenDrift   `json:"changes"`
	ByCategory      map[string]int `json:"byCategory"` // change count per top-level path segment
}

// Detect compares tokens (flattened token paths) at version against b.
// Equal versions short-circuit to an empty report.
func Detect(b baseline.Baseline, tokens map[string]string, version string) Report {
	report := Report{
		BaselineName:    b.Name,
		BaselineVersion: b.ConfigVersion,
		CurrentVersion:  version,
		BaselineTime:    b.Timestamp,
		Changes:         []TokenDrift{},
		ByCategory:      map[string]int{},
	}
	if b.ConfigVersion != "" && b.ConfigVersion == version {
		return report
	}

	paths := make(map[string]struct{}, len(b.Tokens)+len(tokens))
	for p := range b.Tokens {
		paths[p] = struct{}{}
	}
	for p := range tokens {
		paths[p] = struct{}{}
	}

	for _, p := range theme.SortedKeys(paths) {
		before, inBaseline := b.Tokens[p]
		after, inCurrent := tokens[p]

		change := TokenDrift{Path: p, Category: category(p)}
		switch {
		case inBaseline && !inCurrent:
			change.Type = Removed
			change.BaselineValue = before
		case !inBaseline && inCurrent:
			change.Type = Added
			change.CurrentValue = after
		case before != after:
			change.Type = Changed
			change.BaselineValue = before
			change.CurrentValue = after
		default:
			continue
		}
		report.Changes = append(report.Changes, change)
		report.ByCategory[change.Category]++
	}

	report.HasDrift = len(report.Changes) > 0
	return report
}

// category returns the first segment of a token path.
func category(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}
