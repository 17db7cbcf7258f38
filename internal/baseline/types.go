package baseline

import "time"

// Baseline is a saved snapshot of a theme's flattened tokens.
type Baseline struct {
	Name          string            `json:"name"`
	ConfigVersion string            `json:"configVersion"` // sha256 of the tokens at save time
	Tokens        map[string]string `json:"tokens"`        // token path -> value
	Source        string            `json:"source"`        // theme file path, or "builtin"
	Timestamp     time.Time         `json:"timestamp"`
}

// BaselineSummary is a lightweight view for listing baselines.
type BaselineSummary struct {
	Name          string    `json:"name"`
	ConfigVersion string    `json:"configVersion"`
	Source        string    `json:"source"`
	TokenCount    int       `json:"tokenCount"`
	Timestamp     time.Time `json:"timestamp"`
}

// Summary returns the listing view of b.
func (b Baseline) Summary() BaselineSummary {
	return BaselineSummary{
		Name:          b.Name,
		ConfigVersion: b.ConfigVersion,
		Source:        b.Source,
		TokenCount:    len(b.Tokens),
		Timestamp:     b.Timestamp,
	}
}
