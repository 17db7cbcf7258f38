package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"themekit/internal/theme"
)

// ThemeArtifact is the hashed, flattened form of a theme config
type ThemeArtifact struct {
	ConfigVersion string            `json:"configVersion"` // sha256:hex
	Values        map[string]string `json:"values"`        // token path -> value
}

// Generate creates an artifact from a theme config.
func Generate(cfg theme.Config) ThemeArtifact {
	values := cfg.Flatten()
	return ThemeArtifact{
		ConfigVersion: ComputeConfigVersion(values),
		Values:        values,
	}
}

// ComputeConfigVersion computes the SHA-256 hash of the values in canonical form.
// Returns the hash prefixed with "sha256:".
func ComputeConfigVersion(values map[string]string) string {
	canonical := canonicalValuesJSON(values)
	hash := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(hash[:])
}

// Short returns the first 12 hex digits of the version, for logs and ETags.
func (a ThemeArtifact) Short() string {
	const prefix = "sha256:"
	v := a.ConfigVersion
	if len(v) >= len(prefix)+12 {
		return v[len(prefix) : len(prefix)+12]
	}
	return v
}

// ToCanonicalJSON serializes the artifact to canonical JSON (sorted keys, no whitespace).
func (a ThemeArtifact) ToCanonicalJSON() ([]byte, error) {
	return canonicalArtifactJSON(a), nil
}

// ToJSON serializes the artifact to pretty-printed JSON for human readability.
func (a ThemeArtifact) ToJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// canonicalValuesJSON produces canonical JSON for just the values map.
// Keys are sorted alphabetically, no whitespace.
func canonicalValuesJSON(values map[string]string) []byte {
	if len(values) == 0 {
		return []byte("{}")
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		keyJSON, _ := json.Marshal(k)
		valueJSON, _ := json.Marshal(values[k])
		result = append(result, keyJSON...)
		result = append(result, ':')
		result = append(result, valueJSON...)
	}
	result = append(result, '}')
	return result
}

// canonicalArtifactJSON produces canonical JSON for the full artifact.
func canonicalArtifactJSON(a ThemeArtifact) []byte {
	// configVersion comes before values alphabetically
	configVersionJSON, _ := json.Marshal(a.ConfigVersion)
	valuesJSON := canonicalValuesJSON(a.Values)

	result := []byte(`{"configVersion":`)
	result = append(result, configVersionJSON...)
	result = append(result, `,"values":`...)
	result = append(result, valuesJSON...)
	result = append(result, '}')
	return result
}
