package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"themekit/internal/artifact"
)

// DirEnv overrides the baseline directory.
const DirEnv = "THEMEKIT_BASELINE_DIR"

// ErrBaselineNotFound is returned when a baseline doesn't exist.
var ErrBaselineNotFound = errors.New("baseline not found")

// ErrInvalidName is returned for names that cannot be stored.
var ErrInvalidName = errors.New("invalid baseline name")

// Store keeps baselines as one JSON file per name.
type Store struct {
	Dir string
}

// NewStore creates a store with the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultDir returns the default baseline directory (~/.themekit/baselines).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".themekit", "baselines")
	}
	return filepath.Join(home, ".themekit", "baselines")
}

// ResolveDir returns the baseline directory from the environment or the default.
func ResolveDir(environ []string) string {
	prefix := DirEnv + "="
	for _, env := range environ {
		if strings.HasPrefix(env, prefix) {
			if dir := strings.TrimPrefix(env, prefix); dir != "" {
				return dir
			}
		}
	}
	return DefaultDir()
}

// Save stores a baseline, replacing any existing one with the same name.
func (s *Store) Save(b Baseline) error {
	path, err := s.path(b.Name)
	if err != nil {
		return err
	}
	if b.Tokens == nil {
		b.Tokens = map[string]string{}
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return artifact.WriteFile(path, data)
}

// Load retrieves a baseline by name.
func (s *Store) Load(name string) (Baseline, error) {
	path, err := s.path(name)
	if err != nil {
		return Baseline{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Baseline{}, ErrBaselineNotFound
		}
		return Baseline{}, err
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{}, fmt.Errorf("baseline %q is corrupt: %w", name, err)
	}
	return b, nil
}

// List returns all stored baselines as summaries, sorted by name.
// Unreadable or corrupt files are skipped.
func (s *Store) List() ([]BaselineSummary, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BaselineSummary{}, nil
		}
		return nil, err
	}

	summaries := []BaselineSummary{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			continue
		}
		var b Baseline
		if err := json.Unmarshal(data, &b); err != nil {
			continue
		}
		summaries = append(summaries, b.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// Delete removes a baseline by name.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBaselineNotFound
		}
		return err
	}
	return nil
}

// Exists checks if a baseline exists.
func (s *Store) Exists(name string) bool {
	path, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// path returns the file path for a baseline name.
func (s *Store) path(name string) (string, error) {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return filepath.Join(s.Dir, name+".json"), nil
}
