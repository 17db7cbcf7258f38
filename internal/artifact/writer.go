package artifact

import (
	"os"
	"path/filepath"
)

// WriteToFile writes the artifact to the specified path, creating parent directories if needed.
func (a ThemeArtifact) WriteToFile(path string) error {
	jsonBytes, err := a.ToJSON()
	if err != nil {
		return err
	}
	return WriteFile(path, jsonBytes)
}

// WriteFile writes data to path, creating parent directories if needed.
// The data goes to a temporary sibling first and is renamed into place.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
