package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the theme file looked up in a directory by Load.
const FileName = "themekit.yaml"

// ErrEmptyConfig is returned when a theme file has no document in it.
var ErrEmptyConfig = errors.New("theme file is empty")

// ErrMultipleDocuments is returned when a theme file holds more than one
// YAML document.
var ErrMultipleDocuments = errors.New("theme file must contain a single document")

// Parse parses YAML (or JSON) content into a Config.
// Duplicate mapping keys and unknown fields are rejected by the decoder.
func Parse(content []byte) (Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, ErrEmptyConfig
		}
		return Config{}, fmt.Errorf("invalid theme file: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Config{}, ErrMultipleDocuments
	}

	if cfg.Content == nil {
		cfg.Content = []string{}
	}
	if cfg.Plugins == nil {
		cfg.Plugins = []string{}
	}
	return cfg, nil
}

// Load reads and parses themekit.yaml from the given directory
func Load(dir string) (Config, error) {
	return LoadFromPath(filepath.Join(dir, FileName))
}

// LoadFromPath reads and parses a theme file from the given path
func LoadFromPath(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("failed to read theme file: %w", err)
	}

	return Parse(content)
}

// ToYAML serializes the config to YAML with sorted mapping keys.
func (c Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(&c)
}

// ToJSON serializes the config to indented JSON.
func (c Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ToModule renders the config as a CommonJS module the style tool's config
// loader can pick up. Plugins are emitted as require() calls.
func (c Config) ToModule() ([]byte, error) {
	body := struct {
		Content []string `json:"content"`
		Theme   Theme    `json:"theme"`
	}{
		Content: c.Content,
		Theme:   c.Theme,
	}
	if body.Content == nil {
		body.Content = []string{}
	}

	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return nil, err
	}

	requires := make([]string, 0, len(c.Plugins))
	for _, p := range c.Plugins {
		ref, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		requires = append(requires, "require("+string(ref)+")")
	}

	var sb strings.Builder
	sb.WriteString("/** @type {import('tailwindcss').Config} */\n")
	sb.WriteString("module.exports = ")
	sb.WriteString(strings.TrimSuffix(string(data), "\n}"))
	sb.WriteString(",\n  \"plugins\": [")
	sb.WriteString(strings.Join(requires, ", "))
	sb.WriteString("]\n}\n")
	return []byte(sb.String()), nil
}
