package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"themekit/internal/theme"
)

// builtinSource names the compiled-in theme in output and baselines.
const builtinSource = "builtin"

// resolveConfigPath picks the theme file: --config, then $THEMEKIT_CONFIG,
// then themekit.yaml in the working directory. Empty means the built-in theme.
func (a *app) resolveConfigPath() string {
	if a.configPath != "" {
		return a.abs(a.configPath)
	}
	if p, ok := lookupEnv(a.environ, "THEMEKIT_CONFIG"); ok && p != "" {
		return a.abs(p)
	}
	candidate := filepath.Join(a.dir, theme.FileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func (a *app) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dir, p)
}

// loadTheme returns the active theme and where it came from.
func (a *app) loadTheme() (theme.Config, string, error) {
	path := a.resolveConfigPath()
	if path == "" {
		a.log.V(1).Info("using built-in theme")
		return theme.Default(), builtinSource, nil
	}

	cfg, err := theme.LoadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return theme.Config{}, path, fail(exitConfigLoad, "theme file not found: %s", path)
		}
		return theme.Config{}, path, fail(exitConfigLoad, "failed to load theme %s: %v", path, err)
	}
	a.log.V(1).Info("loaded theme", "path", path)
	return cfg, path, nil
}

// annotationFile is the file CI annotations point at, relative to the
// working directory when possible.
func (a *app) annotationFile(source string) string {
	if source == builtinSource {
		return theme.FileName
	}
	if rel, err := filepath.Rel(a.dir, source); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return source
}
