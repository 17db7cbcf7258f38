package validator

import (
	"fmt"
	"strings"

	"themekit/internal/content"
	"themekit/internal/cssvalue"
	"themekit/internal/theme"
)

// ErrorKind classifies a validation failure
type ErrorKind string

const (
	KindStructural  ErrorKind = "structural"  // malformed name or literal
	KindReferential ErrorKind = "referential" // animation names missing keyframes
	KindContent     ErrorKind = "content"     // content pattern list problems
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Path    string    `json:"path"`              // Token path (e.g., "colors.primary")
	Kind    ErrorKind `json:"kind"`              // structural, referential or content
	Message string    `json:"message"`           // Human-readable error message
	Value   string    `json:"value,omitempty"`   // The offending value (if any)
	Allowed []string  `json:"allowed,omitempty"` // For referential errors, the defined keyframes
}

// ValidationResult contains all validation outcomes
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

type valueCheck func(string) error

// Validate checks a theme config and collects every error rather than
// stopping at the first one. Errors come out in a stable order: content,
// then each category with names sorted, then plugins.
func Validate(cfg theme.Config) ValidationResult {
	var errs []ValidationError

	errs = append(errs, validateContent(cfg.Content)...)

	e := cfg.Theme.Extend
	errs = append(errs, validateTokens(theme.CategoryColors, e.Colors, cssvalue.Color)...)
	errs = append(errs, validateTokens(theme.CategoryBackgroundImage, e.BackgroundImage, cssvalue.Image)...)
	errs = append(errs, validateTokens(theme.CategoryBackgroundColor, e.BackgroundColor, cssvalue.Color)...)
	errs = append(errs, validateTokens(theme.CategoryBoxShadow, e.BoxShadow, cssvalue.Shadow)...)
	errs = append(errs, validateTokens(theme.CategoryBackdropBlur, e.BackdropBlur, cssvalue.Length)...)
	errs = append(errs, validateFonts(e.FontFamily)...)
	errs = append(errs, validateKeyframes(e.Keyframes)...)
	errs = append(errs, validateAnimations(e.Animation, e.Keyframes)...)
	errs = append(errs, validatePlugins(cfg.Plugins)...)

	if errs == nil {
		errs = []ValidationError{}
	}
	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func validateContent(patterns []string) []ValidationError {
	if len(patterns) == 0 {
		return []ValidationError{{
			Path:    "content",
			Kind:    KindContent,
			Message: "at least one content pattern is required",
		}}
	}

	var errs []ValidationError
	for i, p := range patterns {
		if _, err := content.CompilePattern(p); err != nil {
			errs = append(errs, ValidationError{
				Path:    fmt.Sprintf("content[%d]", i),
				Kind:    KindContent,
				Message: err.Error(),
				Value:   p,
			})
		}
	}
	return errs
}

func tokenPath(cat theme.Category, name string) string {
	return string(cat) + "." + name
}

// checkName reports names that cannot become a class suffix.
func checkName(cat theme.Category, name string) *ValidationError {
	if name == "" {
		return &ValidationError{Path: string(cat), Kind: KindStructural, Message: "empty token name"}
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return &ValidationError{
			Path:    tokenPath(cat, name),
			Kind:    KindStructural,
			Message: "token name contains whitespace",
		}
	}
	return nil
}

func validateTokens(cat theme.Category, tokens map[string]string, check valueCheck) []ValidationError {
	var errs []ValidationError
	for _, name := range theme.SortedKeys(tokens) {
		if nerr := checkName(cat, name); nerr != nil {
			errs = append(errs, *nerr)
			continue
		}
		value := tokens[name]
		if err := check(value); err != nil {
			errs = append(errs, ValidationError{
				Path:    tokenPath(cat, name),
				Kind:    KindStructural,
				Message: err.Error(),
				Value:   value,
			})
		}
	}
	return errs
}

func validateFonts(families map[string][]string) []ValidationError {
	var errs []ValidationError
	for _, alias := range theme.SortedKeys(families) {
		if nerr := checkName(theme.CategoryFontFamily, alias); nerr != nil {
			errs = append(errs, *nerr)
			continue
		}
		stack := families[alias]
		path := tokenPath(theme.CategoryFontFamily, alias)
		if len(stack) == 0 {
			errs = append(errs, ValidationError{Path: path, Kind: KindStructural, Message: "font stack is empty"})
			continue
		}
		seen := make(map[string]bool)
		for i, font := range stack {
			fpath := fmt.Sprintf("%s[%d]", path, i)
			if err := cssvalue.FontName(font); err != nil {
				errs = append(errs, ValidationError{Path: fpath, Kind: KindStructural, Message: err.Error(), Value: font})
				continue
			}
			key := strings.ToLower(font)
			if seen[key] {
				errs = append(errs, ValidationError{Path: fpath, Kind: KindStructural, Message: "font listed twice in stack", Value: font})
			}
			seen[key] = true
		}
	}
	return errs
}

func validateKeyframes(keyframes map[string]theme.Keyframe) []ValidationError {
	var errs []ValidationError
	for _, name := range theme.SortedKeys(keyframes) {
		if nerr := checkName(theme.CategoryKeyframes, name); nerr != nil {
			errs = append(errs, *nerr)
			continue
		}
		kf := keyframes[name]
		path := tokenPath(theme.CategoryKeyframes, name)
		if len(kf) == 0 {
			errs = append(errs, ValidationError{Path: path, Kind: KindStructural, Message: "keyframes have no steps"})
			continue
		}

		seenOffsets := make(map[float64]string)
		for _, offset := range kf.Offsets() {
			opath := path + "." + offset
			pct, ok := theme.OffsetPercent(offset)
			if !ok {
				errs = append(errs, ValidationError{
					Path:    opath,
					Kind:    KindStructural,
					Message: "offset must be 'from', 'to' or a percentage in 0-100%",
					Value:   offset,
				})
				continue
			}
			if prev, dup := seenOffsets[pct]; dup {
				errs = append(errs, ValidationError{
					Path:    opath,
					Kind:    KindStructural,
					Message: fmt.Sprintf("offset duplicates '%s'", prev),
					Value:   offset,
				})
				continue
			}
			seenOffsets[pct] = offset

			decls := kf[offset]
			if len(decls) == 0 {
				errs = append(errs, ValidationError{Path: opath, Kind: KindStructural, Message: "step has no declarations"})
				continue
			}
			for _, prop := range theme.SortedKeys(decls) {
				if err := cssvalue.Declaration(prop, decls[prop]); err != nil {
					errs = append(errs, ValidationError{
						Path:    opath + "." + prop,
						Kind:    KindStructural,
						Message: err.Error(),
						Value:   decls[prop],
					})
				}
			}
		}
	}
	return errs
}

func validateAnimations(animations map[string]string, keyframes map[string]theme.Keyframe) []ValidationError {
	defined := theme.SortedKeys(keyframes)

	var errs []ValidationError
	for _, name := range theme.SortedKeys(animations) {
		if nerr := checkName(theme.CategoryAnimation, name); nerr != nil {
			errs = append(errs, *nerr)
			continue
		}
		value := animations[name]
		path := tokenPath(theme.CategoryAnimation, name)
		refs, err := cssvalue.Animation(value)
		if err != nil {
			errs = append(errs, ValidationError{Path: path, Kind: KindStructural, Message: err.Error(), Value: value})
			continue
		}
		for _, ref := range refs {
			if _, ok := keyframes[ref]; !ok {
				errs = append(errs, ValidationError{
					Path:    path,
					Kind:    KindReferential,
					Message: "references undefined keyframes",
					Value:   ref,
					Allowed: defined,
				})
			}
		}
	}
	return errs
}

func validatePlugins(plugins []string) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, p := range plugins {
		path := fmt.Sprintf("plugins[%d]", i)
		if strings.TrimSpace(p) == "" {
			errs = append(errs, ValidationError{Path: path, Kind: KindStructural, Message: "empty plugin reference"})
			continue
		}
		if seen[p] {
			errs = append(errs, ValidationError{Path: path, Kind: KindStructural, Message: "plugin listed twice", Value: p})
		}
		seen[p] = true
	}
	return errs
}
