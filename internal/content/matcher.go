package content

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// ErrNoPatterns is returned when a content list is empty.
var ErrNoPatterns = errors.New("no content patterns")

// PatternError reports a content pattern that failed to compile.
type PatternError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("content[%d] %q: %v", e.Index, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

type compiled struct {
	pattern string
	globs   []glob.Glob // the pattern plus each "**/" dropped variant
}

// Matcher reports which content pattern, if any, covers a path.
type Matcher struct {
	globs []compiled
}

// Normalize strips a leading "./" and cleans the path, keeping a trailing
// glob intact. Patterns and paths are both compared in this form.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	if p == "" {
		return p
	}
	return path.Clean(p)
}

// CompilePattern compiles a single content pattern with "/" as separator,
// so "*" stays inside one directory and "**" crosses directories.
func CompilePattern(pattern string) (glob.Glob, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.New("empty pattern")
	}
	if strings.HasPrefix(pattern, "!") {
		return nil, errors.New("negated patterns are not supported")
	}
	return glob.Compile(Normalize(pattern), '/')
}

// Compile compiles all patterns, stopping at the first failure.
func Compile(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	m := &Matcher{globs: make([]compiled, 0, len(patterns))}
	for i, p := range patterns {
		g, err := CompilePattern(p)
		if err != nil {
			return nil, &PatternError{Index: i, Pattern: p, Err: err}
		}
		c := compiled{pattern: p, globs: []glob.Glob{g}}
		for _, v := range zeroDirVariants(Normalize(p)) {
			if vg, err := glob.Compile(v, '/'); err == nil {
				c.globs = append(c.globs, vg)
			}
		}
		m.globs = append(m.globs, c)
	}
	return m, nil
}

// Match returns the first pattern, in declaration order, that covers path.
func (m *Matcher) Match(p string) (string, bool) {
	if m == nil {
		return "", false
	}
	p = Normalize(p)
	for _, c := range m.globs {
		for _, g := range c.globs {
			if g.Match(p) {
				return c.pattern, true
			}
		}
	}
	return "", false
}

// maxDoubleStars bounds the variants expanded per pattern.
const maxDoubleStars = 8

// zeroDirVariants returns every rewrite of pattern with one or more of its
// "**/" segments removed, so "**" may also stand for no directory at all.
// The pattern itself is not included.
func zeroDirVariants(pattern string) []string {
	segments := strings.Split(pattern, "/")
	var stars []int
	for i, seg := range segments[:len(segments)-1] {
		if seg == "**" {
			stars = append(stars, i)
		}
	}
	if len(stars) == 0 || len(stars) > maxDoubleStars {
		return nil
	}

	seen := map[string]bool{pattern: true}
	var out []string
	for mask := 1; mask < 1<<len(stars); mask++ {
		drop := make(map[int]bool, len(stars))
		for bit, idx := range stars {
			if mask&(1<<bit) != 0 {
				drop[idx] = true
			}
		}
		kept := make([]string, 0, len(segments))
		for i, seg := range segments {
			if !drop[i] {
				kept = append(kept, seg)
			}
		}
		v := strings.Join(kept, "/")
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Patterns returns the compiled patterns in order.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.globs))
	for i, c := range m.globs {
		out[i] = c.pattern
	}
	return out
}
