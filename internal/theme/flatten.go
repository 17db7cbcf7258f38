package theme

import (
	"sort"
	"strconv"
	"strings"
)

// Flatten returns every value in the config keyed by its dotted path,
// e.g. "colors.primary" or "keyframes.fadeIn.0%.opacity".
// List entries are keyed by index ("content.0") and font stacks are joined
// with ", " so fallback order is part of the value.
func (c Config) Flatten() map[string]string {
	out := make(map[string]string)

	for i, p := range c.Content {
		out["content."+strconv.Itoa(i)] = p
	}
	for i, p := range c.Plugins {
		out["plugins."+strconv.Itoa(i)] = p
	}

	for _, cat := range FlatCategories {
		for name, value := range c.Tokens(cat) {
			out[string(cat)+"."+name] = value
		}
	}

	for alias, fonts := range c.Theme.Extend.FontFamily {
		out[string(CategoryFontFamily)+"."+alias] = strings.Join(fonts, ", ")
	}

	for name, kf := range c.Theme.Extend.Keyframes {
		for offset, decls := range kf {
			for prop, value := range decls {
				out[string(CategoryKeyframes)+"."+name+"."+offset+"."+prop] = value
			}
		}
	}

	return out
}

// OffsetPercent converts a keyframe offset to its percentage.
// "from" and "to" map to 0 and 100.
func OffsetPercent(offset string) (float64, bool) {
	switch offset {
	case "from":
		return 0, true
	case "to":
		return 100, true
	}
	if !strings.HasSuffix(offset, "%") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(offset, "%"), 64)
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

// Offsets returns the keyframe's offsets in timeline order.
// Unparseable offsets sort last, alphabetically.
func (k Keyframe) Offsets() []string {
	offsets := make([]string, 0, len(k))
	for o := range k {
		offsets = append(offsets, o)
	}
	sort.Slice(offsets, func(i, j int) bool {
		pi, oki := OffsetPercent(offsets[i])
		pj, okj := OffsetPercent(offsets[j])
		switch {
		case oki && okj:
			if pi != pj {
				return pi < pj
			}
			return offsets[i] < offsets[j]
		case oki:
			return true
		case okj:
			return false
		}
		return offsets[i] < offsets[j]
	})
	return offsets
}

// SortedKeys returns the keys of a token mapping in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
