// Package resolve merges a theme's extension tokens into the style tool's
// built-in defaults, producing the token set the tool generates classes from.
package resolve

import (
	"sort"
	"strings"

	"themekit/internal/theme"
)

// Origin says where a resolved token came from
type Origin string

const (
	OriginDefault Origin = "default"
	OriginExtend  Origin = "extend"
)

// Resolved is the merged token set
type Resolved struct {
	Content   []string     `json:"content"`
	Plugins   []string     `json:"plugins"`
	Tokens    theme.Extend `json:"tokens"`
	Overrides []string     `json:"overrides"` // default token paths replaced by the theme, sorted

	origins map[string]Origin
}

// Resolve merges cfg's extension tokens over Defaults().
//
// Every default is kept unless the theme declares a token of the same name
// in the same category, in which case the theme's value wins. A color named
// after a built-in hue replaces that hue's scale. Background colors start
// from the merged colors, as the style tool derives them.
func Resolve(cfg theme.Config) Resolved {
	return ResolveWith(Defaults(), cfg)
}

// ResolveWith merges cfg over an explicit set of defaults.
func ResolveWith(defaults theme.Extend, cfg theme.Config) Resolved {
	r := Resolved{
		Content: append([]string(nil), cfg.Content...),
		Plugins: append([]string(nil), cfg.Plugins...),
		origins: make(map[string]Origin),
	}
	ext := cfg.Theme.Extend

	r.Tokens.Colors = r.mergeFlat(theme.CategoryColors, defaults.Colors, ext.Colors)
	r.Tokens.BackgroundImage = r.mergeFlat(theme.CategoryBackgroundImage, defaults.BackgroundImage, ext.BackgroundImage)

	bgBase := make(map[string]string, len(r.Tokens.Colors)+len(defaults.BackgroundColor))
	for k, v := range r.Tokens.Colors {
		bgBase[k] = v
		r.origins[key(theme.CategoryBackgroundColor, k)] = r.origins[key(theme.CategoryColors, k)]
	}
	for k, v := range defaults.BackgroundColor {
		bgBase[k] = v
		r.origins[key(theme.CategoryBackgroundColor, k)] = OriginDefault
	}
	r.Tokens.BackgroundColor = r.overlay(theme.CategoryBackgroundColor, bgBase, ext.BackgroundColor)

	r.Tokens.BoxShadow = r.mergeFlat(theme.CategoryBoxShadow, defaults.BoxShadow, ext.BoxShadow)
	r.Tokens.BackdropBlur = r.mergeFlat(theme.CategoryBackdropBlur, defaults.BackdropBlur, ext.BackdropBlur)
	r.Tokens.Animation = r.mergeFlat(theme.CategoryAnimation, defaults.Animation, ext.Animation)

	r.Tokens.FontFamily = make(map[string][]string, len(defaults.FontFamily)+len(ext.FontFamily))
	for k, v := range defaults.FontFamily {
		r.Tokens.FontFamily[k] = append([]string(nil), v...)
		r.origins[key(theme.CategoryFontFamily, k)] = OriginDefault
	}
	for k, v := range ext.FontFamily {
		if _, ok := r.Tokens.FontFamily[k]; ok {
			r.Overrides = append(r.Overrides, key(theme.CategoryFontFamily, k))
		}
		r.Tokens.FontFamily[k] = append([]string(nil), v...)
		r.origins[key(theme.CategoryFontFamily, k)] = OriginExtend
	}

	r.Tokens.Keyframes = make(map[string]theme.Keyframe, len(defaults.Keyframes)+len(ext.Keyframes))
	for k, v := range defaults.Keyframes {
		r.Tokens.Keyframes[k] = v.Clone()
		r.origins[key(theme.CategoryKeyframes, k)] = OriginDefault
	}
	for k, v := range ext.Keyframes {
		if _, ok := r.Tokens.Keyframes[k]; ok {
			r.Overrides = append(r.Overrides, key(theme.CategoryKeyframes, k))
		}
		r.Tokens.Keyframes[k] = v.Clone()
		r.origins[key(theme.CategoryKeyframes, k)] = OriginExtend
	}

	sort.Strings(r.Overrides)
	if r.Overrides == nil {
		r.Overrides = []string{}
	}
	return r
}

func key(cat theme.Category, name string) string {
	return string(cat) + "." + name
}

func (r *Resolved) mergeFlat(cat theme.Category, defaults, ext map[string]string) map[string]string {
	base := make(map[string]string, len(defaults))
	for k, v := range defaults {
		base[k] = v
		r.origins[key(cat, k)] = OriginDefault
	}
	return r.overlay(cat, base, ext)
}

// overlay writes ext into base, recording overrides of existing names.
// For color categories a key naming a built-in hue replaces that hue's
// whole "<hue>-<shade>" scale.
func (r *Resolved) overlay(cat theme.Category, base, ext map[string]string) map[string]string {
	if cat == theme.CategoryColors || cat == theme.CategoryBackgroundColor {
		for k := range ext {
			if IsHue(k) && r.dropScale(cat, base, k) {
				r.Overrides = append(r.Overrides, key(cat, k))
			}
		}
	}
	for k, v := range ext {
		if _, ok := base[k]; ok && r.origins[key(cat, k)] == OriginDefault {
			r.Overrides = append(r.Overrides, key(cat, k))
		}
		base[k] = v
		r.origins[key(cat, k)] = OriginExtend
	}
	return base
}

// dropScale removes the default shades of hue from base and reports
// whether any were present.
func (r *Resolved) dropScale(cat theme.Category, base map[string]string, hue string) bool {
	dropped := false
	for _, shade := range shades {
		name := hue + "-" + shade
		if _, ok := base[name]; ok && r.origins[key(cat, name)] == OriginDefault {
			delete(base, name)
			delete(r.origins, key(cat, name))
			dropped = true
		}
	}
	return dropped
}

// Config returns the merged tokens as a theme config
func (r Resolved) Config() theme.Config {
	return theme.Config{
		Content: r.Content,
		Theme:   theme.Theme{Extend: r.Tokens},
		Plugins: r.Plugins,
	}.Clone()
}

// Lookup returns a resolved token value. Font stacks are joined with ", ".
func (r Resolved) Lookup(cat theme.Category, name string) (string, bool) {
	if cat == theme.CategoryFontFamily {
		stack, ok := r.Tokens.FontFamily[name]
		return strings.Join(stack, ", "), ok
	}
	v, ok := r.Config().Tokens(cat)[name]
	return v, ok
}

// Origin reports whether a resolved token is a built-in default or comes
// from the theme. The second result is false for unknown tokens.
func (r Resolved) Origin(cat theme.Category, name string) (Origin, bool) {
	o, ok := r.origins[key(cat, name)]
	return o, ok
}
