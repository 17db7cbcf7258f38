package theme

// Category names a token mapping under theme.extend
type Category string

const (
	CategoryColors          Category = "colors"
	CategoryBackgroundImage Category = "backgroundImage"
	CategoryBackgroundColor Category = "backgroundColor"
	CategoryBoxShadow       Category = "boxShadow"
	CategoryBackdropBlur    Category = "backdropBlur"
	CategoryFontFamily      Category = "fontFamily"
	CategoryKeyframes       Category = "keyframes"
	CategoryAnimation       Category = "animation"
)

// FlatCategories are the categories whose values are plain strings.
var FlatCategories = []Category{
	CategoryColors,
	CategoryBackgroundImage,
	CategoryBackgroundColor,
	CategoryBoxShadow,
	CategoryBackdropBlur,
	CategoryAnimation,
}

// Declarations maps a CSS property to its value within one keyframe step
type Declarations map[string]string

// Keyframe maps an offset ("0%", "from", ...) to the declarations at that step
type Keyframe map[string]Declarations

// Extend holds the tokens merged on top of the style tool's defaults
type Extend struct {
	Colors          map[string]string   `yaml:"colors,omitempty" json:"colors,omitempty"`
	BackgroundImage map[string]string   `yaml:"backgroundImage,omitempty" json:"backgroundImage,omitempty"`
	BackgroundColor map[string]string   `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BoxShadow       map[string]string   `yaml:"boxShadow,omitempty" json:"boxShadow,omitempty"`
	BackdropBlur    map[string]string   `yaml:"backdropBlur,omitempty" json:"backdropBlur,omitempty"`
	FontFamily      map[string][]string `yaml:"fontFamily,omitempty" json:"fontFamily,omitempty"`
	Keyframes       map[string]Keyframe `yaml:"keyframes,omitempty" json:"keyframes,omitempty"`
	Animation       map[string]string   `yaml:"animation,omitempty" json:"animation,omitempty"`
}

// Theme wraps the extension block
type Theme struct {
	Extend Extend `yaml:"extend" json:"extend"`
}

// Config is the full theme configuration consumed by the style tool
type Config struct {
	Content []string `yaml:"content" json:"content"` // globs of files scanned for class usage
	Theme   Theme    `yaml:"theme" json:"theme"`
	Plugins []string `yaml:"plugins" json:"plugins"` // module references, loaded in order
}

// Tokens returns the mapping for a flat category, or nil for nested ones.
func (c Config) Tokens(cat Category) map[string]string {
	e := c.Theme.Extend
	switch cat {
	case CategoryColors:
		return e.Colors
	case CategoryBackgroundImage:
		return e.BackgroundImage
	case CategoryBackgroundColor:
		return e.BackgroundColor
	case CategoryBoxShadow:
		return e.BoxShadow
	case CategoryBackdropBlur:
		return e.BackdropBlur
	case CategoryAnimation:
		return e.Animation
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	out := Config{
		Content: cloneSlice(c.Content),
		Plugins: cloneSlice(c.Plugins),
	}
	e := c.Theme.Extend
	out.Theme.Extend = Extend{
		Colors:          cloneMap(e.Colors),
		BackgroundImage: cloneMap(e.BackgroundImage),
		BackgroundColor: cloneMap(e.BackgroundColor),
		BoxShadow:       cloneMap(e.BoxShadow),
		BackdropBlur:    cloneMap(e.BackdropBlur),
		Animation:       cloneMap(e.Animation),
	}
	if e.FontFamily != nil {
		out.Theme.Extend.FontFamily = make(map[string][]string, len(e.FontFamily))
		for k, v := range e.FontFamily {
			out.Theme.Extend.FontFamily[k] = cloneSlice(v)
		}
	}
	if e.Keyframes != nil {
		out.Theme.Extend.Keyframes = make(map[string]Keyframe, len(e.Keyframes))
		for k, v := range e.Keyframes {
			out.Theme.Extend.Keyframes[k] = v.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the keyframe.
func (k Keyframe) Clone() Keyframe {
	if k == nil {
		return nil
	}
	out := make(Keyframe, len(k))
	for offset, decls := range k {
		out[offset] = Declarations(cloneMap(decls))
	}
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
