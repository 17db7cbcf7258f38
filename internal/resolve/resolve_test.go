package resolve

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"themekit/internal/theme"
	"themekit/internal/validator"
)

func TestResolve_Default(t *testing.T) {
	r := Resolve(theme.Default())

	tests := []struct {
		cat    theme.Category
		name   string
		want   string
		origin Origin
	}{
		{theme.CategoryColors, "primary", "#5B84FF", OriginExtend},
		{theme.CategoryColors, "blue-500", "#3b82f6", OriginDefault},
		{theme.CategoryColors, "transparent", "transparent", OriginDefault},
		{theme.CategoryColors, "indigo-500", "#6366f1", OriginDefault},
		{theme.CategoryColors, "zinc-500", "#71717a", OriginDefault},
		{theme.CategoryColors, "rose-950", "#4c0519", OriginDefault},
		{theme.CategoryColors, "neutral", "#A9A9A9", OriginExtend},
		{theme.CategoryBackgroundColor, "glass", "rgba(255, 255, 255, 0.7)", OriginExtend},
		{theme.CategoryBackgroundColor, "primary", "#5B84FF", OriginExtend},
		{theme.CategoryBackgroundColor, "slate-900", "#0f172a", OriginDefault},
		{theme.CategoryBoxShadow, "md", "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)", OriginDefault},
		{theme.CategoryBoxShadow, "button", "0 4px 15px rgba(91, 132, 255, 0.3)", OriginExtend},
		{theme.CategoryBackdropBlur, "glass", "8px", OriginExtend},
		{theme.CategoryBackdropBlur, "sm", "4px", OriginDefault},
		{theme.CategoryAnimation, "spin", "spin 1s linear infinite", OriginDefault},
		{theme.CategoryAnimation, "fade-in", "fadeIn 0.5s ease-out forwards", OriginExtend},
		{theme.CategoryFontFamily, "mono", "ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, Liberation Mono, Courier New, monospace", OriginDefault},
	}

	for _, tt := range tests {
		t.Run(string(tt.cat)+"."+tt.name, func(t *testing.T) {
			got, ok := r.Lookup(tt.cat, tt.name)
			if !ok {
				t.Fatalf("Lookup(%s, %s) not found", tt.cat, tt.name)
			}
			if got != tt.want {
				t.Errorf("Lookup(%s, %s) = %q, want %q", tt.cat, tt.name, got, tt.want)
			}
			origin, _ := r.Origin(tt.cat, tt.name)
			if origin != tt.origin {
				t.Errorf("Origin(%s, %s) = %s, want %s", tt.cat, tt.name, origin, tt.origin)
			}
		})
	}

	if _, ok := r.Lookup(theme.CategoryColors, "nope"); ok {
		t.Error("Lookup() found an undeclared color")
	}
	if _, ok := r.Lookup(theme.CategoryColors, "neutral-500"); ok {
		t.Error("colors.neutral should replace the neutral scale")
	}
}

func TestResolve_ReplacesFontStackWhole(t *testing.T) {
	r := Resolve(theme.Default())

	sans, _ := r.Lookup(theme.CategoryFontFamily, "sans")
	want := "Inter, -apple-system, BlinkMacSystemFont, Segoe UI, Roboto, Oxygen, Ubuntu, Cantarell, Fira Sans, Droid Sans, Helvetica Neue, sans-serif"
	if sans != want {
		t.Errorf("fontFamily.sans = %q, want %q", sans, want)
	}
	if diff := cmp.Diff([]string{"colors.neutral", "fontFamily.sans"}, r.Overrides); diff != "" {
		t.Errorf("Overrides mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Overrides(t *testing.T) {
	cfg := theme.Default()
	cfg.Theme.Extend.Colors["blue-500"] = "#0000ff"
	cfg.Theme.Extend.BoxShadow["DEFAULT"] = "none"
	cfg.Theme.Extend.Keyframes["spin"] = theme.Keyframe{"from": {"opacity": "0"}}

	r := Resolve(cfg)

	want := []string{"boxShadow.DEFAULT", "colors.blue-500", "colors.neutral", "fontFamily.sans", "keyframes.spin"}
	if diff := cmp.Diff(want, r.Overrides); diff != "" {
		t.Errorf("Overrides mismatch (-want +got):\n%s", diff)
	}
	if got := r.Tokens.BackgroundColor["blue-500"]; got != "#0000ff" {
		t.Errorf("backgroundColor inherits overridden color: got %q", got)
	}
	if diff := cmp.Diff(theme.Keyframe{"from": {"opacity": "0"}}, r.Tokens.Keyframes["spin"]); diff != "" {
		t.Errorf("keyframes.spin should be replaced whole (-want +got):\n%s", diff)
	}
}

func TestResolve_HueNameReplacesScale(t *testing.T) {
	cfg := theme.Config{Theme: theme.Theme{Extend: theme.Extend{
		Colors:          map[string]string{"indigo": "#123456", "indigo-500": "#654321"},
		BackgroundColor: map[string]string{"rose": "#fedcba"},
	}}}
	r := Resolve(cfg)

	if diff := cmp.Diff([]string{"backgroundColor.rose", "colors.indigo"}, r.Overrides); diff != "" {
		t.Errorf("Overrides mismatch (-want +got):\n%s", diff)
	}
	for _, shade := range shades {
		if _, ok := r.Tokens.BackgroundColor["rose-"+shade]; ok {
			t.Errorf("backgroundColor.rose-%s survived the rose replacement", shade)
		}
		if shade == "500" {
			continue
		}
		name := "indigo-" + shade
		if _, ok := r.Tokens.Colors[name]; ok {
			t.Errorf("colors.%s survived the indigo replacement", name)
		}
		if _, ok := r.Tokens.BackgroundColor[name]; ok {
			t.Errorf("backgroundColor.%s survived the indigo replacement", name)
		}
	}
	if got := r.Tokens.Colors["indigo-500"]; got != "#654321" {
		t.Errorf("colors.indigo-500 = %q, want the theme's value", got)
	}
	if origin, ok := r.Origin(theme.CategoryColors, "indigo-400"); ok {
		t.Errorf("Origin(colors.indigo-400) = %s, want unknown", origin)
	}
	if got := r.Tokens.Colors["rose-500"]; got != "#f43f5e" {
		t.Errorf("colors.rose-500 = %q, backgroundColor replacement leaked into colors", got)
	}
}

func TestDefaults_Palette(t *testing.T) {
	colors := Defaults().Colors
	if len(colors) != 5+22*11 {
		t.Errorf("len(Defaults().Colors) = %d, want %d", len(colors), 5+22*11)
	}
	for _, hue := range []string{"slate", "zinc", "neutral", "stone", "amber", "lime", "emerald", "teal", "cyan", "sky", "indigo", "violet", "purple", "fuchsia", "pink", "rose"} {
		if !IsHue(hue) {
			t.Errorf("IsHue(%q) = false", hue)
		}
		for _, shade := range shades {
			if _, ok := colors[hue+"-"+shade]; !ok {
				t.Errorf("missing default color %s-%s", hue, shade)
			}
		}
	}
	if IsHue("primary") {
		t.Error("IsHue(primary) = true")
	}
}

func TestResolve_EmptyConfig(t *testing.T) {
	r := Resolve(theme.Config{})

	want := Defaults()
	want.BackgroundColor = make(map[string]string, len(want.Colors))
	for k, v := range want.Colors {
		want.BackgroundColor[k] = v
	}
	if diff := cmp.Diff(want, r.Tokens); diff != "" {
		t.Errorf("empty theme should resolve to the defaults (-want +got):\n%s", diff)
	}
	if len(r.Overrides) != 0 {
		t.Errorf("Overrides = %v, want none", r.Overrides)
	}
}

func TestResolve_DoesNotAliasInput(t *testing.T) {
	cfg := theme.Default()
	r := Resolve(cfg)
	r.Tokens.Colors["primary"] = "#000"
	r.Tokens.Keyframes["fadeIn"]["0%"]["opacity"] = "1"

	if cfg.Theme.Extend.Colors["primary"] != "#5B84FF" {
		t.Error("resolving aliased the input colors")
	}
	if cfg.Theme.Extend.Keyframes["fadeIn"]["0%"]["opacity"] != "0" {
		t.Error("resolving aliased the input keyframes")
	}
}

func TestDefaults_Validate(t *testing.T) {
	result := validator.Validate(theme.Config{
		Content: []string{"./src/**/*.html"},
		Theme:   theme.Theme{Extend: Defaults()},
	})
	if !result.Valid {
		t.Errorf("built-in defaults failed validation: %v", validator.FormatErrors(result))
	}
}

func TestResolved_ConfigValidates(t *testing.T) {
	result := validator.Validate(Resolve(theme.Default()).Config())
	if !result.Valid {
		t.Errorf("merged theme failed validation: %v", validator.FormatErrors(result))
	}
}

// Property: extending never loses a default. Every default token either
// keeps its value or appears in Overrides, itself or through its hue.
func TestResolve_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	defaults := Defaults()

	properties.Property("the default theme keeps every default color outside the neutral scale", prop.ForAll(
		func(_ int) bool {
			r := Resolve(theme.Default())
			if r.Tokens.Colors["primary"] != "#5B84FF" {
				return false
			}
			for name, value := range defaults.Colors {
				if strings.HasPrefix(name, "neutral-") {
					continue
				}
				if r.Tokens.Colors[name] != value {
					return false
				}
			}
			return true
		},
		gen.Int(),
	))

	properties.Property("defaults survive unless overridden", prop.ForAll(
		func(colors map[string]string) bool {
			cfg := theme.Config{Theme: theme.Theme{Extend: theme.Extend{Colors: colors}}}
			r := Resolve(cfg)
			overridden := make(map[string]bool)
			for _, o := range r.Overrides {
				overridden[o] = true
			}
			for name, value := range defaults.Colors {
				if _, declared := colors[name]; declared {
					continue
				}
				if hue, _, ok := strings.Cut(name, "-"); ok && overridden["colors."+hue] {
					if _, kept := r.Tokens.Colors[name]; kept {
						return false
					}
					continue
				}
				if r.Tokens.Colors[name] != value {
					return false
				}
			}
			for name, value := range colors {
				if r.Tokens.Colors[name] != value {
					return false
				}
			}
			return true
		},
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
	))

	properties.TestingRun(t)
}
