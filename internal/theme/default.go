package theme

// Default returns the site's theme configuration.
// Every call builds a fresh value, so callers may modify the result freely.
func Default() Config {
	return Config{
		Content: []string{
			"./main/templates/**/*.html",
			"./main/static/js/**/*.js",
		},
		Theme: Theme{
			Extend: Extend{
				Colors: map[string]string{
					"primary":      "#5B84FF",
					"secondary":    "#FF6B6B",
					"accent":       "#4CAF50",
					"error":        "#E74C3C",
					"dark":         "#2F3640",
					"bodyText":     "#5E6C84",
					"neutral":      "#A9A9A9",
					"tableBorder":  "rgba(0, 0, 0, 0.1)",
					"tableBgLight": "rgba(255, 255, 255, 0.5)",
					"tableBgDark":  "rgba(91, 132, 255, 0.05)",
				},
				BackgroundImage: map[string]string{
					"main-gradient": "linear-gradient(135deg, #D9E0EE 0%, #F3E8EE 100%)",
				},
				BackgroundColor: map[string]string{
					"glass":       "rgba(255, 255, 255, 0.7)",
					"glass-hover": "rgba(255, 255, 255, 0.9)",
				},
				BoxShadow: map[string]string{
					"glass":        "0 8px 32px 0 rgba(0, 0, 0, 0.1)",
					"button":       "0 4px 15px rgba(91, 132, 255, 0.3)",
					"button-hover": "0 6px 20px rgba(91, 132, 255, 0.4)",
				},
				BackdropBlur: map[string]string{
					"glass": "8px",
				},
				FontFamily: map[string][]string{
					"sans": {
						"Inter", "-apple-system", "BlinkMacSystemFont", "Segoe UI",
						"Roboto", "Oxygen", "Ubuntu", "Cantarell", "Fira Sans",
						"Droid Sans", "Helvetica Neue", "sans-serif",
					},
				},
				Keyframes: map[string]Keyframe{
					"fadeIn": {
						"0%":   {"opacity": "0"},
						"100%": {"opacity": "1"},
					},
					"slideUp": {
						"0%":   {"opacity": "0", "transform": "translateY(20px)"},
						"100%": {"opacity": "1", "transform": "translateY(0)"},
					},
				},
				Animation: map[string]string{
					"fade-in":  "fadeIn 0.5s ease-out forwards",
					"slide-up": "slideUp 0.5s ease-out forwards",
				},
			},
		},
		Plugins: []string{},
	}
}
