package cssvalue

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color checks a color value: hex, rgb()/rgba(), hsl()/hsla() or a keyword.
func Color(value string) error {
	nodes, err := parse(value)
	if err != nil {
		return err
	}
	if len(nodes) != 1 {
		return fmt.Errorf("expected a single color, got %d components", len(nodes))
	}
	return colorNode(nodes[0])
}

func isColorNode(n *node) bool {
	switch n.kind {
	case kindHash:
		return true
	case kindIdent:
		return colorKeywords[strings.ToLower(n.raw)]
	case kindFunction:
		switch n.name {
		case "rgb", "rgba", "hsl", "hsla":
			return true
		}
	}
	return false
}

func colorNode(n *node) error {
	switch n.kind {
	case kindHash:
		return hexColor(n.raw)
	case kindIdent:
		if colorKeywords[strings.ToLower(n.raw)] {
			return nil
		}
		return fmt.Errorf("unknown color keyword %q", n.raw)
	case kindFunction:
		switch n.name {
		case "rgb", "rgba":
			return rgbColor(n)
		case "hsl", "hsla":
			return hslColor(n)
		}
		return fmt.Errorf("%s() is not a color function", n.name)
	}
	return fmt.Errorf("%q is not a color", n.raw)
}

func hexColor(raw string) error {
	digits := strings.TrimPrefix(raw, "#")
	switch len(digits) {
	case 3, 6:
		if _, err := colorful.Hex(raw); err != nil {
			return fmt.Errorf("invalid hex color %q", raw)
		}
		return nil
	case 4, 8:
		// trailing alpha channel
		n := len(digits) * 3 / 4
		if _, err := colorful.Hex("#" + digits[:n]); err != nil {
			return fmt.Errorf("invalid hex color %q", raw)
		}
		for _, r := range digits[n:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return fmt.Errorf("invalid hex alpha in %q", raw)
			}
		}
		return nil
	}
	return fmt.Errorf("hex color %q must have 3, 4, 6 or 8 digits", raw)
}

// colorArgs returns channel and alpha components for both the legacy comma
// syntax and the space syntax with an optional "/ alpha".
func colorArgs(n *node) ([]*node, *node, error) {
	if len(n.args) > 1 {
		var channels []*node
		for _, arg := range n.args {
			if len(arg) != 1 {
				return nil, nil, fmt.Errorf("%s(): each argument must be a single value", n.name)
			}
			channels = append(channels, arg[0])
		}
		switch len(channels) {
		case 3:
			return channels, nil, nil
		case 4:
			return channels[:3], channels[3], nil
		}
		return nil, nil, fmt.Errorf("%s(): expected 3 or 4 arguments, got %d", n.name, len(channels))
	}

	var channels []*node
	var alpha *node
	slash := false
	for _, c := range n.inner {
		switch {
		case c.kind == kindSlash:
			if slash {
				return nil, nil, fmt.Errorf("%s(): repeated '/'", n.name)
			}
			slash = true
		case slash:
			if alpha != nil {
				return nil, nil, fmt.Errorf("%s(): expected one alpha value", n.name)
			}
			alpha = c
		default:
			channels = append(channels, c)
		}
	}
	if len(channels) != 3 || (slash && alpha == nil) {
		return nil, nil, fmt.Errorf("%s(): expected 3 channels and an optional alpha", n.name)
	}
	return channels, alpha, nil
}

func rgbColor(n *node) error {
	channels, alpha, err := colorArgs(n)
	if err != nil {
		return err
	}
	for _, c := range channels {
		switch c.kind {
		case kindNumber:
			if c.num < 0 || c.num > 255 {
				return fmt.Errorf("%s(): channel %s out of range 0-255", n.name, c.raw)
			}
		case kindPercentage:
			if c.num < 0 || c.num > 100 {
				return fmt.Errorf("%s(): channel %s out of range 0-100%%", n.name, c.raw)
			}
		default:
			return fmt.Errorf("%s(): channel %q must be a number or percentage", n.name, c.raw)
		}
	}
	return alphaValue(n.name, alpha)
}

func hslColor(n *node) error {
	channels, alpha, err := colorArgs(n)
	if err != nil {
		return err
	}
	hue := channels[0]
	if hue.kind != kindNumber && !(hue.kind == kindDimension && isAngleUnit(hue.unit)) {
		return fmt.Errorf("%s(): hue %q must be a number or angle", n.name, hue.raw)
	}
	for _, c := range channels[1:] {
		if c.kind != kindPercentage || c.num < 0 || c.num > 100 {
			return fmt.Errorf("%s(): %q must be a percentage in 0-100%%", n.name, c.raw)
		}
	}
	return alphaValue(n.name, alpha)
}

func alphaValue(fn string, alpha *node) error {
	if alpha == nil {
		return nil
	}
	switch alpha.kind {
	case kindNumber:
		if alpha.num < 0 || alpha.num > 1 {
			return fmt.Errorf("%s(): alpha %s out of range 0-1", fn, alpha.raw)
		}
		return nil
	case kindPercentage:
		if alpha.num < 0 || alpha.num > 100 {
			return fmt.Errorf("%s(): alpha %s out of range 0-100%%", fn, alpha.raw)
		}
		return nil
	case kindFunction:
		// var(--tw-bg-opacity) and friends
		if alpha.name == "var" {
			return nil
		}
	}
	return fmt.Errorf("%s(): alpha %q must be a number or percentage", fn, alpha.raw)
}

func isAngleUnit(unit string) bool {
	switch unit {
	case "deg", "rad", "grad", "turn":
		return true
	}
	return false
}
