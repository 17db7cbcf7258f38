package cssvalue

import (
	"fmt"
	"regexp"
	"strings"
)

var lengthUnits = map[string]bool{
	"px": true, "rem": true, "em": true, "ex": true, "ch": true,
	"vh": true, "vw": true, "vmin": true, "vmax": true,
	"cm": true, "mm": true, "in": true, "pt": true, "pc": true,
}

func isLength(n *node) bool {
	switch n.kind {
	case kindNumber:
		return n.num == 0
	case kindDimension:
		return lengthUnits[n.unit]
	}
	return false
}

func isLengthOrPercentage(n *node) bool {
	return isLength(n) || n.kind == kindPercentage
}

// Length checks a single length such as "8px", "0.5rem" or "0".
func Length(value string) error {
	nodes, err := parse(value)
	if err != nil {
		return err
	}
	if len(nodes) != 1 {
		return fmt.Errorf("expected a single length, got %d components", len(nodes))
	}
	if !isLengthOrPercentage(nodes[0]) {
		return fmt.Errorf("%q is not a length", nodes[0].raw)
	}
	if nodes[0].num < 0 {
		return fmt.Errorf("length %q must not be negative", nodes[0].raw)
	}
	return nil
}

// Shadow checks a box-shadow value: "none" or comma-separated layers of
// [inset] <offset-x> <offset-y> [blur [spread]] [color].
func Shadow(value string) error {
	nodes, err := parse(value)
	if err != nil {
		return err
	}
	if len(nodes) == 1 && nodes[0].isIdent("none") {
		return nil
	}
	for i, layer := range splitCommas(nodes) {
		if err := shadowLayer(layer); err != nil {
			return fmt.Errorf("shadow layer %d: %w", i+1, err)
		}
	}
	return nil
}

func shadowLayer(layer []*node) error {
	if len(layer) == 0 {
		return fmt.Errorf("empty layer")
	}
	var inset, color bool
	lengths := 0
	lengthRun := false
	for _, n := range layer {
		switch {
		case n.isIdent("inset"):
			if inset {
				return fmt.Errorf("repeated inset")
			}
			inset = true
			lengthRun = false
		case isLength(n):
			if lengths > 0 && !lengthRun {
				return fmt.Errorf("lengths must be adjacent")
			}
			lengths++
			lengthRun = true
		case isColorNode(n):
			if color {
				return fmt.Errorf("more than one color")
			}
			if err := colorNode(n); err != nil {
				return err
			}
			color = true
			lengthRun = false
		default:
			return fmt.Errorf("unexpected %q", n.raw)
		}
	}
	if lengths < 2 || lengths > 4 {
		return fmt.Errorf("expected 2 to 4 lengths, got %d", lengths)
	}
	return nil
}

// Image checks a background-image value: "none", url() or a gradient.
func Image(value string) error {
	nodes, err := parse(value)
	if err != nil {
		return err
	}
	if len(nodes) == 1 && nodes[0].isIdent("none") {
		return nil
	}
	for _, layer := range splitCommas(nodes) {
		if len(layer) != 1 {
			return fmt.Errorf("expected one image per layer, got %d components", len(layer))
		}
		if err := imageNode(layer[0]); err != nil {
			return err
		}
	}
	return nil
}

func imageNode(n *node) error {
	switch n.kind {
	case kindURI:
		return nil
	case kindFunction:
		switch n.name {
		case "url":
			if len(n.inner) != 1 || n.inner[0].kind != kindString {
				return fmt.Errorf("url() expects a single string")
			}
			return nil
		case "linear-gradient", "repeating-linear-gradient",
			"radial-gradient", "repeating-radial-gradient",
			"conic-gradient", "repeating-conic-gradient":
			return gradient(n)
		}
		return fmt.Errorf("%s() is not an image function", n.name)
	}
	return fmt.Errorf("%q is not an image", n.raw)
}

func gradient(n *node) error {
	stops := 0
	for i, arg := range n.args {
		if len(arg) == 0 {
			return fmt.Errorf("%s(): empty argument %d", n.name, i+1)
		}
		if isColorNode(arg[0]) {
			if err := colorNode(arg[0]); err != nil {
				return fmt.Errorf("%s(): %w", n.name, err)
			}
			if len(arg) > 3 {
				return fmt.Errorf("%s(): color stop %d has too many positions", n.name, i+1)
			}
			for _, pos := range arg[1:] {
				if !isLengthOrPercentage(pos) && !(pos.kind == kindDimension && isAngleUnit(pos.unit)) {
					return fmt.Errorf("%s(): invalid stop position %q", n.name, pos.raw)
				}
			}
			stops++
			continue
		}
		// color hint between stops
		if stops > 0 && len(arg) == 1 && isLengthOrPercentage(arg[0]) {
			continue
		}
		if i != 0 {
			return fmt.Errorf("%s(): argument %d is not a color stop", n.name, i+1)
		}
		if err := gradientLine(n.name, arg); err != nil {
			return err
		}
	}
	if stops < 2 {
		return fmt.Errorf("%s(): needs at least 2 color stops, got %d", n.name, stops)
	}
	return nil
}

// gradientLine checks the leading direction/shape argument of a gradient.
func gradientLine(fn string, arg []*node) error {
	for _, c := range arg {
		switch {
		case c.kind == kindDimension && isAngleUnit(c.unit):
		case isLengthOrPercentage(c):
		case c.kind == kindIdent:
		default:
			return fmt.Errorf("%s(): invalid gradient line %q", fn, c.raw)
		}
	}
	if strings.HasPrefix(fn, "linear") || strings.HasPrefix(fn, "repeating-linear") {
		if arg[0].kind == kindIdent && !arg[0].isIdent("to") {
			return fmt.Errorf("%s(): direction must be an angle or 'to <side>'", fn)
		}
	}
	return nil
}

var (
	timingKeywords = map[string]bool{
		"ease": true, "ease-in": true, "ease-out": true, "ease-in-out": true,
		"linear": true, "step-start": true, "step-end": true,
	}
	directionKeywords = map[string]bool{
		"normal": true, "reverse": true, "alternate": true, "alternate-reverse": true,
	}
	fillKeywords = map[string]bool{
		"none": true, "forwards": true, "backwards": true, "both": true,
	}
	playKeywords = map[string]bool{
		"running": true, "paused": true,
	}
)

// Animation checks an animation shorthand and returns the keyframe names it
// references, one per comma-separated layer. "none" references nothing.
func Animation(value string) ([]string, error) {
	nodes, err := parse(value)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 && nodes[0].isIdent("none") {
		return nil, nil
	}
	var names []string
	for i, layer := range splitCommas(nodes) {
		name, err := animationLayer(layer)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i+1, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func animationLayer(layer []*node) (string, error) {
	if len(layer) == 0 {
		return "", fmt.Errorf("empty animation")
	}
	name := ""
	times := 0
	var timing, iteration, direction, fill, play bool
	for _, n := range layer {
		switch {
		case n.kind == kindDimension && (n.unit == "s" || n.unit == "ms"):
			if times == 2 {
				return "", fmt.Errorf("more than two time values")
			}
			if times == 0 && n.num < 0 {
				return "", fmt.Errorf("duration %q must not be negative", n.raw)
			}
			times++
		case n.kind == kindFunction && (n.name == "cubic-bezier" || n.name == "steps"):
			if timing {
				return "", fmt.Errorf("more than one timing function")
			}
			if err := timingFunction(n); err != nil {
				return "", err
			}
			timing = true
		case n.kind == kindNumber:
			if iteration || n.num < 0 {
				return "", fmt.Errorf("invalid iteration count %q", n.raw)
			}
			iteration = true
		case n.kind == kindIdent:
			word := strings.ToLower(n.raw)
			switch {
			case timingKeywords[word] && !timing:
				timing = true
			case word == "infinite" && !iteration:
				iteration = true
			case directionKeywords[word] && !direction:
				direction = true
			case fillKeywords[word] && !fill:
				fill = true
			case playKeywords[word] && !play:
				play = true
			default:
				if name != "" {
					return "", fmt.Errorf("more than one keyframe name (%q and %q)", name, n.raw)
				}
				name = n.raw
			}
		case n.kind == kindString:
			if name != "" {
				return "", fmt.Errorf("more than one keyframe name")
			}
			name = strings.Trim(n.raw, `"'`)
		default:
			return "", fmt.Errorf("unexpected %q", n.raw)
		}
	}
	if name == "" {
		return "", fmt.Errorf("no keyframe name")
	}
	return name, nil
}

func timingFunction(n *node) error {
	switch n.name {
	case "cubic-bezier":
		if len(n.args) != 4 {
			return fmt.Errorf("cubic-bezier() expects 4 numbers")
		}
		for i, arg := range n.args {
			if len(arg) != 1 || arg[0].kind != kindNumber {
				return fmt.Errorf("cubic-bezier() argument %d must be a number", i+1)
			}
			if (i == 0 || i == 2) && (arg[0].num < 0 || arg[0].num > 1) {
				return fmt.Errorf("cubic-bezier() x%d must be in 0-1", i/2+1)
			}
		}
	case "steps":
		if len(n.args) < 1 || len(n.args) > 2 || len(n.args[0]) != 1 || n.args[0][0].kind != kindNumber || n.args[0][0].num < 1 {
			return fmt.Errorf("steps() expects a positive step count and optional position")
		}
	}
	return nil
}

var propertyName = regexp.MustCompile(`^-{0,2}[a-zA-Z][a-zA-Z0-9-]*$`)

// Declaration checks one property/value pair inside a keyframe step.
// Property names may be camelCase or kebab-case.
func Declaration(property, value string) error {
	if !propertyName.MatchString(property) {
		return fmt.Errorf("invalid property name %q", property)
	}
	if _, err := parse(value); err != nil {
		return fmt.Errorf("%s: %w", property, err)
	}
	return nil
}

// FontName checks one entry of a font stack.
func FontName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmpty
	}
	if trimmed != name {
		return fmt.Errorf("font name %q has surrounding whitespace", name)
	}
	if strings.ContainsAny(name, ",;{}") {
		return fmt.Errorf("font name %q contains a separator", name)
	}
	return nil
}
