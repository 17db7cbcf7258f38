// Package cssvalue checks the CSS value expressions used as theme tokens.
// Values are tokenized with the gorilla/css scanner and grouped into a
// shallow tree of components and function calls before checking.
package cssvalue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
)

// ErrEmpty is returned for blank values.
var ErrEmpty = errors.New("empty value")

type kind int

const (
	kindIdent kind = iota
	kindNumber
	kindPercentage
	kindDimension
	kindHash
	kindString
	kindURI
	kindFunction
	kindComma
	kindSlash
)

// node is one component of a value.
type node struct {
	kind  kind
	raw   string
	name  string    // function name, lower-cased, without "("
	num   float64   // numeric part of number, percentage and dimension
	unit  string    // dimension unit, lower-cased
	args  [][]*node // function arguments split on top-level commas
	inner []*node   // function arguments as one flat list
}

func (n *node) isIdent(words ...string) bool {
	if n.kind != kindIdent {
		return false
	}
	for _, w := range words {
		if strings.EqualFold(n.raw, w) {
			return true
		}
	}
	return len(words) == 0
}

func (n *node) isNumeric() bool {
	return n.kind == kindNumber || n.kind == kindPercentage || n.kind == kindDimension
}

// parse tokenizes a value into top-level components.
func parse(value string) ([]*node, error) {
	if strings.TrimSpace(value) == "" {
		return nil, ErrEmpty
	}
	s := scanner.New(value)
	nodes, closed, err := parseUntilClose(s)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, fmt.Errorf("unbalanced ')' in %q", value)
	}
	return nodes, nil
}

// parseUntilClose reads components until EOF or a closing parenthesis.
func parseUntilClose(s *scanner.Scanner) ([]*node, bool, error) {
	var nodes []*node
	sign := ""
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			if sign != "" {
				return nil, false, fmt.Errorf("dangling %q", sign)
			}
			return nodes, false, nil
		case scanner.TokenError:
			return nil, false, fmt.Errorf("invalid token %q at column %d", tok.Value, tok.Column)
		case scanner.TokenS, scanner.TokenComment:
			if sign != "" {
				return nil, false, fmt.Errorf("dangling %q", sign)
			}
			continue
		case scanner.TokenIdent:
			nodes = append(nodes, &node{kind: kindIdent, raw: sign + tok.Value})
		case scanner.TokenNumber:
			v, err := strconv.ParseFloat(sign+tok.Value, 64)
			if err != nil {
				return nil, false, fmt.Errorf("invalid number %q", tok.Value)
			}
			nodes = append(nodes, &node{kind: kindNumber, raw: sign + tok.Value, num: v})
		case scanner.TokenPercentage:
			v, err := strconv.ParseFloat(sign+strings.TrimSuffix(tok.Value, "%"), 64)
			if err != nil {
				return nil, false, fmt.Errorf("invalid percentage %q", tok.Value)
			}
			nodes = append(nodes, &node{kind: kindPercentage, raw: sign + tok.Value, num: v})
		case scanner.TokenDimension:
			n, err := splitDimension(sign + tok.Value)
			if err != nil {
				return nil, false, err
			}
			nodes = append(nodes, n)
		case scanner.TokenHash:
			nodes = append(nodes, &node{kind: kindHash, raw: tok.Value})
		case scanner.TokenString:
			nodes = append(nodes, &node{kind: kindString, raw: tok.Value})
		case scanner.TokenURI:
			nodes = append(nodes, &node{kind: kindURI, raw: tok.Value, name: "url"})
		case scanner.TokenFunction:
			fn := &node{
				kind: kindFunction,
				raw:  tok.Value,
				name: strings.ToLower(strings.TrimSuffix(tok.Value, "(")),
			}
			inner, closed, err := parseUntilClose(s)
			if err != nil {
				return nil, false, err
			}
			if !closed {
				return nil, false, fmt.Errorf("unclosed function %s)", tok.Value)
			}
			fn.inner = inner
			fn.args = splitCommas(inner)
			nodes = append(nodes, fn)
		case scanner.TokenChar:
			switch tok.Value {
			case ")":
				if sign != "" {
					return nil, false, fmt.Errorf("dangling %q", sign)
				}
				return nodes, true, nil
			case ",":
				nodes = append(nodes, &node{kind: kindComma, raw: ","})
			case "/":
				nodes = append(nodes, &node{kind: kindSlash, raw: "/"})
			case "-", "+":
				if sign != "" {
					return nil, false, fmt.Errorf("unexpected %q", tok.Value)
				}
				sign = tok.Value
				continue
			default:
				return nil, false, fmt.Errorf("unexpected %q at column %d", tok.Value, tok.Column)
			}
		default:
			return nil, false, fmt.Errorf("unexpected token %q at column %d", tok.Value, tok.Column)
		}
		sign = ""
	}
}

func splitDimension(raw string) (*node, error) {
	i := 0
	if i < len(raw) && (raw[i] == '-' || raw[i] == '+') {
		i++
	}
	for i < len(raw) && (raw[i] == '.' || (raw[i] >= '0' && raw[i] <= '9')) {
		i++
	}
	v, err := strconv.ParseFloat(raw[:i], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid dimension %q", raw)
	}
	return &node{kind: kindDimension, raw: raw, num: v, unit: strings.ToLower(raw[i:])}, nil
}

// splitCommas splits components on top-level commas.
func splitCommas(nodes []*node) [][]*node {
	if len(nodes) == 0 {
		return nil
	}
	var groups [][]*node
	var cur []*node
	for _, n := range nodes {
		if n.kind == kindComma {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, n)
	}
	return append(groups, cur)
}
