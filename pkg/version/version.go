package version

import (
	"strings"
	"unicode"
)

// Version is a loosely parsed dotted version such as "2.26.0", "1.0b3" or "18.4.6+matrix.1".
//
// Parsing never fails. Any text yields a comparable value, so malformed versions
// published in a repository still order deterministically against well-formed ones.
type Version struct {
	raw   string
	parts []component
}

type component struct {
	numeric bool
	digits  string // numeric value without leading zeros ("" means zero)
	text    string
}

// Parse tokenizes raw into numeric and text components
func Parse(raw string) Version {
	v := Version{raw: raw}

	runes := []rune(strings.TrimSpace(raw))
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '.':
			i++
		case isDigit(r):
			j := i
			for j < len(runes) && isDigit(runes[j]) {
				j++
			}
			digits := strings.TrimLeft(string(runes[i:j]), "0")
			v.parts = append(v.parts, component{numeric: true, digits: digits})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			v.parts = append(v.parts, component{text: string(runes[i:j])})
			i = j
		default:
			j := i
			for j < len(runes) && isSeparatorRun(runes[j]) {
				j++
			}
			v.parts = append(v.parts, component{text: string(runes[i:j])})
			i = j
		}
	}

	return v
}

// isDigit accepts ASCII digits only, so digit length ordering matches numeric value
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSeparatorRun(r rune) bool {
	return r != '.' && !isDigit(r) && !unicode.IsLetter(r)
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
//
// Components are compared left to right. Numeric components sort before text
// components, and a version that is a prefix of another is the lower one.
func Compare(a, b Version) int {
	n := len(a.parts)
	if len(b.parts) < n {
		n = len(b.parts)
	}

	for i := 0; i < n; i++ {
		if c := compareComponent(a.parts[i], b.parts[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(a.parts) < len(b.parts):
		return -1
	case len(a.parts) > len(b.parts):
		return 1
	default:
		return 0
	}
}

func compareComponent(a, b component) int {
	switch {
	case a.numeric && b.numeric:
		if len(a.digits) != len(b.digits) {
			if len(a.digits) < len(b.digits) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.digits, b.digits)
	case a.numeric:
		return -1
	case b.numeric:
		return 1
	default:
		return strings.Compare(a.text, b.text)
	}
}

// Less reports whether v sorts strictly before other
func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}

// Equal reports whether v and other have the same components.
// "2.26" and "2.26.0" are not equal.
func (v Version) Equal(other Version) bool {
	return Compare(v, other) == 0
}

// IsZero reports whether the version has no components at all
func (v Version) IsZero() bool {
	return len(v.parts) == 0
}

// String returns the text the version was parsed from
func (v Version) String() string {
	return v.raw
}
