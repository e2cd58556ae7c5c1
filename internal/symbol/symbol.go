// Package symbol splits author and affiliation lines into text elements and
// the superscript markers that link them.
package symbol

import "strings"

// Symbol is a marker linking an author to an affiliation: a number or one
// of the glyphs ⋆ ‡ † ∗ *.
type Symbol string

// NoMarker is carried by elements printed without any marker. It is
// distinct from every real marker, including "0".
const NoMarker Symbol = ""

// Glyphs are the non-numeric marker characters.
const Glyphs = "⋆‡†∗*"

func (s Symbol) String() string {
	if s == NoMarker {
		return "(none)"
	}
	return string(s)
}

// IsMarkerRune reports whether r can be part of a marker.
func IsMarkerRune(r rune) bool {
	return (r >= '0' && r <= '9') || strings.ContainsRune(Glyphs, r)
}

// Set is an ordered set of symbols, in first-seen order.
type Set []Symbol

// Contains reports whether s holds sym.
func (s Set) Contains(sym Symbol) bool {
	for _, x := range s {
		if x == sym {
			return true
		}
	}
	return false
}

// Add returns s with sym appended unless already present.
func (s Set) Add(sym Symbol) Set {
	if s.Contains(sym) {
		return s
	}
	return append(s, sym)
}

// Union returns s with every symbol of o not already present appended.
func (s Set) Union(o Set) Set {
	for _, sym := range o {
		s = s.Add(sym)
	}
	return s
}

// Unmarked reports whether the set holds only NoMarker.
func (s Set) Unmarked() bool {
	return len(s) == 1 && s[0] == NoMarker
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, sym := range s {
		parts[i] = sym.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Element is one author name or institution with its markers.
type Element struct {
	Text    string `json:"text"`
	Symbols Set    `json:"symbols"`
}
