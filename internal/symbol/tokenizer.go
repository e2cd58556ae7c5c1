package symbol

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/affil/internal/postal"
)

// DefaultMaxNumeric is the largest number accepted as one marker. Longer
// digit runs are cut back to a prefix within range: the trailing digits
// belong to the next line.
const DefaultMaxNumeric = 9

var (
	// groupPattern matches a run of markers, including comma-separated lists.
	groupPattern = regexp.MustCompile(`[0-9⋆‡†∗*]+(?:\s*,\s*[0-9⋆‡†∗*]+)*`)

	// markerPattern splits a group into individual markers.
	markerPattern = regexp.MustCompile(`[0-9]+|[⋆‡†∗*]`)

	leadingAnd  = regexp.MustCompile(`(?i)^and\s+`)
	trailingAnd = regexp.MustCompile(`(?i)\s+and$`)
)

const textTrimSet = " \t\r\n,;:{}()[]|"

// Group is a marker run found in a line, with byte offsets.
type Group struct {
	Start   int
	End     int
	Symbols Set
}

// Tokenizer turns reconciled header text into elements.
type Tokenizer struct {
	postal         *postal.Table
	stripDomains   bool
	leadingMarkers bool
	maxNumeric     int
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithDomainStripping removes bare host names left over after emails.
// Used for affiliation blocks.
func WithDomainStripping() Option {
	return func(t *Tokenizer) {
		t.stripDomains = true
	}
}

// WithLeadingMarkers reads markers as printed before their text, as in
// "1 MIT, 2 Stanford". A number only counts as a marker there when it
// stands at a word boundary and is followed by a word that is not lower
// case, so "Paris 7, France" and "2 rue Simone Iff" stay text.
// Used for affiliation blocks.
func WithLeadingMarkers() Option {
	return func(t *Tokenizer) {
		t.leadingMarkers = true
	}
}

// WithMaxNumeric sets the largest number read as a single marker.
func WithMaxNumeric(n int) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.maxNumeric = n
		}
	}
}

// NewTokenizer creates a tokenizer stripping postal codes from table.
// A nil table strips none.
func NewTokenizer(table *postal.Table, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		postal:     table,
		maxNumeric: DefaultMaxNumeric,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Clean removes emails, optionally host names, then postal codes.
func (t *Tokenizer) Clean(s string) string {
	s = StripEmails(s)
	if t.stripDomains {
		s = StripDomains(s)
	}
	return t.postal.Strip(s)
}

// Groups returns every marker run in s, which should already be cleaned.
func (t *Tokenizer) Groups(s string) []Group {
	locs := groupPattern.FindAllStringIndex(s, -1)
	groups := make([]Group, 0, len(locs))
	for _, loc := range locs {
		if t.leadingMarkers && !leadsText(s, loc[0], loc[1]) {
			continue
		}
		groups = append(groups, Group{Start: loc[0], End: loc[1], Symbols: t.ParseGroup(s[loc[0]:loc[1]])})
	}
	return groups
}

// leadsText reports whether the run s[start:end] can be a marker printed
// before its text. Glyph-only runs always can. A run holding digits must
// not be glued to a preceding letter and must be followed, after optional
// spaces, by a letter that is not lower case.
func leadsText(s string, start, end int) bool {
	if !strings.ContainsAny(s[start:end], "0123456789") {
		return true
	}
	if r, _ := utf8.DecodeLastRuneInString(s[:start]); start > 0 && unicode.IsLetter(r) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimLeft(s[end:], " \t"))
	return unicode.IsLetter(r) && !unicode.IsLower(r)
}

// ParseGroup splits a marker run into symbols.
func (t *Tokenizer) ParseGroup(g string) Set {
	var set Set
	for _, m := range markerPattern.FindAllString(g, -1) {
		if m[0] >= '0' && m[0] <= '9' {
			m = t.numericPrefix(m)
		}
		set = set.Add(Symbol(m))
	}
	return set
}

// numericPrefix returns the longest prefix of a digit run that is a valid marker.
func (t *Tokenizer) numericPrefix(run string) string {
	for n := len(run); n > 1; n-- {
		if v, err := strconv.Atoi(run[:n]); err == nil && v <= t.maxNumeric {
			return run[:n]
		}
	}
	return run[:1]
}

// Split separates s into element texts and their symbol groups; the two
// slices always have the same length. Pairing is positional: each text
// takes the group after it (author style, "Alice1, Bob2"), and a group
// opening s joins the first text ("∗Alice1"). With WithLeadingMarkers and
// s opening with a marker, each text takes the group before it instead
// (affiliation style, "1 MIT, 2 Stanford"). Texts with no group, or every
// text when s has no markers at all, get NoMarker. Repeated texts are
// merged in first-seen order.
func (t *Tokenizer) Split(s string) (texts []string, groups []Set) {
	s = t.Clean(s)

	type token struct {
		text    string
		symbols Set
	}
	var tokens []token

	pos := 0
	for _, g := range t.Groups(s) {
		if text := cleanText(s[pos:g.Start]); text != "" {
			tokens = append(tokens, token{text: text})
		}
		if n := len(tokens); n > 0 && tokens[n-1].text == "" {
			tokens[n-1].symbols = tokens[n-1].symbols.Union(g.Symbols)
		} else {
			tokens = append(tokens, token{symbols: g.Symbols})
		}
		pos = g.End
	}
	if text := cleanText(s[pos:]); text != "" {
		tokens = append(tokens, token{text: text})
	}

	opening := len(tokens) > 0 && tokens[0].text == ""
	prefix := opening && t.leadingMarkers
	seen := make(map[string]int)
	for i, tok := range tokens {
		if tok.text == "" {
			continue
		}
		var set Set
		if prefix {
			set = tokens[i-1].symbols
		} else {
			if opening && i == 1 {
				set = append(set, tokens[0].symbols...)
			}
			if i+1 < len(tokens) && tokens[i+1].text == "" {
				set = set.Union(tokens[i+1].symbols)
			}
		}
		if len(set) == 0 {
			set = Set{NoMarker}
		}

		if j, ok := seen[tok.text]; ok {
			switch {
			case groups[j].Unmarked():
				groups[j] = append(Set(nil), set...)
			case !set.Unmarked():
				groups[j] = groups[j].Union(set)
			}
			continue
		}
		seen[tok.text] = len(texts)
		texts = append(texts, tok.text)
		groups = append(groups, append(Set(nil), set...))
	}
	return texts, groups
}

// Tokenize returns the elements of s.
func (t *Tokenizer) Tokenize(s string) []Element {
	texts, groups := t.Split(s)
	elements := make([]Element, len(texts))
	for i := range texts {
		elements[i] = Element{Text: texts[i], Symbols: groups[i]}
	}
	return elements
}

// cleanText trims separators and conjunctions around a text run and
// returns "" when no letter is left.
func cleanText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, textTrimSet)
	s = leadingAnd.ReplaceAllString(s, "")
	s = trailingAnd.ReplaceAllString(s, "")
	s = strings.Trim(s, textTrimSet)
	if !hasLetter(s) {
		return ""
	}
	return s
}
