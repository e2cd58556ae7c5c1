package affiliation

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/matsen/affil/internal/fold"
	"github.com/matsen/affil/internal/symbol"
)

// DefaultLookahead is how far past a matched name, in bytes, its marker
// group may start.
const DefaultLookahead = 3

// nameSeparator splits an element that lists several authors.
var nameSeparator = regexp.MustCompile(`(?i)\s*[,;&]\s*|\s+and\s+`)

// Containment is how much of a canonical name a line contains.
type Containment int

const (
	NoMatch Containment = iota
	ComponentMatch
	WholeMatch
)

// Author is a canonical name with the markers found for it in the header.
type Author struct {
	Name    string     `json:"name"`
	Symbols symbol.Set `json:"symbols"`
	Source  string     `json:"source,omitempty"` // header text it was resolved from
}

// ContainsAuthor reports whether line holds name as a whole word sequence,
// or failing that, any one of its components. Single-letter components
// (initials) are ignored. A component can collide with an institution word.
func ContainsAuthor(line, name string) Containment {
	l := fold.Key(line)
	n := fold.Key(name)
	if n == "" {
		return NoMatch
	}
	if containsWord(l, n) {
		return WholeMatch
	}
	for _, part := range strings.Fields(n) {
		part = strings.TrimFunc(part, func(r rune) bool { return !unicode.IsLetter(r) })
		if utf8.RuneCountInString(part) < 2 {
			continue
		}
		if containsWord(l, part) {
			return ComponentMatch
		}
	}
	return NoMatch
}

// containsWord reports whether w occurs in s bounded by non-letters.
func containsWord(s, w string) bool {
	for from := 0; from <= len(s)-len(w); {
		i := strings.Index(s[from:], w)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(w)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (i == 0 || !unicode.IsLetter(before)) && (end == len(s) || !unicode.IsLetter(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		from = i + size
	}
	return false
}

// Window is the best-matching stretch of a line, in rune offsets.
type Window struct {
	Start    int
	End      int
	Distance int
}

// ApproximateMatch slides a window as long as name over line and returns
// the first window with the smallest edit distance to it. Both sides are
// compared case- and accent-insensitively.
func ApproximateMatch(line, name string) Window {
	w, _ := bestWindow(foldRunes(line), nameRunes(name), nil)
	return w
}

func nameRunes(name string) []rune {
	return foldRunes(strings.Join(strings.Fields(name), " "))
}

// bestWindow returns the first window of l with the smallest edit distance
// to n among those overlapping none of taken. A line no longer than n is a
// single window. ok is false when every window overlaps.
func bestWindow(l, n []rune, taken []Window) (best Window, ok bool) {
	size := min(len(n), len(l))
	for i := 0; i+size <= len(l); i++ {
		w := Window{Start: i, End: i + size}
		if overlapsAny(w, taken) {
			continue
		}
		w.Distance = levenshtein.ComputeDistance(string(l[w.Start:w.End]), string(n))
		if !ok || w.Distance < best.Distance {
			best, ok = w, true
		}
	}
	return best, ok
}

func overlapsAny(w Window, taken []Window) bool {
	for _, t := range taken {
		if w.Start < t.End && t.Start < w.End {
			return true
		}
	}
	return false
}

// foldRunes lower-cases s and drops accents rune by rune, keeping offsets.
func foldRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		if f := []rune(fold.Accents(string(r))); len(f) > 0 {
			r = f[0]
		}
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

// SplitAuthorElements breaks elements listing several names ("A, B and C")
// into one element per name; each inherits the markers of its source.
func SplitAuthorElements(elements []symbol.Element) []symbol.Element {
	var out []symbol.Element
	index := make(map[string]int)
	for _, el := range elements {
		for _, part := range nameSeparator.Split(el.Text, -1) {
			part = strings.TrimSpace(part)
			if !strings.ContainsFunc(part, unicode.IsLetter) {
				continue
			}
			if i, ok := index[part]; ok {
				out[i].Symbols = out[i].Symbols.Union(el.Symbols)
				continue
			}
			index[part] = len(out)
			out = append(out, symbol.Element{Text: part, Symbols: append(symbol.Set(nil), el.Symbols...)})
		}
	}
	return out
}

// Resolver assigns header markers to canonical author names.
type Resolver struct {
	tokenizer *symbol.Tokenizer
	lookahead int
}

// NewResolver creates a resolver reading marker groups with tok.
func NewResolver(tok *symbol.Tokenizer) *Resolver {
	return &Resolver{tokenizer: tok, lookahead: DefaultLookahead}
}

// Resolve pairs author elements one-to-one with names and returns one
// Author per name, in name order. Pairs are chosen in three passes: whole
// name contained, a name component contained, then smallest edit distance
// among the names left. A different number of elements and names is an
// AuthorCountError.
func (r *Resolver) Resolve(elements []symbol.Element, names []string) ([]Author, error) {
	if len(elements) != len(names) {
		return nil, &AuthorCountError{Resolved: len(elements), Expected: len(names)}
	}

	owner := make([]int, len(names)) // element index per name
	for j := range owner {
		owner[j] = -1
	}
	done := make([]bool, len(elements))

	claim := func(pick func(el symbol.Element) int) {
		for i, el := range elements {
			if done[i] {
				continue
			}
			if j := pick(el); j >= 0 {
				owner[j] = i
				done[i] = true
			}
		}
	}

	claim(func(el symbol.Element) int {
		for j, name := range names {
			if owner[j] < 0 && ContainsAuthor(el.Text, name) == WholeMatch {
				return j
			}
		}
		return -1
	})
	claim(func(el symbol.Element) int {
		return closestFree(el.Text, names, owner, func(name string) bool {
			return ContainsAuthor(el.Text, name) == ComponentMatch
		})
	})
	claim(func(el symbol.Element) int {
		return closestFree(el.Text, names, owner, func(string) bool { return true })
	})

	authors := make([]Author, len(names))
	for j, name := range names {
		el := elements[owner[j]]
		authors[j] = Author{Name: name, Symbols: markersOrNone(el.Symbols), Source: el.Text}
	}
	return authors, nil
}

// closestFree returns the unowned name accepted by ok with the smallest
// edit distance to text, or -1.
func closestFree(text string, names []string, owner []int, ok func(string) bool) int {
	best, bestDist := -1, 0
	key := fold.Key(text)
	for j, name := range names {
		if owner[j] >= 0 || !ok(name) {
			continue
		}
		d := levenshtein.ComputeDistance(key, fold.Key(name))
		if best < 0 || d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

// ResolveLine finds each name directly in an unsegmented authors line and
// takes the marker group starting just after the matched window. Names
// claim windows in order of their best edit distance, and a window may not
// overlap one already claimed, so two names never share a stretch of text.
// A name whose best free window is off by more than a third of its length
// is unresolved, and any unresolved name is an AuthorCountError.
func (r *Resolver) ResolveLine(line string, names []string) ([]Author, error) {
	cleaned := r.tokenizer.Clean(line)
	groups := r.tokenizer.Groups(cleaned)
	l := foldRunes(cleaned)

	offsets := make([]int, 0, len(cleaned)+1)
	for i := range cleaned {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(cleaned))

	order := make([]int, len(names))
	first := make([]int, len(names))
	for j, name := range names {
		order[j] = j
		w, _ := bestWindow(l, nameRunes(name), nil)
		first[j] = w.Distance
	}
	sort.SliceStable(order, func(a, b int) bool { return first[order[a]] < first[order[b]] })

	var taken []Window
	authors := make([]Author, len(names))
	resolved := 0
	for _, j := range order {
		name := names[j]
		w, ok := bestWindow(l, nameRunes(name), taken)
		if !ok || float64(w.Distance) > float64(utf8.RuneCountInString(name))/3 {
			continue
		}
		taken = append(taken, w)
		start, end := offsets[w.Start], offsets[w.End]

		set := symbol.Set{symbol.NoMarker}
		for _, g := range groups {
			if g.Start >= end-2 && g.Start <= end+r.lookahead {
				set = append(symbol.Set(nil), g.Symbols...)
				break
			}
		}
		authors[j] = Author{Name: name, Symbols: set, Source: cleaned[start:end]}
		resolved++
	}

	if resolved != len(names) {
		return nil, &AuthorCountError{Resolved: resolved, Expected: len(names)}
	}
	return authors, nil
}

func markersOrNone(s symbol.Set) symbol.Set {
	if len(s) == 0 {
		return symbol.Set{symbol.NoMarker}
	}
	return append(symbol.Set(nil), s...)
}
