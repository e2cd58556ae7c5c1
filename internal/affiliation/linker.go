package affiliation

import "github.com/matsen/affil/internal/symbol"

// Map is the final author -> affiliations mapping.
type Map map[string][]string

// Link joins author markers to affiliation markers.
//
// With a single affiliation element every author gets it. Otherwise an
// unmarked author gets the first affiliation in block order, and each real
// marker adds the first affiliation carrying it. Markers no affiliation
// carries are skipped and returned; an author left with nothing falls back
// to the first affiliation so every value is non-empty.
func Link(authors []Author, affiliations []symbol.Element) (Map, []*UnresolvedSymbolError) {
	m := make(Map, len(authors))
	if len(affiliations) == 0 {
		return m, nil
	}
	first := affiliations[0].Text

	if len(affiliations) == 1 {
		for _, a := range authors {
			m[a.Name] = []string{first}
		}
		return m, nil
	}

	var unresolved []*UnresolvedSymbolError
	for _, a := range authors {
		var list []string
		add := func(text string) {
			for _, t := range list {
				if t == text {
					return
				}
			}
			list = append(list, text)
		}

		for _, sym := range a.Symbols {
			if sym == symbol.NoMarker {
				add(first)
				continue
			}
			found := false
			for _, aff := range affiliations {
				if aff.Symbols.Contains(sym) {
					add(aff.Text)
					found = true
					break
				}
			}
			if !found {
				unresolved = append(unresolved, &UnresolvedSymbolError{Author: a.Name, Symbol: sym})
			}
		}

		if len(list) == 0 {
			list = []string{first}
		}
		m[a.Name] = list
	}
	return m, unresolved
}
