package affiliation

import (
	"reflect"
	"testing"

	"github.com/matsen/affil/internal/symbol"
)

var twoAffiliations = []symbol.Element{
	{Text: "MIT", Symbols: symbol.Set{"1"}},
	{Text: "Stanford", Symbols: symbol.Set{"2", "∗"}},
}

func TestLink_SingleAffiliation(t *testing.T) {
	authors := []Author{
		{Name: "Alice Smith", Symbols: symbol.Set{"1"}},
		{Name: "Bob Lee", Symbols: symbol.Set{"2", "†"}},
		{Name: "Carol Wu", Symbols: symbol.Set{symbol.NoMarker}},
	}
	affiliations := []symbol.Element{{Text: "CNRS, Paris", Symbols: symbol.Set{"7"}}}

	got, unresolved := Link(authors, affiliations)
	for _, a := range authors {
		if !reflect.DeepEqual(got[a.Name], []string{"CNRS, Paris"}) {
			t.Errorf("%s = %q, want [CNRS, Paris]", a.Name, got[a.Name])
		}
	}
	if len(unresolved) != 0 {
		t.Errorf("unresolved = %v, want none", unresolved)
	}
}

func TestLink_Markers(t *testing.T) {
	authors := []Author{
		{Name: "Alice Smith", Symbols: symbol.Set{"1"}},
		{Name: "Bob Lee", Symbols: symbol.Set{"2"}},
		{Name: "Carol Wu", Symbols: symbol.Set{"∗", "1"}},
	}

	got, unresolved := Link(authors, twoAffiliations)
	want := Map{
		"Alice Smith": {"MIT"},
		"Bob Lee":     {"Stanford"},
		"Carol Wu":    {"Stanford", "MIT"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Link() = %v, want %v", got, want)
	}
	if len(unresolved) != 0 {
		t.Errorf("unresolved = %v, want none", unresolved)
	}
}

func TestLink_NoMarkerTakesFirst(t *testing.T) {
	authors := []Author{{Name: "Alice Smith", Symbols: symbol.Set{symbol.NoMarker}}}

	got, _ := Link(authors, twoAffiliations)
	if !reflect.DeepEqual(got["Alice Smith"], []string{"MIT"}) {
		t.Errorf("Alice Smith = %q, want [MIT]", got["Alice Smith"])
	}
}

func TestLink_UnresolvedSymbolSkipped(t *testing.T) {
	authors := []Author{
		{Name: "Alice Smith", Symbols: symbol.Set{"2", "3"}},
		{Name: "Bob Lee", Symbols: symbol.Set{"4"}},
	}

	got, unresolved := Link(authors, twoAffiliations)
	if !reflect.DeepEqual(got["Alice Smith"], []string{"Stanford"}) {
		t.Errorf("Alice Smith = %q, want [Stanford]", got["Alice Smith"])
	}
	if !reflect.DeepEqual(got["Bob Lee"], []string{"MIT"}) {
		t.Errorf("Bob Lee = %q, want fallback [MIT]", got["Bob Lee"])
	}
	if len(unresolved) != 2 {
		t.Fatalf("unresolved = %v, want 2 entries", unresolved)
	}
	if unresolved[0].Author != "Alice Smith" || unresolved[0].Symbol != "3" {
		t.Errorf("unresolved[0] = %+v", unresolved[0])
	}
	if !IsUnresolvedSymbol(unresolved[1]) {
		t.Errorf("unresolved[1] does not unwrap to ErrUnresolvedSymbol")
	}
}
