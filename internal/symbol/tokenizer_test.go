package symbol

import (
	"reflect"
	"testing"

	"github.com/matsen/affil/internal/postal"
)

func TestTokenize_Authors(t *testing.T) {
	tok := NewTokenizer(nil)
	got := tok.Tokenize("Alice Smith1, Bob Lee2,∗, and Carol Wu1,3")

	want := []Element{
		{Text: "Alice Smith", Symbols: Set{"1"}},
		{Text: "Bob Lee", Symbols: Set{"2", "∗"}},
		{Text: "Carol Wu", Symbols: Set{"1", "3"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %+v, want %+v", got, want)
	}
}

func TestTokenize_AffiliationsPrefixMarkers(t *testing.T) {
	tok := NewTokenizer(postal.Default(), WithDomainStripping(), WithLeadingMarkers())
	got := tok.Tokenize("1 MIT, Cambridge, MA 02139 2 Stanford University {alice,bob}@cs.stanford.edu")

	want := []Element{
		{Text: "MIT, Cambridge, MA", Symbols: Set{"1"}},
		{Text: "Stanford University", Symbols: Set{"2"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %+v, want %+v", got, want)
	}
}

func TestTokenize_AuthorsLeadingGlyph(t *testing.T) {
	tok := NewTokenizer(nil)
	got := tok.Tokenize("∗Alice Smith1, Bob Lee2")

	want := []Element{
		{Text: "Alice Smith", Symbols: Set{"∗", "1"}},
		{Text: "Bob Lee", Symbols: Set{"2"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %+v, want %+v", got, want)
	}
}

func TestTokenize_AffiliationNumbersInText(t *testing.T) {
	tok := NewTokenizer(nil, WithLeadingMarkers())

	tests := []struct {
		in   string
		want []Element
	}{
		{
			"1 Université Paris 7, France 2 MIT",
			[]Element{
				{Text: "Université Paris 7, France", Symbols: Set{"1"}},
				{Text: "MIT", Symbols: Set{"2"}},
			},
		},
		{
			"1 Inria, 2 rue Simone Iff, Paris 2 MIT",
			[]Element{
				{Text: "Inria, 2 rue Simone Iff, Paris", Symbols: Set{"1"}},
				{Text: "MIT", Symbols: Set{"2"}},
			},
		},
		{
			"1MIT 2,3 Stanford",
			[]Element{
				{Text: "MIT", Symbols: Set{"1"}},
				{Text: "Stanford", Symbols: Set{"2", "3"}},
			},
		},
		{
			"Université Paris 7",
			[]Element{
				{Text: "Université Paris 7", Symbols: Set{NoMarker}},
			},
		},
	}
	for _, tt := range tests {
		if got := tok.Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSplit_NoSymbols(t *testing.T) {
	tok := NewTokenizer(nil)
	texts, groups := tok.Split("CNRS, Paris")

	if len(texts) != len(groups) {
		t.Fatalf("Split() returned %d texts and %d groups", len(texts), len(groups))
	}
	if len(texts) != 1 || texts[0] != "CNRS, Paris" {
		t.Fatalf("texts = %q, want [CNRS, Paris]", texts)
	}
	for i, g := range groups {
		if !g.Unmarked() {
			t.Errorf("groups[%d] = %v, want only NoMarker", i, g)
		}
	}
}

func TestSplit_CountsMatch(t *testing.T) {
	tok := NewTokenizer(nil)
	inputs := []string{
		"",
		"Alice Smith and Bob Lee",
		"Alice1 Bob",
		"1 MIT 2",
		"†Equal contribution",
	}
	for _, in := range inputs {
		texts, groups := tok.Split(in)
		if len(texts) != len(groups) {
			t.Errorf("Split(%q) returned %d texts and %d groups", in, len(texts), len(groups))
		}
	}
}

func TestSplit_DeduplicatesTexts(t *testing.T) {
	tok := NewTokenizer(nil, WithLeadingMarkers())
	texts, groups := tok.Split("1 MIT 2 Stanford 1 MIT")

	if !reflect.DeepEqual(texts, []string{"MIT", "Stanford"}) {
		t.Errorf("texts = %q, want [MIT Stanford]", texts)
	}
	if !reflect.DeepEqual(groups, []Set{{"1"}, {"2"}}) {
		t.Errorf("groups = %v", groups)
	}
}

func TestParseGroup_MultiDigit(t *testing.T) {
	tests := []struct {
		max  int
		in   string
		want Set
	}{
		{DefaultMaxNumeric, "1", Set{"1"}},
		{DefaultMaxNumeric, "23", Set{"2"}},
		{DefaultMaxNumeric, "1,2", Set{"1", "2"}},
		{DefaultMaxNumeric, "1†", Set{"1", "†"}},
		{12, "12", Set{"12"}},
		{12, "134", Set{"1"}},
	}
	for _, tt := range tests {
		tok := NewTokenizer(nil, WithMaxNumeric(tt.max))
		if got := tok.ParseGroup(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseGroup(%q) with max %d = %v, want %v", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestNoMarkerDistinctFromZero(t *testing.T) {
	if NoMarker == Symbol("0") {
		t.Fatal("NoMarker must not collide with the digit 0")
	}
	tok := NewTokenizer(nil)
	if got := tok.ParseGroup("0"); !reflect.DeepEqual(got, Set{"0"}) {
		t.Errorf("ParseGroup(0) = %v, want {0}", got)
	}
}

func TestStripEmails(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice@mit.edu", ""},
		{"Email: alice.smith @mit.edu", " "},
		{"{alice, bob}@stanford.edu", ""},
		{"alice1@mit.edu, MIT", ", MIT"},
	}
	for _, tt := range tests {
		if got := StripEmails(tt.in); got != tt.want {
			t.Errorf("StripEmails(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOnlyEmails(t *testing.T) {
	if !OnlyEmails("{alice,bob}@mit.edu, carol@cnrs.fr") {
		t.Error("OnlyEmails() = false for an address-only line")
	}
	if OnlyEmails("1 MIT, alice@mit.edu") {
		t.Error("OnlyEmails() = true for a line with an institution")
	}
	if OnlyEmails("") {
		t.Error("OnlyEmails(\"\") = true")
	}
}
