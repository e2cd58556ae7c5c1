package reference

import (
	"reflect"
	"testing"
)

func TestNames(t *testing.T) {
	p := Paper{
		Authors: map[string][]string{
			"Bob Lee":     {"Stanford"},
			"Alice Smith": {"MIT"},
			"Zed Zhu":     {"MIT"},
			"Carol Wu":    {"CNRS"},
		},
		AuthorOrder: []string{"Bob Lee", "Alice Smith", "Missing Person"},
	}
	want := []string{"Bob Lee", "Alice Smith", "Carol Wu", "Zed Zhu"}
	if got := p.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %q, want %q", got, want)
	}
}

func TestAffiliations(t *testing.T) {
	p := Paper{
		Authors: map[string][]string{
			"Alice Smith": {"MIT", "Stanford"},
			"Bob Lee":     {"Stanford"},
		},
		AuthorOrder: []string{"Alice Smith", "Bob Lee"},
	}
	if got := p.Affiliations(); !reflect.DeepEqual(got, []string{"MIT", "Stanford"}) {
		t.Errorf("Affiliations() = %q", got)
	}
}
