package export

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/affil/internal/reference"
)

func paper(id string, authors map[string][]string) reference.Paper {
	return reference.Paper{ID: id, URL: "https://example.org/" + id + ".pdf", Title: "T " + id, Authors: authors}
}

func TestMerge_ManualWins(t *testing.T) {
	extracted := []reference.Paper{
		paper("p1", map[string][]string{"Alice Smith": {"MIT"}}),
		paper("p2", map[string][]string{"Bob Lee": {"Stanford"}}),
	}
	manual := []reference.Paper{
		paper("p2", map[string][]string{"Bob Lee": {"CNRS, Paris"}}),
		paper("p3", map[string][]string{"Carol Wu": {"ETH Zurich"}}),
	}

	got := Merge(extracted, manual)
	if len(got) != 3 {
		t.Fatalf("Merge() has %d entries, want 3", len(got))
	}
	if !reflect.DeepEqual(got["p2"].Authors["Bob Lee"], []string{"CNRS, Paris"}) {
		t.Errorf("p2 = %v, want manual record", got["p2"])
	}
	if got["p1"].URL != "https://example.org/p1.pdf" {
		t.Errorf("p1 URL = %q", got["p1"].URL)
	}
}

func TestBucket(t *testing.T) {
	failures := []reference.Failure{
		{PaperID: "p3", Message: "layout detection failed"},
		{PaperID: "p1", Message: "layout detection failed"},
		{PaperID: "p2", Message: "author count mismatch"},
	}
	want := Buckets{
		"layout detection failed": {"p1", "p3"},
		"author count mismatch":   {"p2"},
	}
	if got := Bucket(failures); !reflect.DeepEqual(got, want) {
		t.Errorf("Bucket() = %v, want %v", got, want)
	}
}

func TestGeneral_Affiliations(t *testing.T) {
	g := Merge([]reference.Paper{
		paper("p1", map[string][]string{"Alice Smith": {"MIT"}, "Bob Lee": {"Stanford", "MIT"}}),
		paper("p2", map[string][]string{"Carol Wu": {"ETH Zurich", ""}}),
	}, nil)

	want := []string{"ETH Zurich", "MIT", "Stanford"}
	if got := g.Affiliations(); !reflect.DeepEqual(got, want) {
		t.Errorf("Affiliations() = %q, want %q", got, want)
	}
}

func TestWriteJSON_Indent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "conf", "errors.json")
	if err := WriteJSON(path, Buckets{"boom": {"p1"}}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n    \"boom\": [\n        \"p1\"\n    ]\n}\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	var back Buckets
	if err := ReadJSON(path, &back); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if !reflect.DeepEqual(back, Buckets{"boom": {"p1"}}) {
		t.Errorf("ReadJSON() = %v", back)
	}
}

func TestLocations_CSV(t *testing.T) {
	lat, lng := 42.36, -71.09
	locs := []Location{
		{Name: "MIT", Lat: &lat, Lng: &lng},
		{Name: "Nowhere, Inc.", Lat: nil, Lng: nil},
	}
	path := filepath.Join(t.TempDir(), "locations.csv")
	if err := WriteLocations(path, locs); err != nil {
		t.Fatalf("WriteLocations() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Location,Latitude,Longitude\nMIT,42.36,-71.09\n\"Nowhere, Inc.\",,\n"
	if string(data) != want {
		t.Errorf("csv = %q, want %q", data, want)
	}

	got, err := ReadLocations(path)
	if err != nil {
		t.Fatalf("ReadLocations() error = %v", err)
	}
	if !reflect.DeepEqual(got, locs) {
		t.Errorf("ReadLocations() = %+v, want %+v", got, locs)
	}
}

func TestReadLocations_Errors(t *testing.T) {
	dir := t.TempDir()

	got, err := ReadLocations(filepath.Join(dir, "missing.csv"))
	if err != nil || got != nil {
		t.Errorf("missing file = %v, %v; want nil, nil", got, err)
	}

	bad := filepath.Join(dir, "bad.csv")
	os.WriteFile(bad, []byte("Location,Latitude,Longitude\nMIT,north,1\n"), 0644)
	if _, err := ReadLocations(bad); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadLocations() error = %v, want line 2 error", err)
	}
}
