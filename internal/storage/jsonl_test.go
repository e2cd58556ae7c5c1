package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matsen/affil/internal/reference"
)

func TestJSONL_WriteAppendRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "papers.jsonl")

	if err := WriteAll(path, []reference.Paper{testPaper("p1")}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := Append(path, testPaper("p2")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	papers, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("ReadAll() = %d papers, want 2", len(papers))
	}
	if !reflect.DeepEqual(papers[1], testPaper("p2")) {
		t.Errorf("papers[1] = %+v", papers[1])
	}

	if i, ok := FindByID(papers, "p2"); !ok || i != 1 {
		t.Errorf("FindByID(p2) = %d, %v", i, ok)
	}
	if _, ok := FindByID(papers, "p9"); ok {
		t.Error("FindByID(p9) found")
	}
}

func TestReadAll_Missing(t *testing.T) {
	papers, err := ReadAll(filepath.Join(t.TempDir(), "none.jsonl"))
	if err != nil || papers != nil {
		t.Errorf("ReadAll(missing) = %v, %v", papers, err)
	}
}

func TestReadAll_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	os.WriteFile(path, []byte("{\"id\":\"p1\"}\n\nnot json\n"), 0644)
	if _, err := ReadAll(path); err == nil {
		t.Error("ReadAll() error = nil, want parse error")
	}
}
