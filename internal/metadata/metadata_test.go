package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/affil/internal/fetch"
)

const landingPage = `<html><head>
<meta name="citation_title" content=" A Study of Things ">
<meta name="citation_author" content="Smith, Alice">
<meta name="citation_author" content="Lee,  Bob J.">
<meta name="citation_author" content="Smith, Alice">
<meta name="citation_author" content="Plato">
<meta name="citation_pdf_url" content="https://example.org/p1.pdf">
</head><body></body></html>`

func TestParse(t *testing.T) {
	p, err := Parse(strings.NewReader(landingPage))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Title != "A Study of Things" {
		t.Errorf("Title = %q", p.Title)
	}
	want := []string{"Alice Smith", "Bob J. Lee", "Plato"}
	if !reflect.DeepEqual(p.Authors, want) {
		t.Errorf("Authors = %q, want %q", p.Authors, want)
	}
	if p.PDFURL != "https://example.org/p1.pdf" {
		t.Errorf("PDFURL = %q", p.PDFURL)
	}
	if ref := p.Reference(); ref.Title != p.Title || len(ref.Authors) != 3 {
		t.Errorf("Reference() = %+v", ref)
	}
}

func TestParse_NoMetadata(t *testing.T) {
	if _, err := Parse(strings.NewReader("<html><body>nothing</body></html>")); err != ErrNoMetadata {
		t.Errorf("Parse() error = %v, want ErrNoMetadata", err)
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Smith, Alice", "Alice Smith"},
		{"de la Cruz, Zoë", "Zoë de la Cruz"},
		{"  Alice   Smith ", "Alice Smith"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalName(tt.in); got != tt.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPageURL(t *testing.T) {
	if got := PageURL("https://example.org/papers/p1.pdf"); got != "https://example.org/papers/p1.html" {
		t.Errorf("PageURL() = %q", got)
	}
	if got := PageURL("https://example.org/papers/p1"); got != "https://example.org/papers/p1" {
		t.Errorf("PageURL() without .pdf = %q", got)
	}
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(landingPage))
	}))
	defer srv.Close()

	f := NewFetcher(fetch.NewClient(fetch.WithRate(0)))
	p, err := f.Fetch(context.Background(), srv.URL, filepath.Join(t.TempDir(), "p1.html"))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(p.Authors) != 3 {
		t.Errorf("Authors = %q", p.Authors)
	}
}
