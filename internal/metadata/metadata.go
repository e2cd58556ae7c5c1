// Package metadata reads the canonical title and author list of a paper
// from the citation meta tags of its landing page.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matsen/affil/internal/affiliation"
	"github.com/matsen/affil/internal/fetch"
)

// ErrNoMetadata indicates a page without citation meta tags.
var ErrNoMetadata = errors.New("no citation metadata")

// Paper is the citation metadata of one landing page.
type Paper struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	PDFURL  string   `json:"pdf_url,omitempty"`
}

// Reference returns the data extraction resolves against.
func (p *Paper) Reference() affiliation.Reference {
	return affiliation.Reference{Title: p.Title, Authors: p.Authors}
}

// Parse reads citation_title, citation_author and citation_pdf_url meta
// tags. Authors keep page order, with repeats dropped.
func Parse(r io.Reader) (*Paper, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	p := &Paper{
		Title:  strings.TrimSpace(metaContent(doc, "citation_title")),
		PDFURL: strings.TrimSpace(metaContent(doc, "citation_pdf_url")),
	}
	seen := make(map[string]bool)
	doc.Find(`meta[name="citation_author"]`).Each(func(_ int, s *goquery.Selection) {
		name := CanonicalName(s.AttrOr("content", ""))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		p.Authors = append(p.Authors, name)
	})

	if p.Title == "" && len(p.Authors) == 0 {
		return nil, ErrNoMetadata
	}
	return p, nil
}

func metaContent(doc *goquery.Document, name string) string {
	return doc.Find(`meta[name="` + name + `"]`).First().AttrOr("content", "")
}

// CanonicalName turns "Last, First" into "First Last". Names without a
// comma are returned with whitespace collapsed.
func CanonicalName(s string) string {
	parts := strings.Split(s, ",")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	var fields []string
	for _, p := range parts {
		fields = append(fields, strings.Fields(p)...)
	}
	return strings.Join(fields, " ")
}

// PageURL returns the landing page of a PDF served next to it.
func PageURL(pdfURL string) string {
	if base, ok := strings.CutSuffix(pdfURL, ".pdf"); ok {
		return base + ".html"
	}
	return pdfURL
}

// Fetcher downloads landing pages into a cache and parses them.
type Fetcher struct {
	client *fetch.Client
}

// NewFetcher creates a fetcher using client.
func NewFetcher(client *fetch.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch returns the metadata of the page at url, cached at path.
func (f *Fetcher) Fetch(ctx context.Context, url, path string) (*Paper, error) {
	if _, err := f.client.Download(ctx, url, path); err != nil {
		return nil, fmt.Errorf("fetching metadata page: %w", err)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	p, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return p, nil
}
