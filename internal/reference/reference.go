// Package reference defines the paper records shared by the batch, storage
// and export layers.
package reference

import "sort"

// Record sources.
const (
	SourceExtracted = "extracted" // produced by header extraction
	SourceManual    = "manual"    // supplied by hand in an overrides file
)

// Paper is the affiliation record of one paper.
type Paper struct {
	ID         string `json:"id"`
	Conference string `json:"conference,omitempty"`
	URL        string `json:"url"`
	Title      string `json:"title"`

	// Authors maps each canonical author name to its affiliations.
	Authors map[string][]string `json:"authors"`

	// AuthorOrder lists the keys of Authors in byline order.
	AuthorOrder []string `json:"author_order,omitempty"`

	Fingerprint string `json:"fingerprint,omitempty"` // BLAKE2b of the PDF
	Source      string `json:"source,omitempty"`
}

// Names returns the author names in byline order. Names missing from
// AuthorOrder follow in sorted order.
func (p Paper) Names() []string {
	names := make([]string, 0, len(p.Authors))
	seen := make(map[string]bool, len(p.Authors))
	for _, n := range p.AuthorOrder {
		if _, ok := p.Authors[n]; ok && !seen[n] {
			names = append(names, n)
			seen[n] = true
		}
	}
	var rest []string
	for n := range p.Authors {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Affiliations returns the distinct affiliations of the paper in byline order.
func (p Paper) Affiliations() []string {
	var out []string
	seen := make(map[string]bool)
	for _, n := range p.Names() {
		for _, a := range p.Authors[n] {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// Failure records why a paper could not be processed.
type Failure struct {
	PaperID    string `json:"paper_id"`
	Conference string `json:"conference,omitempty"`
	Message    string `json:"message"`
}

// Entry is one paper in the merged general.json export.
type Entry struct {
	URL     string              `json:"url"`
	Title   string              `json:"title"`
	Authors map[string][]string `json:"authors"`
}

// Entry returns the export form of p.
func (p Paper) Entry() Entry {
	return Entry{URL: p.URL, Title: p.Title, Authors: p.Authors}
}
