// Package affiliation maps the authors of a paper to their institutions
// from the header of its first page.
//
// Extract runs the whole pipeline: locate the header, rebuild its lines,
// split authors from affiliations, tokenize both blocks, resolve author
// text to canonical names and link markers. It never logs; every failure
// is returned as one of the error kinds in this package or in layout.
package affiliation

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/matsen/affil/internal/fold"
	"github.com/matsen/affil/internal/layout"
	"github.com/matsen/affil/internal/postal"
	"github.com/matsen/affil/internal/symbol"
)

// DefaultScale is the render scale for the raster pass. Lower scales let
// anti-aliasing bleed into whitespace rows.
const DefaultScale = 4.0

// Page is a loaded first page: its text layer plus a renderer.
type Page interface {
	layout.TextLayer
	// Size returns the page width and height in text-layer units.
	Size() (width, height float64)
	// RenderBitmap rasterizes the page at scale times its size.
	RenderBitmap(scale float64) (image.Image, error)
}

// Reference is the canonical paper data from citation metadata.
type Reference struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
}

// Options tune extraction.
type Options struct {
	Scale      float64     // raster render scale
	UseRaster  bool        // bound the header by whitespace gaps; otherwise scan the whole page
	SkipLines  int         // lines dropped from the top in whole-page mode
	Background color.Color // page background for the raster pass
	MaxNumeric int         // largest single numeric marker

	// ApproximateFallback resolves the unsegmented authors line by edit
	// distance when element-wise resolution miscounts.
	ApproximateFallback bool

	// StrictSymbols fails the paper on any unresolved marker instead of
	// skipping it.
	StrictSymbols bool
}

// DefaultOptions returns the settings used for conference batches.
func DefaultOptions() Options {
	return Options{
		Scale:               DefaultScale,
		UseRaster:           true,
		SkipLines:           layout.DefaultSkipLines,
		Background:          color.White,
		MaxNumeric:          symbol.DefaultMaxNumeric,
		ApproximateFallback: true,
	}
}

// Result is the outcome of one extraction.
type Result struct {
	Authors           Map                      `json:"authors"`
	Order             []string                 `json:"order"`
	AuthorsBlock      string                   `json:"authors_block"`
	AffiliationsBlock string                   `json:"affiliations_block"`
	Unresolved        []*UnresolvedSymbolError `json:"unresolved,omitempty"`
}

// Extractor holds the tokenizers and options for a batch of pages.
type Extractor struct {
	opts      Options
	authorTok *symbol.Tokenizer
	affilTok  *symbol.Tokenizer
	resolver  *Resolver
}

// NewExtractor creates an extractor stripping postal codes from table.
func NewExtractor(table *postal.Table, opts Options) *Extractor {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.MaxNumeric <= 0 {
		opts.MaxNumeric = symbol.DefaultMaxNumeric
	}
	authorTok := symbol.NewTokenizer(table, symbol.WithMaxNumeric(opts.MaxNumeric))
	return &Extractor{
		opts:      opts,
		authorTok: authorTok,
		affilTok:  symbol.NewTokenizer(table, symbol.WithDomainStripping(), symbol.WithLeadingMarkers(), symbol.WithMaxNumeric(opts.MaxNumeric)),
		resolver:  NewResolver(authorTok),
	}
}

// Extract maps every author in ref to the affiliations printed on page.
func (e *Extractor) Extract(page Page, ref Reference) (*Result, error) {
	lines, err := e.headerLines(page, ref)
	if err != nil {
		return nil, err
	}

	authorLines, affilLines, err := layout.SplitOnMajorGap(lines)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Order:             ref.Authors,
		AuthorsBlock:      layout.BlockText(authorLines),
		AffiliationsBlock: layout.BlockText(affilLines),
	}

	affiliations := e.affilTok.Tokenize(res.AffiliationsBlock)
	if len(affiliations) == 0 {
		return nil, &layout.LayoutError{Stage: "split", Reason: "affiliation block has no text"}
	}

	elements := SplitAuthorElements(e.authorTok.Tokenize(res.AuthorsBlock))
	authors, err := e.resolver.Resolve(elements, ref.Authors)
	if err != nil && IsAuthorCountMismatch(err) && e.opts.ApproximateFallback {
		if fallback, ferr := e.resolver.ResolveLine(res.AuthorsBlock, ref.Authors); ferr == nil {
			authors, err = fallback, nil
		}
	}
	if err != nil {
		return nil, err
	}

	res.Authors, res.Unresolved = Link(authors, affiliations)
	if e.opts.StrictSymbols && len(res.Unresolved) > 0 {
		errs := make([]error, len(res.Unresolved))
		for i, u := range res.Unresolved {
			errs[i] = u
		}
		return nil, errors.Join(errs...)
	}
	return res, nil
}

// headerLines collects and filters the candidate header lines of page.
func (e *Extractor) headerLines(page Page, ref Reference) ([]layout.PageLine, error) {
	width, height := page.Size()

	var lines []layout.PageLine
	if e.opts.UseRaster {
		img, err := page.RenderBitmap(e.opts.Scale)
		if err != nil {
			return nil, fmt.Errorf("rendering page: %w", err)
		}
		authors, affiliations, err := layout.AnalyzeBitmap(img, e.opts.Background)
		if err != nil {
			return nil, err
		}
		h := img.Bounds().Dy()
		_, y1 := authors.Band(h, e.opts.Scale)
		y0, _ := affiliations.Band(h, e.opts.Scale)
		top := min(int(math.Ceil(y1)), int(height))
		bottom := max(int(math.Floor(y0)), 1)
		lines = layout.Collector{Width: width}.Collect(page, top, bottom)
	} else {
		lines = layout.Collector{Width: width, Skip: e.opts.SkipLines}.Collect(page, int(height), 1)
		lines = fromFirstAuthor(lines, ref.Authors)
	}

	return filterHeader(lines, ref.Title), nil
}

// fromFirstAuthor drops the lines above the first one naming an author.
// With no such line the input is returned unchanged.
func fromFirstAuthor(lines []layout.PageLine, names []string) []layout.PageLine {
	for i, l := range lines {
		for _, name := range names {
			if ContainsAuthor(l.Text, name) != NoMatch {
				return lines[i:]
			}
		}
	}
	return lines
}

// filterHeader drops title lines and email-only lines, and stops at the abstract.
func filterHeader(lines []layout.PageLine, title string) []layout.PageLine {
	titleKey := fold.Key(title)
	var out []layout.PageLine
	for _, l := range lines {
		key := fold.Key(l.Text)
		if strings.HasPrefix(key, "abstract") {
			break
		}
		if isTitleLine(key, titleKey) || symbol.OnlyEmails(l.Text) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// isTitleLine reports whether a line is the title or a wrapped piece of it.
// Short pieces must span a few words so an institution name that happens to
// appear in the title is kept.
func isTitleLine(line, title string) bool {
	if line == "" || title == "" {
		return false
	}
	if strings.Contains(line, title) {
		return true
	}
	return strings.Contains(title, line) && len(strings.Fields(line)) >= 3
}
