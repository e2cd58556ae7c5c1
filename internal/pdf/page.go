// Package pdf loads the first page of a paper as a text layer and a bitmap.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/matsen/affil/internal/layout"
)

// Letter size, used when a page declares no MediaBox.
const (
	DefaultWidth  = 612.0
	DefaultHeight = 792.0
)

// Glyph extents relative to font size: the box reaches below the baseline
// for descenders and up to the cap height.
const (
	descent = 0.2
	ascent  = 0.8
)

// rowTolerance is how far, relative to font size, a baseline may sit from
// its line's and still join it. Superscript markers are raised by less.
const rowTolerance = 0.5

// maxTreeDepth bounds the walk up the page tree.
const maxTreeDepth = 32

// ErrNoPages indicates a document without a readable first page.
var ErrNoPages = errors.New("PDF has no pages")

// Glyph is one positioned run of text on the page; Y is the baseline.
type Glyph struct {
	X, Y float64
	W    float64
	Size float64
	S    string
}

func (g Glyph) box() layout.BBox {
	return layout.BBox{X0: g.X, Y0: g.Y - descent*g.Size, X1: g.X + g.W, Y1: g.Y + ascent*g.Size}
}

// Line is a run of glyphs sharing a baseline.
type Line struct {
	Box  layout.BBox `json:"box"`
	Text string      `json:"text"`
}

// Page is a loaded page. It satisfies affiliation.Page.
type Page struct {
	width, height float64
	lines         []Line
	rules         []layout.BBox
}

// New builds a page from positioned glyphs and filled rectangles (rules).
func New(width, height float64, glyphs []Glyph, rules []layout.BBox) *Page {
	return &Page{width: width, height: height, lines: groupLines(glyphs), rules: rules}
}

// Open loads page 1 of the PDF at path.
func Open(path string) (*Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return firstPage(r)
}

// FromReader loads page 1 of a PDF held in r.
func FromReader(r io.ReaderAt, size int64) (*Page, error) {
	pr, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	return firstPage(pr)
}

func firstPage(r *pdf.Reader) (page *Page, err error) {
	if r.NumPage() < 1 {
		return nil, ErrNoPages
	}
	p := r.Page(1)
	if p.V.IsNull() {
		return nil, ErrNoPages
	}

	// The content stream interpreter panics on malformed operators.
	defer func() {
		if rec := recover(); rec != nil {
			page, err = nil, fmt.Errorf("parsing page content: %v", rec)
		}
	}()
	content := p.Content()

	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}
	rules := make([]layout.BBox, 0, len(content.Rect))
	for _, rc := range content.Rect {
		rules = append(rules, layout.BBox{X0: rc.Min.X, Y0: rc.Min.Y, X1: rc.Max.X, Y1: rc.Max.Y})
	}

	width, height := pageSize(mediaBox(p.V))
	return New(width, height, glyphs, rules), nil
}

// mediaBox reads the MediaBox of a page, inherited from its parents if needed.
func mediaBox(v pdf.Value) []float64 {
	for node, depth := v, 0; !node.IsNull() && depth < maxTreeDepth; node, depth = node.Key("Parent"), depth+1 {
		box := node.Key("MediaBox")
		if box.Len() != 4 {
			continue
		}
		vals := make([]float64, 4)
		for i := range vals {
			vals[i] = box.Index(i).Float64()
		}
		return vals
	}
	return nil
}

// pageSize returns the width and height of a [x0 y0 x1 y1] box, or letter
// size when the box is missing or empty.
func pageSize(box []float64) (width, height float64) {
	if len(box) != 4 {
		return DefaultWidth, DefaultHeight
	}
	width, height = math.Abs(box[2]-box[0]), math.Abs(box[3]-box[1])
	if width == 0 || height == 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// groupLines clusters glyphs into lines by baseline, top of page first,
// and joins each line left to right, inserting a space at word gaps.
func groupLines(glyphs []Glyph) []Line {
	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]Glyph
	for _, g := range sorted {
		if n := len(rows); n > 0 {
			base := rows[n-1][0]
			if math.Abs(base.Y-g.Y) <= rowTolerance*math.Max(base.Size, g.Size) {
				rows[n-1] = append(rows[n-1], g)
				continue
			}
		}
		rows = append(rows, []Glyph{g})
	}

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		var sb strings.Builder
		box := row[0].box()
		prevEnd := row[0].X
		for i, g := range row {
			if i > 0 && g.X-prevEnd > descent*g.Size && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
			sb.WriteString(g.S)
			prevEnd = g.X + g.W

			b := g.box()
			box.X0, box.Y0 = math.Min(box.X0, b.X0), math.Min(box.Y0, b.Y0)
			box.X1, box.Y1 = math.Max(box.X1, b.X1), math.Max(box.Y1, b.Y1)
		}
		lines = append(lines, Line{Box: box, Text: strings.Join(strings.Fields(sb.String()), " ")})
	}
	return lines
}

// Size returns the page width and height in points.
func (p *Page) Size() (width, height float64) {
	return p.width, p.height
}

// Lines returns the text lines of the page, top first.
func (p *Page) Lines() []Line {
	return p.lines
}

// QueryText returns the text of every line overlapping box, top to bottom
// and left to right, separated by spaces.
func (p *Page) QueryText(box layout.BBox) string {
	var hits []Line
	for _, l := range p.lines {
		if l.Box.Overlaps(box) {
			hits = append(hits, l)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Box.Y1 != hits[j].Box.Y1 {
			return hits[i].Box.Y1 > hits[j].Box.Y1
		}
		return hits[i].Box.X0 < hits[j].Box.X0
	})

	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
	}
	return strings.Join(texts, " ")
}
