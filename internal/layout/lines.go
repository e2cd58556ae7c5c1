package layout

import "strings"

// DefaultSkipLines is the number of leading lines (running header and
// title) dropped when collecting from the top of the page.
const DefaultSkipLines = 3

// BBox is an axis-aligned box in text-layer coordinates (y grows upward).
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Overlaps reports whether two boxes intersect, edges included.
func (b BBox) Overlaps(o BBox) bool {
	return b.X0 <= o.X1 && o.X0 <= b.X1 && b.Y0 <= o.Y1 && o.Y0 <= b.Y1
}

// TextLayer answers text queries against a loaded page.
type TextLayer interface {
	// QueryText returns the text of every text line overlapping box.
	QueryText(box BBox) string
}

// PageLine is one distinct line of text and the rows it was seen on.
// YTop <= YBottom; YTop is the lowest row the line was hit on.
type PageLine struct {
	YTop    int    `json:"y_top"`
	YBottom int    `json:"y_bottom"`
	Text    string `json:"text"`
}

// Collector walks a text layer one horizontal strip per row.
type Collector struct {
	Width float64 // page width; strips span [0, Width]
	Skip  int     // leading non-empty lines to drop
}

// Collect queries every row from top down to bottom (inclusive, top >= bottom)
// and returns the distinct lines hit, top of page first. Consecutive strips
// returning the same text extend one line instead of adding another, so no
// font metrics are needed. Blank strips separate lines but are not returned.
func (c Collector) Collect(layer TextLayer, top, bottom int) []PageLine {
	// Sentinel: leading blank rows fold into it and it is dropped below.
	lines := []PageLine{{YTop: top + 1, YBottom: top + 1}}

	for row := top; row >= bottom; row-- {
		text := strings.TrimSpace(layer.QueryText(BBox{X0: 0, Y0: float64(row), X1: c.Width, Y1: float64(row)}))
		last := &lines[len(lines)-1]
		if text == last.Text {
			last.YTop = row
			continue
		}
		lines = append(lines, PageLine{YTop: row, YBottom: row, Text: text})
	}

	out := make([]PageLine, 0, len(lines))
	skipped := 0
	for _, l := range lines {
		if l.Text == "" {
			continue
		}
		if skipped < c.Skip {
			skipped++
			continue
		}
		out = append(out, l)
	}
	return out
}
