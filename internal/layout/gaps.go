package layout

import (
	"image"
	"image/color"
)

const (
	// MarginGaps is the number of gaps dropped at each end of the page.
	MarginGaps = 2

	// MinGaps is the fewest gaps a page must have for the margins to be dropped.
	MinGaps = 2*MarginGaps + 1

	// GapThresholdFactor scales the mean gap length into the section threshold.
	GapThresholdFactor = 1.75

	// FallbackGapThreshold is used when no gaps remain to average.
	FallbackGapThreshold = 20.0
)

// Gap is a maximal run of background-only rows in a rendered page.
// Rows are counted from the top of the bitmap; EndRow is exclusive.
type Gap struct {
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
}

// Len returns the number of rows in the gap.
func (g Gap) Len() int {
	return g.EndRow - g.StartRow
}

// Segment is the band of bitmap rows between two consecutive section gaps.
type Segment struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Band converts the segment into text-layer coordinates, where y grows
// upward from the bottom of the page. height is the bitmap height and scale
// the factor the page was rendered at.
func (s Segment) Band(height int, scale float64) (y0, y1 float64) {
	y0 = float64(height-s.Bottom-1) / scale
	y1 = float64(height-s.Top+1) / scale
	return y0, y1
}

// FindGaps scans img top to bottom and returns every run of rows whose
// pixels all equal background. A run still open at the bottom edge is not
// a gap: it is never closed by content.
func FindGaps(img image.Image, background color.Color) []Gap {
	b := img.Bounds()
	var gaps []Gap
	run := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if rowIsBackground(img, y, background) {
			run++
			continue
		}
		if run > 0 {
			row := y - b.Min.Y
			gaps = append(gaps, Gap{StartRow: row - run, EndRow: row})
			run = 0
		}
	}
	return gaps
}

func rowIsBackground(img image.Image, y int, background color.Color) bool {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok {
		bg := color.RGBAModel.Convert(background).(color.RGBA)
		start := rgba.PixOffset(b.Min.X, y)
		row := rgba.Pix[start : start+4*b.Dx()]
		for i := 0; i < len(row); i += 4 {
			if row[i] != bg.R || row[i+1] != bg.G || row[i+2] != bg.B || row[i+3] != bg.A {
				return false
			}
		}
		return true
	}

	br, bgc, bb, ba := background.RGBA()
	for x := b.Min.X; x < b.Max.X; x++ {
		r, g, bl, a := img.At(x, y).RGBA()
		if r != br || g != bgc || bl != bb || a != ba {
			return false
		}
	}
	return true
}

// SectionThreshold returns the length a gap must exceed to count as a
// section boundary: GapThresholdFactor times the mean gap length, or
// FallbackGapThreshold when there is nothing to average.
func SectionThreshold(gaps []Gap) float64 {
	if len(gaps) == 0 {
		return FallbackGapThreshold
	}
	total := 0
	for _, g := range gaps {
		total += g.Len()
	}
	return GapThresholdFactor * float64(total) / float64(len(gaps))
}

// SectionGaps drops the margin gaps and keeps those longer than the
// statistical threshold, in row order.
func SectionGaps(gaps []Gap) ([]Gap, error) {
	if len(gaps) < MinGaps {
		return nil, layoutErrorf("gaps", "found %d whitespace gaps, need at least %d", len(gaps), MinGaps)
	}

	interior := gaps[MarginGaps : len(gaps)-MarginGaps]
	threshold := SectionThreshold(interior)

	var sections []Gap
	for _, g := range interior {
		if float64(g.Len()) > threshold {
			sections = append(sections, g)
		}
	}
	return sections, nil
}

// Segments brackets the content between each pair of consecutive gaps.
func Segments(sections []Gap) []Segment {
	if len(sections) < 2 {
		return nil
	}
	segments := make([]Segment, 0, len(sections)-1)
	for i := 0; i+1 < len(sections); i++ {
		segments = append(segments, Segment{Top: sections[i].EndRow, Bottom: sections[i+1].StartRow})
	}
	return segments
}

// HeaderExtent returns the authors and affiliations segments of a page
// whose section gaps bracket exactly two segments.
func HeaderExtent(segments []Segment) (authors, affiliations Segment, err error) {
	if len(segments) != 2 {
		return Segment{}, Segment{}, layoutErrorf("segments", "expected 2 header segments, found %d", len(segments))
	}
	return segments[0], segments[1], nil
}

// AnalyzeBitmap runs the whole raster pass over a rendered page.
func AnalyzeBitmap(img image.Image, background color.Color) (authors, affiliations Segment, err error) {
	sections, err := SectionGaps(FindGaps(img, background))
	if err != nil {
		return Segment{}, Segment{}, err
	}
	return HeaderExtent(Segments(sections))
}
