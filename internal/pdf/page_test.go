package pdf

import (
	"image"
	"testing"

	"github.com/matsen/affil/internal/layout"
)

var headerGlyphs = []Glyph{
	{X: 128, Y: 700.5, W: 30, Size: 10, S: "Smith"},
	{X: 100, Y: 700, W: 25, Size: 10, S: "Alice"},
	{X: 158.5, Y: 704, W: 3, Size: 6, S: "1"},
	{X: 100, Y: 684, W: 3, Size: 6, S: "1"},
	{X: 106, Y: 680, W: 16, Size: 10, S: "MIT"},
}

func TestGroupLines(t *testing.T) {
	lines := groupLines(headerGlyphs)
	if len(lines) != 2 {
		t.Fatalf("groupLines() returned %d lines, want 2: %+v", len(lines), lines)
	}
	if lines[0].Text != "Alice Smith1" {
		t.Errorf("lines[0].Text = %q, want %q", lines[0].Text, "Alice Smith1")
	}
	if lines[1].Text != "1 MIT" {
		t.Errorf("lines[1].Text = %q, want %q", lines[1].Text, "1 MIT")
	}
	if lines[0].Box.Y0 > lines[0].Box.Y1 {
		t.Errorf("lines[0].Box = %+v, inverted", lines[0].Box)
	}
}

func TestQueryText(t *testing.T) {
	page := New(612, 792, headerGlyphs, nil)

	if got := page.QueryText(layout.BBox{X0: 0, Y0: 702, X1: 612, Y1: 702}); got != "Alice Smith1" {
		t.Errorf("QueryText(702) = %q, want %q", got, "Alice Smith1")
	}
	if got := page.QueryText(layout.BBox{X0: 0, Y0: 683, X1: 612, Y1: 683}); got != "1 MIT" {
		t.Errorf("QueryText(683) = %q, want %q", got, "1 MIT")
	}
	if got := page.QueryText(layout.BBox{X0: 0, Y0: 600, X1: 612, Y1: 600}); got != "" {
		t.Errorf("QueryText(600) = %q, want empty", got)
	}
	if got := page.QueryText(layout.BBox{X0: 0, Y0: 670, X1: 612, Y1: 710}); got != "Alice Smith1 1 MIT" {
		t.Errorf("QueryText(band) = %q", got)
	}
}

func TestRenderBitmap(t *testing.T) {
	page := New(100, 100, []Glyph{{X: 10, Y: 50, W: 20, Size: 10, S: "Title"}},
		[]layout.BBox{{X0: 0, Y0: 20, X1: 100, Y1: 21}})

	img, err := page.RenderBitmap(1)
	if err != nil {
		t.Fatalf("RenderBitmap() error = %v", err)
	}
	rgba := img.(*image.RGBA)
	if rgba.Bounds().Dx() != 100 || rgba.Bounds().Dy() != 100 {
		t.Fatalf("bitmap size = %v, want 100x100", rgba.Bounds())
	}
	// Text box spans y 48..58, rows 42..52.
	if c := rgba.RGBAAt(15, 45); c.R > 0x80 {
		t.Errorf("pixel (15,45) = %v, want ink", c)
	}
	// Rule spans y 20..21, row 79.
	if c := rgba.RGBAAt(50, 79); c.R > 0x80 {
		t.Errorf("pixel (50,79) = %v, want ink", c)
	}
	for _, row := range []int{10, 41, 60} {
		for x := 0; x < 100; x++ {
			if c := rgba.RGBAAt(x, row); c.R != 0xff || c.G != 0xff || c.B != 0xff {
				t.Fatalf("pixel (%d,%d) = %v, want white", x, row, c)
			}
		}
	}
}

func TestRenderBitmap_InvalidScale(t *testing.T) {
	if _, err := New(100, 100, nil, nil).RenderBitmap(0); err == nil {
		t.Error("RenderBitmap(0) should fail")
	}
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		box  []float64
		w, h float64
	}{
		{nil, DefaultWidth, DefaultHeight},
		{[]float64{0, 0, 595, 842}, 595, 842},
		{[]float64{0, 0, 0, 0}, DefaultWidth, DefaultHeight},
	}
	for _, tt := range tests {
		if w, h := pageSize(tt.box); w != tt.w || h != tt.h {
			t.Errorf("pageSize(%v) = (%v, %v), want (%v, %v)", tt.box, w, h, tt.w, tt.h)
		}
	}
}
