package pdf

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/matsen/affil/internal/layout"
)

// maxPixels caps the bitmap size at roughly a letter page at 8x.
const maxPixels = 8 * 8 * DefaultWidth * DefaultHeight

// RenderBitmap rasterizes the page at scale on a white background. Each
// text line is drawn as its filled bounding box, and rules as themselves:
// only which rows carry ink matters to the gap analysis.
func (p *Page) RenderBitmap(scale float64) (image.Image, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid render scale %v", scale)
	}
	w, h := int(math.Ceil(p.width*scale)), int(math.Ceil(p.height*scale))
	if w <= 0 || h <= 0 || float64(w)*float64(h) > maxPixels {
		return nil, fmt.Errorf("cannot render %vx%v page at scale %v", p.width, p.height, scale)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	z := vector.NewRasterizer(w, h)
	boxes := make([]layout.BBox, 0, len(p.lines)+len(p.rules))
	for _, l := range p.lines {
		boxes = append(boxes, l.Box)
	}
	boxes = append(boxes, p.rules...)

	drawn := false
	for _, b := range boxes {
		x0, x1 := float32(b.X0*scale), float32(b.X1*scale)
		// Page space grows upward; bitmap rows grow downward.
		y0, y1 := float32((p.height-b.Y1)*scale), float32((p.height-b.Y0)*scale)
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
		z.ClosePath()
		drawn = true
	}
	if drawn {
		z.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{})
	}
	return dst, nil
}
