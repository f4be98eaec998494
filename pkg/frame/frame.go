// Package frame renders screenshots inside rounded-rectangle device frames.
package frame

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/menta2k/appshot/pkg/layout"
)

// kappa places cubic Bézier control points so that a quarter curve
// approximates a circular arc.
const kappa = 0.5522847498

// RoundedRectMask returns an anti-aliased alpha mask of the given size with
// rect filled as a rounded rectangle. The radius is limited to half of the
// shorter side of rect.
func RoundedRectMask(size image.Point, rect image.Rectangle, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rectangle{Max: size})
	if rect.Empty() || size.X <= 0 || size.Y <= 0 {
		return mask
	}

	x0, y0 := float32(rect.Min.X), float32(rect.Min.Y)
	x1, y1 := float32(rect.Max.X), float32(rect.Max.Y)
	r := float32(math.Min(float64(radius), float64(min(rect.Dx(), rect.Dy()))/2))
	if r < 0 {
		r = 0
	}
	k := r * (1 - kappa)

	z := vector.NewRasterizer(size.X, size.Y)
	z.MoveTo(x0+r, y0)
	z.LineTo(x1-r, y0)
	z.CubeTo(x1-k, y0, x1, y0+k, x1, y0+r)
	z.LineTo(x1, y1-r)
	z.CubeTo(x1, y1-k, x1-k, y1, x1-r, y1)
	z.LineTo(x0+r, y1)
	z.CubeTo(x0+k, y1, x0, y1-k, x0, y1-r)
	z.LineTo(x0, y0+r)
	z.CubeTo(x0, y0+k, x0+k, y0, x0+r, y0)
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return mask
}

// Render draws content into a device frame described by f. The bezel is
// filled with border through the outer rounded rectangle, then content is
// drawn through the inner one. Content must already be sized to f.Content;
// its top-left pixel lands on f.Content.Min. Transparent parts of the
// content show the bezel color.
func Render(content image.Image, f layout.Frame, border color.Color) *image.RGBA {
	size := image.Pt(f.Width, f.Height)
	dst := image.NewRGBA(image.Rectangle{Max: size})

	outer := RoundedRectMask(size, dst.Bounds(), f.CornerRadius)
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(border), image.Point{}, outer, image.Point{}, draw.Over)

	if content == nil {
		return dst
	}
	inner := RoundedRectMask(size, f.Content, f.InnerRadius)
	draw.DrawMask(dst, f.Content, content, content.Bounds().Min, inner, f.Content.Min, draw.Over)

	return dst
}
