package layout

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/menta2k/appshot/pkg/types"
)

var (
	// ErrInvalidPlacement is returned for placements that cannot be drawn
	ErrInvalidPlacement = errors.New("invalid placement")
	// ErrDegenerate is returned when the resolved frame has no content area
	ErrDegenerate = errors.New("degenerate frame")
)

// Upper bound for the relative border; a border of half the width or more
// leaves no room for content.
const maxRelativeBorder = 0.49

// Upper bound for the relative width. A device slightly wider than the
// background is allowed; anything beyond this is a typo and would allocate
// a frame many times the background's size.
const maxRelativeWidth = 1.5

// Defaults holds the values used for placements that omit border or radius
type Defaults struct {
	RelativeBorderWidth  float64
	RelativeCornerRadius float64
}

// DefaultDefaults returns the stock border (2%) and corner radius (20%)
func DefaultDefaults() Defaults {
	return Defaults{
		RelativeBorderWidth:  0.02,
		RelativeCornerRadius: 0.2,
	}
}

// Resolved is a placement with every optional value filled in and clamped
type Resolved struct {
	Image        string
	Width        float64
	CenterX      float64
	CenterY      float64
	BorderWidth  float64
	CornerRadius float64
	ZOrder       int
}

// Resolve applies defaults to p and validates it. The width must lie in
// (0, 1.5]. The border is clamped to [0, 0.49] and a negative radius becomes 0.
func Resolve(p types.Placement, d Defaults) (Resolved, error) {
	if math.IsNaN(p.RelativeWidth) || math.IsInf(p.RelativeWidth, 0) || p.RelativeWidth <= 0 {
		return Resolved{}, fmt.Errorf("%w: relative_width must be positive, got %v", ErrInvalidPlacement, p.RelativeWidth)
	}
	if p.RelativeWidth > maxRelativeWidth {
		return Resolved{}, fmt.Errorf("%w: relative_width must be at most %v, got %v", ErrInvalidPlacement, maxRelativeWidth, p.RelativeWidth)
	}
	for _, v := range p.RelativePosition {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Resolved{}, fmt.Errorf("%w: relative_position must be finite, got %v", ErrInvalidPlacement, p.RelativePosition)
		}
	}

	border := d.RelativeBorderWidth
	if p.RelativeBorderWidth != nil {
		border = *p.RelativeBorderWidth
	}
	radius := d.RelativeCornerRadius
	if p.RelativeCornerRadius != nil {
		radius = *p.RelativeCornerRadius
	}
	if math.IsNaN(border) || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Resolved{}, fmt.Errorf("%w: border and corner radius must be numbers", ErrInvalidPlacement)
	}

	return Resolved{
		Image:        p.Image,
		Width:        p.RelativeWidth,
		CenterX:      p.RelativePosition[0],
		CenterY:      p.RelativePosition[1],
		BorderWidth:  clamp(border, 0, maxRelativeBorder),
		CornerRadius: math.Max(radius, 0),
		ZOrder:       p.ZOrder,
	}, nil
}

// Frame is the pixel geometry of one device frame on the background
type Frame struct {
	Width        int
	Height       int
	Border       int
	CornerRadius int
	InnerRadius  int
	// Content is the screenshot area in frame coordinates
	Content image.Rectangle
	// Origin is the frame's top-left corner on the background
	Origin image.Point
}

// Bounds returns the frame rectangle in background coordinates
func (f Frame) Bounds() image.Rectangle {
	return image.Rectangle{Min: f.Origin, Max: f.Origin.Add(image.Pt(f.Width, f.Height))}
}

// Center returns the frame midpoint in background coordinates
func (f Frame) Center() (float64, float64) {
	return float64(f.Origin.X) + float64(f.Width)/2, float64(f.Origin.Y) + float64(f.Height)/2
}

// Compute turns a resolved placement into pixel geometry for a background
// of the given size and a screenshot of the given size. The frame height
// follows the screenshot's aspect ratio.
func Compute(r Resolved, background, source image.Point) (Frame, error) {
	if background.X <= 0 || background.Y <= 0 {
		return Frame{}, fmt.Errorf("%w: background is %dx%d", ErrDegenerate, background.X, background.Y)
	}
	if source.X <= 0 || source.Y <= 0 {
		return Frame{}, fmt.Errorf("%w: screenshot %q is %dx%d", ErrInvalidPlacement, r.Image, source.X, source.Y)
	}
	aspect := float64(source.Y) / float64(source.X)

	width := int(math.Round(float64(background.X) * r.Width))
	if width <= 0 {
		return Frame{}, fmt.Errorf("%w: frame width %d px", ErrDegenerate, width)
	}
	borderAbs := int(float64(width) * r.BorderWidth)
	radius := int(float64(width) * r.CornerRadius)

	border := clampInt(borderAbs, 0, width/2-1)
	contentW := width - 2*border
	contentH := int(math.Round(float64(contentW) * aspect))
	height := contentH + 2*border

	// A very wide screenshot gives a short frame; the border must also fit
	// the height, which changes the content size once more.
	if limit := height/2 - 1; border > limit {
		border = clampInt(borderAbs, 0, limit)
		contentW = width - 2*border
		contentH = int(math.Round(float64(contentW) * aspect))
		height = contentH + 2*border
	}
	if contentW <= 0 || contentH <= 0 {
		return Frame{}, fmt.Errorf("%w: content area %dx%d px", ErrDegenerate, contentW, contentH)
	}

	cx := int(math.Round(float64(background.X) * r.CenterX))
	cy := int(math.Round(float64(background.Y) * r.CenterY))

	return Frame{
		Width:        width,
		Height:       height,
		Border:       border,
		CornerRadius: radius,
		InnerRadius:  max(0, radius-border),
		Content:      image.Rect(border, border, border+contentW, border+contentH),
		Origin:       image.Pt(cx-width/2, cy-height/2),
	}, nil
}

// SortByZOrder returns the indices of rs ordered by ascending z-order.
// Entries with equal z-order keep their input order.
func SortByZOrder(rs []Resolved) []int {
	order := make([]int, len(rs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rs[order[a]].ZOrder < rs[order[b]].ZOrder
	})
	return order
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
