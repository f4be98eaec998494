package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/appshot/pkg/layout"
)

// ErrUnsupportedFormat is returned when an output extension has no encoder
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Processor handles image loading, saving and resizing
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support.
// JPEG EXIF orientation is applied.
func (p *Processor) LoadImage(path string) (image.Image, error) {
	img, openErr := imaging.Open(path, imaging.AutoOrientation(true))
	if openErr == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Fallback: explicit WebP decode (covers extended WebP the x/image
	// decoder rejects)
	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("decode %s: %w", path, openErr)
}

// LoadImageFromReader loads an image from an io.Reader
func (p *Processor) LoadImageFromReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return p.decodeImageFromBytes(data)
}

// decodeImageFromBytes decodes an image from byte data with WebP support
func (p *Processor) decodeImageFromBytes(data []byte) (image.Image, error) {
	img, stdErr := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if stdErr == nil {
		return img, nil
	}

	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	return nil, stdErr
}

// FormatFromPath returns the output format implied by the file extension.
// Paths without an extension are written as PNG.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "":
		return "png"
	case "jpeg":
		return "jpg"
	}
	return ext
}

// SaveImage saves an image to a file with the specified format and quality.
// An empty format is derived from the path. The file is removed again if
// encoding fails.
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) (err error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	format = strings.ToLower(format)
	switch format {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	switch format {
	case "webp":
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Encode(f, img, imaging.PNG)
	default: // jpg/jpeg
		return imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(quality))
	}
}

// Resize scales img to exactly width x height using filter
func (p *Processor) Resize(img image.Image, width, height int, filter imaging.ResampleFilter) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, filter)
}

// CreateDebugOverlay draws each frame's bounds and a crosshair at its
// center on a copy of img.
func (p *Processor) CreateDebugOverlay(img image.Image, frames []layout.Frame) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()

	gold := color.NRGBA{255, 204, 0, 255} // frame bounds
	red := color.NRGBA{255, 0, 0, 255}    // frame center
	blue := color.NRGBA{0, 170, 255, 255} // image center
	stroke := int(math.Max(2, 0.004*float64(min(w, h))))
	cross := int(math.Max(4, 0.01*float64(min(w, h))))

	for _, f := range frames {
		drawRect(nrgba, f.Bounds(), gold, stroke)
		cx, cy := f.Center()
		px, py := int(cx), int(cy)
		drawHLine(nrgba, py, px-cross, px+cross, red)
		drawVLine(nrgba, px, py-cross, py+cross, red)
	}

	ix, iy := w/2, h/2
	drawHLine(nrgba, iy, ix-6, ix+6, blue)
	drawVLine(nrgba, ix, iy-6, iy+6, blue)

	return nrgba
}

func drawRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	x0 = max(x0, 0)
	x1 = min(x1, img.Bounds().Dx())
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	y0 = max(y0, 0)
	y1 = min(y1, img.Bounds().Dy())
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
