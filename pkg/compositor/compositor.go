package compositor

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/menta2k/appshot/internal/utils"
	"github.com/menta2k/appshot/pkg/frame"
	"github.com/menta2k/appshot/pkg/layout"
	"github.com/menta2k/appshot/pkg/processing"
	"github.com/menta2k/appshot/pkg/types"
)

// Compositor places framed screenshots onto backgrounds
type Compositor struct {
	config    Config
	processor *processing.Processor
	logger    *zap.Logger
}

// Config holds configuration for compositing
type Config struct {
	Defaults    layout.Defaults
	BorderColor color.NRGBA
	Filter      imaging.ResampleFilter
	Quality     int
	Lossless    bool
}

// DefaultConfig returns a black bezel, Lanczos resampling and the stock
// border and corner radius.
func DefaultConfig() Config {
	return Config{
		Defaults:    layout.DefaultDefaults(),
		BorderColor: color.NRGBA{0, 0, 0, 255},
		Filter:      imaging.Lanczos,
		Quality:     90,
	}
}

// New creates a new Compositor with default configuration
func New() *Compositor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new Compositor with custom configuration
func NewWithConfig(config Config) *Compositor {
	return &Compositor{
		config:    config,
		processor: processing.NewProcessor(),
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger used for per-placement debug output
func (c *Compositor) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// Layer is a placement together with its decoded screenshot
type Layer struct {
	Placement types.Placement
	Image     image.Image
}

// Placed reports where a layer ended up
type Placed struct {
	Index int
	Frame layout.Frame
}

// Compose draws every layer onto a copy of background, lowest z-order
// first. The result has the background's dimensions.
func (c *Compositor) Compose(background image.Image, layers []Layer) (*image.NRGBA, error) {
	canvas, _, err := c.compose(background, layers)
	return canvas, err
}

// ComposeWithFrames is Compose that also returns the frame geometry of each
// layer in drawing order.
func (c *Compositor) ComposeWithFrames(background image.Image, layers []Layer) (*image.NRGBA, []Placed, error) {
	return c.compose(background, layers)
}

func (c *Compositor) compose(background image.Image, layers []Layer) (*image.NRGBA, []Placed, error) {
	if background == nil {
		return nil, nil, fmt.Errorf("%w: background is nil", layout.ErrInvalidPlacement)
	}

	resolved := make([]layout.Resolved, len(layers))
	for i, l := range layers {
		r, err := layout.Resolve(l.Placement, c.config.Defaults)
		if err != nil {
			return nil, nil, fmt.Errorf("placement %d (%s): %w", i, l.Placement.Image, err)
		}
		if l.Image == nil {
			return nil, nil, fmt.Errorf("placement %d (%s): %w: no image", i, l.Placement.Image, layout.ErrInvalidPlacement)
		}
		resolved[i] = r
	}

	canvas := imaging.Clone(background)
	bgSize := canvas.Bounds().Size()

	// Compute every frame before drawing so a bad placement fails the
	// whole call.
	order := layout.SortByZOrder(resolved)
	placed := make([]Placed, 0, len(order))
	for _, i := range order {
		f, err := layout.Compute(resolved[i], bgSize, layers[i].Image.Bounds().Size())
		if err != nil {
			return nil, nil, fmt.Errorf("placement %d (%s): %w", i, resolved[i].Image, err)
		}
		placed = append(placed, Placed{Index: i, Frame: f})
	}

	for _, p := range placed {
		f := p.Frame
		content := c.processor.Resize(layers[p.Index].Image, f.Content.Dx(), f.Content.Dy(), c.config.Filter)
		device := frame.Render(content, f, c.config.BorderColor)
		canvas = imaging.Overlay(canvas, device, f.Origin, 1.0)

		c.logger.Debug("placed screenshot",
			zap.Int("index", p.Index),
			zap.String("image", resolved[p.Index].Image),
			zap.Int("z_order", resolved[p.Index].ZOrder),
			zap.Int("width", f.Width),
			zap.Int("height", f.Height),
			zap.Int("border", f.Border),
			zap.Int("corner_radius", f.CornerRadius),
			zap.Int("x", f.Origin.X),
			zap.Int("y", f.Origin.Y),
		)
	}

	return canvas, placed, nil
}

// Render loads the background and every placement image and composes them
// without writing anything. Missing or unreadable inputs are reported
// before any image is decoded.
func (c *Compositor) Render(backgroundPath string, placements []types.Placement) (*image.NRGBA, error) {
	canvas, _, err := c.render(backgroundPath, placements)
	return canvas, err
}

func (c *Compositor) render(backgroundPath string, placements []types.Placement) (*image.NRGBA, []Placed, error) {
	paths := make([]string, 0, len(placements)+1)
	paths = append(paths, backgroundPath)
	for _, p := range placements {
		paths = append(paths, p.Image)
	}
	if missing := utils.MissingFiles(paths...); len(missing) > 0 {
		return nil, nil, &MissingFilesError{Paths: missing}
	}

	background, err := c.load(backgroundPath)
	if err != nil {
		return nil, nil, err
	}

	layers := make([]Layer, len(placements))
	for i, p := range placements {
		img, err := c.load(p.Image)
		if err != nil {
			return nil, nil, err
		}
		layers[i] = Layer{Placement: p, Image: img}
	}

	return c.compose(background, layers)
}

// CreateAppStoreScreenshot composes the placements onto the background and
// writes the result to outputPath, creating its directory when needed. The
// output format follows the extension (PNG when there is none). Nothing is
// written when an input is missing or cannot be decoded.
func (c *Compositor) CreateAppStoreScreenshot(backgroundPath string, placements []types.Placement, outputPath string) error {
	_, err := c.CreateWithFrames(backgroundPath, placements, outputPath)
	return err
}

// CreateWithFrames is CreateAppStoreScreenshot that also returns the frame
// geometry of each placement in drawing order.
func (c *Compositor) CreateWithFrames(backgroundPath string, placements []types.Placement, outputPath string) ([]Placed, error) {
	canvas, placed, err := c.render(backgroundPath, placements)
	if err != nil {
		return nil, err
	}

	if err := utils.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := c.processor.SaveImage(canvas, outputPath, "", c.config.Quality, c.config.Lossless); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", outputPath, err)
	}
	return placed, nil
}

func (c *Compositor) load(path string) (image.Image, error) {
	img, err := c.processor.LoadImage(path)
	if err != nil {
		return nil, &decodeError{err: err}
	}
	return img, nil
}
