// Package appshot composes app store screenshots.
//
// Each screenshot is wrapped in a rounded-rectangle device frame and pasted
// onto a background. Sizes and positions are fractions of the background,
// so one layout works for every resolution the stores ask for.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/menta2k/appshot"
//		"github.com/menta2k/appshot/pkg/types"
//	)
//
//	func main() {
//		gen := appshot.New()
//
//		err := gen.CreateAppStoreScreenshot("background.jpeg", []types.Placement{
//			{Image: "screenshot1.png", RelativeWidth: 0.45, RelativePosition: [2]float64{0.25, 0.4}},
//			{Image: "screenshot2.png", RelativeWidth: 0.45, RelativePosition: [2]float64{0.75, 0.4}, ZOrder: 1},
//		}, "output/double.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these components:
//
// 1. Layout (pkg/layout): turns relative placements into pixel geometry
// 2. Frame (pkg/frame): anti-aliased rounded masks and device frame rendering
// 3. Processing (pkg/processing): image loading, saving and resizing
// 4. Compositor (pkg/compositor): the load, frame and paste pipeline
//
// Placements are drawn in ascending z-order; placements with equal z-order
// keep their input order. Missing input files are reported before anything
// is decoded or written.
package appshot

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/menta2k/appshot/pkg/compositor"
	"github.com/menta2k/appshot/pkg/layout"
	"github.com/menta2k/appshot/pkg/processing"
	"github.com/menta2k/appshot/pkg/types"
)

// Version of the appshot library
const Version = "1.0.0"

// Generator provides a high-level interface for building screenshots
type Generator struct {
	processor  *processing.Processor
	compositor *compositor.Compositor
	debug      bool
}

// New creates a new Generator with default configuration
func New() *Generator {
	return NewWithConfig(compositor.DefaultConfig())
}

// NewWithConfig creates a new Generator with custom compositor configuration
func NewWithConfig(config compositor.Config) *Generator {
	return &Generator{
		processor:  processing.NewProcessor(),
		compositor: compositor.NewWithConfig(config),
	}
}

// SetLogger sets the logger used for per-placement debug output
func (g *Generator) SetLogger(logger *zap.Logger) {
	g.compositor.SetLogger(logger)
}

// SetDebug enables writing a debug overlay next to every job output
func (g *Generator) SetDebug(debug bool) {
	g.debug = debug
}

// LoadImage loads an image from file
func (g *Generator) LoadImage(path string) (image.Image, error) {
	return g.processor.LoadImage(path)
}

// LoadImageFromReader loads an image from an io.Reader
func (g *Generator) LoadImageFromReader(r io.Reader) (image.Image, error) {
	return g.processor.LoadImageFromReader(r)
}

// SaveImage saves an image to file; the format follows the extension
func (g *Generator) SaveImage(img image.Image, path string) error {
	return g.processor.SaveImage(img, path, "", 90, false)
}

// Compose draws layers holding decoded images onto background
func (g *Generator) Compose(background image.Image, layers []compositor.Layer) (*image.NRGBA, error) {
	return g.compositor.Compose(background, layers)
}

// Render loads the files and returns the composite without saving it
func (g *Generator) Render(backgroundPath string, placements []types.Placement) (*image.NRGBA, error) {
	return g.compositor.Render(backgroundPath, placements)
}

// CreateAppStoreScreenshot composes placements onto the background and
// writes the result to outputPath
func (g *Generator) CreateAppStoreScreenshot(backgroundPath string, placements []types.Placement, outputPath string) error {
	return g.compositor.CreateAppStoreScreenshot(backgroundPath, placements, outputPath)
}

// RunJob generates the screenshot described by job. With debug enabled an
// overlay of the frame bounds is written as <output>_debug.png.
func (g *Generator) RunJob(job types.Job) error {
	placed, err := g.compositor.CreateWithFrames(job.Background, job.Placements, job.Output)
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	if !g.debug {
		return nil
	}

	img, err := g.processor.LoadImage(job.Output)
	if err != nil {
		return fmt.Errorf("job %s: reload output: %w", job.Name, err)
	}
	frames := make([]layout.Frame, len(placed))
	for i, p := range placed {
		frames[i] = p.Frame
	}
	overlay := g.processor.CreateDebugOverlay(img, frames)
	if err := g.processor.SaveImage(overlay, debugPath(job.Output), "png", 0, false); err != nil {
		return fmt.Errorf("job %s: save debug overlay: %w", job.Name, err)
	}
	return nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

// debugPath turns "out/a.png" into "out/a_debug.png"
func debugPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_debug.png"
}
