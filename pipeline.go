// Package img2term renders images and raw frame buffers as terminal
// glyphs. A Pipeline reduces a frame to a small edge-accentuated glyph
// raster with the imageutil core, and a Renderer turns that raster into
// ANSI text, plain text or a font-rendered PNG.
package img2term

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wbrown/img2term/imageutil"
)

const (
	// DefaultColumns and DefaultRows size the output grid.
	DefaultColumns = 80
	DefaultRows    = 24

	// DefaultThreshold is the luminance difference above which an edge
	// pixel replaces the frame pixel.
	DefaultThreshold = 32
)

// Pipeline turns frames into glyph rasters: resample to the cell grid,
// detect edges, mask the edges over the frame and map luminance to
// glyphs. A Pipeline holds configuration only and every call works on its
// own rasters, so one Pipeline may serve several goroutines.
type Pipeline struct {
	columns      int
	rows         int
	cellAspect   float64
	scaling      imageutil.Scaling
	kernel       imageutil.KernelFamily
	threshold    uint8
	ramp         []rune
	carveWidth   int
	seamStrategy imageutil.SeamStrategy
	filters      []imageutil.Filter
	logger       logrus.FieldLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// Result is the output of one pipeline run.
type Result struct {
	// Raster is the composited frame with a glyph on every pixel.
	Raster *imageutil.Raster

	// Edges is the gradient magnitude of the resized frame.
	Edges *imageutil.Raster

	// Glyphs holds Raster's glyphs row by row.
	Glyphs [][]rune

	Elapsed time.Duration
}

// NewPipeline creates a Pipeline. Defaults: an 80x24 grid, bilinear
// scaling, Sobel kernels, threshold 32, the standard ramp, no carving and
// dynamic-programming seams.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		columns:      DefaultColumns,
		rows:         DefaultRows,
		scaling:      imageutil.ScalingBilinear,
		kernel:       imageutil.KernelSobel,
		threshold:    DefaultThreshold,
		ramp:         []rune(imageutil.RampStandard),
		seamStrategy: imageutil.SeamDP,
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithTargetSize sets the output grid in cells.
func WithTargetSize(columns, rows int) Option {
	return func(p *Pipeline) {
		p.columns = columns
		p.rows = rows
	}
}

// WithCellAspect keeps the source aspect ratio inside the target grid,
// given the height-to-width ratio of one terminal cell. Zero stretches the
// frame over the whole grid.
func WithCellAspect(aspect float64) Option {
	return func(p *Pipeline) {
		p.cellAspect = aspect
	}
}

// WithScaling sets the resampling method.
func WithScaling(s imageutil.Scaling) Option {
	return func(p *Pipeline) {
		p.scaling = s
	}
}

// WithKernel sets the edge kernel family.
func WithKernel(k imageutil.KernelFamily) Option {
	return func(p *Pipeline) {
		p.kernel = k
	}
}

// WithThreshold sets the edge mask threshold.
func WithThreshold(t uint8) Option {
	return func(p *Pipeline) {
		p.threshold = t
	}
}

// WithRamp sets the glyph ramp, ordered dark to light.
func WithRamp(ramp string) Option {
	return func(p *Pipeline) {
		p.ramp = []rune(ramp)
	}
}

// WithCarve seam-carves every frame to width before resampling. Zero
// disables carving.
func WithCarve(width int) Option {
	return func(p *Pipeline) {
		p.carveWidth = width
	}
}

// WithSeamStrategy sets how carving picks seams.
func WithSeamStrategy(s imageutil.SeamStrategy) Option {
	return func(p *Pipeline) {
		p.seamStrategy = s
	}
}

// WithFilters adds stages that run on the full-size frame before any
// carving or resampling.
func WithFilters(filters ...imageutil.Filter) Option {
	return func(p *Pipeline) {
		p.filters = append(p.filters, filters...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Process converts a raw frame. A frame whose buffer has the wrong length
// is logged and rendered as black so a capture loop keeps running.
func (p *Pipeline) Process(f Frame) (*Result, error) {
	start := time.Now()

	raster, err := imageutil.FromBuffer(f.Data, f.Width, f.Height, f.Format)
	if err != nil {
		if !errors.Is(err, imageutil.ErrSizeMismatch) || raster == nil {
			return nil, err
		}
		p.logger.WithFields(logrus.Fields{
			"width":    f.Width,
			"height":   f.Height,
			"format":   f.Format.String(),
			"expected": f.ExpectedSize(),
			"actual":   len(f.Data),
		}).WithError(err).Warn("frame buffer size mismatch, using black frame")
	}

	return p.run(raster, start)
}

// ProcessImage converts a decoded image.
func (p *Pipeline) ProcessImage(img image.Image) (*Result, error) {
	start := time.Now()
	return p.run(imageutil.RasterFromImage(img), start)
}

// ProcessRaster converts a raster. The raster is not modified.
func (p *Pipeline) ProcessRaster(r *imageutil.Raster) (*Result, error) {
	return p.run(r, time.Now())
}

// stages returns the chain that brings a full-size frame to the grid.
func (p *Pipeline) stages(srcW, srcH int) ([]imageutil.Filter, error) {
	if len(p.ramp) == 0 {
		return nil, fmt.Errorf("empty glyph ramp: %w", imageutil.ErrInvalidParameter)
	}

	chain := append([]imageutil.Filter{}, p.filters...)
	if p.carveWidth > 0 {
		chain = append(chain, imageutil.CarveFilter{
			Width:    p.carveWidth,
			Kernel:   p.kernel,
			Strategy: p.seamStrategy,
		})
		srcW = p.carveWidth
	}

	width, height := p.columns, p.rows
	if p.cellAspect > 0 {
		width, height = imageutil.FitCells(srcW, srcH, p.columns, p.rows, p.cellAspect)
	}
	return append(chain, imageutil.ScaleFilter{
		Width:   width,
		Height:  height,
		Scaling: p.scaling,
	}), nil
}

func (p *Pipeline) run(r *imageutil.Raster, start time.Time) (*Result, error) {
	if err := r.Valid(); err != nil {
		return nil, err
	}

	chain, err := p.stages(r.Width, r.Height)
	if err != nil {
		return nil, err
	}
	resized, err := imageutil.ApplyFilters(r, chain...)
	if err != nil {
		return nil, err
	}

	edges, err := imageutil.GradientMagnitude(resized, p.kernel)
	if err != nil {
		return nil, err
	}
	masked, err := imageutil.MaskOntop(edges, resized, p.threshold)
	if err != nil {
		return nil, err
	}
	glyphs, err := imageutil.MapGlyphs(masked, p.ramp)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Raster:  glyphs,
		Edges:   edges,
		Glyphs:  imageutil.GlyphGrid(glyphs),
		Elapsed: time.Since(start),
	}
	p.logger.WithFields(logrus.Fields{
		"width":   glyphs.Width,
		"height":  glyphs.Height,
		"elapsed": res.Elapsed,
	}).Debug("frame processed")
	return res, nil
}

// String returns the glyphs as text, one line per row.
func (res *Result) String() string {
	return imageutil.GlyphString(res.Raster)
}
