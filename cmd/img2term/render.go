package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/wbrown/img2term"
	"github.com/wbrown/img2term/imageutil"
	"github.com/wbrown/img2term/parallel"
)

type renderCmd struct {
	Files []string `arg:"" help:"Input images, or raw frame dumps with --raw-size" type:"existingfile"`

	Output    string `help:"Directory for output files; prints to stdout when empty" type:"path"`
	Format    string `help:"Output file format" enum:"ans,txt,png" default:"ans"`
	FontScale int    `help:"Font scaling factor for PNG output (1 = 8x8 cells)" default:"1"`

	Columns   int     `help:"Output width in cells"`
	Rows      int     `help:"Output height in cells"`
	Aspect    float64 `help:"Cell height-to-width ratio; keeps the image aspect when set"`
	Scaling   string  `help:"Resampling: nearest, bilinear or catmullrom"`
	Kernel    string  `help:"Edge kernel: sobel or prewitt"`
	Threshold int     `help:"Edge mask threshold (0-255), -1 keeps the config value" default:"-1"`
	Ramp      string  `help:"Glyph ramp: standard, dense or literal glyphs"`
	CarveTo   int     `help:"Seam-carve frames to this width before scaling" name:"carve"`
	Seams     string  `help:"Seam search: dp or greedy"`
	Color     string  `help:"Color mode: truecolor, 256, 16 or none"`

	ASCII   bool `help:"Print plain glyphs without color" name:"ascii"`
	Preview bool `help:"Print the weighted-luminance preview instead of running the pipeline"`

	RawSize   string `help:"Treat inputs as raw frame buffers of WIDTHxHEIGHT"`
	RawFormat string `help:"Raw frame pixel format" enum:"rgba8,bgra8,rgba16f" default:"rgba8"`

	rawWidth, rawHeight int
}

func (c *renderCmd) Validate(kctx *kong.Context) error {
	if c.Threshold > 255 {
		return fmt.Errorf("invalid threshold: %d", c.Threshold)
	}
	if c.FontScale < 1 {
		return fmt.Errorf("invalid font scale: %d", c.FontScale)
	}
	if c.Columns < 0 || c.Rows < 0 || c.CarveTo < 0 || c.Aspect < 0 {
		return fmt.Errorf("sizes must not be negative")
	}
	if c.RawSize != "" {
		n, err := fmt.Sscanf(c.RawSize, "%dx%d", &c.rawWidth, &c.rawHeight)
		if err != nil || n != 2 || c.rawWidth < 1 || c.rawHeight < 1 {
			return fmt.Errorf("invalid raw size %q, expected WIDTHxHEIGHT", c.RawSize)
		}
	}
	return nil
}

// apply copies the flags that were set over the config.
func (c *renderCmd) apply(cfg img2term.Config) (*img2term.Config, error) {
	if c.Columns > 0 {
		cfg.Target.Columns = c.Columns
	}
	if c.Rows > 0 {
		cfg.Target.Rows = c.Rows
	}
	if c.Aspect > 0 {
		cfg.CellAspect = c.Aspect
	}
	if c.Scaling != "" {
		cfg.Scaling = c.Scaling
	}
	if c.Kernel != "" {
		cfg.Kernel = c.Kernel
	}
	if c.Threshold >= 0 {
		t := c.Threshold
		cfg.Threshold = &t
	}
	if c.Ramp != "" {
		cfg.Ramp = c.Ramp
	}
	if c.CarveTo > 0 {
		cfg.CarveWidth = c.CarveTo
	}
	if c.Seams != "" {
		cfg.SeamStrategy = c.Seams
	}
	if c.Color != "" {
		cfg.ColorMode = c.Color
	}
	if c.ASCII {
		cfg.ColorMode = img2term.ColorNone.String()
	}
	return &cfg, cfg.Validate()
}

// process runs one input through the pipeline.
func (c *renderCmd) process(p *img2term.Pipeline, path string) (*img2term.Result, error) {
	if c.RawSize == "" {
		img, err := imageutil.LoadImage(path)
		if err != nil {
			return nil, err
		}
		return p.ProcessImage(img)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read frame: %w", err)
	}
	format, err := imageutil.ParsePixelFormat(c.RawFormat)
	if err != nil {
		return nil, err
	}
	return p.Process(img2term.Frame{
		Data:   data,
		Width:  c.rawWidth,
		Height: c.rawHeight,
		Format: format,
	})
}

func (c *renderCmd) Run(cc *cliContext) error {
	cfg, err := c.apply(*cc.Config)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	ropts, err := cfg.RendererOptions()
	if err != nil {
		return err
	}

	pipeline := img2term.NewPipeline(append(opts, img2term.WithLogger(cc.Logger))...)
	renderer := img2term.NewRenderer(ropts...)

	if c.Output != "" {
		if err := os.MkdirAll(c.Output, 0o755); err != nil {
			return fmt.Errorf("unable to create output folder %q: %w", c.Output, err)
		}
	}

	start := time.Now()
	outputs := make([]string, len(c.Files))
	var errCount atomic.Uint64

	pool := parallel.Start(cc.Workers)
	cc.Logger.WithField("workers", pool.Workers()).Debug("Worker pool started")

	parallel.Each(pool, c.Files, func(i int, path string) {
		logger := cc.Logger.WithField("file", path)

		if c.Preview {
			r, err := imageutil.LoadRaster(path)
			if err == nil {
				r, err = imageutil.Resize(r, cfg.Target.Columns, cfg.Target.Rows, imageutil.ScalingBilinear)
			}
			if err != nil {
				errCount.Add(1)
				logger.WithError(err).Error("Could not preview image")
				return
			}
			outputs[i] = imageutil.PreviewASCII(r)
			return
		}

		res, err := c.process(pipeline, path)
		if err != nil {
			errCount.Add(1)
			logger.WithError(err).Error("Could not process image")
			return
		}
		logger.WithFields(logrus.Fields{
			"width":   res.Raster.Width,
			"height":  res.Raster.Height,
			"elapsed": res.Elapsed,
		}).Info("Image processed")

		if c.Output == "" {
			outputs[i] = renderer.RenderANSI(res.Raster)
			return
		}
		if err := c.save(renderer, res, path); err != nil {
			errCount.Add(1)
			logger.WithError(err).Error("Could not save output")
		}
	})

	for _, out := range outputs {
		fmt.Print(out)
	}

	hits, misses, rate := renderer.CacheStats()
	cc.Logger.WithFields(logrus.Fields{
		"files":       len(c.Files),
		"errors":      errCount.Load(),
		"elapsed":     time.Since(start),
		"cache_hits":  hits,
		"cache_miss":  misses,
		"cache_ratio": rate,
	}).Debug("Render finished")

	if n := errCount.Load(); n > 0 {
		return fmt.Errorf("error processing %d files", n)
	}
	return nil
}

// save writes one result into the output folder.
func (c *renderCmd) save(renderer *img2term.Renderer, res *img2term.Result, src string) error {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dest := filepath.Join(c.Output, base+"."+c.Format)

	switch c.Format {
	case "png":
		img, err := img2term.RenderGlyphPNG(res.Raster, c.FontScale)
		if err != nil {
			return err
		}
		return imageutil.SaveImage(img, dest)
	case "txt":
		return os.WriteFile(dest, []byte(renderer.RenderText(res.Raster)), 0o644)
	default:
		return os.WriteFile(dest, []byte(renderer.RenderANSI(res.Raster)), 0o644)
	}
}
