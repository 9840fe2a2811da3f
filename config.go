package img2term

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wbrown/img2term/imageutil"
)

// Config is the file form of the pipeline and renderer settings. Threshold
// is a pointer so an explicit zero survives defaulting.
type Config struct {
	Target       TargetConfig `yaml:"target"`
	CellAspect   float64      `yaml:"cell_aspect"`
	Scaling      string       `yaml:"scaling"` // nearest | bilinear | catmullrom
	Kernel       string       `yaml:"kernel"`  // sobel | prewitt
	Threshold    *int         `yaml:"threshold"`
	Ramp         string       `yaml:"ramp"` // standard | dense | literal glyphs
	CarveWidth   int          `yaml:"carve_width"`
	SeamStrategy string       `yaml:"seam_strategy"` // dp | greedy
	ColorMode    string       `yaml:"color_mode"`    // truecolor | 256 | 16 | none
}

// TargetConfig is the output grid in cells.
type TargetConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// DefaultConfig returns the settings NewPipeline and NewRenderer use
// without options.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML config file. Missing fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.Target.Columns == 0 {
		c.Target.Columns = DefaultColumns
	}
	if c.Target.Rows == 0 {
		c.Target.Rows = DefaultRows
	}
	if c.Scaling == "" {
		c.Scaling = imageutil.ScalingBilinear.String()
	}
	if c.Kernel == "" {
		c.Kernel = imageutil.KernelSobel.String()
	}
	if c.Threshold == nil {
		t := DefaultThreshold
		c.Threshold = &t
	}
	if c.Ramp == "" {
		c.Ramp = "standard"
	}
	if c.SeamStrategy == "" {
		c.SeamStrategy = imageutil.SeamDP.String()
	}
	if c.ColorMode == "" {
		c.ColorMode = ColorTrueColor.String()
	}
}

// Validate checks value ranges and enum names.
func (c *Config) Validate() error {
	if c.Target.Columns < 1 || c.Target.Rows < 1 {
		return fmt.Errorf("target %dx%d must be positive: %w",
			c.Target.Columns, c.Target.Rows, imageutil.ErrInvalidParameter)
	}
	if t := c.threshold(); t < 0 || t > 255 {
		return fmt.Errorf("threshold %d outside 0..255: %w", t, imageutil.ErrInvalidParameter)
	}
	if c.CarveWidth < 0 {
		return fmt.Errorf("carve_width %d is negative: %w", c.CarveWidth, imageutil.ErrInvalidParameter)
	}
	if c.CellAspect < 0 {
		return fmt.Errorf("cell_aspect %g is negative: %w", c.CellAspect, imageutil.ErrInvalidParameter)
	}
	_, err := c.Options()
	if err != nil {
		return err
	}
	_, err = ParseColorMode(c.ColorMode)
	return err
}

func (c *Config) threshold() int {
	if c.Threshold == nil {
		return DefaultThreshold
	}
	return *c.Threshold
}

// RampRunes resolves the ramp setting: a ramp name or the glyphs
// themselves.
func (c *Config) RampRunes() string {
	switch c.Ramp {
	case "standard":
		return imageutil.RampStandard
	case "dense":
		return imageutil.RampDense
	}
	return c.Ramp
}

// Options converts the config into pipeline options.
func (c *Config) Options() ([]Option, error) {
	scaling, err := imageutil.ParseScaling(c.Scaling)
	if err != nil {
		return nil, err
	}
	kernel, err := imageutil.ParseKernelFamily(c.Kernel)
	if err != nil {
		return nil, err
	}
	strategy, err := imageutil.ParseSeamStrategy(c.SeamStrategy)
	if err != nil {
		return nil, err
	}

	return []Option{
		WithTargetSize(c.Target.Columns, c.Target.Rows),
		WithCellAspect(c.CellAspect),
		WithScaling(scaling),
		WithKernel(kernel),
		WithThreshold(uint8(c.threshold())),
		WithRamp(c.RampRunes()),
		WithCarve(c.CarveWidth),
		WithSeamStrategy(strategy),
	}, nil
}

// RendererOptions converts the config into renderer options.
func (c *Config) RendererOptions() ([]RendererOption, error) {
	mode, err := ParseColorMode(c.ColorMode)
	if err != nil {
		return nil, err
	}
	return []RendererOption{WithColorMode(mode)}, nil
}
