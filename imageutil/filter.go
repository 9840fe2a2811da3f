package imageutil

import "fmt"

// Filter is one stage of a raster processing chain. Apply must not modify
// its input.
type Filter interface {
	Name() string
	Apply(r *Raster) (*Raster, error)
}

// ApplyFilters runs r through each filter in order. It stops at the first
// failing stage and returns that error wrapped with the stage name; r
// itself is never modified.
func ApplyFilters(r *Raster, filters ...Filter) (*Raster, error) {
	cur := r
	for _, f := range filters {
		next, err := f.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("%s filter: %w", f.Name(), err)
		}
		cur = next
	}
	if cur == r {
		return r.Clone(), nil
	}
	return cur, nil
}

// FlipFilter mirrors the raster.
type FlipFilter struct {
	Horizontal bool
	Vertical   bool
}

func (f FlipFilter) Name() string { return "flip" }

func (f FlipFilter) Apply(r *Raster) (*Raster, error) {
	return Flip(r, f.Horizontal, f.Vertical)
}

// QuantizeFilter reduces every channel to Shades steps.
type QuantizeFilter struct {
	Shades int
}

func (f QuantizeFilter) Name() string { return "quantize" }

func (f QuantizeFilter) Apply(r *Raster) (*Raster, error) {
	return Quantize(r, f.Shades)
}

// GrayscaleFilter reduces the raster to Shades gray levels.
type GrayscaleFilter struct {
	Shades int
}

func (f GrayscaleFilter) Name() string { return "grayscale" }

func (f GrayscaleFilter) Apply(r *Raster) (*Raster, error) {
	return Grayscale(r, f.Shades)
}

// ScaleFilter resamples to a fixed size.
type ScaleFilter struct {
	Width   int
	Height  int
	Scaling Scaling
}

func (f ScaleFilter) Name() string { return "scale" }

func (f ScaleFilter) Apply(r *Raster) (*Raster, error) {
	return Resize(r, f.Width, f.Height, f.Scaling)
}

// GradientFilter replaces the raster with its gradient magnitude.
type GradientFilter struct {
	Kernel KernelFamily
}

func (f GradientFilter) Name() string { return "gradient" }

func (f GradientFilter) Apply(r *Raster) (*Raster, error) {
	return GradientMagnitude(r, f.Kernel)
}

// MaskFilter composites the input (as base) with a fixed overlay.
type MaskFilter struct {
	Overlay   *Raster
	Threshold uint8
}

func (f MaskFilter) Name() string { return "mask" }

func (f MaskFilter) Apply(r *Raster) (*Raster, error) {
	return MaskOntop(r, f.Overlay, f.Threshold)
}

// GlyphFilter assigns glyphs from Ramp.
type GlyphFilter struct {
	Ramp string
}

func (f GlyphFilter) Name() string { return "glyph" }

func (f GlyphFilter) Apply(r *Raster) (*Raster, error) {
	return MapGlyphs(r, []rune(f.Ramp))
}

// BrightnessFilter shifts every channel by Delta.
type BrightnessFilter struct {
	Delta int
}

func (f BrightnessFilter) Name() string { return "brightness" }

func (f BrightnessFilter) Apply(r *Raster) (*Raster, error) {
	return Brightness(r, f.Delta), nil
}

// PixelateFilter block-averages Block x Block tiles.
type PixelateFilter struct {
	Block int
}

func (f PixelateFilter) Name() string { return "pixelate" }

func (f PixelateFilter) Apply(r *Raster) (*Raster, error) {
	return Pixelate(r, f.Block)
}

// SharpenFilter applies the mild sharpening kernel.
type SharpenFilter struct{}

func (SharpenFilter) Name() string { return "sharpen" }

func (SharpenFilter) Apply(r *Raster) (*Raster, error) {
	return Sharpen(r), nil
}

// CarveFilter changes the raster size content-aware. A zero Width or
// Height leaves that axis alone.
type CarveFilter struct {
	Width    int
	Height   int
	Kernel   KernelFamily
	Strategy SeamStrategy
}

func (f CarveFilter) Name() string { return "carve" }

func (f CarveFilter) Apply(r *Raster) (*Raster, error) {
	cur := r
	var err error
	if f.Width > 0 {
		if cur, err = Carve(cur, f.Width, f.Kernel, f.Strategy); err != nil {
			return nil, err
		}
	}
	if f.Height > 0 {
		if cur, err = CarveHeight(cur, f.Height, f.Kernel, f.Strategy); err != nil {
			return nil, err
		}
	}
	if cur == r {
		return r.Clone(), nil
	}
	return cur, nil
}
