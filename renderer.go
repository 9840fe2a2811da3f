package img2term

import (
	"github.com/wbrown/img2term/imageutil"
)

// DefaultFillRune is drawn for cells that carry no glyph.
const DefaultFillRune = '█'

// Renderer turns glyph rasters into terminal text. A Renderer holds only
// configuration and its palettes' lookup caches, so one Renderer may be
// shared between goroutines.
type Renderer struct {
	ColorMode ColorMode
	FillRune  rune

	palette256 *Palette
	palette16  *Palette
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Default values: ColorMode=ColorTrueColor, FillRune='█'.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		ColorMode: ColorTrueColor,
		FillRune:  DefaultFillRune,
	}

	// Apply options
	for _, opt := range opts {
		opt(r)
	}

	switch r.ColorMode {
	case Color256:
		if r.palette256 == nil {
			r.palette256 = defaultPalette256()
		}
	case Color16:
		if r.palette16 == nil {
			r.palette16 = Palette16()
		}
	}

	return r
}

// WithColorMode sets how cell colors are encoded.
func WithColorMode(mode ColorMode) RendererOption {
	return func(r *Renderer) {
		r.ColorMode = mode
	}
}

// WithFillRune sets the rune drawn for cells without a glyph.
func WithFillRune(fill rune) RendererOption {
	return func(r *Renderer) {
		r.FillRune = fill
	}
}

// WithPalette replaces the palette used by Color256 or Color16, whichever
// matches its size.
func WithPalette(p *Palette) RendererOption {
	return func(r *Renderer) {
		if p.Len() <= 16 {
			r.palette16 = p
		} else {
			r.palette256 = p
		}
	}
}

// code returns the foreground escape code for c under the renderer's mode.
func (r *Renderer) code(c imageutil.RGB) string {
	switch r.ColorMode {
	case ColorTrueColor:
		return fgCodeTrue(c)
	case Color256:
		return fgCode256(r.palette256.Nearest(c))
	case Color16:
		return fgCode16(r.palette16.Nearest(c))
	default:
		return ""
	}
}

// RenderANSI renders every pixel of a raster as one terminal cell: its
// glyph (or the fill rune) drawn in its color. Adjacent cells with the
// same color share one escape sequence and every colored line ends with
// a reset.
func (r *Renderer) RenderANSI(raster *imageutil.Raster) string {
	var w runWriter
	for y := 0; y < raster.Height; y++ {
		for x := 0; x < raster.Width; x++ {
			p := raster.At(x, y)
			glyph := p.Glyph
			if glyph == 0 {
				glyph = r.FillRune
			}
			w.cell(r.code(p.RGB()), glyph)
		}
		w.endLine()
	}
	return w.String()
}

// RenderANSI renders a raster with a default Renderer in the given mode.
func RenderANSI(raster *imageutil.Raster, mode ColorMode) string {
	return NewRenderer(WithColorMode(mode)).RenderANSI(raster)
}

// RenderText renders only the glyphs, one line per row.
func (r *Renderer) RenderText(raster *imageutil.Raster) string {
	return imageutil.GlyphString(raster) + "\n"
}

// CacheStats returns the nearest-color cache statistics of the active
// palette. Truecolor and plain modes report zeros.
func (r *Renderer) CacheStats() (hits, misses int, hitRate float64) {
	switch r.ColorMode {
	case Color256:
		return r.palette256.CacheStats()
	case Color16:
		return r.palette16.CacheStats()
	}
	return 0, 0, 0
}
