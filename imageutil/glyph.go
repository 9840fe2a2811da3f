package imageutil

import (
	"fmt"
	"math"
	"strings"
)

// Glyph ramps ordered from dark (low luminance) to light.
const (
	// RampStandard is the short ten-step ramp.
	RampStandard = " .:-=+*#%@"

	// RampDense is Paul Bourke's 70-step ramp, reversed to run dark to
	// light.
	RampDense = " .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$"

	// RampPreview is the ramp of the weighted-luminance preview. It runs
	// light to dark, so bright areas render as blank cells.
	RampPreview = "@%#*+=-:. "
)

// GlyphIndex maps a pixel's float mean luminance onto a ramp of length n:
// floor(lum/255*n), clamped to n-1.
func GlyphIndex(p Pixel, n int) int {
	lum := (float64(p.R) + float64(p.G) + float64(p.B)) / 3
	return min(int(math.Floor(lum/255*float64(n))), n-1)
}

// MapGlyphs returns a copy of r with every pixel's Glyph set from ramp.
// The ramp must be non-empty; brighter pixels never map to an earlier
// ramp entry than darker ones.
func MapGlyphs(r *Raster, ramp []rune) (*Raster, error) {
	if len(ramp) == 0 {
		return nil, fmt.Errorf("empty glyph ramp: %w", ErrInvalidParameter)
	}
	if err := r.Valid(); err != nil {
		return nil, err
	}

	dst := r.Clone()
	for i, p := range dst.Pixels {
		dst.Pixels[i].Glyph = ramp[GlyphIndex(p, len(ramp))]
	}
	return dst, nil
}

// GlyphGrid returns the glyphs of r as rows. Pixels with no glyph yield
// a space.
func GlyphGrid(r *Raster) [][]rune {
	grid := make([][]rune, r.Height)
	for y := range grid {
		grid[y] = make([]rune, r.Width)
		for x := range grid[y] {
			g := r.At(x, y).Glyph
			if g == 0 {
				g = ' '
			}
			grid[y][x] = g
		}
	}
	return grid
}

// GlyphString joins the glyph rows of r with newlines.
func GlyphString(r *Raster) string {
	var sb strings.Builder
	for y, row := range GlyphGrid(r) {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}

// PreviewASCII renders r as plain text using BT.601 weighted luminance
// over RampPreview, one line per row. It is a quick preview path and is
// independent of MapGlyphs.
func PreviewASCII(r *Raster) string {
	ramp := []rune(RampPreview)
	gray := ToGrayscale(r)

	var sb strings.Builder
	sb.Grow((r.Width + 1) * r.Height)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			lum := int(gray.GetGray(x, y))
			sb.WriteRune(ramp[lum*(len(ramp)-1)/255])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
