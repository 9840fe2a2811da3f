package img2term

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/wbrown/img2term/imageutil"
)

const (
	// GlyphWidth and GlyphHeight define the standard character cell size
	GlyphWidth  = 8
	GlyphHeight = 8
)

// GlyphBitmap represents an 8x8 character as a 64-bit integer
// Each bit represents a pixel: 1 = foreground, 0 = background
type GlyphBitmap uint64

// FontBitmaps rasterises glyphs of a TrueType font into 8x8 bitmaps. The
// printable ASCII range and the glyph ramps are rendered up front; any
// other rune is rendered on first use.
type FontBitmaps struct {
	font   *truetype.Font
	name   string
	glyphs map[rune]GlyphBitmap
	mu     sync.RWMutex
}

// getBit checks if a specific bit is set in the bitmap
func (g GlyphBitmap) getBit(x, y int) bool {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return false
	}
	return g&(1<<(y*GlyphWidth+x)) != 0
}

// setBit sets a specific bit in the bitmap
func (g *GlyphBitmap) setBit(x, y int, value bool) {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return
	}
	pos := y*GlyphWidth + x
	if value {
		*g |= 1 << pos
	} else {
		*g &= ^(1 << pos)
	}
}

// Count returns the number of set pixels.
func (g GlyphBitmap) Count() int {
	n := 0
	for v := uint64(g); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// DefaultFontBitmaps returns bitmaps for the Go Mono font.
func DefaultFontBitmaps() (*FontBitmaps, error) {
	return NewFontBitmaps("Go Mono", gomono.TTF)
}

// LoadFontBitmaps loads a TrueType font file.
func LoadFontBitmaps(path string) (*FontBitmaps, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return NewFontBitmaps(path, fontBytes)
}

// NewFontBitmaps parses TrueType data and pre-renders the common glyphs.
func NewFontBitmaps(name string, ttf []byte) (*FontBitmaps, error) {
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}

	fb := &FontBitmaps{
		font:   f,
		name:   name,
		glyphs: make(map[rune]GlyphBitmap),
	}

	for r := rune(32); r <= rune(126); r++ {
		fb.glyphs[r] = renderGlyphToBitmap(f, r)
	}
	for _, r := range imageutil.RampDense + imageutil.RampStandard {
		fb.glyphs[r] = renderGlyphToBitmap(f, r)
	}

	return fb, nil
}

// Name returns the font name.
func (fb *FontBitmaps) Name() string {
	return fb.name
}

// renderGlyphToBitmap renders a single glyph to an 8x8 bitmap. Coverage
// comes from an alpha image and a pixel is set above a 25% threshold, so
// thin strokes and dots survive anti-aliasing. The baseline is placed
// from the face's ascent and descent so descenders are not clipped.
func renderGlyphToBitmap(ttfFont *truetype.Font, r rune) GlyphBitmap {
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    float64(GlyphHeight),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	img := image.NewAlpha(image.Rect(0, 0, GlyphWidth, GlyphHeight))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttfFont)
	ctx.SetFontSize(float64(GlyphHeight))
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	metrics := face.Metrics()
	ascent := metrics.Ascent.Round()
	descent := metrics.Descent.Round()
	baselineY := (GlyphHeight + ascent - descent) / 2

	if _, err := ctx.DrawString(string(r), freetype.Pt(0, baselineY)); err != nil {
		return 0
	}

	var bitmap GlyphBitmap
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			if img.AlphaAt(x, y).A > 64 { // 25% threshold
				bitmap.setBit(x, y, true)
			}
		}
	}

	return bitmap
}

// GetGlyph returns the bitmap for a rune, rendering it on first use.
func (fb *FontBitmaps) GetGlyph(r rune) GlyphBitmap {
	fb.mu.RLock()
	bitmap, exists := fb.glyphs[r]
	fb.mu.RUnlock()
	if exists {
		return bitmap
	}

	bitmap = renderGlyphToBitmap(fb.font, r)
	fb.mu.Lock()
	fb.glyphs[r] = bitmap
	fb.mu.Unlock()
	return bitmap
}

// RenderRaster draws every pixel of a glyph raster as an 8x8 character
// cell, scaled by scale, in the pixel's color on bg. Pixels without a
// glyph are filled solid.
func (fb *FontBitmaps) RenderRaster(raster *imageutil.Raster, scale int, bg imageutil.RGB) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	cellW, cellH := GlyphWidth*scale, GlyphHeight*scale
	img := image.NewRGBA(image.Rect(0, 0, raster.Width*cellW, raster.Height*cellH))
	draw.Draw(img, img.Bounds(), &image.Uniform{bg.ToColor()}, image.Point{}, draw.Src)

	for _, p := range raster.Pixels {
		x0, y0 := p.Pos.X*cellW, p.Pos.Y*cellH
		if p.Glyph == 0 {
			fillRect(img, x0, y0, cellW, cellH, p.RGB().ToColor())
			continue
		}
		renderBitmap(img, fb.GetGlyph(p.Glyph), x0, y0, scale, p.RGB().ToColor())
	}

	return img
}

// renderBitmap paints the set pixels of a bitmap at the given position
// with scaling. Unset pixels keep the background.
func renderBitmap(img *image.RGBA, bitmap GlyphBitmap, startX, startY, scale int, fg color.RGBA) {
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			if bitmap.getBit(x, y) {
				fillRect(img, startX+x*scale, startY+y*scale, scale, scale, fg)
			}
		}
	}
}

// fillRect fills a rectangle with the given color
func fillRect(img *image.RGBA, x, y, width, height int, c color.Color) {
	rect := image.Rect(x, y, x+width, y+height)
	draw.Draw(img, rect, &image.Uniform{c}, image.Point{}, draw.Src)
}

var (
	defaultFonts     *FontBitmaps
	defaultFontsErr  error
	defaultFontsOnce sync.Once
)

// RenderGlyphPNG draws a glyph raster with the default font on black.
// The result is ready for imageutil.SaveImage.
func RenderGlyphPNG(raster *imageutil.Raster, scale int) (*image.RGBA, error) {
	defaultFontsOnce.Do(func() {
		defaultFonts, defaultFontsErr = DefaultFontBitmaps()
	})
	if defaultFontsErr != nil {
		return nil, defaultFontsErr
	}
	return defaultFonts.RenderRaster(raster, scale, imageutil.RGB{}), nil
}
