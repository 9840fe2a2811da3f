package imageutil

import (
	"fmt"
	"image"
)

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int
}

// Pixel is one sample of a Raster: an 8-bit RGB color, its own position
// and an optional display glyph. A zero Glyph means none was assigned.
type Pixel struct {
	R, G, B uint8
	Pos     Point
	Glyph   rune
}

// RGB returns the color part of the pixel.
func (p Pixel) RGB() RGB {
	return RGB{R: p.R, G: p.G, B: p.B}
}

// MeanLuminance returns the integer mean of the three channels. This is the
// projection used by the energy engine and the compositor.
func (p Pixel) MeanLuminance() int {
	return (int(p.R) + int(p.G) + int(p.B)) / 3
}

// Raster is a row-major grid of pixels. Pixel (x, y) lives at index
// y*Width + x and carries Pos == (x, y).
type Raster struct {
	Pixels []Pixel
	Width  int
	Height int
}

// NewRaster creates a black raster of the given size with every pixel's
// position assigned.
func NewRaster(width, height int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r := &Raster{
		Pixels: make([]Pixel, width*height),
		Width:  width,
		Height: height,
	}
	r.Reposition()
	return r
}

// Black returns an all-black raster. It is the fallback result of a failed
// ingestion.
func Black(width, height int) *Raster {
	return NewRaster(width, height)
}

// Index returns the slice index of (x, y).
func (r *Raster) Index(x, y int) int {
	return y*r.Width + x
}

// In reports whether (x, y) lies inside the raster.
func (r *Raster) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

// At returns the pixel at (x, y).
func (r *Raster) At(x, y int) Pixel {
	return r.Pixels[r.Index(x, y)]
}

// Set stores the color and glyph of p at (x, y). The stored position is
// always (x, y), whatever p.Pos says.
func (r *Raster) Set(x, y int, p Pixel) {
	p.Pos = Point{X: x, Y: y}
	r.Pixels[r.Index(x, y)] = p
}

// SetRGB sets the color at (x, y) and leaves the glyph alone.
func (r *Raster) SetRGB(x, y int, c RGB) {
	i := r.Index(x, y)
	r.Pixels[i].R, r.Pixels[i].G, r.Pixels[i].B = c.R, c.G, c.B
}

// Clone creates a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	clone := &Raster{
		Pixels: make([]Pixel, len(r.Pixels)),
		Width:  r.Width,
		Height: r.Height,
	}
	copy(clone.Pixels, r.Pixels)
	return clone
}

// Empty reports whether the raster has no pixels.
func (r *Raster) Empty() bool {
	return r == nil || r.Width == 0 || r.Height == 0
}

// Reposition rewrites every pixel's Pos from its slice index. It is used
// after structural edits such as seam removal or transposition.
func (r *Raster) Reposition() {
	for i := range r.Pixels {
		r.Pixels[i].Pos = Point{X: i % r.Width, Y: i / r.Width}
	}
}

// Valid checks the raster invariants: the pixel count matches the extents
// and every pixel's position equals its grid coordinate.
func (r *Raster) Valid() error {
	if r == nil {
		return fmt.Errorf("nil raster: %w", ErrInvalidParameter)
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("negative extents %dx%d: %w", r.Width, r.Height, ErrInvalidParameter)
	}
	if len(r.Pixels) != r.Width*r.Height {
		return fmt.Errorf("%d pixels for %dx%d raster: %w",
			len(r.Pixels), r.Width, r.Height, ErrSizeMismatch)
	}
	for i, p := range r.Pixels {
		want := Point{X: i % r.Width, Y: i / r.Width}
		if p.Pos != want {
			return fmt.Errorf("pixel %d at %v, expected %v: %w", i, p.Pos, want, ErrInvalidParameter)
		}
	}
	return nil
}

// SameSize reports whether both rasters share width and height.
func (r *Raster) SameSize(o *Raster) bool {
	return r.Width == o.Width && r.Height == o.Height
}

// Transpose returns a new raster with rows and columns swapped.
func (r *Raster) Transpose() *Raster {
	dst := NewRaster(r.Height, r.Width)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			dst.Set(y, x, r.At(x, y))
		}
	}
	return dst
}

// ToRGBA converts the raster to an opaque RGBAImage. Glyphs are dropped.
func (r *Raster) ToRGBA() *RGBAImage {
	img := NewRGBAImage(r.Width, r.Height)
	for _, p := range r.Pixels {
		img.SetRGB(p.Pos.X, p.Pos.Y, p.RGB())
	}
	return img
}

// RasterFromImage converts any image.Image to a Raster. Alpha is ignored.
// Gray images are read pixel by pixel; everything else goes through an
// RGBA copy.
func RasterFromImage(img image.Image) *Raster {
	switch src := img.(type) {
	case *RGBAImage:
		return rasterFromRGBA(src)
	case *image.Gray, *image.Gray16:
		b := src.Bounds()
		r := NewRaster(b.Dx(), b.Dy())
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				r.SetRGB(x, y, RGBFromColor(src.At(b.Min.X+x, b.Min.Y+y)))
			}
		}
		return r
	default:
		return rasterFromRGBA(RGBAImageFromImage(img))
	}
}

func rasterFromRGBA(rgba *RGBAImage) *Raster {
	r := NewRaster(rgba.Width(), rgba.Height())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			r.SetRGB(x, y, rgba.GetRGB(x, y))
		}
	}
	return r
}
