package imageutil

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"
)

// PixelFormat describes the memory layout of a raw frame buffer.
type PixelFormat int

const (
	// FormatRGBA8 is four bytes per pixel in R, G, B, A order.
	FormatRGBA8 PixelFormat = iota

	// FormatBGRA8 is four bytes per pixel in B, G, R, A order, the usual
	// layout of desktop capture surfaces.
	FormatBGRA8

	// FormatRGBA16F is four little-endian IEEE 754 half floats per pixel,
	// nominally in [0, 1].
	FormatRGBA16F
)

// Stride returns the number of bytes per pixel.
func (f PixelFormat) Stride() int {
	if f == FormatRGBA16F {
		return 8
	}
	return 4
}

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatBGRA8:
		return "bgra8"
	case FormatRGBA16F:
		return "rgba16f"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// ParsePixelFormat maps a format name to its PixelFormat.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch s {
	case "rgba8", "rgba":
		return FormatRGBA8, nil
	case "bgra8", "bgra":
		return FormatBGRA8, nil
	case "rgba16f":
		return FormatRGBA16F, nil
	}
	return 0, fmt.Errorf("unknown pixel format %q: %w", s, ErrInvalidParameter)
}

// FromBuffer converts a raw frame buffer into a Raster.
//
// The buffer is walked one sample at a time; sample i lands at
// x = i % width, y = i / width. The alpha channel is read past and
// discarded.
//
// If len(buf) does not equal width*height*stride, FromBuffer returns an
// all-black raster of the declared size together with an error wrapping
// ErrSizeMismatch, so a capture loop can log the diagnostic and keep
// displaying something.
func FromBuffer(buf []byte, width, height int, format PixelFormat) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("frame size %dx%d: %w", width, height, ErrInvalidParameter)
	}
	if format < FormatRGBA8 || format > FormatRGBA16F {
		return nil, fmt.Errorf("pixel format %d: %w", int(format), ErrInvalidParameter)
	}

	stride := format.Stride()
	want := width * height * stride
	if len(buf) != want {
		return Black(width, height), fmt.Errorf("%s frame %dx%d expects %d bytes, got %d: %w",
			format, width, height, want, len(buf), ErrSizeMismatch)
	}

	r := NewRaster(width, height)
	for i := range r.Pixels {
		sample := buf[i*stride : (i+1)*stride]
		p := &r.Pixels[i]
		switch format {
		case FormatRGBA8:
			p.R, p.G, p.B = sample[0], sample[1], sample[2]
		case FormatBGRA8:
			p.R, p.G, p.B = sample[2], sample[1], sample[0]
		case FormatRGBA16F:
			p.R = halfToUint8(binary.LittleEndian.Uint16(sample[0:2]))
			p.G = halfToUint8(binary.LittleEndian.Uint16(sample[2:4]))
			p.B = halfToUint8(binary.LittleEndian.Uint16(sample[4:6]))
		}
	}
	return r, nil
}

// halfToUint8 decodes a half float channel in [0, 1] to 0-255. NaN maps to
// zero and out-of-range values saturate.
func halfToUint8(bits uint16) uint8 {
	v := float64(float16.Frombits(bits).Float32())
	if math.IsNaN(v) {
		return 0
	}
	return clampUint8(v * 255)
}
