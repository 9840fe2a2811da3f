package imageutil

import (
	"fmt"
	"math"
)

// ToGrayscale converts a raster to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B
// This matches the BT.601 standard used by OpenCV's COLOR_BGR2GRAY.
//
// The energy engine deliberately does not use this weighting; see
// MeanLuminance.
func ToGrayscale(r *Raster) *GrayImage {
	gray := NewGrayImage(r.Width, r.Height)

	for _, p := range r.Pixels {
		gray.SetGrayValue(p.Pos.X, p.Pos.Y, WeightedLuminance(p.RGB()))
	}

	return gray
}

// WeightedLuminance returns the BT.601 luma of c using integer math
// scaled by 1000.
func WeightedLuminance(c RGB) uint8 {
	lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
	if lum > 255 {
		lum = 255
	}
	return uint8(lum)
}

// Grayscale reduces a raster to the given number of gray levels. Each
// pixel's channel mean is rounded up to the next multiple of
// 255/(shades-1) and saturated at 255. shades must be at least two.
func Grayscale(r *Raster, shades int) (*Raster, error) {
	if shades < 2 || shades > 256 {
		return nil, fmt.Errorf("grayscale shades %d, want 2..256: %w", shades, ErrInvalidParameter)
	}
	if err := r.Valid(); err != nil {
		return nil, err
	}
	factor := float64(255 / (shades - 1))

	dst := r.Clone()
	for i, p := range dst.Pixels {
		avg := (float64(p.R) + float64(p.G) + float64(p.B)) / 3
		gray := clampUint8(math.Ceil(avg/factor) * factor)
		dst.Pixels[i].R, dst.Pixels[i].G, dst.Pixels[i].B = gray, gray, gray
	}
	return dst, nil
}

// Quantize reduces each color channel independently to shades+1 levels:
// round(shades*c/255) steps of 255/shades.
func Quantize(r *Raster, shades int) (*Raster, error) {
	if shades < 1 || shades > 255 {
		return nil, fmt.Errorf("quantize shades %d, want 1..255: %w", shades, ErrInvalidParameter)
	}
	if err := r.Valid(); err != nil {
		return nil, err
	}

	level := func(c uint8) uint8 {
		n := int(math.Round(float64(shades) * float64(c) / 255))
		return uint8(clampInt(n*255/shades, 0, 255))
	}

	dst := r.Clone()
	for i, p := range dst.Pixels {
		dst.Pixels[i].R = level(p.R)
		dst.Pixels[i].G = level(p.G)
		dst.Pixels[i].B = level(p.B)
	}
	return dst, nil
}

// Brightness adds delta to every channel, clamping to [0, 255].
func Brightness(r *Raster, delta int) *Raster {
	dst := r.Clone()
	for i, p := range dst.Pixels {
		dst.Pixels[i].R = uint8(clampInt(int(p.R)+delta, 0, 255))
		dst.Pixels[i].G = uint8(clampInt(int(p.G)+delta, 0, 255))
		dst.Pixels[i].B = uint8(clampInt(int(p.B)+delta, 0, 255))
	}
	return dst
}
