package imageutil

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Scaling specifies the resampling method for resizing.
type Scaling int

const (
	// ScalingNearest copies the source pixel at the floored, proportionally
	// mapped coordinate. Fastest, and exact for integer ratios.
	ScalingNearest Scaling = iota

	// ScalingBilinear blends the four source pixels around a corner-aligned
	// sample point.
	ScalingBilinear

	// ScalingCatmullRom uses golang.org/x/image/draw's Catmull-Rom kernel,
	// the highest quality option for downscaling photographs.
	ScalingCatmullRom
)

// String returns the scaling name.
func (s Scaling) String() string {
	switch s {
	case ScalingNearest:
		return "nearest"
	case ScalingBilinear:
		return "bilinear"
	case ScalingCatmullRom:
		return "catmullrom"
	default:
		return fmt.Sprintf("Scaling(%d)", int(s))
	}
}

// ParseScaling maps a scaling name to its Scaling.
func ParseScaling(s string) (Scaling, error) {
	switch s {
	case "nearest":
		return ScalingNearest, nil
	case "bilinear", "linear":
		return ScalingBilinear, nil
	case "catmullrom", "area":
		return ScalingCatmullRom, nil
	}
	return 0, fmt.Errorf("unknown scaling %q: %w", s, ErrInvalidParameter)
}

// Resize resamples a raster to width x height using the given method. The
// result is a new raster whose positions cover the target grid exactly
// once. Glyphs are not carried over.
func Resize(r *Raster, width, height int, mode Scaling) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("target size %dx%d: %w", width, height, ErrInvalidParameter)
	}
	if err := r.Valid(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, fmt.Errorf("empty source raster: %w", ErrInvalidParameter)
	}

	switch mode {
	case ScalingNearest:
		return resizeNearest(r, width, height), nil
	case ScalingBilinear:
		return resizeBilinear(r, width, height), nil
	case ScalingCatmullRom:
		return resizeScaler(r, width, height, draw.CatmullRom), nil
	default:
		return nil, fmt.Errorf("scaling %d: %w", int(mode), ErrInvalidParameter)
	}
}

func resizeNearest(r *Raster, width, height int) *Raster {
	dst := NewRaster(width, height)
	for y := 0; y < height; y++ {
		sy := y * r.Height / height
		for x := 0; x < width; x++ {
			sx := x * r.Width / width
			dst.SetRGB(x, y, r.At(sx, sy).RGB())
		}
	}
	return dst
}

// bilinearAxis maps destination coordinate d onto the source axis with
// corner alignment. It returns the two neighbouring source indices and the
// weight of the second. A one-sample destination axis reads source
// coordinate zero instead of dividing by zero.
func bilinearAxis(d, dstLen, srcLen int) (i1, i2 int, frac float64) {
	if dstLen == 1 || srcLen == 1 {
		return 0, 0, 0
	}
	s := float64(d) * float64(srcLen-1) / float64(dstLen-1)
	i1 = clampInt(int(math.Floor(s)), 0, srcLen-1)
	i2 = clampInt(i1+1, 0, srcLen-1)
	return i1, i2, s - float64(i1)
}

func resizeBilinear(r *Raster, width, height int) *Raster {
	dst := NewRaster(width, height)

	lerp := func(a, b uint8, t float64) float64 {
		return float64(a) + (float64(b)-float64(a))*t
	}

	for y := 0; y < height; y++ {
		y1, y2, fy := bilinearAxis(y, height, r.Height)
		for x := 0; x < width; x++ {
			x1, x2, fx := bilinearAxis(x, width, r.Width)

			q11, q21 := r.At(x1, y1), r.At(x2, y1)
			q12, q22 := r.At(x1, y2), r.At(x2, y2)

			channel := func(c11, c21, c12, c22 uint8) uint8 {
				top := lerp(c11, c21, fx)
				bottom := lerp(c12, c22, fx)
				return clampUint8(top + (bottom-top)*fy)
			}

			dst.SetRGB(x, y, RGB{
				R: channel(q11.R, q21.R, q12.R, q22.R),
				G: channel(q11.G, q21.G, q12.G, q22.G),
				B: channel(q11.B, q21.B, q12.B, q22.B),
			})
		}
	}
	return dst
}

// resizeScaler delegates to an x/image/draw scaler through RGBAImage.
func resizeScaler(r *Raster, width, height int, scaler draw.Scaler) *Raster {
	src := r.ToRGBA()
	dst := NewRGBAImage(width, height)
	scaler.Scale(dst.RGBA, image.Rect(0, 0, width, height), src.RGBA, src.Bounds(), draw.Src, nil)
	return RasterFromImage(dst)
}

// ResizeToWidth resizes a raster to the specified width while maintaining
// aspect ratio. The height is never less than one.
func ResizeToWidth(r *Raster, width int, mode Scaling) (*Raster, error) {
	if err := r.Valid(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, fmt.Errorf("empty source raster: %w", ErrInvalidParameter)
	}
	aspectRatio := float64(r.Width) / float64(r.Height)
	height := max(1, int(float64(width)/aspectRatio))
	return Resize(r, width, height, mode)
}

// FitCells computes the largest cell grid no bigger than cols x rows that
// preserves the aspect ratio of a srcW x srcH image. cellAspect is the
// height-to-width ratio of one terminal cell, typically about 2.
func FitCells(srcW, srcH, cols, rows int, cellAspect float64) (width, height int) {
	if srcW <= 0 || srcH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	if cellAspect <= 0 {
		cellAspect = 1
	}

	width = cols
	height = int(math.Round(float64(srcH) * float64(cols) / float64(srcW) / cellAspect))
	if height > rows {
		height = rows
		width = int(math.Round(float64(srcW) * float64(rows) * cellAspect / float64(srcH)))
	}
	return max(1, min(width, cols)), max(1, min(height, rows))
}
