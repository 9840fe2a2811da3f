package imageutil

import (
	"fmt"
	"math"
)

// Kernel represents a convolution kernel. Values are indexed [row][col],
// that is [dy][dx] relative to the top-left of the window.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// SharpeningKernel returns a mild 3x3 sharpening kernel.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// KernelFamily selects the pair of 3x3 gradient kernels used by the energy
// engine.
type KernelFamily int

const (
	// KernelSobel weights the centre row and column by two.
	KernelSobel KernelFamily = iota

	// KernelPrewitt weights all taps equally.
	KernelPrewitt
)

// String returns the family name.
func (k KernelFamily) String() string {
	switch k {
	case KernelSobel:
		return "sobel"
	case KernelPrewitt:
		return "prewitt"
	default:
		return fmt.Sprintf("KernelFamily(%d)", int(k))
	}
}

// ParseKernelFamily maps a family name to its KernelFamily.
func ParseKernelFamily(s string) (KernelFamily, error) {
	switch s {
	case "sobel":
		return KernelSobel, nil
	case "prewitt":
		return KernelPrewitt, nil
	}
	return 0, fmt.Errorf("unknown kernel family %q: %w", s, ErrInvalidParameter)
}

// Kernels returns the horizontal and vertical gradient kernels of the
// family. Gx responds to change along x, Gy to change along y.
func (k KernelFamily) Kernels() (gx, gy *Kernel, err error) {
	switch k {
	case KernelSobel:
		gx = NewKernel([][]float64{
			{-1, 0, 1},
			{-2, 0, 2},
			{-1, 0, 1},
		})
		gy = NewKernel([][]float64{
			{-1, -2, -1},
			{0, 0, 0},
			{1, 2, 1},
		})
	case KernelPrewitt:
		gx = NewKernel([][]float64{
			{-1, 0, 1},
			{-1, 0, 1},
			{-1, 0, 1},
		})
		gy = NewKernel([][]float64{
			{-1, -1, -1},
			{0, 0, 0},
			{1, 1, 1},
		})
	default:
		return nil, nil, fmt.Errorf("kernel family %d: %w", int(k), ErrInvalidParameter)
	}
	return gx, gy, nil
}

// Convolve applies a convolution kernel to every color channel of a
// raster. Border pixels are handled by replicating edge values. Glyphs are
// carried over unchanged.
func Convolve(r *Raster, kernel *Kernel) *Raster {
	width, height := r.Width, r.Height
	dst := r.Clone()

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					// Source pixel coordinates with border replication
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)

					c := r.At(sx, sy)
					k := kernel.Values[ky][kx]

					sumR += float64(c.R) * k
					sumG += float64(c.G) * k
					sumB += float64(c.B) * k
				}
			}

			dst.SetRGB(x, y, RGB{
				R: clampUint8(sumR),
				G: clampUint8(sumG),
				B: clampUint8(sumB),
			})
		}
	}

	return dst
}

// convolveSkip correlates a single-channel grid with a kernel centred on
// each cell. Taps that fall outside the grid contribute nothing.
func convolveSkip(src []int, width, height int, kernel *Kernel) []float64 {
	dst := make([]float64, len(src))

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64

			for ky := 0; ky < kernel.Height; ky++ {
				sy := y + ky - halfKH
				if sy < 0 || sy >= height {
					continue
				}
				for kx := 0; kx < kernel.Width; kx++ {
					sx := x + kx - halfKW
					if sx < 0 || sx >= width {
						continue
					}
					sum += float64(src[sy*width+sx]) * kernel.Values[ky][kx]
				}
			}

			dst[y*width+x] = sum
		}
	}

	return dst
}

// Sharpen applies the mild sharpening kernel to a raster.
func Sharpen(r *Raster) *Raster {
	return Convolve(r, SharpeningKernel())
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
