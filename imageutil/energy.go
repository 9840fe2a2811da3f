package imageutil

import (
	"fmt"
	"math"
)

// EnergyGrid holds one signed gradient-energy value per pixel, row-major,
// with the same extents as the raster it was computed from.
type EnergyGrid struct {
	Cells  []int32
	Width  int
	Height int
}

// NewEnergyGrid creates a zeroed grid.
func NewEnergyGrid(width, height int) *EnergyGrid {
	return &EnergyGrid{
		Cells:  make([]int32, width*height),
		Width:  width,
		Height: height,
	}
}

// Valid checks that the cell count matches the extents.
func (g *EnergyGrid) Valid() error {
	if g == nil {
		return fmt.Errorf("nil energy grid: %w", ErrInvalidParameter)
	}
	if g.Width < 0 || g.Height < 0 {
		return fmt.Errorf("negative extents %dx%d: %w", g.Width, g.Height, ErrInvalidParameter)
	}
	if len(g.Cells) != g.Width*g.Height {
		return fmt.Errorf("%d cells for %dx%d grid: %w",
			len(g.Cells), g.Width, g.Height, ErrSizeMismatch)
	}
	return nil
}

// At returns the energy at (x, y).
func (g *EnergyGrid) At(x, y int) int32 {
	return g.Cells[y*g.Width+x]
}

// Set stores the energy at (x, y).
func (g *EnergyGrid) Set(x, y int, v int32) {
	g.Cells[y*g.Width+x] = v
}

// Row returns the cells of row y. The slice aliases the grid.
func (g *EnergyGrid) Row(y int) []int32 {
	return g.Cells[y*g.Width : (y+1)*g.Width]
}

// Clone creates a deep copy of the grid.
func (g *EnergyGrid) Clone() *EnergyGrid {
	clone := NewEnergyGrid(g.Width, g.Height)
	copy(clone.Cells, g.Cells)
	return clone
}

// Max returns the largest cell value, or zero for an empty grid.
func (g *EnergyGrid) Max() int32 {
	var m int32
	for i, v := range g.Cells {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// ToRaster renders the grid as a gray raster. Values are clamped to
// [0, 255] rather than wrapped.
func (g *EnergyGrid) ToRaster() *Raster {
	r := NewRaster(g.Width, g.Height)
	for i, v := range g.Cells {
		c := uint8(clampInt(int(v), 0, 255))
		r.Pixels[i].R, r.Pixels[i].G, r.Pixels[i].B = c, c, c
	}
	return r
}

// ToGray renders the grid as a GrayImage, clamped like ToRaster.
func (g *EnergyGrid) ToGray() *GrayImage {
	img := NewGrayImage(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			img.SetGrayValue(x, y, uint8(clampInt(int(g.At(x, y)), 0, 255)))
		}
	}
	return img
}

// MeanLuminance projects a raster to a single channel using the integer
// mean (R+G+B)/3 of each pixel.
func MeanLuminance(r *Raster) []int {
	lum := make([]int, len(r.Pixels))
	for i, p := range r.Pixels {
		lum[i] = p.MeanLuminance()
	}
	return lum
}

// Gradients returns the raw horizontal and vertical responses of the
// family's kernels over the mean luminance of r. Neighbours outside the
// raster contribute zero.
func Gradients(r *Raster, family KernelFamily) (gx, gy *EnergyGrid, err error) {
	kx, ky, err := family.Kernels()
	if err != nil {
		return nil, nil, err
	}
	if err := r.Valid(); err != nil {
		return nil, nil, err
	}

	lum := MeanLuminance(r)
	fx := convolveSkip(lum, r.Width, r.Height, kx)
	fy := convolveSkip(lum, r.Width, r.Height, ky)

	gx = NewEnergyGrid(r.Width, r.Height)
	gy = NewEnergyGrid(r.Width, r.Height)
	for i := range lum {
		gx.Cells[i] = int32(fx[i])
		gy.Cells[i] = int32(fy[i])
	}
	return gx, gy, nil
}

// Energy computes the gradient-magnitude energy of a raster:
// round(sqrt(gx² + gy²)) per pixel, where gx and gy are the family's
// kernel responses over the integer mean luminance. A flat raster has
// zero energy everywhere.
func Energy(r *Raster, family KernelFamily) (*EnergyGrid, error) {
	gx, gy, err := Gradients(r, family)
	if err != nil {
		return nil, err
	}

	g := NewEnergyGrid(r.Width, r.Height)
	for i := range g.Cells {
		x, y := float64(gx.Cells[i]), float64(gy.Cells[i])
		mag := math.Round(math.Sqrt(x*x + y*y))
		if mag > math.MaxInt32 {
			mag = math.MaxInt32
		}
		g.Cells[i] = int32(mag)
	}
	return g, nil
}

// GradientMagnitude returns the energy of r rendered as a gray raster.
func GradientMagnitude(r *Raster, family KernelFamily) (*Raster, error) {
	g, err := Energy(r, family)
	if err != nil {
		return nil, err
	}
	return g.ToRaster(), nil
}
