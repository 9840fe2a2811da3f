package imageutil

import "fmt"

// Flip mirrors a raster horizontally, vertically or both.
func Flip(r *Raster, horizontal, vertical bool) (*Raster, error) {
	if err := r.Valid(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, fmt.Errorf("flip empty raster: %w", ErrInvalidParameter)
	}

	dst := NewRaster(r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		sy := y
		if vertical {
			sy = r.Height - 1 - y
		}
		for x := 0; x < r.Width; x++ {
			sx := x
			if horizontal {
				sx = r.Width - 1 - x
			}
			dst.Set(x, y, r.At(sx, sy))
		}
	}
	return dst, nil
}

// Pixelate replaces every block x block tile with its average color.
// Tiles on the right and bottom edges may be smaller and are averaged
// over the pixels they actually cover.
func Pixelate(r *Raster, block int) (*Raster, error) {
	if block < 1 {
		return nil, fmt.Errorf("pixelate block %d: %w", block, ErrInvalidParameter)
	}
	if err := r.Valid(); err != nil {
		return nil, err
	}

	dst := r.Clone()
	for by := 0; by < r.Height; by += block {
		for bx := 0; bx < r.Width; bx += block {
			x2 := min(bx+block, r.Width)
			y2 := min(by+block, r.Height)

			var sumR, sumG, sumB, n int
			for y := by; y < y2; y++ {
				for x := bx; x < x2; x++ {
					p := r.At(x, y)
					sumR += int(p.R)
					sumG += int(p.G)
					sumB += int(p.B)
					n++
				}
			}

			avg := RGB{R: uint8(sumR / n), G: uint8(sumG / n), B: uint8(sumB / n)}
			for y := by; y < y2; y++ {
				for x := bx; x < x2; x++ {
					dst.SetRGB(x, y, avg)
				}
			}
		}
	}
	return dst, nil
}
