package imageutil

import "fmt"

// MaskOntop merges an overlay into a base raster by luminance similarity.
// For each pixel the integer mean luminance of both rasters is compared:
// where they differ by more than threshold the base pixel is kept,
// otherwise the overlay pixel is used. A difference exactly equal to the
// threshold selects the overlay.
//
// In the display pipeline base is the edge raster and overlay is the
// resized frame, so strong edges punch through and flat regions show the
// original colors.
func MaskOntop(base, overlay *Raster, threshold uint8) (*Raster, error) {
	if err := base.Valid(); err != nil {
		return nil, fmt.Errorf("mask base: %w", err)
	}
	if err := overlay.Valid(); err != nil {
		return nil, fmt.Errorf("mask overlay: %w", err)
	}
	if !base.SameSize(overlay) {
		return nil, fmt.Errorf("mask %dx%d over %dx%d: %w",
			overlay.Width, overlay.Height, base.Width, base.Height, ErrDimensionMismatch)
	}

	dst := NewRaster(base.Width, base.Height)
	for i := range dst.Pixels {
		b, o := base.Pixels[i], overlay.Pixels[i]
		diff := b.MeanLuminance() - o.MeanLuminance()
		if diff < 0 {
			diff = -diff
		}

		src := o
		if diff > int(threshold) {
			src = b
		}
		dst.Pixels[i].R, dst.Pixels[i].G, dst.Pixels[i].B = src.R, src.G, src.B
		dst.Pixels[i].Glyph = src.Glyph
	}
	return dst, nil
}
