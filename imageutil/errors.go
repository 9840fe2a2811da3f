package imageutil

import "errors"

var (
	// ErrSizeMismatch is returned when a raw buffer's length does not match
	// width*height*stride for the declared pixel format.
	ErrSizeMismatch = errors.New("buffer size does not match dimensions")

	// ErrDimensionMismatch is returned when two rasters that must share
	// extents do not.
	ErrDimensionMismatch = errors.New("raster dimensions differ")

	// ErrInvalidParameter covers out-of-domain arguments such as a zero
	// shade count, an empty glyph ramp or an unknown enum value.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSeamOutOfRange is returned when more seams are requested than the
	// grid has columns.
	ErrSeamOutOfRange = errors.New("seam count out of range")

	// ErrInterpolateUnsupported is returned by RemoveSeams when an
	// interpolated fill is requested.
	ErrInterpolateUnsupported = errors.New("interpolated seam fill not supported")
)
