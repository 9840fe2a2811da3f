package imageutil

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// CreateGradientImage creates a horizontal gradient test raster.
func CreateGradientImage(width, height int) *Raster {
	r := NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / max(1, width-1))
			r.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	return r
}

// CreateVerticalGradientImage creates a vertical gradient test raster.
func CreateVerticalGradientImage(width, height int) *Raster {
	r := NewRaster(width, height)
	for y := 0; y < height; y++ {
		v := uint8(255 * y / max(1, height-1))
		for x := 0; x < width; x++ {
			r.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	return r
}

// CreateCheckerboardImage creates a checkerboard pattern for edge testing.
func CreateCheckerboardImage(width, height, squareSize int) *Raster {
	r := NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				r.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
			}
		}
	}
	return r
}

// CreateSolidImage creates a solid color raster.
func CreateSolidImage(width, height int, c RGB) *Raster {
	r := NewRaster(width, height)
	for i := range r.Pixels {
		r.Pixels[i].R, r.Pixels[i].G, r.Pixels[i].B = c.R, c.G, c.B
	}
	return r
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *Raster {
	r := NewRaster(width, height)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := max(1, width/len(colors))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.SetRGB(x, y, colors[min(x/barWidth, len(colors)-1)])
		}
	}
	return r
}

// CreateEdgeImage creates a gray raster with a white centre rectangle and
// a black diagonal, for testing edge detection.
func CreateEdgeImage(width, height int) *Raster {
	r := CreateSolidImage(width, height, RGB{R: 128, G: 128, B: 128})

	rx1, ry1 := width/4, height/4
	rx2, ry2 := 3*width/4, 3*height/4
	for y := ry1; y < ry2; y++ {
		for x := rx1; x < rx2; x++ {
			r.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
		}
	}

	for i := 0; i < min(width, height)/2; i++ {
		r.SetRGB(i, i, RGB{})
	}

	return r
}

// CreateVerticalLineImage creates a black raster with one full-height
// white column at x. Seams should avoid flat regions far from it.
func CreateVerticalLineImage(width, height, x int) *Raster {
	r := NewRaster(width, height)
	for y := 0; y < height; y++ {
		r.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
	}
	return r
}

// EncodeBuffer serialises a raster into a raw frame buffer of the given
// format with opaque alpha. It is the inverse of FromBuffer.
func EncodeBuffer(r *Raster, format PixelFormat) []byte {
	stride := format.Stride()
	buf := make([]byte, len(r.Pixels)*stride)
	for i, p := range r.Pixels {
		s := buf[i*stride : (i+1)*stride]
		switch format {
		case FormatBGRA8:
			s[0], s[1], s[2], s[3] = p.B, p.G, p.R, 255
		case FormatRGBA16F:
			for c, v := range []uint8{p.R, p.G, p.B, 255} {
				h := float16.Fromfloat32(float32(v) / 255)
				binary.LittleEndian.PutUint16(s[c*2:], h.Bits())
			}
		default:
			s[0], s[1], s[2], s[3] = p.R, p.G, p.B, 255
		}
	}
	return buf
}

// CalculateMSE calculates the Mean Squared Error between two rasters.
func CalculateMSE(r1, r2 *Raster) float64 {
	if !r1.SameSize(r2) {
		return math.MaxFloat64
	}
	if len(r1.Pixels) == 0 {
		return 0
	}

	var sumSq float64
	count := float64(len(r1.Pixels) * 3) // 3 channels

	for i, c1 := range r1.Pixels {
		c2 := r2.Pixels[i]
		dr := float64(c1.R) - float64(c2.R)
		dg := float64(c1.G) - float64(c2.G)
		db := float64(c1.B) - float64(c2.B)
		sumSq += dr*dr + dg*dg + db*db
	}

	return sumSq / count
}

// CalculateMaxDiff calculates the maximum channel difference between two
// rasters, or 256 when their sizes differ.
func CalculateMaxDiff(r1, r2 *Raster) int {
	if !r1.SameSize(r2) {
		return 256
	}

	maxDiff := 0
	for i, c1 := range r1.Pixels {
		c2 := r2.Pixels[i]
		maxDiff = max(maxDiff,
			abs(int(c1.R)-int(c2.R)),
			abs(int(c1.G)-int(c2.G)),
			abs(int(c1.B)-int(c2.B)))
	}

	return maxDiff
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
