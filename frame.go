package img2term

import (
	"github.com/wbrown/img2term/imageutil"
)

// Frame is one raw captured image: tightly packed pixels, row-major,
// four channels per pixel in the given format.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Format imageutil.PixelFormat
}

// ExpectedSize returns the number of bytes a well-formed frame holds.
func (f Frame) ExpectedSize() int {
	return f.Width * f.Height * f.Format.Stride()
}
