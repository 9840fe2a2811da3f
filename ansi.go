package img2term

import (
	"fmt"
	"strings"

	"github.com/wbrown/img2term/imageutil"
)

// ESC is the escape byte that starts every control sequence.
const ESC = "\u001b"

// ColorMode selects how cell colors are encoded.
type ColorMode int

const (
	// ColorTrueColor emits 24-bit "38;2;r;g;b" foreground codes.
	ColorTrueColor ColorMode = iota

	// Color256 emits "38;5;n" codes for the nearest xterm 256-color entry.
	Color256

	// Color16 emits the classic 30-37 and 90-97 foreground codes.
	Color16

	// ColorNone emits glyphs only.
	ColorNone
)

// String returns the mode name.
func (m ColorMode) String() string {
	switch m {
	case ColorTrueColor:
		return "truecolor"
	case Color256:
		return "256"
	case Color16:
		return "16"
	case ColorNone:
		return "none"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

// ParseColorMode maps a mode name to its ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "truecolor", "24bit":
		return ColorTrueColor, nil
	case "256":
		return Color256, nil
	case "16":
		return Color16, nil
	case "none", "":
		return ColorNone, nil
	}
	return 0, fmt.Errorf("unknown color mode %q: %w", s, imageutil.ErrInvalidParameter)
}

// fgCode256 formats a 256-color foreground code.
func fgCode256(index int) string {
	return fmt.Sprintf("38;5;%d", index)
}

// fgCode16 formats a sixteen-color foreground code.
func fgCode16(index int) string {
	if index < 8 {
		return fmt.Sprintf("%d", 30+index)
	}
	return fmt.Sprintf("%d", 90+index-8)
}

// fgCodeTrue formats a 24-bit foreground code.
func fgCodeTrue(c imageutil.RGB) string {
	return fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B)
}

// formatANSICode formats an ANSI color code followed by text. An empty
// code writes the text alone.
func formatANSICode(code, text string) string {
	if code == "" {
		return text
	}
	var sb strings.Builder
	sb.WriteString(ESC)
	sb.WriteByte('[')
	sb.WriteString(code)
	sb.WriteByte('m')
	sb.WriteString(text)
	return sb.String()
}

// runWriter accumulates cells and combines adjacent cells with the same
// color code into one escape sequence.
type runWriter struct {
	out     strings.Builder
	code    string
	run     strings.Builder
	colored bool
}

func (w *runWriter) cell(code string, glyph rune) {
	if code != w.code && w.run.Len() > 0 {
		w.flush()
	}
	w.code = code
	w.run.WriteRune(glyph)
}

func (w *runWriter) flush() {
	if w.run.Len() == 0 {
		return
	}
	w.out.WriteString(formatANSICode(w.code, w.run.String()))
	if w.code != "" {
		w.colored = true
	}
	w.run.Reset()
}

// endLine writes the last run of the line and resets colors at the end
// of each colored line.
func (w *runWriter) endLine() {
	w.flush()
	if w.colored {
		w.out.WriteString(ESC + "[0m")
	}
	w.out.WriteByte('\n')
	w.code = ""
	w.colored = false
}

func (w *runWriter) String() string {
	return w.out.String()
}
