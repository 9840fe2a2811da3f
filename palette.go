package img2term

import (
	"fmt"
	"sync"

	"github.com/wbrown/img2term/imageutil"
)

// Palette is an indexed set of terminal colors with nearest-color lookup.
// Lookups are cached and the palette is safe for concurrent use.
type Palette struct {
	name    string
	entries *OrderedMap[int, imageutil.RGB]
	tree    *ColorNode
	cache   *ApproximateCache
}

// NewPalette builds a palette from colors, which are assigned terminal
// indices 0..len(colors)-1 in order.
func NewPalette(name string, colors []imageutil.RGB) (*Palette, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("palette %q has no colors: %w", name, imageutil.ErrInvalidParameter)
	}

	p := &Palette{
		name:    name,
		entries: NewOrderedMap[int, imageutil.RGB](),
		cache:   NewApproximateCache(DefaultCacheThreshold),
	}
	list := make([]paletteEntry, 0, len(colors))
	for i, c := range colors {
		p.entries.Set(i, c)
		list = append(list, paletteEntry{Color: c, Index: i})
	}
	p.tree = buildKDTree(list, 0)
	return p, nil
}

// Name returns the palette name.
func (p *Palette) Name() string {
	return p.name
}

// Len returns the number of colors.
func (p *Palette) Len() int {
	return p.entries.Len()
}

// Color returns the color at index i.
func (p *Palette) Color(i int) (imageutil.RGB, bool) {
	return p.entries.Get(i)
}

// Colors returns the palette colors in index order.
func (p *Palette) Colors() []imageutil.RGB {
	colors := make([]imageutil.RGB, 0, p.Len())
	p.entries.Iterate(func(_ int, c imageutil.RGB) {
		colors = append(colors, c)
	})
	return colors
}

// Nearest returns the index of a palette color close to c. Lookups go
// through an approximate cache: a color within the cache threshold of an
// earlier query reuses that query's answer, which may not be the exact
// closest entry. Use NearestExact when that matters.
func (p *Palette) Nearest(c imageutil.RGB) int {
	if idx, ok := p.cache.Get(c); ok {
		return idx
	}
	best, _ := p.tree.nearestNeighbor(c, paletteEntry{}, -1)
	p.cache.Add(c, best)
	return best.Index
}

// NearestExact returns the index of the palette color closest to c, lowest
// index on ties. It always searches the tree and leaves the cache alone.
func (p *Palette) NearestExact(c imageutil.RGB) int {
	best, _ := p.tree.nearestNeighbor(c, paletteEntry{}, -1)
	return best.Index
}

// CacheStats reports nearest-color cache hits and misses.
func (p *Palette) CacheStats() (hits, misses int, hitRate float64) {
	return p.cache.Stats()
}

// ansi16Colors are the xterm defaults for the sixteen system colors.
var ansi16Colors = []imageutil.RGB{
	{R: 0, G: 0, B: 0}, {R: 205, G: 0, B: 0}, {R: 0, G: 205, B: 0}, {R: 205, G: 205, B: 0},
	{R: 0, G: 0, B: 238}, {R: 205, G: 0, B: 205}, {R: 0, G: 205, B: 205}, {R: 229, G: 229, B: 229},
	{R: 127, G: 127, B: 127}, {R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 255, G: 255, B: 0},
	{R: 92, G: 92, B: 255}, {R: 255, G: 0, B: 255}, {R: 0, G: 255, B: 255}, {R: 255, G: 255, B: 255},
}

var (
	sharedPalette256     *Palette
	sharedPalette256Once sync.Once
)

// defaultPalette256 returns the process-wide 256-color palette, so its
// lookup cache is shared by every renderer that did not bring its own.
func defaultPalette256() *Palette {
	sharedPalette256Once.Do(func() {
		sharedPalette256 = Palette256()
	})
	return sharedPalette256
}

// NearestANSI256 returns the xterm 256-color index closest to c.
func NearestANSI256(c imageutil.RGB) int {
	return defaultPalette256().NearestExact(c)
}

// Palette16 returns the sixteen-color system palette.
func Palette16() *Palette {
	p, _ := NewPalette("ansi16", ansi16Colors)
	return p
}

// Palette256 returns the xterm 256-color palette: the sixteen system
// colors, a 6x6x6 color cube and a 24-step gray ramp.
func Palette256() *Palette {
	colors := make([]imageutil.RGB, 0, 256)
	colors = append(colors, ansi16Colors...)

	levels := []uint8{0, 95, 135, 175, 215, 255}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				colors = append(colors, imageutil.RGB{R: levels[r], G: levels[g], B: levels[b]})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		colors = append(colors, imageutil.RGB{R: v, G: v, B: v})
	}

	p, _ := NewPalette("ansi256", colors)
	return p
}
