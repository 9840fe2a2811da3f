package img2term

import (
	"math"
	"sync"

	"github.com/wbrown/img2term/imageutil"
)

// DefaultCacheThreshold is the largest RGB distance at which a cached
// match is reused for a different color.
const DefaultCacheThreshold = 6.0

// ApproximateCache remembers nearest-palette matches. Colors are bucketed
// by their top five bits per channel; a lookup reuses a cached match from
// its bucket when the cached query color lies within the threshold
// distance of the new one.
//
// There may be several matches per bucket, so each bucket holds a slice
// and the closest one wins.
type ApproximateCache struct {
	threshold float64
	buckets   map[uint16][]Match
	hits      int
	misses    int
	mu        sync.Mutex
}

// Match is a cached lookup: the color that was queried and the palette
// entry it resolved to.
type Match struct {
	Query imageutil.RGB
	Entry paletteEntry
}

// NewApproximateCache creates an empty cache. A zero threshold only reuses
// exact color matches.
func NewApproximateCache(threshold float64) *ApproximateCache {
	return &ApproximateCache{
		threshold: threshold,
		buckets:   make(map[uint16][]Match),
	}
}

func cacheKey(c imageutil.RGB) uint16 {
	return uint16(c.R>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.B>>3)
}

// Get returns the palette index cached for a color close to c.
func (ac *ApproximateCache) Get(c imageutil.RGB) (int, bool) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	lowest := math.MaxFloat64
	var best *Match
	matches := ac.buckets[cacheKey(c)]
	for i := range matches {
		d := math.Sqrt(float64(colorDistanceSq(matches[i].Query, c)))
		if d < lowest && d <= ac.threshold {
			lowest = d
			best = &matches[i]
		}
	}
	if best == nil {
		ac.misses++
		return 0, false
	}
	ac.hits++
	return best.Entry.Index, true
}

// Add records that c resolved to entry.
func (ac *ApproximateCache) Add(c imageutil.RGB, entry paletteEntry) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	k := cacheKey(c)
	ac.buckets[k] = append(ac.buckets[k], Match{Query: c, Entry: entry})
}

// Stats returns hit and miss counts and the hit rate.
func (ac *ApproximateCache) Stats() (hits, misses int, hitRate float64) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	total := ac.hits + ac.misses
	if total > 0 {
		hitRate = float64(ac.hits) / float64(total)
	}
	return ac.hits, ac.misses, hitRate
}
