package img2term

import (
	"sort"

	"github.com/wbrown/img2term/imageutil"
)

// paletteEntry is one palette color together with its terminal color index.
type paletteEntry struct {
	Color imageutil.RGB
	Index int
}

// ColorNode represents a node in a KD-tree that stores palette colors. Each
// node contains an entry, a left child, a right child, and the axis along
// which the colors are split.
type ColorNode struct {
	Entry       paletteEntry
	Left, Right *ColorNode
	SplitAxis   int
}

// buildKDTree constructs a KD-tree from palette entries. The function
// takes the entries and the current depth, sorts the entries in place, and
// returns the root node of the KD-tree.
func buildKDTree(entries []paletteEntry, depth int) *ColorNode {
	if len(entries) == 0 {
		return nil
	}

	// Choose splitting axis based on the dimension with the largest variance
	axis := chooseSplitAxis(entries)

	// Sort colors along the chosen axis
	sort.SliceStable(entries, func(i, j int) bool {
		return colorComponent(entries[i].Color, axis) <
			colorComponent(entries[j].Color, axis)
	})

	median := len(entries) / 2
	return &ColorNode{
		Entry:     entries[median],
		Left:      buildKDTree(entries[:median], depth+1),
		Right:     buildKDTree(entries[median+1:], depth+1),
		SplitAxis: axis,
	}
}

// chooseSplitAxis returns the index of the RGB axis with the largest
// variance among the entries.
func chooseSplitAxis(entries []paletteEntry) int {
	var mean, variance [3]float64

	for _, e := range entries {
		for axis := range mean {
			mean[axis] += float64(colorComponent(e.Color, axis))
		}
	}
	for axis := range mean {
		mean[axis] /= float64(len(entries))
	}

	for _, e := range entries {
		for axis := range variance {
			d := float64(colorComponent(e.Color, axis)) - mean[axis]
			variance[axis] += d * d
		}
	}

	if variance[0] > variance[1] && variance[0] > variance[2] {
		return 0 // R axis
	} else if variance[1] > variance[2] {
		return 1 // G axis
	}
	return 2 // B axis
}

// colorComponent returns the channel of c along the given axis.
func colorComponent(c imageutil.RGB, axis int) uint8 {
	switch axis {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// colorDistanceSq returns the squared Euclidean distance between two
// colors in RGB space.
func colorDistanceSq(a, b imageutil.RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// nearestNeighbor finds the palette entry closest to target. best and
// bestDist carry the search state between recursive calls; pass a
// negative bestDist to start a fresh search. Ties keep the entry found
// first.
func (node *ColorNode) nearestNeighbor(
	target imageutil.RGB, best paletteEntry, bestDist int) (paletteEntry, int) {
	if node == nil {
		return best, bestDist
	}

	dist := colorDistanceSq(node.Entry.Color, target)
	if bestDist < 0 || dist < bestDist ||
		(dist == bestDist && node.Entry.Index < best.Index) {
		best = node.Entry
		bestDist = dist
	}

	axis := node.SplitAxis
	next, other := node.Right, node.Left
	if colorComponent(target, axis) < colorComponent(node.Entry.Color, axis) {
		next, other = node.Left, node.Right
	}

	best, bestDist = next.nearestNeighbor(target, best, bestDist)

	// Check if we need to search the other branch
	axisDistance := int(colorComponent(target, axis)) - int(colorComponent(node.Entry.Color, axis))
	if axisDistance*axisDistance <= bestDist {
		best, bestDist = other.nearestNeighbor(target, best, bestDist)
	}

	return best, bestDist
}
