package imageutil

import (
	"fmt"
	"math"
)

// Seam is a connected top-to-bottom path through a grid, one column index
// per row. Adjacent rows differ by at most one column.
type Seam []int

// Start returns the column of the seam in the top row.
func (s Seam) Start() int {
	if len(s) == 0 {
		return -1
	}
	return s[0]
}

// SeamStrategy selects how FindSeams picks each seam.
type SeamStrategy int

const (
	// SeamDP finds the minimum cumulative-energy seam with a dynamic
	// programming table.
	SeamDP SeamStrategy = iota

	// SeamGreedy picks a start column with one row of lookahead and then
	// walks down choosing the cheapest of the three cells below. It is
	// cheaper than SeamDP and does not guarantee the minimum seam.
	SeamGreedy
)

// String returns the strategy name.
func (s SeamStrategy) String() string {
	switch s {
	case SeamDP:
		return "dp"
	case SeamGreedy:
		return "greedy"
	default:
		return fmt.Sprintf("SeamStrategy(%d)", int(s))
	}
}

// ParseSeamStrategy maps a strategy name to its SeamStrategy.
func ParseSeamStrategy(s string) (SeamStrategy, error) {
	switch s {
	case "dp":
		return SeamDP, nil
	case "greedy":
		return SeamGreedy, nil
	}
	return 0, fmt.Errorf("unknown seam strategy %q: %w", s, ErrInvalidParameter)
}

const infEnergy = math.MaxInt64

// FindSeams finds count low-energy vertical seams in g.
//
// Seams are found one after another. After each seam is chosen its cells
// are removed from a working copy of the grid, so later seams never reuse
// a cell. Every returned seam is expressed in the column space of the
// original grid, which means the whole set can be handed to RemoveSeams
// or AddSeams against g in one pass.
func FindSeams(g *EnergyGrid, count int, strategy SeamStrategy) ([]Seam, error) {
	if err := g.Valid(); err != nil {
		return nil, err
	}
	if count < 0 || count > g.Width {
		return nil, fmt.Errorf("%d seams requested from width %d: %w", count, g.Width, ErrSeamOutOfRange)
	}
	if count > 0 && g.Height == 0 {
		return nil, fmt.Errorf("seams requested from empty grid: %w", ErrInvalidParameter)
	}

	var find func(work [][]int32) Seam
	switch strategy {
	case SeamDP:
		find = dpSeam
	case SeamGreedy:
		find = greedySeam
	default:
		return nil, fmt.Errorf("seam strategy %d: %w", int(strategy), ErrInvalidParameter)
	}

	// work holds the shrinking energy rows; origin maps each working
	// column back to its column in g.
	work := make([][]int32, g.Height)
	origin := make([][]int, g.Height)
	for y := 0; y < g.Height; y++ {
		work[y] = append([]int32(nil), g.Row(y)...)
		origin[y] = make([]int, g.Width)
		for x := range origin[y] {
			origin[y][x] = x
		}
	}

	seams := make([]Seam, 0, count)
	for range count {
		local := find(work)
		seam := make(Seam, len(local))
		for y, x := range local {
			seam[y] = origin[y][x]
			work[y] = append(work[y][:x], work[y][x+1:]...)
			origin[y] = append(origin[y][:x], origin[y][x+1:]...)
		}
		seams = append(seams, seam)
	}
	return seams, nil
}

// cell returns work[y][x] widened to int64, or infEnergy outside the row.
func cell(work [][]int32, x, y int) int64 {
	if x < 0 || x >= len(work[y]) {
		return infEnergy
	}
	return int64(work[y][x])
}

// stepFrom picks the next column among x-1, x, x+1 in row y. The same
// column wins ties; left replaces it only when strictly lower, then right
// only when strictly lower than the current best.
func stepFrom(score func(x int) int64, x int) int {
	best, bestX := score(x), x
	if left := score(x - 1); left < best {
		best, bestX = left, x-1
	}
	if right := score(x + 1); right < best {
		bestX = x + 1
	}
	return bestX
}

func greedySeam(work [][]int32) Seam {
	height := len(work)
	width := len(work[0])

	start, startScore := 0, int64(infEnergy)
	for x := 0; x < width; x++ {
		score := cell(work, x, 0)
		if height > 1 {
			score += min(cell(work, x-1, 1), cell(work, x, 1), cell(work, x+1, 1))
		}
		if score < startScore {
			start, startScore = x, score
		}
	}

	seam := make(Seam, height)
	seam[0] = start
	for y := 1; y < height; y++ {
		row := y
		seam[y] = stepFrom(func(x int) int64 { return cell(work, x, row) }, seam[y-1])
	}
	return seam
}

func dpSeam(work [][]int32) Seam {
	height := len(work)
	width := len(work[0])

	// cost[y][x] is the cheapest path energy from the top row to (x, y).
	cost := make([][]int64, height)
	for y := range cost {
		cost[y] = make([]int64, width)
	}
	for x := 0; x < width; x++ {
		cost[0][x] = int64(work[0][x])
	}
	at := func(x, y int) int64 {
		if x < 0 || x >= width {
			return infEnergy
		}
		return cost[y][x]
	}
	for y := 1; y < height; y++ {
		for x := 0; x < width; x++ {
			cost[y][x] = int64(work[y][x]) + min(at(x-1, y-1), at(x, y-1), at(x+1, y-1))
		}
	}

	seam := make(Seam, height)
	end := 0
	for x := 1; x < width; x++ {
		if cost[height-1][x] < cost[height-1][end] {
			end = x
		}
	}
	seam[height-1] = end
	for y := height - 2; y >= 0; y-- {
		row := y
		seam[y] = stepFrom(func(x int) int64 { return at(x, row) }, seam[y+1])
	}
	return seam
}

// seamColumns validates a seam set against a width x height grid and
// returns, per row, how many times each column is named.
func seamColumns(seams []Seam, width, height int) ([]map[int]int, error) {
	rows := make([]map[int]int, height)
	for y := range rows {
		rows[y] = make(map[int]int, len(seams))
	}
	for i, s := range seams {
		if len(s) != height {
			return nil, fmt.Errorf("seam %d has %d rows, grid has %d: %w", i, len(s), height, ErrInvalidParameter)
		}
		for y, x := range s {
			if x < 0 || x >= width {
				return nil, fmt.Errorf("seam %d column %d out of range at row %d: %w", i, x, y, ErrInvalidParameter)
			}
			rows[y][x]++
		}
	}
	return rows, nil
}

// removeColumns drops the seam cells from a row-major grid of any element
// type. A column may be named at most once per row.
func removeColumns[T any](cells []T, width, height int, seams []Seam) ([]T, int, error) {
	if len(seams) > width {
		return nil, 0, fmt.Errorf("%d seams for width %d: %w", len(seams), width, ErrSeamOutOfRange)
	}
	rows, err := seamColumns(seams, width, height)
	if err != nil {
		return nil, 0, err
	}
	for y, cols := range rows {
		for x, n := range cols {
			if n > 1 {
				return nil, 0, fmt.Errorf("column %d removed %d times in row %d: %w", x, n, y, ErrInvalidParameter)
			}
		}
	}

	newWidth := width - len(seams)
	out := make([]T, 0, newWidth*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if rows[y][x] == 0 {
				out = append(out, cells[y*width+x])
			}
		}
	}
	return out, newWidth, nil
}

// duplicateColumns repeats each seam cell once per seam naming it.
func duplicateColumns[T any](cells []T, width, height int, seams []Seam) ([]T, int, error) {
	rows, err := seamColumns(seams, width, height)
	if err != nil {
		return nil, 0, err
	}

	newWidth := width + len(seams)
	out := make([]T, 0, newWidth*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := cells[y*width+x]
			for range 1 + rows[y][x] {
				out = append(out, c)
			}
		}
	}
	return out, newWidth, nil
}

// RemoveSeams returns a copy of g with the seam cells removed; the width
// shrinks by len(seams). Seams are in g's column space, as returned by
// FindSeams.
//
// Filling the removed cells by interpolation is not supported: passing
// interpolateFill fails with ErrInterpolateUnsupported and g is untouched.
func RemoveSeams(g *EnergyGrid, seams []Seam, interpolateFill bool) (*EnergyGrid, error) {
	if interpolateFill {
		return nil, ErrInterpolateUnsupported
	}
	if err := g.Valid(); err != nil {
		return nil, err
	}
	cells, width, err := removeColumns(g.Cells, g.Width, g.Height, seams)
	if err != nil {
		return nil, err
	}
	return &EnergyGrid{Cells: cells, Width: width, Height: g.Height}, nil
}

// AddSeams returns a copy of g with every seam cell duplicated in place;
// the width grows by len(seams).
func AddSeams(g *EnergyGrid, seams []Seam) (*EnergyGrid, error) {
	if err := g.Valid(); err != nil {
		return nil, err
	}
	cells, width, err := duplicateColumns(g.Cells, g.Width, g.Height, seams)
	if err != nil {
		return nil, err
	}
	return &EnergyGrid{Cells: cells, Width: width, Height: g.Height}, nil
}

// RemoveRasterSeams removes seam pixels from a raster. Pixel positions are
// reassigned to the narrower grid.
func RemoveRasterSeams(r *Raster, seams []Seam) (*Raster, error) {
	if err := r.Valid(); err != nil {
		return nil, err
	}
	pixels, width, err := removeColumns(r.Pixels, r.Width, r.Height, seams)
	if err != nil {
		return nil, err
	}
	dst := &Raster{Pixels: pixels, Width: width, Height: r.Height}
	dst.Reposition()
	return dst, nil
}

// AddRasterSeams duplicates seam pixels in a raster. Pixel positions are
// reassigned to the wider grid.
func AddRasterSeams(r *Raster, seams []Seam) (*Raster, error) {
	if err := r.Valid(); err != nil {
		return nil, err
	}
	pixels, width, err := duplicateColumns(r.Pixels, r.Width, r.Height, seams)
	if err != nil {
		return nil, err
	}
	dst := &Raster{Pixels: pixels, Width: width, Height: r.Height}
	dst.Reposition()
	return dst, nil
}

// Carve changes the width of a raster to width by removing or duplicating
// low-energy seams. Growing by more than the current width is done in
// rounds, each duplicating at most the current width.
func Carve(r *Raster, width int, family KernelFamily, strategy SeamStrategy) (*Raster, error) {
	if width < 1 {
		return nil, fmt.Errorf("carve width %d: %w", width, ErrInvalidParameter)
	}
	if err := r.Valid(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, fmt.Errorf("carve empty raster: %w", ErrInvalidParameter)
	}

	cur := r
	for cur.Width != width {
		energy, err := Energy(cur, family)
		if err != nil {
			return nil, err
		}

		if width < cur.Width {
			seams, err := FindSeams(energy, cur.Width-width, strategy)
			if err != nil {
				return nil, err
			}
			return RemoveRasterSeams(cur, seams)
		}

		seams, err := FindSeams(energy, min(width-cur.Width, cur.Width), strategy)
		if err != nil {
			return nil, err
		}
		if cur, err = AddRasterSeams(cur, seams); err != nil {
			return nil, err
		}
	}
	if cur == r {
		return r.Clone(), nil
	}
	return cur, nil
}

// CarveHeight is Carve along the other axis: it works on horizontal seams
// by transposing the raster.
func CarveHeight(r *Raster, height int, family KernelFamily, strategy SeamStrategy) (*Raster, error) {
	if err := r.Valid(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, fmt.Errorf("carve empty raster: %w", ErrInvalidParameter)
	}
	carved, err := Carve(r.Transpose(), height, family, strategy)
	if err != nil {
		return nil, err
	}
	return carved.Transpose(), nil
}
