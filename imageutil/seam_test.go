package imageutil

import (
	"errors"
	"reflect"
	"testing"
)

// gridFromRows builds an EnergyGrid from literal rows.
func gridFromRows(rows ...[]int32) *EnergyGrid {
	g := NewEnergyGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(g.Row(y), row)
	}
	return g
}

// seamCost sums the energy along a seam.
func seamCost(g *EnergyGrid, s Seam) int64 {
	var total int64
	for y, x := range s {
		total += int64(g.At(x, y))
	}
	return total
}

func TestFindSeamsObviousColumn(t *testing.T) {
	g := gridFromRows(
		[]int32{5, 1, 5},
		[]int32{5, 1, 5},
		[]int32{5, 1, 5},
	)

	for _, strategy := range []SeamStrategy{SeamDP, SeamGreedy} {
		seams, err := FindSeams(g, 1, strategy)
		if err != nil {
			t.Fatalf("%s: FindSeams failed: %v", strategy, err)
		}
		if !reflect.DeepEqual(seams[0], Seam{1, 1, 1}) {
			t.Errorf("%s: expected seam [1 1 1], got %v", strategy, seams[0])
		}
		if seams[0].Start() != 1 {
			t.Errorf("%s: expected start 1, got %d", strategy, seams[0].Start())
		}
	}
}

func TestFindSeamsGreedyVersusDP(t *testing.T) {
	g := gridFromRows(
		[]int32{0, 5, 5},
		[]int32{0, 5, 5},
		[]int32{100, 100, 0},
	)

	greedy, err := FindSeams(g, 1, SeamGreedy)
	if err != nil {
		t.Fatalf("FindSeams greedy failed: %v", err)
	}
	if !reflect.DeepEqual(greedy[0], Seam{0, 0, 0}) {
		t.Errorf("Expected greedy seam [0 0 0], got %v", greedy[0])
	}

	dp, err := FindSeams(g, 1, SeamDP)
	if err != nil {
		t.Fatalf("FindSeams dp failed: %v", err)
	}
	if !reflect.DeepEqual(dp[0], Seam{0, 1, 2}) {
		t.Errorf("Expected dp seam [0 1 2], got %v", dp[0])
	}
	if c := seamCost(g, dp[0]); c != 5 {
		t.Errorf("Expected dp seam cost 5, got %d", c)
	}
	if seamCost(g, dp[0]) > seamCost(g, greedy[0]) {
		t.Error("DP seam should never cost more than the greedy seam")
	}
}

func TestFindSeamsGreedyTieBreaking(t *testing.T) {
	// Equal start scores pick the leftmost column; going down, a tie with
	// the same column stays put, and right only wins when strictly lower.
	g := gridFromRows(
		[]int32{1, 1, 1, 1},
		[]int32{2, 1, 1, 1},
		[]int32{3, 3, 3, 2},
	)

	seams, err := FindSeams(g, 1, SeamGreedy)
	if err != nil {
		t.Fatalf("FindSeams failed: %v", err)
	}
	// Start: x=0 scores 1+min(2,1)=2, x=1 scores 1+1=2 -> leftmost 0.
	// Row 1 from 0: same 2, right 1 -> 1. Row 2 from 1: same 3, left 3, right 3 -> 1.
	if !reflect.DeepEqual(seams[0], Seam{0, 1, 1}) {
		t.Errorf("Expected [0 1 1], got %v", seams[0])
	}
}

func TestFindSeamsOriginalCoordinates(t *testing.T) {
	g := gridFromRows(
		[]int32{1, 1, 1, 1},
		[]int32{1, 1, 1, 1},
	)

	for _, strategy := range []SeamStrategy{SeamDP, SeamGreedy} {
		seams, err := FindSeams(g, 2, strategy)
		if err != nil {
			t.Fatalf("%s: FindSeams failed: %v", strategy, err)
		}
		expected := []Seam{{0, 0}, {1, 1}}
		if !reflect.DeepEqual(seams, expected) {
			t.Errorf("%s: expected %v, got %v", strategy, expected, seams)
		}
	}
}

func TestFindSeamsNeverReuseCells(t *testing.T) {
	r := CreateEdgeImage(30, 20)
	g, err := Energy(r, KernelSobel)
	if err != nil {
		t.Fatal(err)
	}

	for _, strategy := range []SeamStrategy{SeamDP, SeamGreedy} {
		seams, err := FindSeams(g, 12, strategy)
		if err != nil {
			t.Fatalf("%s: FindSeams failed: %v", strategy, err)
		}
		if len(seams) != 12 {
			t.Fatalf("%s: expected 12 seams, got %d", strategy, len(seams))
		}

		for y := 0; y < g.Height; y++ {
			seen := map[int]bool{}
			for i, s := range seams {
				if len(s) != g.Height {
					t.Fatalf("%s: seam %d has %d rows", strategy, i, len(s))
				}
				if seen[s[y]] {
					t.Errorf("%s: column %d reused in row %d", strategy, s[y], y)
				}
				seen[s[y]] = true
			}
		}
	}
}

func TestFindSeamsHeightOne(t *testing.T) {
	g := gridFromRows([]int32{4, 2, 3})
	for _, strategy := range []SeamStrategy{SeamDP, SeamGreedy} {
		seams, err := FindSeams(g, 2, strategy)
		if err != nil {
			t.Fatalf("%s: FindSeams failed: %v", strategy, err)
		}
		expected := []Seam{{1}, {2}}
		if !reflect.DeepEqual(seams, expected) {
			t.Errorf("%s: expected %v, got %v", strategy, expected, seams)
		}
	}
}

func TestFindSeamsOutOfRange(t *testing.T) {
	g := NewEnergyGrid(3, 3)

	if _, err := FindSeams(g, 4, SeamDP); !errors.Is(err, ErrSeamOutOfRange) {
		t.Errorf("Expected ErrSeamOutOfRange, got %v", err)
	}
	if _, err := FindSeams(g, -1, SeamDP); !errors.Is(err, ErrSeamOutOfRange) {
		t.Errorf("Expected ErrSeamOutOfRange, got %v", err)
	}
	seams, err := FindSeams(g, 3, SeamDP)
	if err != nil || len(seams) != 3 {
		t.Errorf("Expected all 3 seams, got %v, %v", seams, err)
	}
	if _, err := FindSeams(g, 1, SeamStrategy(9)); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for unknown strategy, got %v", err)
	}
}

func TestRemoveSeams(t *testing.T) {
	g := gridFromRows(
		[]int32{10, 11, 12, 13},
		[]int32{20, 21, 22, 23},
		[]int32{30, 31, 32, 33},
	)
	seams := []Seam{{1, 1, 2}, {3, 2, 3}}

	out, err := RemoveSeams(g, seams, false)
	if err != nil {
		t.Fatalf("RemoveSeams failed: %v", err)
	}
	if out.Width != 2 || out.Height != 3 {
		t.Fatalf("Expected 2x3, got %dx%d", out.Width, out.Height)
	}

	expected := []int32{10, 12, 20, 23, 30, 31}
	if !reflect.DeepEqual(out.Cells, expected) {
		t.Errorf("Expected %v, got %v", expected, out.Cells)
	}
	if g.Width != 4 || g.At(1, 0) != 11 {
		t.Error("RemoveSeams should not modify its input")
	}
}

func TestRemoveSeamsNeverFabricates(t *testing.T) {
	r := CreateCheckerboardImage(24, 16, 3)
	g, err := Energy(r, KernelPrewitt)
	if err != nil {
		t.Fatal(err)
	}
	seams, err := FindSeams(g, 7, SeamDP)
	if err != nil {
		t.Fatal(err)
	}

	out, err := RemoveSeams(g, seams, false)
	if err != nil {
		t.Fatalf("RemoveSeams failed: %v", err)
	}
	if out.Width != g.Width-7 || out.Height != g.Height {
		t.Fatalf("Expected %dx%d, got %dx%d", g.Width-7, g.Height, out.Width, out.Height)
	}

	// Every surviving row is an ordered subsequence of the source row
	for y := 0; y < g.Height; y++ {
		src, dst := g.Row(y), out.Row(y)
		i := 0
		for _, v := range dst {
			for i < len(src) && src[i] != v {
				i++
			}
			if i == len(src) {
				t.Fatalf("Row %d contains a value not in order in the source", y)
			}
			i++
		}
	}
}

func TestRemoveSeamsInterpolateUnsupported(t *testing.T) {
	g := NewEnergyGrid(3, 2)
	_, err := RemoveSeams(g, []Seam{{0, 0}}, true)
	if !errors.Is(err, ErrInterpolateUnsupported) {
		t.Errorf("Expected ErrInterpolateUnsupported, got %v", err)
	}
}

func TestRemoveSeamsInvalid(t *testing.T) {
	g := NewEnergyGrid(3, 2)

	if _, err := RemoveSeams(g, []Seam{{0}}, false); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for short seam, got %v", err)
	}
	if _, err := RemoveSeams(g, []Seam{{0, 3}}, false); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for column out of range, got %v", err)
	}
	if _, err := RemoveSeams(g, []Seam{{0, 0}, {0, 1}}, false); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for repeated column, got %v", err)
	}
	if _, err := RemoveSeams(g, []Seam{{0, 0}, {1, 1}, {2, 2}, {0, 0}}, false); !errors.Is(err, ErrSeamOutOfRange) {
		t.Errorf("Expected ErrSeamOutOfRange for too many seams, got %v", err)
	}
}

func TestAddSeams(t *testing.T) {
	g := gridFromRows(
		[]int32{1, 2, 3},
		[]int32{4, 5, 6},
	)

	out, err := AddSeams(g, []Seam{{0, 1}, {2, 2}})
	if err != nil {
		t.Fatalf("AddSeams failed: %v", err)
	}
	if out.Width != 5 || out.Height != 2 {
		t.Fatalf("Expected 5x2, got %dx%d", out.Width, out.Height)
	}

	expected := []int32{1, 1, 2, 3, 3, 4, 5, 5, 6, 6}
	if !reflect.DeepEqual(out.Cells, expected) {
		t.Errorf("Expected %v, got %v", expected, out.Cells)
	}
}

func TestRasterSeamsKeepPositions(t *testing.T) {
	r := CreateGradientImage(8, 4)
	seams := []Seam{{2, 3, 3, 2}}

	narrower, err := RemoveRasterSeams(r, seams)
	if err != nil {
		t.Fatalf("RemoveRasterSeams failed: %v", err)
	}
	if err := narrower.Valid(); err != nil {
		t.Errorf("Narrowed raster should be valid: %v", err)
	}

	wider, err := AddRasterSeams(r, seams)
	if err != nil {
		t.Fatalf("AddRasterSeams failed: %v", err)
	}
	if wider.Width != 9 {
		t.Errorf("Expected width 9, got %d", wider.Width)
	}
	if err := wider.Valid(); err != nil {
		t.Errorf("Widened raster should be valid: %v", err)
	}
	if wider.At(3, 0).RGB() != r.At(2, 0).RGB() {
		t.Errorf("Expected duplicated seam pixel at (3,0)")
	}
}

func TestCarvePreservesHighEnergy(t *testing.T) {
	r := CreateVerticalLineImage(10, 6, 5)

	for _, strategy := range []SeamStrategy{SeamDP, SeamGreedy} {
		carved, err := Carve(r, 6, KernelSobel, strategy)
		if err != nil {
			t.Fatalf("%s: Carve failed: %v", strategy, err)
		}
		if carved.Width != 6 || carved.Height != 6 {
			t.Fatalf("%s: expected 6x6, got %dx%d", strategy, carved.Width, carved.Height)
		}
		for y := 0; y < carved.Height; y++ {
			white := 0
			for x := 0; x < carved.Width; x++ {
				if carved.At(x, y).R == 255 {
					white++
				}
			}
			if white != 1 {
				t.Errorf("%s: row %d has %d line pixels, expected 1", strategy, y, white)
			}
		}
	}
}

func TestCarveGrow(t *testing.T) {
	r := CreateGradientImage(4, 3)

	carved, err := Carve(r, 11, KernelSobel, SeamDP)
	if err != nil {
		t.Fatalf("Carve failed: %v", err)
	}
	if carved.Width != 11 || carved.Height != 3 {
		t.Errorf("Expected 11x3, got %dx%d", carved.Width, carved.Height)
	}
	if err := carved.Valid(); err != nil {
		t.Errorf("Carved raster should be valid: %v", err)
	}

	same, err := Carve(r, 4, KernelSobel, SeamDP)
	if err != nil || CalculateMSE(r, same) != 0 {
		t.Errorf("Carving to the current width should copy, got %v", err)
	}
	if _, err := Carve(r, 0, KernelSobel, SeamDP); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for zero width, got %v", err)
	}
}

func TestCarveHeight(t *testing.T) {
	r := CreateVerticalGradientImage(5, 12)

	carved, err := CarveHeight(r, 7, KernelPrewitt, SeamDP)
	if err != nil {
		t.Fatalf("CarveHeight failed: %v", err)
	}
	if carved.Width != 5 || carved.Height != 7 {
		t.Errorf("Expected 5x7, got %dx%d", carved.Width, carved.Height)
	}
	if err := carved.Valid(); err != nil {
		t.Errorf("Carved raster should be valid: %v", err)
	}
}
