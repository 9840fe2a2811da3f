package imageutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRaster(t *testing.T) {
	r := NewRaster(100, 50)
	if r.Width != 100 {
		t.Errorf("Expected width 100, got %d", r.Width)
	}
	if r.Height != 50 {
		t.Errorf("Expected height 50, got %d", r.Height)
	}
	if len(r.Pixels) != 5000 {
		t.Errorf("Expected 5000 pixels, got %d", len(r.Pixels))
	}
	if err := r.Valid(); err != nil {
		t.Errorf("New raster should be valid: %v", err)
	}
	if p := r.At(99, 49); p.Pos != (Point{99, 49}) {
		t.Errorf("Expected position (99,49), got %v", p.Pos)
	}
}

func TestRasterSetKeepsPosition(t *testing.T) {
	r := NewRaster(4, 4)
	r.Set(2, 3, Pixel{R: 10, G: 20, B: 30, Pos: Point{0, 0}, Glyph: '#'})

	p := r.At(2, 3)
	if p.Pos != (Point{2, 3}) {
		t.Errorf("Expected position (2,3), got %v", p.Pos)
	}
	if p.RGB() != (RGB{10, 20, 30}) || p.Glyph != '#' {
		t.Errorf("Expected {10 20 30} '#', got %v %q", p.RGB(), p.Glyph)
	}
}

func TestRasterClone(t *testing.T) {
	r := NewRaster(10, 10)
	r.SetRGB(5, 5, RGB{R: 255})

	clone := r.Clone()
	if clone.At(5, 5) != r.At(5, 5) {
		t.Error("Clone should have same pixel values")
	}

	// Modify clone, original should be unchanged
	clone.SetRGB(5, 5, RGB{G: 255})
	if r.At(5, 5).G != 0 {
		t.Error("Modifying clone should not affect original")
	}
}

func TestRasterValid(t *testing.T) {
	r := NewRaster(3, 2)
	r.Pixels[4].Pos = Point{0, 0}
	if err := r.Valid(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for wrong position, got %v", err)
	}

	r = NewRaster(3, 2)
	r.Pixels = r.Pixels[:5]
	if err := r.Valid(); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Expected ErrSizeMismatch for short pixel slice, got %v", err)
	}
}

func TestRasterTranspose(t *testing.T) {
	r := CreateGradientImage(5, 3)
	tr := r.Transpose()
	if tr.Width != 3 || tr.Height != 5 {
		t.Fatalf("Expected 3x5, got %dx%d", tr.Width, tr.Height)
	}
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if tr.At(y, x).RGB() != r.At(x, y).RGB() {
				t.Errorf("Transpose mismatch at (%d,%d)", x, y)
			}
		}
	}
	if err := tr.Valid(); err != nil {
		t.Errorf("Transposed raster should be valid: %v", err)
	}
}

func TestRasterImageRoundTrip(t *testing.T) {
	r := CreateColorBarsImage(16, 4)
	back := RasterFromImage(r.ToRGBA())

	if mse := CalculateMSE(r, back); mse != 0 {
		t.Errorf("Expected lossless round trip, MSE=%f", mse)
	}
	if err := back.Valid(); err != nil {
		t.Errorf("Converted raster should be valid: %v", err)
	}
}

func TestToGrayscale(t *testing.T) {
	// Test with known values
	r := NewRaster(1, 1)
	r.SetRGB(0, 0, RGB{R: 255, G: 255, B: 255})

	v := ToGrayscale(r).GetGray(0, 0)

	// White should produce white (255)
	if v != 255 {
		t.Errorf("White pixel should convert to 255, got %d", v)
	}

	// Test black
	r.SetRGB(0, 0, RGB{})
	v = ToGrayscale(r).GetGray(0, 0)
	if v != 0 {
		t.Errorf("Black pixel should convert to 0, got %d", v)
	}

	// Test red (0.299 * 255 = 76.245)
	r.SetRGB(0, 0, RGB{R: 255})
	v = ToGrayscale(r).GetGray(0, 0)
	if v < 75 || v > 77 {
		t.Errorf("Red pixel should convert to ~76, got %d", v)
	}
}

func TestMeanLuminanceDiffersFromWeighted(t *testing.T) {
	p := Pixel{G: 255}
	if got := p.MeanLuminance(); got != 85 {
		t.Errorf("Expected mean luminance 85, got %d", got)
	}
	if got := WeightedLuminance(p.RGB()); got != 150 {
		t.Errorf("Expected weighted luminance 150, got %d", got)
	}
}

func TestConvolveIdentity(t *testing.T) {
	r := CreateGradientImage(10, 10)

	identity := NewKernel([][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	result := Convolve(r, identity)

	if mse := CalculateMSE(r, result); mse != 0 {
		t.Errorf("Identity kernel should preserve pixels, MSE=%f", mse)
	}
}

func TestSharpen(t *testing.T) {
	r := CreateEdgeImage(100, 100)
	sharpened := Sharpen(r)

	if !sharpened.SameSize(r) {
		t.Error("Sharpened raster should have same dimensions")
	}
	if err := sharpened.Valid(); err != nil {
		t.Errorf("Sharpened raster should be valid: %v", err)
	}

	flat := CreateSolidImage(8, 8, RGB{R: 90, G: 90, B: 90})
	if mse := CalculateMSE(flat, Sharpen(flat)); mse != 0 {
		t.Errorf("Sharpening a flat raster should be a no-op, MSE=%f", mse)
	}
}

func TestLoadSaveRaster(t *testing.T) {
	tmpDir := t.TempDir()
	r := CreateColorBarsImage(64, 64)

	for _, ext := range []string{".png", ".bmp", ".tiff"} {
		path := filepath.Join(tmpDir, "test"+ext)
		if err := SaveRaster(r, path); err != nil {
			t.Fatalf("Failed to save %s: %v", ext, err)
		}

		loaded, err := LoadRaster(path)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", ext, err)
		}

		// These formats are lossless
		if mse := CalculateMSE(r, loaded); mse > 0.01 {
			t.Errorf("%s should be lossless, MSE=%f", ext, mse)
		}
	}
}

func TestLoadImageMissing(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error loading a missing file")
	}
}

func TestCalculateMSE(t *testing.T) {
	r1 := NewRaster(10, 10)
	r2 := NewRaster(10, 10)

	// Same rasters should have MSE of 0
	if mse := CalculateMSE(r1, r2); mse != 0 {
		t.Errorf("Identical rasters should have MSE=0, got %f", mse)
	}

	r2 = CreateSolidImage(10, 10, RGB{R: 10, G: 10, B: 10})
	expected := 100.0 // 10^2 = 100
	if mse := CalculateMSE(r1, r2); mse != expected {
		t.Errorf("Expected MSE=%f, got %f", expected, mse)
	}
	if d := CalculateMaxDiff(r1, r2); d != 10 {
		t.Errorf("Expected max diff 10, got %d", d)
	}
}

// TestSaveTestImages saves test images to testdata directory for visual inspection.
// Run with: go test -run TestSaveTestImages -v
func TestSaveTestImages(t *testing.T) {
	if os.Getenv("SAVE_TEST_IMAGES") != "1" {
		t.Skip("Set SAVE_TEST_IMAGES=1 to generate test images")
	}

	testdataDir := "../testdata"
	os.MkdirAll(testdataDir, 0755)

	edges := CreateEdgeImage(256, 256)
	SaveRaster(edges, filepath.Join(testdataDir, "edges.png"))

	energy, err := GradientMagnitude(edges, KernelSobel)
	if err != nil {
		t.Fatal(err)
	}
	SaveRaster(energy, filepath.Join(testdataDir, "edges_sobel.png"))

	carved, err := Carve(edges, 160, KernelSobel, SeamDP)
	if err != nil {
		t.Fatal(err)
	}
	SaveRaster(carved, filepath.Join(testdataDir, "edges_carved.png"))

	t.Log("Test images saved to testdata/")
}
