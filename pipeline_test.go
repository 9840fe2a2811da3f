package img2term

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/wbrown/img2term/imageutil"
)

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func frameOf(r *imageutil.Raster, format imageutil.PixelFormat) Frame {
	return Frame{
		Data:   imageutil.EncodeBuffer(r, format),
		Width:  r.Width,
		Height: r.Height,
		Format: format,
	}
}

func TestPipelineProcessShape(t *testing.T) {
	p := NewPipeline(WithTargetSize(16, 8), WithLogger(quietLogger()))

	res, err := p.Process(frameOf(imageutil.CreateCheckerboardImage(64, 32, 8), imageutil.FormatBGRA8))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if res.Raster.Width != 16 || res.Raster.Height != 8 {
		t.Errorf("Expected 16x8 raster, got %dx%d", res.Raster.Width, res.Raster.Height)
	}
	if err := res.Raster.Valid(); err != nil {
		t.Errorf("Result raster invalid: %v", err)
	}
	if !res.Edges.SameSize(res.Raster) {
		t.Errorf("Expected edges to match raster size, got %dx%d", res.Edges.Width, res.Edges.Height)
	}
	if len(res.Glyphs) != 8 || len(res.Glyphs[0]) != 16 {
		t.Errorf("Expected 8 rows of 16 glyphs, got %d rows", len(res.Glyphs))
	}
	for i, px := range res.Raster.Pixels {
		if !strings.ContainsRune(imageutil.RampStandard, px.Glyph) {
			t.Fatalf("Pixel %d has glyph %q outside the ramp", i, px.Glyph)
		}
	}
	if lines := strings.Split(res.String(), "\n"); len(lines) != 8 {
		t.Errorf("Expected 8 lines of text, got %d", len(lines))
	}
}

func TestPipelineFlatFrameKeepsColor(t *testing.T) {
	p := NewPipeline(
		WithTargetSize(4, 2),
		WithScaling(imageutil.ScalingNearest),
		WithLogger(quietLogger()),
	)

	// No edges and a dim frame: every pixel is within the threshold of
	// the empty edge raster, so the frame shows through.
	res, err := p.Process(frameOf(imageutil.CreateSolidImage(8, 4, imageutil.RGB{R: 30, G: 30, B: 30}), imageutil.FormatRGBA8))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	for i, px := range res.Raster.Pixels {
		if px.RGB() != (imageutil.RGB{R: 30, G: 30, B: 30}) {
			t.Errorf("Pixel %d: expected frame color, got %v", i, px.RGB())
		}
		if px.Glyph != '.' {
			t.Errorf("Pixel %d: expected '.', got %q", i, px.Glyph)
		}
	}
}

func TestPipelineSizeMismatchLogsAndContinues(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewPipeline(WithTargetSize(4, 4), WithLogger(logger))

	res, err := p.Process(Frame{
		Data:   make([]byte, 10),
		Width:  8,
		Height: 8,
		Format: imageutil.FormatRGBA8,
	})
	if err != nil {
		t.Fatalf("Expected black frame, got error: %v", err)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("Expected a warning to be logged, got %v", entry)
	}
	if entry.Data["expected"] != 256 || entry.Data["actual"] != 10 {
		t.Errorf("Expected size fields 256/10, got %v/%v", entry.Data["expected"], entry.Data["actual"])
	}

	for i, px := range res.Raster.Pixels {
		if px.RGB() != (imageutil.RGB{}) || px.Glyph != ' ' {
			t.Errorf("Pixel %d: expected black blank cell, got %v %q", i, px.RGB(), px.Glyph)
		}
	}
}

func TestPipelineInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"empty ramp", []Option{WithRamp("")}},
		{"zero target", []Option{WithTargetSize(0, 10)}},
	}
	for _, tt := range tests {
		p := NewPipeline(append(tt.opts, WithLogger(quietLogger()))...)
		_, err := p.ProcessRaster(imageutil.CreateGradientImage(8, 8))
		if !errors.Is(err, imageutil.ErrInvalidParameter) {
			t.Errorf("%s: expected ErrInvalidParameter, got %v", tt.name, err)
		}
	}

	p := NewPipeline(WithLogger(quietLogger()))
	if _, err := p.Process(Frame{Width: -1, Height: 1}); err == nil {
		t.Error("Expected error for negative frame size")
	}
}

func TestPipelineCarveAndAspect(t *testing.T) {
	p := NewPipeline(
		WithTargetSize(40, 40),
		WithCellAspect(2),
		WithCarve(16),
		WithSeamStrategy(imageutil.SeamGreedy),
		WithLogger(quietLogger()),
	)

	res, err := p.ProcessRaster(imageutil.CreateVerticalLineImage(32, 16, 10))
	if err != nil {
		t.Fatalf("ProcessRaster failed: %v", err)
	}

	// Carved to 16x16, then fitted with 2:1 cells: 40 columns x 20 rows.
	if res.Raster.Width != 40 || res.Raster.Height != 20 {
		t.Errorf("Expected 40x20 raster, got %dx%d", res.Raster.Width, res.Raster.Height)
	}
}

func TestPipelineFiltersRunFirst(t *testing.T) {
	p := NewPipeline(
		WithTargetSize(2, 2),
		WithScaling(imageutil.ScalingNearest),
		WithFilters(imageutil.BrightnessFilter{Delta: -255}),
		WithLogger(quietLogger()),
	)

	res, err := p.ProcessRaster(imageutil.CreateSolidImage(4, 4, imageutil.RGB{R: 200, G: 200, B: 200}))
	if err != nil {
		t.Fatalf("ProcessRaster failed: %v", err)
	}
	for i, px := range res.Raster.Pixels {
		if px.RGB() != (imageutil.RGB{}) {
			t.Errorf("Pixel %d: expected black after brightness filter, got %v", i, px.RGB())
		}
	}
}

func TestPipelineConcurrentUse(t *testing.T) {
	p := NewPipeline(WithTargetSize(20, 10), WithLogger(quietLogger()))
	frame := frameOf(imageutil.CreateColorBarsImage(80, 40), imageutil.FormatRGBA8)

	want, err := p.Process(frame)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	texts := make([]string, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := p.Process(frame)
			if err != nil {
				errs[i] = err
				return
			}
			texts[i] = res.String()
		}(i)
	}
	wg.Wait()

	for i := range errs {
		if errs[i] != nil {
			t.Errorf("Worker %d failed: %v", i, errs[i])
		} else if texts[i] != want.String() {
			t.Errorf("Worker %d produced different glyphs", i)
		}
	}
}
