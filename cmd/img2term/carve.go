package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/wbrown/img2term/imageutil"
)

type carveCmd struct {
	In  string `arg:"" help:"Input image" type:"existingfile"`
	Out string `arg:"" help:"Output image (png, jpg, gif, bmp or tiff)" type:"path"`

	Width  int    `help:"Target width in pixels, 0 keeps the width"`
	Height int    `help:"Target height in pixels, 0 keeps the height"`
	Kernel string `help:"Energy kernel: sobel or prewitt" default:"sobel"`
	Seams  string `help:"Seam search: dp or greedy" default:"dp"`

	filter imageutil.CarveFilter
}

func (c *carveCmd) Validate(kctx *kong.Context) error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Width == 0 && c.Height == 0 {
		return fmt.Errorf("no carve dimensions given")
	}

	kernel, err := imageutil.ParseKernelFamily(c.Kernel)
	if err != nil {
		return err
	}
	strategy, err := imageutil.ParseSeamStrategy(c.Seams)
	if err != nil {
		return err
	}
	c.filter = imageutil.CarveFilter{
		Width:    c.Width,
		Height:   c.Height,
		Kernel:   kernel,
		Strategy: strategy,
	}
	return nil
}

func (c *carveCmd) Run(cc *cliContext) error {
	start := time.Now()
	logger := cc.Logger.WithField("file", c.In)

	src, err := imageutil.LoadRaster(c.In)
	if err != nil {
		return err
	}
	carved, err := imageutil.ApplyFilters(src, c.filter)
	if err != nil {
		return err
	}
	if err := imageutil.SaveRaster(carved, c.Out); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"from":    fmt.Sprintf("%dx%d", src.Width, src.Height),
		"width":   carved.Width,
		"height":  carved.Height,
		"elapsed": time.Since(start),
	}).Info("Image carved")
	return nil
}
