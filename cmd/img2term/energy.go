package main

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wbrown/img2term/imageutil"
)

type energyCmd struct {
	In     string `arg:"" help:"Input image" type:"existingfile"`
	Out    string `arg:"" help:"Output image (png, jpg, gif, bmp or tiff)" type:"path"`
	Kernel string `help:"Gradient kernel" enum:"sobel,prewitt" default:"sobel"`
}

func (c *energyCmd) Run(cc *cliContext) error {
	start := time.Now()

	kernel, err := imageutil.ParseKernelFamily(c.Kernel)
	if err != nil {
		return err
	}
	src, err := imageutil.LoadRaster(c.In)
	if err != nil {
		return err
	}
	grid, err := imageutil.Energy(src, kernel)
	if err != nil {
		return err
	}
	if err := imageutil.SaveImage(grid.ToGray().Gray, c.Out); err != nil {
		return err
	}

	cc.Logger.WithFields(logrus.Fields{
		"file":    c.In,
		"width":   grid.Width,
		"height":  grid.Height,
		"max":     grid.Max(),
		"elapsed": time.Since(start),
	}).Info("Energy written")
	return nil
}
