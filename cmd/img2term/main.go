package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/wbrown/img2term"
)

// cliContext is handed to every command's Run. Commands that fan out
// start their own pool of Workers.
type cliContext struct {
	Logger  *logrus.Logger
	Config  *img2term.Config
	Workers int
}

var cli struct {
	Config  string `help:"YAML config file" type:"existingfile"`
	Debug   bool   `help:"Enable debug logging"`
	Workers int    `help:"Number of parallel workers, 0 for one per CPU" default:"0"`

	Render renderCmd `cmd:"" help:"Convert images or raw frames to terminal glyphs"`
	Carve  carveCmd  `cmd:"" help:"Seam-carve an image to a new size"`
	Energy energyCmd `cmd:"" help:"Write the gradient magnitude of an image"`
}

func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("img2term"),
		kong.Description("Render images as edge-accentuated terminal glyphs."),
		kong.UsageOnError(),
	)

	logger := initLogger(cli.Debug)

	cfg := img2term.DefaultConfig()
	if cli.Config != "" {
		var err error
		if cfg, err = img2term.LoadConfig(cli.Config); err != nil {
			logger.WithError(err).WithField("file", cli.Config).Fatal("Failed to load config")
		}
	}

	err := kctx.Run(&cliContext{
		Logger:  logger,
		Config:  cfg,
		Workers: cli.Workers,
	})
	if err != nil {
		logger.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
