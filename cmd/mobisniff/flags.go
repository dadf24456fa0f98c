package main

import (
	"github.com/samcharles93/mobisniff/internal/unpack"
	"github.com/urfave/cli/v3"
)

var (
	configFile  string
	logLevel    string
	logFormat   string
	debug       bool
	outDir      string
	engineCmd   string
	epubVersion string
	hdImages    bool
	workers     int
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Usage:       "path to config.yaml",
		Value:       configPath(),
		Destination: &configFile,
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "out",
		Aliases:     []string{"o"},
		Usage:       "output directory (defaults to unpack_folder when always_use_unpack_folder is set)",
		Destination: &outDir,
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "kindleunpack",
			Usage:       "unpack engine command line",
			Value:       unpack.DefaultCommand,
			Destination: &engineCmd,
		},
		&cli.StringFlag{
			Name:        "epub-version",
			Usage:       "ePub version for rebuilt KF8 books (2, 3, A)",
			Value:       string(unpack.Epub2),
			Destination: &epubVersion,
		},
		&cli.BoolFlag{
			Name:        "hd-images",
			Usage:       "use HD images when the book carries them",
			Destination: &hdImages,
		},
	}
}

func workersFlag() cli.Flag {
	return &cli.IntFlag{
		Name:        "workers",
		Aliases:     []string{"j"},
		Usage:       "books processed concurrently",
		Value:       4,
		Destination: &workers,
	}
}
