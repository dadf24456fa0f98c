package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samcharles93/mobisniff/internal/logger"
	"github.com/samcharles93/mobisniff/internal/version"
	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/urfave/cli/v3"
)

// appConfig is the config file loaded by the root Before hook.
var appConfig Config

func main() {
	app := &cli.Command{
		Name:    "mobisniff",
		Usage:   "Kindle (MOBI/PRC/AZW) container sniffer",
		Version: version.String(),
		Flags:   append(loggingFlags(), configFlag()),
		Before:  setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			classifyCmd(),
			inspectCmd(),
			unpackCmd(),
			extractCmd(mobi.TargetEPUB),
			extractCmd(mobi.TargetPDF),
			splitCmd(),
			batchCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config file and installs the logger on the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return ctx, err
	}
	appConfig = cfg
	applyLoggingConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.Setup(os.Stderr, logFormat, level)
	if err != nil {
		return ctx, cli.Exit(err.Error(), 2)
	}
	return logger.WithContext(ctx, log), nil
}
