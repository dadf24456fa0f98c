package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samcharles93/mobisniff/internal/logger"
	"github.com/samcharles93/mobisniff/internal/unpack"
	"github.com/urfave/cli/v3"
)

// openProcessor resolves engine settings and classifies the single FILE
// argument.
func openProcessor(ctx context.Context, cmd *cli.Command) (*unpack.Processor, error) {
	if cmd.Args().Len() != 1 {
		return nil, cli.Exit(cmd.Name+": exactly one FILE is required", 2)
	}
	applyEngineConfig(cmd, appConfig)
	opts, err := unpackOptions()
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	log := logger.FromContext(ctx)
	engine := unpack.NewCommandEngine(engineCmd, log)
	return unpack.NewProcessor(cmd.Args().First(), opts, engine, engine, log)
}

func unpackCmd() *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "Unpack a Kindle book into its resources",
		ArgsUsage: "FILE",
		Flags:     append(engineFlags(), outFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := openProcessor(ctx, cmd)
			if err != nil {
				return err
			}
			dir, err := resolveOutDir(outDir, appConfig)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			dir = filepath.Join(dir, unpack.BaseName(p.Path))
			if err := p.UnpackMOBI(ctx, dir); err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}

func splitCmd() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "Split a combo file into MOBI 7 and KF8 files",
		ArgsUsage: "FILE",
		Flags:     append(engineFlags(), outFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := openProcessor(ctx, cmd)
			if err != nil {
				return err
			}
			dir, err := resolveOutDir(outDir, appConfig)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			mobiPath, kf8Path, err := p.WriteSplitCombo(ctx, dir)
			if err != nil {
				return err
			}
			fmt.Println(mobiPath)
			fmt.Println(kf8Path)
			return nil
		},
	}
}
