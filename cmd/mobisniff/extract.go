package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samcharles93/mobisniff/internal/batch"
	"github.com/samcharles93/mobisniff/internal/logger"
	"github.com/samcharles93/mobisniff/internal/unpack"
	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/urfave/cli/v3"
)

// extractCmd builds the "epub" and "pdf" commands.
func extractCmd(target mobi.Target) *cli.Command {
	return &cli.Command{
		Name:      target.String(),
		Usage:     fmt.Sprintf("Extract the %s from %s books", target.KindName(), target.SourceFormat()),
		ArgsUsage: "FILE...",
		Flags:     append(engineFlags(), outFlag(), workersFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return cli.Exit(cmd.Name+": at least one FILE is required", 2)
			}
			b, err := runExtract(ctx, cmd, target)
			if err != nil {
				return err
			}
			for _, r := range b.Results {
				if r.Outcome == batch.Success {
					fmt.Println(r.Output)
					continue
				}
				_, _ = fmt.Fprintf(os.Stderr, "%s: %s\n", r.DisplayName(), r.Message)
			}
			if ok := b.Count(batch.Success); ok != len(b.Results) {
				return cli.Exit(b.Summary(), 1)
			}
			return nil
		},
	}
}

// runExtract runs an Extractor over the FILE arguments.
func runExtract(ctx context.Context, cmd *cli.Command, target mobi.Target) (*batch.Batch, error) {
	applyEngineConfig(cmd, appConfig)
	applyWorkersConfig(cmd, appConfig)
	opts, err := unpackOptions()
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	dir, err := resolveOutDir(outDir, appConfig)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}

	log := logger.FromContext(ctx)
	x := &batch.Extractor{
		Target:   target,
		OutDir:   dir,
		Opts:     opts,
		Unpacker: unpack.NewCommandEngine(engineCmd, log),
		Log:      log,
	}
	return batch.New(ctx, &target, cmd.Args().Slice(), workers, x.Job), nil
}
