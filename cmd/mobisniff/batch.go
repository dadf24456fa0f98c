package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samcharles93/mobisniff/internal/batch"
	"github.com/samcharles93/mobisniff/internal/logger"
	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/urfave/cli/v3"
)

func batchCmd() *cli.Command {
	var (
		targetName string
		format     string
		reportPath string
	)

	return &cli.Command{
		Name:      "batch",
		Usage:     "Process many books and print an issue log",
		ArgsUsage: "FILE...",
		Flags: append(engineFlags(), outFlag(), workersFlag(),
			&cli.StringFlag{
				Name:        "target",
				Aliases:     []string{"t"},
				Usage:       "format to extract (epub, pdf); empty only classifies",
				Destination: &targetName,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "report format (text, html, json)",
				Value:       "text",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "report",
				Usage:       "write the report to this file instead of stdout",
				Destination: &reportPath,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return cli.Exit("batch: at least one FILE is required", 2)
			}
			render, err := reportWriter(format)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			var b *batch.Batch
			if targetName == "" {
				applyWorkersConfig(cmd, appConfig)
				b = batch.New(ctx, nil, cmd.Args().Slice(), workers, batch.Classify)
			} else {
				target, err := mobi.ParseTarget(targetName)
				if err != nil {
					return cli.Exit(err.Error(), 2)
				}
				if b, err = runExtract(ctx, cmd, target); err != nil {
					return err
				}
			}
			logger.FromContext(ctx).Info("batch finished", "id", b.ID, "summary", b.Summary())

			w := io.Writer(os.Stdout)
			if reportPath != "" {
				f, err := os.Create(reportPath)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := render(b, w); err != nil {
				return err
			}
			if reportPath != "" {
				fmt.Println(b.Summary())
			}
			return nil
		},
	}
}

func reportWriter(format string) (func(*batch.Batch, io.Writer) error, error) {
	switch format {
	case "", "text":
		return (*batch.Batch).RenderText, nil
	case "html":
		return (*batch.Batch).RenderHTML, nil
	case "json":
		return (*batch.Batch).WriteJSON, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want text, html or json)", format)
	}
}
