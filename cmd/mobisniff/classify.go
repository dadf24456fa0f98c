package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samcharles93/mobisniff/internal/batch"
	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/urfave/cli/v3"
)

func classifyCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "classify",
		Usage:     "Classify Kindle book files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the results as JSON",
				Destination: &asJSON,
			},
			workersFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("classify: at least one FILE is required", 2)
			}
			applyWorkersConfig(cmd, appConfig)

			b := batch.New(ctx, nil, paths, workers, batch.Classify)
			if asJSON {
				return b.WriteJSON(os.Stdout)
			}
			for _, r := range b.Results {
				printResult(os.Stdout, r)
			}
			if n := b.Count(batch.NoFormat) + b.Count(batch.Unknown); n > 0 {
				return cli.Exit(fmt.Sprintf("classify: %d of %d files could not be classified", n, len(paths)), 1)
			}
			return nil
		},
	}
}

func printResult(w io.Writer, r batch.Result) {
	_, _ = fmt.Fprintln(w, r.Path)
	if r.Class == nil {
		_, _ = fmt.Fprintf(w, "  error:      %s\n", r.Message)
		return
	}
	if r.Title != "" {
		_, _ = fmt.Fprintf(w, "  title:      %s\n", r.Title)
	}
	printClassification(w, *r.Class)
}

func printClassification(w io.Writer, c mobi.Classification) {
	_, _ = fmt.Fprintf(w, "  kind:       %s\n", c.Kind)
	_, _ = fmt.Fprintf(w, "  header:     section %d, version %d, codepage %d\n", c.HeaderIndex, c.HeaderVersion, c.Codepage)
	_, _ = fmt.Fprintf(w, "  encrypted:  %t (crypto type %d)\n", c.Encrypted, c.CryptoType)
	_, _ = fmt.Fprintf(w, "  kf8:        %t\n", c.StandaloneKF8)
	_, _ = fmt.Fprintf(w, "  replica:    %t\n", c.PrintReplica)
	if c.Combo {
		_, _ = fmt.Fprintf(w, "  combo:      true (boundary at section %d)\n", c.BoundarySection)
	} else {
		_, _ = fmt.Fprintln(w, "  combo:      false")
	}

	var ops []string
	for _, a := range c.Operations() {
		switch {
		case a.Enabled:
			ops = append(ops, a.Op.String())
		case a.Reason != "":
			ops = append(ops, fmt.Sprintf("%s (disabled: %s)", a.Op, a.Reason))
		}
	}
	if len(ops) > 0 {
		_, _ = fmt.Fprintf(w, "  operations: %s\n", strings.Join(ops, ", "))
	}
}
