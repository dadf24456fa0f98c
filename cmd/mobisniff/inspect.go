package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/samcharles93/mobisniff/pkg/pdb"
	"github.com/urfave/cli/v3"
)

func inspectCmd() *cli.Command {
	var showSections bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the container layout and book headers of a file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "sections",
				Aliases:     []string{"s"},
				Usage:       "list every section of the record table",
				Destination: &showSections,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("inspect: exactly one FILE is required", 2)
			}
			path := cmd.Args().First()

			f, err := pdb.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			return inspect(os.Stdout, f, showSections)
		},
	}
}

func inspect(w io.Writer, f *pdb.File, showSections bool) error {
	_, _ = fmt.Fprintf(w, "kind:     %s\n", f.Kind)
	if f.Header != nil {
		_, _ = fmt.Fprintf(w, "name:     %q\n", f.Header.DatabaseName())
		_, _ = fmt.Fprintf(w, "type:     %q\n", f.Header.Signature[:])
	}
	_, _ = fmt.Fprintf(w, "sections: %d\n", f.NumSections())
	_, _ = fmt.Fprintf(w, "size:     %d bytes\n", len(f.Data))

	if showSections {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "INDEX\tOFFSET\tLENGTH\tMAGIC")
		for _, s := range f.Sections() {
			b, _ := f.LoadSection(s.Index)
			_, _ = fmt.Fprintf(tw, "%d\t%#x\t%d\t%s\n", s.Index, s.Offset, s.Length, magic(b))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	c, err := mobi.Classify(f)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)
	if title := mobi.Title(f, c); title != "" {
		_, _ = fmt.Fprintf(w, "title:      %s\n", title)
	}
	printClassification(w, c)

	if i, ok := c.KF8Header(); ok {
		kf8, err := mobi.ClassifyAt(f, i)
		if err != nil {
			return fmt.Errorf("kf8 header at section %d: %w", i, err)
		}
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "kf8 half:")
		printClassification(w, kf8)
	}
	return nil
}

// magic renders the leading bytes of a section when they look like a tag.
func magic(b []byte) string {
	if len(b) > 8 {
		b = b[:8]
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return ""
		}
	}
	return strconv.Quote(string(b))
}
