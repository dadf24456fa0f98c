package unpack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samcharles93/mobisniff/internal/logger"
)

// Unpacker expands a Kindle book into its resources. For KF8 content it also
// rebuilds the ePub under KF8Dir.
type Unpacker interface {
	Unpack(ctx context.Context, path, outDir string, opts Options) error
}

// Splitter separates a combo file into a MOBI 7 only and a KF8 only container.
type Splitter interface {
	Split(ctx context.Context, path string) (mobi7, kf8 []byte, err error)
}

// DefaultCommand is the unpack engine executable looked up on PATH.
const DefaultCommand = "kindleunpack"

// CommandEngine runs an external KindleUnpack installation. It serves as both
// Unpacker and Splitter.
type CommandEngine struct {
	// Command is the executable followed by any fixed leading arguments,
	// e.g. ["python3", "/opt/kindleunpack/lib/kindleunpack.py"].
	Command []string
	Log     logger.Logger
}

// NewCommandEngine splits a command line such as "python3 kindleunpack.py".
func NewCommandEngine(command string, log logger.Logger) *CommandEngine {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{DefaultCommand}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &CommandEngine{Command: fields, Log: log}
}

func (e *CommandEngine) unpackArgs(path, outDir string, opts Options) []string {
	args := append([]string{}, e.Command[1:]...)
	if opts.EpubVersion != "" {
		args = append(args, "--epub_version="+string(opts.EpubVersion))
	}
	if opts.UseHDImages {
		args = append(args, "-i")
	}
	return append(args, path, outDir)
}

func (e *CommandEngine) Unpack(ctx context.Context, path, outDir string, opts Options) error {
	return e.run(ctx, path, e.unpackArgs(path, outDir, opts))
}

// Split runs the engine in split mode and reads back the two halves it
// writes as mobi7-<base>.mobi and mobi8-<base>.azw3.
func (e *CommandEngine) Split(ctx context.Context, path string) ([]byte, []byte, error) {
	work, err := os.MkdirTemp("", "mobisniff-split-*")
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = os.RemoveAll(work) }()

	args := append(append([]string{}, e.Command[1:]...), "-s", path, work)
	if err := e.run(ctx, path, args); err != nil {
		return nil, nil, err
	}

	base := BaseName(path)
	mobi7, err := os.ReadFile(filepath.Join(work, "mobi7-"+base+".mobi"))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOutputMissing, err)
	}
	kf8, err := os.ReadFile(filepath.Join(work, "mobi8-"+base+".azw3"))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOutputMissing, err)
	}
	return mobi7, kf8, nil
}

func (e *CommandEngine) run(ctx context.Context, path string, args []string) error {
	if len(e.Command) == 0 {
		return errors.New("unpack: no command configured")
	}
	e.Log.Debug("running unpack engine", "command", e.Command[0], "args", args)

	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("unpack engine on %s: %w: %s", path, err, lastLines(out.String(), 5))
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
