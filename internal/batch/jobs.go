package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samcharles93/mobisniff/internal/logger"
	"github.com/samcharles93/mobisniff/internal/unpack"
	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/samcharles93/mobisniff/pkg/pdb"
)

// Classify is a Job that only sniffs the book.
func Classify(ctx context.Context, path string) Result {
	r := Result{Path: path}
	if err := ctx.Err(); err != nil {
		r.Outcome, r.Message = Unknown, err.Error()
		return r
	}
	f, err := pdb.Open(path)
	if err != nil {
		r.Outcome, r.Message = classifyOutcome(err), err.Error()
		return r
	}
	defer func() { _ = f.Close() }()

	c, err := mobi.Classify(f)
	if err != nil {
		r.Outcome, r.Message = classifyOutcome(err), err.Error()
		return r
	}
	r.Class = &c
	r.Title = mobi.Title(f, c)
	if c.Encrypted {
		r.Outcome = Encrypted
	}
	return r
}

func classifyOutcome(err error) Outcome {
	if errors.Is(err, fs.ErrNotExist) {
		return NoFormat
	}
	return Unknown
}

// Extractor turns every book into its Target format and copies the result
// into OutDir as <base><ext>. Existing outputs are never overwritten.
type Extractor struct {
	Target   mobi.Target
	OutDir   string
	Opts     unpack.Options
	Unpacker unpack.Unpacker
	Log      logger.Logger
	// WorkDir holds the per-book unpack directories; empty means os.TempDir.
	WorkDir string
}

// Job extracts one book.
func (e *Extractor) Job(ctx context.Context, path string) Result {
	log := e.Log
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("book", path, "target", e.Target)

	r := Result{Path: path}
	if err := ctx.Err(); err != nil {
		r.Outcome, r.Message = Unknown, err.Error()
		return r
	}

	p, err := unpack.NewProcessor(path, e.Opts, e.Unpacker, nil, log)
	if err != nil {
		r.Outcome = classifyOutcome(err)
		r.Message = fmt.Sprintf("%s might not be a valid mobi/kindlebook: %v", filepath.Base(path), err)
		log.Warn("skipping book", "error", err)
		return r
	}
	r.Class = &p.Class
	r.Title = p.Title

	switch {
	case p.Class.Encrypted:
		r.Outcome, r.Message = Encrypted, "book has DRM"
		return r
	case !p.Class.Has(e.Target):
		r.Outcome = NotApplicable
		r.Message = fmt.Sprintf("not a %s", e.Target.KindName())
		return r
	}

	dest := filepath.Join(e.OutDir, unpack.BaseName(path)+e.Target.Extension())
	if _, err := os.Stat(dest); err == nil {
		r.Outcome, r.Output = Exists, dest
		r.Message = fmt.Sprintf("%s already exists, not overwriting", filepath.Base(dest))
		return r
	}

	work, err := os.MkdirTemp(e.WorkDir, "mobisniff-*")
	if err != nil {
		r.Outcome, r.Message = Unknown, err.Error()
		return r
	}
	defer func() { _ = os.RemoveAll(work) }()

	out, err := p.Extract(ctx, e.Target, work)
	if err != nil {
		r.Outcome, r.Message = Unknown, err.Error()
		log.Error("extract failed", "error", err)
		return r
	}
	if err := copyNew(out, dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			r.Outcome, r.Output = Exists, dest
			r.Message = fmt.Sprintf("%s already exists, not overwriting", filepath.Base(dest))
			return r
		}
		r.Outcome, r.Message = Unknown, err.Error()
		return r
	}
	r.Outcome, r.Output = Success, dest
	log.Info("extracted", "output", dest)
	return r
}

// copyNew copies src to dst, failing with fs.ErrExist if dst appears meanwhile.
func copyNew(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
