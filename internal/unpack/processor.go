package unpack

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samcharles93/mobisniff/internal/logger"
	"github.com/samcharles93/mobisniff/pkg/mobi"
	"github.com/samcharles93/mobisniff/pkg/pdb"
)

var (
	ErrEncrypted     = errors.New("book is encrypted")
	ErrNotApplicable = errors.New("operation does not apply to this book")
	ErrOutputMissing = errors.New("expected output not found")
	ErrNoEngine      = errors.New("no engine configured")
)

// Processor runs the external engines for one classified book.
type Processor struct {
	Path     string
	Class    mobi.Classification
	Title    string
	Opts     Options
	Unpacker Unpacker
	Splitter Splitter
	Log      logger.Logger
}

// NewProcessor classifies path and returns a processor for it. Classification
// errors are returned unchanged so callers can tell formats apart.
func NewProcessor(path string, opts Options, u Unpacker, s Splitter, log logger.Logger) (*Processor, error) {
	f, err := pdb.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	c, err := mobi.Classify(f)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Processor{
		Path:     path,
		Class:    c,
		Title:    mobi.Title(f, c),
		Opts:     opts,
		Unpacker: u,
		Splitter: s,
		Log:      log.With("book", path),
	}, nil
}

func (p *Processor) require(op mobi.Operation) error {
	for _, a := range p.Class.Operations() {
		if a.Op != op {
			continue
		}
		if !a.Enabled {
			return fmt.Errorf("%v %s: %w", op, p.Path, ErrEncrypted)
		}
		return nil
	}
	return fmt.Errorf("%v %s: %w", op, p.Path, ErrNotApplicable)
}

func (p *Processor) unpack(ctx context.Context, outDir string) error {
	if p.Unpacker == nil {
		return fmt.Errorf("unpack %s: %w", p.Path, ErrNoEngine)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	p.Log.Info("unpacking", "out", outDir, "epub_version", p.Opts.EpubVersion, "hd_images", p.Opts.UseHDImages)
	return p.Unpacker.Unpack(ctx, p.Path, outDir, p.Opts)
}

// UnpackMOBI expands the book into outDir.
func (p *Processor) UnpackMOBI(ctx context.Context, outDir string) error {
	if err := p.require(mobi.OpUnpack); err != nil {
		return err
	}
	return p.unpack(ctx, outDir)
}

// UnpackEPUB unpacks the book and returns the path of the rebuilt ePub.
func (p *Processor) UnpackEPUB(ctx context.Context, outDir string) (string, error) {
	if err := p.require(mobi.OpConvertEPUB); err != nil {
		return "", err
	}
	if err := p.unpack(ctx, outDir); err != nil {
		return "", err
	}
	epub := EPUBPath(outDir, p.Path)
	if _, err := os.Stat(epub); err != nil {
		return "", fmt.Errorf("%w: unpacked epub %s", ErrOutputMissing, epub)
	}
	return epub, nil
}

// ExtractPDF unpacks a Print Replica book and returns the embedded PDF.
func (p *Processor) ExtractPDF(ctx context.Context, outDir string) (string, error) {
	if err := p.require(mobi.OpExtractPDF); err != nil {
		return "", err
	}
	if err := p.unpack(ctx, outDir); err != nil {
		return "", err
	}
	return FindPDF(outDir)
}

// Extract dispatches to the extractor for target.
func (p *Processor) Extract(ctx context.Context, target mobi.Target, outDir string) (string, error) {
	switch target {
	case mobi.TargetEPUB:
		return p.UnpackEPUB(ctx, outDir)
	case mobi.TargetPDF:
		return p.ExtractPDF(ctx, outDir)
	default:
		return "", fmt.Errorf("extract %s: unknown target %v", p.Path, target)
	}
}

// WriteSplitCombo writes the MOBI 7 and KF8 halves of a combo file to outDir.
func (p *Processor) WriteSplitCombo(ctx context.Context, outDir string) (mobiPath, kf8Path string, err error) {
	if err := p.require(mobi.OpSplitCombo); err != nil {
		return "", "", err
	}
	if p.Splitter == nil {
		return "", "", fmt.Errorf("split %s: %w", p.Path, ErrNoEngine)
	}
	mobi7, kf8, err := p.Splitter.Split(ctx, p.Path)
	if err != nil {
		return "", "", fmt.Errorf("split %s: %w", p.Path, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", "", err
	}
	mobiPath, kf8Path = SplitFileNames(p.Path, outDir)
	if err := os.WriteFile(mobiPath, mobi7, 0o644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(kf8Path, kf8, 0o644); err != nil {
		return "", "", err
	}
	p.Log.Info("split combo file", "mobi", mobiPath, "kf8", kf8Path)
	return mobiPath, kf8Path, nil
}
