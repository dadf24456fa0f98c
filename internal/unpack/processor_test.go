package unpack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/samcharles93/mobisniff/internal/pdbtest"
	"github.com/samcharles93/mobisniff/pkg/mobi"
)

type fakeUnpacker struct {
	calls int
	opts  Options
	// files are written relative to outDir
	files []string
	err   error
}

func (f *fakeUnpacker) Unpack(ctx context.Context, path, outDir string, opts Options) error {
	f.calls++
	f.opts = opts
	if f.err != nil {
		return f.err
	}
	for _, name := range f.files {
		p := filepath.Join(outDir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, []byte(name), 0o644); err != nil {
			return err
		}
	}
	return nil
}

type fakeSplitter struct{}

func (fakeSplitter) Split(ctx context.Context, path string) ([]byte, []byte, error) {
	return []byte("mobi7"), []byte("kf8"), nil
}

func newProcessor(t *testing.T, c pdbtest.Container, name string, u Unpacker) *Processor {
	t.Helper()
	path := c.WriteFile(t, name)
	p, err := NewProcessor(path, Options{EpubVersion: Epub3, UseHDImages: true}, u, fakeSplitter{}, nil)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	return p
}

func TestUnpackEPUBFindsRebuiltEpub(t *testing.T) {
	t.Parallel()

	u := &fakeUnpacker{files: []string{"mobi8/Dune.epub"}}
	p := newProcessor(t, pdbtest.Mobi(pdbtest.Header{Version: 8}), "Dune.azw3", u)

	out := t.TempDir()
	got, err := p.UnpackEPUB(context.Background(), out)
	if err != nil {
		t.Fatalf("unpack epub: %v", err)
	}
	if want := filepath.Join(out, "mobi8", "Dune.epub"); got != want {
		t.Fatalf("epub path: got %s want %s", got, want)
	}
	if u.opts.EpubVersion != Epub3 || !u.opts.UseHDImages {
		t.Fatalf("options not passed through: %+v", u.opts)
	}
}

func TestUnpackEPUBMissingOutput(t *testing.T) {
	t.Parallel()

	p := newProcessor(t, pdbtest.Mobi(pdbtest.Header{Version: 8}), "Dune.azw3", &fakeUnpacker{})
	if _, err := p.UnpackEPUB(context.Background(), t.TempDir()); !errors.Is(err, ErrOutputMissing) {
		t.Fatalf("expected ErrOutputMissing, got %v", err)
	}
}

func TestRefusals(t *testing.T) {
	t.Parallel()

	u := &fakeUnpacker{}
	plain := newProcessor(t, pdbtest.Mobi(pdbtest.Header{Version: 6}), "plain.mobi", u)
	locked := newProcessor(t, pdbtest.Mobi(pdbtest.Header{Version: 8, CryptoType: 2}), "locked.azw3", u)
	ctx := context.Background()
	out := t.TempDir()

	if _, err := plain.UnpackEPUB(ctx, out); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("plain mobi epub: expected ErrNotApplicable, got %v", err)
	}
	if _, err := plain.ExtractPDF(ctx, out); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("plain mobi pdf: expected ErrNotApplicable, got %v", err)
	}
	if _, _, err := plain.WriteSplitCombo(ctx, out); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("plain mobi split: expected ErrNotApplicable, got %v", err)
	}
	if err := locked.UnpackMOBI(ctx, out); !errors.Is(err, ErrEncrypted) {
		t.Fatalf("locked unpack: expected ErrEncrypted, got %v", err)
	}
	if _, err := locked.UnpackEPUB(ctx, out); !errors.Is(err, ErrEncrypted) {
		t.Fatalf("locked epub: expected ErrEncrypted, got %v", err)
	}
	if u.calls != 0 {
		t.Fatalf("engine must not run for refused operations, ran %d times", u.calls)
	}
}

func TestExtractPDF(t *testing.T) {
	t.Parallel()

	replica := pdbtest.Container{
		Name:      "Atlas",
		Signature: "BOOKMOBI",
		Sections:  [][]byte{pdbtest.Header{Version: 6}.Bytes(), []byte("%MOP....")},
	}
	u := &fakeUnpacker{files: []string{"Atlas.html", "b.PDF", "c.pdf"}}
	p := newProcessor(t, replica, "Atlas.azw4", u)

	out := t.TempDir()
	got, err := p.Extract(context.Background(), mobi.TargetPDF, out)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != filepath.Join(out, "b.PDF") {
		t.Fatalf("pdf path: got %s", got)
	}
}

func TestWriteSplitCombo(t *testing.T) {
	t.Parallel()

	combo := pdbtest.Mobi(pdbtest.Header{Version: 6}, []byte("BOUNDARY"), pdbtest.Header{Version: 8}.Bytes())
	p := newProcessor(t, combo, "Both.mobi", &fakeUnpacker{})

	out := filepath.Join(t.TempDir(), "split")
	mobiPath, kf8Path, err := p.WriteSplitCombo(context.Background(), out)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if filepath.Base(mobiPath) != "MOBI-Both.mobi" || filepath.Base(kf8Path) != "KF8-Both.azw3" {
		t.Fatalf("unexpected names %s %s", mobiPath, kf8Path)
	}
	data, err := os.ReadFile(kf8Path)
	if err != nil || string(data) != "kf8" {
		t.Fatalf("kf8 half: %q %v", data, err)
	}
}

func TestCommandEngineArgs(t *testing.T) {
	t.Parallel()

	u := NewCommandEngine("python3 /opt/ku/kindleunpack.py", nil)
	got := u.unpackArgs("in.azw3", "out", Options{EpubVersion: EpubAuto, UseHDImages: true})
	want := []string{"/opt/ku/kindleunpack.py", "--epub_version=A", "-i", "in.azw3", "out"}
	if u.Command[0] != "python3" || !slices.Equal(got, want) {
		t.Fatalf("args: got %v %v", u.Command[0], got)
	}

	if d := NewCommandEngine("  ", nil); d.Command[0] != DefaultCommand {
		t.Fatalf("default command: got %v", d.Command)
	}
}

func TestParseEpubVersion(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]EpubVersion{"": Epub2, "ePub3": Epub3, "A": EpubAuto, "auto": EpubAuto} {
		got, err := ParseEpubVersion(in)
		if err != nil || got != want {
			t.Fatalf("ParseEpubVersion(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseEpubVersion("4"); err == nil {
		t.Fatalf("expected error for epub 4")
	}
}

func TestCommandEngineMissingExecutable(t *testing.T) {
	t.Parallel()

	e := NewCommandEngine(filepath.Join(t.TempDir(), "no-such-kindleunpack"), nil)
	if err := e.Unpack(context.Background(), "in.azw3", t.TempDir(), DefaultOptions()); err == nil {
		t.Fatalf("expected error running a missing engine")
	}
	if _, _, err := e.Split(context.Background(), "in.azw3"); err == nil {
		t.Fatalf("expected error splitting with a missing engine")
	}
}
