package mobi

import (
	"testing"

	"github.com/samcharles93/mobisniff/internal/pdbtest"
	"github.com/samcharles93/mobisniff/pkg/pdb"
)

func TestTitleDecodesByCodepage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		h    pdbtest.Header
		want string
	}{
		{"utf8", pdbtest.Header{Version: 6, Codepage: CodepageUTF8, Title: "Café Crème"}, "Café Crème"},
		{"cp1252", pdbtest.Header{Version: 6, Codepage: CodepageWindows1252, Title: "Caf\xe9 \x93quoted\x94"}, "Café “quoted”"},
	}
	for _, tt := range tests {
		f := parse(t, pdbtest.Mobi(tt.h))
		c, err := Classify(f)
		if err != nil {
			t.Fatalf("%s: classify: %v", tt.name, err)
		}
		if got := Title(f, c); got != tt.want {
			t.Fatalf("%s: title got %q want %q", tt.name, got, tt.want)
		}
	}
}

func TestTitleFallsBackToDatabaseName(t *testing.T) {
	t.Parallel()

	f := parse(t, pdbtest.Mobi(pdbtest.Header{Version: 6}))
	c, err := Classify(f)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got := Title(f, c); got != "Test Book" {
		t.Fatalf("title got %q", got)
	}

	text := parse(t, pdbtest.Container{
		Name:      "Old_Book",
		Signature: pdb.SignatureTextRead,
		Sections:  [][]byte{pdbtest.TextHeader(0)},
	})
	tc, err := Classify(text)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got := Title(text, tc); got != "Old Book" {
		t.Fatalf("legacy title got %q", got)
	}
}
