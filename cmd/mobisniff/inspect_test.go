package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samcharles93/mobisniff/internal/pdbtest"
	"github.com/samcharles93/mobisniff/pkg/pdb"
)

func TestInspectCombo(t *testing.T) {
	t.Parallel()

	c := pdbtest.Mobi(
		pdbtest.Header{Version: 6, Codepage: 65001, Title: "Combo Book"},
		[]byte("BOUNDARY"),
		pdbtest.Header{Version: 8, Codepage: 65001, Title: "Combo Book"}.Bytes(),
		[]byte("<html>kf8</html>"),
	)
	f, err := pdb.Parse(c.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var out bytes.Buffer
	if err := inspect(&out, f, true); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"kind:     BOOKMOBI",
		"sections: 5",
		`"BOUNDARY"`,
		"title:      Combo Book",
		"combo:      true (boundary at section 2)",
		"kf8 half:",
		"header:     section 3, version 8, codepage 65001",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, got)
		}
	}
}

func TestMagic(t *testing.T) {
	t.Parallel()

	if got := magic([]byte("%MOP\x00\x01")); got != "" {
		t.Fatalf("binary section rendered as %q", got)
	}
	if got := magic([]byte("BOUNDARY")); got != `"BOUNDARY"` {
		t.Fatalf("unexpected magic %q", got)
	}
}
