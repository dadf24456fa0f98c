// Package pdbtest builds small Palm database containers for tests.
package pdbtest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const (
	palmHeaderSize = 78
	recordInfoSize = 8
	// gap written after the record table, as kindlegen does.
	tableGap = 2

	// MobiHeaderLen is the MOBI header length written by Header.
	MobiHeaderLen = 0xE8
)

// Container describes a file to build.
type Container struct {
	Name      string
	Signature string
	Sections  [][]byte
}

// Bytes serialises the container.
func (c Container) Bytes() []byte {
	n := len(c.Sections)
	start := palmHeaderSize + n*recordInfoSize + tableGap
	size := start
	for _, s := range c.Sections {
		size += len(s)
	}

	out := make([]byte, size)
	copy(out[:32], c.Name)
	copy(out[0x3C:0x44], c.Signature)
	binary.BigEndian.PutUint16(out[76:], uint16(n))

	off := start
	for i, s := range c.Sections {
		rec := out[palmHeaderSize+i*recordInfoSize:]
		binary.BigEndian.PutUint32(rec, uint32(off))
		binary.BigEndian.PutUint32(rec[4:], uint32(2*i))
		copy(out[off:], s)
		off += len(s)
	}
	return out
}

// WriteFile writes the container into a temp dir and returns its path.
func (c Container) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, c.Bytes(), 0o644); err != nil {
		t.Fatalf("write container: %v", err)
	}
	return path
}

// Header describes the book header stored in section 0.
type Header struct {
	CryptoType uint16
	Version    uint32
	Codepage   uint32
	Records    uint16
	Title      string
}

// Bytes serialises a PalmDOC record header followed by a MOBI header and the
// full name.
func (h Header) Bytes() []byte {
	titleOff := 16 + MobiHeaderLen
	out := make([]byte, titleOff+len(h.Title)+2)
	binary.BigEndian.PutUint16(out[0:], 1)
	binary.BigEndian.PutUint16(out[0x08:], h.Records)
	binary.BigEndian.PutUint16(out[0x0A:], 4096)
	binary.BigEndian.PutUint16(out[0x0C:], h.CryptoType)
	copy(out[16:20], "MOBI")
	binary.BigEndian.PutUint32(out[20:], MobiHeaderLen)
	binary.BigEndian.PutUint32(out[24:], 2)
	binary.BigEndian.PutUint32(out[28:], h.Codepage)
	binary.BigEndian.PutUint32(out[32:], 0xC0FFEE)
	binary.BigEndian.PutUint32(out[36:], h.Version)
	binary.BigEndian.PutUint32(out[0x54:], uint32(titleOff))
	binary.BigEndian.PutUint32(out[0x58:], uint32(len(h.Title)))
	copy(out[titleOff:], h.Title)
	return out
}

// TextHeader serialises a bare PalmDOC record header as found in TEXtREAd files.
func TextHeader(cryptoType uint16) []byte {
	out := make([]byte, 16)
	binary.BigEndian.PutUint16(out[0:], 1)
	binary.BigEndian.PutUint16(out[0x08:], 1)
	binary.BigEndian.PutUint16(out[0x0C:], cryptoType)
	return out
}

// Mobi returns a BOOKMOBI container whose section 0 is h, followed by a text
// record and the given extra sections.
func Mobi(h Header, extra ...[]byte) Container {
	sections := [][]byte{h.Bytes(), []byte("<html><body>text record</body></html>")}
	sections = append(sections, extra...)
	return Container{Name: "Test_Book", Signature: "BOOKMOBI", Sections: sections}
}
