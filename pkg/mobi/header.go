package mobi

import (
	"encoding/binary"
	"fmt"

	"github.com/samcharles93/mobisniff/pkg/pdb"
)

// Offsets into the header section. The first 16 bytes are the PalmDOC record
// header, the MOBI header starts right after it.
const (
	offRecordCount = 0x08
	offCryptoType  = 0x0C
	offMobiFields  = 20
	offFullName    = 0x54
	offFullNameLen = 0x58

	minTextHeaderLen = offCryptoType + 2
	minMobiHeaderLen = offMobiFields + 5*4
	minTitleFieldLen = offFullNameLen + 4
)

// Text encodings stored in the codepage field.
const (
	CodepageWindows1252 uint32 = 1252
	CodepageUTF8        uint32 = 65001
)

var (
	markerPrintReplica = []byte("%MOP")
	markerBoundary     = []byte("BOUNDARY")
)

type bookHeader struct {
	records    uint16
	length     uint32
	mobiType   uint32
	codepage   uint32
	uniqueID   uint32
	version    uint32
	cryptoType uint16
}

func decodeTextHeader(b []byte) (bookHeader, bool) {
	var h bookHeader
	if len(b) < minTextHeaderLen {
		return h, false
	}
	h.records = binary.BigEndian.Uint16(b[offRecordCount:])
	h.cryptoType = binary.BigEndian.Uint16(b[offCryptoType:])
	return h, true
}

func decodeMobiHeader(b []byte) (bookHeader, bool) {
	h, ok := decodeTextHeader(b)
	if !ok || len(b) < minMobiHeaderLen {
		return h, false
	}
	f := b[offMobiFields:]
	h.length = binary.BigEndian.Uint32(f[0:])
	h.mobiType = binary.BigEndian.Uint32(f[4:])
	h.codepage = binary.BigEndian.Uint32(f[8:])
	h.uniqueID = binary.BigEndian.Uint32(f[12:])
	h.version = binary.BigEndian.Uint32(f[16:])
	return h, true
}

// loadHeaderSection fetches a section the classifier needs. A missing section
// is a property of the file, so it is reported as a malformed container rather
// than an index error.
func loadHeaderSection(f *pdb.File, i int) ([]byte, error) {
	if i < 0 || i >= f.NumSections() {
		return nil, fmt.Errorf("%w: missing section %d (file has %d)",
			pdb.ErrMalformedContainer, i, f.NumSections())
	}
	return f.LoadSection(i)
}
