package mobi

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/samcharles93/mobisniff/pkg/pdb"
)

// Title returns the book title. MOBI books store a full name in the book
// header; legacy text books only have the database name. A title that is
// missing or points outside the header section yields "".
func Title(f *pdb.File, c Classification) string {
	switch c.Kind {
	case pdb.KindMobi:
		sect, err := f.LoadSection(c.HeaderIndex)
		if err != nil || len(sect) < minTitleFieldLen {
			return dbName(f)
		}
		off := uint64(binary.BigEndian.Uint32(sect[offFullName:]))
		n := uint64(binary.BigEndian.Uint32(sect[offFullNameLen:]))
		if n == 0 || off+n > uint64(len(sect)) {
			return dbName(f)
		}
		return decodeText(sect[off:off+n], c.Codepage)
	case pdb.KindTextRead:
		return dbName(f)
	default:
		return ""
	}
}

func dbName(f *pdb.File) string {
	if f.Header == nil {
		return ""
	}
	// kindlegen replaces spaces in the database name with underscores
	return strings.ReplaceAll(decodeText(f.Header.DatabaseName(), CodepageWindows1252), "_", " ")
}

func decodeText(b []byte, codepage uint32) string {
	if codepage == CodepageUTF8 {
		if utf8.Valid(b) {
			return string(b)
		}
		return strings.ToValidUTF8(string(b), "�")
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
