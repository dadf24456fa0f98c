package mobi

import (
	"bytes"
	"fmt"

	"github.com/samcharles93/mobisniff/pkg/pdb"
)

// NoBoundary is the BoundarySection of a file that is not a combo file.
const NoBoundary = -1

// Classification is what the sniffer knows about a container. It is a plain
// comparable value; classifying the same bytes twice yields equal values.
type Classification struct {
	Kind          pdb.Kind `json:"kind"`
	HeaderIndex   int      `json:"header_index"`
	HeaderVersion uint32   `json:"header_version"`
	CryptoType    uint16   `json:"crypto_type"`
	Codepage      uint32   `json:"codepage"`

	Encrypted     bool `json:"encrypted"`
	PrintReplica  bool `json:"print_replica"`
	StandaloneKF8 bool `json:"standalone_kf8"`
	Combo         bool `json:"combo"`

	// BoundarySection is the index of the first BOUNDARY marker section, or
	// NoBoundary. The KF8 header of a combo file follows it.
	BoundarySection int `json:"boundary_section"`
}

// Classify classifies a container whose book header is in section 0.
func Classify(f *pdb.File) (Classification, error) {
	return ClassifyAt(f, 0)
}

// ClassifyAt classifies a container using the book header stored in section
// headerIndex. A header outside section 0 marks standalone KF8 content.
func ClassifyAt(f *pdb.File, headerIndex int) (Classification, error) {
	c := Classification{
		Kind:            f.Kind,
		HeaderIndex:     headerIndex,
		BoundarySection: NoBoundary,
	}

	switch f.Kind {
	case pdb.KindTopaz:
		return Classification{}, &UnsupportedFormatError{Format: "Topaz"}
	case pdb.KindMobi, pdb.KindTextRead:
	default:
		var sig []byte
		if f.Header != nil {
			sig = f.Header.Signature[:]
		}
		return Classification{}, fmt.Errorf("%w: signature %q", ErrUnrecognizedFormat, sig)
	}

	sect, err := loadHeaderSection(f, headerIndex)
	if err != nil {
		return Classification{}, err
	}

	if f.Kind == pdb.KindTextRead {
		h, ok := decodeTextHeader(sect)
		if !ok {
			return Classification{}, fmt.Errorf("%w: section %d too short for a PalmDOC header (%d bytes)",
				pdb.ErrMalformedContainer, headerIndex, len(sect))
		}
		c.CryptoType = h.cryptoType
		c.Encrypted = h.cryptoType != 0
		return c, nil
	}

	h, ok := decodeMobiHeader(sect)
	if !ok {
		return Classification{}, fmt.Errorf("%w: section %d too short for a MOBI header (%d bytes)",
			pdb.ErrMalformedContainer, headerIndex, len(sect))
	}
	c.HeaderVersion = h.version
	c.CryptoType = h.cryptoType
	c.Codepage = h.codepage
	c.Encrypted = h.cryptoType != 0

	text, err := loadHeaderSection(f, headerIndex+1)
	if err != nil {
		return Classification{}, err
	}
	if len(text) < len(markerPrintReplica) {
		return Classification{}, fmt.Errorf("%w: section %d too short for a content probe (%d bytes)",
			pdb.ErrMalformedContainer, headerIndex+1, len(text))
	}
	c.PrintReplica = bytes.Equal(text[:len(markerPrintReplica)], markerPrintReplica)

	c.StandaloneKF8 = headerIndex != 0 || h.version == 8

	c.BoundarySection = findBoundary(f)
	c.Combo = c.BoundarySection != NoBoundary

	return c, nil
}

// findBoundary returns the first section holding exactly the BOUNDARY marker.
// Well-formed combo files carry one; if several exist the first one wins.
func findBoundary(f *pdb.File) int {
	for i := 0; i < f.NumSections(); i++ {
		if int(f.Offsets[i+1]-f.Offsets[i]) != len(markerBoundary) {
			continue
		}
		data, err := f.LoadSection(i)
		if err != nil {
			return NoBoundary
		}
		if bytes.Equal(data, markerBoundary) {
			return i
		}
	}
	return NoBoundary
}

// ClassifyFile opens path, classifies it and releases the file.
func ClassifyFile(path string) (Classification, error) {
	f, err := pdb.Open(path)
	if err != nil {
		return Classification{}, err
	}
	defer func() { _ = f.Close() }()
	return Classify(f)
}

// KF8Header returns the section index of the KF8 book header of a combo file.
func (c Classification) KF8Header() (int, bool) {
	if !c.Combo {
		return 0, false
	}
	return c.BoundarySection + 1, true
}
