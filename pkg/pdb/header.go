package pdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// PalmHeaderSize is the fixed leading region every container carries.
	PalmHeaderSize = 78
	// RecordInfoSize is the size of one entry of the record table that follows
	// the Palm header: a u32 offset, one attribute byte and a 3-byte unique id.
	RecordInfoSize = 8

	nameSize        = 32
	signatureOffset = 0x3C
	signatureSize   = 8
	numSectionsOff  = 76
)

// Known container signatures. The signature is the type and creator fields of
// the Palm header taken together.
const (
	SignatureMobi     = "BOOKMOBI"
	SignatureTextRead = "TEXtREAd"
	prefixTopaz       = "TPZ"
)

// Kind identifies the top-level container layout.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindTextRead
	KindMobi
	KindTopaz
)

func (k Kind) String() string {
	switch k {
	case KindTextRead:
		return "TEXtREAd"
	case KindMobi:
		return "BOOKMOBI"
	case KindTopaz:
		return "Topaz"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "TEXtREAd":
		*k = KindTextRead
	case "BOOKMOBI":
		*k = KindMobi
	case "Topaz":
		*k = KindTopaz
	case "unknown":
		*k = KindUnknown
	default:
		return fmt.Errorf("pdb: unknown container kind %q", b)
	}
	return nil
}

// Header is the decoded Palm header.
type Header struct {
	Name        [nameSize]byte
	Signature   [signatureSize]byte
	NumSections uint16
}

func decodeHeader(b []byte) (Header, bool) {
	var h Header
	if len(b) < PalmHeaderSize {
		return h, false
	}
	copy(h.Name[:], b[:nameSize])
	copy(h.Signature[:], b[signatureOffset:signatureOffset+signatureSize])
	h.NumSections = binary.BigEndian.Uint16(b[numSectionsOff:])
	return h, true
}

// Kind classifies the header signature.
func (h *Header) Kind() Kind {
	switch string(h.Signature[:]) {
	case SignatureMobi:
		return KindMobi
	case SignatureTextRead:
		return KindTextRead
	default:
		return KindUnknown
	}
}

// DatabaseName returns the raw database name up to the first NUL.
func (h *Header) DatabaseName() []byte {
	name := h.Name[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return name
}

func isTopaz(b []byte) bool {
	return len(b) >= len(prefixTopaz) && string(b[:len(prefixTopaz)]) == prefixTopaz
}
