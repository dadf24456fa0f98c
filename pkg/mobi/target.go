package mobi

import (
	"fmt"
	"strings"
)

// Target is a format that can be derived from a Kindle book.
type Target uint8

const (
	// TargetEPUB recovers the original ePub from KF8 content (AZW3).
	TargetEPUB Target = iota + 1
	// TargetPDF extracts the PDF payload of a Print Replica book (AZW4).
	TargetPDF
)

func (t Target) String() string {
	switch t {
	case TargetEPUB:
		return "epub"
	case TargetPDF:
		return "pdf"
	default:
		return fmt.Sprintf("target(%d)", uint8(t))
	}
}

// SourceFormat is the library format a target is extracted from.
func (t Target) SourceFormat() string {
	switch t {
	case TargetEPUB:
		return "AZW3"
	case TargetPDF:
		return "AZW4"
	default:
		return ""
	}
}

// Extension is the file extension of the extracted output, with the dot.
func (t Target) Extension() string {
	switch t {
	case TargetEPUB:
		return ".epub"
	case TargetPDF:
		return ".pdf"
	default:
		return ""
	}
}

// KindName describes the kind of book a target needs, for messages.
func (t Target) KindName() string {
	switch t {
	case TargetEPUB:
		return "KF8 book"
	case TargetPDF:
		return "Print Replica book"
	default:
		return "book"
	}
}

// ParseTarget accepts a target name or the source format it comes from.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "epub", "azw3", "kf8":
		return TargetEPUB, nil
	case "pdf", "azw4", "print-replica":
		return TargetPDF, nil
	default:
		return 0, fmt.Errorf("unknown target %q (want epub or pdf)", s)
	}
}

func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Target) UnmarshalText(b []byte) error {
	v, err := ParseTarget(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Has reports whether the book carries the content t is extracted from.
// Encryption is not considered.
func (c Classification) Has(t Target) bool {
	switch t {
	case TargetEPUB:
		return c.StandaloneKF8 || c.Combo
	case TargetPDF:
		return c.PrintReplica
	default:
		return false
	}
}

// Operation is something that can be done with a classified book.
type Operation uint8

const (
	OpUnpack Operation = iota + 1
	OpExtractPDF
	OpSplitCombo
	OpConvertEPUB
)

func (o Operation) String() string {
	switch o {
	case OpUnpack:
		return "unpack"
	case OpExtractPDF:
		return "extract-pdf"
	case OpSplitCombo:
		return "split"
	case OpConvertEPUB:
		return "kf8-to-epub"
	default:
		return fmt.Sprintf("operation(%d)", uint8(o))
	}
}

func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Operation) UnmarshalText(b []byte) error {
	for _, op := range []Operation{OpUnpack, OpExtractPDF, OpSplitCombo, OpConvertEPUB} {
		if op.String() == string(b) {
			*o = op
			return nil
		}
	}
	return fmt.Errorf("unknown operation %q", b)
}

// Availability is an operation offered for a book. Disabled operations are
// listed with the reason so front ends can grey them out.
type Availability struct {
	Op      Operation `json:"op"`
	Enabled bool      `json:"enabled"`
	Reason  string    `json:"reason,omitempty"`
}

const reasonEncrypted = "book has DRM"

// Operations lists what can be offered for the book, in menu order.
func (c Classification) Operations() []Availability {
	ops := []Availability{{Op: OpUnpack, Enabled: !c.Encrypted}}
	if c.Encrypted {
		ops[0].Reason = reasonEncrypted
	}
	if c.PrintReplica {
		ops = append(ops, Availability{Op: OpExtractPDF, Enabled: true})
	}
	if c.Combo {
		ops = append(ops, Availability{Op: OpSplitCombo, Enabled: true})
	}
	if c.Has(TargetEPUB) {
		a := Availability{Op: OpConvertEPUB, Enabled: !c.Encrypted}
		if c.Encrypted {
			a.Reason = reasonEncrypted
		}
		ops = append(ops, a)
	}
	return ops
}

// Allows reports whether op is offered and enabled for the book.
func (c Classification) Allows(op Operation) bool {
	for _, a := range c.Operations() {
		if a.Op == op {
			return a.Enabled
		}
	}
	return false
}
