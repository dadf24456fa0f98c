package unpack

import (
	"fmt"
	"strings"
)

// EpubVersion selects the OPF flavour the unpack engine writes.
type EpubVersion string

const (
	Epub2    EpubVersion = "2"
	Epub3    EpubVersion = "3"
	EpubAuto EpubVersion = "A"
)

// ParseEpubVersion accepts "2", "3", "A" and the spelled out forms.
// An empty string selects ePub 2, the historical default.
func ParseEpubVersion(s string) (EpubVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "2", "epub2":
		return Epub2, nil
	case "3", "epub3":
		return Epub3, nil
	case "a", "auto", "auto-detect":
		return EpubAuto, nil
	default:
		return "", fmt.Errorf("invalid epub version %q (want 2, 3 or A)", s)
	}
}

// Options are the user preferences handed to the unpack engine. They are
// passed explicitly to every call.
type Options struct {
	EpubVersion EpubVersion
	UseHDImages bool
}

// DefaultOptions matches a fresh install.
func DefaultOptions() Options {
	return Options{EpubVersion: Epub2}
}
