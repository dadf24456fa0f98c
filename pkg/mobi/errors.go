package mobi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedFormat means the signature matches no known container.
	ErrUnrecognizedFormat = errors.New("unrecognized Kindle/MOBI file format")
	// ErrUnsupportedFormat means the container is recognised but deliberately
	// not handled. The concrete error is an *UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported Kindle format")
)

// UnsupportedFormatError names the unsupported format so callers can show a
// specific message.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s books are not supported", e.Format)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}
