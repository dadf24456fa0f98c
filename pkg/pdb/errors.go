package pdb

import "errors"

var (
	// ErrMalformedContainer reports structural corruption: a truncated file,
	// a record table or section offsets running past end of file, or offsets
	// that go backwards.
	ErrMalformedContainer = errors.New("malformed PDB container")
	// ErrIndexOutOfRange is returned when a section beyond the table is requested.
	ErrIndexOutOfRange = errors.New("PDB section index out of range")
)
