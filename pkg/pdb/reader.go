package pdb

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// File is a parsed Palm database container. Data is never modified after
// parsing and section slices alias it.
type File struct {
	Data   []byte
	Header *Header
	Kind   Kind

	// Offsets holds one start offset per section followed by a sentinel equal
	// to len(Data). Nil for Topaz files, which have no record table.
	Offsets []uint32

	mmapped bool
}

// Section describes one entry of the record table.
type Section struct {
	Index  int
	Offset uint32
	Length uint32
}

// Open maps a container read-only and parses its record table.
// If mmap is unavailable, it falls back to reading the whole file.
// The returned file must be closed to release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, ErrMalformedContainer
	}
	size := int(size64)

	if data, err := mmapFile(f, size); err == nil {
		pf, parseErr := parse(data, true)
		if parseErr != nil {
			_ = munmap(data)
			return nil, parseErr
		}
		return pf, nil
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parse(data, false)
}

// OpenReaderAt loads and parses a container from a random-access reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, ErrMalformedContainer
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return parse(data, false)
}

// Parse builds a File over data. The slice is retained, not copied.
func Parse(data []byte) (*File, error) {
	return parse(data, false)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parse(data []byte, mmapped bool) (*File, error) {
	if isTopaz(data) {
		return &File{Data: data, Kind: KindTopaz, mmapped: mmapped}, nil
	}

	hdr, ok := decodeHeader(data)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte Palm header",
			ErrMalformedContainer, len(data), PalmHeaderSize)
	}

	n := int(hdr.NumSections)
	tableEnd := PalmHeaderSize + n*RecordInfoSize
	if tableEnd > len(data) {
		return nil, fmt.Errorf("%w: record table for %d sections runs past end of file",
			ErrMalformedContainer, n)
	}

	offsets := make([]uint32, n+1)
	for i := 0; i < n; i++ {
		rec := data[PalmHeaderSize+i*RecordInfoSize:]
		offsets[i] = binary.BigEndian.Uint32(rec)
	}
	offsets[n] = uint32(len(data))

	for i := 0; i < n; i++ {
		off := offsets[i]
		if uint64(off) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: section %d offset %d out of bounds", ErrMalformedContainer, i, off)
		}
		if i == 0 && int(off) < tableEnd {
			return nil, fmt.Errorf("%w: section 0 overlaps record table", ErrMalformedContainer)
		}
		if off > offsets[i+1] {
			return nil, fmt.Errorf("%w: section %d starts after section %d", ErrMalformedContainer, i, i+1)
		}
	}

	return &File{
		Data:    data,
		Header:  &hdr,
		Kind:    hdr.Kind(),
		Offsets: offsets,
		mmapped: mmapped,
	}, nil
}

// Close releases any mmap backing. Section slices must not be used afterwards.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	var err error
	if f.Data != nil && f.mmapped {
		err = munmap(f.Data)
	}
	f.Data = nil
	f.Header = nil
	f.Offsets = nil
	f.mmapped = false
	return err
}

// NumSections returns the number of sections in the record table.
func (f *File) NumSections() int {
	if f == nil || len(f.Offsets) == 0 {
		return 0
	}
	return len(f.Offsets) - 1
}

// SectionLen returns the byte length of section i.
func (f *File) SectionLen(i int) (int, error) {
	if i < 0 || i >= f.NumSections() {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, f.NumSections())
	}
	return int(f.Offsets[i+1] - f.Offsets[i]), nil
}

// LoadSection returns a zero-copy slice covering section i.
// The caller must not retain this slice after Close.
func (f *File) LoadSection(i int) ([]byte, error) {
	if i < 0 || i >= f.NumSections() {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, f.NumSections())
	}
	return f.Data[f.Offsets[i]:f.Offsets[i+1]], nil
}

// Sections lists the record table in file order.
func (f *File) Sections() []Section {
	out := make([]Section, f.NumSections())
	for i := range out {
		out[i] = Section{
			Index:  i,
			Offset: f.Offsets[i],
			Length: f.Offsets[i+1] - f.Offsets[i],
		}
	}
	return out
}
