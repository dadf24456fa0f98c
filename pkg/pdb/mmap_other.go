//go:build !unix

package pdb

import (
	"errors"
	"os"
)

var errNoMmap = errors.New("pdb: mmap not supported on this platform")

func mmapFile(*os.File, int) ([]byte, error) {
	return nil, errNoMmap
}

func munmap([]byte) error {
	return nil
}
