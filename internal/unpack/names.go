package unpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KF8Dir is the subdirectory of the unpack output that holds the KF8 half,
// including the rebuilt ePub.
const KF8Dir = "mobi8"

const (
	splitMobiPrefix = "MOBI-"
	splitKF8Prefix  = "KF8-"
)

// BaseName is the file name of path without directory and extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SplitFileNames returns where the two halves of a split combo file go.
func SplitFileNames(path, outDir string) (mobiPath, kf8Path string) {
	base := BaseName(path)
	return filepath.Join(outDir, splitMobiPrefix+base+".mobi"),
		filepath.Join(outDir, splitKF8Prefix+base+".azw3")
}

// EPUBPath is where the unpack engine leaves the ePub rebuilt from path.
func EPUBPath(outDir, path string) string {
	return filepath.Join(outDir, KF8Dir, BaseName(path)+".epub")
}

// FindPDF returns the first .pdf file, by name, directly inside dir.
func FindPDF(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: no pdf in %s", ErrOutputMissing, dir)
}
