package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var errNoOutDir = errors.New("no output directory: pass --out or set unpack_folder with always_use_unpack_folder")

// resolveOutDir picks the output directory: the --out flag first, then the
// configured unpack folder when the config says to always use it.
func resolveOutDir(outFlag string, cfg Config) (string, error) {
	dir := strings.TrimSpace(outFlag)
	if dir == "" && cfg.AlwaysUseUnpackFolder {
		dir = strings.TrimSpace(cfg.UnpackFolder)
	}
	if dir == "" {
		return "", errNoOutDir
	}
	dir = expandHome(filepath.Clean(dir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
