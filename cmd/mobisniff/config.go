package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samcharles93/mobisniff/internal/unpack"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the mobisniff configuration file (~/.config/mobisniff/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	UnpackFolder          string `yaml:"unpack_folder"`
	AlwaysUseUnpackFolder bool   `yaml:"always_use_unpack_folder"`

	// Engine
	KindleUnpack string `yaml:"kindleunpack"`
	EpubVersion  string `yaml:"epub_version"`
	UseHDImages  *bool  `yaml:"use_hd_images"`
	Workers      *int   `yaml:"workers"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mobisniff", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyLoggingConfig applies config file defaults to the logging flags
// when the corresponding CLI flag was not explicitly set.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyEngineConfig applies config file defaults to the unpack engine flags.
func applyEngineConfig(c *cli.Command, cfg Config) {
	if cfg.KindleUnpack != "" && !c.IsSet("kindleunpack") {
		engineCmd = cfg.KindleUnpack
	}
	if cfg.EpubVersion != "" && !c.IsSet("epub-version") {
		epubVersion = cfg.EpubVersion
	}
	if cfg.UseHDImages != nil && !c.IsSet("hd-images") {
		hdImages = *cfg.UseHDImages
	}
}

// applyWorkersConfig applies the config file worker count.
func applyWorkersConfig(c *cli.Command, cfg Config) {
	if cfg.Workers != nil && !c.IsSet("workers") {
		workers = *cfg.Workers
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyEngineConfig(c, cfg)
	applyWorkersConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// unpackOptions builds engine options from the resolved flag values.
func unpackOptions() (unpack.Options, error) {
	v, err := unpack.ParseEpubVersion(epubVersion)
	if err != nil {
		return unpack.Options{}, err
	}
	return unpack.Options{EpubVersion: v, UseHDImages: hdImages}, nil
}
