package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"

	"github.com/bamsammich/cachefinder/internal/output"
)

// Config represents the optional cachefinder configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Patterns PatternsConfig `toml:"patterns"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	Verbose  *bool   `toml:"verbose"`
	Compress *string `toml:"compress"`
	BWLimit  *string `toml:"bwlimit"`
	Trailer  *bool   `toml:"trailer"`
}

// PatternsConfig holds patterns applied before any given on the command line.
type PatternsConfig struct {
	Exclude  []string `toml:"exclude"`
	MaskPath []string `toml:"mask_path"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cachefinder", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}

	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// LoadFile reads an explicitly named config file. Unlike Load, a missing
// file is an error.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Defaults.Compress != nil {
		if _, err := output.ParseCompression(*c.Defaults.Compress); err != nil {
			return err
		}
	}
	if c.Defaults.BWLimit != nil {
		if _, err := ParseSize(*c.Defaults.BWLimit); err != nil {
			return fmt.Errorf("bwlimit: %w", err)
		}
	}
	return nil
}

// ParseSize parses a human-readable size such as "50M", "1.5GiB" or "100".
// Plain suffixes are decimal; "i" suffixes are powers of 1024.
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("invalid size %q: too large", s)
	}
	return int64(n), nil
}
