package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	StoreAuto = "auto"
	StoreDir  = "dir"
	StoreZip  = "zip"
	StorePDF  = "pdf"

	NamingSingle = "single"
	NamingMulti  = "multi"
	NamingSplit  = "split"

	FitCenter   = "center"
	FitParallax = "parallax"
)

// DefaultFolder is the directory name looked up under the user's home
// directory when no store is configured.
const DefaultFolder = "animated-wallpaper"

// MaxFPS keeps the frame interval at one millisecond or more.
const MaxFPS = 1000

var ErrInvalid = errors.New("invalid config")

type Config struct {
	StorePath  string `yaml:"store" toml:"store"`
	StoreKind  string `yaml:"store_kind" toml:"store_kind"`
	Naming     string `yaml:"naming" toml:"naming"`
	Fit        string `yaml:"fit" toml:"fit"`
	Background string `yaml:"background" toml:"background"`
	FPS        int    `yaml:"fps" toml:"fps"`
	MinDelayMs int    `yaml:"min_delay_ms" toml:"min_delay_ms"`
	SampleSize int    `yaml:"sample_size" toml:"sample_size"`
	DPI        int    `yaml:"dpi" toml:"dpi"`
	Workers    int    `yaml:"workers" toml:"workers"`
	LogLevel   string `yaml:"log_level" toml:"log_level"`
	ShowStats  bool   `yaml:"stats" toml:"stats"`
}

// Default returns a Config with every field set to its default value.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.StorePath == "" {
		c.StorePath = DefaultStorePath()
	}
	if c.StoreKind == "" {
		c.StoreKind = StoreAuto
	}
	if c.Naming == "" {
		c.Naming = NamingSingle
	}
	if c.Fit == "" {
		c.Fit = FitCenter
	}
	if c.Background == "" {
		c.Background = "#000000"
	}
	if c.FPS == 0 {
		c.FPS = 30
	}
	if c.MinDelayMs == 0 {
		c.MinDelayMs = 20
	}
	if c.SampleSize == 0 {
		c.SampleSize = 1
	}
	if c.DPI == 0 {
		c.DPI = 72
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// DefaultStorePath is $HOME/animated-wallpaper/, falling back to the
// working directory when the home directory is unknown.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFolder
	}
	return filepath.Join(home, DefaultFolder)
}

// ResolvedStoreKind maps StoreAuto to a concrete kind using the store
// path's extension.
func (c *Config) ResolvedStoreKind() string {
	if c.StoreKind != StoreAuto && c.StoreKind != "" {
		return c.StoreKind
	}
	switch strings.ToLower(filepath.Ext(c.StorePath)) {
	case ".zip":
		return StoreZip
	case ".pdf":
		return StorePDF
	default:
		return StoreDir
	}
}

// BackgroundColor parses Background as a hex colour.
func (c *Config) BackgroundColor() (colorful.Color, error) {
	col, err := colorful.Hex(c.Background)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: background %q: %v", ErrInvalid, c.Background, err)
	}
	return col, nil
}

func (c *Config) Validate() error {
	switch c.StoreKind {
	case StoreAuto, StoreDir, StoreZip, StorePDF:
	default:
		return fmt.Errorf("%w: unknown store_kind %q", ErrInvalid, c.StoreKind)
	}
	switch c.Naming {
	case NamingSingle, NamingMulti, NamingSplit:
	default:
		return fmt.Errorf("%w: unknown naming %q", ErrInvalid, c.Naming)
	}
	switch c.Fit {
	case FitCenter, FitParallax:
	default:
		return fmt.Errorf("%w: unknown fit %q", ErrInvalid, c.Fit)
	}
	if c.FPS <= 0 || c.FPS > MaxFPS {
		return fmt.Errorf("%w: fps must be between 1 and %d, got %d", ErrInvalid, MaxFPS, c.FPS)
	}
	if c.MinDelayMs <= 0 {
		return fmt.Errorf("%w: min_delay_ms must be positive, got %d", ErrInvalid, c.MinDelayMs)
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("%w: sample_size must be positive, got %d", ErrInvalid, c.SampleSize)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %d", ErrInvalid, c.DPI)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	return nil
}
