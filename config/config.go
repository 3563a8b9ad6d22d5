// Package config loads spriteanim settings from TOML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"spriteanim/export"
	"spriteanim/palette"
	"spriteanim/playback"
	"spriteanim/raster"
	"spriteanim/render"
	"spriteanim/sheet"
	"spriteanim/source"
)

//go:embed sample_config.toml
var sampleConfig string

// Sample returns a commented configuration file holding the defaults.
func Sample() string {
	return sampleConfig
}

// Frames controls how sources are cut into frames.
type Frames struct {
	CellWidth  int  `toml:"cell_width"`
	CellHeight int  `toml:"cell_height"`
	Sheet      bool `toml:"sheet"`
}

// View controls the composited preview.
type View struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
	Grid       bool   `toml:"grid"`
}

// Playback holds the animation rate.
type Playback struct {
	FPS float64 `toml:"fps"`
}

// Export controls output encoding.
type Export struct {
	SheetFormat   string `toml:"sheet_format"`
	ArchiveFormat string `toml:"archive_format"`
	Workers       int    `toml:"workers"`
	Palette       string `toml:"palette"`
	Dither        bool   `toml:"dither"`
}

// Input lists the accepted source formats.
type Input struct {
	Formats []string `toml:"formats"`
}

// Logging holds the log level.
type Logging struct {
	Level string `toml:"level"`
}

// Config is the complete configuration.
type Config struct {
	Frames   Frames   `toml:"frames"`
	View     View     `toml:"view"`
	Playback Playback `toml:"playback"`
	Export   Export   `toml:"export"`
	Input    Input    `toml:"input"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the built in configuration.
func Default() Config {
	return Config{
		Frames: Frames{
			CellWidth:  sheet.DefaultCell,
			CellHeight: sheet.DefaultCell,
			Sheet:      true,
		},
		View: View{
			Width:      256,
			Height:     256,
			Background: "#ffffff",
		},
		Playback: Playback{
			FPS: playback.DefaultFPS,
		},
		Export: Export{
			SheetFormat:   "png",
			ArchiveFormat: "zip",
			Palette:       "websafe",
		},
		Input: Input{
			Formats: slices.Clone(source.DefaultFormats),
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find config directory: %w", err)
	}
	return filepath.Join(dir, "spriteanim", "config.toml"), nil
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty, over the defaults. A missing file is not an error. It returns the
// resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, "", false, err
		}
	}

	data, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", false, fmt.Errorf("could not read config %q: %w", path, err)
	}
	if exists {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("could not parse config %q: %w", path, err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, path, exists, nil
}

func (c *Config) normalize() {
	c.View.Background = strings.TrimSpace(c.View.Background)
	c.Export.SheetFormat = strings.ToLower(c.Export.SheetFormat)
	if c.Export.SheetFormat == "jpg" {
		c.Export.SheetFormat = "jpeg"
	}
	c.Export.ArchiveFormat = strings.ToLower(c.Export.ArchiveFormat)
	for i, f := range c.Input.Formats {
		f = strings.ToLower(f)
		if f == "jpg" {
			f = "jpeg"
		}
		c.Input.Formats[i] = f
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Playback.FPS = min(max(c.Playback.FPS, playback.MinFPS), playback.MaxFPS)
}

// Validate checks the configuration for values that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Frames.CellWidth <= 0:
		return fmt.Errorf("invalid cell width: %d", c.Frames.CellWidth)
	case c.Frames.CellHeight <= 0:
		return fmt.Errorf("invalid cell height: %d", c.Frames.CellHeight)
	case c.View.Width <= 0 || c.View.Height <= 0:
		return fmt.Errorf("invalid view size: %dx%d", c.View.Width, c.View.Height)
	}
	if _, err := raster.ParseHex(c.View.Background); err != nil {
		return fmt.Errorf("invalid view background: %w", err)
	}
	if !slices.Contains(export.Formats, c.Export.SheetFormat) {
		return fmt.Errorf("unsupported sheet format %q, should be one of %s", c.Export.SheetFormat, strings.Join(export.Formats, ", "))
	}
	if _, err := palette.Load(c.Export.Palette); err != nil {
		return fmt.Errorf("invalid export palette: %w", err)
	}
	if _, err := source.NewDecoder(c.Input.Formats...); err != nil {
		return fmt.Errorf("invalid input formats: %w", err)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// Render returns the display preferences described by c.View.
func (c *Config) Render() render.Config {
	bg, err := raster.ParseHex(c.View.Background)
	if err != nil {
		return render.DefaultConfig()
	}
	return render.Config{Background: color.Color(bg), ShowGrid: c.View.Grid}
}

// LogLevel returns the configured slog level, info when unset.
func (c *Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
