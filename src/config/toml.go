package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/iafilius/ShotPlot/src/style"
)

// FileConfig represents the TOML configuration file. Pointer fields are nil when unset.
type FileConfig struct {
	LogLevel *string      `toml:"log_level"`
	Render   RenderConfig `toml:"render"`
	Viewer   ViewerConfig `toml:"viewer"`
	Style    StyleConfig  `toml:"style"`
}

// RenderConfig maps figure output settings.
type RenderConfig struct {
	DPI    *float64 `toml:"dpi"`
	Width  *float64 `toml:"width"`  // inches
	Height *float64 `toml:"height"` // inches
	Grid   *bool    `toml:"grid"`
}

// ViewerConfig maps viewer start-up settings.
type ViewerConfig struct {
	DefaultSeries []string `toml:"default_series"`
	ShotDir       *string  `toml:"shot_dir"`
	ExportDPI     *float64 `toml:"export_dpi"`
}

// StyleConfig maps style settings.
type StyleConfig struct {
	Palette []string `toml:"palette"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		return cfg, fmt.Errorf("unknown config keys: %v", und)
	}
	return cfg, nil
}

// Settings are the effective values after applying a FileConfig over the defaults.
type Settings struct {
	LogLevel      string
	DPI           float64
	WidthIn       float64
	HeightIn      float64
	Grid          bool
	DefaultSeries []string
	ShotDir       string
	ExportDPI     float64
	Palette       style.Palette
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		LogLevel:  "info",
		DPI:       200,
		WidthIn:   14,
		HeightIn:  7,
		Grid:      true,
		ShotDir:   ".",
		ExportDPI: 200,
		Palette:   style.Tab10,
	}
}

// Resolve overlays the set fields of c on Defaults. Non-positive sizes and an unusable
// palette keep their defaults.
func (c FileConfig) Resolve() Settings {
	s := Defaults()
	if c.LogLevel != nil {
		s.LogLevel = *c.LogLevel
	}
	if c.Render.DPI != nil && *c.Render.DPI > 0 {
		s.DPI = *c.Render.DPI
	}
	if c.Render.Width != nil && *c.Render.Width > 0 {
		s.WidthIn = *c.Render.Width
	}
	if c.Render.Height != nil && *c.Render.Height > 0 {
		s.HeightIn = *c.Render.Height
	}
	if c.Render.Grid != nil {
		s.Grid = *c.Render.Grid
	}
	if len(c.Viewer.DefaultSeries) > 0 {
		s.DefaultSeries = append([]string(nil), c.Viewer.DefaultSeries...)
	}
	if c.Viewer.ShotDir != nil && *c.Viewer.ShotDir != "" {
		s.ShotDir = *c.Viewer.ShotDir
	}
	if c.Viewer.ExportDPI != nil && *c.Viewer.ExportDPI > 0 {
		s.ExportDPI = *c.Viewer.ExportDPI
	}
	if p := style.Palette(c.Style.Palette).Valid(); len(p) > 0 {
		s.Palette = p
	}
	return s
}
