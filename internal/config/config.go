// Package config handles meshprep configuration loading and management.
package config

import "github.com/Faultbox/meshprep/internal/importer"

// Config holds all tool settings.
type Config struct {
	Import  importer.Options `yaml:"import"`
	Export  ExportConfig     `yaml:"export"`
	Preview PreviewConfig    `yaml:"preview"`
	Logging LoggingConfig    `yaml:"logging"`
}

// ExportConfig holds output settings of the import command.
type ExportConfig struct {
	Format     string `yaml:"format"`      // "glb" or "raw"
	OutputDir  string `yaml:"output_dir"`  // Raw files are written here, one per mesh
	PruneEmpty bool   `yaml:"prune_empty"` // Drop meshes left without vertices
}

// PreviewConfig holds preview window settings.
type PreviewConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	VSync    bool    `yaml:"vsync"`
	FontPath string  `yaml:"font"` // TTF for the banner; empty uses the built-in face
	FontSize float64 `yaml:"font_size"`

	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // "png" or "webp"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: importer.DefaultOptions(),
		Export: ExportConfig{
			Format:    "glb",
			OutputDir: ".",
		},
		Preview: PreviewConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			FontSize: 15,

			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
