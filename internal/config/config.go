// Package config loads the runtime configuration for the paint studio.
//
// Configuration comes from a YAML file with environment-variable overrides.
// Every field has a working default so the server can start with no config
// file at all; the file and the environment only narrow things down.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime paths and switches for the studio.
type Config struct {
	// AssetsRoot is the base directory for bundled assets (templates,
	// palette resource, frame images).
	AssetsRoot string `yaml:"assets_root"`

	// TemplatesRoot is the template descriptor directory. Defaults to
	// <AssetsRoot>/Templates.
	TemplatesRoot string `yaml:"templates_root"`

	// PaletteFile is the dye palette JSON resource. Its absence is
	// non-fatal while listing dyes but fatal during artifact generation.
	PaletteFile string `yaml:"palette_file"`

	// FrameDirs are scanned, in order, for tileable border frame images.
	FrameDirs []string `yaml:"frame_dirs"`

	// ExternalRoot is the default root for external .pnt library scans.
	ExternalRoot string `yaml:"external_root"`

	// ScratchDir receives per-generation output files. It is cleared and
	// recreated for every generation call.
	ScratchDir string `yaml:"scratch_dir"`

	// LogFile is the rotating log destination.
	LogFile string `yaml:"log_file"`

	// Development enables console debug logging.
	Development bool `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	assets := "/assets"
	return &Config{
		AssetsRoot:    assets,
		TemplatesRoot: filepath.Join(assets, "Templates"),
		PaletteFile:   filepath.Join(assets, "TablaDyes_v1.json"),
		FrameDirs: []string{
			filepath.Join(assets, "Templates", "TileableBorder"),
			filepath.Join(assets, "frames"),
		},
		ExternalRoot: "/userlib",
		ScratchDir:   filepath.Join(os.TempDir(), "paint-studio"),
		LogFile:      "paint-studio.log",
	}
}

// Load reads a YAML config file and applies environment overrides on top of
// the defaults. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.fillDerived()
	return cfg, nil
}

// applyEnv lets deployments override paths without editing the YAML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("PAINT_STUDIO_ASSETS"); v != "" {
		c.AssetsRoot = v
		// Derived paths follow the new root unless set explicitly below.
		c.TemplatesRoot = ""
		c.PaletteFile = ""
	}
	if v := os.Getenv("PAINT_STUDIO_TEMPLATES"); v != "" {
		c.TemplatesRoot = v
	}
	if v := os.Getenv("PAINT_STUDIO_PALETTE"); v != "" {
		c.PaletteFile = v
	}
	if v := os.Getenv("PAINT_STUDIO_EXTERNAL"); v != "" {
		c.ExternalRoot = v
	}
	if v := os.Getenv("PAINT_STUDIO_SCRATCH"); v != "" {
		c.ScratchDir = v
	}
	if v := os.Getenv("PAINT_STUDIO_LOG_LEVEL"); v == "debug" {
		c.Development = true
	}
}

// fillDerived recomputes paths that default relative to AssetsRoot.
func (c *Config) fillDerived() {
	if c.TemplatesRoot == "" {
		c.TemplatesRoot = filepath.Join(c.AssetsRoot, "Templates")
	}
	if c.PaletteFile == "" {
		c.PaletteFile = filepath.Join(c.AssetsRoot, "TablaDyes_v1.json")
	}
	if len(c.FrameDirs) == 0 {
		c.FrameDirs = []string{
			filepath.Join(c.TemplatesRoot, "TileableBorder"),
			filepath.Join(c.AssetsRoot, "frames"),
		}
	}
	if c.ScratchDir == "" {
		c.ScratchDir = filepath.Join(os.TempDir(), "paint-studio")
	}
}
