package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TemplatesRoot != filepath.Join(cfg.AssetsRoot, "Templates") {
		t.Errorf("TemplatesRoot should derive from AssetsRoot, got %s", cfg.TemplatesRoot)
	}
	if cfg.ScratchDir == "" {
		t.Error("ScratchDir must never be empty")
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio.yaml")
	content := []byte("assets_root: /opt/studio\ndevelopment: true\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AssetsRoot != "/opt/studio" {
		t.Errorf("AssetsRoot: got %s, want /opt/studio", cfg.AssetsRoot)
	}
	if !cfg.Development {
		t.Error("Development should be true")
	}
	// Paths not set in the file still derive from defaults.
	if cfg.PaletteFile == "" {
		t.Error("PaletteFile should have a default")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("assets_root: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should fail Load")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PAINT_STUDIO_ASSETS", "/srv/paint")
	t.Setenv("PAINT_STUDIO_EXTERNAL", "/mnt/library")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AssetsRoot != "/srv/paint" {
		t.Errorf("AssetsRoot: got %s, want /srv/paint", cfg.AssetsRoot)
	}
	if cfg.TemplatesRoot != filepath.Join("/srv/paint", "Templates") {
		t.Errorf("TemplatesRoot should follow the overridden root, got %s", cfg.TemplatesRoot)
	}
	if cfg.ExternalRoot != "/mnt/library" {
		t.Errorf("ExternalRoot: got %s, want /mnt/library", cfg.ExternalRoot)
	}
}
