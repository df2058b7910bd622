package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/toytracer/pkg/loaders"
	"github.com/df07/toytracer/pkg/renderer"
	"github.com/df07/toytracer/pkg/scene"
)

func TestLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scene.json")
	data := `{"name": "custom", "width": 4, "height": 4, "primitives": [
		{"type": "sphere", "center": [0, 0, -5], "radius": 1, "color": [1, 0, 0]}]}`
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		sceneName   string
		configPath  string
		expectName  string
		expectError bool
	}{
		// Built-in scenes
		{"walls scene", "walls", "", "walls", false},
		{"panel scene", "panel", "", "panel", false},
		{"spheres scene", "spheres", "", "spheres", false},

		// JSON configs take precedence over the scene name
		{"config file", "walls", configPath, "custom", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", "", "", true},
		{"empty scene name", "", "", "", true},
		{"missing config", "walls", filepath.Join(t.TempDir(), "missing.json"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.sceneName, tt.configPath)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.sceneName)
				}
				if cfg != nil {
					t.Errorf("Expected nil config for invalid scene '%s'", tt.sceneName)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneName, err)
			}
			if cfg.Name != tt.expectName {
				t.Errorf("Expected config name %q, got %q", tt.expectName, cfg.Name)
			}
			if cfg.Width <= 0 || cfg.Height <= 0 {
				t.Errorf("Config size should be positive, got %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name        string
		opts        options
		check       func(t *testing.T, cfg *scene.Config)
		expectError bool
	}{
		{
			name: "no overrides",
			opts: options{},
			check: func(t *testing.T, cfg *scene.Config) {
				if cfg.Width != 10 || cfg.Height != 10 {
					t.Errorf("Expected 10x10, got %dx%d", cfg.Width, cfg.Height)
				}
			},
		},
		{
			name: "size and mapping",
			opts: options{width: 32, height: 16, mapping: "unit", policy: "nearest"},
			check: func(t *testing.T, cfg *scene.Config) {
				if cfg.Width != 32 || cfg.Height != 16 {
					t.Errorf("Expected 32x16, got %dx%d", cfg.Width, cfg.Height)
				}
				if cfg.Mapping != "unit" || cfg.HitPolicy != "nearest" {
					t.Errorf("Expected unit/nearest, got %s/%s", cfg.Mapping, cfg.HitPolicy)
				}
			},
		},
		{
			name: "outputs",
			opts: options{output: "out.png", reference: "ref.jpg", caption: "hello"},
			check: func(t *testing.T, cfg *scene.Config) {
				if cfg.Output != "out.png" || cfg.Reference != "ref.jpg" || cfg.Caption != "hello" {
					t.Errorf("Unexpected outputs: %q %q %q", cfg.Output, cfg.Reference, cfg.Caption)
				}
			},
		},
		{name: "bad mapping", opts: options{mapping: "polar"}, expectError: true},
		{name: "bad policy", opts: options{policy: "first"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := scene.NewPanelConfig()
			err := applyOverrides(cfg, tt.opts)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	cfg := &scene.Config{}
	expected := filepath.Join("output", "walls", "render_20240305_140709.jpg")
	if got := outputPath(cfg, "walls", now); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}

	cfg.Output = "custom.ppm"
	if got := outputPath(cfg, "walls", now); got != "custom.ppm" {
		t.Errorf("Expected configured output, got %s", got)
	}
}

func TestRun_Panel(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "panel.png")

	err := run(options{sceneName: "panel", output: filename, quality: loaders.DefaultJPEGQuality})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	buf, err := loaders.LoadImage(filename)
	if err != nil {
		t.Fatalf("Failed to load output: %v", err)
	}
	if buf.Width != 10 || buf.Height != 10 {
		t.Fatalf("Expected 10x10 output, got %dx%d", buf.Width, buf.Height)
	}
	if got := buf.At(0, 0); got != renderer.DefaultBackground {
		t.Errorf("Expected background corner, got %v", got)
	}
	expected := renderer.PixelFromColor(scene.NewPanelConfig().Primitives[0].Color.Vec3())
	if got := buf.At(5, 5); got != expected {
		t.Errorf("Expected panel color %v, got %v", expected, got)
	}
}

func TestRun_Reference(t *testing.T) {
	tmpDir := t.TempDir()
	reference := filepath.Join(tmpDir, "reference.png")
	refBuf := renderer.NewPixelBuffer(12, 8)
	if err := loaders.WriteImage(reference, refBuf, loaders.WriteOptions{}); err != nil {
		t.Fatal(err)
	}

	filename := filepath.Join(tmpDir, "panel.png")
	err := run(options{sceneName: "panel", output: filename, reference: reference})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	tmpl, err := loaders.ProbeTemplate(filename)
	if err != nil {
		t.Fatalf("Failed to probe output: %v", err)
	}
	if tmpl.Width != 12 || tmpl.Height != 8 {
		t.Errorf("Expected output sized by the reference (12x8), got %dx%d", tmpl.Width, tmpl.Height)
	}
}

func TestRun_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		opts        options
		errContains string
	}{
		{"unknown scene", options{sceneName: "nope", output: filepath.Join(tmpDir, "a.png")}, "unknown scene"},
		{"unwritable output", options{sceneName: "panel", output: filepath.Join(blocker, "a.png")}, "output directory"},
		{"missing reference", options{sceneName: "panel", output: filepath.Join(tmpDir, "b.png"), reference: filepath.Join(tmpDir, "none.png")}, "reference image"},
		{"unsupported format", options{sceneName: "panel", output: filepath.Join(tmpDir, "c.gif")}, "unsupported output format"},
		{"preview too wide", options{sceneName: "panel", width: 40000, preview: true, output: filepath.Join(tmpDir, "d.png")}, "cannot preview"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.opts)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Expected error containing %q, got %v", tt.errContains, err)
			}
			if _, err := os.Stat(tt.opts.output); err == nil {
				t.Errorf("Expected no file at %s after a failed run", tt.opts.output)
			}
		})
	}
}
