package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/toytracer/pkg/renderer"
)

// writeTestPNG creates a 2x2 PNG with one distinct color per corner
func writeTestPNG(t *testing.T, filename string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}) // Top-left: white
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})     // Top-right: red
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})     // Bottom-left: green
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})     // Bottom-right: blue

	f, err := os.Create(filename)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()
}

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.png")
	writeTestPNG(t, testFile)

	buf, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if buf.Width != 2 || buf.Height != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", buf.Width, buf.Height)
	}

	// Buffers are indexed [x][y]
	tests := []struct {
		name     string
		row, col int
		expected renderer.Pixel
	}{
		{"Top-left (white)", 0, 0, renderer.Pixel{R: 255, G: 255, B: 255}},
		{"Top-right (red)", 1, 0, renderer.Pixel{R: 255}},
		{"Bottom-left (green)", 0, 1, renderer.Pixel{G: 255}},
		{"Bottom-right (blue)", 1, 1, renderer.Pixel{B: 255}},
	}
	for _, tt := range tests {
		if got := buf.At(tt.row, tt.col); got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestProbeTemplate(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "reference.png")
	writeTestPNG(t, testFile)

	tmpl, err := ProbeTemplate(testFile)
	if err != nil {
		t.Fatalf("ProbeTemplate failed: %v", err)
	}
	if tmpl.Format != "png" || tmpl.Width != 2 || tmpl.Height != 2 {
		t.Errorf("Unexpected template: %+v", tmpl)
	}
	if tmpl.ColorModel == nil {
		t.Error("Expected a color model")
	}
}

func TestProbeTemplate_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := ProbeTemplate(filepath.Join(tmpDir, "missing.jpg")); err == nil {
		t.Error("Expected error for missing reference")
	}

	garbage := filepath.Join(tmpDir, "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ProbeTemplate(garbage); err == nil {
		t.Error("Expected error for undecodable reference")
	}
}
