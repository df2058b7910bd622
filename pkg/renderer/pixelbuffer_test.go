package renderer

import (
	"image/color"
	"testing"

	"github.com/df07/toytracer/pkg/core"
)

func TestPixelFromColor(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Vec3
		expected Pixel
	}{
		{"black", core.NewVec3(0, 0, 0), Pixel{0, 0, 0}},
		{"white", core.NewVec3(1, 1, 1), Pixel{255, 255, 255}},
		{"truncates", core.NewVec3(0.5, 0.999, 0.1), Pixel{127, 254, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelFromColor(tt.color); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPixelBuffer_SetClamps(t *testing.T) {
	buf := NewPixelBuffer(3, 2)
	buf.Set(2, 1, Pixel{R: -10, G: 300, B: 42})

	if got := buf.At(2, 1); got != (Pixel{0, 255, 42}) {
		t.Errorf("Expected clamped pixel {0 255 42}, got %v", got)
	}
	if got := buf.At(0, 0); got != (Pixel{}) {
		t.Errorf("Expected untouched pixel to be zero, got %v", got)
	}
}

func TestPixelBuffer_Layout(t *testing.T) {
	buf := NewPixelBuffer(4, 3)
	if len(buf.R) != 4 || len(buf.G) != 4 || len(buf.B) != 4 {
		t.Fatalf("Expected 4 rows per channel, got %d/%d/%d", len(buf.R), len(buf.G), len(buf.B))
	}
	for row := range buf.R {
		if len(buf.R[row]) != 3 {
			t.Fatalf("Row %d: expected 3 columns, got %d", row, len(buf.R[row]))
		}
	}

	// Writing the last column of a row must not bleed into the next row
	buf.Set(0, 2, Pixel{R: 9})
	if buf.R[1][0] != 0 {
		t.Errorf("Write to (0,2) leaked into (1,0)")
	}
}

func TestPixelBuffer_RGBARoundTrip(t *testing.T) {
	buf := NewPixelBuffer(2, 3)
	buf.Fill(DefaultBackground)
	buf.Set(1, 2, Pixel{R: 255, G: 0, B: 10})

	img := buf.ToRGBA()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 3 {
		t.Fatalf("Expected 2x3 image, got %v", img.Bounds())
	}
	if got := img.RGBAAt(1, 2); got != (color.RGBA{R: 255, G: 0, B: 10, A: 255}) {
		t.Errorf("Unexpected pixel at (1,2): %v", got)
	}

	back := FromImage(img)
	for row := 0; row < buf.Width; row++ {
		for col := 0; col < buf.Height; col++ {
			if back.At(row, col) != buf.At(row, col) {
				t.Errorf("(%d,%d): expected %v, got %v", row, col, buf.At(row, col), back.At(row, col))
			}
		}
	}
}
