package renderer

import (
	"image"
	"image/color"

	"github.com/df07/toytracer/pkg/core"
)

// Pixel is an 8-bit RGB triple stored as ints in [0, 255]
type Pixel struct {
	R, G, B int
}

// DefaultBackground is the gray written where no primitive is hit
var DefaultBackground = Pixel{R: 120, G: 120, B: 120}

// PixelFromColor scales a [0,1] color to [0,255], truncating toward zero
func PixelFromColor(c core.Vec3) Pixel {
	return Pixel{
		R: int(c.X * 255),
		G: int(c.Y * 255),
		B: int(c.Z * 255),
	}
}

// RGBA converts the pixel to an opaque color.RGBA, clamping each channel
func (p Pixel) RGBA() color.RGBA {
	return color.RGBA{R: clampChannel(p.R), G: clampChannel(p.G), B: clampChannel(p.B), A: 255}
}

func clampChannel(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

// PixelBuffer holds one grid per color channel, indexed [row][col] with
// row in [0, Width) and col in [0, Height).
type PixelBuffer struct {
	Width  int
	Height int
	R      [][]int
	G      [][]int
	B      [][]int
}

// NewPixelBuffer allocates a zeroed width x height buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		R:      newChannel(width, height),
		G:      newChannel(width, height),
		B:      newChannel(width, height),
	}
}

func newChannel(width, height int) [][]int {
	backing := make([]int, width*height)
	grid := make([][]int, width)
	for row := range grid {
		grid[row] = backing[row*height : (row+1)*height : (row+1)*height]
	}
	return grid
}

// Set writes a pixel, clamping each channel to [0, 255]
func (b *PixelBuffer) Set(row, col int, p Pixel) {
	b.R[row][col] = int(clampChannel(p.R))
	b.G[row][col] = int(clampChannel(p.G))
	b.B[row][col] = int(clampChannel(p.B))
}

// At returns the pixel at (row, col)
func (b *PixelBuffer) At(row, col int) Pixel {
	return Pixel{R: b.R[row][col], G: b.G[row][col], B: b.B[row][col]}
}

// Fill sets every pixel to p
func (b *PixelBuffer) Fill(p Pixel) {
	for row := 0; row < b.Width; row++ {
		for col := 0; col < b.Height; col++ {
			b.Set(row, col, p)
		}
	}
}

// ToRGBA converts the buffer to an image where x is the row index and y the column index
func (b *PixelBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for row := 0; row < b.Width; row++ {
		for col := 0; col < b.Height; col++ {
			img.SetRGBA(row, col, b.At(row, col).RGBA())
		}
	}
	return img
}

// FromImage copies an image into a new buffer. Alpha is ignored.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	for row := 0; row < buf.Width; row++ {
		for col := 0; col < buf.Height; col++ {
			// RGBA returns 16-bit channels
			r, g, bl, _ := img.At(row+bounds.Min.X, col+bounds.Min.Y).RGBA()
			buf.Set(row, col, Pixel{R: int(r >> 8), G: int(g >> 8), B: int(bl >> 8)})
		}
	}
	return buf
}
