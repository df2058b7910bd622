package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/df07/toytracer/pkg/renderer"
	"github.com/fogleman/gg"
)

// Template describes a reference asset without decoding its pixels
type Template struct {
	Format     string      // "jpeg", "png" or "ppm"
	Width      int         // Width in pixels
	Height     int         // Height in pixels
	ColorModel color.Model // Pixel type of the asset
}

// ProbeTemplate reads only the header of a reference image. The render uses it as a
// size and pixel-type oracle; its pixel content is never read.
func ProbeTemplate(filename string) (Template, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Template{}, fmt.Errorf("failed to open reference image: %w", err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Template{}, fmt.Errorf("failed to read reference image header: %w", err)
	}

	return Template{
		Format:     format,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ColorModel: cfg.ColorModel,
	}, nil
}

// LoadImage decodes a PNG, JPEG or PPM image into a pixel buffer
func LoadImage(filename string) (*renderer.PixelBuffer, error) {
	img, err := gg.LoadImage(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return renderer.FromImage(img), nil
}
