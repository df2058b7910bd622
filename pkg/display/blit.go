package display

import (
	"errors"
	"image/color"

	"github.com/df07/toytracer/pkg/renderer"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// ErrNoBuffer is returned when there is nothing to blit
var ErrNoBuffer = errors.New("display: nil pixel buffer")

// captionFont is small enough for a 64 pixel wide panel
var captionFont = &proggy.TinySZ8pt7b

// Blit copies buf onto d, clipped to the display size, then presents it.
// Buffer rows map to display x and columns to display y.
func Blit(d drivers.Displayer, buf *renderer.PixelBuffer) error {
	if buf == nil {
		return ErrNoBuffer
	}

	w, h := d.Size()
	for row := 0; row < min(buf.Width, int(w)); row++ {
		for col := 0; col < min(buf.Height, int(h)); col++ {
			d.SetPixel(int16(row), int16(col), buf.At(row, col).RGBA())
		}
	}
	return d.Display()
}

// Caption writes text along the bottom edge of d on a black strip
func Caption(d drivers.Displayer, text string, c color.RGBA) error {
	if text == "" {
		return nil
	}

	w, h := d.Size()
	strip := int16(captionFont.YAdvance) + 2
	if strip > h {
		strip = h
	}

	black := color.RGBA{A: 255}
	for y := h - strip; y < h; y++ {
		for x := int16(0); x < w; x++ {
			d.SetPixel(x, y, black)
		}
	}

	// WriteLine takes the baseline, so the glyphs sit one pixel above the bottom
	tinyfont.WriteLine(d, captionFont, 1, h-3, text, c)
	return d.Display()
}
