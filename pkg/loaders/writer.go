package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/toytracer/pkg/renderer"
	"github.com/fogleman/gg"
)

// DefaultJPEGQuality is used when WriteOptions.Quality is zero
const DefaultJPEGQuality = 90

// WriteOptions controls how a pixel buffer is persisted
type WriteOptions struct {
	Quality    int            // JPEG quality 1-100; 0 means DefaultJPEGQuality
	Template   *Template      // When set, the output takes the template's size
	Background renderer.Pixel // Fill for template pixels the buffer does not cover
	Caption    string         // Optional text stamped along the bottom edge
}

// WriteImage encodes buf to filename, choosing the format from the extension:
// .jpg/.jpeg, .png or .ppm.
func WriteImage(filename string, buf *renderer.PixelBuffer, opts WriteOptions) error {
	if buf == nil {
		return fmt.Errorf("no pixel data to write to %s", filename)
	}
	if opts.Template != nil {
		buf = fitToTemplate(buf, *opts.Template, opts.Background)
	}

	img := buf.ToRGBA()
	if opts.Caption != "" {
		drawCaption(img, opts.Caption)
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".jpg", ".jpeg":
		quality := opts.Quality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		if quality < 1 || quality > 100 {
			return fmt.Errorf("invalid JPEG quality %d", quality)
		}
		if err := gg.SaveJPG(filename, img, quality); err != nil {
			return fmt.Errorf("failed to write JPEG %s: %w", filename, err)
		}
	case ".png":
		if err := gg.SavePNG(filename, img); err != nil {
			return fmt.Errorf("failed to write PNG %s: %w", filename, err)
		}
	case ".ppm":
		if err := writePPMFile(filename, img); err != nil {
			return fmt.Errorf("failed to write PPM %s: %w", filename, err)
		}
	default:
		return fmt.Errorf("unsupported output format %q for %s", ext, filename)
	}
	return nil
}

// EncodeJPEG streams buf as a JPEG, for callers that write to a network or memory
// instead of a file. A zero quality means DefaultJPEGQuality.
func EncodeJPEG(w io.Writer, buf *renderer.PixelBuffer, quality int) error {
	if buf == nil {
		return errors.New("no pixel data to encode")
	}
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("invalid JPEG quality %d", quality)
	}
	return jpeg.Encode(w, buf.ToRGBA(), &jpeg.Options{Quality: quality})
}

// ProbeWritable makes sure filename's directory accepts new files before a render
// starts, so an unwritable path fails fast instead of after the pixel loop. The
// probe uses a temporary sibling and leaves filename itself untouched.
func ProbeWritable(filename string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create output directory: %w", err)
		}
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("could not write to %s: %w", dir, err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}

func writePPMFile(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := EncodePPM(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// fitToTemplate copies buf onto a canvas of the template's size. Pixels outside buf
// take the background and pixels outside the template are dropped.
func fitToTemplate(buf *renderer.PixelBuffer, tmpl Template, background renderer.Pixel) *renderer.PixelBuffer {
	if tmpl.Width == buf.Width && tmpl.Height == buf.Height {
		return buf
	}

	out := renderer.NewPixelBuffer(tmpl.Width, tmpl.Height)
	out.Fill(background)
	for row := 0; row < min(buf.Width, tmpl.Width); row++ {
		for col := 0; col < min(buf.Height, tmpl.Height); col++ {
			out.Set(row, col, buf.At(row, col))
		}
	}
	return out
}

func drawCaption(img *image.RGBA, caption string) {
	dc := gg.NewContextForRGBA(img)
	w := float64(dc.Width())
	h := float64(dc.Height())

	_, textHeight := dc.MeasureString(caption)
	band := textHeight + 6

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, h-band, w, band)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(caption, 4, h-band/2, 0, 0.5)
}
