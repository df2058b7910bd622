package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

const ppmMagic = "P6"

var errBadPPM = errors.New("ppm: malformed header")

func init() {
	image.RegisterFormat("ppm", ppmMagic, decodePPM, decodePPMConfig)
}

// EncodePPM writes img as a binary (P6) PPM: a short text header followed by one
// RGB byte triple per pixel in row-major order.
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", ppmMagic, bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if err := writeTriple(bw, c); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writeTriple(bw *bufio.Writer, c color.RGBA) error {
	if err := bw.WriteByte(c.R); err != nil {
		return err
	}
	if err := bw.WriteByte(c.G); err != nil {
		return err
	}
	return bw.WriteByte(c.B)
}

func readPPMHeader(br *bufio.Reader) (width, height int, err error) {
	var magic string
	var maxVal int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxVal); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errBadPPM, err)
	}
	if magic != ppmMagic || width <= 0 || height <= 0 || maxVal != 255 {
		return 0, 0, errBadPPM
	}
	// Exactly one whitespace byte separates the header from the raster
	if _, err := br.ReadByte(); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errBadPPM, err)
	}
	return width, height, nil
}

func decodePPMConfig(r io.Reader) (image.Config, error) {
	width, height, err := readPPMHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: width, Height: height}, nil
}

func decodePPM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	width, height, err := readPPMHeader(br)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	triple := make([]byte, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if _, err := io.ReadFull(br, triple); err != nil {
				return nil, fmt.Errorf("ppm: truncated raster: %w", err)
			}
			img.SetRGBA(x, y, color.RGBA{R: triple[0], G: triple[1], B: triple[2], A: 255})
		}
	}
	return img, nil
}
