package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*Framebuffer)(nil)

// MaxSize is the largest width or height a Displayer can address with int16 coordinates
const MaxSize = math.MaxInt16

// ErrTooLarge is returned for framebuffers a Displayer cannot address
var ErrTooLarge = errors.New("display: size exceeds int16 coordinates")

// CheckSize reports whether a width x height framebuffer can be created
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxSize || height > MaxSize {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	return nil
}

// Framebuffer is an in-memory RGBA display. It satisfies drivers.Displayer so the
// same blit and font code can target it or a real panel.
type Framebuffer struct {
	img      *image.RGBA
	presents int
}

// NewFramebuffer allocates a black width x height framebuffer
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	fb := &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	fb.FillRectangle(0, 0, int16(width), int16(height), color.RGBA{A: 255})
	return fb, nil
}

func (fb *Framebuffer) Size() (x, y int16) {
	b := fb.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (fb *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if !(image.Point{X: int(x), Y: int(y)}.In(fb.img.Bounds())) {
		return
	}
	c.A = 255
	fb.img.SetRGBA(int(x), int(y), c)
}

// Display marks the current contents as presented
func (fb *Framebuffer) Display() error {
	fb.presents++
	return nil
}

// FillRectangle fills the clipped rectangle with c
func (fb *Framebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)).Intersect(fb.img.Bounds())
	c.A = 255
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			fb.img.SetRGBA(px, py, c)
		}
	}
	return nil
}

// Image exposes the backing image. Callers must not resize it.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

// Presents returns how many times Display has been called
func (fb *Framebuffer) Presents() int {
	return fb.presents
}
