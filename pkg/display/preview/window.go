//go:build cgo && preview

package preview

import (
	"errors"

	"github.com/df07/toytracer/pkg/display"
	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow shows fb in a desktop window scaled by scale until the window is
// closed or Escape is pressed. It blocks and must run on the main goroutine.
func RunWindow(title string, fb *display.Framebuffer, scale int) error {
	if fb == nil {
		return errors.New("preview: nil framebuffer")
	}
	if scale < 1 {
		scale = 1
	}

	w, h := fb.Size()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(w)*scale, int(h)*scale)
	ebiten.SetTPS(30)

	err := ebiten.RunGame(&previewGame{fb: fb})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type previewGame struct {
	fb    *display.Framebuffer
	fbImg *ebiten.Image
}

func (g *previewGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	// The framebuffer is filled before the window opens, so one upload is enough
	if g.fbImg == nil {
		img := g.fb.Image()
		g.fbImg = ebiten.NewImage(img.Bounds().Dx(), img.Bounds().Dy())
		g.fbImg.WritePixels(img.Pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.fb.Size()
	return int(w), int(h)
}
