//go:build !cgo || !preview

package preview

import (
	"errors"

	"github.com/df07/toytracer/pkg/display"
)

// ErrUnsupported is returned by builds without a windowing backend
var ErrUnsupported = errors.New("preview: window support requires cgo and the preview build tag")

// RunWindow always fails in builds without the window backend
func RunWindow(title string, fb *display.Framebuffer, scale int) error {
	return ErrUnsupported
}
