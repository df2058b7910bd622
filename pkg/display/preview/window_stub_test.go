//go:build !cgo || !preview

package preview

import (
	"errors"
	"testing"

	"github.com/df07/toytracer/pkg/display"
)

func TestRunWindow_Unsupported(t *testing.T) {
	fb, err := display.NewFramebuffer(2, 2)
	if err != nil {
		t.Fatalf("NewFramebuffer failed: %v", err)
	}
	err = RunWindow("test", fb, 1)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}
