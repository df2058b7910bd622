package geometry

import (
	"errors"

	"github.com/df07/toytracer/pkg/core"
)

// Default clipping distances along the ray
const (
	DefaultNear = 1.0
	DefaultFar  = 30.0
)

var (
	ErrDegenerateTriangle = errors.New("degenerate triangle: vertices are collinear or not finite")
	ErrDegenerateSphere   = errors.New("degenerate sphere: radius must be positive and finite")
	ErrInvalidClip        = errors.New("invalid clip range: need 0 <= near <= far")
)

// Primitive is a shape that can be tested against eye rays and carries a flat color.
// Eye rays start at the world origin. The set of primitives is closed: Triangle and
// Sphere are the only implementations.
type Primitive interface {
	// Intersect reports whether the eye ray with direction dir hits the primitive
	// within its clip range, and the ray parameter t of that hit.
	Intersect(dir core.Vec3) (float64, bool)
	Color() core.Vec3
	SetColor(color core.Vec3)

	primitive()
}

// Clip bounds the ray parameter t of a valid intersection. Both ends are inclusive.
type Clip struct {
	Near float64
	Far  float64
}

// DefaultClip returns the near=1, far=30 slab
func DefaultClip() Clip {
	return Clip{Near: DefaultNear, Far: DefaultFar}
}

// Contains reports whether t lies in [Near, Far]. NaN is never contained.
func (c Clip) Contains(t float64) bool {
	return t >= c.Near && t <= c.Far
}

// Validate checks that the clip range is usable
func (c Clip) Validate() error {
	if !(c.Near >= 0 && c.Near <= c.Far) {
		return ErrInvalidClip
	}
	return nil
}
