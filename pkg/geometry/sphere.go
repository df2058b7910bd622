package geometry

import (
	"fmt"
	"math"

	"github.com/df07/toytracer/pkg/core"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere represents a flat-colored sphere
type Sphere struct {
	center core.Vec3
	radius float64
	clip   Clip
	color  core.Vec3
}

// NewSphere creates a sphere with the default near/far clip range
func NewSphere(center core.Vec3, radius float64, color core.Vec3) (*Sphere, error) {
	return NewSphereWithClip(center, radius, color, DefaultClip())
}

// NewSphereWithClip creates a sphere with a custom near/far clip range
func NewSphereWithClip(center core.Vec3, radius float64, color core.Vec3, clip Clip) (*Sphere, error) {
	if !center.IsFinite() || !(radius > 0) || math.IsInf(radius, 0) {
		return nil, ErrDegenerateSphere
	}
	if err := clip.Validate(); err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return &Sphere{
		center: center,
		radius: radius,
		clip:   clip,
		color:  color,
	}, nil
}

// Intersect tests an eye ray starting at the origin
func (s *Sphere) Intersect(dir core.Vec3) (float64, bool) {
	return s.IntersectRay(core.NewRay(core.Vec3{}, dir))
}

// IntersectRay tests an arbitrary ray against the sphere
func (s *Sphere) IntersectRay(ray core.Ray) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := r3.Sub(ray.Origin.R3(), s.center.R3())
	d := ray.Direction.R3()

	// Quadratic equation coefficients: at² + 2(halfB)t + c = 0
	a := r3.Dot(d, d)
	if a == 0 {
		return 0, false
	}
	halfB := r3.Dot(oc, d)
	c := r3.Dot(oc, oc) - s.radius*s.radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one
	root := (-halfB - sqrtD) / a
	if !s.clip.Contains(root) {
		root = (-halfB + sqrtD) / a
		if !s.clip.Contains(root) {
			return 0, false
		}
	}
	return root, true
}

// Center returns the sphere's center
func (s *Sphere) Center() core.Vec3 {
	return s.center
}

// Radius returns the sphere's radius
func (s *Sphere) Radius() float64 {
	return s.radius
}

// Clip returns the near/far range used by Intersect
func (s *Sphere) Clip() Clip {
	return s.clip
}

// Color returns the sphere's flat RGB color
func (s *Sphere) Color() core.Vec3 {
	return s.color
}

// SetColor replaces the flat color. Components are expected in [0,1] and are not clamped.
func (s *Sphere) SetColor(color core.Vec3) {
	s.color = color
}

func (s *Sphere) primitive() {}
