package scene

import (
	"fmt"
	"strings"

	"github.com/df07/toytracer/pkg/core"
	"github.com/df07/toytracer/pkg/geometry"
)

// HitPolicy selects which primitive wins when an eye ray hits several
type HitPolicy int

const (
	// LastHit keeps the last intersecting primitive in insertion order, regardless of depth
	LastHit HitPolicy = iota
	// NearestHit keeps the primitive with the smallest t; equal t keeps the earlier primitive
	NearestHit
)

func (p HitPolicy) String() string {
	switch p {
	case LastHit:
		return "last"
	case NearestHit:
		return "nearest"
	default:
		return fmt.Sprintf("HitPolicy(%d)", int(p))
	}
}

// ParseHitPolicy converts "last" or "nearest" to a HitPolicy. The empty string means LastHit.
func ParseHitPolicy(s string) (HitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return LastHit, nil
	case "nearest":
		return NearestHit, nil
	default:
		return LastHit, fmt.Errorf("unknown hit policy %q (want last or nearest)", s)
	}
}

// Scene is an ordered list of primitives. Resolving a ray never modifies it.
type Scene struct {
	Primitives []geometry.Primitive // Objects in insertion order
	Policy     HitPolicy
}

// Hit describes the primitive chosen for a ray
type Hit struct {
	Index int       // Position of the primitive in Primitives
	T     float64   // Ray parameter of the intersection
	Color core.Vec3 // Flat color of the primitive
}

// NewScene creates a scene from primitives in the given order
func NewScene(policy HitPolicy, primitives ...geometry.Primitive) *Scene {
	return &Scene{
		Primitives: primitives,
		Policy:     policy,
	}
}

// Add appends a primitive. Scenes are built once, before rendering.
func (s *Scene) Add(p geometry.Primitive) {
	s.Primitives = append(s.Primitives, p)
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// ResolveHit tests every primitive in order and applies the scene's hit policy
func (s *Scene) ResolveHit(dir core.Vec3) (Hit, bool) {
	var best Hit
	found := false

	for i, p := range s.Primitives {
		t, ok := p.Intersect(dir)
		if !ok {
			continue
		}
		if s.Policy == NearestHit && found && t >= best.T {
			continue
		}
		best = Hit{Index: i, T: t, Color: p.Color()}
		found = true
	}

	return best, found
}

// Resolve returns the color of the winning primitive, or false if nothing is hit
func (s *Scene) Resolve(dir core.Vec3) (core.Vec3, bool) {
	hit, ok := s.ResolveHit(dir)
	if !ok {
		return core.Vec3{}, false
	}
	return hit.Color, true
}
