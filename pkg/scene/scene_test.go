package scene

import (
	"testing"

	"github.com/df07/toytracer/pkg/core"
	"github.com/df07/toytracer/pkg/geometry"
)

var (
	green = core.NewVec3(0, 1, 0)
	red   = core.NewVec3(1, 0, 0)
)

// bigTriangle returns a triangle in the plane z that covers the view around -Z
func bigTriangle(t *testing.T, z float64, color core.Vec3) *geometry.Triangle {
	t.Helper()
	tri, err := geometry.NewTriangle(
		core.NewVec3(-10, -10, z),
		core.NewVec3(10, -10, z),
		core.NewVec3(0, 10, z),
		color)
	if err != nil {
		t.Fatalf("NewTriangle failed: %v", err)
	}
	return tri
}

func TestScene_EmptyNeverHits(t *testing.T) {
	for _, policy := range []HitPolicy{LastHit, NearestHit} {
		s := NewScene(policy)
		for _, dir := range []core.Vec3{
			core.NewVec3(0, 0, -1),
			core.NewVec3(1, -1, -1),
			core.NewVec3(0, 0, 1),
		} {
			if c, ok := s.Resolve(dir); ok {
				t.Errorf("%v: expected no hit for %v, got %v", policy, dir, c)
			}
		}
	}
}

func TestScene_HitPolicies(t *testing.T) {
	dir := core.NewVec3(0, 0, -1)

	tests := []struct {
		name          string
		policy        HitPolicy
		nearFirst     bool
		expectedColor core.Vec3
		expectedIndex int
	}{
		{"last hit, near listed first", LastHit, true, red, 1},
		{"last hit, far listed first", LastHit, false, green, 1},
		{"nearest hit, near listed first", NearestHit, true, green, 0},
		{"nearest hit, far listed first", NearestHit, false, green, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			near := bigTriangle(t, -2, green)
			far := bigTriangle(t, -5, red)

			s := NewScene(tt.policy, near, far)
			if !tt.nearFirst {
				s = NewScene(tt.policy, far, near)
			}

			hit, ok := s.ResolveHit(dir)
			if !ok {
				t.Fatal("Expected hit")
			}
			if hit.Color != tt.expectedColor {
				t.Errorf("Expected color %v, got %v", tt.expectedColor, hit.Color)
			}
			if hit.Index != tt.expectedIndex {
				t.Errorf("Expected index %d, got %d", tt.expectedIndex, hit.Index)
			}

			c, ok := s.Resolve(dir)
			if !ok || c != tt.expectedColor {
				t.Errorf("Resolve returned (%v, %v), want (%v, true)", c, ok, tt.expectedColor)
			}
		})
	}
}

func TestScene_NearestHitTieKeepsEarlier(t *testing.T) {
	first := bigTriangle(t, -3, green)
	second := bigTriangle(t, -3, red)
	dir := core.NewVec3(0.1, 0.1, -1)

	hit, ok := NewScene(NearestHit, first, second).ResolveHit(dir)
	if !ok || hit.Index != 0 || hit.Color != green {
		t.Errorf("Nearest hit tie: got %+v, want index 0 green", hit)
	}

	hit, ok = NewScene(LastHit, first, second).ResolveHit(dir)
	if !ok || hit.Index != 1 || hit.Color != red {
		t.Errorf("Last hit tie: got %+v, want index 1 red", hit)
	}
}

func TestScene_MixedPrimitives(t *testing.T) {
	sphere, err := geometry.NewSphere(core.NewVec3(0, 0, -4), 1, red)
	if err != nil {
		t.Fatal(err)
	}
	wall := bigTriangle(t, -8, green)

	s := NewScene(NearestHit, wall, sphere)
	hit, ok := s.ResolveHit(core.NewVec3(0, 0, -1))
	if !ok || hit.Color != red || hit.T != 3 {
		t.Errorf("Expected sphere at t=3, got %+v", hit)
	}

	// Off the sphere only the wall remains
	hit, ok = s.ResolveHit(core.NewVec3(0.5, 0, -1))
	if !ok || hit.Color != green {
		t.Errorf("Expected wall, got %+v (ok=%v)", hit, ok)
	}
}

func TestScene_ResolveDoesNotMutate(t *testing.T) {
	near := bigTriangle(t, -2, green)
	far := bigTriangle(t, -5, red)
	s := NewScene(LastHit, near, far)

	for i := 0; i < 10; i++ {
		s.Resolve(core.NewVec3(0, 0, -1))
	}
	if s.GetPrimitiveCount() != 2 || s.Primitives[0] != near || s.Primitives[1] != far {
		t.Error("Primitive list changed during resolution")
	}
	if near.Color() != green || far.Color() != red {
		t.Error("Primitive colors changed during resolution")
	}
}

func TestParseHitPolicy(t *testing.T) {
	tests := []struct {
		input       string
		expected    HitPolicy
		expectError bool
	}{
		{"", LastHit, false},
		{"last", LastHit, false},
		{"NEAREST", NearestHit, false},
		{"closest", LastHit, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseHitPolicy(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, p)
			}
		})
	}
}
