package geometry

import (
	"fmt"

	"github.com/df07/toytracer/pkg/core"
)

// triangleCoefficients holds everything about the ray-triangle system that depends
// only on the vertices. For an eye ray with direction (g,h,i) the system is
//
//	[a d g][beta ]   [j]
//	[b e h][gamma] = [k]
//	[c f i][t    ]   [l]
//
// with (a,b,c) = A-B, (d,e,f) = A-C and (j,k,l) = A, the eye being at the origin.
type triangleCoefficients struct {
	a, b, c float64
	d, e, f float64
	j, k, l float64

	akjb, jcal, blkc float64

	// Matrix columns for the cofactor expansions of M and beta
	colAB, colAC, colA core.Vec3
}

func newTriangleCoefficients(va, vb, vc core.Vec3) triangleCoefficients {
	co := triangleCoefficients{
		a: va.X - vb.X,
		b: va.Y - vb.Y,
		c: va.Z - vb.Z,
		d: va.X - vc.X,
		e: va.Y - vc.Y,
		f: va.Z - vc.Z,
		j: va.X,
		k: va.Y,
		l: va.Z,
	}
	co.akjb = co.a*co.k - co.j*co.b
	co.jcal = co.j*co.c - co.a*co.l
	co.blkc = co.b*co.l - co.k*co.c
	co.colAB = core.NewVec3(co.a, co.b, co.c)
	co.colAC = core.NewVec3(co.d, co.e, co.f)
	co.colA = va
	return co
}

// Triangle represents a flat-colored triangle defined by three vertices
type Triangle struct {
	va, vb, vc core.Vec3
	clip       Clip
	color      core.Vec3
	coeff      triangleCoefficients // Fixed at construction
}

// NewTriangle creates a triangle with the default near/far clip range
func NewTriangle(a, b, c core.Vec3, color core.Vec3) (*Triangle, error) {
	return NewTriangleWithClip(a, b, c, color, DefaultClip())
}

// NewTriangleWithClip creates a triangle with a custom near/far clip range.
// Collinear or non-finite vertices are rejected.
func NewTriangleWithClip(a, b, c core.Vec3, color core.Vec3, clip Clip) (*Triangle, error) {
	if !a.IsFinite() || !b.IsFinite() || !c.IsFinite() {
		return nil, ErrDegenerateTriangle
	}
	if b.Subtract(a).Cross(c.Subtract(a)).Length() == 0 {
		return nil, ErrDegenerateTriangle
	}
	if err := clip.Validate(); err != nil {
		return nil, fmt.Errorf("triangle: %w", err)
	}

	return &Triangle{
		va:    a,
		vb:    b,
		vc:    c,
		clip:  clip,
		color: color,
		coeff: newTriangleCoefficients(a, b, c),
	}, nil
}

// Intersect solves the ray-triangle system with Cramer's rule. Rejection happens in
// order: t outside the clip range, gamma outside [0,1], beta outside [0,1-gamma].
// A singular system (ray parallel to the plane) is a miss.
func (tr *Triangle) Intersect(dir core.Vec3) (float64, bool) {
	co := &tr.coeff
	m := core.Det3(co.colAB, co.colAC, dir)
	if m == 0 {
		return 0, false
	}

	t := -(co.f*co.akjb + co.e*co.jcal + co.d*co.blkc) / m
	if !tr.clip.Contains(t) {
		return 0, false
	}

	gamma := (dir.Z*co.akjb + dir.Y*co.jcal + dir.X*co.blkc) / m
	if !(gamma >= 0 && gamma <= 1) {
		return 0, false
	}

	beta := core.Det3(co.colA, co.colAC, dir) / m
	if !(beta >= 0 && beta <= 1-gamma) {
		return 0, false
	}

	return t, true
}

// Vertices returns the triangle's vertices in construction order
func (tr *Triangle) Vertices() (a, b, c core.Vec3) {
	return tr.va, tr.vb, tr.vc
}

// Clip returns the near/far range used by Intersect
func (tr *Triangle) Clip() Clip {
	return tr.clip
}

// Color returns the triangle's flat RGB color
func (tr *Triangle) Color() core.Vec3 {
	return tr.color
}

// SetColor replaces the flat color. Components are expected in [0,1] and are not clamped.
func (tr *Triangle) SetColor(color core.Vec3) {
	tr.color = color
}

func (tr *Triangle) primitive() {}
