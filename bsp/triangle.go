// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"lidefer/math/vec"
)

// Triangle is a collision triangle with its supporting plane. The plane
// normal follows the winding: counter clockwise vertices face the viewer.
type Triangle struct {
	V     [3]vec.Vec3
	Plane Plane
}

const degenerateArea = 1e-6

func newTriangle(a, b, c vec.Vec3) (Triangle, bool) {
	n := vec.Cross(vec.Sub(b, a), vec.Sub(c, a))
	l := n.Length()
	if l*0.5 < degenerateArea {
		return Triangle{}, false
	}
	return Triangle{
		V:     [3]vec.Vec3{a, b, c},
		Plane: newPlane(n.Scale(1/l), a),
	}, true
}

// contains reports whether the projection of p onto the triangle plane lies
// inside the triangle.
func (t *Triangle) contains(p vec.Vec3) bool {
	const eps = -1e-4
	n := t.Plane.Normal
	for i := 0; i < 3; i++ {
		a := t.V[i]
		b := t.V[(i+1)%3]
		edge := vec.Sub(b, a)
		if vec.Dot(vec.Cross(edge, vec.Sub(p, a)), n) < eps*edge.Length() {
			return false
		}
	}
	return true
}

// intersect returns the parameter t in [0,1] where the segment p0 + t*d
// crosses the triangle. Both faces are solid.
func (t *Triangle) intersect(p0, d vec.Vec3) (float32, bool) {
	const eps = 1e-7
	e1 := vec.Sub(t.V[1], t.V[0])
	e2 := vec.Sub(t.V[2], t.V[0])
	h := vec.Cross(d, e2)
	a := vec.Dot(e1, h)
	if a > -eps && a < eps {
		return 0, false
	}
	f := 1 / a
	s := vec.Sub(p0, t.V[0])
	u := f * vec.Dot(s, h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := vec.Cross(s, e1)
	v := f * vec.Dot(d, q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	frac := f * vec.Dot(e2, q)
	if frac < 0 || frac > 1 {
		return 0, false
	}
	return frac, true
}

type side int

const (
	sideFront side = iota
	sideBack
	sideSpan
)

// classify sorts a triangle relative to a split plane. Triangles lying in the
// plane count as front.
func (t *Triangle) classify(p *Plane) side {
	const eps = splitEpsilon
	minD, maxD := p.Distance(t.V[0]), p.Distance(t.V[0])
	for _, v := range t.V[1:] {
		d := p.Distance(v)
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}
	if minD >= -eps {
		return sideFront
	}
	if maxD <= eps {
		return sideBack
	}
	return sideSpan
}
