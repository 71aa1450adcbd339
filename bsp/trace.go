// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"lidefer/math/vec"

	"github.com/chewxy/math32"
)

// Hit describes where a segment first touches the tree.
type Hit struct {
	Point    vec.Vec3
	Normal   vec.Vec3
	Triangle int
	// Fraction is the position of Point along the segment, 0 at the start.
	Fraction float32
}

// Intersect returns the hit closest to p0 on the segment p0-p1.
func (t *Tree) Intersect(p0, p1 vec.Vec3) (Hit, bool) {
	if len(t.nodes) == 0 {
		return Hit{}, false
	}
	d := vec.Sub(p1, p0)
	frac, tri, ok := t.recursiveIntersect(0, p0, p1, d)
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Point:    vec.MulAdd(p0, d, frac),
		Normal:   t.tris[tri].Plane.Normal,
		Triangle: int(tri),
		Fraction: frac,
	}, true
}

// recursiveIntersect always descends into the child on the side of p0 first.
// A hit there that lies before the plane crossing is the closest possible and
// ends the search. Fractions are relative to the whole segment.
func (t *Tree) recursiveIntersect(num int32, p0, p1, d vec.Vec3) (float32, int32, bool) {
	n := &t.nodes[num]
	if n.leaf() {
		return t.leafIntersect(n, p0, d)
	}
	d0 := n.plane.Distance(p0)
	d1 := n.plane.Distance(p1)
	if d0 > splitEpsilon && d1 > splitEpsilon {
		return t.recursiveIntersect(n.children[0], p0, p1, d)
	}
	if d0 < -splitEpsilon && d1 < -splitEpsilon {
		return t.recursiveIntersect(n.children[1], p0, p1, d)
	}

	near := 0
	if d0 < 0 {
		near = 1
	}
	// crossing point and the slack the split epsilon allows around it
	cross, slack := float32(1), float32(1)
	if dd := d0 - d1; dd != 0 {
		cross = d0 / dd
		slack = splitEpsilon / math32.Abs(dd)
	}

	frac, tri, ok := t.recursiveIntersect(n.children[near], p0, p1, d)
	if ok && frac < cross-slack {
		return frac, tri, true
	}
	ffrac, ftri, fok := t.recursiveIntersect(n.children[near^1], p0, p1, d)
	switch {
	case ok && fok:
		if ffrac < frac {
			return ffrac, ftri, true
		}
		return frac, tri, true
	case fok:
		return ffrac, ftri, true
	}
	return frac, tri, ok
}

func (t *Tree) leafIntersect(n *node, p0, d vec.Vec3) (float32, int32, bool) {
	best := float32(2)
	bestTri := int32(-1)
	for _, i := range t.leafTris[n.first : n.first+n.count] {
		if f, ok := t.tris[i].intersect(p0, d); ok && f < best {
			best, bestTri = f, i
		}
	}
	return best, bestTri, bestTri >= 0
}

// IntersectBrute tests every triangle. It is the reference the tree traversal
// has to agree with.
func (t *Tree) IntersectBrute(p0, p1 vec.Vec3) (Hit, bool) {
	d := vec.Sub(p1, p0)
	best := float32(2)
	bestTri := -1
	for i := range t.tris {
		if f, ok := t.tris[i].intersect(p0, d); ok && f < best {
			best, bestTri = f, i
		}
	}
	if bestTri < 0 {
		return Hit{}, false
	}
	return Hit{
		Point:    vec.MulAdd(p0, d, best),
		Normal:   t.tris[bestTri].Plane.Normal,
		Triangle: bestTri,
		Fraction: best,
	}, true
}
