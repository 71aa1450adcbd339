// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"

	"lidefer/math/vec"
)

const (
	// MaxPushIterations bounds the number of sweeps PushSphere makes.
	MaxPushIterations = 8
	// pushEpsilon keeps a sphere resting exactly on a plane from being
	// pushed again.
	pushEpsilon = 1e-3
)

// PushSphere moves a sphere out of every triangle it penetrates. Each
// penetrated triangle displaces the centre away from the plane, on the side
// the centre is on, until the sphere rests on it. Sweeps repeat until nothing moves or
// MaxPushIterations is reached. The second return reports any movement.
func (t *Tree) PushSphere(pos vec.Vec3, radius float32) (vec.Vec3, bool) {
	if len(t.nodes) == 0 || radius <= 0 {
		return pos, false
	}
	pushed := false
	for i := 0; i < MaxPushIterations; i++ {
		if !t.recursivePush(0, &pos, radius) {
			return pos, pushed
		}
		pushed = true
	}
	slog.Debug("bsp: push iteration cap reached", "pos", pos, "radius", radius)
	return pos, pushed
}

func (t *Tree) recursivePush(num int32, pos *vec.Vec3, radius float32) bool {
	n := &t.nodes[num]
	if n.leaf() {
		pushed := false
		for _, i := range t.leafTris[n.first : n.first+n.count] {
			tri := &t.tris[i]
			d := tri.Plane.Distance(*pos)
			if d >= radius-pushEpsilon || d <= -radius+pushEpsilon {
				continue
			}
			if !tri.contains(*pos) {
				continue
			}
			// a centre behind the plane leaves through the back face
			if d < 0 {
				*pos = vec.MulAdd(*pos, tri.Plane.Normal, -radius-d)
			} else {
				*pos = vec.MulAdd(*pos, tri.Plane.Normal, radius-d)
			}
			pushed = true
		}
		return pushed
	}
	d := n.plane.Distance(*pos)
	pushed := false
	if d > -radius-splitEpsilon {
		pushed = t.recursivePush(n.children[0], pos, radius)
	}
	// pos may have moved in the front child
	d = n.plane.Distance(*pos)
	if d < radius+splitEpsilon {
		if t.recursivePush(n.children[1], pos, radius) {
			pushed = true
		}
	}
	return pushed
}
