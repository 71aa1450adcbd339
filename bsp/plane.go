// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"lidefer/math/vec"

	"github.com/chewxy/math32"
)

const (
	planeX = iota
	planeY
	planeZ
	planeAnyX
	planeAnyY
	planeAnyZ
)

// Plane is the set of points p with Dot(Normal, p) == Dist. Type 0-2 marks
// planes whose normal is a positive axis so the distance is a single
// subtraction; 3-5 name the dominant axis of a general plane.
type Plane struct {
	Normal vec.Vec3
	Dist   float32
	Type   byte
}

func newPlane(normal vec.Vec3, point vec.Vec3) Plane {
	p := Plane{
		Normal: normal,
		Dist:   vec.Dot(normal, point),
	}
	p.Type = planeType(normal)
	return p
}

func planeType(n vec.Vec3) byte {
	switch {
	case n.X == 1:
		return planeX
	case n.Y == 1:
		return planeY
	case n.Z == 1:
		return planeZ
	}
	ax, ay, az := math32.Abs(n.X), math32.Abs(n.Y), math32.Abs(n.Z)
	if ax >= ay && ax >= az {
		return planeAnyX
	}
	if ay >= az {
		return planeAnyY
	}
	return planeAnyZ
}

// Distance returns the signed distance of p to the plane. Positive is the
// front side.
func (p *Plane) Distance(v vec.Vec3) float32 {
	if p.Type < 3 {
		return v.Idx(int(p.Type)) - p.Dist
	}
	return vec.Dot(p.Normal, v) - p.Dist
}
