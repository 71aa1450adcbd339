// SPDX-License-Identifier: GPL-2.0-or-later

// Package cull computes conservative screen rectangles for light spheres.
package cull

import (
	"lidefer/math/vec"
	"lidefer/render"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SafetyFactor enlarges every sphere before it is projected. The light volume
// mesh is a polyhedron that pokes slightly out of the true sphere.
const SafetyFactor = 1.1

type Result struct {
	Enabled bool
	Rect    render.Rect
}

// Source is a set of spheres addressed by index.
type Source interface {
	Len() int
	Sphere(i int) (pos vec.Vec3, radius float32)
}

// Lights culls every sphere of src. The result has one entry per index.
func Lights(view, proj mgl32.Mat4, src Source, width, height int) []Result {
	r := make([]Result, src.Len())
	for i := range r {
		pos, radius := src.Sphere(i)
		r[i] = Sphere(view, proj, pos, radius, width, height)
	}
	return r
}

// Sphere projects the sphere at world position pos to the screen. Spheres
// behind the near plane or outside the frustum are disabled, as are spheres
// without radius. The rect is clipped to the framebuffer.
func Sphere(view, proj mgl32.Mat4, pos vec.Vec3, radius float32, width, height int) Result {
	if radius <= 0 || width <= 0 || height <= 0 {
		return Result{}
	}
	r := radius * SafetyFactor
	c := view.Mul4x1(mgl32.Vec4{pos.X, pos.Y, pos.Z, 1})
	if c.X()*c.X()+c.Y()*c.Y()+c.Z()*c.Z() <= r*r {
		return Result{Enabled: true, Rect: render.Rect{W: width, H: height}}
	}
	nearZ := -nearDistance(proj)
	if c.Z()-r >= nearZ {
		return Result{}
	}
	minX, maxX := axisBounds(c.X(), c.Z(), r, nearZ, proj.At(0, 0))
	minY, maxY := axisBounds(c.Y(), c.Z(), r, nearZ, proj.At(1, 1))
	if maxX <= -1 || minX >= 1 || maxY <= -1 || minY >= 1 {
		return Result{}
	}
	x0, x1 := toPixels(minX, maxX, width)
	y0, y1 := toPixels(minY, maxY, height)
	rect := render.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	if rect.Empty() {
		return Result{}
	}
	return Result{Enabled: true, Rect: rect}
}

// nearDistance recovers the near plane distance of a right handed
// perspective matrix.
func nearDistance(proj mgl32.Mat4) float32 {
	return proj.At(2, 3) / (proj.At(2, 2) - 1)
}

// axisBounds returns the projected extent along one screen axis. The circle
// (a, z) with radius r is the sphere seen along the other screen axis. Its two
// tangent lines through the eye bound the projection. When a tangent point
// lies in front of the near plane, the points where the circle crosses the
// near plane bound the visible arc instead.
func axisBounds(a, z, r, nearZ, focal float32) (float32, float32) {
	l2 := a*a + z*z
	t2 := l2 - r*r
	if t2 <= 0 {
		return -1, 1
	}
	l := math32.Sqrt(l2)
	cos := math32.Sqrt(t2) / l
	sin := r / l

	lo, hi := float32(1), float32(-1)
	add := func(pa, pz float32) {
		ndc := focal * pa / -pz
		lo = math32.Min(lo, ndc)
		hi = math32.Max(hi, ndc)
	}
	clipped := false
	for _, s := range [2]float32{sin, -sin} {
		// rotate the centre onto the tangent line and shorten to the tangent point
		ta := (cos*a - s*z) * cos
		tz := (s*a + cos*z) * cos
		if tz > nearZ {
			clipped = true
			continue
		}
		add(ta, tz)
	}
	if clipped {
		k := math32.Sqrt(math32.Max(0, r*r-(nearZ-z)*(nearZ-z)))
		add(a-k, nearZ)
		add(a+k, nearZ)
	}
	return lo, hi
}

func toPixels(lo, hi float32, size int) (int, int) {
	p0 := int(math32.Floor((math32.Max(lo, -1) + 1) * 0.5 * float32(size)))
	p1 := int(math32.Ceil((math32.Min(hi, 1) + 1) * 0.5 * float32(size)))
	if p0 < 0 {
		p0 = 0
	}
	if p1 > size {
		p1 = size
	}
	return p0, p1
}
