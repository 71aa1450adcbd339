// SPDX-License-Identifier: GPL-2.0-or-later

// Package camera holds the viewer pose and derives the view and projection
// transforms from it.
package camera

import (
	"lidefer/bsp"
	"lidefer/math"
	"lidefer/math/vec"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FovX is the horizontal field of view in radians.
	FovX = 1.5
	Near = 5
	Far  = 4000
	// Radius is the size of the sphere the camera collides as.
	Radius = 30
	// Speed is the movement speed in units per second.
	Speed = 1000

	startPitch = 3.63
	startYaw   = -90.5
)

type Collider interface {
	Intersect(p0, p1 vec.Vec3) (bsp.Hit, bool)
	PushSphere(pos vec.Vec3, radius float32) (vec.Vec3, bool)
}

// Camera is a first person viewer. Angles are in degrees, a yaw of 0 looks
// down -z.
type Camera struct {
	Pos   vec.Vec3
	Pitch float32
	Yaw   float32

	start vec.Vec3
}

func New(start vec.Vec3) *Camera {
	c := &Camera{start: start}
	c.Reset()
	return c
}

// Reset moves the camera back to its start pose.
func (c *Camera) Reset() {
	c.Pos = c.start
	c.Pitch = startPitch
	c.Yaw = startYaw
}

// Turn rotates the camera by the given deltas in degrees.
func (c *Camera) Turn(dPitch, dYaw float32) {
	c.Pitch = math.ClampPitch(c.Pitch + dPitch)
	c.Yaw = math.AngleMod(c.Yaw + dYaw)
}

func (c *Camera) rotation() mgl32.Mat3 {
	return mgl32.Rotate3DY(math.Deg2Rad(c.Yaw)).Mul3(mgl32.Rotate3DX(math.Deg2Rad(c.Pitch)))
}

// Axes returns the world space forward, right and up directions.
func (c *Camera) Axes() (forward, right, up vec.Vec3) {
	r := c.rotation()
	conv := func(v mgl32.Vec3) vec.Vec3 {
		return vec.Vec3{X: v.X(), Y: v.Y(), Z: v.Z()}
	}
	return conv(r.Mul3x1(mgl32.Vec3{0, 0, -1})),
		conv(r.Mul3x1(mgl32.Vec3{1, 0, 0})),
		conv(r.Mul3x1(mgl32.Vec3{0, 1, 0}))
}

// View returns the world to view transform.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(-math.Deg2Rad(c.Pitch)).
		Mul4(mgl32.HomogRotate3DY(-math.Deg2Rad(c.Yaw))).
		Mul4(mgl32.Translate3D(-c.Pos.X, -c.Pos.Y, -c.Pos.Z))
}

// Projection returns the perspective transform for a viewport with a fixed
// horizontal field of view.
func Projection(width, height int) mgl32.Mat4 {
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	aspect := float32(width) / float32(height)
	fovY := 2 * math32.Atan(math32.Tan(FovX/2)/aspect)
	return mgl32.Perspective(fovY, aspect, Near, Far)
}

// Move walks the camera along dir for dt seconds. A wall in the way stops it
// just in front of the surface, then the camera sphere is pushed out of any
// geometry it overlaps.
func (c *Camera) Move(world Collider, dir vec.Vec3, dt float32) {
	if dir.LengthSquared() == 0 || dt <= 0 {
		return
	}
	next := vec.MulAdd(c.Pos, dir, Speed*dt)
	if world == nil {
		c.Pos = next
		return
	}
	if hit, ok := world.Intersect(c.Pos, next); ok {
		n := hit.Normal
		if vec.Dot(n, dir) > 0 {
			// walls are solid from both sides
			n = n.Scale(-1)
		}
		next = vec.Add(hit.Point, n)
	}
	next, _ = world.PushSphere(next, Radius)
	c.Pos = next
}
