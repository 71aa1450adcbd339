// SPDX-License-Identifier: GPL-2.0-or-later

package camera

import (
	"testing"

	"lidefer/bsp"
	"lidefer/math/vec"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxes(t *testing.T) {
	c := New(vec.Vec3{})
	c.Pitch, c.Yaw = 0, 0
	f, r, u := c.Axes()
	assert.True(t, vec.Near(vec.Vec3{Z: -1}, f, 1e-6), "forward %v", f)
	assert.True(t, vec.Near(vec.Vec3{X: 1}, r, 1e-6), "right %v", r)
	assert.True(t, vec.Near(vec.Vec3{Y: 1}, u, 1e-6), "up %v", u)

	c.Yaw = -90
	f, _, _ = c.Axes()
	assert.True(t, vec.Near(vec.Vec3{X: 1}, f, 1e-5), "forward %v", f)
}

func TestViewLooksForward(t *testing.T) {
	c := New(vec.Vec3{X: 10, Y: 20, Z: 30})
	f, _, _ := c.Axes()
	p := vec.MulAdd(c.Pos, f, 100)
	v := c.View().Mul4x1(mgl32.Vec4{p.X, p.Y, p.Z, 1})
	assert.InDelta(t, 0, v.X(), 1e-3)
	assert.InDelta(t, 0, v.Y(), 1e-3)
	assert.InDelta(t, -100, v.Z(), 1e-3)
}

func TestProjectionFov(t *testing.T) {
	p := Projection(800, 600)
	// a point on the edge of the horizontal field of view lands on x = 1
	half := float32(FovX / 2)
	z := float32(-100)
	x := -z * math32.Tan(half)
	c := p.Mul4x1(mgl32.Vec4{x, 0, z, 1})
	assert.InDelta(t, 1, c.X()/c.W(), 1e-4)
}

func TestTurnClampsPitch(t *testing.T) {
	c := New(vec.Vec3{})
	c.Turn(500, 400)
	assert.Equal(t, float32(89), c.Pitch)
	assert.GreaterOrEqual(t, c.Yaw, float32(0))
	assert.Less(t, c.Yaw, float32(360))
}

func wall(t *testing.T) *bsp.Tree {
	// a wall at x = 100 facing the origin
	verts := []vec.Vec3{
		{X: 100, Y: -500, Z: -500},
		{X: 100, Y: 500, Z: -500},
		{X: 100, Y: 500, Z: 500},
		{X: 100, Y: -500, Z: 500},
	}
	tree, err := bsp.Build(verts, []uint32{0, 2, 1, 0, 3, 2})
	require.NoError(t, err)
	return tree
}

func TestMoveCollides(t *testing.T) {
	c := New(vec.Vec3{})
	c.Move(wall(t), vec.Vec3{X: 1}, 1)
	assert.InDelta(t, 100-Radius, c.Pos.X, 1e-3)

	// moving along the wall is free
	c.Move(wall(t), vec.Vec3{Z: 1}, 0.1)
	assert.InDelta(t, 100-Radius, c.Pos.X, 1e-3)
	assert.InDelta(t, 100, c.Pos.Z, 1e-3)
}

func TestReset(t *testing.T) {
	start := vec.Vec3{X: 1, Y: 2, Z: 3}
	c := New(start)
	c.Move(nil, vec.Vec3{Y: 1}, 1)
	c.Turn(10, 10)
	c.Reset()
	assert.Equal(t, start, c.Pos)
	assert.Equal(t, float32(startPitch), c.Pitch)
}
