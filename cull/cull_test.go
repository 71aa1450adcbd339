// SPDX-License-Identifier: GPL-2.0-or-later

package cull

import (
	"testing"

	"lidefer/math/vec"
	"lidefer/render"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	width  = 800
	height = 600
)

func camera(eye, center mgl32.Vec3) (mgl32.Mat4, mgl32.Mat4) {
	view := mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(1.2, float32(width)/float32(height), 5, 4000)
	return view, proj
}

// project returns the pixel position of p, false when it is not in front of
// the near plane.
func project(view, proj mgl32.Mat4, p vec.Vec3) (float32, float32, bool) {
	c := proj.Mul4(view).Mul4x1(mgl32.Vec4{p.X, p.Y, p.Z, 1})
	if c.W() <= 5 {
		return 0, 0, false
	}
	x := (c.X()/c.W() + 1) * 0.5 * width
	y := (c.Y()/c.W() + 1) * 0.5 * height
	return x, y, true
}

func sphereSamples(pos vec.Vec3, r float32) []vec.Vec3 {
	var s []vec.Vec3
	for i := 0; i <= 16; i++ {
		theta := math32.Pi * float32(i) / 16
		for j := 0; j < 32; j++ {
			phi := 2 * math32.Pi * float32(j) / 32
			s = append(s, vec.Add(pos, vec.Vec3{
				X: r * math32.Sin(theta) * math32.Cos(phi),
				Y: r * math32.Cos(theta),
				Z: r * math32.Sin(theta) * math32.Sin(phi),
			}))
		}
	}
	return s
}

func TestSphereContainsSilhouette(t *testing.T) {
	view, proj := camera(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	tests := []struct {
		pos vec.Vec3
		r   float32
	}{
		{vec.Vec3{Z: -500}, 50},
		{vec.Vec3{X: 120, Y: -80, Z: -400}, 90},
		{vec.Vec3{X: -300, Y: 200, Z: -900}, 200},
		{vec.Vec3{X: 10, Y: 5, Z: -60}, 40},
	}
	for _, tc := range tests {
		res := Sphere(view, proj, tc.pos, tc.r, width, height)
		require.True(t, res.Enabled, "sphere %v", tc.pos)
		inside := 0
		for _, p := range sphereSamples(tc.pos, tc.r) {
			x, y, ok := project(view, proj, p)
			if !ok || x < 0 || x >= width || y < 0 || y >= height {
				continue
			}
			inside++
			assert.True(t, res.Rect.Contains(int(x), int(y)),
				"sphere %v point %v at %v,%v outside %v", tc.pos, p, x, y, res.Rect)
		}
		assert.Greater(t, inside, 0)
	}
}

func TestSphereTightness(t *testing.T) {
	view, proj := camera(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	res := Sphere(view, proj, vec.Vec3{Z: -1000}, 20, width, height)
	require.True(t, res.Enabled)
	assert.Less(t, res.Rect.W, width/4)
	assert.Less(t, res.Rect.H, height/4)
	assert.True(t, res.Rect.Contains(width/2, height/2))
}

func TestSphereDisabled(t *testing.T) {
	view, proj := camera(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	tests := []struct {
		name string
		pos  vec.Vec3
		r    float32
	}{
		{"behind", vec.Vec3{Z: 100}, 30},
		{"behind near plane", vec.Vec3{X: 3, Z: -1.5}, 1},
		{"left", vec.Vec3{X: -2000, Z: -100}, 30},
		{"above", vec.Vec3{Y: 2000, Z: -100}, 30},
		{"zero radius", vec.Vec3{Z: -100}, 0},
		{"negative radius", vec.Vec3{Z: -100}, -5},
	}
	for _, tc := range tests {
		res := Sphere(view, proj, tc.pos, tc.r, width, height)
		assert.False(t, res.Enabled, tc.name)
		assert.True(t, res.Rect.Empty(), tc.name)
	}
}

func TestCameraInsideSphere(t *testing.T) {
	view, proj := camera(mgl32.Vec3{10, 20, 30}, mgl32.Vec3{10, 20, 0})
	res := Sphere(view, proj, vec.Vec3{X: 15, Y: 20, Z: 30}, 50, width, height)
	assert.Equal(t, Result{Enabled: true, Rect: render.Rect{W: width, H: height}}, res)
}

func TestSphereCrossingNearPlane(t *testing.T) {
	view, proj := camera(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	// centre between eye and near plane, camera outside the sphere
	res := Sphere(view, proj, vec.Vec3{X: 30, Z: -2}, 25, width, height)
	require.True(t, res.Enabled)
	assert.Greater(t, res.Rect.X+res.Rect.W, width/2)
	assert.Equal(t, width, res.Rect.X+res.Rect.W)
}

type spheres []vec.Vec3

func (s spheres) Len() int { return len(s) }
func (s spheres) Sphere(i int) (vec.Vec3, float32) {
	if i == 0 {
		return s[i], 0
	}
	return s[i], 40
}

func TestLights(t *testing.T) {
	view, proj := camera(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	src := spheres{{Z: -300}, {Z: -300}, {Z: 300}}
	res := Lights(view, proj, src, width, height)
	require.Len(t, res, 3)
	assert.False(t, res[0].Enabled)
	assert.True(t, res[1].Enabled)
	assert.False(t, res[2].Enabled)
}
