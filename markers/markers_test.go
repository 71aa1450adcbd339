// SPDX-License-Identifier: GPL-2.0-or-later

package markers

import (
	"testing"

	"lidefer/lights"
	"lidefer/math/vec"
	"lidefer/render"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPass(t *testing.T) {
	dev := render.NewRecorder(render.Caps{})
	m, err := New(dev)
	require.NoError(t, err)

	s := lights.NewSet()
	for i := 0; i < s.Len(); i++ {
		s.At(i).Enabled = false
	}
	require.NoError(t, s.Place(5, vec.Vec3{X: 10}, vec.Vec3{X: 1, Y: 0.5}, 200))
	require.NoError(t, s.Place(9, vec.Vec3{Y: 10}, vec.Vec3{Z: 1}, 50))
	s.At(5).Enabled = true
	s.At(9).Enabled = true

	view := mgl32.HomogRotate3DY(mgl32.DegToRad(90))
	p := m.Pass(view, mgl32.Ident4(), s)
	assert.Equal(t, render.BlendAdd, p.State.Blend)
	assert.False(t, p.State.Depth.Write)
	assert.True(t, p.Constants["right"].(mgl32.Vec3).ApproxEqual(view.Row(0).Vec3()))

	require.NoError(t, render.NewRunner(dev).Run([]render.Pass{p}))
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, float32(20), dev.Draws[0].Constants["size"])
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0}, dev.Draws[0].Constants["color"])
	assert.Equal(t, float32(5), dev.Draws[1].Constants["size"])
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, dev.Draws[1].Constants["center"])
	assert.Equal(t, 6, dev.Draws[1].Count)
}

func TestPassWithoutLights(t *testing.T) {
	dev := render.NewRecorder(render.Caps{})
	m, err := New(dev)
	require.NoError(t, err)
	s := lights.NewSet()
	for i := 0; i < s.Len(); i++ {
		s.At(i).Enabled = false
	}
	p := m.Pass(mgl32.Ident4(), mgl32.Ident4(), s)
	assert.Empty(t, p.Draw)
}
