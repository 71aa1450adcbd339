// SPDX-License-Identifier: GPL-2.0-or-later

package forward

import (
	"testing"

	"lidefer/lights"
	"lidefer/markers"
	"lidefer/math/vec"
	"lidefer/render"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batches struct {
	mesh render.MeshID
	mats []render.Material
}

func (b batches) Batches() int { return len(b.mats) }

func (b batches) Batch(i int) render.Drawer {
	return render.MeshRange{Mesh: b.mesh, First: i * 3, Count: 3}
}

func (b batches) Material(i int) render.Material { return b.mats[i] }

func setup(t *testing.T) (*render.Recorder, *Path, *lights.Set) {
	t.Helper()
	dev := render.NewRecorder(render.Caps{})
	mesh, err := dev.CreateMesh([]int{3}, make([]float32, 9), []uint32{0, 1, 2, 0, 2, 1})
	require.NoError(t, err)
	mk, err := markers.New(dev)
	require.NoError(t, err)
	p, err := New(dev, batches{mesh: mesh, mats: []render.Material{
		{Base: 1, Bump: 2},
		{Base: 3, Bump: 4, Parallax: 0.03},
	}}, mk)
	require.NoError(t, err)

	s := lights.NewSet()
	for i := 0; i < s.Len(); i++ {
		s.At(i).Enabled = false
	}
	return dev, p, s
}

func TestPasses(t *testing.T) {
	dev, p, s := setup(t)
	require.NoError(t, s.Place(3, vec.Vec3{X: 1, Y: 2, Z: 3}, vec.Vec3{X: 1, Y: 0.5, Z: 0.25}, 200))
	require.NoError(t, s.Place(8, vec.Vec3{}, vec.Vec3{X: 1}, 100))
	s.At(3).Enabled = true
	s.At(3).Rect = render.Rect{X: 1, Y: 2, W: 3, H: 4}
	s.At(8).Enabled = true

	f := Frame{View: mgl32.Ident4(), Proj: mgl32.Ident4(), CamPos: mgl32.Vec3{0, 1, 0}, Lights: s}
	require.NoError(t, render.NewRunner(dev).Run(p.Passes(f)))

	require.Len(t, dev.Clears, 1)
	assert.True(t, dev.Clears[0].Targets.Main)

	// two ambient, two materials times two lights, two markers
	require.Len(t, dev.Draws, 8)
	for i, d := range dev.Draws[:2] {
		assert.Equal(t, "lightingMP_ambient", dev.ShaderName(d.Shader))
		assert.True(t, d.State.Depth.Write)
		assert.Equal(t, i*3, d.First)
	}
	for _, d := range dev.Draws[2:6] {
		assert.Equal(t, "lightingMP", dev.ShaderName(d.Shader))
		assert.Equal(t, render.BlendAdd, d.State.Blend)
		assert.False(t, d.State.Depth.Write)
		assert.True(t, d.State.Raster.Scissor)
	}

	first := dev.Draws[2]
	assert.Equal(t, render.Rect{X: 1, Y: 2, W: 3, H: 4}, first.State.Raster.Rect)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.25}, first.Constants["lightColor"])
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, first.Constants["lightPos"])
	assert.Equal(t, float32(1.0/200), first.Constants["invRadius"])
	assert.Equal(t, render.TextureID(1), first.Textures["Base"])
	assert.Equal(t, false, first.Constants["hasParallax"])

	last := dev.Draws[5]
	assert.Equal(t, float32(1.0/100), last.Constants["invRadius"])
	assert.Equal(t, render.TextureID(3), last.Textures["Base"])
	assert.Equal(t, true, last.Constants["hasParallax"])
	assert.Equal(t, 3, last.First)
}

func TestPassesWithoutLights(t *testing.T) {
	dev, p, s := setup(t)
	f := Frame{View: mgl32.Ident4(), Proj: mgl32.Ident4(), Lights: s}
	require.NoError(t, render.NewRunner(dev).Run(p.Passes(f)))
	assert.Len(t, dev.Draws, 2)
}
