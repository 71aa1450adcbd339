// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"testing"

	"lidefer/bsp"
	"lidefer/math/vec"
	"lidefer/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomBatches(t *testing.T) {
	m := Room()
	require.Zero(t, len(m.Vertices)%VertexSize)
	next := 0
	for i, b := range m.Batches {
		assert.Equal(t, next, b.First, "batch %d", i)
		assert.Positive(t, b.Count, "batch %d", i)
		assert.Zero(t, b.Count%6, "batch %d", i)
		next += b.Count
	}
	assert.Equal(t, len(m.Indices), next)
}

func TestRoomNormalsMatchWinding(t *testing.T) {
	m := Room()
	pos := m.Positions()
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := pos[m.Indices[i]], pos[m.Indices[i+1]], pos[m.Indices[i+2]]
		n := vec.Cross(vec.Sub(b, a), vec.Sub(c, a)).Normalize()
		v := m.Vertices[int(m.Indices[i])*VertexSize:]
		stored := vec.Vec3{X: v[11], Y: v[12], Z: v[13]}
		require.True(t, vec.Near(n, stored, 1e-5), "triangle %d: %v != %v", i/3, n, stored)
		tangent := vec.Vec3{X: v[5], Y: v[6], Z: v[7]}
		binormal := vec.Vec3{X: v[8], Y: v[9], Z: v[10]}
		require.True(t, vec.Near(vec.Cross(tangent, binormal), stored, 1e-5), "triangle %d frame", i/3)
	}
}

func TestRoomIsClosed(t *testing.T) {
	m := Room()
	tree, err := bsp.Build(m.Positions(), m.Indices)
	require.NoError(t, err)
	assert.Zero(t, tree.Stats().Skipped)

	// every ray from the start position hits a wall
	dirs := []vec.Vec3{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}, {X: 1, Y: 1, Z: 1}}
	for _, d := range dirs {
		_, ok := tree.Intersect(Start, vec.MulAdd(Start, d.Normalize(), 5000))
		assert.True(t, ok, "direction %v", d)
	}
	// the start is free
	p, pushed := tree.PushSphere(Start, 30)
	assert.False(t, pushed)
	assert.Equal(t, Start, p)
}

func TestNew(t *testing.T) {
	rec := render.NewRecorder(render.Caps{})
	s, err := New(rec)
	require.NoError(t, err)
	require.Equal(t, MaterialCount, s.Batches())

	for i := 0; i < s.Batches(); i++ {
		mat := s.Material(i)
		assert.NotEqual(t, render.NoTexture, mat.Base)
		assert.NotEqual(t, render.NoTexture, mat.Bump)
	}
	assert.Greater(t, s.Material(MaterialWalls).Parallax, float32(0))
	assert.Zero(t, s.Material(MaterialFloor).Parallax)

	render.DrawAll(s).Draw(rec)
	require.Len(t, rec.Draws, MaterialCount)
	total := 0
	for _, d := range rec.Draws {
		total += d.Count
	}
	verts, indices := s.Triangles()
	assert.Equal(t, len(indices), total)
	assert.Len(t, verts, rec.Meshes[rec.Draws[0].Mesh].Vertices)
}
