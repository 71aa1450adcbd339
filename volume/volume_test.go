// SPDX-License-Identifier: GPL-2.0-or-later

package volume

import (
	"testing"

	"lidefer/math/vec"
	"lidefer/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereShape(t *testing.T) {
	verts, indices := Sphere(SubdivLevel)
	require.Len(t, indices, 8*3*64)
	// a closed mesh of genus 0: V - E + F = 2
	faces := len(indices) / 3
	edges := faces * 3 / 2
	assert.Equal(t, 2, len(verts)-edges+faces)

	for i := 0; i < len(indices); i += 3 {
		a, b, c := verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]]
		n := vec.Cross(vec.Sub(b, a), vec.Sub(c, a)).Normalize()
		d := vec.Dot(n, a)
		// outward facing and outside the unit sphere
		require.GreaterOrEqual(t, d, float32(1-1e-5), "face %d", i/3)
	}
	for _, v := range verts {
		assert.Less(t, v.Length(), float32(1.1))
	}
}

func TestSphereLevelZero(t *testing.T) {
	verts, indices := Sphere(0)
	assert.Len(t, verts, 6)
	assert.Len(t, indices, 24)
}

func TestNew(t *testing.T) {
	rec := render.NewRecorder(render.Caps{})
	m, err := New(rec)
	require.NoError(t, err)
	assert.Equal(t, 512, m.Triangles())

	mesh := rec.Meshes[m.Mesh]
	assert.Equal(t, []int{3}, mesh.Layout)
	assert.Equal(t, 1536, mesh.Indices)

	m.Draw(rec)
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, 1536, rec.Draws[0].Count)
}
