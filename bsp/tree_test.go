// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"math/rand/v2"
	"testing"

	"lidefer/math/vec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mesh struct {
	verts []vec.Vec3
	idx   []uint32
}

func (m *mesh) tri(a, b, c vec.Vec3) {
	base := uint32(len(m.verts))
	m.verts = append(m.verts, a, b, c)
	m.idx = append(m.idx, base, base+1, base+2)
}

// quad adds a-b-c-d as two triangles wound so the normal points along want.
func (m *mesh) quad(a, b, c, d, want vec.Vec3) {
	if vec.Dot(vec.Cross(vec.Sub(b, a), vec.Sub(c, a)), want) < 0 {
		b, d = d, b
	}
	m.tri(a, b, c)
	m.tri(a, c, d)
}

// room is an axis aligned box of half size s with inward facing walls.
func room(s float32) *mesh {
	m := &mesh{}
	c := func(x, y, z float32) vec.Vec3 { return vec.Vec3{X: x * s, Y: y * s, Z: z * s} }
	m.quad(c(-1, -1, -1), c(1, -1, -1), c(1, -1, 1), c(-1, -1, 1), vec.Vec3{Y: 1})
	m.quad(c(-1, 1, -1), c(1, 1, -1), c(1, 1, 1), c(-1, 1, 1), vec.Vec3{Y: -1})
	m.quad(c(-1, -1, -1), c(-1, 1, -1), c(-1, 1, 1), c(-1, -1, 1), vec.Vec3{X: 1})
	m.quad(c(1, -1, -1), c(1, 1, -1), c(1, 1, 1), c(1, -1, 1), vec.Vec3{X: -1})
	m.quad(c(-1, -1, -1), c(1, -1, -1), c(1, 1, -1), c(-1, 1, -1), vec.Vec3{Z: 1})
	m.quad(c(-1, -1, 1), c(1, -1, 1), c(1, 1, 1), c(-1, 1, 1), vec.Vec3{Z: -1})
	return m
}

func randVec(r *rand.Rand, s float32) vec.Vec3 {
	return vec.Vec3{
		X: (r.Float32()*2 - 1) * s,
		Y: (r.Float32()*2 - 1) * s,
		Z: (r.Float32()*2 - 1) * s,
	}
}

// cluttered adds randomly placed small triangles to a room.
func cluttered(seed uint64, count int) *mesh {
	m := room(100)
	r := rand.New(rand.NewPCG(seed, 7))
	for i := 0; i < count; i++ {
		center := randVec(r, 80)
		m.tri(vec.Add(center, randVec(r, 15)), vec.Add(center, randVec(r, 15)), vec.Add(center, randVec(r, 15)))
	}
	return m
}

func TestBuildErrors(t *testing.T) {
	_, err := Build([]vec.Vec3{{}, {X: 1}}, []uint32{0, 1})
	assert.Error(t, err)

	_, err = Build([]vec.Vec3{{}, {X: 1}}, []uint32{0, 1, 2})
	assert.Error(t, err)
}

func TestBuildSkipsDegenerate(t *testing.T) {
	verts := []vec.Vec3{{}, {X: 1}, {Y: 1}, {X: 2}}
	tree, err := Build(verts, []uint32{0, 1, 2, 0, 1, 3, 1, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, tree.TriangleCount())
	assert.Equal(t, 2, tree.Stats().Skipped)
	// the degenerate triangles do not widen the bounds
	assert.Equal(t, vec.Vec3{}, tree.Stats().Mins)
	assert.Equal(t, vec.Vec3{X: 1, Y: 1}, tree.Stats().Maxs)
}

func TestEmptyTree(t *testing.T) {
	tree, err := Build(nil, nil)
	require.NoError(t, err)
	_, ok := tree.Intersect(vec.Vec3{}, vec.Vec3{X: 10})
	assert.False(t, ok)
	p, pushed := tree.PushSphere(vec.Vec3{X: 1}, 5)
	assert.False(t, pushed)
	assert.Equal(t, vec.Vec3{X: 1}, p)
}

func TestStraddlerIsDuplicated(t *testing.T) {
	m := &mesh{}
	// three walls facing +x and a floor crossing all of them
	m.tri(vec.Vec3{X: 0, Y: 1, Z: -1}, vec.Vec3{X: 0, Y: 3, Z: -1}, vec.Vec3{X: 0, Y: 1, Z: 1})
	m.tri(vec.Vec3{X: -5, Y: 1, Z: -1}, vec.Vec3{X: -5, Y: 3, Z: -1}, vec.Vec3{X: -5, Y: 1, Z: 1})
	m.tri(vec.Vec3{X: 5, Y: 1, Z: -1}, vec.Vec3{X: 5, Y: 3, Z: -1}, vec.Vec3{X: 5, Y: 1, Z: 1})
	m.tri(vec.Vec3{X: -10, Y: 0, Z: -10}, vec.Vec3{X: 0, Y: 0, Z: 10}, vec.Vec3{X: 10, Y: 0, Z: -10})

	tree, err := Build(m.verts, m.idx, WithMaxLeafTriangles(1))
	require.NoError(t, err)
	assert.Greater(t, tree.Stats().Duplicates, 0)
	assert.Greater(t, tree.Stats().Leafs, 1)

	for _, x := range []float32{-8, 8} {
		h, ok := tree.Intersect(vec.Vec3{X: x, Y: 5, Z: -8}, vec.Vec3{X: x, Y: -5, Z: -8})
		require.True(t, ok, "x=%v", x)
		assert.Equal(t, 3, h.Triangle)
		assert.InDelta(t, 0.5, h.Fraction, 1e-5)
		assert.InDelta(t, 0, h.Point.Y, 1e-4)
	}
}

func TestIntersectMatchesBruteForce(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3} {
		m := cluttered(seed, 200)
		tree, err := Build(m.verts, m.idx)
		require.NoError(t, err)
		require.Greater(t, tree.Stats().Nodes, 1)

		r := rand.New(rand.NewPCG(seed, 99))
		hits := 0
		for i := 0; i < 2000; i++ {
			p0 := randVec(r, 95)
			p1 := randVec(r, 150)
			want, wok := tree.IntersectBrute(p0, p1)
			got, gok := tree.Intersect(p0, p1)
			require.Equal(t, wok, gok, "seed %d segment %v %v", seed, p0, p1)
			if !wok {
				continue
			}
			hits++
			assert.Equal(t, want.Fraction, got.Fraction, "seed %d segment %v %v", seed, p0, p1)
		}
		assert.Greater(t, hits, 100)
	}
}

func TestIntersectRoom(t *testing.T) {
	m := room(100)
	tree, err := Build(m.verts, m.idx, WithMaxLeafTriangles(2))
	require.NoError(t, err)

	h, ok := tree.Intersect(vec.Vec3{X: 10, Z: -20}, vec.Vec3{X: 10, Y: -200, Z: -20})
	require.True(t, ok)
	assert.InDelta(t, 0.5, h.Fraction, 1e-5)
	assert.True(t, vec.Near(vec.Vec3{Y: 1}, h.Normal, 1e-5), "normal %v", h.Normal)

	_, ok = tree.Intersect(vec.Vec3{X: -50}, vec.Vec3{X: 50, Y: 20})
	assert.False(t, ok)

	// both faces are solid
	h, ok = tree.Intersect(vec.Vec3{X: 10, Y: -300, Z: -20}, vec.Vec3{X: 10, Y: -50, Z: -20})
	require.True(t, ok)
	assert.InDelta(t, 0.8, h.Fraction, 1e-5)
}

func TestPushSphere(t *testing.T) {
	m := room(100)
	tree, err := Build(m.verts, m.idx, WithMaxLeafTriangles(2))
	require.NoError(t, err)

	p, pushed := tree.PushSphere(vec.Vec3{Y: -90}, 30)
	assert.True(t, pushed)
	assert.InDelta(t, -70, p.Y, 1e-3)
	assert.InDelta(t, 0, p.X, 1e-3)

	// resting on the floor does not move
	p, pushed = tree.PushSphere(vec.Vec3{Y: -70}, 30)
	assert.False(t, pushed)
	assert.Equal(t, vec.Vec3{Y: -70}, p)

	// a corner pushes along both walls
	p, pushed = tree.PushSphere(vec.Vec3{X: 95, Y: -95}, 30)
	assert.True(t, pushed)
	assert.InDelta(t, 70, p.X, 1e-3)
	assert.InDelta(t, -70, p.Y, 1e-3)
}

func TestPushSphereOutsideTriangle(t *testing.T) {
	m := &mesh{}
	m.quad(vec.Vec3{X: -10, Z: -10}, vec.Vec3{X: 10, Z: -10}, vec.Vec3{X: 10, Z: 10}, vec.Vec3{X: -10, Z: 10}, vec.Vec3{Y: 1})
	tree, err := Build(m.verts, m.idx)
	require.NoError(t, err)

	_, pushed := tree.PushSphere(vec.Vec3{X: 50, Y: 1}, 5)
	assert.False(t, pushed)

	p, pushed := tree.PushSphere(vec.Vec3{X: 2, Y: 1, Z: -3}, 5)
	assert.True(t, pushed)
	assert.InDelta(t, 5, p.Y, 1e-4)
}

func TestPushSphereStaysBehindWall(t *testing.T) {
	m := &mesh{}
	m.quad(vec.Vec3{X: -10, Z: -10}, vec.Vec3{X: 10, Z: -10}, vec.Vec3{X: 10, Z: 10}, vec.Vec3{X: -10, Z: 10}, vec.Vec3{Y: 1})
	tree, err := Build(m.verts, m.idx)
	require.NoError(t, err)

	p, pushed := tree.PushSphere(vec.Vec3{X: 1, Y: -2, Z: 1}, 5)
	assert.True(t, pushed)
	assert.InDelta(t, -5, p.Y, 1e-4)
	assert.InDelta(t, 1, p.X, 1e-4)

	p, pushed = tree.PushSphere(vec.Vec3{X: 1, Y: -5, Z: 1}, 5)
	assert.False(t, pushed)
	assert.Equal(t, vec.Vec3{X: 1, Y: -5, Z: 1}, p)
}

func TestPushSphereTerminates(t *testing.T) {
	// the sphere does not fit into the room and gets pushed back and forth
	m := room(10)
	tree, err := Build(m.verts, m.idx, WithMaxLeafTriangles(2))
	require.NoError(t, err)
	_, pushed := tree.PushSphere(vec.Vec3{X: 1}, 30)
	assert.True(t, pushed)
}
