// SPDX-License-Identifier: GPL-2.0-or-later

// Package volume builds the proxy mesh light volumes are drawn with.
package volume

import (
	"lidefer/math/vec"
	"lidefer/render"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// SubdivLevel is how often each octahedron face is split in four.
const SubdivLevel = 3

// Sphere returns a subdivided octahedron around the origin. Faces wind
// counter clockwise seen from outside. The vertices are pushed out so that
// every face lies outside the unit sphere, making the mesh a conservative
// bound of it.
func Sphere(level int) ([]vec.Vec3, []uint32) {
	b := builder{lookup: make(map[vec.Vec3]uint32)}
	top, bottom := vec.Vec3{Y: 1}, vec.Vec3{Y: -1}
	ring := [4]vec.Vec3{{Z: 1}, {X: 1}, {Z: -1}, {X: -1}}
	for i := range ring {
		b.subdivide(top, ring[i], ring[(i+1)%4], level)
		b.subdivide(bottom, ring[(i+1)%4], ring[i], level)
	}

	minDist := float32(1)
	for i := 0; i < len(b.indices); i += 3 {
		a, c, d := b.verts[b.indices[i]], b.verts[b.indices[i+1]], b.verts[b.indices[i+2]]
		n := vec.Cross(vec.Sub(c, a), vec.Sub(d, a)).Normalize()
		minDist = math32.Min(minDist, vec.Dot(n, a))
	}
	scale := 1 / minDist
	for i := range b.verts {
		b.verts[i] = b.verts[i].Scale(scale)
	}
	return b.verts, b.indices
}

type builder struct {
	verts   []vec.Vec3
	indices []uint32
	lookup  map[vec.Vec3]uint32
}

func (b *builder) vertex(v vec.Vec3) uint32 {
	if i, ok := b.lookup[v]; ok {
		return i
	}
	i := uint32(len(b.verts))
	b.verts = append(b.verts, v)
	b.lookup[v] = i
	return i
}

func (b *builder) subdivide(v0, v1, v2 vec.Vec3, level int) {
	if level == 0 {
		b.indices = append(b.indices, b.vertex(v0), b.vertex(v1), b.vertex(v2))
		return
	}
	v3 := vec.Add(v0, v1).Normalize()
	v4 := vec.Add(v1, v2).Normalize()
	v5 := vec.Add(v2, v0).Normalize()
	b.subdivide(v0, v3, v5, level-1)
	b.subdivide(v3, v4, v5, level-1)
	b.subdivide(v3, v1, v4, level-1)
	b.subdivide(v5, v4, v2, level-1)
}

// Mesh is the light volume uploaded to a device. The vertex shader scales it
// by the light radius and moves it to the light position.
type Mesh struct {
	render.MeshRange
	triangles int
}

func New(dev render.Device) (*Mesh, error) {
	verts, indices := Sphere(SubdivLevel)
	flat := make([]float32, 0, len(verts)*3)
	for _, v := range verts {
		flat = append(flat, v.X, v.Y, v.Z)
	}
	id, err := dev.CreateMesh([]int{3}, flat, indices)
	if err != nil {
		return nil, errors.Wrap(err, "light volume mesh")
	}
	return &Mesh{
		MeshRange: render.MeshRange{Mesh: id, Count: len(indices)},
		triangles: len(indices) / 3,
	}, nil
}

func (m *Mesh) Triangles() int {
	return m.triangles
}
