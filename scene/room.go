// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"lidefer/math/vec"
)

const (
	// VertexSize is the number of floats per vertex: position, texture
	// coordinate, tangent, binormal and normal.
	VertexSize = 14
	// texelScale is the world size one texture repeat covers.
	texelScale = 256
)

// VertexLayout is the attribute layout of a scene vertex.
var VertexLayout = []int{3, 2, 3, 3, 3}

const (
	MaterialFloor = iota
	MaterialWalls
	MaterialCeiling
	MaterialPillars
	MaterialCount
)

var (
	// RoomMins and RoomMaxs bound the inside of the room.
	RoomMins = vec.Vec3{X: -1000, Y: -800, Z: -1600}
	RoomMaxs = vec.Vec3{X: 1000, Y: 500, Z: 1000}
	// Start is where the camera begins, facing down the room.
	Start = vec.Vec3{X: -557, Y: 135, Z: 5.8}
)

type Batch struct {
	First int
	Count int
}

// Mesh is the scene geometry in host memory. Indices are sorted by material
// so every material is one contiguous batch.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
	Batches  [MaterialCount]Batch
}

type quad struct {
	corners [4]vec.Vec3
	normal  vec.Vec3
}

// Room builds the demo level: a closed hall with pillars and a few blocks.
func Room() *Mesh {
	var quads [MaterialCount][]quad
	mins, maxs := RoomMins, RoomMaxs

	inside := box(mins, maxs, true)
	quads[MaterialFloor] = append(quads[MaterialFloor], inside[2])
	quads[MaterialCeiling] = append(quads[MaterialCeiling], inside[3])
	quads[MaterialWalls] = append(quads[MaterialWalls], inside[0], inside[1], inside[4], inside[5])

	for _, x := range []float32{-400, 400} {
		for _, z := range []float32{-1000, -400, 400} {
			p := box(vec.Vec3{X: x - 60, Y: mins.Y, Z: z - 60}, vec.Vec3{X: x + 60, Y: maxs.Y, Z: z + 60}, false)
			// top and bottom touch floor and ceiling
			quads[MaterialPillars] = append(quads[MaterialPillars], p[0], p[1], p[4], p[5])
		}
	}
	blocks := [][2]vec.Vec3{
		{{X: -150, Y: mins.Y, Z: -700}, {X: 150, Y: mins.Y + 120, Z: -550}},
		{{X: 600, Y: mins.Y, Z: 100}, {X: 800, Y: mins.Y + 200, Z: 300}},
		{{X: -850, Y: mins.Y, Z: -1450}, {X: -650, Y: mins.Y + 300, Z: -1250}},
	}
	for _, b := range blocks {
		p := box(b[0], b[1], false)
		// skip the face lying on the floor
		quads[MaterialPillars] = append(quads[MaterialPillars], p[0], p[1], p[3], p[4], p[5])
	}

	m := &Mesh{}
	for mat, qs := range quads {
		m.Batches[mat].First = len(m.Indices)
		for _, q := range qs {
			m.addQuad(q)
		}
		m.Batches[mat].Count = len(m.Indices) - m.Batches[mat].First
	}
	return m
}

// box returns the six faces of an axis aligned box in the order -x, +x, -y,
// +y, -z, +z. Inward boxes face their normals into the box.
func box(mins, maxs vec.Vec3, inward bool) [6]quad {
	c := func(x, y, z int) vec.Vec3 {
		p := mins
		if x == 1 {
			p.X = maxs.X
		}
		if y == 1 {
			p.Y = maxs.Y
		}
		if z == 1 {
			p.Z = maxs.Z
		}
		return p
	}
	faces := [6]quad{
		{[4]vec.Vec3{c(0, 0, 0), c(0, 0, 1), c(0, 1, 1), c(0, 1, 0)}, vec.Vec3{X: -1}},
		{[4]vec.Vec3{c(1, 0, 1), c(1, 0, 0), c(1, 1, 0), c(1, 1, 1)}, vec.Vec3{X: 1}},
		{[4]vec.Vec3{c(0, 0, 0), c(1, 0, 0), c(1, 0, 1), c(0, 0, 1)}, vec.Vec3{Y: -1}},
		{[4]vec.Vec3{c(0, 1, 1), c(1, 1, 1), c(1, 1, 0), c(0, 1, 0)}, vec.Vec3{Y: 1}},
		{[4]vec.Vec3{c(1, 0, 0), c(0, 0, 0), c(0, 1, 0), c(1, 1, 0)}, vec.Vec3{Z: -1}},
		{[4]vec.Vec3{c(0, 0, 1), c(1, 0, 1), c(1, 1, 1), c(0, 1, 1)}, vec.Vec3{Z: 1}},
	}
	if inward {
		for i := range faces {
			f := &faces[i]
			f.corners[1], f.corners[3] = f.corners[3], f.corners[1]
			f.normal = f.normal.Scale(-1)
		}
	}
	return faces
}

// addQuad appends a quad as two counter clockwise triangles. The tangent
// frame follows the first two edges.
func (m *Mesh) addQuad(q quad) {
	e1 := vec.Sub(q.corners[1], q.corners[0])
	e2 := vec.Sub(q.corners[3], q.corners[0])
	tangent := e1.Normalize()
	binormal := e2.Normalize()
	uvs := [4][2]float32{
		{0, 0},
		{e1.Length() / texelScale, 0},
		{e1.Length() / texelScale, e2.Length() / texelScale},
		{0, e2.Length() / texelScale},
	}
	base := uint32(len(m.Vertices) / VertexSize)
	for i, p := range q.corners {
		m.Vertices = append(m.Vertices,
			p.X, p.Y, p.Z,
			uvs[i][0], uvs[i][1],
			tangent.X, tangent.Y, tangent.Z,
			binormal.X, binormal.Y, binormal.Z,
			q.normal.X, q.normal.Y, q.normal.Z)
	}
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Positions returns the vertex positions for collision.
func (m *Mesh) Positions() []vec.Vec3 {
	n := len(m.Vertices) / VertexSize
	p := make([]vec.Vec3, n)
	for i := range p {
		v := m.Vertices[i*VertexSize:]
		p[i] = vec.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	return p
}
