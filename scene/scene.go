// SPDX-License-Identifier: GPL-2.0-or-later

// Package scene provides the static level: geometry, materials and the
// triangle soup collision is built from.
package scene

import (
	"log/slog"

	"lidefer/math/vec"
	"lidefer/render"
	"lidefer/texture"

	"github.com/pkg/errors"
)

const textureSize = 128

type materialDesc struct {
	name     string
	kind     texture.Kind
	tint     vec.Vec3
	parallax float32
}

var materialDescs = [MaterialCount]materialDesc{
	MaterialFloor:   {"floor", texture.KindPlanks, vec.Vec3{X: 0.75, Y: 0.55, Z: 0.35}, 0},
	MaterialWalls:   {"walls", texture.KindBricks, vec.Vec3{X: 0.8, Y: 0.45, Z: 0.35}, 0.04},
	MaterialCeiling: {"ceiling", texture.KindTiles, vec.Vec3{X: 0.7, Y: 0.7, Z: 0.7}, 0},
	MaterialPillars: {"pillars", texture.KindBlocks, vec.Vec3{X: 0.6, Y: 0.62, Z: 0.58}, 0.03},
}

// Scene is the level uploaded to a device. It implements render.Geometry.
type Scene struct {
	mesh      *Mesh
	id        render.MeshID
	materials [MaterialCount]render.Material
}

// New builds the room and uploads its mesh and material textures.
func New(dev render.Device) (*Scene, error) {
	s := &Scene{mesh: Room()}
	id, err := dev.CreateMesh(VertexLayout, s.mesh.Vertices, s.mesh.Indices)
	if err != nil {
		return nil, errors.Wrap(err, "scene mesh")
	}
	s.id = id
	for i, d := range materialDescs {
		seed := uint32(i + 1)
		base, err := texture.Base(d.kind, textureSize, d.tint, seed).Upload(dev)
		if err != nil {
			return nil, errors.Wrapf(err, "material %s", d.name)
		}
		bump, err := texture.Bump(d.kind, textureSize, seed).Upload(dev)
		if err != nil {
			return nil, errors.Wrapf(err, "material %s", d.name)
		}
		s.materials[i] = render.Material{Base: base, Bump: bump, Parallax: d.parallax}
	}
	slog.Info("scene loaded", "vertices", len(s.mesh.Vertices)/VertexSize, "triangles", len(s.mesh.Indices)/3)
	return s, nil
}

func (s *Scene) Batches() int {
	return MaterialCount
}

func (s *Scene) Batch(i int) render.Drawer {
	b := s.mesh.Batches[i]
	return render.MeshRange{Mesh: s.id, First: b.First, Count: b.Count}
}

func (s *Scene) Material(i int) render.Material {
	return s.materials[i]
}

// Triangles returns the collision soup of the level.
func (s *Scene) Triangles() ([]vec.Vec3, []uint32) {
	return s.mesh.Positions(), s.mesh.Indices
}
