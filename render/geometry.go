// SPDX-License-Identifier: GPL-2.0-or-later

package render

// Material is the surface description a lit batch is drawn with.
type Material struct {
	Base     TextureID
	Bump     TextureID
	Parallax float32
}

// Geometry is the static scene as the lighting passes see it: a list of
// batches, each drawn with one material.
type Geometry interface {
	Batches() int
	Batch(i int) Drawer
	Material(i int) Material
}

// DrawAll draws every batch of g.
func DrawAll(g Geometry) Drawer {
	return DrawFunc(func(d Device) {
		for i := 0; i < g.Batches(); i++ {
			g.Batch(i).Draw(d)
		}
	})
}
