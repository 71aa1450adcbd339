// SPDX-License-Identifier: GPL-2.0-or-later

package lights

import (
	"fmt"
	"io"

	"lidefer/cull"
	"lidefer/math/vec"
	"lidefer/render"

	"github.com/pkg/errors"
)

const (
	// MaxLights is the number of light slots. Index bytes address slot+1 so
	// the value 0 stays free for "no light".
	MaxLights      = 255
	PrimaryCount   = 3
	SecondaryCount = MaxLights - PrimaryCount
)

type Light struct {
	// Enabled and Rect are rewritten by the visibility pass every frame.
	Enabled  bool
	Rect     render.Rect
	Color    vec.Vec3
	Position vec.Vec3
	Radius   float32
}

// Table is a complete set of light values, as baked or dumped.
type Table [MaxLights]Light

// Set owns all lights of a scene. The simulation writes it, the renderer
// reads it afterwards. There is no locking.
type Set struct {
	lights       Table
	colorVersion uint64
}

// NewSet returns a set initialised from the startup table.
func NewSet() *Set {
	s := &Set{}
	s.Load(StartupTable())
	return s
}

func (s *Set) Len() int {
	return MaxLights
}

func (s *Set) At(i int) *Light {
	return &s.lights[i]
}

// Active reports whether slot i has a positive radius.
func (s *Set) Active(i int) bool {
	return s.lights[i].Radius > 0
}

// Sphere implements cull.Source. Inactive lights report radius 0.
func (s *Set) Sphere(i int) (vec.Vec3, float32) {
	l := &s.lights[i]
	if l.Radius <= 0 {
		return l.Position, 0
	}
	return l.Position, l.Radius
}

// ColorVersion changes whenever any light colour changes.
func (s *Set) ColorVersion() uint64 {
	return s.colorVersion
}

func (s *Set) SetColor(i int, c vec.Vec3) {
	if s.lights[i].Color == c {
		return
	}
	s.lights[i].Color = c
	s.colorVersion++
}

// Place sets a light by hand.
func (s *Set) Place(i int, pos, color vec.Vec3, radius float32) error {
	if i < 0 || i >= MaxLights {
		return errors.Errorf("light %d out of range [0,%d)", i, MaxLights)
	}
	if radius < 0 {
		return errors.Errorf("light %d: negative radius %v", i, radius)
	}
	s.lights[i].Position = pos
	s.lights[i].Radius = radius
	s.SetColor(i, color)
	return nil
}

// Load replaces every light with the table values.
func (s *Set) Load(t Table) {
	s.lights = t
	s.colorVersion++
}

// Snapshot returns a copy of the current values.
func (s *Set) Snapshot() Table {
	return s.lights
}

// ApplyVisibility merges a cull result into the set. Lights without radius
// stay disabled whatever the result says.
func (s *Set) ApplyVisibility(vis []cull.Result) {
	for i := range s.lights {
		l := &s.lights[i]
		if i >= len(vis) || l.Radius <= 0 {
			l.Enabled = false
			l.Rect = render.Rect{}
			continue
		}
		l.Enabled = vis[i].Enabled
		l.Rect = vis[i].Rect
	}
}

// EnabledCount returns the number of lights that passed the last cull.
func (s *Set) EnabledCount() int {
	n := 0
	for i := range s.lights {
		if s.lights[i].Enabled {
			n++
		}
	}
	return n
}

// Dump writes one line per active light: slot, colour, position and radius.
func (s *Set) Dump(w io.Writer) error {
	for i := range s.lights {
		l := &s.lights[i]
		if l.Radius <= 0 {
			continue
		}
		_, err := fmt.Fprintf(w, "%3d color %.3f %.3f %.3f pos %.2f %.2f %.2f radius %.1f\n",
			i, l.Color.X, l.Color.Y, l.Color.Z,
			l.Position.X, l.Position.Y, l.Position.Z, l.Radius)
		if err != nil {
			return errors.Wrap(err, "dump lights")
		}
	}
	return nil
}
