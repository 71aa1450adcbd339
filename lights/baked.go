// SPDX-License-Identifier: GPL-2.0-or-later

package lights

import (
	"lidefer/math/vec"
	"lidefer/rand"
)

const (
	PrimaryRadius = 600
	bakedSeed     = 0x11de
)

var (
	primaryColors = [PrimaryCount]vec.Vec3{
		{X: 1, Y: 0.7, Z: 0.2},
		{X: 0.8, Y: 1, Z: 0.9},
		{X: 1, Y: 0.2, Z: 0.1},
	}
	// bakedMins and bakedMaxs is the part of the room the baked lights are
	// scattered in.
	bakedMins = vec.Vec3{X: -900, Y: -700, Z: -1500}
	bakedMaxs = vec.Vec3{X: 900, Y: 400, Z: 900}
)

// StaticScene is the light layout shown while the simulation is frozen. The
// primaries sit at the start of their tracks.
func StaticScene() Table {
	var t Table
	rng := rand.New(bakedSeed)
	primaries := PrimaryPositions(0)
	for i := range t {
		l := &t[i]
		if i < PrimaryCount {
			l.Color = primaryColors[i]
			l.Position = primaries[i]
			l.Radius = PrimaryRadius
			continue
		}
		l.Color = bakedColor(rng)
		l.Position = rng.InBox(bakedMins, bakedMaxs)
		l.Radius = rng.Range(60, 140)
	}
	return t
}

// StartupTable is StaticScene with the primaries switched off until the
// animation moves them.
func StartupTable() Table {
	t := StaticScene()
	for i := 0; i < PrimaryCount; i++ {
		t[i].Radius = 0
	}
	return t
}

// bakedColor returns a saturated colour: the brightest channel is always 1.
func bakedColor(rng *rand.Generator) vec.Vec3 {
	c := vec.Vec3{X: rng.Float32(), Y: rng.Float32(), Z: rng.Float32()}
	m := max(c.X, c.Y, c.Z)
	if m < 1e-3 {
		return vec.Vec3{X: 1, Y: 1, Z: 1}
	}
	return c.Scale(1 / m)
}
