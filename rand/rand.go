// SPDX-License-Identifier: GPL-2.0-or-later

// Package rand is a small counter based noise generator. The same seed always
// yields the same sequence on every platform, which keeps light placement and
// spawn directions reproducible.
package rand

import (
	"lidefer/math/vec"
)

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
)

type Generator struct {
	idx  uint32
	seed uint32
}

func New(seed uint32) *Generator {
	return &Generator{seed: seed}
}

func noise(p uint32, s uint32) uint32 {
	m := p
	m *= noise1
	m += s
	m ^= (m >> 8)
	m *= noise2
	m ^= (m << 8)
	m *= noise3
	m ^= (m >> 8)
	return m
}

func (g *Generator) rand() uint32 {
	g.idx++
	return noise(g.idx, g.seed)
}

// Reseed restarts the sequence for seed s.
func (g *Generator) Reseed(s uint32) {
	g.seed = s
	g.idx = 0
}

func (g *Generator) Uint32n(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return g.rand() % n
}

// Float32 returns a value in [0,1).
func (g *Generator) Float32() float32 {
	return float32(g.Uint32n(1<<24)) / (1 << 24)
}

// Signed returns a value in [-1,1).
func (g *Generator) Signed() float32 {
	return g.Float32()*2 - 1
}

// Range returns a value in [lo,hi).
func (g *Generator) Range(lo, hi float32) float32 {
	return lo + g.Float32()*(hi-lo)
}

// Direction returns a random unit vector. Candidates outside the unit ball
// are rejected so the directions are uniform.
func (g *Generator) Direction() vec.Vec3 {
	for {
		v := vec.Vec3{X: g.Signed(), Y: g.Signed(), Z: g.Signed()}
		l := v.LengthSquared()
		if l > 1e-4 && l <= 1 {
			return v.Normalize()
		}
	}
}

// InBox returns a point uniformly distributed in the box [mins,maxs).
func (g *Generator) InBox(mins, maxs vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: g.Range(mins.X, maxs.X),
		Y: g.Range(mins.Y, maxs.Y),
		Z: g.Range(mins.Z, maxs.Z),
	}
}
