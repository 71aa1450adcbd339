// SPDX-License-Identifier: GPL-2.0-or-later

// Package texture generates the material images of the demo scene. Images
// are 8 bit RGBA, rows from bottom to top as GL expects them.
package texture

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"lidefer/math"
	"lidefer/math/vec"
	"lidefer/rand"
	"lidefer/render"
)

type Kind int

const (
	KindPlanks Kind = iota
	KindBricks
	KindTiles
	KindBlocks
)

// Texture is an image in host memory.
type Texture struct {
	Width  int
	Height int
	Data   []byte
}

func New(w, h int) *Texture {
	return &Texture{
		Width:  w,
		Height: h,
		Data:   make([]byte, w*h*4),
	}
}

func (t *Texture) Set(x, y int, c [4]uint8) {
	i := (y*t.Width + x) * 4
	copy(t.Data[i:i+4], c[:])
}

func (t *Texture) At(x, y int) [4]uint8 {
	i := (y*t.Width + x) * 4
	return [4]uint8{t.Data[i], t.Data[i+1], t.Data[i+2], t.Data[i+3]}
}

// Upload creates a device texture holding t.
func (t *Texture) Upload(dev render.Device) (render.TextureID, error) {
	id, err := dev.CreateTexture(t.Width, t.Height, render.FormatRGBA8, t.Data)
	if err != nil {
		return render.NoTexture, errors.Wrapf(err, "upload %dx%d texture", t.Width, t.Height)
	}
	return id, nil
}

// Height returns the height field of a material in [0,1] for a size x size
// image. Grooves between planks, bricks or tiles are 0.
func Height(k Kind, size int, seed uint32) []float32 {
	rng := rand.New(seed)
	h := make([]float32, size*size)
	noise := make([]float32, 64)
	for i := range noise {
		noise[i] = rng.Float32()
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := float32(x) / float32(size)
			v := float32(y) / float32(size)
			h[y*size+x] = pattern(k, u, v, noise)
		}
	}
	return h
}

func pattern(k Kind, u, v float32, noise []float32) float32 {
	const groove = 0.04
	edge := func(f float32) float32 {
		d := math32.Min(f, 1-f)
		return math.Saturate(d / groove)
	}
	switch k {
	case KindPlanks:
		row := int(v * 4)
		off := noise[row%len(noise)]
		fu := math32.Mod(u+off, 1)
		return edge(math32.Mod(v*4, 1)) * (0.8 + 0.2*math32.Sin(fu*40+off*10))
	case KindBricks:
		row := int(v * 8)
		shift := float32(row%2) * 0.5
		fu := math32.Mod(u*4+shift, 1)
		return edge(math32.Mod(v*8, 1)) * edge(fu)
	case KindTiles:
		return edge(math32.Mod(u*4, 1)) * edge(math32.Mod(v*4, 1))
	default:
		cell := int(u*2) + 2*int(v*2)
		return edge(math32.Mod(u*2, 1)) * edge(math32.Mod(v*2, 1)) * (0.7 + 0.3*noise[cell%len(noise)])
	}
}

// Base returns the colour image of a material.
func Base(k Kind, size int, tint vec.Vec3, seed uint32) *Texture {
	h := Height(k, size, seed)
	t := New(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			s := 0.35 + 0.65*h[y*size+x]
			t.Set(x, y, [4]uint8{
				unorm(tint.X * s),
				unorm(tint.Y * s),
				unorm(tint.Z * s),
				255,
			})
		}
	}
	return t
}

// Bump returns a tangent space normal map with the height in alpha.
func Bump(k Kind, size int, seed uint32) *Texture {
	const strength = 4
	h := Height(k, size, seed)
	at := func(x, y int) float32 {
		x = (x + size) % size
		y = (y + size) % size
		return h[y*size+x]
	}
	t := New(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := vec.Vec3{
				X: (at(x-1, y) - at(x+1, y)) * strength,
				Y: (at(x, y-1) - at(x, y+1)) * strength,
				Z: 1,
			}.Normalize()
			t.Set(x, y, [4]uint8{
				unorm(n.X*0.5 + 0.5),
				unorm(n.Y*0.5 + 0.5),
				unorm(n.Z*0.5 + 0.5),
				unorm(h[y*size+x]),
			})
		}
	}
	return t
}

func unorm(f float32) uint8 {
	return uint8(math32.Round(math.Saturate(f) * 255))
}

// Glow returns a white disc fading out towards its rim, the sprite of a
// light marker.
func Glow(size int) *Texture {
	t := New(size, size)
	half := float32(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float32(x) + 0.5 - half) / half
			dy := (float32(y) + 0.5 - half) / half
			f := math.Saturate(1 - math32.Sqrt(dx*dx+dy*dy))
			v := unorm(f * f)
			t.Set(x, y, [4]uint8{v, v, v, v})
		}
	}
	return t
}
