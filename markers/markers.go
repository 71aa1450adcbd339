// SPDX-License-Identifier: GPL-2.0-or-later

// Package markers draws a glowing sprite at every visible light.
package markers

import (
	"lidefer/lights"
	"lidefer/render"
	"lidefer/shading"
	"lidefer/texture"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	// SizeFraction is the sprite half size relative to the light radius.
	SizeFraction = 0.1
	glowSize     = 64
)

const (
	vertexSource = `layout (location = 0) in vec3 position;
out vec2 Texcoord;
uniform mat4 mvp;
uniform vec3 right;
uniform vec3 up;
uniform vec3 center;
uniform float size;

void main() {
	Texcoord = position.xy;
	vec2 c = position.xy * 2.0 - 1.0;
	vec3 p = center + (c.x * right + c.y * up) * size;
	gl_Position = mvp * vec4(p, 1.0);
}
`

	fragmentSource = `in vec2 Texcoord;
out vec4 frag_color;
uniform sampler2D Base;
uniform vec3 color;

void main() {
	frag_color = vec4(color, 1.0) * texture(Base, Texcoord);
}
`
)

type Markers struct {
	shader render.ShaderID
	glow   render.TextureID
	quad   render.MeshID
}

func New(dev render.Device) (*Markers, error) {
	m := &Markers{}
	var err error
	if m.shader, err = dev.CreateShader("plainTex", shading.Assemble(vertexSource), shading.Assemble(fragmentSource), ""); err != nil {
		return nil, errors.Wrap(err, "markers")
	}
	if m.glow, err = texture.Glow(glowSize).Upload(dev); err != nil {
		return nil, errors.Wrap(err, "markers")
	}
	m.quad, err = dev.CreateMesh([]int{3}, []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}, []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		return nil, errors.Wrap(err, "markers")
	}
	return m, nil
}

// Pass returns the additive sprite pass for all enabled lights of s. The
// sprites face the camera described by view.
func (m *Markers) Pass(view, proj mgl32.Mat4, s *lights.Set) render.Pass {
	right := view.Row(0).Vec3()
	up := view.Row(1).Vec3()
	var draws []render.Drawer
	for i := 0; i < s.Len(); i++ {
		l := s.At(i)
		if !l.Enabled {
			continue
		}
		c := render.Constants{
			"center": mgl32.Vec3{l.Position.X, l.Position.Y, l.Position.Z},
			"size":   l.Radius * SizeFraction,
			"color":  mgl32.Vec3{l.Color.X, l.Color.Y, l.Color.Z},
		}
		quad := m.quad
		draws = append(draws, render.DrawFunc(func(d render.Device) {
			d.SetConstants(c)
			d.DrawIndexed(quad, 0, 6)
		}))
	}
	return render.Pass{
		Name:   "light markers",
		Shader: m.shader,
		State: render.State{
			Blend:  render.BlendAdd,
			Depth:  render.DepthNoWrite,
			Raster: render.RasterizerState{Cull: render.CullNone},
		},
		Textures: []render.Binding{{Name: "Base", Texture: m.glow}},
		Constants: render.Constants{
			"mvp":   proj.Mul4(view),
			"right": right,
			"up":    up,
		},
		Draw: draws,
	}
}
