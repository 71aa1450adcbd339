// SPDX-License-Identifier: GPL-2.0-or-later

// Package forward lights the scene the classic way: an ambient pass and then
// one additive pass per light and material, scissored to the light.
package forward

import (
	"fmt"
	"maps"

	"lidefer/lights"
	"lidefer/markers"
	"lidefer/render"
	"lidefer/shading"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	ambientFragment = `void main() {
	surface s = sampleSurface();
	frag_color = vec4(ambient * s.base, 1.0);
}
`

	lightFragment = `uniform vec3 lightColor;
uniform vec3 lightPos;
uniform float invRadius;

void main() {
	surface s = sampleSurface();
	vec3 l = (lightPos - WorldPos) * invRadius;
	frag_color = vec4(shade(s, l, camPos - WorldPos, lightColor), 1.0);
}
`
)

// Frame is what the forward path needs to know about the frame being drawn.
type Frame struct {
	View   mgl32.Mat4
	Proj   mgl32.Mat4
	CamPos mgl32.Vec3
	// Lights must be culled already: only enabled lights are drawn.
	Lights *lights.Set
}

type Path struct {
	scene   render.Geometry
	markers *markers.Markers
	ambient render.ShaderID
	light   render.ShaderID
}

func New(dev render.Device, scene render.Geometry, mk *markers.Markers) (*Path, error) {
	p := &Path{scene: scene, markers: mk}
	vs := shading.Assemble(shading.SceneVertex)
	var err error
	if p.ambient, err = dev.CreateShader("lightingMP_ambient", vs, shading.Assemble(shading.Surface, ambientFragment), ""); err != nil {
		return nil, errors.Wrap(err, "forward")
	}
	if p.light, err = dev.CreateShader("lightingMP", vs, shading.Assemble(shading.Surface, lightFragment), ""); err != nil {
		return nil, errors.Wrap(err, "forward")
	}
	return p, nil
}

func (p *Path) material(i int, mvp mgl32.Mat4, camPos mgl32.Vec3) ([]render.Binding, render.Constants) {
	m := p.scene.Material(i)
	return []render.Binding{
			{Name: "Base", Texture: m.Base},
			{Name: "Bump", Texture: m.Bump},
		}, shading.MaterialConstants(m, render.Constants{
			"mvp":    mvp,
			"camPos": camPos,
		})
}

// Passes returns the forward passes onto the main framebuffer. The ambient
// passes lay down depth, the light passes add on top with equal depth.
func (p *Path) Passes(f Frame) []render.Pass {
	mvp := f.Proj.Mul4(f.View)
	passes := []render.Pass{{
		Name:    "forward clear",
		Targets: &render.MainFramebuffer,
		Clear: &render.ClearOp{
			Color: true, Depth: true, Stencil: true, DepthValue: 1,
		},
	}}
	for i := 0; i < p.scene.Batches(); i++ {
		tex, consts := p.material(i, mvp, f.CamPos)
		passes = append(passes, render.Pass{
			Name:      fmt.Sprintf("ambient %d", i),
			Shader:    p.ambient,
			State:     render.DefaultState(),
			Textures:  tex,
			Constants: consts,
			Draw:      []render.Drawer{p.scene.Batch(i)},
		})
	}
	for i := 0; i < p.scene.Batches(); i++ {
		tex, consts := p.material(i, mvp, f.CamPos)
		batch := p.scene.Batch(i)
		for j := 0; j < f.Lights.Len(); j++ {
			l := f.Lights.At(j)
			if !l.Enabled || l.Radius <= 0 {
				continue
			}
			lc := render.Constants{
				"lightColor": mgl32.Vec3{l.Color.X, l.Color.Y, l.Color.Z},
				"lightPos":   mgl32.Vec3{l.Position.X, l.Position.Y, l.Position.Z},
				"invRadius":  1 / l.Radius,
			}
			maps.Copy(lc, consts)
			passes = append(passes, render.Pass{
				Name:   fmt.Sprintf("material %d light %d", i, j),
				Shader: p.light,
				State: render.State{
					Blend:  render.BlendAdd,
					Depth:  render.DepthNoWrite,
					Raster: render.RasterizerState{Cull: render.CullBack, Scissor: true, Rect: l.Rect},
				},
				Textures:  tex,
				Constants: lc,
				Draw:      []render.Drawer{batch},
			})
		}
	}
	return append(passes, p.markers.Pass(f.View, f.Proj, f.Lights))
}
