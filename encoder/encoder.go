// SPDX-License-Identifier: GPL-2.0-or-later

// Package encoder builds the passes that draw light volumes into the packed
// light index target.
package encoder

import (
	"fmt"

	"lidefer/lightindex"
	"lidefer/lights"
	"lidefer/math"
	"lidefer/math/vec"
	"lidefer/render"
	"lidefer/shading"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Frame is what the encoder needs to know about the frame being drawn.
type Frame struct {
	View mgl32.Mat4
	Proj mgl32.Mat4
	// Lights must be culled already: only enabled lights are drawn.
	Lights *lights.Set
	Mode   lightindex.Mode
	// StencilMask marks the pixels of every light in the stencil buffer
	// before colour is written. It takes precedence over DepthBounds.
	StencilMask bool
	// DepthBounds limits every light to the depth range of its sphere.
	DepthBounds bool
}

type Encoder struct {
	dev    render.Device
	scene  render.Geometry
	volume render.Drawer

	depthOnly  render.ShaderID
	color      render.ShaderID
	colorClamp render.ShaderID
	gridColor  render.ShaderID
	gridCheck  render.ShaderID
	quad       render.MeshRange

	index  render.TextureID
	depth  render.TextureID
	width  int
	height int
}

// New compiles the encoder shaders and creates a width x height index
// target with its depth and stencil buffer.
func New(dev render.Device, scene render.Geometry, volume render.Drawer, width, height int) (*Encoder, error) {
	e := &Encoder{
		dev:    dev,
		scene:  scene,
		volume: volume,
		width:  width,
		height: height,
	}
	var err error
	if e.depthOnly, err = dev.CreateShader("depthOnly", shading.Assemble(shading.DepthOnlyVertex), shading.Assemble(shading.DepthOnlyFragment), ""); err != nil {
		return nil, errors.Wrap(err, "encoder")
	}
	if e.color, err = dev.CreateShader("lightingColorOnly", lightVolumeVertex, lightVolumeFragment, ""); err != nil {
		return nil, errors.Wrap(err, "encoder")
	}
	if e.colorClamp, err = dev.CreateShader("lightingColorOnly", lightVolumeVertex, lightVolumeFragment, "#define CLAMP_DEPTH 1\n"); err != nil {
		return nil, errors.Wrap(err, "encoder")
	}
	if e.gridColor, err = dev.CreateShader("precisionColor", gridVertex, gridColorFragment, ""); err != nil {
		return nil, errors.Wrap(err, "encoder")
	}
	if e.gridCheck, err = dev.CreateShader("precisionCompare", gridVertex, gridCompareFragment, ""); err != nil {
		return nil, errors.Wrap(err, "encoder")
	}
	quad, err := dev.CreateMesh([]int{3}, []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}, []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		return nil, errors.Wrap(err, "encoder quad")
	}
	e.quad = render.MeshRange{Mesh: quad, Count: 6}
	if e.index, err = dev.CreateRenderTarget(width, height, render.FormatRGBA8); err != nil {
		return nil, errors.Wrap(err, "light index target")
	}
	if e.depth, err = dev.CreateRenderTarget(width, height, render.FormatDepth24Stencil8); err != nil {
		return nil, errors.Wrap(err, "light index depth")
	}
	return e, nil
}

// Target returns the packed light index texture.
func (e *Encoder) Target() render.TextureID {
	return e.index
}

// DepthTarget returns the depth and stencil texture of the index target.
func (e *Encoder) DepthTarget() render.TextureID {
	return e.depth
}

func (e *Encoder) Size() (int, int) {
	return e.width, e.height
}

// Resize adapts the targets to a new framebuffer size.
func (e *Encoder) Resize(width, height int) error {
	if width == e.width && height == e.height {
		return nil
	}
	if err := e.dev.ResizeRenderTarget(e.index, width, height); err != nil {
		return errors.Wrap(err, "resize light index target")
	}
	if err := e.dev.ResizeRenderTarget(e.depth, width, height); err != nil {
		return errors.Wrap(err, "resize light index depth")
	}
	e.width, e.height = width, height
	return nil
}

func (e *Encoder) targets() *render.Targets {
	return &render.Targets{Color: e.index, Depth: e.depth}
}

// Passes returns the passes filling the index target for one frame: a depth
// prepass, the clear and one or two passes per enabled light. Lights are
// drawn from the highest slot down so the primaries end up on top.
func (e *Encoder) Passes(f Frame) []render.Pass {
	mvp := f.Proj.Mul4(f.View)
	passes := []render.Pass{
		{
			Name:    "depth prepass",
			Targets: e.targets(),
			Clear:   &render.ClearOp{Depth: true, Stencil: true, DepthValue: 1},
			Shader:  e.depthOnly,
			State: render.State{
				Blend:  render.BlendNoColor,
				Depth:  render.DepthDefault,
				Raster: render.RasterizerState{Cull: render.CullBack},
			},
			Constants: render.Constants{"mvp": mvp},
			Draw:      []render.Drawer{render.DrawAll(e.scene)},
		},
		{
			Name:    "clear index",
			Targets: e.targets(),
			Clear:   &render.ClearOp{Color: true},
		},
	}

	blend := lightindex.BlendFor(f.Mode)
	for i := f.Lights.Len() - 1; i >= 0; i-- {
		l := f.Lights.At(i)
		if !l.Enabled || l.Radius <= 0 {
			continue
		}
		index := uint8(i + 1)
		c := lightindex.EncodeFloat(f.Mode, index)
		consts := render.Constants{
			"mvp":         mvp,
			"lightPos":    mgl32.Vec3{l.Position.X, l.Position.Y, l.Position.Z},
			"lightRadius": l.Radius,
			"outColor":    mgl32.Vec4{c[0], c[1], c[2], c[3]},
		}
		scissor := render.RasterizerState{Scissor: true, Rect: l.Rect}
		name := fmt.Sprintf("light %d", i)

		if f.StencilMask {
			// mark where the back faces are hidden by geometry
			mark := scissor
			mark.Cull = render.CullFront
			passes = append(passes, render.Pass{
				Name:   name + " mark",
				Shader: e.colorClamp,
				State: render.State{
					Blend: render.BlendNoColor,
					Depth: render.DepthNoWrite,
					Stencil: render.StencilState{
						Test: true, Func: render.Always, Ref: index, Mask: 0xff,
						Fail: render.Keep, DepthFail: render.Replace, Pass: render.Keep,
					},
					Raster: mark,
				},
				Constants: consts,
				Draw:      []render.Drawer{e.volume},
			})
			// and colour where the front faces are in front of it
			draw := scissor
			draw.Cull = render.CullBack
			passes = append(passes, render.Pass{
				Name:   name,
				Shader: e.colorClamp,
				State: render.State{
					Blend: blend,
					Depth: render.DepthNoWrite,
					Stencil: render.StencilState{
						Test: true, Func: render.Equal, Ref: index, Mask: 0xff,
						Fail: render.Keep, DepthFail: render.Keep, Pass: render.Keep,
					},
					Raster: draw,
				},
				Constants: consts,
				Draw:      []render.Drawer{e.volume},
			})
			continue
		}

		raster := scissor
		raster.Cull = render.CullFront
		st := render.State{
			Blend:  blend,
			Depth:  render.DepthPassGreater,
			Raster: raster,
		}
		if f.DepthBounds {
			near, far := DepthBounds(f.View, f.Proj, l.Position, l.Radius)
			st.Bounds = render.DepthBounds{Enabled: true, Near: near, Far: far}
		}
		passes = append(passes, render.Pass{
			Name:      name,
			Shader:    e.color,
			State:     st,
			Constants: consts,
			Draw:      []render.Drawer{e.volume},
		})
	}
	return passes
}

// DepthBounds returns the window depth range [near, far] covered by a sphere.
// Parts behind the eye map to 0.
func DepthBounds(view, proj mgl32.Mat4, pos vec.Vec3, radius float32) (float32, float32) {
	v := view.Mul4x1(mgl32.Vec4{pos.X, pos.Y, pos.Z, 1})
	depth := func(offset float32) float32 {
		c := proj.Mul4x1(mgl32.Vec4{v.X(), v.Y(), v.Z() + offset, 1})
		if c.W() <= 0 {
			return 0
		}
		return math.Clamp(-1, c.Z()/c.W(), 1)*0.5 + 0.5
	}
	near := depth(radius)
	far := depth(-radius)
	if near > far {
		near = far
	}
	return near, far
}

// GridSize is the number of cells per side of the precision test grid.
const GridSize = 16

func gridCell(i int) mgl32.Vec4 {
	const size = 1.0 / GridSize
	return mgl32.Vec4{float32(i%GridSize) * size, float32(i/GridSize) * size, size, size}
}

// PrecisionPasses writes every byte value into its own cell of the index
// target and then shows on the main framebuffer whether each cell reads back
// as the value that was written: green where it does, red where it does not.
func (e *Encoder) PrecisionPasses() []render.Pass {
	passes := []render.Pass{{
		Name:    "precision clear",
		Targets: e.targets(),
		Clear:   &render.ClearOp{Color: true, Depth: true, Stencil: true, DepthValue: 1},
	}}
	st := render.State{Blend: render.BlendCopy, Depth: render.DepthOff}
	for i := 0; i < 256; i++ {
		v := lightindex.Normalize(uint8(i))
		passes = append(passes, render.Pass{
			Name:   fmt.Sprintf("precision write %d", i),
			Shader: e.gridColor,
			State:  st,
			Constants: render.Constants{
				"rect":     gridCell(i),
				"outColor": mgl32.Vec4{v, v, v, v},
			},
			Draw: []render.Drawer{e.quad},
		})
	}
	passes = append(passes, render.Pass{
		Name:    "precision target",
		Targets: &render.MainFramebuffer,
		Clear:   &render.ClearOp{Color: true, Depth: true, DepthValue: 1},
	})
	for i := 0; i < 256; i++ {
		passes = append(passes, render.Pass{
			Name:     fmt.Sprintf("precision compare %d", i),
			Shader:   e.gridCheck,
			State:    st,
			Textures: []render.Binding{{Name: "BaseTex", Texture: e.index}},
			Constants: render.Constants{
				"rect":      gridCell(i),
				"cmpLimits": mgl32.Vec2{float32(i), float32(i + 1)},
			},
			Draw: []render.Drawer{e.quad},
		})
	}
	return passes
}
