// SPDX-License-Identifier: GPL-2.0-or-later

// Package compositor shades the scene from the packed light index target.
// Lights are looked up through two side tables indexed by the stored byte.
package compositor

import (
	"log/slog"

	"lidefer/lightindex"
	"lidefer/lights"
	"lidefer/markers"
	"lidefer/render"
	"lidefer/shading"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// TableSize is the number of side table entries. Entry 0 means no light.
const TableSize = lights.MaxLights + 1

// ColorTable maps a stored index to the light colour.
type ColorTable [TableSize][4]uint8

// PositionTable maps a stored index to the view space light position and
// the inverse radius.
type PositionTable [TableSize][4]float32

// BuildColorTable scales colours by 256 and saturates, so a full intensity
// channel of 1 stores 255.
func BuildColorTable(s *lights.Set) *ColorTable {
	var t ColorTable
	for i := 0; i < s.Len(); i++ {
		c := s.At(i).Color
		t[i+1] = [4]uint8{channel(c.X), channel(c.Y), channel(c.Z), 0}
	}
	return &t
}

func channel(v float32) uint8 {
	return uint8(max(min(v*256, 255), 0))
}

// BuildPositionTable moves every active light into view space. Inactive
// lights keep a zero entry.
func BuildPositionTable(view mgl32.Mat4, s *lights.Set) *PositionTable {
	var t PositionTable
	for i := 0; i < s.Len(); i++ {
		if !s.Active(i) {
			continue
		}
		l := s.At(i)
		v := view.Mul4x1(mgl32.Vec4{l.Position.X, l.Position.Y, l.Position.Z, 1})
		t[i+1] = [4]float32{v.X(), v.Y(), v.Z(), 1 / l.Radius}
	}
	return &t
}

func (t *ColorTable) flat() []uint8 {
	out := make([]uint8, 0, TableSize*4)
	for _, e := range t {
		out = append(out, e[:]...)
	}
	return out
}

func (t *PositionTable) flat() []float32 {
	out := make([]float32, 0, TableSize*4)
	for _, e := range t {
		out = append(out, e[:]...)
	}
	return out
}

// Frame is what the compositor needs to know about the frame being drawn.
type Frame struct {
	View   mgl32.Mat4
	Proj   mgl32.Mat4
	CamPos mgl32.Vec3
	Lights *lights.Set
	Mode   lightindex.Mode
	// Index is the packed light index target filled by the encoder.
	Index render.TextureID
}

type Compositor struct {
	dev     render.Device
	scene   render.Geometry
	markers *markers.Markers

	depthOnly render.ShaderID
	lit       [lightindex.MaxMode + 1]render.ShaderID
	maxMode   lightindex.Mode

	colorTex     render.TextureID
	posTex       render.TextureID
	colorVersion uint64
	colorValid   bool
}

// New compiles one lit shader per packing mode. The four light variant may
// fail on weaker drivers; MaxMode then reports three.
func New(dev render.Device, scene render.Geometry, mk *markers.Markers) (*Compositor, error) {
	c := &Compositor{
		dev:     dev,
		scene:   scene,
		markers: mk,
	}
	var err error
	if c.depthOnly, err = dev.CreateShader("depthOnly", shading.Assemble(shading.DepthOnlyVertex), shading.Assemble(shading.DepthOnlyFragment), ""); err != nil {
		return nil, errors.Wrap(err, "compositor")
	}
	vs := shading.Assemble(shading.SceneVertex)
	fs := shading.Assemble(shading.Surface, litFragment)
	for m := lightindex.ModeOne; m <= lightindex.MaxMode; m++ {
		id, err := dev.CreateShader("lightingLIDefer", vs, fs, m.Define())
		if err != nil {
			if m == lightindex.MaxMode {
				slog.Warn("Four light shader not supported, using three", "error", err)
				break
			}
			return nil, errors.Wrapf(err, "lit shader for %d lights", m)
		}
		c.lit[m] = id
		c.maxMode = m
	}
	if c.colorTex, err = dev.CreateTexture(TableSize, 1, render.FormatRGBA8, nil); err != nil {
		return nil, errors.Wrap(err, "light colour table")
	}
	if c.posTex, err = dev.CreateTexture(TableSize, 1, render.FormatRGBA32F, nil); err != nil {
		return nil, errors.Wrap(err, "light position table")
	}
	return c, nil
}

// MaxMode is the highest packing mode a lit shader exists for.
func (c *Compositor) MaxMode() lightindex.Mode {
	return c.maxMode
}

// ColorTexture and PositionTexture return the side tables.
func (c *Compositor) ColorTexture() render.TextureID {
	return c.colorTex
}

func (c *Compositor) PositionTexture() render.TextureID {
	return c.posTex
}

// Update uploads the side tables. Colours only change through the light set
// so they are rebuilt when its colour version moves; positions are in view
// space and are rebuilt every call.
func (c *Compositor) Update(view mgl32.Mat4, s *lights.Set) error {
	if !c.colorValid || s.ColorVersion() != c.colorVersion {
		if err := c.dev.UpdateTexture(c.colorTex, BuildColorTable(s).flat()); err != nil {
			return errors.Wrap(err, "light colour table")
		}
		c.colorVersion = s.ColorVersion()
		c.colorValid = true
	}
	if err := c.dev.UpdateTexture(c.posTex, BuildPositionTable(view, s).flat()); err != nil {
		return errors.Wrap(err, "light position table")
	}
	return nil
}

// Passes returns the main framebuffer passes: a depth prepass, the lit scene
// and the light markers. Modes above MaxMode are drawn with MaxMode.
func (c *Compositor) Passes(f Frame) []render.Pass {
	mvp := f.Proj.Mul4(f.View)
	mode := min(f.Mode, c.maxMode)
	passes := []render.Pass{{
		Name:    "main depth prepass",
		Targets: &render.MainFramebuffer,
		Clear: &render.ClearOp{
			Color: true, Depth: true, Stencil: true, DepthValue: 1,
		},
		Shader: c.depthOnly,
		State: render.State{
			Blend:  render.BlendNoColor,
			Depth:  render.DepthDefault,
			Raster: render.RasterizerState{Cull: render.CullBack},
		},
		Constants: render.Constants{"mvp": mvp},
		Draw:      []render.Drawer{render.DrawAll(c.scene)},
	}}
	for i := 0; i < c.scene.Batches(); i++ {
		mat := c.scene.Material(i)
		passes = append(passes, render.Pass{
			Name:   "lit batch",
			Shader: c.lit[mode],
			State: render.State{
				Blend:  render.BlendCopy,
				Depth:  render.DepthNoWrite,
				Raster: render.RasterizerState{Cull: render.CullBack},
			},
			Textures: []render.Binding{
				{Name: "BitPlane", Texture: f.Index},
				{Name: "LightColorTex", Texture: c.colorTex},
				{Name: "LightPosTex", Texture: c.posTex},
				{Name: "Base", Texture: mat.Base},
				{Name: "Bump", Texture: mat.Bump},
			},
			Constants: shading.MaterialConstants(mat, render.Constants{
				"mvp":    mvp,
				"view":   f.View,
				"camPos": f.CamPos,
			}),
			Draw: []render.Drawer{c.scene.Batch(i)},
		})
	}
	return append(passes, c.markers.Pass(f.View, f.Proj, f.Lights))
}
