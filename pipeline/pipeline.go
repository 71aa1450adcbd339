// SPDX-License-Identifier: GPL-2.0-or-later

// Package pipeline drives one frame: it moves the lights, culls them and
// draws the scene with either the light indexed or the forward path.
package pipeline

import (
	"log/slog"

	"lidefer/bsp"
	"lidefer/camera"
	"lidefer/compositor"
	"lidefer/cull"
	"lidefer/cvars"
	"lidefer/encoder"
	"lidefer/forward"
	"lidefer/hud"
	"lidefer/lightindex"
	"lidefer/lights"
	"lidefer/markers"
	"lidefer/math"
	"lidefer/math/vec"
	"lidefer/render"
	"lidefer/volume"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Scene is the level as the pipeline needs it: batches to draw and the
// triangles to collide with.
type Scene interface {
	render.Geometry
	Triangles() ([]vec.Vec3, []uint32)
}

type Path uint8

const (
	PathIndexed Path = iota
	PathForward
	PathPrecision
)

func (p Path) String() string {
	switch p {
	case PathIndexed:
		return "light indexed"
	case PathForward:
		return "forward"
	}
	return "precision test"
}

// Stats describes the last frame.
type Stats struct {
	Path    Path
	Mode    lightindex.Mode
	Visible int
	Passes  int
	Draws   int
}

type Pipeline struct {
	dev    render.Device
	world  *bsp.Tree
	lights *lights.Set
	anim   *lights.Animator
	camera *camera.Camera

	volume     *volume.Mesh
	encoder    *encoder.Encoder
	compositor *compositor.Compositor
	forward    *forward.Path
	hud        *hud.HUD
	runner     *render.Runner

	static bool
	saved  lights.Table

	width  int
	height int
	stats  Stats
}

// New builds everything a frame needs. Device limits are folded into the
// cvars: without a depth bounds test the stencil mask is used instead, and
// the light count per fragment is capped by the shaders that compiled.
func New(dev render.Device, scene Scene, start vec.Vec3, width, height int) (*Pipeline, error) {
	verts, indices := scene.Triangles()
	world, err := bsp.Build(verts, indices)
	if err != nil {
		return nil, errors.Wrap(err, "collision tree")
	}
	p := &Pipeline{
		dev:    dev,
		world:  world,
		lights: lights.NewSet(),
		camera: camera.New(start),
		runner: render.NewRunner(dev),
		width:  width,
		height: height,
	}
	p.anim = lights.NewAnimator(p.lights, world)
	p.anim.Warmup(lights.WarmupSteps, lights.WarmupDt)

	if p.volume, err = volume.New(dev); err != nil {
		return nil, err
	}
	if p.encoder, err = encoder.New(dev, scene, p.volume, width, height); err != nil {
		return nil, err
	}
	mk, err := markers.New(dev)
	if err != nil {
		return nil, err
	}
	if p.compositor, err = compositor.New(dev, scene, mk); err != nil {
		return nil, err
	}
	if p.forward, err = forward.New(dev, scene, mk); err != nil {
		return nil, err
	}
	if p.hud, err = hud.New(dev); err != nil {
		return nil, err
	}

	if !dev.Caps().DepthBounds {
		slog.Info("Depth bounds test not supported, using stencil masking")
		cvars.RDepthBounds.Force("0")
		cvars.RStencilMask.SetValue(1)
	}
	if top := p.compositor.MaxMode(); cvars.RLightsPerFrag.Value() > float32(top) {
		slog.Info("Lights per fragment capped", "max", int(top))
		cvars.RLightsPerFrag.SetValue(float32(top))
	}
	if bad := lightindex.PrecisionGrid(); len(bad) != 0 {
		slog.Warn("Index values do not survive the 8 bit round trip", "values", bad)
	} else {
		slog.Debug("Index precision check passed")
	}
	return p, nil
}

func (p *Pipeline) Camera() *camera.Camera {
	return p.camera
}

// World is the collision tree of the scene.
func (p *Pipeline) World() *bsp.Tree {
	return p.world
}

func (p *Pipeline) Lights() *lights.Set {
	return p.lights
}

func (p *Pipeline) Animator() *lights.Animator {
	return p.anim
}

func (p *Pipeline) HUD() *hud.HUD {
	return p.hud
}

func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Resize adapts to a new framebuffer size.
func (p *Pipeline) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	p.width, p.height = width, height
	return p.encoder.Resize(width, height)
}

// mode is the light count per fragment the cvar asks for, within what the
// compositor can draw.
func (p *Pipeline) mode() lightindex.Mode {
	m := int(cvars.RLightsPerFrag.Value())
	hi := int(lightindex.MaxMode)
	if p.compositor != nil {
		hi = int(p.compositor.MaxMode())
	}
	return lightindex.Mode(math.Clamp(int(lightindex.ModeOne), m, hi))
}

// PlaceAtCamera puts light i where the camera is. Useful with the static
// light scene, the animation overwrites the particle slots.
func (p *Pipeline) PlaceAtCamera(i int, color vec.Vec3, radius float32) error {
	return p.lights.Place(i, p.camera.Pos, color, radius)
}

// switchStatic swaps the animated lights for the baked scene and back. The
// animation resumes where it was left.
func (p *Pipeline) switchStatic(static bool) {
	if static == p.static {
		return
	}
	p.static = static
	if static {
		p.saved = p.lights.Snapshot()
		p.lights.Load(lights.StaticScene())
		slog.Info("Static light scene")
		return
	}
	p.lights.Load(p.saved)
	slog.Info("Animated light scene", "elapsed", p.anim.Elapsed())
}

// Frame advances the lights by dt seconds and draws one frame.
func (p *Pipeline) Frame(dt float32) error {
	p.switchStatic(cvars.RStaticLights.Bool())
	if cvars.RAnimateLights.Bool() && !p.static {
		p.anim.Step(dt)
	}

	view := p.camera.View()
	proj := camera.Projection(p.width, p.height)
	p.lights.ApplyVisibility(cull.Lights(view, proj, p.lights, p.width, p.height))

	st := Stats{Mode: p.mode(), Visible: p.lights.EnabledCount()}
	var passes []render.Pass
	switch {
	case cvars.RPrecisionTest.Bool():
		st.Path = PathPrecision
		passes = p.encoder.PrecisionPasses()
	case cvars.RLIDefer.Bool():
		st.Path = PathIndexed
		if err := p.compositor.Update(view, p.lights); err != nil {
			return err
		}
		passes = append(p.encoder.Passes(encoder.Frame{
			View:        view,
			Proj:        proj,
			Lights:      p.lights,
			Mode:        st.Mode,
			StencilMask: cvars.RStencilMask.Bool(),
			DepthBounds: cvars.RDepthBounds.Bool() && p.dev.Caps().DepthBounds,
		}), p.compositor.Passes(compositor.Frame{
			View:   view,
			Proj:   proj,
			CamPos: camPos(p.camera),
			Lights: p.lights,
			Mode:   st.Mode,
			Index:  p.encoder.Target(),
		})...)
	default:
		st.Path = PathForward
		passes = p.forward.Passes(forward.Frame{
			View:   view,
			Proj:   proj,
			CamPos: camPos(p.camera),
			Lights: p.lights,
		})
	}
	if cvars.RShowStats.Bool() {
		passes = append(passes, p.hud.Pass(p.width, p.height))
	}

	p.runner.Reset()
	if err := p.runner.Run(passes); err != nil {
		return err
	}
	rs := p.runner.Stats()
	st.Passes, st.Draws = rs.Passes, rs.Draws
	p.stats = st
	return nil
}

func camPos(c *camera.Camera) mgl32.Vec3 {
	return mgl32.Vec3{c.Pos.X, c.Pos.Y, c.Pos.Z}
}
