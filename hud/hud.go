// SPDX-License-Identifier: GPL-2.0-or-later

// Package hud draws a few lines of status text in the top left corner.
package hud

import (
	"image"
	"image/color"
	"image/draw"
	"slices"

	"lidefer/render"
	"lidefer/shading"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 512
	Height = 128
	margin = 4
)

var face = basicfont.Face7x13

const (
	vertexSource = `layout (location = 0) in vec3 position;
out vec2 Texcoord;
uniform vec4 rect;

void main() {
	// image rows run top down
	Texcoord = vec2(position.x, 1.0 - position.y);
	gl_Position = vec4(rect.xy + position.xy * rect.zw, 0.0, 1.0);
}
`

	fragmentSource = `in vec2 Texcoord;
out vec4 frag_color;
uniform sampler2D Base;

void main() {
	frag_color = texture(Base, Texcoord);
}
`
)

type HUD struct {
	dev    render.Device
	shader render.ShaderID
	tex    render.TextureID
	quad   render.MeshRange
	img    *image.RGBA
	lines  []string
}

func New(dev render.Device) (*HUD, error) {
	h := &HUD{
		dev: dev,
		img: image.NewRGBA(image.Rect(0, 0, Width, Height)),
	}
	var err error
	if h.shader, err = dev.CreateShader("hud", shading.Assemble(vertexSource), shading.Assemble(fragmentSource), ""); err != nil {
		return nil, errors.Wrap(err, "hud")
	}
	if h.tex, err = dev.CreateTexture(Width, Height, render.FormatRGBA8, h.img.Pix); err != nil {
		return nil, errors.Wrap(err, "hud")
	}
	quad, err := dev.CreateMesh([]int{3}, []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}, []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		return nil, errors.Wrap(err, "hud")
	}
	h.quad = render.MeshRange{Mesh: quad, Count: 6}
	return h, nil
}

// Render draws lines into img on a translucent backdrop. Lines that do not
// fit are cut off.
func Render(img *image.RGBA, lines []string) {
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	if len(lines) == 0 {
		return
	}
	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	longest := 0
	for _, l := range lines {
		longest = max(longest, font.MeasureString(face, l).Ceil())
	}
	back := image.Rect(0, 0, longest+2*margin, len(lines)*lineHeight+2*margin).Intersect(img.Bounds())
	draw.Draw(img, back, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(margin, margin+i*lineHeight+m.Ascent.Ceil())
		d.DrawString(l)
	}
}

// SetLines replaces the text. The texture is only uploaded on change.
func (h *HUD) SetLines(lines ...string) error {
	if slices.Equal(lines, h.lines) {
		return nil
	}
	h.lines = slices.Clone(lines)
	Render(h.img, h.lines)
	return h.dev.UpdateTexture(h.tex, h.img.Pix)
}

// Pass draws the text texture unscaled into the top left corner of a
// width x height framebuffer.
func (h *HUD) Pass(width, height int) render.Pass {
	w := 2 * float32(Width) / float32(max(width, 1))
	hh := 2 * float32(Height) / float32(max(height, 1))
	return render.Pass{
		Name:     "hud",
		Targets:  &render.MainFramebuffer,
		Shader:   h.shader,
		State:    render.State{Blend: render.BlendSrcAlpha, Depth: render.DepthOff},
		Textures: []render.Binding{{Name: "Base", Texture: h.tex}},
		Constants: render.Constants{
			"rect": mgl32.Vec4{-1, 1 - hh, w, hh},
		},
		Draw: []render.Drawer{h.quad},
	}
}
