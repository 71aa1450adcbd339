// SPDX-License-Identifier: GPL-2.0-or-later

// Package glrender implements render.Device on OpenGL 4.6 core. All calls
// must happen on the thread owning the GL context.
package glrender

import (
	"log/slog"

	"lidefer/glh"
	"lidefer/render"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type mesh struct {
	vao *glh.VertexArray
	vbo *glh.Buffer
	ebo *glh.Buffer
}

type program struct {
	*glh.Program
	units map[string]int32
}

type targetKey struct {
	color render.TextureID
	depth render.TextureID
}

type Device struct {
	nextID   int32
	programs map[render.ShaderID]*program
	meshes   map[render.MeshID]*mesh
	textures map[render.TextureID]*glh.Texture2D
	fbos     map[targetKey]*glh.Framebuffer

	current *program
	state   render.State
	width   int
	height  int
}

// New wraps the current GL context. width and height are the size of the
// window framebuffer.
func New(width, height int) *Device {
	d := &Device{
		programs: make(map[render.ShaderID]*program),
		meshes:   make(map[render.MeshID]*mesh),
		textures: make(map[render.TextureID]*glh.Texture2D),
		fbos:     make(map[targetKey]*glh.Framebuffer),
		width:    width,
		height:   height,
		state:    render.DefaultState(),
	}
	apply(d.state)
	slog.Info("GL device",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)))
	return d
}

// SetWindowSize tells the device about a new window framebuffer size.
func (d *Device) SetWindowSize(width, height int) {
	d.width, d.height = width, height
}

func (d *Device) id() int32 {
	d.nextID++
	return d.nextID
}

// Caps reports no depth bounds test: the core profile does not expose
// EXT_depth_bounds_test.
func (d *Device) Caps() render.Caps {
	return render.Caps{}
}

func (d *Device) CreateShader(name, vertex, fragment, defines string) (render.ShaderID, error) {
	p, err := glh.NewProgram(withDefines(vertex, defines), withDefines(fragment, defines))
	if err != nil {
		return render.NoShader, errors.Wrapf(err, "shader %s", name)
	}
	id := render.ShaderID(d.id())
	d.programs[id] = &program{Program: p, units: make(map[string]int32)}
	return id, nil
}

func (d *Device) CreateMesh(layout []int, vertices []float32, indices []uint32) (render.MeshID, error) {
	stride := 0
	for _, l := range layout {
		stride += l
	}
	if stride == 0 || len(vertices)%stride != 0 {
		return render.NoMesh, errors.Errorf("vertex data does not match layout %v", layout)
	}
	m := &mesh{
		vao: glh.NewVertexArray(),
		vbo: glh.NewBuffer(glh.ArrayBuffer),
		ebo: glh.NewBuffer(glh.ElementArrayBuffer),
	}
	m.vao.Bind()
	m.vbo.Bind()
	m.vbo.SetData(4*len(vertices), glh.Ptr(vertices))
	m.ebo.Bind()
	m.ebo.SetData(4*len(indices), glh.Ptr(indices))
	offset := 0
	for i, l := range layout {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), int32(l), gl.FLOAT, false, int32(4*stride), uintptr(4*offset))
		offset += l
	}
	gl.BindVertexArray(0)
	id := render.MeshID(d.id())
	d.meshes[id] = m
	return id, nil
}

func textureFormat(f render.Format) glh.TextureFormat {
	switch f {
	case render.FormatRGBA32F:
		return glh.RGBA32F
	case render.FormatDepth24Stencil8:
		return glh.Depth24Stencil8
	}
	return glh.RGBA8
}

func (d *Device) CreateTexture(width, height int, format render.Format, data any) (render.TextureID, error) {
	t := glh.NewTexture2D(width, height, textureFormat(format))
	if data != nil {
		if err := t.SetData(data); err != nil {
			return render.NoTexture, err
		}
	}
	id := render.TextureID(d.id())
	d.textures[id] = t
	return id, nil
}

func (d *Device) UpdateTexture(tex render.TextureID, data any) error {
	t, ok := d.textures[tex]
	if !ok {
		return errors.Errorf("unknown texture %d", tex)
	}
	return t.SetData(data)
}

func (d *Device) CreateRenderTarget(width, height int, format render.Format) (render.TextureID, error) {
	return d.CreateTexture(width, height, format, nil)
}

func (d *Device) ResizeRenderTarget(tex render.TextureID, width, height int) error {
	t, ok := d.textures[tex]
	if !ok {
		return errors.Errorf("unknown render target %d", tex)
	}
	t.Resize(width, height)
	return nil
}

func (d *Device) BindTargets(t render.Targets) error {
	if t.Main {
		glh.UnbindFramebuffer()
		gl.Viewport(0, 0, int32(d.width), int32(d.height))
		return nil
	}
	key := targetKey{color: t.Color, depth: t.Depth}
	color, depth := d.textures[t.Color], d.textures[t.Depth]
	if color == nil && depth == nil {
		return errors.Errorf("no targets in %+v", t)
	}
	f, ok := d.fbos[key]
	if !ok {
		var err error
		if f, err = glh.NewFramebuffer(color, depth); err != nil {
			return err
		}
		d.fbos[key] = f
	}
	f.Bind()
	var w, h int
	if color != nil {
		w, h = color.Size()
	} else {
		w, h = depth.Size()
	}
	gl.Viewport(0, 0, int32(w), int32(h))
	return nil
}

// Clear ignores the write masks and scissor of the current state.
func (d *Device) Clear(c render.ClearOp) {
	var mask uint32
	if c.Color {
		gl.ColorMask(true, true, true, true)
		gl.ClearColor(c.Value[0], c.Value[1], c.Value[2], c.Value[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if c.Depth {
		gl.DepthMask(true)
		gl.ClearDepth(float64(c.DepthValue))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if c.Stencil {
		gl.StencilMask(0xff)
		gl.ClearStencil(int32(c.StencilValue))
		mask |= gl.STENCIL_BUFFER_BIT
	}
	gl.Disable(gl.SCISSOR_TEST)
	gl.Clear(mask)
	apply(d.state)
}

func (d *Device) Apply(s render.State) {
	d.state = s
	apply(s)
}

func (d *Device) UseShader(s render.ShaderID) {
	p, ok := d.programs[s]
	if !ok {
		slog.Warn("UseShader: unknown shader", "id", s)
		return
	}
	d.current = p
	p.Use()
}

// SetTexture gives every sampler name of a program its own texture unit.
func (d *Device) SetTexture(name string, tex render.TextureID) {
	p := d.current
	if p == nil {
		return
	}
	unit, ok := p.units[name]
	if !ok {
		unit = int32(len(p.units))
		p.units[name] = unit
		gl.Uniform1i(p.GetUniformLocation(name), unit)
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	if t, ok := d.textures[tex]; ok {
		t.Bind()
	} else {
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
}

func (d *Device) SetConstants(c render.Constants) {
	p := d.current
	if p == nil {
		return
	}
	for name, v := range c {
		loc := p.GetUniformLocation(name)
		if loc < 0 {
			continue
		}
		switch x := v.(type) {
		case float32:
			gl.Uniform1f(loc, x)
		case int32:
			gl.Uniform1i(loc, x)
		case bool:
			var i int32
			if x {
				i = 1
			}
			gl.Uniform1i(loc, i)
		case mgl32.Vec2:
			gl.Uniform2f(loc, x[0], x[1])
		case mgl32.Vec3:
			gl.Uniform3f(loc, x[0], x[1], x[2])
		case mgl32.Vec4:
			gl.Uniform4f(loc, x[0], x[1], x[2], x[3])
		case mgl32.Mat4:
			gl.UniformMatrix4fv(loc, 1, false, &x[0])
		default:
			slog.Warn("SetConstants: unsupported type", "name", name, "type", v)
		}
	}
}

func (d *Device) DrawIndexed(id render.MeshID, first, count int) {
	m, ok := d.meshes[id]
	if !ok {
		return
	}
	m.vao.Bind()
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(4*first))
}

// ReadPixels returns the window framebuffer as RGBA rows, top row first.
func (d *Device) ReadPixels() ([]byte, int, int) {
	w, h := d.width, d.height
	glh.UnbindFramebuffer()
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	data := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data))
	// GL rows start at the bottom
	row := make([]byte, w*4)
	for y := 0; y < h/2; y++ {
		top := data[y*w*4 : (y+1)*w*4]
		bottom := data[(h-1-y)*w*4 : (h-y)*w*4]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return data, w, h
}
