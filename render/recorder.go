// SPDX-License-Identifier: GPL-2.0-or-later

package render

import (
	"maps"

	"github.com/pkg/errors"
)

// Recorder is a Device that keeps every call in memory instead of talking to
// a GPU. It backs the tests of everything that builds passes and is handy for
// dumping a frame.
type Recorder struct {
	DeviceCaps Caps
	// FailShaders makes CreateShader fail for the given "name defines" keys
	// or plain names.
	FailShaders map[string]bool

	Shaders  []RecordedShader
	Meshes   map[MeshID]RecordedMesh
	Textures map[TextureID]*RecordedTexture
	Draws    []RecordedDraw
	Clears   []RecordedClear
	Binds    []Targets

	nextID   int32
	targets  Targets
	shader   ShaderID
	state    State
	bindings map[string]TextureID
	consts   Constants
}

type RecordedShader struct {
	ID      ShaderID
	Name    string
	Defines string
}

type RecordedMesh struct {
	Layout   []int
	Vertices int
	Indices  int
}

type RecordedTexture struct {
	Width, Height int
	Format        Format
	Target        bool
	Data          any
	Updates       int
}

type RecordedDraw struct {
	Targets   Targets
	Shader    ShaderID
	State     State
	Textures  map[string]TextureID
	Constants Constants
	Mesh      MeshID
	First     int
	Count     int
}

type RecordedClear struct {
	Targets Targets
	Op      ClearOp
}

func NewRecorder(caps Caps) *Recorder {
	return &Recorder{
		DeviceCaps:  caps,
		FailShaders: make(map[string]bool),
		Meshes:      make(map[MeshID]RecordedMesh),
		Textures:    make(map[TextureID]*RecordedTexture),
		bindings:    make(map[string]TextureID),
		consts:      make(Constants),
	}
}

func (r *Recorder) id() int32 {
	r.nextID++
	return r.nextID
}

func (r *Recorder) Caps() Caps {
	return r.DeviceCaps
}

func (r *Recorder) CreateShader(name, vertex, fragment, defines string) (ShaderID, error) {
	if r.FailShaders[name] || r.FailShaders[name+" "+defines] {
		return NoShader, errors.Errorf("shader %s %q failed to compile", name, defines)
	}
	s := ShaderID(r.id())
	r.Shaders = append(r.Shaders, RecordedShader{ID: s, Name: name, Defines: defines})
	return s, nil
}

func (r *Recorder) CreateMesh(layout []int, vertices []float32, indices []uint32) (MeshID, error) {
	stride := 0
	for _, l := range layout {
		stride += l
	}
	if stride == 0 || len(vertices)%stride != 0 {
		return NoMesh, errors.Errorf("vertex data does not match layout %v", layout)
	}
	for _, i := range indices {
		if int(i) >= len(vertices)/stride {
			return NoMesh, errors.Errorf("index %d out of range", i)
		}
	}
	m := MeshID(r.id())
	r.Meshes[m] = RecordedMesh{Layout: layout, Vertices: len(vertices) / stride, Indices: len(indices)}
	return m, nil
}

func (r *Recorder) CreateTexture(width, height int, format Format, data any) (TextureID, error) {
	t := TextureID(r.id())
	r.Textures[t] = &RecordedTexture{Width: width, Height: height, Format: format, Data: data}
	return t, nil
}

func (r *Recorder) UpdateTexture(tex TextureID, data any) error {
	t, ok := r.Textures[tex]
	if !ok {
		return errors.Errorf("unknown texture %d", tex)
	}
	t.Data = data
	t.Updates++
	return nil
}

func (r *Recorder) CreateRenderTarget(width, height int, format Format) (TextureID, error) {
	t := TextureID(r.id())
	r.Textures[t] = &RecordedTexture{Width: width, Height: height, Format: format, Target: true}
	return t, nil
}

func (r *Recorder) ResizeRenderTarget(tex TextureID, width, height int) error {
	t, ok := r.Textures[tex]
	if !ok || !t.Target {
		return errors.Errorf("unknown render target %d", tex)
	}
	t.Width, t.Height = width, height
	return nil
}

func (r *Recorder) BindTargets(t Targets) error {
	if !t.Main {
		if _, ok := r.Textures[t.Color]; t.Color != NoTexture && !ok {
			return errors.Errorf("unknown color target %d", t.Color)
		}
		if _, ok := r.Textures[t.Depth]; t.Depth != NoTexture && !ok {
			return errors.Errorf("unknown depth target %d", t.Depth)
		}
	}
	r.targets = t
	r.Binds = append(r.Binds, t)
	return nil
}

func (r *Recorder) Clear(c ClearOp) {
	r.Clears = append(r.Clears, RecordedClear{Targets: r.targets, Op: c})
}

func (r *Recorder) Apply(s State) {
	r.state = s
}

func (r *Recorder) UseShader(s ShaderID) {
	r.shader = s
}

func (r *Recorder) SetTexture(name string, tex TextureID) {
	r.bindings[name] = tex
}

func (r *Recorder) SetConstants(c Constants) {
	maps.Copy(r.consts, c)
}

func (r *Recorder) DrawIndexed(mesh MeshID, first, count int) {
	r.Draws = append(r.Draws, RecordedDraw{
		Targets:   r.targets,
		Shader:    r.shader,
		State:     r.state,
		Textures:  maps.Clone(r.bindings),
		Constants: maps.Clone(r.consts),
		Mesh:      mesh,
		First:     first,
		Count:     count,
	})
}

// ShaderName returns the name a shader was created with.
func (r *Recorder) ShaderName(s ShaderID) string {
	for _, rs := range r.Shaders {
		if rs.ID == s {
			return rs.Name
		}
	}
	return ""
}

// ShaderDefines returns the defines a shader was created with.
func (r *Recorder) ShaderDefines(s ShaderID) string {
	for _, rs := range r.Shaders {
		if rs.ID == s {
			return rs.Defines
		}
	}
	return ""
}

// ResetFrame drops recorded draws, clears and binds but keeps resources.
func (r *Recorder) ResetFrame() {
	r.Draws = r.Draws[:0]
	r.Clears = r.Clears[:0]
	r.Binds = r.Binds[:0]
}
