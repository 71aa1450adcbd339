// SPDX-License-Identifier: GPL-2.0-or-later

package render

type TextureID int32
type ShaderID int32
type MeshID int32

const (
	NoTexture TextureID = 0
	NoShader  ShaderID  = 0
	NoMesh    MeshID    = 0
)

type Format uint8

const (
	FormatRGBA8 Format = iota
	FormatRGBA32F
	FormatDepth24Stencil8
)

// Caps lists optional device features.
type Caps struct {
	DepthBounds bool
}

// Targets selects the render target set. Main selects the window framebuffer
// and ignores Color and Depth.
type Targets struct {
	Main  bool
	Color TextureID
	Depth TextureID
}

var MainFramebuffer = Targets{Main: true}

type ClearOp struct {
	Color        bool
	Depth        bool
	Stencil      bool
	Value        [4]float32
	DepthValue   float32
	StencilValue uint8
}

// Constants maps shader uniform names to values. Supported value types are
// float32, int32, bool, mgl32.Vec2, mgl32.Vec3, mgl32.Vec4 and mgl32.Mat4.
type Constants map[string]any

// Device is the renderer capability the lighting core drives. Resource
// creation may fail; per-draw calls are fire and forget and execute in
// submission order.
type Device interface {
	Caps() Caps

	// CreateShader compiles a program. defines is prepended after the version
	// line of both stages.
	CreateShader(name, vertex, fragment, defines string) (ShaderID, error)
	// CreateMesh uploads interleaved float vertices. layout lists the
	// component count of each attribute in location order.
	CreateMesh(layout []int, vertices []float32, indices []uint32) (MeshID, error)
	// CreateTexture creates a point sampled, clamped 2D texture. data is
	// []uint8 for FormatRGBA8, []float32 for FormatRGBA32F or nil.
	CreateTexture(width, height int, format Format, data any) (TextureID, error)
	UpdateTexture(tex TextureID, data any) error
	CreateRenderTarget(width, height int, format Format) (TextureID, error)
	ResizeRenderTarget(tex TextureID, width, height int) error

	BindTargets(t Targets) error
	Clear(c ClearOp)
	Apply(s State)
	UseShader(s ShaderID)
	SetTexture(name string, tex TextureID)
	SetConstants(c Constants)
	DrawIndexed(mesh MeshID, first, count int)
}

// Drawer submits geometry to a device. The state is already applied.
type Drawer interface {
	Draw(d Device)
}

type DrawFunc func(d Device)

func (f DrawFunc) Draw(d Device) {
	f(d)
}

// MeshRange draws a contiguous index range of a mesh.
type MeshRange struct {
	Mesh  MeshID
	First int
	Count int
}

func (m MeshRange) Draw(d Device) {
	if m.Count == 0 {
		return
	}
	d.DrawIndexed(m.Mesh, m.First, m.Count)
}
