// SPDX-License-Identifier: GPL-2.0-or-later

package render

// Rect is a screen rectangle in pixels with a bottom-left origin, the
// convention of the GL scissor box.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type BlendFactor uint8

const (
	Zero BlendFactor = iota
	One
	DstAlpha
	OneMinusDstAlpha
	ConstantColor
	SrcAlpha
	OneMinusSrcAlpha
)

type BlendOp uint8

const (
	OpAdd BlendOp = iota
	OpMax
)

// BlendState describes the fixed function blend unit. The zero value is not
// useful; start from one of the predefined states.
type BlendState struct {
	Src          BlendFactor
	Dst          BlendFactor
	Op           BlendOp
	NoColorWrite bool
	Constant     [4]float32
}

var (
	BlendCopy     = BlendState{Src: One, Dst: Zero}
	BlendAdd      = BlendState{Src: One, Dst: One}
	BlendMax      = BlendState{Src: One, Dst: One, Op: OpMax}
	BlendSrcAlpha = BlendState{Src: SrcAlpha, Dst: OneMinusSrcAlpha}
	BlendNoColor  = BlendState{Src: One, Dst: Zero, NoColorWrite: true}
)

type CompareFunc uint8

const (
	LEqual CompareFunc = iota
	Less
	Equal
	GEqual
	Greater
	NotEqual
	Always
	Never
)

type DepthState struct {
	Test  bool
	Write bool
	Func  CompareFunc
}

var (
	DepthDefault     = DepthState{Test: true, Write: true, Func: LEqual}
	DepthNoWrite     = DepthState{Test: true, Func: LEqual}
	DepthPassGreater = DepthState{Test: true, Func: GEqual}
	DepthOff         = DepthState{}
)

type StencilOp uint8

const (
	Keep StencilOp = iota
	Replace
	SetZero
)

type StencilState struct {
	Test      bool
	Func      CompareFunc
	Ref       uint8
	Mask      uint8
	Fail      StencilOp
	DepthFail StencilOp
	Pass      StencilOp
}

var StencilOff = StencilState{}

type CullMode uint8

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

type RasterizerState struct {
	Cull    CullMode
	Scissor bool
	Rect    Rect
}

// DepthBounds rejects fragments whose stored depth lies outside [Near,Far].
// Only honoured when the device reports Caps.DepthBounds.
type DepthBounds struct {
	Enabled bool
	Near    float32
	Far     float32
}

// State is the complete mutable pipeline state a pass runs with.
type State struct {
	Blend   BlendState
	Depth   DepthState
	Stencil StencilState
	Raster  RasterizerState
	Bounds  DepthBounds
}

// DefaultState matches a freshly reset device: opaque writes, depth test and
// write on, back face culling.
func DefaultState() State {
	return State{
		Blend:  BlendCopy,
		Depth:  DepthDefault,
		Raster: RasterizerState{Cull: CullBack},
	}
}
