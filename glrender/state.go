// SPDX-License-Identifier: GPL-2.0-or-later

package glrender

import (
	"strings"

	"lidefer/render"

	"github.com/go-gl/gl/v4.6-core/gl"
)

func blendFactor(f render.BlendFactor) uint32 {
	switch f {
	case render.Zero:
		return gl.ZERO
	case render.DstAlpha:
		return gl.DST_ALPHA
	case render.OneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case render.ConstantColor:
		return gl.CONSTANT_COLOR
	case render.SrcAlpha:
		return gl.SRC_ALPHA
	case render.OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	}
	return gl.ONE
}

func blendOp(o render.BlendOp) uint32 {
	if o == render.OpMax {
		return gl.MAX
	}
	return gl.FUNC_ADD
}

func compareFunc(f render.CompareFunc) uint32 {
	switch f {
	case render.Less:
		return gl.LESS
	case render.Equal:
		return gl.EQUAL
	case render.GEqual:
		return gl.GEQUAL
	case render.Greater:
		return gl.GREATER
	case render.NotEqual:
		return gl.NOTEQUAL
	case render.Always:
		return gl.ALWAYS
	case render.Never:
		return gl.NEVER
	}
	return gl.LEQUAL
}

func stencilOp(o render.StencilOp) uint32 {
	switch o {
	case render.Replace:
		return gl.REPLACE
	case render.SetZero:
		return gl.ZERO
	}
	return gl.KEEP
}

// copy blending is the same as no blending
func blendEnabled(b render.BlendState) bool {
	return b.Op != render.OpAdd || b.Src != render.One || b.Dst != render.Zero
}

func enable(cap uint32, on bool) {
	if on {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}

func apply(s render.State) {
	b := s.Blend
	enable(gl.BLEND, blendEnabled(b))
	gl.BlendFunc(blendFactor(b.Src), blendFactor(b.Dst))
	gl.BlendEquation(blendOp(b.Op))
	gl.BlendColor(b.Constant[0], b.Constant[1], b.Constant[2], b.Constant[3])
	gl.ColorMask(!b.NoColorWrite, !b.NoColorWrite, !b.NoColorWrite, !b.NoColorWrite)

	enable(gl.DEPTH_TEST, s.Depth.Test)
	gl.DepthFunc(compareFunc(s.Depth.Func))
	gl.DepthMask(s.Depth.Write)

	st := s.Stencil
	enable(gl.STENCIL_TEST, st.Test)
	gl.StencilFunc(compareFunc(st.Func), int32(st.Ref), uint32(st.Mask))
	gl.StencilOp(stencilOp(st.Fail), stencilOp(st.DepthFail), stencilOp(st.Pass))
	gl.StencilMask(0xff)

	switch s.Raster.Cull {
	case render.CullNone:
		gl.Disable(gl.CULL_FACE)
	case render.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case render.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	}
	enable(gl.SCISSOR_TEST, s.Raster.Scissor)
	if s.Raster.Scissor {
		r := s.Raster.Rect
		gl.Scissor(int32(r.X), int32(r.Y), int32(r.W), int32(r.H))
	}
}

// withDefines inserts defines behind the version line of src and terminates
// the result for the GL.
func withDefines(src, defines string) string {
	if defines != "" {
		if i := strings.IndexByte(src, '\n'); i >= 0 {
			src = src[:i+1] + defines + src[i+1:]
		} else {
			src = src + "\n" + defines
		}
	}
	return src + "\x00"
}
