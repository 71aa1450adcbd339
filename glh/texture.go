// SPDX-License-Identifier: GPL-2.0-or-later
package glh

import (
	"runtime"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"
)

type TexID uint32

// TextureFormat is the internal format and the matching upload format.
type TextureFormat struct {
	Internal int32
	Format   uint32
	Type     uint32
}

var (
	RGBA8 = TextureFormat{
		Internal: gl.RGBA8, Format: gl.RGBA, Type: gl.UNSIGNED_BYTE,
	}
	RGBA32F = TextureFormat{
		Internal: gl.RGBA32F, Format: gl.RGBA, Type: gl.FLOAT,
	}
	Depth24Stencil8 = TextureFormat{
		Internal: gl.DEPTH24_STENCIL8, Format: gl.DEPTH_STENCIL, Type: gl.UNSIGNED_INT_24_8,
	}
)

// Texture2D is a point sampled, edge clamped 2D texture.
type Texture2D struct {
	id     uint32
	format TextureFormat
	width  int32
	height int32
}

func deleteTexture(id uint32) {
	mainthread.CallNonBlock(func() {
		gl.DeleteTextures(1, &id)
	})
}

func NewTexture2D(width, height int, format TextureFormat) *Texture2D {
	t := &Texture2D{format: format}
	gl.GenTextures(1, &t.id)
	runtime.AddCleanup(t, deleteTexture, t.id)
	t.Bind()
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	t.Resize(width, height)
	return t
}

func (t *Texture2D) ID() TexID {
	return TexID(t.id)
}

func (t *Texture2D) Size() (int, int) {
	return int(t.width), int(t.height)
}

func (t *Texture2D) Bind() {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Resize reallocates the storage. The content is undefined afterwards.
func (t *Texture2D) Resize(width, height int) {
	t.width, t.height = int32(width), int32(height)
	t.Bind()
	gl.TexImage2D(gl.TEXTURE_2D, 0, t.format.Internal, t.width, t.height, 0, t.format.Format, t.format.Type, nil)
}

// SetData replaces the whole image. data is []uint8 or []float32 to match
// the format.
func (t *Texture2D) SetData(data any) error {
	n := int(t.width) * int(t.height) * 4
	switch d := data.(type) {
	case []uint8:
		if t.format.Type != gl.UNSIGNED_BYTE || len(d) < n {
			return errors.Errorf("texture data: %d bytes for %dx%d", len(d), t.width, t.height)
		}
	case []float32:
		if t.format.Type != gl.FLOAT || len(d) < n {
			return errors.Errorf("texture data: %d floats for %dx%d", len(d), t.width, t.height)
		}
	default:
		return errors.Errorf("texture data: unsupported type %T", data)
	}
	t.Bind()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, t.width, t.height, t.format.Format, t.format.Type, gl.Ptr(data))
	return nil
}

// Framebuffer is a render target set of one optional colour and one optional
// depth stencil texture.
type Framebuffer struct {
	fbo uint32
}

func deleteFramebuffer(fbo uint32) {
	mainthread.CallNonBlock(func() {
		gl.DeleteFramebuffers(1, &fbo)
	})
}

func NewFramebuffer(color, depth *Texture2D) (*Framebuffer, error) {
	f := &Framebuffer{}
	gl.GenFramebuffers(1, &f.fbo)
	runtime.AddCleanup(f, deleteFramebuffer, f.fbo)
	f.Bind()
	if color != nil {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, color.id, 0)
		gl.DrawBuffer(gl.COLOR_ATTACHMENT0)
	} else {
		gl.DrawBuffer(gl.NONE)
	}
	if depth != nil {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.TEXTURE_2D, depth.id, 0)
	}
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	UnbindFramebuffer()
	if status != gl.FRAMEBUFFER_COMPLETE {
		return nil, errors.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return f, nil
}

func (f *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
}

// UnbindFramebuffer selects the window framebuffer.
func UnbindFramebuffer() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}
