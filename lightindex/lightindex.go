// SPDX-License-Identifier: GPL-2.0-or-later

// Package lightindex describes how light indices are packed into an 8 bit
// RGBA pixel. The encoder draws Encode colours with BlendFor states, the
// compositor shader implements Decode. Blend models the fixed function blend
// unit so the packing can be checked without a GPU.
package lightindex

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"lidefer/math"
	"lidefer/render"
)

// Mode is the maximum number of lights kept per pixel.
type Mode uint8

const (
	ModeOne Mode = iota + 1
	ModeTwo
	ModeThree
	ModeFour
	MaxMode = ModeFour
)

// BitShiftConstant is the blend constant that moves the previously written
// fields of a pixel down by two bits. It is slightly above 1/4 so a
// rounding unit does not lose the lowest field.
const BitShiftConstant = 0.251

// Color is one pixel of the packed index target.
type Color [4]uint8

func ParseMode(v int) (Mode, error) {
	if v < int(ModeOne) || v > int(MaxMode) {
		return 0, errors.Errorf("lights per fragment %d not in [1,%d]", v, MaxMode)
	}
	return Mode(v), nil
}

func (m Mode) Valid() bool {
	return m >= ModeOne && m <= MaxMode
}

// Capacity returns how many distinct lights survive in one pixel.
func (m Mode) Capacity() int {
	return int(m)
}

// Define returns the shader preprocessor line selecting the decoder.
func (m Mode) Define() string {
	return fmt.Sprintf("#define OVERLAP_LIGHTS %d\n", m)
}

// Encode returns the colour a light volume with the given index writes.
// Index is the light slot plus one.
func Encode(m Mode, index uint8) Color {
	if m < ModeThree {
		// the second channel runs backwards so a max blend keeps both ends
		return Color{index, 255 - index, index, index}
	}
	return Color{
		(index & 0x3) << 6,
		(index >> 2 & 0x3) << 6,
		(index >> 4 & 0x3) << 6,
		(index >> 6 & 0x3) << 6,
	}
}

// BlendFor returns the blend state the light volumes are drawn with.
func BlendFor(m Mode) render.BlendState {
	switch m {
	case ModeOne:
		return render.BlendCopy
	case ModeTwo:
		return render.BlendMax
	}
	c := float32(BitShiftConstant)
	return render.BlendState{
		Src:      render.One,
		Dst:      render.ConstantColor,
		Op:       render.OpAdd,
		Constant: [4]float32{c, c, c, c},
	}
}

// Blend combines a source fragment with the stored pixel the way an 8 bit
// unorm target does. Scaling by a constant close to 1/4 is taken as an exact
// shift by two bits, which is what the bit shift packing relies on. This
// assumes the blend unit truncates: a round to nearest unit turns 255*0.251
// into 64, not 63, so once every field of a pixel is used the next light can
// carry into the surviving fields instead of only pushing out the oldest.
func Blend(dst, src Color, b render.BlendState) Color {
	if b.NoColorWrite {
		return dst
	}
	var out Color
	for i := range out {
		s := factor(b.Src, i, src[i], src, dst, b.Constant)
		d := factor(b.Dst, i, dst[i], src, dst, b.Constant)
		switch b.Op {
		case render.OpMax:
			// factors do not apply to min/max equations
			out[i] = max(src[i], dst[i])
		default:
			out[i] = uint8(min(s+d, 255))
		}
	}
	return out
}

func factor(f render.BlendFactor, ch int, v uint8, src, dst Color, c [4]float32) int {
	scale := func(a uint8) int {
		return int(v) * int(a) / 255
	}
	switch f {
	case render.Zero:
		return 0
	case render.One:
		return int(v)
	case render.DstAlpha:
		return scale(dst[3])
	case render.OneMinusDstAlpha:
		return scale(255 - dst[3])
	case render.SrcAlpha:
		return scale(src[3])
	case render.OneMinusSrcAlpha:
		return scale(255 - src[3])
	case render.ConstantColor:
		if math32.Abs(c[ch]-0.25) < 0.01 {
			return int(v >> 2)
		}
		return int(math32.Round(float32(v) * math.Saturate(c[ch])))
	}
	return int(v)
}

// Decode returns the light indices stored in a pixel, most recently drawn
// first. Two light packing cannot tell the draw order and returns the higher
// index first.
func Decode(m Mode, c Color) []uint8 {
	switch m {
	case ModeOne:
		if c[0] == 0 {
			return nil
		}
		return []uint8{c[0]}
	case ModeTwo:
		if c[0] == 0 {
			return nil
		}
		hi, lo := c[0], 255-c[1]
		if lo == 0 || lo == hi {
			return []uint8{hi}
		}
		return []uint8{hi, lo}
	}
	var out []uint8
	for slot := 0; slot < m.Capacity() && slot < 4; slot++ {
		shift := 6 - 2*slot
		idx := c[0]>>shift&0x3 |
			(c[1]>>shift&0x3)<<2 |
			(c[2]>>shift&0x3)<<4 |
			(c[3]>>shift&0x3)<<6
		if idx == 0 {
			break
		}
		if !contains(out, idx) {
			out = append(out, idx)
		}
	}
	return out
}

func contains(s []uint8, v uint8) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Quantize converts a normalised shader output to the stored 8 bit value.
func Quantize(v float32) uint8 {
	return uint8(math32.Round(math.Saturate(v) * 255))
}

// Normalize is the inverse of Quantize, the value a shader has to output to
// store b.
func Normalize(b uint8) float32 {
	return float32(b) / 255
}

// EncodeFloat returns Encode as normalised shader constants.
func EncodeFloat(m Mode, index uint8) [4]float32 {
	c := Encode(m, index)
	return [4]float32{Normalize(c[0]), Normalize(c[1]), Normalize(c[2]), Normalize(c[3])}
}

// PrecisionGrid checks that every 8 bit value survives the trip through a
// normalised shader output. It returns the values that do not.
func PrecisionGrid() []int {
	var bad []int
	for i := 0; i < 256; i++ {
		if Quantize(Normalize(uint8(i))) != uint8(i) {
			bad = append(bad, i)
		}
	}
	return bad
}
