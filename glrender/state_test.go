// SPDX-License-Identifier: GPL-2.0-or-later

package glrender

import (
	"testing"

	"lidefer/render"

	"github.com/go-gl/gl/v4.6-core/gl"
)

func TestWithDefines(t *testing.T) {
	tests := []struct {
		src, defines, want string
	}{
		{"#version 330\nvoid main() {}\n", "", "#version 330\nvoid main() {}\n\x00"},
		{"#version 330\nvoid main() {}\n", "#define A 1\n", "#version 330\n#define A 1\nvoid main() {}\n\x00"},
		{"#version 330", "#define A 1\n", "#version 330\n#define A 1\n\x00"},
	}
	for _, tc := range tests {
		if got := withDefines(tc.src, tc.defines); got != tc.want {
			t.Errorf("withDefines(%q, %q) = %q, want %q", tc.src, tc.defines, got, tc.want)
		}
	}
}

func TestBlendEnabled(t *testing.T) {
	if blendEnabled(render.BlendCopy) {
		t.Errorf("copy blend enables blending")
	}
	for _, b := range []render.BlendState{render.BlendAdd, render.BlendMax, render.BlendSrcAlpha} {
		if !blendEnabled(b) {
			t.Errorf("blend %+v disabled", b)
		}
	}
}

func TestTranslation(t *testing.T) {
	if got := compareFunc(render.GEqual); got != gl.GEQUAL {
		t.Errorf("compareFunc(GEqual) = %x", got)
	}
	if got := stencilOp(render.Replace); got != gl.REPLACE {
		t.Errorf("stencilOp(Replace) = %x", got)
	}
	if got := blendFactor(render.ConstantColor); got != gl.CONSTANT_COLOR {
		t.Errorf("blendFactor(ConstantColor) = %x", got)
	}
	if got := blendOp(render.OpMax); got != gl.MAX {
		t.Errorf("blendOp(OpMax) = %x", got)
	}
}
