// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"testing"

	"lidefer/math/vec"
	"lidefer/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeightRange(t *testing.T) {
	for k := KindPlanks; k <= KindBlocks; k++ {
		h := Height(k, 32, 1)
		require.Len(t, h, 32*32)
		var lo, hi float32 = 1, 0
		for _, v := range h {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		assert.GreaterOrEqual(t, lo, float32(0), "kind %d", k)
		assert.LessOrEqual(t, hi, float32(1), "kind %d", k)
		assert.Less(t, lo, hi, "kind %d is flat", k)
	}
}

func TestBumpIsNormalised(t *testing.T) {
	b := Bump(KindBricks, 32, 3)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.At(x, y)
			n := vec.Vec3{
				X: float32(c[0])/255*2 - 1,
				Y: float32(c[1])/255*2 - 1,
				Z: float32(c[2])/255*2 - 1,
			}
			assert.InDelta(t, 1, n.Length(), 0.02)
			assert.Greater(t, n.Z, float32(0))
		}
	}
}

func TestUpload(t *testing.T) {
	rec := render.NewRecorder(render.Caps{})
	tex := Base(KindTiles, 16, vec.Vec3{X: 1, Y: 0.5, Z: 0.25}, 7)
	id, err := tex.Upload(rec)
	require.NoError(t, err)
	rt := rec.Textures[id]
	require.NotNil(t, rt)
	assert.Equal(t, 16, rt.Width)
	assert.Equal(t, render.FormatRGBA8, rt.Format)
	assert.Equal(t, tex.Data, rt.Data)
}

func TestGlow(t *testing.T) {
	g := Glow(16)
	require.Equal(t, 16, g.Width)
	center := g.At(8, 8)
	corner := g.At(0, 0)
	assert.Greater(t, center[0], uint8(200))
	assert.Equal(t, uint8(0), corner[0])
	assert.Equal(t, g.At(3, 5), g.At(12, 10), "glow is point symmetric")
}
