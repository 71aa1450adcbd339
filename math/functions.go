// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"github.com/chewxy/math32"
)

const (
	Pi = math32.Pi
)

// Lerp computes a weighted average between a and b.
func Lerp(a, b, frac float32) float32 {
	return a + (b-a)*frac
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float32) float32 {
	return deg / 180 * Pi
}

// Saturate clamps v to [0,1].
func Saturate(v float32) float32 {
	return Clamp(0, v, 1)
}
