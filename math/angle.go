// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "github.com/chewxy/math32"

// AngleMod changes an angle to be within 0-360 degrees
func AngleMod(a float32) float32 {
	return a - math32.Floor(a/360)*360
}

// ClampPitch keeps a pitch angle in degrees away from the poles so the view
// basis never degenerates.
func ClampPitch(a float32) float32 {
	return Clamp(-89, a, 89)
}
