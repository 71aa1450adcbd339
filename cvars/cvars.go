// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"lidefer/cvar"
)

var (
	RLIDefer          *cvar.Cvar
	RStencilMask      *cvar.Cvar
	RDepthBounds      *cvar.Cvar
	RLightsPerFrag    *cvar.Cvar
	RAnimateLights    *cvar.Cvar
	RStaticLights     *cvar.Cvar
	RPrecisionTest    *cvar.Cvar
	RShowStats        *cvar.Cvar
	Sensitivity       *cvar.Cvar
	VideoFullscreen   *cvar.Cvar
	VideoHeight       *cvar.Cvar
	VideoVerticalSync *cvar.Cvar
	VideoWidth        *cvar.Cvar
)

func init() {
	RLIDefer = cvar.MustRegister("r_lidefer", "1", cvar.ARCHIVE)
	RStencilMask = cvar.MustRegister("r_stencilmask", "0", cvar.ARCHIVE)
	RDepthBounds = cvar.MustRegister("r_depthbounds", "1", cvar.ARCHIVE)
	RLightsPerFrag = cvar.MustRegister("r_lightsperfrag", "4", cvar.ARCHIVE)
	RAnimateLights = cvar.MustRegister("r_animatelights", "1", cvar.NONE)
	RStaticLights = cvar.MustRegister("r_staticlights", "0", cvar.NONE)
	RPrecisionTest = cvar.MustRegister("r_precisiontest", "0", cvar.NONE)
	RShowStats = cvar.MustRegister("r_showstats", "1", cvar.ARCHIVE)
	Sensitivity = cvar.MustRegister("sensitivity", "0.15", cvar.ARCHIVE)
	VideoFullscreen = cvar.MustRegister("vid_fullscreen", "0", cvar.ARCHIVE)
	VideoHeight = cvar.MustRegister("vid_height", "600", cvar.ARCHIVE)
	VideoVerticalSync = cvar.MustRegister("vid_vsync", "0", cvar.ARCHIVE)
	VideoWidth = cvar.MustRegister("vid_width", "800", cvar.ARCHIVE)
}
