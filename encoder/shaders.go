// SPDX-License-Identifier: GPL-2.0-or-later

package encoder

const (
	// the volume mesh is a unit sphere, moved and scaled per light
	lightVolumeVertex = `#version 330
layout (location = 0) in vec3 position;
uniform mat4 mvp;
uniform vec3 lightPos;
uniform float lightRadius;

void main() {
	gl_Position = mvp * vec4(lightPos + position * lightRadius, 1.0);
#ifdef CLAMP_DEPTH
	// keep back faces behind the far plane so the stencil mark is complete
	gl_Position.z = min(gl_Position.z, gl_Position.w);
#endif
}
`

	lightVolumeFragment = `#version 330
out vec4 frag_color;
uniform vec4 outColor;

void main() {
	frag_color = outColor;
}
`

	gridVertex = `#version 330
layout (location = 0) in vec3 position;
out vec2 Texcoord;
uniform vec4 rect;

void main() {
	vec2 p = rect.xy + position.xy * rect.zw;
	Texcoord = p;
	gl_Position = vec4(p * 2.0 - 1.0, 0.5, 1.0);
}
`

	gridColorFragment = `#version 330
out vec4 frag_color;
uniform vec4 outColor;

void main() {
	frag_color = outColor;
}
`

	// green where the stored byte lies in [cmpLimits.x, cmpLimits.y)
	gridCompareFragment = `#version 330
in vec2 Texcoord;
out vec4 frag_color;
uniform sampler2D BaseTex;
uniform vec2 cmpLimits;

void main() {
	float v = texture(BaseTex, Texcoord).r * 255.0 + 0.25;
	if (v >= cmpLimits.x && v < cmpLimits.y) {
		frag_color = vec4(0.0, 1.0, 0.0, 1.0);
	} else {
		frag_color = vec4(1.0, 0.0, 0.0, 1.0);
	}
}
`
)
