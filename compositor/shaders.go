// SPDX-License-Identifier: GPL-2.0-or-later

package compositor

// litFragment shades a scene fragment with the lights listed in its pixel of
// the index target. OVERLAP_LIGHTS selects the unpacking.
const litFragment = `uniform sampler2D BitPlane;
uniform sampler2D LightColorTex;
uniform sampler2D LightPosTex;
uniform mat4 view;

vec3 addLight(surface s, vec3 viewPos, float index) {
	ivec2 at = ivec2(int(index), 0);
	vec4 lp = texelFetch(LightPosTex, at, 0);
	vec3 color = texelFetch(LightColorTex, at, 0).rgb;
	return shade(s, (lp.xyz - viewPos) * lp.w, -viewPos, color);
}

void main() {
	surface s = sampleSurface();
	s.normal = mat3(view) * s.normal;
	vec3 viewPos = (view * vec4(WorldPos, 1.0)).xyz;
	vec3 result = ambient * s.base;

	vec4 packed = floor(texelFetch(BitPlane, ivec2(gl_FragCoord.xy), 0) * 255.0 + 0.5);
#if OVERLAP_LIGHTS == 1
	if (packed.r > 0.0) {
		result += addLight(s, viewPos, packed.r);
	}
#elif OVERLAP_LIGHTS == 2
	float hi = packed.r;
	float lo = 255.0 - packed.g;
	if (hi > 0.0) {
		result += addLight(s, viewPos, hi);
		if (lo > 0.0 && lo != hi) {
			result += addLight(s, viewPos, lo);
		}
	}
#else
	float seen[OVERLAP_LIGHTS];
	for (int slot = 0; slot < OVERLAP_LIGHTS; slot++) {
		vec4 field = mod(floor(packed / exp2(float(6 - 2 * slot))), 4.0);
		float index = dot(field, vec4(1.0, 4.0, 16.0, 64.0));
		seen[slot] = index;
		if (index == 0.0) {
			break;
		}
		bool dup = false;
		for (int j = 0; j < slot; j++) {
			dup = dup || seen[j] == index;
		}
		if (!dup) {
			result += addLight(s, viewPos, index);
		}
	}
#endif
	frag_color = vec4(result, 1.0);
}
`
