// SPDX-License-Identifier: GPL-2.0-or-later

// Package shading holds the GLSL shared by the lighting paths. Fragment
// programs are assembled from Version, the snippets they need and a main.
package shading

import (
	"strings"

	"lidefer/render"

	"github.com/go-gl/mathgl/mgl32"
)

const Version = "#version 330\n"

// Assemble joins a program from its parts behind the version line.
func Assemble(parts ...string) string {
	var b strings.Builder
	b.WriteString(Version)
	for _, p := range parts {
		b.WriteString(p)
	}
	return b.String()
}

const (
	DepthOnlyVertex = `layout (location = 0) in vec3 position;
uniform mat4 mvp;

void main() {
	gl_Position = mvp * vec4(position, 1.0);
}
`

	DepthOnlyFragment = `void main() {
}
`

	// SceneVertex passes the tangent frame of a scene vertex on in world
	// space.
	SceneVertex = `layout (location = 0) in vec3 position;
layout (location = 1) in vec2 texcoord;
layout (location = 2) in vec3 tangent;
layout (location = 3) in vec3 binormal;
layout (location = 4) in vec3 normal;
out vec2 Texcoord;
out vec3 WorldPos;
out vec3 Tangent;
out vec3 Binormal;
out vec3 Normal;
uniform mat4 mvp;

void main() {
	Texcoord = texcoord;
	WorldPos = position;
	Tangent = tangent;
	Binormal = binormal;
	Normal = normal;
	gl_Position = mvp * vec4(position, 1.0);
}
`

	// Surface samples the material at the parallax corrected texture
	// coordinate. The bump map holds the height in alpha.
	Surface = `in vec2 Texcoord;
in vec3 WorldPos;
in vec3 Tangent;
in vec3 Binormal;
in vec3 Normal;
out vec4 frag_color;
uniform sampler2D Base;
uniform sampler2D Bump;
uniform bool hasParallax;
uniform vec2 plxCoeffs;
uniform vec3 camPos;

const float ambient = 0.12;

struct surface {
	vec3 base;
	vec3 normal;
};

surface sampleSurface() {
	vec3 t = normalize(Tangent);
	vec3 b = normalize(Binormal);
	vec3 n = normalize(Normal);
	vec2 tc = Texcoord;
	if (hasParallax) {
		vec3 v = camPos - WorldPos;
		vec3 vt = normalize(vec3(dot(v, t), dot(v, b), dot(v, n)));
		float h = texture(Bump, tc).a * plxCoeffs.x + plxCoeffs.y;
		tc += h * vt.xy;
	}
	vec3 bump = texture(Bump, tc).xyz * 2.0 - 1.0;
	surface s;
	s.base = texture(Base, tc).rgb;
	s.normal = normalize(bump.x * t + bump.y * b + bump.z * n);
	return s;
}

// l is the unnormalised vector to the light scaled by the inverse radius.
vec3 shade(surface s, vec3 l, vec3 toEye, vec3 color) {
	float atten = clamp(1.0 - dot(l, l), 0.0, 1.0);
	vec3 ln = normalize(l);
	float diffuse = clamp(dot(ln, s.normal), 0.0, 1.0);
	float specular = pow(clamp(dot(reflect(-normalize(toEye), s.normal), ln), 0.0, 1.0), 16.0);
	return atten * (diffuse * s.base + 0.3 * specular) * color;
}
`
)

// MaterialConstants adds the parallax constants Surface reads for m to c.
func MaterialConstants(m render.Material, c render.Constants) render.Constants {
	c["hasParallax"] = m.Parallax > 0
	c["plxCoeffs"] = mgl32.Vec2{2 * m.Parallax, -m.Parallax}
	return c
}
