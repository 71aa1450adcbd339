// SPDX-License-Identifier: GPL-2.0-or-later

package render

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Binding attaches a texture to a named sampler of the pass shader.
type Binding struct {
	Name    string
	Texture TextureID
}

// Pass is one declarative step of a frame: where to draw, with which shader
// and state, and what to draw. A nil Targets keeps the current target set.
// A pass without Draw entries only clears or switches targets.
type Pass struct {
	Name      string
	Targets   *Targets
	Clear     *ClearOp
	Shader    ShaderID
	State     State
	Textures  []Binding
	Constants Constants
	Draw      []Drawer
}

type Stats struct {
	Passes       int
	StateChanges int
	Draws        int
}

// Runner executes passes in order against a device. It remembers the state it
// applied last so that redundant state and shader changes are not sent.
type Runner struct {
	dev     Device
	targets Targets
	shader  ShaderID
	state   State
	valid   bool
	stats   Stats
}

func NewRunner(dev Device) *Runner {
	return &Runner{dev: dev}
}

// Reset forgets the cached device state. Call it whenever something outside
// the runner touched the device.
func (r *Runner) Reset() {
	r.valid = false
	r.stats = Stats{}
}

func (r *Runner) Stats() Stats {
	return r.stats
}

func (r *Runner) Run(passes []Pass) error {
	for i := range passes {
		if err := r.run(&passes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) run(p *Pass) error {
	r.stats.Passes++
	if p.Targets != nil && (!r.valid || *p.Targets != r.targets) {
		if err := r.dev.BindTargets(*p.Targets); err != nil {
			return errors.Wrapf(err, "pass %s", p.Name)
		}
		r.targets = *p.Targets
	}
	if p.Clear != nil {
		r.dev.Clear(*p.Clear)
	}
	if len(p.Draw) == 0 {
		return nil
	}
	if p.Shader == NoShader {
		return errors.Errorf("pass %s: draws without shader", p.Name)
	}
	if !r.valid || p.Shader != r.shader {
		r.dev.UseShader(p.Shader)
		r.shader = p.Shader
	}
	if !r.valid || p.State != r.state {
		r.dev.Apply(p.State)
		r.state = p.State
		r.stats.StateChanges++
	}
	r.valid = true
	for _, b := range p.Textures {
		r.dev.SetTexture(b.Name, b.Texture)
	}
	if len(p.Constants) > 0 {
		r.dev.SetConstants(p.Constants)
	}
	for _, d := range p.Draw {
		d.Draw(r.dev)
		r.stats.Draws++
	}
	slog.Debug("pass", "name", p.Name, "draws", len(p.Draw))
	return nil
}
