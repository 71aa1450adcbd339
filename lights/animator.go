// SPDX-License-Identifier: GPL-2.0-or-later

package lights

import (
	"log/slog"
	"math"

	"lidefer/bsp"
	"lidefer/math/vec"
	"lidefer/rand"
)

const (
	// Lifetime is how long a particle light lives before its slot is reused.
	Lifetime = 8.0
	// SpawnInterval spaces the spawns so every slot is reused once per Lifetime.
	SpawnInterval = Lifetime / SecondaryCount
	// MaxSpawnsPerStep bounds the spawn loop of a single Step. The oldest
	// spawns of a longer backlog are dropped, they would have expired.
	MaxSpawnsPerStep = SecondaryCount
	ParticleRadius   = 75

	WarmupSteps = 240
	WarmupDt    = 1.0 / 30

	defaultSeed         = 0x5a17
	defaultLaunchSpeed  = 500
	defaultRestitution  = 0.95
	defaultBounceOffset = 10
)

// Collider is the world the particles bounce off.
type Collider interface {
	Intersect(p0, p1 vec.Vec3) (bsp.Hit, bool)
}

// particle is the ballistic state of one secondary light. Its path since the
// last bounce is spawn + velocity*dirAge + gravity*dirAge^2/2.
type particle struct {
	spawn    vec.Vec3
	velocity vec.Vec3
	age      float32
	dirAge   float32
	live     bool
}

// Animator moves the lights of a Set. The primaries follow fixed tracks, the
// secondaries are particles launched from the primaries.
type Animator struct {
	set   *Set
	world Collider
	rng   *rand.Generator

	particles [SecondaryCount]particle
	next      int

	elapsed    float64
	spawnTime  float64
	spawnDelta float64
	spawned    int
	dropped    int

	gravity      vec.Vec3
	launchSpeed  float32
	restitution  float32
	bounceOffset float32
}

type AnimatorOption func(*Animator)

func WithSeed(seed uint32) AnimatorOption {
	return func(a *Animator) {
		a.rng = rand.New(seed)
	}
}

func WithGravity(g vec.Vec3) AnimatorOption {
	return func(a *Animator) {
		a.gravity = g
	}
}

func WithRestitution(r float32) AnimatorOption {
	return func(a *Animator) {
		a.restitution = r
	}
}

func WithBounceOffset(d float32) AnimatorOption {
	return func(a *Animator) {
		a.bounceOffset = d
	}
}

func WithLaunchSpeed(s float32) AnimatorOption {
	return func(a *Animator) {
		a.launchSpeed = s
	}
}

func NewAnimator(set *Set, world Collider, opts ...AnimatorOption) *Animator {
	a := &Animator{
		set:          set,
		world:        world,
		rng:          rand.New(defaultSeed),
		gravity:      vec.Vec3{Y: -100},
		launchSpeed:  defaultLaunchSpeed,
		restitution:  defaultRestitution,
		bounceOffset: defaultBounceOffset,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Elapsed returns the simulated time in seconds.
func (a *Animator) Elapsed() float64 {
	return a.elapsed
}

// Spawned returns the number of particles launched so far.
func (a *Animator) Spawned() int {
	return a.spawned
}

// Dropped returns the number of spawns skipped because a single step was too
// long.
func (a *Animator) Dropped() int {
	return a.dropped
}

// Warmup runs steps fixed steps so the particles are spread out when the
// first frame is drawn.
func (a *Animator) Warmup(steps int, dt float32) {
	for i := 0; i < steps; i++ {
		a.Step(dt)
	}
}

// Step advances all lights by dt seconds.
func (a *Animator) Step(dt float32) {
	if dt <= 0 {
		return
	}
	a.elapsed += float64(dt)
	a.spawnDelta += float64(dt)

	for i := range a.particles {
		a.integrate(i, dt)
	}

	// only the most recent spawns of a long step can still be alive
	if due := int(a.spawnDelta / SpawnInterval); due > MaxSpawnsPerStep {
		skip := due - MaxSpawnsPerStep
		a.spawnDelta -= float64(skip) * SpawnInterval
		a.spawnTime += float64(skip) * SpawnInterval
		a.next = (a.next + skip) % SecondaryCount
		a.dropped += skip
		slog.Debug("lights: spawn backlog dropped", "count", skip, "dt", dt)
	}
	for a.spawnDelta > SpawnInterval {
		a.spawnDelta -= SpawnInterval
		a.spawnTime += SpawnInterval

		// launch from where the primary was at the spawn time
		from := PrimaryPositions(a.spawnTime)[a.next%PrimaryCount]
		a.launch(a.next, from, float32(a.elapsed-a.spawnTime))
		a.next = (a.next + 1) % SecondaryCount
		a.spawned++
	}

	pos := PrimaryPositions(a.elapsed)
	for i := 0; i < PrimaryCount; i++ {
		a.set.lights[i].Position = pos[i]
		a.set.lights[i].Radius = PrimaryRadius
	}
}

// launch respawns particle i at pos. The particle starts age seconds into its
// flight so spawns inside one long step do not bunch up.
func (a *Animator) launch(i int, pos vec.Vec3, age float32) {
	p := &a.particles[i]
	p.spawn = pos
	p.velocity = a.rng.Direction().Scale(a.launchSpeed)
	p.age = 0
	p.dirAge = 0
	p.live = true

	l := &a.set.lights[i+PrimaryCount]
	l.Position = pos
	l.Radius = ParticleRadius
	a.integrate(i, age)
}

func (a *Animator) integrate(i int, dt float32) {
	p := &a.particles[i]
	l := &a.set.lights[i+PrimaryCount]
	if !p.live || l.Radius <= 0 || dt <= 0 {
		return
	}
	p.age += dt
	p.dirAge += dt

	t := p.dirAge
	next := vec.MulAdd(vec.MulAdd(p.spawn, p.velocity, t), a.gravity, 0.5*t*t)
	if a.world != nil {
		if hit, ok := a.world.Intersect(l.Position, next); ok {
			p.spawn = vec.MulAdd(hit.Point, hit.Normal, a.bounceOffset)
			p.velocity = vec.Reflect(p.velocity, hit.Normal).Scale(a.restitution)
			p.dirAge = 0
			next = p.spawn
		}
	}
	l.Position = next
}

// PrimaryPositions returns the positions of the primary lights at time t.
func PrimaryPositions(t float64) [PrimaryCount]vec.Vec3 {
	var p [PrimaryCount]vec.Vec3

	// light 0 runs around a square
	f := math.Mod(0.7*t, 4)
	cf := float32(math.Cos(math.Pi * f))
	switch {
	case f < 1:
		p[0] = vec.Vec3{X: 720 * cf, Z: 720}
	case f < 2:
		p[0] = vec.Vec3{X: -720, Z: -720 * cf}
	case f < 3:
		p[0] = vec.Vec3{X: -720 * cf, Z: -720}
	default:
		p[0] = vec.Vec3{X: 720, Z: 720 * cf}
	}

	p[1] = vec.Vec3{
		X: float32(350 * math.Cos(1.82345*t)),
		Y: float32(300 * math.Cos(1.252*t)),
		Z: float32(180*math.Sin(2.451*t) - 1300),
	}

	c := 0.5 + 0.5*math.Sin(0.723*t)
	p[2] = vec.Vec3{
		X: float32(85 - 250*c*math.Sin(2*0.723*t)),
		Y: float32(400*math.Sin(0.723*t) - 320),
		Z: float32(150*c*math.Sin(3*0.723*t) - 115),
	}
	return p
}
