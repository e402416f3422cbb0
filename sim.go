package ember

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ember2d/ember/render/core"
)

// ParticleSim is the CPU fountain simulation feeding the batcher. Particles
// live in an SoA pool with swap-remove; the per-frame Snapshot is rebuilt
// from the pool each call, matching the batcher's read-only contract.
type ParticleSim struct {
	cfg ParticlesConfig

	emitter mgl32.Vec2
	bounds  mgl32.Vec2

	pos   []mgl32.Vec2
	vel   []mgl32.Vec2
	age   []float32
	life  []float32
	size  []float32
	color []core.ColorSpec

	alive    int
	target   int
	spawnAcc float32

	palette []core.ColorSpec
	rng     *rand.Rand

	Paused bool

	snapshot []core.Particle
}

// NewParticleSim builds a simulation emitting from the bottom center of a
// width x height pixel field. Palette strings are parsed once, here; an
// unrecognized entry stays in the palette and renders black, by the color
// policy.
func NewParticleSim(cfg ParticlesConfig, width, height int) *ParticleSim {
	capacity := cfg.Count
	if capacity <= 0 {
		capacity = 1
	}
	palette := make([]core.ColorSpec, 0, len(cfg.Palette))
	for _, s := range cfg.Palette {
		palette = append(palette, core.ParseColorSpec(s))
	}
	if len(palette) == 0 {
		palette = []core.ColorSpec{core.ParseColorSpec("#ffffff")}
	}
	return &ParticleSim{
		cfg:     cfg,
		emitter: mgl32.Vec2{float32(width) / 2, float32(height) - 10},
		bounds:  mgl32.Vec2{float32(width), float32(height)},
		pos:     make([]mgl32.Vec2, capacity),
		vel:     make([]mgl32.Vec2, capacity),
		age:     make([]float32, capacity),
		life:    make([]float32, capacity),
		size:    make([]float32, capacity),
		color:   make([]core.ColorSpec, capacity),
		target:  capacity,
		palette: palette,
		rng:     rand.New(rand.NewSource(1)),
	}
}

// Alive reports the current particle count.
func (ps *ParticleSim) Alive() int { return ps.alive }

// Target reports the pool cap the spawner fills toward.
func (ps *ParticleSim) Target() int { return ps.target }

// SetTarget adjusts the pool cap at runtime, shrinking the live set
// immediately if needed. The backing arrays grow but never shrink.
func (ps *ParticleSim) SetTarget(n int) {
	if n < 0 {
		n = 0
	}
	ps.target = n
	if n > len(ps.pos) {
		ps.grow(n)
	}
	if ps.alive > n {
		ps.alive = n
	}
}

func (ps *ParticleSim) grow(capacity int) {
	grown := make([]mgl32.Vec2, capacity)
	copy(grown, ps.pos)
	ps.pos = grown
	grown = make([]mgl32.Vec2, capacity)
	copy(grown, ps.vel)
	ps.vel = grown
	for _, f := range []*[]float32{&ps.age, &ps.life, &ps.size} {
		g := make([]float32, capacity)
		copy(g, *f)
		*f = g
	}
	c := make([]core.ColorSpec, capacity)
	copy(c, ps.color)
	ps.color = c
}

// Reset kills every particle and restarts the spawn accumulator.
func (ps *ParticleSim) Reset() {
	ps.alive = 0
	ps.spawnAcc = 0
}

// Step advances the simulation by dt seconds.
func (ps *ParticleSim) Step(dt float32) {
	if dt <= 0 {
		return
	}

	// Age, gravity, drag; swap-remove the dead. Iterating backwards keeps
	// swap-remove from skipping the particle swapped into slot i.
	damp := float32(1) - ps.cfg.Drag*dt
	if damp < 0 {
		damp = 0
	}
	for i := ps.alive - 1; i >= 0; i-- {
		ps.age[i] += dt
		if ps.age[i] >= ps.life[i] {
			ps.killAt(i)
			continue
		}
		ps.vel[i] = ps.vel[i].Mul(damp)
		ps.vel[i][1] += ps.cfg.Gravity * dt
		ps.pos[i] = ps.pos[i].Add(ps.vel[i].Mul(dt))
	}

	// Fractional spawns accumulate across frames.
	ps.spawnAcc += ps.cfg.SpawnRate * dt
	for ps.spawnAcc >= 1 && ps.alive < ps.target {
		ps.spawnAcc--
		ps.spawnOne()
	}
	if ps.spawnAcc >= 1 {
		ps.spawnAcc = 0
	}
}

func (ps *ParticleSim) spawnOne() {
	i := ps.alive
	ps.alive++

	// Cone around straight up (-y in pixel space).
	angle := -math.Pi/2 + (ps.rng.Float64()-0.5)*math.Pi/3
	speed := lerp(ps.cfg.Speed[0], ps.cfg.Speed[1], ps.rng.Float32())

	ps.pos[i] = ps.emitter
	ps.vel[i] = mgl32.Vec2{
		float32(math.Cos(angle)) * speed,
		float32(math.Sin(angle)) * speed,
	}
	ps.age[i] = 0
	ps.life[i] = lerp(ps.cfg.Lifetime[0], ps.cfg.Lifetime[1], ps.rng.Float32())
	ps.size[i] = lerp(ps.cfg.Size[0], ps.cfg.Size[1], ps.rng.Float32())
	ps.color[i] = ps.palette[ps.rng.Intn(len(ps.palette))]
}

func (ps *ParticleSim) killAt(i int) {
	last := ps.alive - 1
	ps.pos[i] = ps.pos[last]
	ps.vel[i] = ps.vel[last]
	ps.age[i] = ps.age[last]
	ps.life[i] = ps.life[last]
	ps.size[i] = ps.size[last]
	ps.color[i] = ps.color[last]
	ps.alive--
}

// Snapshot flattens the live pool into particle records for the batcher.
// The returned slice is reused across calls; callers must not hold it past
// the frame.
func (ps *ParticleSim) Snapshot() []core.Particle {
	ps.snapshot = ps.snapshot[:0]
	for i := 0; i < ps.alive; i++ {
		ps.snapshot = append(ps.snapshot, core.Particle{
			X:     ps.pos[i][0],
			Y:     ps.pos[i][1],
			Size:  ps.size[i],
			Color: ps.color[i],
		})
	}
	return ps.snapshot
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// SimModule installs the simulation resource and its Update systems.
type SimModule struct {
	Config ParticlesConfig
	Width  int
	Height int
}

func (m SimModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewParticleSim(m.Config, m.Width, m.Height))
	cmd.UseSystem(Update, simControlSystem, simStepSystem)
}

func simStepSystem(sim *ParticleSim, clock *Clock) {
	if sim.Paused {
		return
	}
	sim.Step(clock.DtSeconds())
}

// simControlSystem maps the demo keys: space pauses, R resets, up/down
// scale the particle target, escape quits.
func simControlSystem(sim *ParticleSim, in *InputState, cmd *Commands) {
	if in.JustPressed(KeySpace) {
		sim.Paused = !sim.Paused
	}
	if in.JustPressed(KeyR) {
		sim.Reset()
	}
	if in.JustPressed(KeyUp) {
		sim.SetTarget(sim.Target() * 2)
	}
	if in.JustPressed(KeyDown) {
		sim.SetTarget(sim.Target() / 2)
	}
	if in.JustPressed(KeyEscape) {
		cmd.Quit()
	}
}
