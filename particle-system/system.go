package swarm

import (
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// Boundary is the half extent of the simulation cube on every axis.
	Boundary = 15.0

	// DefaultAttraction is the pointer attraction strength used unless overridden.
	DefaultAttraction = 2.0

	attractionRadius    = 5.0
	attractionSoftening = 0.1
	driftAmplitude      = 0.001
	driftScale          = 0.01
	damping             = 0.99
	bounce              = -0.5

	spawnExtent   = 20.0
	spawnVelocity = 0.02
	spawnSize     = 2.0

	// minChunk keeps tiny pools on a single goroutine.
	minChunk = 512
)

// RandSource yields uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	Float32() float32
}

// NewRand returns a deterministic random source for the given seed.
func NewRand(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Option configures a ParticleSystem at construction time.
type Option func(*ParticleSystem)

// WithRand replaces the construction random source.
func WithRand(rng RandSource) Option {
	return func(ps *ParticleSystem) {
		ps.rng = rng
	}
}

// WithWorkers splits Update across n goroutines working on contiguous chunks
// of the particle pool. Values below 2 keep the update sequential.
func WithWorkers(n int) Option {
	return func(ps *ParticleSystem) {
		ps.workers = n
	}
}

// WithAttraction overrides the pointer attraction strength.
func WithAttraction(strength float32) Option {
	return func(ps *ParticleSystem) {
		ps.attraction = strength
	}
}

// ParticleSystem owns a fixed size particle pool together with the
// simulation wide scalars: elapsed time, pointer position and attraction.
//
// A ParticleSystem is not safe for concurrent use. Buffers must not be read
// while Update is running on the same instance.
type ParticleSystem struct {
	particles  []Particle
	pointerX   float32
	pointerY   float32
	attraction float32
	time       float32
	workers    int
	rng        RandSource
}

// NewSystem allocates count particles scattered uniformly inside [-10, 10)
// on every axis, with small random velocities and sizes in [1, 3).
// The random values of each particle are drawn in the order x, y, z, vx, vy, vz, size.
func NewSystem(count int, opts ...Option) *ParticleSystem {
	ps := newSystem(opts)
	if count < 0 {
		count = 0
	}
	ps.particles = make([]Particle, count)
	for i := range ps.particles {
		p := &ps.particles[i]
		p.x = (ps.rng.Float32() - 0.5) * spawnExtent
		p.y = (ps.rng.Float32() - 0.5) * spawnExtent
		p.z = (ps.rng.Float32() - 0.5) * spawnExtent
		p.vx = (ps.rng.Float32() - 0.5) * spawnVelocity
		p.vy = (ps.rng.Float32() - 0.5) * spawnVelocity
		p.vz = (ps.rng.Float32() - 0.5) * spawnVelocity
		p.life = 1.0
		p.size = ps.rng.Float32()*spawnSize + 1.0
		p.color = [4]float32{1, 1, 1, 1}
	}
	return ps
}

// FromParticles builds a system around an explicit particle state.
// The slice is copied, later changes to it do not affect the system.
func FromParticles(particles []Particle, opts ...Option) *ParticleSystem {
	ps := newSystem(opts)
	ps.particles = make([]Particle, len(particles))
	copy(ps.particles, particles)
	return ps
}

func newSystem(opts []Option) *ParticleSystem {
	ps := &ParticleSystem{
		attraction: DefaultAttraction,
	}
	for _, opt := range opts {
		opt(ps)
	}
	if ps.rng == nil {
		ps.rng = NewRand(uint64(time.Now().UnixNano()))
	}
	return ps
}

// Count returns the number of particles. It never changes after construction.
func (ps *ParticleSystem) Count() int {
	return len(ps.particles)
}

// Time returns the accumulated elapsed time.
func (ps *ParticleSystem) Time() float32 {
	return ps.time
}

// Pointer returns the last pointer position set by the host.
func (ps *ParticleSystem) Pointer() (x, y float32) {
	return ps.pointerX, ps.pointerY
}

// Particle returns a copy of the i-th particle.
func (ps *ParticleSystem) Particle(i int) Particle {
	return ps.particles[i]
}

// Particles returns a copy of the whole pool in index order.
func (ps *ParticleSystem) Particles() []Particle {
	out := make([]Particle, len(ps.particles))
	copy(out, ps.particles)
	return out
}

// SetPointerPosition overwrites the pointer coordinates. The new position
// takes effect on the next Update.
func (ps *ParticleSystem) SetPointerPosition(x, y float32) {
	ps.pointerX = x
	ps.pointerY = y
}

// Update advances the simulation by one frame. Velocities are tuned per frame,
// so only the pointer force is scaled by dt; damping and drift are not.
func (ps *ParticleSystem) Update(dt float32, themeIsDark bool) {
	ps.time += dt

	pal := &lightPalette
	if themeIsDark {
		pal = &darkPalette
	}

	n := len(ps.particles)
	if ps.workers < 2 || n < 2*minChunk {
		ps.step(ps.particles, dt, pal)
		return
	}

	chunk := max((n+ps.workers-1)/ps.workers, minChunk)
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		part := ps.particles[start:min(start+chunk, n)]
		g.Go(func() error {
			ps.step(part, dt, pal)
			return nil
		})
	}
	_ = g.Wait()
}

// step runs the per particle pipeline. The order of the stages is significant:
// drift reads the previous frame position, color reads the integrated one.
func (ps *ParticleSystem) step(particles []Particle, dt float32, pal *palette) {
	t := ps.time
	for i := range particles {
		p := &particles[i]

		dx := ps.pointerX - p.x
		dy := ps.pointerY - p.y
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if dist > 0 && dist < attractionRadius {
			force := ps.attraction / (dist*dist + attractionSoftening)
			p.vx += dx * force * dt
			p.vy += dy * force * dt
		}

		p.vx += sin32(p.x*driftScale+t*0.5) * driftAmplitude
		p.vy += cos32(p.y*driftScale+t*0.3) * driftAmplitude
		p.vz += sin32(p.z*driftScale+t*0.7) * driftAmplitude

		p.x += p.vx
		p.y += p.vy
		p.z += p.vz

		p.vx *= damping
		p.vy *= damping
		p.vz *= damping

		p.x, p.vx = reflect(p.x, p.vx)
		p.y, p.vy = reflect(p.y, p.vy)
		p.z, p.vz = reflect(p.z, p.vz)

		pal.paint(p, t)
	}
}

// reflect snaps a coordinate that left the cube back onto the wall and
// reverses its velocity at half magnitude.
func reflect(pos, vel float32) (float32, float32) {
	switch {
	case pos > Boundary:
		return Boundary, vel * bounce
	case pos < -Boundary:
		return -Boundary, vel * bounce
	}
	return pos, vel
}

// Positions returns the flattened (x, y, z) triples in particle order.
func (ps *ParticleSystem) Positions() []float32 {
	return ps.AppendPositions(make([]float32, 0, 3*len(ps.particles)))
}

// Colors returns the flattened (r, g, b, a) quadruples in particle order.
func (ps *ParticleSystem) Colors() []float32 {
	return ps.AppendColors(make([]float32, 0, 4*len(ps.particles)))
}

// Sizes returns one size per particle in particle order.
func (ps *ParticleSystem) Sizes() []float32 {
	return ps.AppendSizes(make([]float32, 0, len(ps.particles)))
}

// AppendPositions appends the position buffer to dst and returns the extended slice.
func (ps *ParticleSystem) AppendPositions(dst []float32) []float32 {
	for i := range ps.particles {
		p := &ps.particles[i]
		dst = append(dst, p.x, p.y, p.z)
	}
	return dst
}

// AppendColors appends the color buffer to dst and returns the extended slice.
func (ps *ParticleSystem) AppendColors(dst []float32) []float32 {
	for i := range ps.particles {
		dst = append(dst, ps.particles[i].color[:]...)
	}
	return dst
}

// AppendSizes appends the size buffer to dst and returns the extended slice.
func (ps *ParticleSystem) AppendSizes(dst []float32) []float32 {
	for i := range ps.particles {
		dst = append(dst, ps.particles[i].size)
	}
	return dst
}

func sin32(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

func cos32(v float32) float32 {
	return float32(math.Cos(float64(v)))
}
