package swarm

// Particle defines the general components of a swarm particle.
type Particle struct {
	x, y, z    float32
	vx, vy, vz float32
	life       float32
	size       float32
	color      [4]float32
}

// NewParticle spawns a resting particle at coordinates defined by {x, y, z}
// with full life, unit size and an opaque white placeholder color.
func NewParticle(x, y, z float32) Particle {
	return Particle{
		x: x, y: y, z: z,
		life:  1.0,
		size:  1.0,
		color: [4]float32{1, 1, 1, 1},
	}
}

// GetPosition retrieve the particle position.
func (p *Particle) GetPosition() (x, y, z float32) {
	return p.x, p.y, p.z
}

// SetPosition set the particle position.
func (p *Particle) SetPosition(x, y, z float32) {
	p.x, p.y, p.z = x, y, z
}

// GetVelocity get the particle velocity.
func (p *Particle) GetVelocity() (vx, vy, vz float32) {
	return p.vx, p.vy, p.vz
}

// SetVelocity set the particle velocity.
func (p *Particle) SetVelocity(vx, vy, vz float32) {
	p.vx, p.vy, p.vz = vx, vy, vz
}

// GetSize get the particle size.
func (p *Particle) GetSize() float32 {
	return p.size
}

// SetSize set the particle size. Sizes are fixed once the particle joins a system.
func (p *Particle) SetSize(size float32) {
	p.size = size
}

// GetLife get the particle life. It stays at 1.0, nothing decays it yet.
func (p *Particle) GetLife() float32 {
	return p.life
}

// GetColor get the last computed RGBA color.
func (p *Particle) GetColor() [4]float32 {
	return p.color
}
