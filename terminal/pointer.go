package terminal

import "github.com/charmbracelet/harmonica"

// Pointer eases the swarm pointer toward the last reported mouse position,
// so discrete terminal mouse events do not jerk the attraction center.
type Pointer struct {
	spring harmonica.Spring
	x, vx  float64
	y, vy  float64
	tx, ty float64
}

// NewPointer creates a pointer spring stepped fps times per second.
func NewPointer(fps int) *Pointer {
	return &Pointer{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8)}
}

// Target sets the position the pointer moves toward.
func (p *Pointer) Target(x, y float32) {
	p.tx, p.ty = float64(x), float64(y)
}

// Jump moves the pointer and its target without easing.
func (p *Pointer) Jump(x, y float32) {
	p.Target(x, y)
	p.x, p.y = p.tx, p.ty
	p.vx, p.vy = 0, 0
}

// Step advances the spring by one frame and returns the eased position.
func (p *Pointer) Step() (x, y float32) {
	p.x, p.vx = p.spring.Update(p.x, p.vx, p.tx)
	p.y, p.vy = p.spring.Update(p.y, p.vy, p.ty)
	return float32(p.x), float32(p.y)
}
