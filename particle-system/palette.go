package swarm

import "math"

// channel describes one procedural color channel:
// base + amp * |wave(time*rate + coord*freq)|
type channel struct {
	base, amp  float32
	rate, freq float32
	wave       func(float64) float64
}

type palette [3]channel

// Dark theme colors are cooler and vary faster across space.
var darkPalette = palette{
	{base: 0.2, amp: 0.8, rate: 0.5, freq: 0.1, wave: math.Sin},
	{base: 0.4, amp: 0.6, rate: 0.3, freq: 0.1, wave: math.Cos},
	{base: 0.8, amp: 0.2, rate: 0.7, freq: 0.1, wave: math.Sin},
}

var lightPalette = palette{
	{base: 0.6, amp: 0.4, rate: 0.2, freq: 0.05, wave: math.Sin},
	{base: 0.7, amp: 0.3, rate: 0.4, freq: 0.05, wave: math.Cos},
	{base: 0.9, amp: 0.1, rate: 0.6, freq: 0.05, wave: math.Sin},
}

// paint recomputes every channel of p from scratch.
func (pal *palette) paint(p *Particle, t float32) {
	coords := [3]float32{p.x, p.y, p.z}
	for c := range pal {
		ch := &pal[c]
		w := ch.wave(float64(t*ch.rate + coords[c]*ch.freq))
		p.color[c] = ch.base + ch.amp*float32(math.Abs(w))
	}
	p.color[3] = 0.3 + 0.7*p.life
}
