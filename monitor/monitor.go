// Package monitor tracks frame pacing and tells the host when the particle
// swarm should be rebuilt with fewer particles.
package monitor

import (
	"math"
	"time"
)

const (
	// Window is the number of recent frames kept for the rolling statistics.
	Window = 60

	// Cooldown is the minimum time between two quality reductions.
	Cooldown = 2 * time.Second

	minFPS         = 30.0
	maxDeviationMs = 5.0
	defaultFPS     = 60.0
	minParticles   = 250
	lowEndCount    = 1000
	midRangeCount  = 3000
	highEndCount   = 5000
	highEndCores   = 8
	heavyAnimCores = 4
)

// Monitor keeps a rolling window of frame intervals.
type Monitor struct {
	frames []time.Duration
	next   int
	full   bool
	last   time.Time
}

// New returns an empty frame monitor.
func New() *Monitor {
	return &Monitor{frames: make([]time.Duration, Window)}
}

// Tick records the interval since the previous tick. The first tick only
// seeds the clock. Non increasing timestamps are ignored.
func (m *Monitor) Tick(now time.Time) {
	if m.last.IsZero() {
		m.last = now
		return
	}
	dt := now.Sub(m.last)
	if dt <= 0 {
		return
	}
	m.last = now
	m.Record(dt)
}

// Record adds a single frame interval to the window.
func (m *Monitor) Record(dt time.Duration) {
	m.frames[m.next] = dt
	m.next = (m.next + 1) % Window
	if m.next == 0 {
		m.full = true
	}
}

// Len returns the number of frames in the window.
func (m *Monitor) Len() int {
	if m.full {
		return Window
	}
	return m.next
}

func (m *Monitor) samples() []time.Duration {
	return m.frames[:m.Len()]
}

// AverageFPS returns the mean of the per frame rates, 60 when nothing was recorded.
func (m *Monitor) AverageFPS() float64 {
	s := m.samples()
	if len(s) == 0 {
		return defaultFPS
	}
	var sum float64
	for _, dt := range s {
		sum += float64(time.Second) / float64(dt)
	}
	return sum / float64(len(s))
}

// FrameTimeDeviation returns the standard deviation of the frame intervals in milliseconds.
func (m *Monitor) FrameTimeDeviation() float64 {
	s := m.samples()
	if len(s) < 2 {
		return 0
	}
	var mean float64
	for _, dt := range s {
		mean += ms(dt)
	}
	mean /= float64(len(s))

	var variance float64
	for _, dt := range s {
		d := ms(dt) - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(s)))
}

// ShouldReduceQuality reports whether frames are either too slow or too uneven.
func (m *Monitor) ShouldReduceQuality() bool {
	return m.AverageFPS() < minFPS || m.FrameTimeDeviation() > maxDeviationMs
}

// Reset drops all recorded frames, typically after the swarm was rebuilt.
func (m *Monitor) Reset() {
	m.next = 0
	m.full = false
	m.last = time.Time{}
}

// NextCount decides whether a swarm of count particles should be rebuilt
// smaller. It waits for a full window and for the cooldown since the last rebuild.
func (m *Monitor) NextCount(count int, now, lastRebuild time.Time) (int, bool) {
	if m.Len() < Window || !m.ShouldReduceQuality() {
		return count, false
	}
	if !lastRebuild.IsZero() && now.Sub(lastRebuild) < Cooldown {
		return count, false
	}
	next := Degrade(count)
	if next >= count {
		return count, false
	}
	return next, true
}

// OptimalCount picks the initial particle count for the machine.
func OptimalCount(cores int, reducedMotion bool) int {
	switch {
	case reducedMotion || cores < heavyAnimCores:
		return lowEndCount
	case cores >= highEndCores:
		return highEndCount
	default:
		return midRangeCount
	}
}

// Degrade returns the next smaller particle count, never below the floor.
func Degrade(count int) int {
	return max(count/2, minParticles)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
