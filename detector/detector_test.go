package detector_test

import (
	"testing"

	pigo "github.com/esimov/pigo/core"
	"github.com/stretchr/testify/assert"

	"github.com/esimov/ascii-swarm/detector"
)

func TestNewRejectsShortCascade(t *testing.T) {
	for _, b := range [][]byte{nil, {}, make([]byte, 8)} {
		d, err := detector.New(b)
		assert.Nil(t, d)
		assert.ErrorIs(t, err, detector.ErrInvalidCascade)
	}
}

func TestStrongest(t *testing.T) {
	_, ok := detector.Strongest(nil)
	assert.False(t, ok)

	best, ok := detector.Strongest([]pigo.Detection{
		{Row: 10, Col: 10, Scale: 50, Q: 6},
		{Row: 40, Col: 80, Scale: 90, Q: 12.5},
		{Row: 5, Col: 5, Scale: 20, Q: 7},
	})
	assert.True(t, ok)
	assert.Equal(t, 80, best.Col)
}

func TestPointer(t *testing.T) {
	x, y := detector.Pointer(pigo.Detection{Row: 240, Col: 320}, 640, 480, 15)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	x, y = detector.Pointer(pigo.Detection{Row: 0, Col: 0}, 640, 480, 15)
	assert.InDelta(t, 15, x, 1e-6)
	assert.InDelta(t, 15, y, 1e-6)

	x, y = detector.Pointer(pigo.Detection{Row: 480, Col: 640}, 640, 480, 10)
	assert.InDelta(t, -10, x, 1e-6)
	assert.InDelta(t, -10, y, 1e-6)
}

func TestGrayscale(t *testing.T) {
	rgba := []uint8{
		255, 255, 255, 255,
		0, 0, 0, 255,
	}
	gray := detector.Grayscale(rgba, 2, 1)
	assert.Len(t, gray, 2)
	assert.Greater(t, gray[0], uint8(250))
	assert.Equal(t, uint8(0), gray[1])
}
