package camera_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esimov/ascii-swarm/camera"
)

func TestProjectCenter(t *testing.T) {
	c := camera.New(80, 40, 2)

	p, ok := c.Project(0, 0, 0)
	require.True(t, ok)
	assert.InDelta(t, 40, p.X, 1e-3)
	assert.InDelta(t, 20, p.Y, 1e-3)
	assert.Greater(t, p.Scale, float32(0))
}

func TestProjectOrientation(t *testing.T) {
	c := camera.New(200, 100, 1)
	center, _ := c.Project(0, 0, 0)

	right, ok := c.Project(5, 0, 0)
	require.True(t, ok)
	assert.Greater(t, right.X, center.X)

	up, ok := c.Project(0, 5, 0)
	require.True(t, ok)
	assert.Less(t, up.Y, center.Y)

	nearer, ok := c.Project(0, 0, 10)
	require.True(t, ok)
	assert.Less(t, nearer.Depth, center.Depth)
	assert.Greater(t, nearer.Scale, center.Scale)
}

func TestProjectOutsideViewport(t *testing.T) {
	c := camera.New(100, 100, 1)
	_, ok := c.Project(500, 0, 0)
	assert.False(t, ok)
	_, ok = c.Project(0, 0, 60)
	assert.False(t, ok)
}

func TestUnprojectRoundTrip(t *testing.T) {
	for _, yaw := range []float32{0, 0.4} {
		c := camera.New(160, 48, 2)
		c.SetYaw(yaw)
		for _, pt := range [][2]float32{{0, 0}, {3, -2}, {-7.5, 4}} {
			p, ok := c.Project(pt[0], pt[1], 0)
			require.True(t, ok)

			x, y, ok := c.Unproject(p.X, p.Y)
			require.True(t, ok)
			assert.InDelta(t, pt[0], x, 1e-2)
			assert.InDelta(t, pt[1], y, 1e-2)
		}
	}
}

func TestResize(t *testing.T) {
	c := camera.New(0, 0, 1)
	w, h := c.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)

	c.Resize(300, 100)
	p, ok := c.Project(0, 0, 0)
	require.True(t, ok)
	assert.InDelta(t, 150, p.X, 1e-3)
	assert.InDelta(t, 50, p.Y, 1e-3)
}
