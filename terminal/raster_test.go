package terminal

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esimov/ascii-swarm/camera"
)

func TestAttribute(t *testing.T) {
	assert.Equal(t, termbox.Attribute(17), attribute(colorful.Color{}))
	assert.Equal(t, termbox.Attribute(232), attribute(colorful.Color{R: 1, G: 1, B: 1}))
	assert.Equal(t, termbox.Attribute(16+36*5+1), attribute(colorful.Color{R: 1}))
}

func TestShade(t *testing.T) {
	bg := background(true)
	assert.True(t, shade(bg, 1, 0, 0, 0).AlmostEqualRgb(bg))
	assert.True(t, shade(bg, 1, 0, 0, 1).AlmostEqualRgb(colorful.Color{R: 1}))
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, '·', glyphFor(1))
	assert.Equal(t, '•', glyphFor(4))
	assert.Equal(t, '●', glyphFor(9))
}

func TestRasterizerDraw(t *testing.T) {
	cam := camera.New(80, 40, cellAspect)
	r := NewRasterizer(80, 40)

	positions := []float32{
		0, 0, -5,
		0, 0, 5,
		500, 0, 0,
	}
	colors := []float32{
		0, 0, 1, 1,
		1, 0, 0, 1,
		0, 1, 0, 1,
	}
	sizes := []float32{1, 2, 3}

	cells := r.Draw(cam, positions, colors, sizes, true)
	require.Len(t, cells, 80*40)

	center, ok := cam.Project(0, 0, 5)
	require.True(t, ok)
	cell := cells[int(center.Y)*80+int(center.X)]
	assert.NotEqual(t, ' ', cell.Ch)
	assert.Equal(t, attribute(colorful.Color{R: 1}), cell.Fg, "nearer particle wins the cell")
	assert.Equal(t, attribute(background(true)), cell.Bg)

	drawn := 0
	for _, c := range cells {
		if c.Ch != ' ' {
			drawn++
		}
	}
	assert.Equal(t, 1, drawn, "off screen particle is culled")

	// Background is cleared on the next frame.
	cells = r.Draw(cam, nil, nil, nil, false)
	for _, c := range cells {
		assert.Equal(t, ' ', c.Ch)
		assert.Equal(t, attribute(background(false)), c.Bg)
	}
}

func TestRasterizerResize(t *testing.T) {
	r := NewRasterizer(10, 5)
	r.Resize(20, 4)
	cam := camera.New(20, 4, cellAspect)
	assert.Len(t, r.Draw(cam, nil, nil, nil, true), 80)
}
