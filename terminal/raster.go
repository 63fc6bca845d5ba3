package terminal

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-swarm/camera"
)

var glyphs = []rune{'·', '•', '●'}

var (
	darkBackground  = colorful.Color{R: 0.05, G: 0.07, B: 0.09}
	lightBackground = colorful.Color{R: 0.95, G: 0.96, B: 0.96}
)

// Rasterizer turns the swarm buffers into terminal cells, keeping the
// nearest particle per cell.
type Rasterizer struct {
	cells []termbox.Cell
	depth []float32
	w, h  int
}

// NewRasterizer allocates a w x h cell grid.
func NewRasterizer(w, h int) *Rasterizer {
	r := &Rasterizer{}
	r.Resize(w, h)
	return r
}

// Resize reallocates the grid.
func (r *Rasterizer) Resize(w, h int) {
	r.w, r.h = max(w, 0), max(h, 0)
	r.cells = make([]termbox.Cell, r.w*r.h)
	r.depth = make([]float32, r.w*r.h)
}

// Draw rasterizes one frame. The returned slice is owned by the rasterizer
// and is overwritten by the next call.
func (r *Rasterizer) Draw(cam *camera.Camera, positions, colors, sizes []float32, dark bool) []termbox.Cell {
	bg := background(dark)
	bgAttr := attribute(bg)
	for i := range r.cells {
		r.cells[i] = termbox.Cell{Ch: ' ', Bg: bgAttr}
		r.depth[i] = float32(math.Inf(1))
	}

	for i := range sizes {
		p, ok := cam.Project(positions[3*i], positions[3*i+1], positions[3*i+2])
		if !ok {
			continue
		}
		cx, cy := int(p.X), int(p.Y)
		if cx < 0 || cy < 0 || cx >= r.w || cy >= r.h {
			continue
		}
		idx := cy*r.w + cx
		if p.Depth >= r.depth[idx] {
			continue
		}
		r.depth[idx] = p.Depth

		c := colors[4*i : 4*i+4]
		fg := shade(bg, c[0], c[1], c[2], c[3])
		r.cells[idx] = termbox.Cell{
			Ch: glyphFor(sizes[i] * p.Scale),
			Fg: attribute(fg),
			Bg: bgAttr,
		}
	}
	return r.cells
}

func background(dark bool) colorful.Color {
	if dark {
		return darkBackground
	}
	return lightBackground
}

// shade composites an RGBA particle color over the background.
func shade(bg colorful.Color, red, green, blue, alpha float32) colorful.Color {
	fg := colorful.Color{R: float64(red), G: float64(green), B: float64(blue)}
	return bg.BlendRgb(fg, float64(alpha)).Clamped()
}

// glyphFor picks a glyph from the apparent size of a particle in cells.
func glyphFor(apparent float32) rune {
	switch {
	case apparent < 3:
		return glyphs[0]
	case apparent < 5:
		return glyphs[1]
	default:
		return glyphs[2]
	}
}

// attribute quantizes a color onto the xterm 256 color cube. termbox
// expects the palette index plus one in Output256 mode.
func attribute(c colorful.Color) termbox.Attribute {
	r8, g8, b8 := c.Clamped().RGB255()
	r := int(r8) * 5 / 255
	g := int(g8) * 5 / 255
	b := int(b8) * 5 / 255
	return termbox.Attribute(16 + 36*r + 6*g + b + 1)
}
