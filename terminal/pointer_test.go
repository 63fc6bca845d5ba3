package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointerConverges(t *testing.T) {
	p := NewPointer(30)
	p.Target(4, -3)

	x, y := p.Step()
	assert.Less(t, x, float32(4))
	assert.Greater(t, y, float32(-3))

	for i := 0; i < 300; i++ {
		x, y = p.Step()
	}
	assert.InDelta(t, 4, x, 1e-2)
	assert.InDelta(t, -3, y, 1e-2)
}

func TestPointerJump(t *testing.T) {
	p := NewPointer(60)
	p.Jump(2, 2)

	x, y := p.Step()
	assert.InDelta(t, 2, x, 1e-6)
	assert.InDelta(t, 2, y, 1e-6)
}
