package websocket

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// headerSize covers the particle count and the elapsed time.
const headerSize = 8

var (
	ErrShortFrame      = errors.New("websocket: short frame")
	ErrUnknownMessage  = errors.New("websocket: unknown message type")
	ErrInvalidPointer  = errors.New("websocket: pointer coordinates must be finite")
	ErrMissingThemeArg = errors.New("websocket: theme message without dark flag")
)

// Frame is a decoded simulation frame as streamed to renderers.
type Frame struct {
	Time      float32
	Positions []float32
	Colors    []float32
	Sizes     []float32
}

// Count returns the number of particles in the frame.
func (f Frame) Count() int {
	return len(f.Sizes)
}

// AppendFrame encodes one frame onto dst: a little endian uint32 particle
// count, the float32 elapsed time, then the position, color and size buffers.
func AppendFrame(dst []byte, t float32, positions, colors, sizes []float32) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(sizes)))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(t))
	for _, buf := range [][]float32{positions, colors, sizes} {
		for _, v := range buf {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
	}
	return dst
}

// FrameSize returns the encoded size of a frame holding n particles.
func FrameSize(n int) int {
	return headerSize + 4*8*n
}

// DecodeFrame parses a frame produced by AppendFrame.
func DecodeFrame(b []byte) (Frame, error) {
	if len(b) < headerSize {
		return Frame{}, ErrShortFrame
	}
	n := int(binary.LittleEndian.Uint32(b))
	if len(b) != FrameSize(n) {
		return Frame{}, fmt.Errorf("%w: %d bytes for %d particles", ErrShortFrame, len(b), n)
	}
	f := Frame{Time: math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))}

	off := headerSize
	read := func(count int) []float32 {
		out := make([]float32, count)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
			off += 4
		}
		return out
	}
	f.Positions = read(3 * n)
	f.Colors = read(4 * n)
	f.Sizes = read(n)
	return f, nil
}

// Message is an input event sent by a renderer.
type Message struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	Dark *bool   `json:"dark,omitempty"`
}

const (
	MessagePointer = "pointer"
	MessageTheme   = "theme"
)

// ParseMessage decodes and validates an input message.
func ParseMessage(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("websocket: decode message: %w", err)
	}
	switch m.Type {
	case MessagePointer:
		if !finite32(m.X) || !finite32(m.Y) {
			return m, ErrInvalidPointer
		}
	case MessageTheme:
		if m.Dark == nil {
			return m, ErrMissingThemeArg
		}
	default:
		return m, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
	return m, nil
}

func finite32(v float64) bool {
	f := float64(float32(v))
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
