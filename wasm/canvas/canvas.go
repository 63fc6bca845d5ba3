//go:build js && wasm

package canvas

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"syscall/js"
	"time"

	"github.com/esimov/ascii-swarm/detector"
	swarm "github.com/esimov/ascii-swarm/particle-system"
)

// extent is the half size of the pointer plane covered by face tracking.
const extent = swarm.Boundary

var errNoCascade = errors.New("canvas: face cascade not loaded")

// Bridge exposes a ParticleSystem to Javascript.
type Bridge struct {
	sys   *swarm.ParticleSystem
	det   *detector.Detector
	buf   []float32
	funcs []js.Func
}

func NewBridge(sys *swarm.ParticleSystem) *Bridge {
	return &Bridge{sys: sys}
}

// Object builds the Javascript facade of the swarm.
func (b *Bridge) Object() js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("count", b.sys.Count())

	obj.Set("update", b.fn(func(args []js.Value) any {
		b.sys.Update(float32(args[0].Float()), args[1].Bool())
		return nil
	}))
	obj.Set("setPointerPosition", b.fn(func(args []js.Value) any {
		b.sys.SetPointerPosition(float32(args[0].Float()), float32(args[1].Float()))
		return nil
	}))
	obj.Set("positions", b.fn(func([]js.Value) any {
		b.buf = b.sys.AppendPositions(b.buf[:0])
		return Float32Array(b.buf)
	}))
	obj.Set("colors", b.fn(func([]js.Value) any {
		b.buf = b.sys.AppendColors(b.buf[:0])
		return Float32Array(b.buf)
	}))
	obj.Set("sizes", b.fn(func([]js.Value) any {
		b.buf = b.sys.AppendSizes(b.buf[:0])
		return Float32Array(b.buf)
	}))
	obj.Set("loadCascade", b.fn(func(args []js.Value) any {
		path := args[0].String()
		return promise(func() (any, error) {
			cascade, err := ParseCascade(path)
			if err != nil {
				return nil, err
			}
			det, err := detector.New(cascade)
			if err != nil {
				return nil, err
			}
			b.det = det
			return true, nil
		})
	}))
	obj.Set("trackFace", b.fn(func(args []js.Value) any {
		ok, err := b.trackFace(args[0], args[1].Int(), args[2].Int())
		if err != nil {
			Log(err.Error())
		}
		return ok
	}))
	obj.Set("release", js.FuncOf(func(js.Value, []js.Value) any {
		for _, f := range b.funcs {
			f.Release()
		}
		b.funcs = nil
		return nil
	}))
	return obj
}

func (b *Bridge) fn(f func(args []js.Value) any) js.Func {
	jf := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return f(args)
	})
	b.funcs = append(b.funcs, jf)
	return jf
}

// trackFace moves the pointer onto the strongest face found in an RGBA frame.
func (b *Bridge) trackFace(pixels js.Value, width, height int) (bool, error) {
	if b.det == nil {
		return false, errNoCascade
	}
	rgba := make([]byte, pixels.Get("length").Int())
	js.CopyBytesToGo(rgba, pixels)
	if len(rgba) < 4*width*height {
		return false, fmt.Errorf("canvas: frame holds %d bytes, want %d", len(rgba), 4*width*height)
	}

	gray := detector.Grayscale(rgba, width, height)
	face, ok := detector.Strongest(b.det.Detect(gray, width, height))
	if !ok {
		return false, nil
	}
	b.sys.SetPointerPosition(detector.Pointer(face, width, height, extent))
	return true, nil
}

// Float32Array copies vals into a new Javascript Float32Array.
func Float32Array(vals []float32) js.Value {
	raw := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
	}
	u8 := js.Global().Get("Uint8Array").New(len(raw))
	js.CopyBytesToJS(u8, raw)
	return js.Global().Get("Float32Array").New(u8.Get("buffer"))
}

// ParseCascade loads and parse the cascade file through the
// Javascript `location.href` method supported by the `js/syscall` package.
// This method will return the cascade file encoded as a byte array.
func ParseCascade(path string) ([]byte, error) {
	href := js.Global().Get("location").Get("href")
	u, err := url.Parse(href.String())
	if err != nil {
		return nil, err
	}
	u.Path = path
	u.RawQuery = fmt.Sprint(time.Now().UnixNano())

	log.Println("loading cascade file: " + u.String())
	resp, err := http.Get(u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("canvas: fetch %s: %s", u.Path, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// PrefersReducedMotion reports the prefers-reduced-motion media query.
func PrefersReducedMotion() bool {
	mm := js.Global().Get("matchMedia")
	if mm.Type() != js.TypeFunction {
		return false
	}
	return js.Global().Call("matchMedia", "(prefers-reduced-motion: reduce)").Get("matches").Bool()
}

// Log calls the `console.log` Javascript function
func Log(args ...any) {
	js.Global().Get("console").Call("log", args...)
}

// promise runs f off the event loop and settles a Javascript Promise with its result.
func promise(f func() (any, error)) js.Value {
	var handler js.Func
	handler = js.FuncOf(func(_ js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go func() {
			defer handler.Release()
			v, err := f()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(handler)
}
