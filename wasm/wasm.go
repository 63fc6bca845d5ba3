//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/esimov/ascii-swarm/monitor"
	swarm "github.com/esimov/ascii-swarm/particle-system"
	"github.com/esimov/ascii-swarm/wasm/canvas"
)

func main() {
	js.Global().Set("newParticleSystem", js.FuncOf(newParticleSystem))
	select {}
}

// newParticleSystem is exposed to Javascript as newParticleSystem(count).
// A missing or zero count picks one from the device capabilities.
func newParticleSystem(this js.Value, args []js.Value) any {
	count := 0
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		count = args[0].Int()
	}
	if count <= 0 {
		cores := 0
		if hc := js.Global().Get("navigator").Get("hardwareConcurrency"); hc.Type() == js.TypeNumber {
			cores = hc.Int()
		}
		count = monitor.OptimalCount(cores, canvas.PrefersReducedMotion())
	}
	return canvas.NewBridge(swarm.NewSystem(count)).Object()
}
