// Command swarm-window renders the particle swarm in a desktop window.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/esimov/ascii-swarm/camera"
	"github.com/esimov/ascii-swarm/monitor"
	swarm "github.com/esimov/ascii-swarm/particle-system"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	yawSpeed     = 0.05
	radiusScale  = 0.08
)

var (
	darkBackground  = color.RGBA{R: 13, G: 17, B: 23, A: 255}
	lightBackground = color.RGBA{R: 243, G: 244, B: 246, A: 255}
)

type game struct {
	sys         *swarm.ParticleSystem
	opts        []swarm.Option
	cam         *camera.Camera
	monitor     *monitor.Monitor
	dark        bool
	last        time.Time
	lastRebuild time.Time

	positions, colors, sizes []float32
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.dark = !g.dark
	}

	now := time.Now()
	dt := float32(1.0 / float64(ebiten.TPS()))
	if !g.last.IsZero() {
		dt = float32(now.Sub(g.last).Seconds())
	}
	g.last = now

	g.monitor.Tick(now)
	if count, ok := g.monitor.NextCount(g.sys.Count(), now, g.lastRebuild); ok {
		log.Printf("reducing particles %d -> %d (%.1f fps)", g.sys.Count(), count, g.monitor.AverageFPS())
		g.sys = swarm.NewSystem(count, g.opts...)
		g.monitor.Reset()
		g.lastRebuild = now
	}

	mx, my := ebiten.CursorPosition()
	if x, y, ok := g.cam.Unproject(float32(mx), float32(my)); ok {
		g.sys.SetPointerPosition(x, y)
	}
	g.sys.Update(dt, g.dark)
	g.cam.SetYaw(g.sys.Time() * yawSpeed)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.dark {
		screen.Fill(darkBackground)
	} else {
		screen.Fill(lightBackground)
	}

	g.positions = g.sys.AppendPositions(g.positions[:0])
	g.colors = g.sys.AppendColors(g.colors[:0])
	g.sizes = g.sys.AppendSizes(g.sizes[:0])

	for i, size := range g.sizes {
		p, ok := g.cam.Project(g.positions[3*i], g.positions[3*i+1], g.positions[3*i+2])
		if !ok {
			continue
		}
		c := g.colors[4*i : 4*i+4]
		clr := color.NRGBA{
			R: uint8(c[0] * 255),
			G: uint8(c[1] * 255),
			B: uint8(c[2] * 255),
			A: uint8(c[3] * 255),
		}
		vector.DrawFilledCircle(screen, p.X, p.Y, max(size*p.Scale*radiusScale, 0.75), clr, true)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("particles: %d  fps: %.0f  [T]heme [Q]uit",
		g.sys.Count(), ebiten.ActualFPS()))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, h := g.cam.Size(); w != outsideWidth || h != outsideHeight {
		g.cam.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func main() {
	count := flag.Int("count", 0, "number of particles (0 picks one for this machine)")
	workers := flag.Int("workers", runtime.NumCPU(), "goroutines used to update the swarm")
	light := flag.Bool("light", false, "start with the light theme")
	seed := flag.Uint64("seed", 0, "random seed (0 uses the clock)")
	flag.Parse()

	if *count <= 0 {
		*count = monitor.OptimalCount(runtime.NumCPU(), false)
	}
	opts := []swarm.Option{swarm.WithWorkers(*workers)}
	if *seed != 0 {
		opts = append(opts, swarm.WithRand(swarm.NewRand(*seed)))
	}

	g := &game{
		sys:     swarm.NewSystem(*count, opts...),
		opts:    opts,
		cam:     camera.New(screenWidth, screenHeight, 1),
		monitor: monitor.New(),
		dark:    !*light,
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("swarm")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
