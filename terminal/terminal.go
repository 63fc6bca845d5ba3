package terminal

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-swarm/camera"
	"github.com/esimov/ascii-swarm/monitor"
	swarm "github.com/esimov/ascii-swarm/particle-system"
)

const (
	// cellAspect is the height/width ratio of a terminal cell.
	cellAspect = 2.0

	yawSpeed = 0.05
)

// Config holds the terminal host settings.
type Config struct {
	Count   int
	FPS     int
	Workers int
	Dark    bool
	Seed    uint64
	LogFile string
}

type Terminal struct {
	backbuf  []termbox.Cell
	bbw, bbh int
	logfile  *os.File
	fn       string
	logger   *log.Logger

	cfg         Config
	sys         *swarm.ParticleSystem
	cam         *camera.Camera
	raster      *Rasterizer
	pointer     *Pointer
	monitor     *monitor.Monitor
	dark        bool
	mx, my      int
	lastRebuild time.Time
}

func New(cfg Config) *Terminal {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	t := &Terminal{
		cfg:     cfg,
		fn:      cfg.LogFile,
		dark:    cfg.Dark,
		mx:      -1,
		my:      -1,
		pointer: NewPointer(cfg.FPS),
		monitor: monitor.New(),
	}
	if t.fn == "" {
		t.fn = "debug.log"
	}

	var out io.Writer = io.Discard
	f, err := os.OpenFile(t.fn, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		t.logfile = f
		out = f
	}
	t.logger = log.New(out, "", log.LstdFlags)
	t.sys = t.newSystem(cfg.Count)

	return t
}

func (t *Terminal) newSystem(count int) *swarm.ParticleSystem {
	opts := []swarm.Option{swarm.WithWorkers(t.cfg.Workers)}
	if t.cfg.Seed != 0 {
		opts = append(opts, swarm.WithRand(swarm.NewRand(t.cfg.Seed)))
	}
	return swarm.NewSystem(count, opts...)
}

// Render runs the interactive loop until Esc or q is pressed.
func (t *Terminal) Render() error {
	if t.logfile != nil {
		defer t.logfile.Close()
	}

	if err := termbox.Init(); err != nil {
		return fmt.Errorf("terminal: init: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.SetOutputMode(termbox.Output256)
	t.reallocBackBuffer(termbox.Size())

	events := make(chan termbox.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := termbox.PollEvent()
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(t.cfg.FPS))
	defer ticker.Stop()
	last := time.Now()

	t.logger.Printf("swarm started with %d particles", t.sys.Count())

mainloop:
	for {
		select {
		case ev := <-events:
			switch ev.Type {
			case termbox.EventKey:
				if ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
					break mainloop
				}
				if ev.Ch == 't' {
					t.dark = !t.dark
				}
			case termbox.EventMouse:
				if ev.Key == termbox.MouseLeft {
					t.moveTarget(ev.MouseX, ev.MouseY)
				}
			case termbox.EventResize:
				t.reallocBackBuffer(ev.Width, ev.Height)
			case termbox.EventError:
				return fmt.Errorf("terminal: poll: %w", ev.Err)
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			t.frame(now, float32(dt))
			t.redraw()
		}
	}
	return nil
}

func (t *Terminal) reallocBackBuffer(w, h int) {
	t.bbw, t.bbh = w, h
	t.backbuf = make([]termbox.Cell, w*h)
	if t.cam == nil {
		t.cam = camera.New(w, h, cellAspect)
		t.raster = NewRasterizer(w, h)
		return
	}
	t.cam.Resize(w, h)
	t.raster.Resize(w, h)
}

func (t *Terminal) moveTarget(mx, my int) {
	t.mx, t.my = mx, my
	x, y, ok := t.cam.Unproject(float32(mx)+0.5, float32(my)+0.5)
	if !ok {
		return
	}
	t.pointer.Target(x, y)
	t.logger.Printf("X:%d \t Y:%d \t world: %.2f %.2f", mx, my, x, y)
}

// frame advances the simulation, rebuilding the swarm with fewer
// particles when the frame monitor reports sustained slowdowns.
func (t *Terminal) frame(now time.Time, dt float32) {
	t.monitor.Tick(now)
	if count, ok := t.monitor.NextCount(t.sys.Count(), now, t.lastRebuild); ok {
		t.logger.Printf("reducing particles %d -> %d (%.1f fps, %.2fms deviation)",
			t.sys.Count(), count, t.monitor.AverageFPS(), t.monitor.FrameTimeDeviation())
		px, py := t.sys.Pointer()
		t.sys = t.newSystem(count)
		t.sys.SetPointerPosition(px, py)
		t.monitor.Reset()
		t.lastRebuild = now
	}

	px, py := t.pointer.Step()
	t.sys.SetPointerPosition(px, py)
	t.sys.Update(dt, t.dark)
	t.cam.SetYaw(t.sys.Time() * yawSpeed)

	cells := t.raster.Draw(t.cam, t.sys.Positions(), t.sys.Colors(), t.sys.Sizes(), t.dark)
	copy(t.backbuf, cells)
}

func (t *Terminal) redraw() {
	bg := attribute(background(t.dark))
	termbox.Clear(termbox.ColorDefault, bg)
	copy(termbox.CellBuffer(), t.backbuf)

	if t.mx >= 0 && t.my >= 0 && t.mx < t.bbw && t.my < t.bbh {
		termbox.SetCell(t.mx, t.my, '+', attribute(shade(background(t.dark), 1, 1, 1, 1)), bg)
	}

	theme := "light"
	if t.dark {
		theme = "dark"
	}
	status := fmt.Sprintf(" particles:%d fps:%.0f theme:%s  [t]heme [q]uit ",
		t.sys.Count(), t.monitor.AverageFPS(), theme)
	for i, r := range []rune(status) {
		if i >= t.bbw {
			break
		}
		termbox.SetCell(i, 0, r, termbox.ColorDefault|termbox.AttrReverse, termbox.ColorDefault)
	}
	termbox.Flush()
}
