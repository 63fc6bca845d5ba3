package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/esimov/ascii-swarm/http"
	"github.com/esimov/ascii-swarm/monitor"
	swarm "github.com/esimov/ascii-swarm/particle-system"
	"github.com/esimov/ascii-swarm/terminal"
	"github.com/esimov/ascii-swarm/websocket"
)

func main() {
	count := flag.Int("count", 0, "number of particles (0 picks one for this machine)")
	fps := flag.Int("fps", 30, "simulation frames per second")
	workers := flag.Int("workers", runtime.NumCPU(), "goroutines used to update the swarm")
	light := flag.Bool("light", false, "start with the light theme")
	seed := flag.Uint64("seed", 0, "random seed (0 uses the clock)")
	serve := flag.Bool("serve", false, "stream the swarm to browsers over websocket instead of drawing it in the terminal")
	logFile := flag.String("log", "debug.log", "terminal mode diagnostics file")
	http.Register(flag.CommandLine)
	flag.Parse()

	if *count <= 0 {
		*count = monitor.OptimalCount(runtime.NumCPU(), false)
	}

	if !*serve {
		term := terminal.New(terminal.Config{
			Count:   *count,
			FPS:     *fps,
			Workers: *workers,
			Dark:    !*light,
			Seed:    *seed,
			LogFile: *logFile,
		})
		if err := term.Render(); err != nil {
			log.Fatalln(err)
		}
		return
	}

	opts := []swarm.Option{swarm.WithWorkers(*workers)}
	if *seed != 0 {
		opts = append(opts, swarm.WithRand(swarm.NewRand(*seed)))
	}
	srv, err := websocket.NewServer(http.GetParams(), swarm.NewSystem(*count, opts...), *fps, !*light)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatalln(err)
	}
}
