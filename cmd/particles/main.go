// Command particles is the draw-path comparison demo: a particle fountain
// rendered either through one instanced draw call per frame or through the
// per-particle fallback loop (-immediate).
//
// Controls: space pauses, R resets, up/down double/halve the particle
// target, escape quits.
package main

import (
	"flag"
	"log"

	"github.com/ember2d/ember"
)

func main() {
	configPath := flag.String("config", "ember.toml", "path to the TOML config")
	immediate := flag.Bool("immediate", false, "force the per-particle draw path")
	count := flag.Int("count", 0, "override the particle target")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := ember.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *count > 0 {
		cfg.Particles.Count = *count
	}
	if *immediate {
		cfg.Renderer.Immediate = true
	}

	app := ember.NewAppBuilder().
		UseModule(
			ember.LoggingModule{Prefix: "particles", Debug: *debug},
			ember.ClockModule{},
			ember.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
			ember.InputModule{},
			ember.SimModule{
				Config: cfg.Particles,
				Width:  cfg.Window.Width,
				Height: cfg.Window.Height,
			},
			ember.ClientModule{
				Segments:  cfg.Particles.Segments,
				Immediate: cfg.Renderer.Immediate,
			},
		).
		Build()

	app.Run()
}
