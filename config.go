package ember

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the demos' TOML-backed configuration. A missing file yields the
// defaults; a malformed one is an error.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Particles ParticlesConfig `toml:"particles"`
	Renderer  RendererConfig  `toml:"renderer"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type ParticlesConfig struct {
	Count     int        `toml:"count"`
	Segments  int        `toml:"segments"`
	SpawnRate float32    `toml:"spawn_rate"` // particles per second
	Lifetime  [2]float32 `toml:"lifetime"`   // seconds, min/max
	Speed     [2]float32 `toml:"speed"`      // pixels per second, min/max
	Size      [2]float32 `toml:"size"`       // pixels, min/max
	Gravity   float32    `toml:"gravity"`    // pixels/s^2, positive is down
	Drag      float32    `toml:"drag"`       // per-second velocity damping
	Palette   []string   `toml:"palette"`    // hex or hsl color strings
}

type RendererConfig struct {
	Immediate bool `toml:"immediate"` // force the per-particle draw path
}

// DefaultConfig returns the settings the demos ship with.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
			Title:  "ember",
		},
		Particles: ParticlesConfig{
			Count:     2000,
			Segments:  12,
			SpawnRate: 1500,
			Lifetime:  [2]float32{1.0, 3.0},
			Speed:     [2]float32{120, 320},
			Size:      [2]float32{2, 6},
			Gravity:   260,
			Drag:      0.4,
			Palette: []string{
				"#ff6a00",
				"#ffb347",
				"#ffe29a",
				"hsl(14, 100%, 57%)",
				"hsl(36, 95%, 62%)",
			},
		},
		Renderer: RendererConfig{Immediate: false},
	}
}

// LoadConfig reads a TOML config from path, layered over the defaults.
// A nonexistent path is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
