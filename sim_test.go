package ember

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember2d/ember/render/core"
)

func simConfig(count int) ParticlesConfig {
	return ParticlesConfig{
		Count:     count,
		SpawnRate: 1000,
		Lifetime:  [2]float32{1, 1},
		Speed:     [2]float32{100, 100},
		Size:      [2]float32{4, 4},
		Gravity:   100,
		Drag:      0,
		Palette:   []string{"#ff0000"},
	}
}

func TestParticleSim_SpawnsTowardTarget(t *testing.T) {
	ps := NewParticleSim(simConfig(50), 800, 600)
	assert.Equal(t, 0, ps.Alive())

	// 1000/s for 10ms spawns 10.
	ps.Step(0.01)
	assert.Equal(t, 10, ps.Alive())

	// Never exceeds the target.
	for i := 0; i < 100; i++ {
		ps.Step(0.01)
	}
	assert.Equal(t, 50, ps.Alive())
}

func TestParticleSim_FractionalSpawnAccumulates(t *testing.T) {
	cfg := simConfig(10)
	cfg.SpawnRate = 30 // 0.5 per 1/60s frame
	ps := NewParticleSim(cfg, 800, 600)

	ps.Step(1.0 / 60.0)
	assert.Equal(t, 0, ps.Alive())
	ps.Step(1.0 / 60.0)
	assert.Equal(t, 1, ps.Alive(), "half spawns carry over to the next frame")
}

func TestParticleSim_LifetimeExpiry(t *testing.T) {
	ps := NewParticleSim(simConfig(20), 800, 600)
	ps.Step(0.02) // spawn some
	alive := ps.Alive()
	require.Greater(t, alive, 0)

	// Lifetime is exactly 1s; with spawning off, two long steps age
	// everyone out.
	ps.cfg.SpawnRate = 0
	ps.Step(0.6)
	ps.Step(0.6)
	assert.Equal(t, 0, ps.Alive())
}

func TestParticleSim_GravityPullsDown(t *testing.T) {
	ps := NewParticleSim(simConfig(1), 800, 600)
	ps.Step(0.01)
	require.Equal(t, 1, ps.Alive())

	vy0 := ps.vel[0][1]
	for i := 0; i < 10; i++ {
		ps.Step(0.05)
	}
	// Pixel y grows downward, so gravity raises vy.
	assert.Greater(t, ps.vel[0][1], vy0)
}

func TestParticleSim_SnapshotMatchesPool(t *testing.T) {
	ps := NewParticleSim(simConfig(30), 800, 600)
	ps.Step(0.02)

	snap := ps.Snapshot()
	require.Len(t, snap, ps.Alive())
	for i, p := range snap {
		assert.Equal(t, ps.pos[i][0], p.X)
		assert.Equal(t, ps.pos[i][1], p.Y)
		assert.Equal(t, ps.size[i], p.Size)
		assert.Equal(t, core.ColorHex, p.Color.Kind, "palette parsed at ingestion")
	}

	// The snapshot slice is reused, not grown per call.
	again := ps.Snapshot()
	assert.Len(t, again, ps.Alive())
}

func TestParticleSim_SetTargetShrinksAndGrows(t *testing.T) {
	ps := NewParticleSim(simConfig(40), 800, 600)
	for i := 0; i < 20; i++ {
		ps.Step(0.01)
	}
	require.Equal(t, 40, ps.Alive())

	ps.SetTarget(5)
	assert.Equal(t, 5, ps.Alive())

	ps.SetTarget(100)
	for i := 0; i < 200; i++ {
		ps.Step(0.01)
	}
	assert.Equal(t, 100, ps.Alive())
}

func TestParticleSim_Reset(t *testing.T) {
	ps := NewParticleSim(simConfig(10), 800, 600)
	ps.Step(0.05)
	require.Greater(t, ps.Alive(), 0)

	ps.Reset()
	assert.Equal(t, 0, ps.Alive())
	assert.Empty(t, ps.Snapshot())
}

func TestParticleSim_EmptyPaletteFallsBackToWhite(t *testing.T) {
	cfg := simConfig(5)
	cfg.Palette = nil
	ps := NewParticleSim(cfg, 800, 600)
	ps.Step(0.01)
	require.Greater(t, ps.Alive(), 0)
	assert.Equal(t, core.RGBA{1, 1, 1, 1}, ps.Snapshot()[0].Color.Resolve())
}
