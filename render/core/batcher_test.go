package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func white() ColorSpec { return ParseColorSpec("#ffffff") }

func TestNewParticleBatcher_Validation(t *testing.T) {
	_, err := NewParticleBatcher(nil, BatcherConfig{})
	require.Error(t, err)

	_, err = NewParticleBatcher(newMockSurface(true, 100, 100), BatcherConfig{Segments: 2})
	require.Error(t, err)

	b, err := NewParticleBatcher(newMockSurface(true, 100, 100), BatcherConfig{})
	require.NoError(t, err)
	assert.Equal(t, StrategyBatched, b.Strategy())

	b, err = NewParticleBatcher(newMockSurface(false, 100, 100), BatcherConfig{})
	require.NoError(t, err)
	assert.Equal(t, StrategyPerInstance, b.Strategy())
}

func TestDrawParticles_DrawCallCounts(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			particles := make([]Particle, n)
			for i := range particles {
				particles[i] = Particle{X: float32(i), Y: float32(i), Size: 1, Color: white()}
			}

			batched := newMockSurface(true, 200, 200)
			b, err := NewParticleBatcher(batched, BatcherConfig{})
			require.NoError(t, err)
			b.DrawParticles(particles)

			fallback := newMockSurface(false, 200, 200)
			f, err := NewParticleBatcher(fallback, BatcherConfig{})
			require.NoError(t, err)
			f.DrawParticles(particles)

			if n == 0 {
				assert.Empty(t, batched.draws)
				assert.Empty(t, fallback.draws)
				assert.Empty(t, batched.uploads, "no-op must not touch the surface")
				return
			}
			require.Len(t, batched.draws, 1)
			assert.Equal(t, n, batched.draws[0].instanceCount)
			require.Len(t, fallback.draws, n)
			for _, d := range fallback.draws {
				assert.Equal(t, 1, d.instanceCount)
			}
		})
	}
}

func TestDrawParticles_BatchedEndToEnd(t *testing.T) {
	surface := newMockSurface(true, 100, 100)
	b, err := NewParticleBatcher(surface, BatcherConfig{})
	require.NoError(t, err)

	b.DrawParticles([]Particle{
		{X: 10, Y: 10, Size: 5, Color: white()},
		{X: 20, Y: 20, Size: 5, Color: white()},
	})

	require.Len(t, surface.draws, 1)
	d := surface.draws[0]
	assert.Equal(t, PrimitiveFan, d.kind)
	assert.Equal(t, DefaultSegments+2, d.vertexCount)
	assert.Equal(t, 2, d.instanceCount)

	pos := surface.uploadsFor(SlotPosition)
	require.Len(t, pos, 1)
	assert.Equal(t, []float32{10, 10, 20, 20}, pos[0].data)
	assert.Equal(t, 2, pos[0].components)

	sizes := surface.uploadsFor(SlotSize)
	require.Len(t, sizes, 1)
	assert.Equal(t, []float32{5, 5}, sizes[0].data)

	colors := surface.uploadsFor(SlotColor)
	require.Len(t, colors, 1)
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1, 1, 1}, colors[0].data)

	require.Len(t, surface.uniforms, 1)
	assert.Equal(t, "resolution", surface.uniforms[0].name)
	assert.Equal(t, [2]float32{100, 100}, surface.uniforms[0].value)
}

func TestDrawParticles_StepRatesRestored(t *testing.T) {
	surface := newMockSurface(true, 100, 100)
	b, err := NewParticleBatcher(surface, BatcherConfig{})
	require.NoError(t, err)

	b.DrawParticles([]Particle{{X: 1, Y: 1, Size: 1, Color: white()}})

	// Three slots raised to per-instance before the draw, three lowered
	// back after it.
	require.Len(t, surface.stepRates, 6)
	final := map[int]int{}
	for _, sr := range surface.stepRates {
		final[sr.slot] = sr.rate
	}
	for _, slot := range []int{SlotPosition, SlotSize, SlotColor} {
		assert.Equal(t, StepRatePerVertex, final[slot], "slot %d must end per-vertex", slot)
	}

	// The raise happens before the draw, the restore after.
	drawIdx := -1
	for i, ev := range surface.events {
		if ev == "draw" {
			drawIdx = i
		}
	}
	require.GreaterOrEqual(t, drawIdx, 0)
	rates := 0
	for _, ev := range surface.events[drawIdx+1:] {
		if ev == "steprate" {
			rates++
		}
	}
	assert.Equal(t, 3, rates, "three step-rate resets after the draw call")
}

func TestDrawParticles_FallbackOrderIsInputOrder(t *testing.T) {
	surface := newMockSurface(false, 100, 100)
	b, err := NewParticleBatcher(surface, BatcherConfig{})
	require.NoError(t, err)

	// Two overlapping particles: index 1 must be drawn last so it wins the
	// overlap region.
	b.DrawParticles([]Particle{
		{X: 50, Y: 50, Size: 10, Color: ParseColorSpec("#ff0000")},
		{X: 52, Y: 52, Size: 10, Color: ParseColorSpec("#00ff00")},
	})

	pos := surface.uploadsFor(SlotPosition)
	require.Len(t, pos, 2)
	assert.Equal(t, []float32{50, 50}, pos[0].data)
	assert.Equal(t, []float32{52, 52}, pos[1].data)

	colors := surface.uploadsFor(SlotColor)
	require.Len(t, colors, 2)
	assert.Equal(t, []float32{1, 0, 0, 1}, colors[0].data)
	assert.Equal(t, []float32{0, 1, 0, 1}, colors[1].data)

	// Uploads for particle i precede its draw, which precedes particle
	// i+1's uploads.
	require.Len(t, surface.draws, 2)
	var order []string
	for _, ev := range surface.events {
		if ev == "draw" || ev == "upload" {
			order = append(order, ev)
		}
	}
	// template upload, then (3 uploads + draw) per particle
	assert.Equal(t, []string{
		"upload",
		"upload", "upload", "upload", "draw",
		"upload", "upload", "upload", "draw",
	}, order)
}

func TestDrawParticles_FallbackSetsResolutionOncePerCall(t *testing.T) {
	surface := newMockSurface(false, 64, 48)
	b, err := NewParticleBatcher(surface, BatcherConfig{})
	require.NoError(t, err)

	particles := make([]Particle, 5)
	for i := range particles {
		particles[i] = Particle{Size: 1, Color: white()}
	}
	b.DrawParticles(particles)

	require.Len(t, surface.uniforms, 1)
	assert.Equal(t, [2]float32{64, 48}, surface.uniforms[0].value)
}

func TestDrawParticles_CapabilityLatchedAtConstruction(t *testing.T) {
	surface := newMockSurface(true, 100, 100)
	b, err := NewParticleBatcher(surface, BatcherConfig{})
	require.NoError(t, err)

	// Flipping the surface after construction must not change the path.
	surface.instancing = false
	b.DrawParticles([]Particle{{Size: 1, Color: white()}, {Size: 1, Color: white()}})

	require.Len(t, surface.draws, 1)
	assert.Equal(t, 2, surface.draws[0].instanceCount)
	assert.Equal(t, StrategyBatched, b.Strategy())
}

func TestDrawParticles_DoesNotMutateInput(t *testing.T) {
	surface := newMockSurface(true, 100, 100)
	b, err := NewParticleBatcher(surface, BatcherConfig{})
	require.NoError(t, err)

	in := []Particle{{X: 3, Y: 4, Size: 5, Color: ParseColorSpec("hsl(120, 100%, 50%)")}}
	want := in[0]
	b.DrawParticles(in)
	assert.Equal(t, want, in[0])
}

func TestDrawParticles_UnknownColorDrawsBlack(t *testing.T) {
	surface := newMockSurface(true, 100, 100)
	b, err := NewParticleBatcher(surface, BatcherConfig{})
	require.NoError(t, err)

	b.DrawParticles([]Particle{{Size: 1, Color: ParseColorSpec("purple")}})

	colors := surface.uploadsFor(SlotColor)
	require.Len(t, colors, 1)
	assert.Equal(t, []float32{0, 0, 0, 1}, colors[0].data)
	require.Len(t, surface.draws, 1, "unknown colors never interrupt the frame")
}
