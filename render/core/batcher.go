package core

import (
	"fmt"
)

// DrawStrategy is the draw path a batcher commits to at construction.
type DrawStrategy uint8

const (
	// StrategyBatched replicates the template across all instances in one
	// draw call using per-instance attribute streams.
	StrategyBatched DrawStrategy = iota
	// StrategyPerInstance issues one draw call per particle, preserving
	// input order as z-order.
	StrategyPerInstance
)

func (s DrawStrategy) String() string {
	switch s {
	case StrategyBatched:
		return "batched"
	case StrategyPerInstance:
		return "per-instance"
	}
	return fmt.Sprintf("DrawStrategy(%d)", uint8(s))
}

// BatcherConfig configures a ParticleBatcher.
type BatcherConfig struct {
	// Segments is the template ring resolution. Zero means DefaultSegments.
	Segments int
}

// ParticleBatcher flattens a particle snapshot into position/size/color
// streams and submits them to a Surface. The instancing capability is read
// once here and never re-checked: a batcher built against a surface without
// instancing stays on the per-instance path for its whole lifetime.
//
// The batcher keeps no state across frames beyond the template, the latched
// strategy, and reusable scratch storage. It never clears the surface.
type ParticleBatcher struct {
	surface  Surface
	strategy DrawStrategy
	template []float32
	vcount   int

	// Scratch streams, rebuilt from the snapshot every call. Kept only to
	// avoid reallocating; contents never survive a call.
	positions []float32
	sizes     []float32
	colors    []float32
}

// NewParticleBatcher builds a batcher for the given surface. The surface's
// instancing capability is queried once, here.
func NewParticleBatcher(surface Surface, cfg BatcherConfig) (*ParticleBatcher, error) {
	if surface == nil {
		return nil, fmt.Errorf("particle batcher: nil surface")
	}
	segments := cfg.Segments
	if segments == 0 {
		segments = DefaultSegments
	}
	if segments < 3 {
		return nil, fmt.Errorf("particle batcher: need at least 3 segments, got %d", segments)
	}

	strategy := StrategyPerInstance
	if surface.InstancingSupported() {
		strategy = StrategyBatched
	}

	template := TemplateShape(segments)
	return &ParticleBatcher{
		surface:  surface,
		strategy: strategy,
		template: template,
		vcount:   len(template) / 2,
	}, nil
}

// Strategy reports the draw path latched at construction.
func (b *ParticleBatcher) Strategy() DrawStrategy {
	return b.strategy
}

// DrawParticles submits one frame's particle snapshot. The input is read
// once, never mutated, and not retained past the call. An empty snapshot
// issues no draw calls. Clearing the surface is the caller's business.
func (b *ParticleBatcher) DrawParticles(particles []Particle) {
	n := len(particles)
	if n == 0 {
		return
	}

	b.flatten(particles)

	w, h := b.surface.Size()
	b.surface.SetUniform("resolution", [2]float32{float32(w), float32(h)})
	b.surface.UploadVertexStream(SlotTemplate, b.template, 2)

	if b.strategy == StrategyBatched {
		b.drawBatched(n)
	} else {
		b.drawPerInstance(n)
	}
}

// flatten rebuilds the three instance streams from scratch.
func (b *ParticleBatcher) flatten(particles []Particle) {
	n := len(particles)
	b.positions = b.positions[:0]
	b.sizes = b.sizes[:0]
	b.colors = b.colors[:0]
	if cap(b.positions) < 2*n {
		b.positions = make([]float32, 0, 2*n)
		b.sizes = make([]float32, 0, n)
		b.colors = make([]float32, 0, 4*n)
	}
	for i := range particles {
		p := &particles[i]
		rgba := p.Color.Resolve()
		b.positions = append(b.positions, p.X, p.Y)
		b.sizes = append(b.sizes, p.Size)
		b.colors = append(b.colors, rgba[0], rgba[1], rgba[2], rgba[3])
	}
}

func (b *ParticleBatcher) drawBatched(n int) {
	s := b.surface

	s.UploadVertexStream(SlotPosition, b.positions, 2)
	s.UploadVertexStream(SlotSize, b.sizes, 1)
	s.UploadVertexStream(SlotColor, b.colors, 4)

	s.SetInstanceStepRate(SlotPosition, StepRatePerInstance)
	s.SetInstanceStepRate(SlotSize, StepRatePerInstance)
	s.SetInstanceStepRate(SlotColor, StepRatePerInstance)

	s.Draw(PrimitiveFan, b.vcount, n)

	// Restore per-vertex stepping so the next non-instanced draw against
	// this surface (shapes, game tiles) starts from a known state. Part of
	// the contract, not a courtesy.
	s.SetInstanceStepRate(SlotPosition, StepRatePerVertex)
	s.SetInstanceStepRate(SlotSize, StepRatePerVertex)
	s.SetInstanceStepRate(SlotColor, StepRatePerVertex)
}

func (b *ParticleBatcher) drawPerInstance(n int) {
	s := b.surface

	// Input order is z-order: particle i+1 lands on top of particle i.
	for i := 0; i < n; i++ {
		s.UploadVertexStream(SlotPosition, b.positions[2*i:2*i+2], 2)
		s.UploadVertexStream(SlotSize, b.sizes[i:i+1], 1)
		s.UploadVertexStream(SlotColor, b.colors[4*i:4*i+4], 4)
		s.Draw(PrimitiveFan, b.vcount, 1)
	}
}
