package core

// PrimitiveKind selects the primitive topology of a draw call.
type PrimitiveKind uint32

const (
	// PrimitiveFan is a triangle fan: vertex 0 is shared by every triangle.
	PrimitiveFan PrimitiveKind = iota
)

// Vertex stream slots. Slot assignment is explicit so no caller depends on
// ambient "currently bound" state.
const (
	SlotTemplate = 0 // per-vertex template shape, 2 components
	SlotPosition = 1 // per-instance center, 2 components
	SlotSize     = 2 // per-instance scale, 1 component
	SlotColor    = 3 // per-instance RGBA, 4 components
)

// StepRatePerVertex advances a stream cursor once per vertex,
// StepRatePerInstance once per instance.
const (
	StepRatePerVertex   = 0
	StepRatePerInstance = 1
)

// Surface is the rendering target the batcher and shape helper draw into.
// Implementations: render/gpu.Surface (WebGPU) and the test doubles in this
// package's tests.
//
// A Surface is not safe for concurrent use; callers get exclusive access for
// the duration of one draw sequence.
type Surface interface {
	// InstancingSupported reports whether one draw call can replicate the
	// bound template once per instance. Fixed for the surface's lifetime.
	InstancingSupported() bool

	// UploadVertexStream replaces the contents of a slot's stream.
	// len(data) must be a multiple of components.
	UploadVertexStream(slot int, data []float32, components int)

	// SetInstanceStepRate sets how the slot's cursor advances
	// (StepRatePerVertex or StepRatePerInstance).
	SetInstanceStepRate(slot int, rate int)

	// SetUniform sets a named shader uniform for subsequent draw calls.
	SetUniform(name string, value any)

	// Draw issues one draw call with the currently uploaded streams.
	Draw(kind PrimitiveKind, vertexCount int, instanceCount int)

	// Clear wipes the surface to its background color.
	Clear()

	// Size returns the surface's pixel dimensions.
	Size() (width int, height int)
}
