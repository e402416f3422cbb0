package core

// mockSurface records every call the batcher and shape helper make, so the
// tests can assert on draw-call counts, upload contents and ordering.
type mockSurface struct {
	instancing bool
	width      int
	height     int

	uploads   []uploadCall
	stepRates []stepRateCall
	uniforms  []uniformCall
	draws     []drawCall
	clears    int

	// events interleaves every call kind in issue order, for ordering
	// assertions across call types.
	events []string
}

type uploadCall struct {
	slot       int
	data       []float32
	components int
}

type stepRateCall struct {
	slot int
	rate int
}

type uniformCall struct {
	name  string
	value any
}

type drawCall struct {
	kind          PrimitiveKind
	vertexCount   int
	instanceCount int
}

func newMockSurface(instancing bool, w, h int) *mockSurface {
	return &mockSurface{instancing: instancing, width: w, height: h}
}

func (m *mockSurface) InstancingSupported() bool { return m.instancing }

func (m *mockSurface) UploadVertexStream(slot int, data []float32, components int) {
	// Copy: the batcher is allowed to reuse its scratch storage.
	cp := make([]float32, len(data))
	copy(cp, data)
	m.uploads = append(m.uploads, uploadCall{slot: slot, data: cp, components: components})
	m.events = append(m.events, "upload")
}

func (m *mockSurface) SetInstanceStepRate(slot int, rate int) {
	m.stepRates = append(m.stepRates, stepRateCall{slot: slot, rate: rate})
	m.events = append(m.events, "steprate")
}

func (m *mockSurface) SetUniform(name string, value any) {
	m.uniforms = append(m.uniforms, uniformCall{name: name, value: value})
	m.events = append(m.events, "uniform")
}

func (m *mockSurface) Draw(kind PrimitiveKind, vertexCount, instanceCount int) {
	m.draws = append(m.draws, drawCall{kind: kind, vertexCount: vertexCount, instanceCount: instanceCount})
	m.events = append(m.events, "draw")
}

func (m *mockSurface) Clear() { m.clears++ }

func (m *mockSurface) Size() (int, int) { return m.width, m.height }

// uploadsFor filters recorded uploads by slot.
func (m *mockSurface) uploadsFor(slot int) []uploadCall {
	var out []uploadCall
	for _, u := range m.uploads {
		if u.slot == slot {
			out = append(out, u)
		}
	}
	return out
}
