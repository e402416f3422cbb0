package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ember2d/ember/render/core"
)

const slotCount = 4

// Options tunes surface creation.
type Options struct {
	// ForceNoInstancing makes InstancingSupported report false, pushing
	// batchers built on this surface onto the per-instance path. Used by
	// the comparison demos; WebGPU itself always instances.
	ForceNoInstancing bool

	// ClearColor is the background used by Clear. Defaults to opaque black.
	ClearColor *wgpu.Color
}

// Surface is the WebGPU implementation of core.Surface, drawing into a GLFW
// window.
//
// core.Surface hands out immediate-looking calls, but WebGPU wants whole
// command buffers: Surface therefore records uploads and draw calls between
// BeginFrame and EndFrame and encodes them in one submission. Slot uploads
// within a frame append into per-slot arenas so every recorded draw keeps
// its own region (a per-particle fallback loop re-uploads the same slot many
// times per frame).
type Surface struct {
	window *glfw.Window

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface
	config   *wgpu.SurfaceConfiguration

	pipelinePerVertex *wgpu.RenderPipeline
	pipelineInstanced *wgpu.RenderPipeline
	uniformLayout     *wgpu.BindGroupLayout

	forceNoInstancing bool
	clearColor        wgpu.Color

	// Per-slot GPU buffers, grown but never shrunk.
	slotBufs [slotCount]*wgpu.Buffer

	// Fan index buffers keyed by vertex count.
	fanIndex map[int]*wgpu.Buffer

	// Uniform buffer + bind group per distinct resolution value.
	uniformGroups map[[2]float32]*uniformGroup

	// Frame recording state.
	arenas    [slotCount][]float32
	cursors   [slotCount]streamCursor
	stepRates [slotCount]int
	uniform   [2]float32
	records   []drawRecord
	clearNext bool
	cleared   bool
	inFrame   bool
}

type uniformGroup struct {
	buf   *wgpu.Buffer
	group *wgpu.BindGroup
}

type streamCursor struct {
	offset     int // floats into the slot arena
	length     int // floats
	components int
}

type drawRecord struct {
	instanced     bool
	uniform       [2]float32
	slots         [slotCount]streamCursor
	vertexCount   int
	instanceCount int
	clearBefore   bool
}

// NewSurface builds a WebGPU surface over the window. Shader compilation and
// pipeline creation happen here; a failure is final for the session.
func NewSurface(window *glfw.Window, opts Options) (*Surface, error) {
	s := &Surface{
		window:            window,
		forceNoInstancing: opts.ForceNoInstancing,
		clearColor:        wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		fanIndex:          make(map[int]*wgpu.Buffer),
		uniformGroups:     make(map[[2]float32]*uniformGroup),
	}
	if opts.ClearColor != nil {
		s.clearColor = *opts.ClearColor
	}

	s.instance = wgpu.CreateInstance(nil)
	s.surface = s.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := s.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: s.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	s.adapter = adapter

	s.device, err = adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	s.queue = s.device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := s.surface.GetCapabilities(adapter)
	s.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	s.surface.Configure(adapter, s.device, s.config)

	if err := s.buildPipelines(); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize reconfigures the swapchain after a framebuffer size change.
func (s *Surface) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.config.Width = uint32(width)
	s.config.Height = uint32(height)
	s.surface.Configure(s.adapter, s.device, s.config)
}

// InstancingSupported implements core.Surface. WebGPU always instances; the
// flag exists so the fallback path stays demonstrable and testable.
func (s *Surface) InstancingSupported() bool {
	return !s.forceNoInstancing
}

// Size implements core.Surface.
func (s *Surface) Size() (int, int) {
	return int(s.config.Width), int(s.config.Height)
}

// BeginFrame starts recording a frame. Draw, Clear and upload calls are only
// valid between BeginFrame and EndFrame.
func (s *Surface) BeginFrame() {
	s.inFrame = true
	s.records = s.records[:0]
	s.clearNext = false
	s.cleared = false
	for i := range s.arenas {
		s.arenas[i] = s.arenas[i][:0]
		s.cursors[i] = streamCursor{}
	}
}

// Clear implements core.Surface: the next draw (or the frame end, if none
// follows) starts from the background color.
func (s *Surface) Clear() {
	s.clearNext = true
	s.cleared = true
}

// SetUniform implements core.Surface. Only the "resolution" vec2 uniform is
// defined by the flat pipeline.
func (s *Surface) SetUniform(name string, value any) {
	if name != "resolution" {
		panic(fmt.Sprintf("gpu surface: unknown uniform %q", name))
	}
	v, ok := value.([2]float32)
	if !ok {
		panic(fmt.Sprintf("gpu surface: resolution wants [2]float32, got %T", value))
	}
	s.uniform = v
}

// UploadVertexStream implements core.Surface. Data is copied into the frame
// arena; the caller may reuse its slice immediately.
func (s *Surface) UploadVertexStream(slot int, data []float32, components int) {
	if slot < 0 || slot >= slotCount {
		panic(fmt.Sprintf("gpu surface: vertex stream slot %d out of range", slot))
	}
	if components <= 0 || len(data)%components != 0 {
		panic(fmt.Sprintf("gpu surface: slot %d: %d floats is not a whole number of %d-component elements",
			slot, len(data), components))
	}
	offset := len(s.arenas[slot])
	s.arenas[slot] = append(s.arenas[slot], data...)
	s.cursors[slot] = streamCursor{offset: offset, length: len(data), components: components}
}

// SetInstanceStepRate implements core.Surface.
func (s *Surface) SetInstanceStepRate(slot int, rate int) {
	if slot < 0 || slot >= slotCount {
		panic(fmt.Sprintf("gpu surface: step rate slot %d out of range", slot))
	}
	s.stepRates[slot] = rate
}

// Draw implements core.Surface by recording one draw for EndFrame to encode.
func (s *Surface) Draw(kind core.PrimitiveKind, vertexCount, instanceCount int) {
	if kind != core.PrimitiveFan {
		panic(fmt.Sprintf("gpu surface: unsupported primitive kind %d", kind))
	}
	if vertexCount < 3 || instanceCount <= 0 {
		return
	}
	rec := drawRecord{
		instanced:     s.drawInstanced(instanceCount),
		uniform:       s.uniform,
		slots:         s.cursors,
		vertexCount:   vertexCount,
		instanceCount: instanceCount,
		clearBefore:   s.clearNext,
	}
	s.clearNext = false
	s.records = append(s.records, rec)
}

// drawInstanced picks the pipeline variant. Per-instance stepping is also
// used when every instance slot holds exactly one element: with a single
// instance that is the "constant attribute" broadcast the shape helper and
// the per-particle fallback rely on, and it keeps one-element streams from
// under-running the per-vertex stride validation.
func (s *Surface) drawInstanced(instanceCount int) bool {
	if s.stepRates[core.SlotPosition] == core.StepRatePerInstance &&
		s.stepRates[core.SlotSize] == core.StepRatePerInstance &&
		s.stepRates[core.SlotColor] == core.StepRatePerInstance {
		return true
	}
	if instanceCount == 1 {
		for _, slot := range []int{core.SlotPosition, core.SlotSize, core.SlotColor} {
			c := s.cursors[slot]
			if c.length != c.components {
				return false
			}
		}
		return true
	}
	return false
}

// EndFrame uploads the frame's arenas, encodes the recorded draws into one
// command buffer, submits and presents.
func (s *Surface) EndFrame() error {
	if !s.inFrame {
		return nil
	}
	s.inFrame = false

	for slot := range s.arenas {
		if len(s.arenas[slot]) == 0 {
			continue
		}
		s.ensureSlotBuffer(slot, floatBytes(s.arenas[slot]))
	}

	texture, err := s.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer texture.Release()
	view, err := texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	var pass *wgpu.RenderPassEncoder
	openPass := func(clear bool) {
		load := wgpu.LoadOpLoad
		if clear {
			load = wgpu.LoadOpClear
		}
		pass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     load,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: s.clearColor,
			}},
		})
	}

	for i := range s.records {
		rec := &s.records[i]
		if pass == nil {
			openPass(rec.clearBefore)
		} else if rec.clearBefore {
			if err := pass.End(); err != nil {
				return fmt.Errorf("end render pass: %w", err)
			}
			openPass(true)
		}
		s.encodeDraw(pass, rec)
	}
	if pass == nil {
		// Nothing drawn; still run one pass so a bare Clear (or an empty
		// frame) presents deterministic contents.
		openPass(s.cleared)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	s.queue.Submit(cmd)
	s.surface.Present()
	return nil
}

func (s *Surface) encodeDraw(pass *wgpu.RenderPassEncoder, rec *drawRecord) {
	pipeline := s.pipelinePerVertex
	if rec.instanced {
		pipeline = s.pipelineInstanced
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, s.uniformGroupFor(rec.uniform).group, nil)

	for slot := 0; slot < slotCount; slot++ {
		c := rec.slots[slot]
		buf := s.slotBufs[slot]
		if buf == nil || c.length == 0 {
			continue
		}
		pass.SetVertexBuffer(uint32(slot), buf, uint64(c.offset)*4, uint64(c.length)*4)
	}

	indexBuf, indexCount := s.fanIndexBuffer(rec.vertexCount)
	pass.SetIndexBuffer(indexBuf, wgpu.IndexFormatUint32, 0, indexBuf.GetSize())
	pass.DrawIndexed(indexCount, uint32(rec.instanceCount), 0, 0, 0)
}

// ensureSlotBuffer grows the slot buffer if needed and schedules the arena
// upload. Queue writes land before the submitted commands execute, so the
// recorded draws see the full arena.
func (s *Surface) ensureSlotBuffer(slot int, data []byte) {
	needed := uint64(len(data))
	if needed%4 != 0 {
		needed += 4 - needed%4
	}
	buf := s.slotBufs[slot]
	if buf == nil || buf.GetSize() < needed {
		if buf != nil {
			buf.Release()
		}
		newBuf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("EmberSlot%d", slot),
			Size:  needed + needed/2, // growth margin
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		s.slotBufs[slot] = newBuf
		buf = newBuf
	}
	s.queue.WriteBuffer(buf, 0, data)
}

// fanIndexBuffer returns the triangle-list expansion of a fan with the given
// vertex count: (0, i, i+1) per triangle. WebGPU has no fan topology, so the
// expansion is cached per vertex count.
func (s *Surface) fanIndexBuffer(vertexCount int) (*wgpu.Buffer, uint32) {
	triangles := vertexCount - 2
	indexCount := uint32(3 * triangles)
	if buf, ok := s.fanIndex[vertexCount]; ok {
		return buf, indexCount
	}

	indices := make([]uint32, 0, indexCount)
	for i := 1; i <= triangles; i++ {
		indices = append(indices, 0, uint32(i), uint32(i+1))
	}
	buf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("EmberFanIndex%d", vertexCount),
		Size:  uint64(len(indices)) * 4,
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	s.queue.WriteBuffer(buf, 0, unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4))
	s.fanIndex[vertexCount] = buf
	return buf, indexCount
}

// uniformGroupFor returns the bind group for a resolution value, creating
// buffer and group on first use. Resolutions only change on resize, so the
// cache stays tiny.
func (s *Surface) uniformGroupFor(res [2]float32) *uniformGroup {
	if g, ok := s.uniformGroups[res]; ok {
		return g
	}
	data := [4]float32{res[0], res[1], 0, 0} // vec2 + pad, 16 bytes
	buf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "EmberUniforms",
		Size:  uint64(unsafe.Sizeof(data)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	s.queue.WriteBuffer(buf, 0, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(data))))

	group, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "EmberUniformBG",
		Layout: s.uniformLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Size:    uint64(unsafe.Sizeof(data)),
		}},
	})
	if err != nil {
		panic(err)
	}
	g := &uniformGroup{buf: buf, group: group}
	s.uniformGroups[res] = g
	return g
}

// Release frees every GPU object the surface owns.
func (s *Surface) Release() {
	for _, buf := range s.slotBufs {
		if buf != nil {
			buf.Release()
		}
	}
	for _, buf := range s.fanIndex {
		buf.Release()
	}
	for _, g := range s.uniformGroups {
		g.group.Release()
		g.buf.Release()
	}
	if s.pipelinePerVertex != nil {
		s.pipelinePerVertex.Release()
	}
	if s.pipelineInstanced != nil {
		s.pipelineInstanced.Release()
	}
	if s.uniformLayout != nil {
		s.uniformLayout.Release()
	}
	if s.device != nil {
		s.device.Release()
	}
	if s.adapter != nil {
		s.adapter.Release()
	}
	if s.surface != nil {
		s.surface.Release()
	}
	if s.instance != nil {
		s.instance.Release()
	}
}

func floatBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}
