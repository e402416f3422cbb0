package ember

import (
	"reflect"

	"github.com/ember2d/ember/render/core"
	"github.com/ember2d/ember/render/gpu"
)

// RenderState bundles the GPU surface with the renderers built on it.
type RenderState struct {
	Surface *gpu.Surface
	Batcher *core.ParticleBatcher
	Shapes  *core.Shapes
}

// SurfaceModule creates the WebGPU surface over the shared window and
// installs the RenderState resource. Surface or shader build failure is
// fatal for the session and surfaced here, once. Demo clients (particles,
// shapes, game) layer their render systems on top of this.
type SurfaceModule struct {
	Segments  int
	Immediate bool
}

func (m SurfaceModule) Install(app *App, cmd *Commands) {
	ws := mustWindowState(app)
	logger := app.Logger()

	surface, err := gpu.NewSurface(ws.Window(), gpu.Options{
		ForceNoInstancing: m.Immediate,
	})
	if err != nil {
		logger.Errorf("gpu surface init failed: %v", err)
		panic(err)
	}

	batcher, err := core.NewParticleBatcher(surface, core.BatcherConfig{Segments: m.Segments})
	if err != nil {
		logger.Errorf("particle batcher init failed: %v", err)
		panic(err)
	}
	logger.Infof("particle draw path: %s", batcher.Strategy())

	cmd.AddResources(&RenderState{
		Surface: surface,
		Batcher: batcher,
		Shapes:  core.NewShapes(surface),
	})
}

// ClientModule is the particle demo client: a SurfaceModule plus the
// particle render system.
type ClientModule struct {
	Segments  int
	Immediate bool
}

func (m ClientModule) Install(app *App, cmd *Commands) {
	SurfaceModule{Segments: m.Segments, Immediate: m.Immediate}.Install(app, cmd)
	cmd.UseSystem(Render, particleRenderSystem)
}

func particleRenderSystem(rs *RenderState, ws *WindowState, sim *ParticleSim, logger *DefaultLogger) {
	fbw, fbh := ws.FramebufferSize()
	if w, h := rs.Surface.Size(); w != fbw || h != fbh {
		rs.Surface.Resize(fbw, fbh)
	}

	rs.Surface.BeginFrame()
	rs.Surface.Clear()
	rs.Batcher.DrawParticles(sim.Snapshot())
	if err := rs.Surface.EndFrame(); err != nil {
		logger.Warnf("frame dropped: %v", err)
	}
}

func mustWindowState(app *App) *WindowState {
	res := app.Resource(reflect.TypeOf((*WindowState)(nil)).Elem())
	if res == nil {
		panic("ClientModule requires a WindowModule installed before it")
	}
	return res.(*WindowState)
}
