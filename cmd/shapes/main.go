// Command shapes exercises the immediate-mode shape helper: filled rects,
// circles, triangles and thick lines, one draw call each, with a slow orbit
// animation to make the z-order visible.
package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/ember2d/ember"
	"github.com/ember2d/ember/render/core"
)

type shapesDemoModule struct{}

type demoState struct {
	elapsed float32
}

func (m shapesDemoModule) Install(app *ember.App, cmd *ember.Commands) {
	cmd.AddResources(&demoState{})
	cmd.UseSystem(ember.Update, advanceSystem)
	cmd.UseSystem(ember.Render, drawSceneSystem)
}

func advanceSystem(ds *demoState, clock *ember.Clock, in *ember.InputState, cmd *ember.Commands) {
	ds.elapsed += clock.DtSeconds()
	if in.JustPressed(ember.KeyEscape) {
		cmd.Quit()
	}
}

func drawSceneSystem(rs *ember.RenderState, ws *ember.WindowState, ds *demoState, logger *ember.DefaultLogger) {
	w, h := ws.FramebufferSize()
	if sw, sh := rs.Surface.Size(); sw != w || sh != h {
		rs.Surface.Resize(w, h)
	}
	cx := float32(w) / 2
	cy := float32(h) / 2

	rs.Surface.BeginFrame()
	rs.Surface.Clear()

	sh := rs.Shapes
	sh.FillRect(40, 40, 200, 120, core.ParseColorSpec("#2a4d69"))
	sh.FillRect(float32(w)-240, 40, 200, 120, core.ParseColorSpec("hsl(200, 60%, 40%)"))
	sh.FillTriangle(cx, 60, cx-90, 220, cx+90, 220, core.ParseColorSpec("#e8a33d"))
	sh.Line(40, float32(h)-60, float32(w)-40, float32(h)-60, 6, core.ParseColorSpec("#888888"))

	// Orbiting circles overlap near the center; later draws land on top.
	for i := 0; i < 6; i++ {
		a := float64(ds.elapsed)/2 + float64(i)*math.Pi/3
		x := cx + float32(math.Cos(a))*140
		y := cy + float32(math.Sin(a))*140
		sh.FillCircle(x, y, 46, core.ParseColorSpec(fmt.Sprintf("hsl(%d, 85%%, 55%%)", i*60)))
	}
	sh.FillCircle(cx, cy, 60, core.ParseColorSpec("#ffffff"))

	if err := rs.Surface.EndFrame(); err != nil {
		logger.Warnf("frame dropped: %v", err)
	}
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	ember.NewAppBuilder().
		UseModule(
			ember.LoggingModule{Prefix: "shapes", Debug: *debug},
			ember.ClockModule{},
			ember.NewWindow(1024, 768, "ember shapes"),
			ember.InputModule{},
			ember.SurfaceModule{},
			shapesDemoModule{},
		).
		Build().
		Run()
}
