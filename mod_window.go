package ember

import (
	"reflect"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState wraps the single shared GLFW window.
type WindowState struct {
	windowGlfw *glfw.Window
	Width      int
	Height     int
	title      string
}

// Window exposes the underlying GLFW handle for surface creation.
func (ws *WindowState) Window() *glfw.Window {
	return ws.windowGlfw
}

// FramebufferSize returns the current framebuffer size in pixels.
func (ws *WindowState) FramebufferSize() (int, int) {
	return ws.windowGlfw.GetFramebufferSize()
}

func (ws *WindowState) ShouldClose() bool {
	return ws.windowGlfw.ShouldClose()
}

// WindowModule provides the shared WindowState resource. Install is
// idempotent: an existing WindowState is reused so multiple renderer modules
// keep the single-window invariant.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func NewWindow(width, height int, title string) *WindowModule {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if title == "" {
		title = "ember"
	}
	return &WindowModule{Width: width, Height: height, Title: title}
}

func (m WindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if app.Resource(t) != nil {
		return
	}
	cmd.AddResources(createWindowState(m.Width, m.Height, m.Title))
	cmd.UseSystem(Prelude, pollEventsSystem)
	cmd.UseSystem(Finale, windowCloseSystem)
}

func createWindowState(width, height int, title string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu owns the surface, not OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw: win,
		Width:      width,
		Height:     height,
		title:      title,
	}
}

func pollEventsSystem(ws *WindowState) {
	glfw.PollEvents()
}

func windowCloseSystem(ws *WindowState, cmd *Commands) {
	if ws.ShouldClose() {
		cmd.Quit()
	}
}
