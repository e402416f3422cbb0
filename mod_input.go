package ember

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Demo control keys.
const (
	KeySpace int = iota
	KeyR
	KeyI
	KeyUp
	KeyDown
	KeyEscape
	keyCount
)

var glfwKeys = map[int]glfw.Key{
	KeySpace:  glfw.KeySpace,
	KeyR:      glfw.KeyR,
	KeyI:      glfw.KeyI,
	KeyUp:     glfw.KeyUp,
	KeyDown:   glfw.KeyDown,
	KeyEscape: glfw.KeyEscape,
}

// InputState carries per-frame key state. JustPressed reports rising edges
// only, so holding a key does not repeat an action every frame.
type InputState struct {
	down     [keyCount]bool
	lastDown [keyCount]bool
}

func (in *InputState) Down(key int) bool {
	return in.down[key]
}

func (in *InputState) JustPressed(key int) bool {
	return in.down[key] && !in.lastDown[key]
}

// InputModule installs the InputState resource and its Prelude sampler.
// Requires a WindowModule installed first.
type InputModule struct{}

func (m InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&InputState{})
	cmd.UseSystem(Prelude, inputSystem)
}

func inputSystem(ws *WindowState, in *InputState) {
	in.lastDown = in.down
	for key, gk := range glfwKeys {
		in.down[key] = ws.Window().GetKey(gk) == glfw.Press
	}
}
