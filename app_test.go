package ember

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterResource struct {
	frames int
}

type labelResource struct {
	label string
}

func TestApp_AddResources(t *testing.T) {
	app := &App{resources: make(map[reflect.Type]any)}

	res := &counterResource{}
	app.addResources(res)
	assert.Contains(t, app.resources, reflect.TypeOf(res).Elem())

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(res)), func() {
		app.addResources(&counterResource{})
	})

	require.Panics(t, func() {
		app.addResources(counterResource{}) // non-pointer
	})
}

func TestApp_SystemInjection(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()
	cmd.AddResources(&counterResource{}, &labelResource{label: "a"})
	cmd.UseSystem(Update, func(c *counterResource, l *labelResource) {
		c.frames++
		l.label += "b"
	})

	app.RunFrame()
	app.RunFrame()

	c := MustResource[*counterResource](app)
	l := MustResource[*labelResource](app)
	assert.Equal(t, 2, c.frames)
	assert.Equal(t, "abb", l.label)
}

func TestApp_UnresolvableDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.Commands().UseSystem(Update, func(c *counterResource) {})
	require.Panics(t, func() { app.RunFrame() })
}

func TestApp_StageOrder(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()
	var order []string
	cmd.UseSystem(Render, func(c *Commands) { order = append(order, "render") })
	cmd.UseSystem(Prelude, func(c *Commands) { order = append(order, "prelude") })
	cmd.UseSystem(Finale, func(c *Commands) { order = append(order, "finale") })
	cmd.UseSystem(Update, func(c *Commands) { order = append(order, "update") })

	app.RunFrame()
	assert.Equal(t, []string{"prelude", "update", "render", "finale"}, order)
}

func TestApp_RunStopsOnQuit(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()
	cmd.AddResources(&counterResource{})
	cmd.UseSystem(Update, func(c *counterResource, cmds *Commands) {
		c.frames++
		if c.frames == 3 {
			cmds.Quit()
		}
	})

	app.Run()
	assert.Equal(t, 3, MustResource[*counterResource](app).frames)
}

type probeModule struct {
	installed *[]string
	name      string
}

func (m probeModule) Install(app *App, cmd *Commands) {
	*m.installed = append(*m.installed, m.name)
}

func TestAppBuilder_InstallOrder(t *testing.T) {
	var installed []string
	NewAppBuilder().
		UseModule(probeModule{&installed, "first"}).
		UseModule(probeModule{&installed, "second"}, probeModule{&installed, "third"}).
		Build()
	assert.Equal(t, []string{"first", "second", "third"}, installed)
}

func TestApp_LoggerFallback(t *testing.T) {
	app := NewAppBuilder().Build()
	require.NotNil(t, app.Logger())
	assert.False(t, app.Logger().DebugEnabled())

	app.Commands().AddResources(NewDefaultLogger("test", true))
	assert.True(t, app.Logger().DebugEnabled())
}
