package ember

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// App owns the resource map and the per-frame system schedule. Resources are
// singletons keyed by type; systems are plain functions whose pointer
// parameters are resolved from the resource map on every call, with
// *Commands injected specially.
type App struct {
	modules   []Module
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	quitting  bool
}

// Module wires resources and systems into an app during Build.
type Module interface {
	Install(app *App, cmd *Commands)
}

// Commands returns a command handle bound to this app.
func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// Run drives the frame loop: every stage's systems once per frame, until a
// system calls Commands.Quit.
func (app *App) Run() {
	for !app.quitting {
		app.RunFrame()
	}
}

// RunFrame executes a single frame of the schedule. Exposed so tests can
// step the app without entering the loop.
func (app *App) RunFrame() {
	for _, stage := range stageOrder {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
}

func (app *App) addSystems(stage Stage, systems ...systemFn) {
	if app.systems == nil {
		app.systems = make(map[string][]systemFn)
	}
	app.systems[stage.Name] = append(app.systems[stage.Name], systems...)
}

func (app *App) addResources(resources ...any) {
	for _, resource := range resources {
		t := reflect.TypeOf(resource)
		if t.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("resources must be pointers, got %s", t))
		}
		key := t.Elem()
		if _, ok := app.resources[key]; ok {
			panic(fmt.Sprintf("%s is already in resources", t))
		}
		app.resources[key] = resource
	}
}

// Resource returns the resource of the given concrete type, or nil.
func (app *App) Resource(t reflect.Type) any {
	return app.resources[t]
}

// MustResource returns the resource of pointer type T, panicking if it was
// never installed. Demo mains use it to reach module state after Build.
func MustResource[T any](app *App) T {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Ptr {
		panic("MustResource wants a pointer type parameter")
	}
	res := app.resources[t.Elem()]
	if res == nil {
		panic(fmt.Sprintf("no %s resource installed", t))
	}
	return res.(T)
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem invokes a system, resolving each pointer parameter from the
// resource map. An unresolvable dependency is a programming error and
// panics with the system's name.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())
	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlying := argType.Elem()

		if underlying == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
			continue
		}
		resource, ok := app.resources[underlying]
		if !ok {
			panic(fmt.Sprintf("unable to resolve system dependency\nsystem: %s\ndependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(), argType))
		}
		args[i] = reflect.ValueOf(resource)
	}
	systemValue.Call(args)
}

// Logger returns the first Logger resource if present, otherwise a no-op
// logger. Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
