package ember

import (
	"reflect"
)

// AppBuilder assembles an App from modules.
type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		resources: make(map[reflect.Type]any),
		systems:   make(map[string][]systemFn),
	}}
}

// UseModule queues modules for installation. Install order is registration
// order, so modules may depend on resources added by earlier ones.
func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build installs every queued module and returns the app.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}
	for _, module := range b.modules {
		app.modules = append(app.modules, module)
		module.Install(app, commands)
	}
	return app
}
