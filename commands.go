package ember

// Commands is the handle systems and modules use to mutate the app.
type Commands struct {
	app *App
}

// AddResources registers resource singletons. Each must be a pointer and a
// type may only be registered once.
func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// UseSystem schedules systems into a stage.
func (cmd *Commands) UseSystem(stage Stage, systems ...systemFn) *Commands {
	cmd.app.addSystems(stage, systems...)
	return cmd
}

// Quit stops the frame loop after the current frame completes.
func (cmd *Commands) Quit() {
	cmd.app.quitting = true
}
