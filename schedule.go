package ember

// Stage is a named slot in the per-frame schedule. Systems within one stage
// run in registration order; stages run in the order listed below.
type Stage struct {
	Name string
}

var (
	// Prelude runs first each frame: clocks, event polling, input edges.
	Prelude = Stage{Name: "Prelude"}
	// Update runs simulation and game logic.
	Update = Stage{Name: "Update"}
	// Render runs drawing against the surface.
	Render = Stage{Name: "Render"}
	// Finale runs last: presentation bookkeeping and quit checks.
	Finale = Stage{Name: "Finale"}
)

var stageOrder = []Stage{Prelude, Update, Render, Finale}
