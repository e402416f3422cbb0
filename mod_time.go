package ember

import (
	"time"
)

// Clock is the frame clock resource. Dt is the wall time since the previous
// frame; the first frame sees zero.
type Clock struct {
	Now time.Time
	Dt  time.Duration
}

// DtSeconds returns the frame delta as float32 seconds, clamped to 100ms so
// a debugger pause or window drag cannot produce a simulation jump.
func (c *Clock) DtSeconds() float32 {
	dt := c.Dt.Seconds()
	if dt > 0.1 {
		dt = 0.1
	}
	return float32(dt)
}

type ClockModule struct{}

func (mod ClockModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Clock{Now: time.Now()})
	cmd.UseSystem(Prelude, clockSystem)
}

func clockSystem(clock *Clock) {
	now := time.Now()
	clock.Dt = now.Sub(clock.Now)
	clock.Now = now
}
