package totter

import (
	"time"
)

// Time is the per-frame clock resource. Dt is the wall-clock time elapsed
// since the previous frame, unless Fixed is set, in which case every frame
// advances by exactly Fixed (deterministic stepping for headless hosts and
// tests).
type Time struct {
	Time  time.Time
	Dt    time.Duration
	Fixed time.Duration
}

// Seconds returns the frame delta in seconds, capped to avoid spiral-of-
// death integration after a stall.
func (t *Time) Seconds() float64 {
	const maxDt = 0.25
	dt := t.Dt.Seconds()
	if dt > maxDt {
		return maxDt
	}
	return dt
}

type TimeModule struct {
	// Fixed pins the frame delta; zero means wall-clock time.
	Fixed time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time:  time.Now(),
		Dt:    0,
		Fixed: mod.Fixed,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(timeResource *Time) {
	if timeResource.Fixed > 0 {
		timeResource.Dt = timeResource.Fixed
		timeResource.Time = timeResource.Time.Add(timeResource.Fixed)
		return
	}

	now := time.Now()
	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
