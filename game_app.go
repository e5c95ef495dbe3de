package totter

import (
	"time"
)

// GameConfig assembles a complete stacking-game app. Zero values give a
// windowed 800x600 game with default tuning and a wall-clock driven,
// time-seeded run.
type GameConfig struct {
	Width  float64
	Height float64
	Title  string

	// Seed makes the run reproducible; zero seeds from the clock.
	Seed int64
	// FixedDt pins the frame delta for deterministic stepping; zero uses
	// wall-clock time.
	FixedDt time.Duration

	// Tuning overrides the solver and game constants directly; when nil,
	// TuningPath is loaded (missing file falls back to defaults).
	Tuning     *Tuning
	TuningPath string

	// Headless skips the platform window. The host then pushes input events
	// and pumps Step itself.
	Headless bool
	Debug    bool
}

// NewGameApp wires every engine module into a runnable app. The only error
// source is a malformed tuning file.
func NewGameApp(cfg GameConfig) (*App, error) {
	tuning := cfg.Tuning
	if tuning == nil {
		var err error
		tuning, err = LoadTuning(cfg.TuningPath)
		if err != nil {
			return nil, err
		}
	}

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}

	builder := NewAppBuilder().
		UseStates(StateTitle, StateQuit).
		UseModule(
			LoggingModule{Prefix: "totter", Debug: cfg.Debug},
			TimeModule{Fixed: cfg.FixedDt},
			InputModule{},
			WorldModule{Width: width, Height: height},
			AssetServerModule{},
			PhysicsModule{Tuning: tuning},
			GameModule{Tuning: tuning, Seed: cfg.Seed},
			SnapshotModule{},
		)

	if !cfg.Headless {
		builder.UseModule(PlatformWindowModule{
			Width:  int(width),
			Height: int(height),
			Title:  cfg.Title,
		})
	}

	return builder.Build(), nil
}
