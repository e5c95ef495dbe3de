package totter

import (
	"cmp"
	"slices"
)

// BodySnapshot is one drawable body: its polygons already transformed to
// world space plus its tint. Ghost marks a board still following the
// pointer.
type BodySnapshot struct {
	Entity   EntityId
	Polygons []Polygon
	Color    Color
	Ghost    bool
}

// RenderSnapshot is the engine's frame output. It is rebuilt at the end of
// every frame and is all a renderer needs; the engine itself never draws.
type RenderSnapshot struct {
	State      State
	Score      int
	Difficulty DifficultyLevel

	AimTimeLeft   float64
	BoardTimeLeft float64

	FloorY     float64
	FloorLeft  float64
	FloorRight float64

	Viewport Viewport

	Bodies []BodySnapshot
}

// SnapshotModule publishes the RenderSnapshot resource and the system that
// fills it in the Finale stage, after all simulation for the frame is
// done.
type SnapshotModule struct{}

func (m SnapshotModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&RenderSnapshot{})
	app.UseSystem(
		System(snapshotSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func snapshotSystem(cmd *Commands, snap *RenderSnapshot, session *GameSession, floor *Floor, vp *Viewport) {
	snap.State = cmd.CurrentState()
	snap.Score = session.Score
	snap.Difficulty = session.Difficulty
	snap.AimTimeLeft = session.AimTimeLeft
	snap.BoardTimeLeft = session.BoardTimeLeft
	snap.FloorY = floor.Y
	snap.FloorLeft, snap.FloorRight = floor.Span()
	snap.Viewport = *vp

	snap.Bodies = snap.Bodies[:0]
	MakeQuery3[TransformComponent, ColliderComponent, ColorComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, col *ColliderComponent, color *ColorComponent) bool {
		body := BodySnapshot{
			Entity: eid,
			Color:  color.Color,
			Ghost:  ComponentOf[PlacingComponent](cmd, eid) != nil,
		}
		for _, shape := range col.Shapes {
			body.Polygons = append(body.Polygons, shape.Transformed(tr.Position, tr.Rotation))
		}
		snap.Bodies = append(snap.Bodies, body)
		return true
	})

	// Map iteration order is random; keep draw order stable.
	slices.SortFunc(snap.Bodies, func(a, b BodySnapshot) int {
		return cmp.Compare(a.Entity, b.Entity)
	})
}
