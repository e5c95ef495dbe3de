package totter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ReflectsFrame(t *testing.T) {
	app, err := NewGameApp(GameConfig{
		Width:    800,
		Height:   600,
		Seed:     7,
		FixedDt:  time.Second / 60,
		Headless: true,
	})
	require.NoError(t, err)

	var snap *RenderSnapshot
	var input *Input
	app.UseSystem(System(func(s *RenderSnapshot, in *Input) {
		snap, input = s, in
	}).InStage(Prelude).RunAlways())

	app.Start()
	app.Step()
	require.NotNil(t, snap)

	assert.Equal(t, StateTitle, snap.State)
	assert.Empty(t, snap.Bodies)
	assert.Equal(t, 800.0, snap.Viewport.Width)
	assert.Equal(t, 600.0-DefaultTuning().FloorMargin, snap.FloorY)

	input.PushKeyDown(KeySpace)
	app.Step()
	input.PushKeyUp(KeySpace)
	app.Step()
	require.Equal(t, StateAiming, app.State())

	require.Len(t, snap.Bodies, 1, "The held animal shows up in the frame output.")
	body := snap.Bodies[0]
	assert.NotEmpty(t, body.Polygons)
	assert.False(t, body.Ghost)

	// World-space polygons: the spawn position is baked into the vertices.
	minV, maxV := boundsOf(body.Polygons)
	assert.Greater(t, maxV.X(), 350.0)
	assert.Less(t, minV.X(), 450.0)
}

func TestSnapshot_FloorSpanMatchesDifficulty(t *testing.T) {
	app, err := NewGameApp(GameConfig{
		Width:    800,
		Height:   600,
		Seed:     7,
		FixedDt:  time.Second / 60,
		Headless: true,
	})
	require.NoError(t, err)

	var snap *RenderSnapshot
	var input *Input
	app.UseSystem(System(func(s *RenderSnapshot, in *Input) {
		snap, input = s, in
	}).InStage(Prelude).RunAlways())

	app.Start()
	app.Step()

	input.PushKeyDown(Key3)
	app.Step()
	input.PushKeyUp(Key3)
	app.Step()

	assert.InDelta(t, 0.3*800, snap.FloorRight-snap.FloorLeft, 1e-9)
	assert.Equal(t, DifficultyHard, snap.Difficulty)
}
