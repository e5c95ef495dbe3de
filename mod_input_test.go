package totter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newInputApp() (*App, *Input, *Viewport) {
	app := NewAppBuilder().
		UseModule(WorldModule{Width: 800, Height: 600}, InputModule{}).
		Build()

	var input *Input
	var vp *Viewport
	app.UseSystem(System(func(in *Input, v *Viewport) {
		input, vp = in, v
	}).InStage(Update).RunAlways())

	// WorldModule's floor system needs game resources; satisfy it.
	tuning := DefaultTuning()
	app.addResources(tuning, &GameSession{Params: tuning.Difficulties[DifficultyNormal]})

	app.Step()
	return app, input, vp
}

func TestInput_KeyEdges(t *testing.T) {
	app, input, _ := newInputApp()

	input.PushKeyDown(KeySpace)
	app.Step()
	assert.True(t, input.Pressed[KeySpace])
	assert.True(t, input.JustPressed[KeySpace])

	app.Step()
	assert.True(t, input.Pressed[KeySpace], "Held keys stay pressed.")
	assert.False(t, input.JustPressed[KeySpace], "Edges last a single frame.")

	input.PushKeyUp(KeySpace)
	app.Step()
	assert.False(t, input.Pressed[KeySpace])
	assert.True(t, input.JustReleased[KeySpace])
}

func TestInput_RepeatedDownIsNotAnEdge(t *testing.T) {
	app, input, _ := newInputApp()

	input.PushKeyDown(KeyA)
	app.Step()
	input.PushKeyDown(KeyA) // OS key repeat
	app.Step()

	assert.False(t, input.JustPressed[KeyA])
	assert.True(t, input.Pressed[KeyA])
}

func TestInput_Pointer(t *testing.T) {
	app, input, _ := newInputApp()

	input.PushPointerMove(120, 240)
	app.Step()
	assert.Equal(t, 120.0, input.MouseX)
	assert.Equal(t, 240.0, input.MouseY)

	input.PushPointerDown(MouseButtonLeft, 130, 250)
	app.Step()
	assert.True(t, input.JustPressed[MouseButtonLeft])
	assert.Equal(t, 130.0, input.MouseX, "A click also updates the pointer position.")

	input.PushPointerUp(MouseButtonLeft, 130, 250)
	app.Step()
	assert.True(t, input.JustReleased[MouseButtonLeft])
}

func TestInput_ResizeUpdatesViewport(t *testing.T) {
	app, input, vp := newInputApp()

	input.PushResize(1024, 768)
	app.Step()

	assert.Equal(t, 1024.0, vp.Width)
	assert.Equal(t, 768.0, vp.Height)
}
