package totter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_Set(t *testing.T) {
	vp := &Viewport{}
	vp.Set(800, 600)
	assert.Equal(t, 800.0, vp.Width)
	assert.Equal(t, 600.0, vp.Height)

	vp.Set(0, -5)
	assert.Equal(t, 1.0, vp.Width, "Dimensions clamp to a minimum of 1.")
	assert.Equal(t, 1.0, vp.Height)
}

func TestFloor_Apply(t *testing.T) {
	vp := &Viewport{Width: 800, Height: 600}
	tuning := DefaultTuning()
	params := tuning.Difficulties[DifficultyHard]

	floor := &Floor{}
	floor.Apply(vp, &params, tuning)

	assert.Equal(t, 0.3*800, floor.Width)
	assert.Equal(t, params.FloorFriction, floor.Friction)
	assert.Equal(t, 600-tuning.FloorMargin, floor.Y)

	left, right := floor.Span()
	assert.Equal(t, 400-120.0, left, "The floor is centered in the viewport.")
	assert.Equal(t, 400+120.0, right)
}

func TestFloor_TracksResize(t *testing.T) {
	vp := &Viewport{Width: 800, Height: 600}
	tuning := DefaultTuning()
	params := tuning.Difficulties[DifficultyNormal]

	floor := &Floor{}
	floor.Apply(vp, &params, tuning)
	assert.Equal(t, 400.0, floor.Width)

	vp.Set(1000, 500)
	floor.Apply(vp, &params, tuning)
	assert.Equal(t, 500.0, floor.Width)
	assert.Equal(t, 500-tuning.FloorMargin, floor.Y)
}
