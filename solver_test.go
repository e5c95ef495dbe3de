package totter

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

// centeredFloorContact builds a floor contact through the body's center of
// mass, so neither the normal nor the friction impulse has an angular
// component and the response is easy to reason about.
func centeredFloorContact(b *bodyState, frictionB float64) Contact {
	return Contact{
		A:            b,
		Normal:       mgl64.Vec2{0, -1},
		Depth:        0.5,
		Point:        b.tr.Position,
		frictionB:    frictionB,
		restitutionB: b.rb.Restitution,
	}
}

func TestResolveContact_Restitution(t *testing.T) {
	body := makeBody(1, mgl64.Vec2{100, 100}, []Polygon{square(1)}, false)
	body.rb.Velocity = mgl64.Vec2{0, 10}
	body.rb.Restitution = 0.5
	body.rb.Friction = 0

	c := centeredFloorContact(body, 0)
	resolveContact(&c, 0.01)

	assert.InDelta(t, -5, body.rb.Velocity.Y(), 1e-9, "A 0.5 restitution bounce reflects half the approach speed.")
	assert.InDelta(t, 0, body.rb.Velocity.X(), 1e-9)
	assert.InDelta(t, 0, body.rb.AngularVelocity, 1e-9)
}

func TestResolveContact_RestingCutoffKillsBounce(t *testing.T) {
	body := makeBody(1, mgl64.Vec2{100, 100}, []Polygon{square(1)}, false)
	body.rb.Velocity = mgl64.Vec2{0, 10}
	body.rb.Restitution = 0.5
	body.rb.Friction = 0

	c := centeredFloorContact(body, 0)
	resolveContact(&c, 20)

	assert.InDelta(t, 0, body.rb.Velocity.Y(), 1e-9, "Below the resting cutoff the impact is fully inelastic.")
}

func TestResolveContact_SeparatingContactIgnored(t *testing.T) {
	body := makeBody(1, mgl64.Vec2{100, 100}, []Polygon{square(1)}, false)
	body.rb.Velocity = mgl64.Vec2{0, -10} // moving up, away from the floor

	c := centeredFloorContact(body, 0)
	resolveContact(&c, 0.01)

	assert.Equal(t, mgl64.Vec2{0, -10}, body.rb.Velocity, "Separating contacts never receive impulses.")
}

func TestResolveContact_FrictionClamp(t *testing.T) {
	body := makeBody(1, mgl64.Vec2{100, 100}, []Polygon{square(1)}, false)
	body.rb.Velocity = mgl64.Vec2{10, 5}
	body.rb.Restitution = 0
	body.rb.Friction = 1.0

	c := centeredFloorContact(body, 1.0)
	resolveContact(&c, 0.01)

	// Normal impulse j=5 kills the vertical speed; Coulomb limit j*mu=5
	// removes at most 5 of the 10 lateral speed.
	assert.InDelta(t, 0, body.rb.Velocity.Y(), 1e-9)
	assert.InDelta(t, 5, body.rb.Velocity.X(), 1e-9)
}

func TestResolveContact_LowFrictionSlides(t *testing.T) {
	body := makeBody(1, mgl64.Vec2{100, 100}, []Polygon{square(1)}, false)
	body.rb.Velocity = mgl64.Vec2{10, 5}
	body.rb.Restitution = 0
	body.rb.Friction = 0.1

	c := centeredFloorContact(body, 0.1)
	resolveContact(&c, 0.01)

	// Friction averages to 0.1: only j*0.1 = 0.5 of lateral speed is lost.
	assert.InDelta(t, 9.5, body.rb.Velocity.X(), 1e-9)
}

func TestCorrectPositions_SplitsByMass(t *testing.T) {
	a := makeBody(1, mgl64.Vec2{0, 0}, []Polygon{square(1)}, false)
	b := makeBody(2, mgl64.Vec2{1, 0}, []Polygon{square(1)}, false)

	c := Contact{A: a, B: b, Normal: mgl64.Vec2{-1, 0}, Depth: 1.0}
	correctPositions(&c, 0.2)

	// Equal masses: each side takes half of the 0.8 over-slop depth.
	assert.InDelta(t, -0.4, a.tr.Position.X(), 1e-9)
	assert.InDelta(t, 1.4, b.tr.Position.X(), 1e-9)
}

func TestCorrectPositions_StaticTakesNothing(t *testing.T) {
	a := makeBody(1, mgl64.Vec2{0, 0}, []Polygon{square(1)}, false)
	b := makeBody(2, mgl64.Vec2{1, 0}, []Polygon{square(1)}, true)

	c := Contact{A: a, B: b, Normal: mgl64.Vec2{-1, 0}, Depth: 1.0}
	correctPositions(&c, 0.2)

	assert.InDelta(t, -0.8, a.tr.Position.X(), 1e-9, "The dynamic side absorbs the whole correction.")
	assert.InDelta(t, 1.0, b.tr.Position.X(), 1e-9)
}

func TestCorrectPositions_SlopTolerated(t *testing.T) {
	a := makeBody(1, mgl64.Vec2{0, 0}, []Polygon{square(1)}, false)

	c := Contact{A: a, Normal: mgl64.Vec2{0, -1}, Depth: 0.1}
	correctPositions(&c, 0.2)

	assert.Equal(t, mgl64.Vec2{0, 0}, a.tr.Position, "Penetration within the slop is left alone.")
}
