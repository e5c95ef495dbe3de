package totter

import (
	"github.com/go-gl/mathgl/mgl64"
)

// correctPositions separates a contact's bodies along the normal, split by
// inverse-mass ratio. Penetration below the slop tolerance is left in
// place so resting stacks do not jitter; deeper overlap resolves over a
// few frames instead of instantaneously.
func correctPositions(c *Contact, slop float64) {
	depth := c.Depth - slop
	if depth <= 0 {
		return
	}

	invA := c.A.invMass
	invB := 0.0
	if c.B != nil {
		invB = c.B.invMass
	}
	total := invA + invB
	if total <= 0 {
		return
	}

	correction := c.Normal.Mul(depth / total)
	if invA > 0 {
		c.A.tr.Position = c.A.tr.Position.Add(correction.Mul(invA))
		c.A.refresh()
	}
	if c.B != nil && invB > 0 {
		c.B.tr.Position = c.B.tr.Position.Sub(correction.Mul(invB))
		c.B.refresh()
	}
}

// resolveContact applies the sequential-impulse response for one contact:
// a normal impulse with restitution, then a Coulomb-clamped friction
// impulse along the tangent, both with angular coupling at the contact
// point. restingCutoff is the approach speed below which restitution is
// zeroed, keeping resting contacts from micro-bouncing forever. A nil B is
// the floor: infinite mass, zero velocity.
func resolveContact(c *Contact, restingCutoff float64) {
	a := c.A

	rA := c.Point.Sub(a.tr.Position)
	wA := mgl64.DegToRad(a.rb.AngularVelocity)
	velA := a.rb.Velocity.Add(perp(rA).Mul(wA))

	var rB, velB mgl64.Vec2
	invMassB, invInertiaB := 0.0, 0.0
	if c.B != nil {
		rB = c.Point.Sub(c.B.tr.Position)
		wB := mgl64.DegToRad(c.B.rb.AngularVelocity)
		velB = c.B.rb.Velocity.Add(perp(rB).Mul(wB))
		invMassB = c.B.invMass
		invInertiaB = c.B.invInertia
	}

	rel := velA.Sub(velB)
	vn := rel.Dot(c.Normal)
	if vn > 0 {
		// Already separating; contacts never pull.
		return
	}

	rAn := cross2(rA, c.Normal)
	rBn := cross2(rB, c.Normal)
	effMass := a.invMass + invMassB + rAn*rAn*a.invInertia + rBn*rBn*invInertiaB
	if effMass <= 0 {
		return
	}

	e := min(a.rb.Restitution, c.restitutionB)
	if -vn < restingCutoff {
		e = 0
	}

	j := -(1 + e) * vn / effMass
	applyImpulse(c, c.Normal.Mul(j), rA, rB)

	// Friction along the tangent, recomputed against the post-impulse
	// velocities (Gauss-Seidel within the contact).
	velA = a.rb.Velocity.Add(perp(rA).Mul(mgl64.DegToRad(a.rb.AngularVelocity)))
	velB = mgl64.Vec2{}
	if c.B != nil {
		velB = c.B.rb.Velocity.Add(perp(rB).Mul(mgl64.DegToRad(c.B.rb.AngularVelocity)))
	}
	rel = velA.Sub(velB)

	tangent := perp(c.Normal)
	vt := rel.Dot(tangent)

	rAt := cross2(rA, tangent)
	rBt := cross2(rB, tangent)
	effMassT := a.invMass + invMassB + rAt*rAt*a.invInertia + rBt*rBt*invInertiaB
	if effMassT <= 0 {
		return
	}

	jt := -vt / effMassT
	maxFriction := j * (a.rb.Friction + c.frictionB) / 2.0
	if jt > maxFriction {
		jt = maxFriction
	} else if jt < -maxFriction {
		jt = -maxFriction
	}
	applyImpulse(c, tangent.Mul(jt), rA, rB)
}

// applyImpulse adds the impulse to body A and subtracts it from body B,
// with the angular terms converted back to degrees per second.
func applyImpulse(c *Contact, impulse, rA, rB mgl64.Vec2) {
	a := c.A
	if a.invMass > 0 {
		a.rb.Velocity = a.rb.Velocity.Add(impulse.Mul(a.invMass))
		a.rb.AngularVelocity += mgl64.RadToDeg(cross2(rA, impulse) * a.invInertia)
	}
	if c.B != nil && c.B.invMass > 0 {
		c.B.rb.Velocity = c.B.rb.Velocity.Sub(impulse.Mul(c.B.invMass))
		c.B.rb.AngularVelocity -= mgl64.RadToDeg(cross2(rB, impulse) * c.B.invInertia)
	}
}
