package totter

import (
	"github.com/go-gl/mathgl/mgl64"
)

// TransformComponent places a body in world space. Rotation is in degrees,
// applied about Position (the center of mass).
type TransformComponent struct {
	Position mgl64.Vec2
	Rotation float64
}

// RigidBodyComponent carries the kinematic and material state of a body.
// Angular velocity is in degrees per second. Static bodies never integrate
// and never receive positional or velocity correction; collision code
// branches on IsStatic only, never on what kind of entity owns the body.
type RigidBodyComponent struct {
	Velocity        mgl64.Vec2
	AngularVelocity float64
	Mass            float64
	Restitution     float64
	Friction        float64
	IsStatic        bool

	// Floor-contact bookkeeping. TouchingFloor is recomputed every physics
	// step; FloorContactTime accumulates while contact is continuous and
	// drives the restitution decay.
	TouchingFloor    bool
	FloorContactTime float64
}

// InverseMass is zero for static or massless bodies, making them immovable
// in every mass-ratio split.
func (rb *RigidBodyComponent) InverseMass() float64 {
	if rb.IsStatic || rb.Mass <= 0 {
		return 0
	}
	return 1.0 / rb.Mass
}

// ColliderComponent is the body's collision silhouette: one or more convex
// polygons in local space sharing the body's center of mass and rotation.
// The union need not be convex. Shapes must not be empty and each polygon
// needs at least three vertices.
type ColliderComponent struct {
	Shapes []Polygon
}

// BoundingSize returns the width and height of the union bounding box of
// the local shapes.
func (col *ColliderComponent) BoundingSize() (w, h float64) {
	min, max := boundsOf(col.Shapes)
	return max.X() - min.X(), max.Y() - min.Y()
}

// MomentOfInertia approximates the body's moment of inertia with the
// rectangle formula over the union bounding box: m*(w²+h²)/12. Not exact
// polygon inertia, but stable and cheap.
func (col *ColliderComponent) MomentOfInertia(mass float64) float64 {
	w, h := col.BoundingSize()
	return mass * (w*w + h*h) / 12.0
}

// PhysicsWorld holds the solver tuning shared by every step.
type PhysicsWorld struct {
	// Gravity is the downward (+y, screen space) acceleration in units/s².
	Gravity float64
	// Iterations is the number of Gauss-Seidel detect/resolve passes per
	// frame.
	Iterations int
	// Slop is the penetration depth below which no positional correction is
	// applied, preventing resolution jitter.
	Slop float64
	// RestitutionDecayTime is the continuous floor-contact time after which
	// a body's restitution is forced to zero for good.
	RestitutionDecayTime float64
	// RestingVelFactor scales gravity*dt into the approach-speed cutoff
	// below which restitution is ignored (suppresses resting-contact
	// micro-bounce).
	RestingVelFactor float64
}

func NewPhysicsWorld(tuning *Tuning) *PhysicsWorld {
	return &PhysicsWorld{
		Gravity:              tuning.Gravity,
		Iterations:           tuning.SolverIterations,
		Slop:                 tuning.PenetrationSlop,
		RestitutionDecayTime: tuning.RestitutionDecayTime,
		RestingVelFactor:     tuning.RestingVelFactor,
	}
}
