package totter

import (
	"github.com/go-gl/mathgl/mgl64"
)

// bodyState is the solver's per-frame view of one entity. It caches the
// component pointers, the derived inverse mass/inertia and the world-space
// shapes; refresh recomputes the world geometry after any transform change.
type bodyState struct {
	eid EntityId
	tr  *TransformComponent
	rb  *RigidBodyComponent
	col *ColliderComponent

	world      []Polygon
	aabbMin    mgl64.Vec2
	aabbMax    mgl64.Vec2
	invMass    float64
	invInertia float64
}

func newBodyState(eid EntityId, tr *TransformComponent, rb *RigidBodyComponent, col *ColliderComponent) *bodyState {
	b := &bodyState{
		eid:     eid,
		tr:      tr,
		rb:      rb,
		col:     col,
		invMass: rb.InverseMass(),
	}
	if !rb.IsStatic {
		if inertia := col.MomentOfInertia(rb.Mass); inertia > 0 {
			b.invInertia = 1.0 / inertia
		}
	}
	b.refresh()
	return b
}

func (b *bodyState) refresh() {
	if cap(b.world) < len(b.col.Shapes) {
		b.world = make([]Polygon, 0, len(b.col.Shapes))
	}
	b.world = b.world[:0]
	for _, shape := range b.col.Shapes {
		b.world = append(b.world, shape.Transformed(b.tr.Position, b.tr.Rotation))
	}
	b.aabbMin, b.aabbMax = boundsOf(b.world)
}

// Contact is one detected overlap, consumed immediately by the solver.
// Normal points from body B toward body A; B is nil for floor contacts
// (immovable half-plane).
type Contact struct {
	A, B   *bodyState
	Normal mgl64.Vec2
	Depth  float64
	Point  mgl64.Vec2

	// Material of the B side, so floor contacts can carry the floor's
	// friction without a body behind it.
	frictionB    float64
	restitutionB float64
}

// satPolygons runs the separating axis test over two world-space convex
// polygons. Candidate axes are the outward edge normals of both polygons;
// if every axis overlaps, the axis with the smallest overlap is the
// minimum-translation axis. The returned normal is oriented from b toward a.
func satPolygons(a, b Polygon) (normal mgl64.Vec2, depth float64, ok bool) {
	depth = 0
	first := true

	testAxes := func(poly Polygon) bool {
		n := len(poly)
		for i := 0; i < n; i++ {
			edge := poly[(i+1)%n].Sub(poly[i])
			axis := perp(edge)
			if axis.Len() == 0 {
				continue
			}
			axis = axis.Normalize()

			minA, maxA := a.project(axis)
			minB, maxB := b.project(axis)
			overlap := min(maxA, maxB) - max(minA, minB)
			if overlap <= 0 {
				return false
			}
			if first || overlap < depth {
				depth = overlap
				normal = axis
				first = false
			}
		}
		return true
	}

	if !testAxes(a) || !testAxes(b) {
		return mgl64.Vec2{}, 0, false
	}

	// Orient so the normal pushes a away from b.
	if normal.Dot(a.center().Sub(b.center())) < 0 {
		normal = normal.Mul(-1)
	}
	return normal, depth, true
}

// collideBodies tests two composite bodies. Every sub-shape pair is tested
// and the pair with the largest penetration is kept as the single contact
// manifold for the body pair.
func collideBodies(a, b *bodyState) (Contact, bool) {
	var best Contact
	found := false

	for _, pa := range a.world {
		for _, pb := range b.world {
			normal, depth, ok := satPolygons(pa, pb)
			if !ok {
				continue
			}
			if !found || depth > best.Depth {
				best = Contact{
					A:            a,
					B:            b,
					Normal:       normal,
					Depth:        depth,
					Point:        contactPoint(pa, pb, normal),
					frictionB:    b.rb.Friction,
					restitutionB: b.rb.Restitution,
				}
				found = true
			}
		}
	}
	return best, found
}

// contactPoint estimates a single contact point: the support vertex of a
// opposite the normal, or of b along the normal, whichever lies inside the
// other polygon. When neither does (edge/edge contact) their midpoint is a
// reasonable approximation.
func contactPoint(a, b Polygon, normal mgl64.Vec2) mgl64.Vec2 {
	supA := a.Support(normal.Mul(-1))
	supB := b.Support(normal)

	if b.Contains(supA) {
		return supA
	}
	if a.Contains(supB) {
		return supB
	}
	return supA.Add(supB).Mul(0.5)
}

// collideFloor tests a dynamic body against the floor segment: a vertex
// collides when it lies laterally within the floor span and below floor
// height. The deepest such vertex is the contact point; the normal is
// always straight up.
func collideFloor(b *bodyState, floor *Floor) (Contact, bool) {
	left, right := floor.Span()

	var best Contact
	found := false

	for _, poly := range b.world {
		for _, v := range poly {
			if v.X() < left || v.X() > right {
				continue
			}
			depth := v.Y() - floor.Y
			if depth <= 0 {
				continue
			}
			if !found || depth > best.Depth {
				best = Contact{
					A:            b,
					Normal:       mgl64.Vec2{0, -1},
					Depth:        depth,
					Point:        v,
					frictionB:    floor.Friction,
					restitutionB: b.rb.Restitution,
				}
				found = true
			}
		}
	}
	return best, found
}
