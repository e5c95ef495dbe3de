package totter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Polygon is a convex polygon as an ordered vertex list. Body shapes are
// expressed in local space, centered on the body's center of mass; Transformed
// moves them into world space.
type Polygon []mgl64.Vec2

// cross2 is the scalar 2D cross product a.x*b.y - a.y*b.x.
func cross2(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// perp rotates v by 90 degrees counter-clockwise.
func perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// Transformed returns the polygon rotated by rotation degrees about the
// local origin and translated to pos. A fresh slice is returned every call;
// world vertices are never cached across transform changes.
func (p Polygon) Transformed(pos mgl64.Vec2, rotationDeg float64) Polygon {
	rad := mgl64.DegToRad(rotationDeg)
	cos, sin := math.Cos(rad), math.Sin(rad)

	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = mgl64.Vec2{
			cos*v.X() - sin*v.Y() + pos.X(),
			sin*v.X() + cos*v.Y() + pos.Y(),
		}
	}
	return out
}

// Support returns the vertex farthest along dir.
func (p Polygon) Support(dir mgl64.Vec2) mgl64.Vec2 {
	best := p[0]
	bestDot := best.Dot(dir)
	for _, v := range p[1:] {
		if d := v.Dot(dir); d > bestDot {
			best = v
			bestDot = d
		}
	}
	return best
}

// Contains reports whether pt lies inside the polygon, using the
// ray-crossing parity test.
func (p Polygon) Contains(pt mgl64.Vec2) bool {
	inside := false
	j := len(p) - 1
	for i := 0; i < len(p); i++ {
		pi, pj := p[i], p[j]
		if (pi.Y() > pt.Y()) != (pj.Y() > pt.Y()) {
			xCross := pi.X() + (pt.Y()-pi.Y())/(pj.Y()-pi.Y())*(pj.X()-pi.X())
			if pt.X() < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// project returns the interval covered by the polygon's vertices along axis.
func (p Polygon) project(axis mgl64.Vec2) (min, max float64) {
	min = p[0].Dot(axis)
	max = min
	for _, v := range p[1:] {
		d := v.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// center returns the vertex average, used to orient contact normals.
func (p Polygon) center() mgl64.Vec2 {
	var sum mgl64.Vec2
	for _, v := range p {
		sum = sum.Add(v)
	}
	return sum.Mul(1.0 / float64(len(p)))
}

// boundsOf returns the axis-aligned bounding box of a set of polygons.
func boundsOf(polys []Polygon) (min, max mgl64.Vec2) {
	min = polys[0][0]
	max = min
	for _, poly := range polys {
		for _, v := range poly {
			if v.X() < min[0] {
				min[0] = v.X()
			}
			if v.Y() < min[1] {
				min[1] = v.Y()
			}
			if v.X() > max[0] {
				max[0] = v.X()
			}
			if v.Y() > max[1] {
				max[1] = v.Y()
			}
		}
	}
	return min, max
}
