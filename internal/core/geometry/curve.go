// Package geometry provides the curve math used to animate flight markers.
// All math is planar, in the coordinate system's native units; no geodesic
// correction is applied. That is a known limitation, acceptable at the zoom
// levels the animation runs at.
package geometry

import (
	"math"

	geo "github.com/paulmach/go.geo"
)

// ControlPoint returns the control point of a quadratic curve bowed away
// from the start-end chord. The point sits at the chord midpoint, offset
// perpendicular to the chord by curvature times the chord length, so that
// overlapping routes stay visually distinguishable.
func ControlPoint(start, end *geo.Point, curvature float64) *geo.Point {
	dist := start.DistanceFrom(end)
	midX := (start.X() + end.X()) / 2
	midY := (start.Y() + end.Y()) / 2
	if dist == 0 {
		return geo.NewPoint(midX, midY)
	}

	// Unit vector perpendicular to the chord.
	px := -(end.Y() - start.Y()) / dist
	py := (end.X() - start.X()) / dist

	offset := curvature * dist
	return geo.NewPoint(midX+px*offset, midY+py*offset)
}

// PointAt evaluates the quadratic Bezier curve defined by p0, p1, p2 at the
// parametric offset t. Callers clamp t to [0,1].
func PointAt(t float64, p0, p1, p2 *geo.Point) *geo.Point {
	u := 1 - t
	x := u*u*p0.X() + 2*u*t*p1.X() + t*t*p2.X()
	y := u*u*p0.Y() + 2*u*t*p1.Y() + t*t*p2.Y()
	return geo.NewPoint(x, y)
}

// TangentAt returns the derivative of the quadratic curve at t, pointing in
// the direction of travel.
func TangentAt(t float64, p0, p1, p2 *geo.Point) *geo.Point {
	u := 1 - t
	x := 2*u*(p1.X()-p0.X()) + 2*t*(p2.X()-p1.X())
	y := 2*u*(p1.Y()-p0.Y()) + 2*t*(p2.Y()-p1.Y())
	return geo.NewPoint(x, y)
}

// BearingAt returns the marker rotation at t, in degrees counterclockwise
// from the positive x axis.
func BearingAt(t float64, p0, p1, p2 *geo.Point) float64 {
	tangent := TangentAt(t, p0, p1, p2)
	return math.Atan2(tangent.Y(), tangent.X()) * 180 / math.Pi
}
