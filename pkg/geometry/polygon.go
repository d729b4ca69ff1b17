package geometry

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Ray from p going right crosses edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// ArcPoints samples n+1 points along a circular arc. Angles are in degrees,
// counter-clockwise from +X as seen on a y-down surface, so the point at
// angle a is center + r*(cos a, -sin a).
func ArcPoints(center Point2D, radius, startDeg, spanDeg float64, n int) []Point2D {
	if n < 1 {
		n = 1
	}
	points := make([]Point2D, n+1)
	for i := 0; i <= n; i++ {
		a := startDeg + spanDeg*float64(i)/float64(n)
		points[i] = center.Add(Polar(a).FlipY().Scale(radius))
	}
	return points
}
