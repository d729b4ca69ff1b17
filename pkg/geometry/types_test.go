package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-9

func assertPoint(t *testing.T, want, got Point2D) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
}

func TestPointArithmetic(t *testing.T) {
	a := NewPoint2D(3, 4)
	b := NewPoint2D(1, -2)

	assert.Equal(t, Point2D{4, 2}, a.Add(b))
	assert.Equal(t, Point2D{2, 6}, a.Sub(b))
	assert.Equal(t, Point2D{6, 8}, a.Scale(2))
	assert.Equal(t, Point2D{-3, -4}, a.Neg())
	assert.Equal(t, -5.0, a.Dot(b))
	assert.Equal(t, 5.0, a.Length())
	assert.Equal(t, 5.0, a.Distance(Point2D{}))
}

func TestUnit(t *testing.T) {
	assertPoint(t, Point2D{0.6, 0.8}, NewPoint2D(3, 4).Unit())
	assert.Equal(t, Point2D{}, Point2D{}.Unit(), "zero vector has no direction")
}

func TestRotate(t *testing.T) {
	x := NewPoint2D(1, 0)
	assertPoint(t, Point2D{0, 1}, x.Rotate(90))
	assertPoint(t, Point2D{0, -1}, x.Rotate(-90))
	assertPoint(t, Point2D{-1, 0}, x.Rotate(180))
	assertPoint(t, Point2D{math.Cos(DegToRad(33)), math.Sin(DegToRad(33))}, x.Rotate(33))
	assertPoint(t, x, x.Rotate(45).Rotate(-45))
}

func TestPolar(t *testing.T) {
	assertPoint(t, Point2D{1, 0}, Polar(0))
	assertPoint(t, Point2D{0, 1}, Polar(90))
	assertPoint(t, Point2D{math.Sqrt(3) / 2, -0.5}, Polar(-30))
}

func TestRound(t *testing.T) {
	assert.Equal(t, Point2D{2, -3}, NewPoint2D(1.6, -2.5).Round())
	assert.Equal(t, Point2D{0, 0}, NewPoint2D(0.49, -0.49).Round())
}

func TestRectCanon(t *testing.T) {
	r := RectFromPoints(NewPoint2D(110, 60), NewPoint2D(10, 10))
	assert.Equal(t, Rect{X: 110, Y: 60, Width: -100, Height: -50}, r)
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 100, Height: 50}, r.Canon())
	assert.True(t, r.Canon().Contains(NewPoint2D(50, 30)))
	assert.Equal(t, Point2D{60, 35}, r.Canon().Center())
}

func TestRectCenteredAt(t *testing.T) {
	r := RectCenteredAt(NewPoint2D(50, 50), 20, 10)
	assert.Equal(t, Rect{X: 40, Y: 45, Width: 20, Height: 10}, r)
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.True(t, PointInPolygon(NewPoint2D(5, 5), square))
	assert.False(t, PointInPolygon(NewPoint2D(15, 5), square))
	assert.False(t, PointInPolygon(NewPoint2D(5, 5), square[:2]))
}

func TestArcPoints(t *testing.T) {
	pts := ArcPoints(NewPoint2D(10, 10), 5, 0, 90, 2)
	assert.Len(t, pts, 3)
	assertPoint(t, Point2D{15, 10}, pts[0])
	assertPoint(t, Point2D{10, 5}, pts[2]) // 90 degrees is up on a y-down surface
}

func TestBoundingBox(t *testing.T) {
	assert.Equal(t, Rect{}, BoundingBox(nil))
	bb := BoundingBox([]Point2D{{1, 5}, {-2, 3}, {4, -1}})
	assert.Equal(t, Rect{X: -2, Y: -1, Width: 6, Height: 6}, bb)
}
