// Package zone hit-tests named regions of the normalized space and turns
// pointer activity into click, double-click, enter and leave events.
package zone

import (
	"math"

	"graphfield/internal/mask"
	"graphfield/pkg/geometry"
)

// Kind tags how a zone decides containment.
type Kind int

const (
	KindNone      Kind = iota // never contains anything
	KindPredicate             // delegates to a function
	KindMask                  // looks up a boolean grid
)

func (k Kind) String() string {
	switch k {
	case KindPredicate:
		return "predicate"
	case KindMask:
		return "mask"
	default:
		return "none"
	}
}

// Predicate reports whether a normalized point lies in a zone.
type Predicate func(x, y float64) bool

// Zone is a named region. Exactly one of its variants is populated, as
// given by Kind.
type Zone struct {
	ID string

	kind      Kind
	pred      Predicate
	mask      *mask.Mask
	activated bool
}

// NewPredicate creates a zone backed by fn. A nil fn yields an empty zone.
func NewPredicate(id string, fn Predicate) *Zone {
	if fn == nil {
		return NewNull(id)
	}
	return &Zone{ID: id, kind: KindPredicate, pred: fn}
}

// NewMask creates a zone backed by m. A nil m yields an empty zone.
func NewMask(id string, m *mask.Mask) *Zone {
	if m == nil {
		return NewNull(id)
	}
	return &Zone{ID: id, kind: KindMask, mask: m}
}

// NewNull creates a zone that contains no point.
func NewNull(id string) *Zone {
	return &Zone{ID: id, kind: KindNone}
}

// Kind returns the zone variant.
func (z *Zone) Kind() Kind { return z.kind }

// Activated reports whether the pointer is currently inside the zone.
func (z *Zone) Activated() bool { return z.activated }

// Contains hit-tests a normalized point. xRange is the logical width of the
// space the mask is stretched over.
//
// The mask scale k = cols/xRange is applied to both coordinates, so masks
// whose aspect differs from the logical space are sampled with the x scale
// on y as well. Indices round to nearest, halves to even.
func (z *Zone) Contains(x, y, xRange float64) bool {
	switch z.kind {
	case KindPredicate:
		return z.pred(x, y)
	case KindMask:
		if !(xRange > 0) {
			return false
		}
		k := float64(z.mask.Cols()) / xRange
		col, row := math.RoundToEven(x*k), math.RoundToEven(y*k)
		if math.IsNaN(col) || math.IsNaN(row) || math.Abs(col) > math.MaxInt32 || math.Abs(row) > math.MaxInt32 {
			return false
		}
		return z.mask.At(int(row), int(col))
	default:
		return false
	}
}

// Rect returns a predicate matching points inside r, edges included.
func Rect(r geometry.Rect) Predicate {
	r = r.Canon()
	return func(x, y float64) bool { return r.Contains(geometry.NewPoint2D(x, y)) }
}

// Circle returns a predicate matching points within radius of center.
func Circle(center geometry.Point2D, radius float64) Predicate {
	return func(x, y float64) bool {
		return center.Distance(geometry.NewPoint2D(x, y)) <= radius
	}
}

// Polygon returns a predicate matching points inside the closed polygon.
func Polygon(pts []geometry.Point2D) Predicate {
	pts = append([]geometry.Point2D(nil), pts...)
	bounds := geometry.BoundingBox(pts)
	return func(x, y float64) bool {
		p := geometry.NewPoint2D(x, y)
		return bounds.Contains(p) && geometry.PointInPolygon(p, pts)
	}
}
