package view

import (
	"slices"

	"graphfield/internal/paint"
	"graphfield/pkg/geometry"
)

// GraphicObject is a visual placed at a normalized position that follows the
// view transform.
type GraphicObject interface {
	// Anchor is the normalized position of the object.
	Anchor() geometry.Point2D
	// Centered reports whether the footprint is centred on the anchor rather
	// than hanging from it by its top-left corner.
	Centered() bool
	// SizePx computes the pixel footprint for the current transform.
	SizePx(v *View) geometry.Size
	// Place receives the pixel bounds computed by the view.
	Place(bounds geometry.Rect)
	// Paint draws the object onto s.
	Paint(s paint.Surface)
}

// Object is embeddable bookkeeping for GraphicObject implementations.
type Object struct {
	X, Y   float64
	Center bool
	bounds geometry.Rect
}

// Anchor implements GraphicObject.
func (o *Object) Anchor() geometry.Point2D { return geometry.NewPoint2D(o.X, o.Y) }

// Centered implements GraphicObject.
func (o *Object) Centered() bool { return o.Center }

// SetAnchor implements Movable.
func (o *Object) SetAnchor(x, y float64) { o.X, o.Y = x, y }

// Place implements GraphicObject.
func (o *Object) Place(bounds geometry.Rect) { o.bounds = bounds }

// Bounds returns the last pixel bounds assigned by the view.
func (o *Object) Bounds() geometry.Rect { return o.bounds }

// Movable is a GraphicObject whose anchor can be changed.
type Movable interface {
	GraphicObject
	SetAnchor(x, y float64)
}

// MoveTo sets the normalized anchor of o and places it again.
func (v *View) MoveTo(o Movable, x, y float64) {
	o.SetAnchor(x, y)
	v.place(o)
	v.RequestRepaint()
}

// AddObject registers o and places it immediately.
func (v *View) AddObject(o GraphicObject) {
	v.objects = append(v.objects, o)
	v.place(o)
	v.RequestRepaint()
}

// RemoveObject unregisters o. Unknown objects are ignored.
func (v *View) RemoveObject(o GraphicObject) {
	if i := slices.Index(v.objects, o); i >= 0 {
		v.objects = slices.Delete(v.objects, i, i+1)
		v.RequestRepaint()
	}
}

// Objects returns the registered objects in registration order.
func (v *View) Objects() []GraphicObject {
	return slices.Clone(v.objects)
}

// PaintObjects paints every registered object in registration order.
func (v *View) PaintObjects(s paint.Surface) {
	for _, o := range v.objects {
		o.Paint(s)
	}
}

// Reposition recomputes every object's bounds without notifying listeners.
func (v *View) Reposition() {
	for _, o := range v.objects {
		v.place(o)
	}
}

func (v *View) place(o GraphicObject) {
	a := o.Anchor()
	p := v.NormToPixelCoord(a.X, a.Y)
	size := o.SizePx(v)
	if o.Centered() {
		o.Place(geometry.RectCenteredAt(p, size.Width, size.Height))
		return
	}
	o.Place(geometry.NewRect(p.X, p.Y, size.Width, size.Height))
}
