// Package paint defines the drawing surface the viewer core paints onto, plus
// an image-backed implementation and a recording one.
package paint

import (
	"image"
	"image/color"

	"graphfield/pkg/geometry"
)

// Pen is the stroke used by lines, arcs and polygon outlines.
type Pen struct {
	Color color.Color
	Width float64
}

// Font selects the text face. Size is in pixels.
type Font struct {
	Size float64
	Bold bool
}

// Surface is the canvas-surface capability consumed by the arrow and axes
// renderers. Coordinates are pixels on a y-down surface.
type Surface interface {
	// FillRect fills r with c, ignoring the pen.
	FillRect(r geometry.Rect, c color.Color)

	// DrawImage scales img into r.
	DrawImage(r geometry.Rect, img image.Image)

	// DrawLine strokes a straight segment with the current pen.
	DrawLine(a, b geometry.Point2D)

	// DrawArc strokes a circular arc of the given diameter centred on
	// center. Angles are degrees, counter-clockwise from 3 o'clock, and a
	// negative span runs clockwise.
	DrawArc(center geometry.Point2D, diameter, startDeg, spanDeg float64)

	// FillPolygon fills the closed path through pts with the current brush
	// and strokes its outline with the current pen.
	FillPolygon(pts []geometry.Point2D)

	// DrawText draws text centred inside box with the current font and pen color.
	DrawText(box geometry.Rect, text string)

	SetPen(p Pen)
	Pen() Pen
	SetBrush(c color.Color)
	Brush() color.Color
	SetFont(f Font)
	Font() Font

	// Size returns the surface extent in pixels.
	Size() geometry.Size
}

// DefaultPen is the pen a fresh surface starts with.
var DefaultPen = Pen{Color: color.Black, Width: 1}

// DefaultFont is the font a fresh surface starts with.
var DefaultFont = Font{Size: 12}
