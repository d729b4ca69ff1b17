package app

import (
	"math"

	"graphfield/internal/paint"
	"graphfield/pkg/colorutil"
	"graphfield/pkg/geometry"
)

// Paint draws the surface gray, the sample area in the background color,
// every view object and the rubber band onto s, then marks the view painted.
func (f *Field) Paint(s paint.Surface) {
	size := s.Size()
	s.FillRect(geometry.NewRect(0, 0, size.Width, size.Height), colorutil.Gray)
	s.FillRect(f.sampleRect(), f.background)
	f.View.PaintObjects(s)
	if r, ok := f.Nav.SelectionRect(); ok {
		pen := s.Pen()
		s.SetPen(f.selection)
		paintDashedRect(s, r)
		s.SetPen(pen)
	}
	f.View.MarkPainted()
}

// sampleRect is the logical space plus margins in whole pixels. It is
// square, XRange plus margins on both sides.
func (f *Field) sampleRect() geometry.Rect {
	st := f.View.State()
	tl := f.View.NormToPixelCoord(-st.Margin, -st.Margin).Round()
	side := math.Round(f.View.NormToPixelRel(st.XRange + 2*st.Margin))
	return geometry.NewRect(tl.X, tl.Y, side, side)
}

// dashLength is the on and off length of the rubber-band dashes, in pixels.
const dashLength = 2

func paintDashedRect(s paint.Surface, r geometry.Rect) {
	tl, br := r.TopLeft(), r.BottomRight()
	tr, bl := geometry.NewPoint2D(br.X, tl.Y), geometry.NewPoint2D(tl.X, br.Y)
	for _, edge := range [][2]geometry.Point2D{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}} {
		paintDashedLine(s, edge[0], edge[1])
	}
}

func paintDashedLine(s paint.Surface, a, b geometry.Point2D) {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		return
	}
	u := d.Scale(1 / length)
	for t := 0.0; t < length; t += 2 * dashLength {
		end := min(t+dashLength, length)
		s.DrawLine(a.Add(u.Scale(t)), a.Add(u.Scale(end)))
	}
}
