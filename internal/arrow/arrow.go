// Package arrow draws straight and circular arrows and centred labels onto a
// paint.Surface.
package arrow

import (
	"math"
	"unicode/utf8"

	"graphfield/internal/paint"
	"graphfield/pkg/geometry"
)

// Style parametrizes an arrow head.
type Style struct {
	FixedWidth float64 `toml:"fixed_width" yaml:"fixed_width"` // head length in pixels, 0 to use RelWidth
	RelWidth   float64 `toml:"rel_width" yaml:"rel_width"`     // head length as a fraction of the shaft
	Angle      float64 `toml:"angle" yaml:"angle"`             // half opening angle in degrees
	FilledHead bool    `toml:"filled_head" yaml:"filled_head"`
}

// DefaultStyle is an open head a tenth of the shaft long, opened 33 degrees.
func DefaultStyle() Style {
	return Style{RelWidth: 0.1, Angle: 33}
}

// HeadPoints returns the two barb ends of a head sitting on end. Both points
// equal end for a zero-length arrow.
func HeadPoints(start, end geometry.Point2D, st Style) (geometry.Point2D, geometry.Point2D) {
	shaft := end.Sub(start)
	length := shaft.Length()
	if length == 0 {
		return end, end
	}
	head := st.FixedWidth
	if head <= 0 {
		head = st.RelWidth * length
	}
	back := shaft.Scale(-1 / length)
	return end.Add(back.Rotate(st.Angle).Scale(head)),
		end.Add(back.Rotate(-st.Angle).Scale(head))
}

// Draw strokes the shaft from start to end and then the head.
func Draw(s paint.Surface, start, end geometry.Point2D, st Style) {
	s.DrawLine(start, end)
	if start == end {
		return
	}
	h1, h2 := HeadPoints(start, end, st)
	drawHead(s, end, h1, h2, st.FilledHead)
}

func drawHead(s paint.Surface, tip, h1, h2 geometry.Point2D, filled bool) {
	if filled {
		brush := s.Brush()
		s.SetBrush(s.Pen().Color)
		s.FillPolygon([]geometry.Point2D{tip, h1, h2})
		s.SetBrush(brush)
		return
	}
	s.DrawLine(tip, h1)
	s.DrawLine(tip, h2)
}

// RoundStyle parametrizes a circular arrow. Angles are in degrees,
// counter-clockwise from 3 o'clock.
type RoundStyle struct {
	StartAngle float64 `toml:"start_angle" yaml:"start_angle"`
	EndAngle   float64 `toml:"end_angle" yaml:"end_angle"`
	Rotation   float64 `toml:"rotation" yaml:"rotation"` // extra head rotation off the tangent
	Arrow      Style   `toml:"arrow" yaml:"arrow"`
}

// DefaultRoundStyle spans -150 to 150 degrees, open on the left.
func DefaultRoundStyle() RoundStyle {
	return RoundStyle{StartAngle: -150, EndAngle: 150, Arrow: DefaultStyle()}
}

// Angles returns the start angle and signed span of the arc. invert
// reverses the direction of travel.
func (rs RoundStyle) Angles(invert bool) (start, span float64) {
	start, end := rs.StartAngle, rs.EndAngle
	if invert {
		start, end = end, start
	}
	return start, end - start
}

// RoundHead returns the arc end point and the head barbs for a round arrow
// of the given pixel diameter. The head follows the arc tangent in the
// direction of travel, turned by Rotation. RelWidth is taken relative to
// the diameter.
func RoundHead(center geometry.Point2D, diameter float64, invert bool, rs RoundStyle) (tip, h1, h2 geometry.Point2D) {
	start, span := rs.Angles(invert)
	end := start + span
	tip = center.Add(geometry.Polar(end).FlipY().Scale(diameter / 2))

	rad := geometry.DegToRad(end)
	dir := geometry.NewPoint2D(-math.Sin(rad), -math.Cos(rad))
	if span < 0 {
		dir = dir.Neg()
	}
	dir = dir.Rotate(rs.Rotation)

	h1, h2 = HeadPoints(tip.Sub(dir.Scale(diameter)), tip, rs.Arrow)
	return tip, h1, h2
}

// DrawRound strokes the arc and its head.
func DrawRound(s paint.Surface, center geometry.Point2D, diameter float64, invert bool, rs RoundStyle) {
	start, span := rs.Angles(invert)
	s.DrawArc(center, diameter, start, span)
	if diameter <= 0 {
		return
	}
	tip, h1, h2 := RoundHead(center, diameter, invert, rs)
	drawHead(s, tip, h1, h2, rs.Arrow.FilledHead)
}

// TextBox is the box a label of fontSize is centred in: 2*fontSize tall and
// 2*fontSize per character wide.
func TextBox(center geometry.Point2D, text string, fontSize float64) geometry.Rect {
	n := float64(utf8.RuneCountInString(text))
	return geometry.RectCenteredAt(center, 2*fontSize*n, 2*fontSize)
}

// DrawTextCentered draws text centred on center using the surface font.
func DrawTextCentered(s paint.Surface, center geometry.Point2D, text string) {
	s.DrawText(TextBox(center, text, s.Font().Size), text)
}
