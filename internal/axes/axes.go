// Package axes renders a widget of labelled coordinate axes: straight arrows
// along a triangular basis plus circular arrows for rotations about them.
package axes

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"graphfield/internal/arrow"
	"graphfield/internal/paint"
	"graphfield/internal/view"
	"graphfield/pkg/colorutil"
	"graphfield/pkg/geometry"
)

var (
	// ErrUnknownParent is returned when a round axis names no straight axis.
	ErrUnknownParent = errors.New("round axis parent not found")

	// ErrDuplicateAxis is returned when two axes share a name.
	ErrDuplicateAxis = errors.New("duplicate axis name")
)

// Axis is a straight labelled arrow from the widget centre.
type Axis struct {
	Name          string
	Definition    [3]int     // weights of the three basis directions
	NotationShift [2]float64 // label offset from the tip, along and across the arrow, in font sizes
	Activated     bool

	dir        geometry.Point2D
	labelShift [2]float64 // NotationShift, or the shift set by a round axis
}

// LabelShift returns the resolved label offset in font sizes. It is valid
// after Reserve.
func (a *Axis) LabelShift() [2]float64 { return a.labelShift }

// Direction returns the resolved pixel direction in arrow lengths. It is
// valid after Reserve.
func (a *Axis) Direction() geometry.Point2D { return a.dir }

// RoundAxis is a circular arrow drawn beyond the tip of its parent axis. It
// takes its definition from the parent.
type RoundAxis struct {
	Axis
	Parent   string
	Shift    float64 // gap between the parent tip and the arc, arrow lengths
	RelWidth float64 // arc diameter, arrow lengths
	Style    arrow.RoundStyle

	// AxisNotationShift replaces the parent's label shift so the parent
	// label clears the arc.
	AxisNotationShift [2]float64

	parent *Axis
	invert bool
}

// Inverted reports the resolved direction of travel. It is valid after
// Reserve.
func (r *RoundAxis) Inverted() bool { return r.invert }

// Params configures a widget.
type Params struct {
	ArrowLength       float64 // normalized units
	FontSizeRel       float64 // font size as a fraction of the arrow length
	FontSize          float64 // absolute font size in pixels; overrides FontSizeRel when > 0
	PenWidth          float64
	PenColor          color.Color
	PenWidthActivated float64
	PenColorActivated color.Color
	Arrow             arrow.Style
	Clockwise         bool // flips the direction of every round axis
}

// DefaultParams returns black 1px axes that turn into thick red ones when
// activated.
func DefaultParams() Params {
	return Params{
		ArrowLength:       100,
		FontSizeRel:       0.15,
		PenWidth:          1,
		PenColor:          colorutil.Black,
		PenWidthActivated: 2,
		PenColorActivated: colorutil.Red,
		Arrow:             arrow.DefaultStyle(),
	}
}

// Widget is a view object drawing its axes around its centre.
type Widget struct {
	view.Object
	Params
	Activated bool

	axes     []*Axis
	round    []*RoundAxis
	relWidth float64
	lengthPx float64 // arrow length in pixels at the last placement
}

// baseRelWidth is the footprint of a widget without round axes, in arrow
// lengths.
const baseRelWidth = 3

// New creates an empty widget centred on the normalized point (x, y).
func New(x, y float64, p Params) *Widget {
	w := &Widget{
		Object: view.Object{X: x, Y: y, Center: true},
		Params: p,
	}
	w.relWidth = baseRelWidth
	return w
}

func (w *Widget) hasName(name string) bool {
	_, ok := w.Axis(name)
	return ok
}

// AddAxis appends a straight axis. Call Reserve once all axes are added.
func (w *Widget) AddAxis(a *Axis) error {
	if w.hasName(a.Name) {
		return fmt.Errorf("%w: %q", ErrDuplicateAxis, a.Name)
	}
	w.axes = append(w.axes, a)
	return nil
}

// AddRoundAxis appends a round axis. Call Reserve once all axes are added.
func (w *Widget) AddRoundAxis(r *RoundAxis) error {
	if w.hasName(r.Name) {
		return fmt.Errorf("%w: %q", ErrDuplicateAxis, r.Name)
	}
	w.round = append(w.round, r)
	return nil
}

// Axes returns the straight axes in order.
func (w *Widget) Axes() []*Axis { return w.axes }

// RoundAxes returns the round axes in order.
func (w *Widget) RoundAxes() []*RoundAxis { return w.round }

// Axis looks up a straight or round axis by name.
func (w *Widget) Axis(name string) (*Axis, bool) {
	for _, a := range w.axes {
		if a.Name == name {
			return a, true
		}
	}
	for _, r := range w.round {
		if r.Name == name {
			return &r.Axis, true
		}
	}
	return nil, false
}

// RelWidth is the widget footprint in arrow lengths.
func (w *Widget) RelWidth() float64 { return w.relWidth }

// Reserve resolves directions and lays out room for the round axes. Each
// round axis grows the footprint by
// 2*(RelWidth + Shift + 2*len(name)*max(NotationShift)*FontSizeRel) and
// replaces its parent's label shift with AxisNotationShift. Reserve starts
// from scratch on every call, so it may be rerun after axes change.
func (w *Widget) Reserve() error {
	w.relWidth = baseRelWidth
	for _, a := range w.axes {
		a.dir = Direction(a.Definition)
		a.labelShift = a.NotationShift
	}

	for _, r := range w.round {
		var parent *Axis
		for _, a := range w.axes {
			if a.Name == r.Parent {
				parent = a
				break
			}
		}
		if parent == nil {
			return fmt.Errorf("round axis %q: %w: %q", r.Name, ErrUnknownParent, r.Parent)
		}
		r.parent = parent
		r.Definition = parent.Definition
		r.dir = parent.dir
		r.labelShift = r.NotationShift

		d := r.Definition
		r.invert = !(d[0]+d[1]+d[2] > 0)
		if w.Clockwise {
			r.invert = !r.invert
		}

		maxShift := max(r.NotationShift[0], r.NotationShift[1])
		w.relWidth += 2 * (r.RelWidth + r.Shift + 2*float64(len(r.Name))*maxShift*w.FontSizeRel)
		parent.labelShift = r.AxisNotationShift
	}
	return nil
}

// SizePx implements view.GraphicObject. The square side is rounded to whole
// pixels.
func (w *Widget) SizePx(v *view.View) geometry.Size {
	w.lengthPx = v.NormToPixelRel(w.ArrowLength)
	side := math.Round(v.NormToPixelRel(w.relWidth * w.ArrowLength))
	return geometry.NewSize(side, side)
}

// fontPx is the label font size in whole pixels.
func (w *Widget) fontPx(length float64) float64 {
	if w.FontSize > 0 {
		return w.FontSize
	}
	return math.Round(w.FontSizeRel * length)
}

func (w *Widget) applyStyle(s paint.Surface, active bool, fontSize float64) {
	if active {
		s.SetPen(paint.Pen{Color: w.PenColorActivated, Width: w.PenWidthActivated})
	} else {
		s.SetPen(paint.Pen{Color: w.PenColor, Width: w.PenWidth})
	}
	s.SetFont(paint.Font{Size: fontSize, Bold: active})
}

// Paint implements view.GraphicObject. Arrow ends, arc centres and label
// centres are snapped to whole pixels.
func (w *Widget) Paint(s paint.Surface) {
	length := w.lengthPx
	if length <= 0 {
		return
	}
	fs := w.fontPx(length)
	center := w.Bounds().Center()
	pen, font := s.Pen(), s.Font()
	defer func() {
		s.SetPen(pen)
		s.SetFont(font)
	}()

	for _, a := range w.axes {
		w.applyStyle(s, a.Activated || w.Activated, fs)
		tip := center.Add(a.dir.Scale(length))
		arrow.Draw(s, center.Round(), tip.Round(), w.Arrow)
		arrow.DrawTextCentered(s, tip.Add(labelOffset(a.dir, a.labelShift, fs)).Round(), a.Name)
	}

	for _, r := range w.round {
		if r.parent == nil {
			continue
		}
		active := r.Activated || w.Activated
		w.applyStyle(s, active, fs)
		arcCenter := center.Add(r.dir.Scale((1 + r.Shift + r.RelWidth/2) * length))
		width := r.RelWidth * length
		arrow.DrawRound(s, arcCenter.Round(), math.Round(width), r.invert, r.Style)

		// the label sits beyond the arc, pushed out by its radius
		ns := labelOffset(r.dir, r.labelShift, fs)
		if n := ns.Length(); n > 0 {
			ns = ns.Scale(1 + width/(2*n))
		}
		s.SetFont(paint.Font{Size: math.Round(0.9 * fs), Bold: active})
		arrow.DrawTextCentered(s, arcCenter.Add(ns).Round(), r.Name)
	}
}

// labelOffset is shift font sizes along and across dir.
func labelOffset(dir geometry.Point2D, shift [2]float64, fontSize float64) geometry.Point2D {
	along := dir.Scale(shift[0])
	across := dir.Rotate(-90).Scale(shift[1])
	return along.Add(across).Scale(fontSize)
}
