package paint

import (
	"image"
	"image/color"

	"graphfield/pkg/colorutil"
	"graphfield/pkg/geometry"
)

// OpKind identifies a recorded drawing call.
type OpKind string

const (
	OpFillRect    OpKind = "fill_rect"
	OpLine        OpKind = "line"
	OpArc         OpKind = "arc"
	OpFillPolygon OpKind = "fill_polygon"
	OpText        OpKind = "text"
	OpImage       OpKind = "image"
)

// Op is one recorded drawing call with the pen and font in effect.
type Op struct {
	Kind     OpKind             `yaml:"kind"`
	Points   []geometry.Point2D `yaml:"points,omitempty"`
	Rect     geometry.Rect      `yaml:"rect,omitempty"`
	Diameter float64            `yaml:"diameter,omitempty"`
	Start    float64            `yaml:"start,omitempty"`
	Span     float64            `yaml:"span,omitempty"`
	Text     string             `yaml:"text,omitempty"`
	Color    string             `yaml:"color"`
	Fill     string             `yaml:"fill,omitempty"`
	Width    float64            `yaml:"width,omitempty"`
	FontSize float64            `yaml:"font_size,omitempty"`
	Bold     bool               `yaml:"bold,omitempty"`
}

// Recorder is a Surface that keeps every call instead of rasterising it.
type Recorder struct {
	Ops []Op

	size  geometry.Size
	pen   Pen
	brush color.Color
	font  Font
}

// NewRecorder creates a recorder reporting the given surface size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{
		size:  geometry.NewSize(width, height),
		pen:   DefaultPen,
		brush: color.Transparent,
		font:  DefaultFont,
	}
}

func (r *Recorder) record(op Op) {
	if op.Color == "" {
		op.Color = colorutil.Hex(r.pen.Color)
	}
	if op.Kind != OpFillRect && op.Kind != OpImage {
		op.Width = r.pen.Width
	}
	r.Ops = append(r.Ops, op)
}

// FillRect implements Surface.
func (r *Recorder) FillRect(rect geometry.Rect, c color.Color) {
	r.record(Op{Kind: OpFillRect, Rect: rect, Color: colorutil.Hex(c)})
}

// DrawImage implements Surface. Only the target rectangle is kept.
func (r *Recorder) DrawImage(rect geometry.Rect, img image.Image) {
	if img == nil {
		return
	}
	r.record(Op{Kind: OpImage, Rect: rect})
}

// DrawLine implements Surface.
func (r *Recorder) DrawLine(a, b geometry.Point2D) {
	r.record(Op{Kind: OpLine, Points: []geometry.Point2D{a, b}})
}

// DrawArc implements Surface.
func (r *Recorder) DrawArc(center geometry.Point2D, diameter, startDeg, spanDeg float64) {
	r.record(Op{
		Kind:     OpArc,
		Points:   []geometry.Point2D{center},
		Diameter: diameter,
		Start:    startDeg,
		Span:     spanDeg,
	})
}

// FillPolygon implements Surface.
func (r *Recorder) FillPolygon(pts []geometry.Point2D) {
	r.record(Op{Kind: OpFillPolygon, Points: append([]geometry.Point2D(nil), pts...), Fill: colorutil.Hex(r.brush)})
}

// DrawText implements Surface.
func (r *Recorder) DrawText(box geometry.Rect, text string) {
	r.record(Op{Kind: OpText, Rect: box, Text: text, FontSize: r.font.Size, Bold: r.font.Bold})
}

func (r *Recorder) SetPen(p Pen)           { r.pen = p }
func (r *Recorder) Pen() Pen               { return r.pen }
func (r *Recorder) SetBrush(c color.Color) { r.brush = c }
func (r *Recorder) Brush() color.Color     { return r.brush }
func (r *Recorder) SetFont(f Font)         { r.font = f }
func (r *Recorder) Font() Font             { return r.font }
func (r *Recorder) Size() geometry.Size    { return r.size }

// Filter returns the recorded ops of one kind, in call order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
