// Package view maps a fixed normalized coordinate space onto a resizable
// pixel surface and keeps registered graphic objects in step with the
// current pan/zoom window.
package view

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"graphfield/pkg/geometry"
)

// DefaultZoomStep is the factor used by the zoom buttons and wheel.
const DefaultZoomStep = 0.2

var (
	// ErrInvalidZoomFactor is returned for zoom factors outside [0, 1).
	ErrInvalidZoomFactor = errors.New("zoom factor must be in [0, 1)")

	// ErrInvalidRange is returned when the logical extents are not positive.
	ErrInvalidRange = errors.New("x and y range must be positive")
)

// Config is the construction-time configuration of a View.
type Config struct {
	XRange    float64 // logical width in normalized units
	YRange    float64 // logical height in normalized units
	Margin    float64 // padding around the visible window, normalized units
	KeepRatio bool    // resize keeps the XRange:YRange aspect
	Scale     bool    // pixel range tracks the live surface width
	Width     float64 // initial surface width in pixels
	Height    float64 // initial surface height in pixels
}

// State is a snapshot of the transform parameters.
type State struct {
	XRange, YRange float64
	Margin         float64
	ZoomX, ZoomY   float64 // top-left of the visible normalized window
	ZoomW          float64 // visible window width; height follows the aspect
	PixelRange0    float64 // reference pixel width used when Scale is off
	KeepRatio      bool
	Scale          bool
}

// Listener is notified after every transform change.
type Listener func(v *View)

// Host receives the fitted surface size computed by Resize.
type Host interface {
	SetSize(width, height float64)
}

// View owns the transform state, the graphic objects placed through it and
// the view-changed observers. It is not safe for concurrent use; hosts
// serialize all calls onto one goroutine.
type View struct {
	state         State
	width, height float64

	host      Host
	listeners []Listener
	objects   []GraphicObject
	notifying bool

	background *Picture

	repaint func()
	dirty   bool
}

// New creates a view fully zoomed out over the logical space.
func New(cfg Config) (*View, error) {
	if !(cfg.XRange > 0) || !(cfg.YRange > 0) {
		return nil, fmt.Errorf("%w: got %gx%g", ErrInvalidRange, cfg.XRange, cfg.YRange)
	}
	if cfg.Margin < 0 {
		return nil, fmt.Errorf("margin must not be negative: %g", cfg.Margin)
	}
	v := &View{
		state: State{
			XRange:      cfg.XRange,
			YRange:      cfg.YRange,
			Margin:      cfg.Margin,
			ZoomW:       cfg.XRange,
			PixelRange0: cfg.Width,
			KeepRatio:   cfg.KeepRatio,
			Scale:       cfg.Scale,
		},
		width:  cfg.Width,
		height: cfg.Height,
	}
	return v, nil
}

// State returns a copy of the transform parameters.
func (v *View) State() State {
	return v.state
}

// Size returns the current surface size in pixels.
func (v *View) Size() geometry.Size {
	return geometry.NewSize(v.width, v.height)
}

// SetHost attaches the surface that receives fitted sizes from Resize.
func (v *View) SetHost(h Host) {
	v.host = h
}

// PixelRange is the pixel width the visible window (plus margins) spans.
func (v *View) PixelRange() float64 {
	if v.state.Scale {
		return v.width
	}
	return v.state.PixelRange0
}

// span is the normalized width mapped onto PixelRange.
func (v *View) span() float64 {
	return v.state.ZoomW + 2*v.state.Margin
}

// NormToPixelRel converts a normalized length to pixels. A degenerate
// window (zero span) maps every length to 0.
func (v *View) NormToPixelRel(n float64) float64 {
	span := v.span()
	if span == 0 {
		slog.Debug("degenerate view: zero normalized span")
		return 0
	}
	return v.PixelRange() / span * n
}

// PixelToNormRel converts a pixel length to normalized units. A surface with
// zero pixel range maps every length to 0.
func (v *View) PixelToNormRel(p float64) float64 {
	pr := v.PixelRange()
	if pr == 0 {
		slog.Debug("degenerate view: zero pixel range")
		return 0
	}
	return v.span() / pr * p
}

// NormToPixelCoord maps a normalized point to surface pixels. Both axes share
// one scale factor.
func (v *View) NormToPixelCoord(x, y float64) geometry.Point2D {
	return geometry.Point2D{
		X: v.NormToPixelRel(x - v.state.ZoomX + v.state.Margin),
		Y: v.NormToPixelRel(y - v.state.ZoomY + v.state.Margin),
	}
}

// PixelToNormCoord is the inverse of NormToPixelCoord.
func (v *View) PixelToNormCoord(px, py float64) geometry.Point2D {
	return geometry.Point2D{
		X: v.PixelToNormRel(px) - v.state.Margin + v.state.ZoomX,
		Y: v.PixelToNormRel(py) - v.state.Margin + v.state.ZoomY,
	}
}

// VisibleRect returns the normalized rectangle currently covering the surface.
func (v *View) VisibleRect() geometry.Rect {
	tl := v.PixelToNormCoord(0, 0)
	br := v.PixelToNormCoord(v.width, v.height)
	return geometry.RectFromPoints(tl, br)
}

// Resize fits the surface into width x height. With KeepRatio the largest
// rectangle of XRange:YRange aspect inside the offered area is used, with
// the fitted side rounded to whole pixels. The fitted size is returned and
// pushed to the host.
func (v *View) Resize(width, height float64) geometry.Size {
	if v.state.KeepRatio {
		ratio := v.state.XRange / v.state.YRange
		if width <= height*ratio {
			height = math.Round(width / ratio)
		} else {
			width = math.Round(height * ratio)
		}
	}
	v.width, v.height = width, height
	if v.host != nil {
		v.host.SetSize(width, height)
	}
	if v.state.Scale {
		v.notify()
	} else {
		v.RequestRepaint()
	}
	return geometry.NewSize(width, height)
}

// LatchPixelRange records the current surface width as the reference pixel
// range used while Scale is off.
func (v *View) LatchPixelRange() {
	v.state.PixelRange0 = v.width
	v.Reposition()
	v.RequestRepaint()
}

// SetRanges replaces the logical extents and resets the zoom window.
func (v *View) SetRanges(xRange, yRange float64) error {
	if !(xRange > 0) || !(yRange > 0) {
		return fmt.Errorf("%w: got %gx%g", ErrInvalidRange, xRange, yRange)
	}
	v.state.XRange, v.state.YRange = xRange, yRange
	slog.Debug("view ranges changed", "x_range", xRange, "y_range", yRange)
	v.ZoomReset()
	return nil
}

// OnChange registers a listener called after each transform change, in
// registration order.
func (v *View) OnChange(l Listener) {
	v.listeners = append(v.listeners, l)
}

// SetRepaintFunc installs the host hook used to schedule a redraw.
func (v *View) SetRepaintFunc(fn func()) {
	v.repaint = fn
}

// RequestRepaint asks the host for a redraw. Requests made before the host
// calls MarkPainted collapse into one.
func (v *View) RequestRepaint() {
	if v.dirty {
		return
	}
	v.dirty = true
	if v.repaint != nil {
		v.repaint()
	}
}

// MarkPainted tells the view a redraw has happened.
func (v *View) MarkPainted() {
	v.dirty = false
}

// NeedsRepaint reports whether a redraw is pending.
func (v *View) NeedsRepaint() bool {
	return v.dirty
}

// notify repositions every object and runs the listeners. A change made from
// inside a listener keeps its state but does not start a nested pass.
func (v *View) notify() {
	if v.notifying {
		slog.Warn("view changed during change notification; nested notification skipped")
		return
	}
	v.notifying = true
	defer func() { v.notifying = false }()

	for _, o := range v.objects {
		v.place(o)
	}
	for _, l := range v.listeners {
		l(v)
	}
	v.RequestRepaint()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
