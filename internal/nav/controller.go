package nav

import (
	"log/slog"

	"graphfield/internal/view"
	"graphfield/internal/zone"
	"graphfield/pkg/geometry"
)

// DragSession lives from pointer press to release.
type DragSession struct {
	Mode   Mode
	Anchor geometry.Point2D // press position in pixels
	End    geometry.Point2D // latest pointer position in pixels

	// Window origin at press time, used by grab.
	ZoomX, ZoomY float64
}

// Rect returns the signed pixel rectangle from Anchor to End.
func (d *DragSession) Rect() geometry.Rect {
	return geometry.RectFromPoints(d.Anchor, d.End)
}

// Controller is the interaction state machine. Like the view it drives, it
// must be used from a single goroutine.
type Controller struct {
	view  *view.View
	zones *zone.Registry

	mode     Mode
	drag     *DragSession
	onCursor []func(Cursor)
}

// NewController creates a controller in ModeNormal. zones may be nil.
func NewController(v *view.View, zones *zone.Registry) *Controller {
	return &Controller{view: v, zones: zones}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// Cursor returns the cursor hint for the current mode. A grab drag in
// progress shows a closed hand.
func (c *Controller) Cursor() Cursor {
	if c.drag != nil && c.drag.Mode == ModeGrab {
		return CursorClosedHand
	}
	return c.mode.Cursor()
}

// OnCursorChange registers fn to receive the cursor hint after each mode
// switch and when a grab drag starts or ends.
func (c *Controller) OnCursorChange(fn func(Cursor)) {
	c.onCursor = append(c.onCursor, fn)
}

func (c *Controller) notifyCursor() {
	cur := c.Cursor()
	for _, fn := range c.onCursor {
		fn(cur)
	}
}

// SetMode switches mode. An invalid mode returns *InvalidModeError and
// leaves the controller untouched. A drag in progress is abandoned.
func (c *Controller) SetMode(m Mode) error {
	if !m.Valid() {
		err := invalidMode(m.String())
		slog.Warn("rejected interaction mode", "mode", int(m))
		return err
	}
	c.Cancel()
	c.mode = m
	slog.Debug("interaction mode changed", "mode", m, "cursor", m.Cursor())
	c.notifyCursor()
	return nil
}

// Drag returns a copy of the active drag session, if any.
func (c *Controller) Drag() (DragSession, bool) {
	if c.drag == nil {
		return DragSession{}, false
	}
	return *c.drag, true
}

// SelectionRect returns the canonical rubber-band rectangle in pixels while
// a select drag is active.
func (c *Controller) SelectionRect() (geometry.Rect, bool) {
	if c.drag == nil || c.drag.Mode != ModeSelect {
		return geometry.Rect{}, false
	}
	return c.drag.Rect().Canon(), true
}

// Press starts a drag session in grab and select modes.
func (c *Controller) Press(p geometry.Point2D) {
	switch c.mode {
	case ModeGrab:
		s := c.view.State()
		c.drag = &DragSession{Mode: ModeGrab, Anchor: p, End: p, ZoomX: s.ZoomX, ZoomY: s.ZoomY}
		c.notifyCursor()
	case ModeSelect:
		c.drag = &DragSession{Mode: ModeSelect, Anchor: p, End: p}
		c.view.RequestRepaint()
	}
}

// Move handles pointer motion, pressed or not. Hover tracking always runs;
// an active drag pans the view or stretches the rubber band.
func (c *Controller) Move(p geometry.Point2D) {
	c.Hover(p)
	if c.drag == nil {
		return
	}
	c.drag.End = p
	switch c.drag.Mode {
	case ModeGrab:
		dx := p.X - c.drag.Anchor.X
		dy := p.Y - c.drag.Anchor.Y
		c.view.SetOrigin(c.drag.ZoomX-c.view.PixelToNormRel(dx), c.drag.ZoomY-c.view.PixelToNormRel(dy))
	case ModeSelect:
		c.view.RequestRepaint()
	}
}

// Release ends the drag session. In select mode the rubber band becomes
// the new visible window.
func (c *Controller) Release(p geometry.Point2D) {
	if c.drag == nil {
		return
	}
	d := c.drag
	c.drag = nil
	d.End = p
	switch d.Mode {
	case ModeGrab:
		c.notifyCursor()
	case ModeSelect:
		c.commitSelection(d.Rect())
	}
}

// Cancel drops an active drag without committing it.
func (c *Controller) Cancel() {
	if c.drag == nil {
		return
	}
	grab := c.drag.Mode == ModeGrab
	c.drag = nil
	c.view.RequestRepaint()
	if grab {
		c.notifyCursor()
	}
}

func (c *Controller) commitSelection(r geometry.Rect) {
	s := c.view.State()
	origin := c.view.PixelToNormCoord(r.X, r.Y)
	x, y := origin.X+s.Margin, origin.Y+s.Margin

	w, h := r.Width, r.Height
	if w < 0 {
		w = -w
		x -= c.view.PixelToNormRel(w)
	}
	if h < 0 {
		h = -h
		y -= c.view.PixelToNormRel(h)
	}

	ratio := s.XRange / s.YRange
	var zw float64
	if w <= h*ratio {
		zw = c.view.PixelToNormRel(w)
	} else {
		zw = c.view.PixelToNormRel(h * ratio)
	}
	if zw <= 2*s.Margin {
		zw = 0
	} else {
		zw -= 2 * s.Margin
	}
	slog.Debug("selection committed", "x", x, "y", y, "w", zw)
	c.view.SetWindow(x, y, zw)
}

// Click fires zone click events in normal mode.
func (c *Controller) Click(p geometry.Point2D) []zone.Event {
	if c.mode != ModeNormal || c.zones == nil {
		return nil
	}
	n := c.view.PixelToNormCoord(p.X, p.Y)
	return c.zones.Click(n.X, n.Y)
}

// DoubleClick fires zone double-click events in every mode.
func (c *Controller) DoubleClick(p geometry.Point2D) []zone.Event {
	if c.zones == nil {
		return nil
	}
	n := c.view.PixelToNormCoord(p.X, p.Y)
	return c.zones.DoubleClick(n.X, n.Y)
}

// Hover updates zone enter/leave state for the pointer at p, in any mode.
func (c *Controller) Hover(p geometry.Point2D) []zone.Event {
	if c.zones == nil {
		return nil
	}
	n := c.view.PixelToNormCoord(p.X, p.Y)
	return c.zones.Motion(n.X, n.Y)
}

// Leave clears hover state when the pointer leaves the surface.
func (c *Controller) Leave() []zone.Event {
	if c.zones == nil {
		return nil
	}
	return c.zones.Leave()
}
