// Package canvas provides the fyne widget hosting a field: it paints the
// field into a raster and feeds pointer and resize events to it.
package canvas

import (
	"image"
	"log/slog"
	"sync"

	"graphfield/internal/app"
	"graphfield/internal/nav"
	"graphfield/internal/paint"
	"graphfield/internal/view"
	"graphfield/pkg/colorutil"
	"graphfield/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// FieldCanvas is a widget showing one field. All access to the field goes
// through its mutex, since fyne renders on a different goroutine from the
// one delivering input.
type FieldCanvas struct {
	widget.BaseWidget

	mu      sync.Mutex
	field   *app.Field
	raster  *fynecanvas.Raster
	offset  fyne.Position // top-left of the fitted surface inside the widget
	fitted  fyne.Size
	pending bool

	dragging bool
	lastDrag geometry.Point2D
	onMove   func(norm geometry.Point2D)
}

var (
	_ fyne.Draggable         = (*FieldCanvas)(nil)
	_ fyne.Tappable          = (*FieldCanvas)(nil)
	_ fyne.SecondaryTappable = (*FieldCanvas)(nil)
	_ fyne.DoubleTappable    = (*FieldCanvas)(nil)
	_ fyne.Scrollable        = (*FieldCanvas)(nil)
	_ desktop.Hoverable      = (*FieldCanvas)(nil)
	_ desktop.Cursorable     = (*FieldCanvas)(nil)
	_ view.Host              = (*FieldCanvas)(nil)
)

// NewFieldCanvas creates a widget for f.
func NewFieldCanvas(f *app.Field) *FieldCanvas {
	fc := &FieldCanvas{}
	fc.raster = fynecanvas.NewRaster(fc.draw)
	fc.ExtendBaseWidget(fc)
	fc.SetField(f)
	return fc
}

// SetField swaps in a new field, keeping the current widget size.
func (fc *FieldCanvas) SetField(f *app.Field) {
	fc.mu.Lock()
	if fc.field != nil {
		fc.field.Nav.Cancel()
	}
	fc.field = f
	fc.dragging = false
	f.View.SetHost(fc)
	f.View.SetRepaintFunc(func() { fc.pending = true })
	if size := fc.Size(); size.Width > 0 && size.Height > 0 {
		f.View.Resize(float64(size.Width), float64(size.Height))
	}
	fc.pending = true
	fc.mu.Unlock()
	fc.flush()
}

// Field returns the hosted field.
func (fc *FieldCanvas) Field() *app.Field {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.field
}

// OnPointerMove sets a callback receiving the normalized pointer position.
func (fc *FieldCanvas) OnPointerMove(callback func(norm geometry.Point2D)) {
	fc.onMove = callback
}

// Do runs fn with the field locked and refreshes afterwards if fn changed
// anything that needs a repaint.
func (fc *FieldCanvas) Do(fn func(f *app.Field)) {
	fc.mu.Lock()
	fn(fc.field)
	fc.mu.Unlock()
	fc.flush()
}

func (fc *FieldCanvas) flush() {
	fc.mu.Lock()
	pending := fc.pending
	fc.pending = false
	fc.mu.Unlock()
	if pending {
		fc.Refresh()
	}
}

// SetSize implements view.Host. It is called with the field locked.
func (fc *FieldCanvas) SetSize(width, height float64) {
	fc.fitted = fyne.NewSize(float32(width), float32(height))
	size := fc.Size()
	fc.offset = fyne.NewPos((size.Width-fc.fitted.Width)/2, (size.Height-fc.fitted.Height)/2)
}

func (fc *FieldCanvas) local(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X-fc.offset.X), float64(p.Y-fc.offset.Y))
}

func (fc *FieldCanvas) draw(w, h int) image.Image {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	size := fc.field.View.Size()
	rw, rh := int(size.Width), int(size.Height)
	if rw <= 0 || rh <= 0 {
		rw, rh = max(w, 1), max(h, 1)
	}
	r := paint.NewRaster(rw, rh)
	fc.field.Paint(r)
	return r.Image()
}

// Dragged implements fyne.Draggable. The first event of a drag presses at
// the position the drag started from.
func (fc *FieldCanvas) Dragged(ev *fyne.DragEvent) {
	fc.Do(func(f *app.Field) {
		p := fc.local(ev.Position)
		if !fc.dragging {
			fc.dragging = true
			f.Nav.Press(geometry.NewPoint2D(p.X-float64(ev.Dragged.DX), p.Y-float64(ev.Dragged.DY)))
		}
		f.Nav.Move(p)
		fc.lastDrag = p
	})
}

// DragEnd implements fyne.Draggable.
func (fc *FieldCanvas) DragEnd() {
	fc.Do(func(f *app.Field) {
		if !fc.dragging {
			return
		}
		fc.dragging = false
		f.Nav.Release(fc.lastDrag)
	})
}

// Tapped implements fyne.Tappable.
func (fc *FieldCanvas) Tapped(ev *fyne.PointEvent) {
	fc.Do(func(f *app.Field) {
		for _, e := range f.Nav.Click(fc.local(ev.Position)) {
			slog.Info("zone clicked", "zone", e.Zone.ID, "x", e.X, "y", e.Y)
		}
	})
}

// TappedSecondary implements fyne.SecondaryTappable by resetting the zoom.
func (fc *FieldCanvas) TappedSecondary(*fyne.PointEvent) {
	fc.Do(func(f *app.Field) { f.View.ZoomReset() })
}

// DoubleTapped implements fyne.DoubleTappable.
func (fc *FieldCanvas) DoubleTapped(ev *fyne.PointEvent) {
	fc.Do(func(f *app.Field) {
		for _, e := range f.Nav.DoubleClick(fc.local(ev.Position)) {
			slog.Info("zone double-clicked", "zone", e.Zone.ID, "x", e.X, "y", e.Y)
		}
	})
}

// Scrolled implements fyne.Scrollable: the wheel zooms about the pointer.
func (fc *FieldCanvas) Scrolled(ev *fyne.ScrollEvent) {
	fc.Do(func(f *app.Field) {
		p := fc.local(ev.Position)
		var err error
		switch {
		case ev.Scrolled.DY > 0:
			err = f.View.ZoomInAt(p, view.DefaultZoomStep)
		case ev.Scrolled.DY < 0:
			err = f.View.ZoomOutAt(p, view.DefaultZoomStep)
		}
		if err != nil {
			slog.Warn("zoom failed", "error", err)
		}
	})
}

// MouseIn implements desktop.Hoverable.
func (fc *FieldCanvas) MouseIn(ev *desktop.MouseEvent) { fc.MouseMoved(ev) }

// MouseMoved implements desktop.Hoverable. Hover tracking runs in every
// mode.
func (fc *FieldCanvas) MouseMoved(ev *desktop.MouseEvent) {
	var norm geometry.Point2D
	fc.Do(func(f *app.Field) {
		p := fc.local(ev.Position)
		f.Nav.Hover(p)
		norm = f.View.PixelToNormCoord(p.X, p.Y)
	})
	if fc.onMove != nil {
		fc.onMove(norm)
	}
}

// MouseOut implements desktop.Hoverable.
func (fc *FieldCanvas) MouseOut() {
	fc.Do(func(f *app.Field) { f.Nav.Leave() })
}

// Cursor implements desktop.Cursorable.
func (fc *FieldCanvas) Cursor() desktop.Cursor {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	switch fc.field.Nav.Cursor() {
	case nav.CursorOpenHand:
		return desktop.PointerCursor
	case nav.CursorClosedHand:
		return closedHandCursor{}
	case nav.CursorCrosshair:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

// closedHandCursor is a filled disc shown while grabbing; fyne has no
// closed hand cursor.
type closedHandCursor struct{}

var (
	closedHandOnce sync.Once
	closedHandImg  image.Image
)

// Image implements desktop.Cursor.
func (closedHandCursor) Image() (image.Image, int, int) {
	closedHandOnce.Do(func() {
		r := paint.NewRaster(16, 16)
		r.SetBrush(colorutil.White)
		r.SetPen(paint.Pen{Color: colorutil.Black, Width: 1.5})
		r.FillPolygon(geometry.ArcPoints(geometry.NewPoint2D(8, 8), 6, 0, 360, 24))
		closedHandImg = r.Image()
	})
	return closedHandImg, 8, 8
}

// MinSize keeps the surface usable.
func (fc *FieldCanvas) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

// CreateRenderer implements fyne.Widget.
func (fc *FieldCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &fieldCanvasRenderer{canvas: fc}
}

type fieldCanvasRenderer struct {
	canvas *FieldCanvas
}

func (r *fieldCanvasRenderer) Layout(size fyne.Size) {
	fc := r.canvas
	fc.mu.Lock()
	fitted := fc.field.View.Resize(float64(size.Width), float64(size.Height))
	fc.mu.Unlock()

	fc.raster.Resize(fyne.NewSize(float32(fitted.Width), float32(fitted.Height)))
	fc.raster.Move(fc.offset)
}

func (r *fieldCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.MinSize()
}

func (r *fieldCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *fieldCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *fieldCanvasRenderer) Destroy() {}
