// Package app assembles a field from its configuration and publishes its
// events to the host.
package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"sync"

	"graphfield/internal/arrow"
	"graphfield/internal/axes"
	"graphfield/internal/config"
	"graphfield/internal/mask"
	"graphfield/internal/nav"
	"graphfield/internal/paint"
	"graphfield/internal/view"
	"graphfield/internal/zone"
	"graphfield/pkg/colorutil"
	"graphfield/pkg/geometry"
)

// ErrUnknownTarget is returned when an activation target names no widget or
// axis.
var ErrUnknownTarget = errors.New("unknown activation target")

// EventType identifies field events.
type EventType int

const (
	EventViewChanged EventType = iota
	EventZoneClicked
	EventZoneDoubleClicked
	EventZoneEnter
	EventZoneLeave
	EventCursorChanged
)

// EventListener is called when an event occurs. data is *view.View for
// EventViewChanged, zone.Event for zone events and nav.Cursor for
// EventCursorChanged.
type EventListener func(data any)

// target is what a zone highlights while hovered.
type target struct {
	widget *axes.Widget
	axis   *axes.Axis // nil for the whole widget
}

func (t target) set(on bool) {
	if t.axis != nil {
		t.axis.Activated = on
		return
	}
	t.widget.Activated = on
}

// Field is one interactive coordinate space: its view, navigation, zones
// and axes widgets. Core calls must come from a single goroutine; the
// listener table alone is safe for concurrent registration.
type Field struct {
	mu sync.RWMutex

	Config *config.Config
	View   *view.View
	Nav    *nav.Controller
	Zones  *zone.Registry

	widgets    []*axes.Widget
	names      []string
	background color.RGBA
	selection  paint.Pen
	activates  map[*zone.Zone]target

	listeners map[EventType][]EventListener
}

// NewField builds a field from a validated config. loader reads mask zone
// images; it may be nil when the config has no mask zones.
func NewField(cfg *config.Config, loader mask.Loader) (*Field, error) {
	fc := cfg.Field
	v, err := view.New(view.Config{
		XRange:    fc.XRange,
		YRange:    fc.YRange,
		Margin:    fc.Margin,
		KeepRatio: fc.KeepRatio,
		Scale:     fc.Scale,
		Width:     fc.Width,
		Height:    fc.Height,
	})
	if err != nil {
		return nil, err
	}
	bg, err := colorutil.ParseHex(fc.Background)
	if err != nil {
		return nil, fmt.Errorf("field background: %w", err)
	}

	f := &Field{
		Config:     cfg,
		View:       v,
		Zones:      zone.NewRegistry(fc.XRange),
		background: bg,
		selection:  paint.Pen{Color: colorutil.Yellow, Width: 1},
		activates:  make(map[*zone.Zone]target),
		listeners:  make(map[EventType][]EventListener),
	}
	f.Nav = nav.NewController(v, f.Zones)

	mode, err := nav.ParseMode(fc.Mode)
	if err != nil {
		return nil, err
	}
	if err := f.Nav.SetMode(mode); err != nil {
		return nil, err
	}

	for _, ac := range cfg.Axes {
		w, err := buildWidget(ac)
		if err != nil {
			return nil, fmt.Errorf("axes %q: %w", ac.Name, err)
		}
		f.widgets = append(f.widgets, w)
		f.names = append(f.names, ac.Name)
		v.AddObject(w)
	}

	for _, zc := range cfg.Zones {
		z, err := buildZone(zc, loader)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", zc.ID, err)
		}
		f.Zones.Register(z)
		if zc.Activates != "" {
			t, err := f.lookup(zc.Activates)
			if err != nil {
				return nil, fmt.Errorf("zone %q: %w", zc.ID, err)
			}
			f.activates[z] = t
		}
	}

	if fc.BackgroundImage != "" {
		if err := f.SetBackgroundFromFile(fc.BackgroundImage, fc.UsePictureCoordinates); err != nil {
			return nil, err
		}
	}

	v.OnChange(func(v *view.View) {
		f.Zones.SetXRange(v.State().XRange)
		f.Emit(EventViewChanged, v)
	})
	f.Zones.OnAny(f.onZoneEvent)
	f.Nav.OnCursorChange(func(c nav.Cursor) { f.Emit(EventCursorChanged, c) })
	return f, nil
}

func buildWidget(ac config.AxesConfig) (*axes.Widget, error) {
	pen, err := colorutil.ParseHex(ac.PenColor)
	if err != nil {
		return nil, err
	}
	penActive, err := colorutil.ParseHex(ac.PenColorActivated)
	if err != nil {
		return nil, err
	}
	style := arrow.Style{
		FixedWidth: ac.Arrow.FixedWidth,
		RelWidth:   ac.Arrow.RelWidth,
		Angle:      ac.Arrow.Angle,
		FilledHead: ac.Arrow.FilledHead,
	}

	w := axes.New(ac.X, ac.Y, axes.Params{
		ArrowLength:       ac.ArrowLength,
		FontSizeRel:       ac.FontSizeRel,
		FontSize:          ac.FontSize,
		PenWidth:          ac.PenWidth,
		PenColor:          pen,
		PenWidthActivated: ac.PenWidthActivated,
		PenColorActivated: penActive,
		Arrow:             style,
		Clockwise:         ac.Clockwise,
	})
	w.Activated = ac.Activated

	for _, a := range ac.Axis {
		if err := w.AddAxis(&axes.Axis{Name: a.Name, Definition: a.Definition, NotationShift: a.NotationShift}); err != nil {
			return nil, err
		}
	}
	for _, r := range ac.RoundAxis {
		err := w.AddRoundAxis(&axes.RoundAxis{
			Axis:              axes.Axis{Name: r.Name, NotationShift: r.NotationShift},
			Parent:            r.Parent,
			Shift:             r.Shift,
			RelWidth:          r.RelWidth,
			AxisNotationShift: r.AxisNotationShift,
			Style: arrow.RoundStyle{
				StartAngle: r.StartAngle,
				EndAngle:   r.EndAngle,
				Rotation:   r.Rotation,
				Arrow:      style,
			},
		})
		if err != nil {
			return nil, err
		}
	}
	if err := w.Reserve(); err != nil {
		return nil, err
	}
	return w, nil
}

func buildZone(zc config.ZoneConfig, loader mask.Loader) (*zone.Zone, error) {
	switch zc.Kind {
	case config.ZoneRect:
		r := geometry.NewRect(zc.Rect[0], zc.Rect[1], zc.Rect[2], zc.Rect[3])
		return zone.NewPredicate(zc.ID, zone.Rect(r)), nil
	case config.ZoneCircle:
		c := geometry.NewPoint2D(zc.Center[0], zc.Center[1])
		return zone.NewPredicate(zc.ID, zone.Circle(c, zc.Radius)), nil
	case config.ZonePolygon:
		pts := make([]geometry.Point2D, len(zc.Points))
		for i, p := range zc.Points {
			pts[i] = geometry.NewPoint2D(p[0], p[1])
		}
		return zone.NewPredicate(zc.ID, zone.Polygon(pts)), nil
	case config.ZoneMask:
		if loader == nil {
			return nil, errors.New("no mask loader configured")
		}
		m, err := loader(zc.Mask, zc.MaskThreshold())
		if err != nil {
			return nil, err
		}
		return zone.NewMask(zc.ID, m), nil
	case config.ZoneNone:
		return zone.NewNull(zc.ID), nil
	default:
		return nil, fmt.Errorf("unknown zone kind %q", zc.Kind)
	}
}

// lookup resolves "widget" or "widget.axis".
func (f *Field) lookup(name string) (target, error) {
	wname, aname, _ := strings.Cut(name, ".")
	for i, n := range f.names {
		if n != wname {
			continue
		}
		t := target{widget: f.widgets[i]}
		if aname == "" {
			return t, nil
		}
		a, ok := t.widget.Axis(aname)
		if !ok {
			break
		}
		t.axis = a
		return t, nil
	}
	return target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
}

func (f *Field) onZoneEvent(e zone.Event) {
	if t, ok := f.activates[e.Zone]; ok && (e.Type == zone.EventMouseEnter || e.Type == zone.EventMouseLeave) {
		t.set(e.Type == zone.EventMouseEnter)
		f.View.RequestRepaint()
	}
	switch e.Type {
	case zone.EventClicked:
		f.Emit(EventZoneClicked, e)
	case zone.EventDoubleClicked:
		f.Emit(EventZoneDoubleClicked, e)
	case zone.EventMouseEnter:
		f.Emit(EventZoneEnter, e)
	case zone.EventMouseLeave:
		f.Emit(EventZoneLeave, e)
	}
	slog.Debug("zone event", "type", e.Type, "zone", e.Zone.ID)
}

// SetBackground shows img below the widgets. With usePictureCoordinates the
// logical space becomes the image's pixel size, which also rescales mask
// zones.
func (f *Field) SetBackground(img image.Image, usePictureCoordinates bool) error {
	if err := f.View.SetBackground(img, usePictureCoordinates); err != nil {
		return err
	}
	f.Zones.SetXRange(f.View.State().XRange)
	return nil
}

// SetBackgroundFromFile reads a PNG, JPEG, BMP or TIFF image and shows it
// as the background.
func (f *Field) SetBackgroundFromFile(path string, usePictureCoordinates bool) error {
	img, err := mask.ReadImage(path)
	if err != nil {
		return fmt.Errorf("background image: %w", err)
	}
	slog.Info("loaded background", "path", path, "bounds", img.Bounds())
	return f.SetBackground(img, usePictureCoordinates)
}

// Widgets returns the axes widgets in config order.
func (f *Field) Widgets() []*axes.Widget { return f.widgets }

// Activate sets the highlight of a widget ("axes") or axis ("axes.x").
func (f *Field) Activate(name string, on bool) error {
	t, err := f.lookup(name)
	if err != nil {
		return err
	}
	t.set(on)
	f.View.RequestRepaint()
	return nil
}

// ZonesAt returns the IDs of the zones containing a normalized point.
func (f *Field) ZonesAt(x, y float64) []string {
	var ids []string
	for _, z := range f.Zones.HitTest(x, y) {
		ids = append(ids, z.ID)
	}
	return ids
}

// On registers an event listener for the specified event type.
func (f *Field) On(event EventType, listener EventListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners[event] = append(f.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (f *Field) Emit(event EventType, data any) {
	f.mu.RLock()
	listeners := f.listeners[event]
	f.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
