package zone

import (
	"fmt"
	"slices"
)

// EventType identifies a zone event.
type EventType int

const (
	EventClicked EventType = iota
	EventDoubleClicked
	EventMouseEnter
	EventMouseLeave
)

func (e EventType) String() string {
	switch e {
	case EventClicked:
		return "clicked"
	case EventDoubleClicked:
		return "double-clicked"
	case EventMouseEnter:
		return "mouse-enter"
	case EventMouseLeave:
		return "mouse-leave"
	default:
		return fmt.Sprintf("EventType(%d)", int(e))
	}
}

// Event is delivered to listeners for every zone that reacts to a pointer
// action. X and Y are the normalized pointer position.
type Event struct {
	Type EventType
	Zone *Zone
	X, Y float64
}

// Listener receives zone events.
type Listener func(Event)

// Registry holds zones in registration order. Every matching zone fires, so
// overlapping zones each receive their own event.
type Registry struct {
	xRange    float64
	zones     []*Zone
	listeners map[EventType][]Listener
}

// NewRegistry creates an empty registry for a space xRange units wide.
func NewRegistry(xRange float64) *Registry {
	return &Registry{
		xRange:    xRange,
		listeners: make(map[EventType][]Listener),
	}
}

// SetXRange updates the width of the space mask zones are scaled to.
func (r *Registry) SetXRange(xRange float64) {
	r.xRange = xRange
}

// Register appends z. Registering the same zone twice is a no-op.
func (r *Registry) Register(z *Zone) {
	if slices.Contains(r.zones, z) {
		return
	}
	r.zones = append(r.zones, z)
}

// Unregister removes z and clears its hover state.
func (r *Registry) Unregister(z *Zone) {
	if i := slices.Index(r.zones, z); i >= 0 {
		r.zones = slices.Delete(r.zones, i, i+1)
		z.activated = false
	}
}

// Zones returns the registered zones in order.
func (r *Registry) Zones() []*Zone {
	return slices.Clone(r.zones)
}

// Lookup finds a zone by ID.
func (r *Registry) Lookup(id string) (*Zone, bool) {
	for _, z := range r.zones {
		if z.ID == id {
			return z, true
		}
	}
	return nil, false
}

// HitTest returns every zone containing the normalized point.
func (r *Registry) HitTest(x, y float64) []*Zone {
	var hits []*Zone
	for _, z := range r.zones {
		if z.Contains(x, y, r.xRange) {
			hits = append(hits, z)
		}
	}
	return hits
}

// On registers a listener for one event type.
func (r *Registry) On(t EventType, l Listener) {
	r.listeners[t] = append(r.listeners[t], l)
}

// OnAny registers a listener for all event types.
func (r *Registry) OnAny(l Listener) {
	for _, t := range []EventType{EventClicked, EventDoubleClicked, EventMouseEnter, EventMouseLeave} {
		r.On(t, l)
	}
}

func (r *Registry) emit(e Event) {
	for _, l := range r.listeners[e.Type] {
		l(e)
	}
}

// Click fires EventClicked on every zone containing the point and returns
// the events fired.
func (r *Registry) Click(x, y float64) []Event {
	return r.fireHits(EventClicked, x, y)
}

// DoubleClick fires EventDoubleClicked like Click.
func (r *Registry) DoubleClick(x, y float64) []Event {
	return r.fireHits(EventDoubleClicked, x, y)
}

func (r *Registry) fireHits(t EventType, x, y float64) []Event {
	var fired []Event
	for _, z := range r.HitTest(x, y) {
		e := Event{Type: t, Zone: z, X: x, Y: y}
		fired = append(fired, e)
		r.emit(e)
	}
	return fired
}

// Motion updates hover state for the pointer at (x, y). A zone whose
// containment differs from its activated flag flips the flag and fires
// EventMouseEnter or EventMouseLeave.
func (r *Registry) Motion(x, y float64) []Event {
	var fired []Event
	for _, z := range slices.Clone(r.zones) {
		inside := z.Contains(x, y, r.xRange)
		if inside == z.activated {
			continue
		}
		z.activated = inside
		e := Event{Type: EventMouseLeave, Zone: z, X: x, Y: y}
		if inside {
			e.Type = EventMouseEnter
		}
		fired = append(fired, e)
		r.emit(e)
	}
	return fired
}

// Leave clears every activated zone, as when the pointer leaves the surface.
func (r *Registry) Leave() []Event {
	var fired []Event
	for _, z := range slices.Clone(r.zones) {
		if !z.activated {
			continue
		}
		z.activated = false
		e := Event{Type: EventMouseLeave, Zone: z}
		fired = append(fired, e)
		r.emit(e)
	}
	return fired
}
