// Package nav drives a view from pointer input. It owns the interaction
// mode, the drag session and the cursor hint shown to the user.
package nav

import (
	"fmt"
	"strings"
)

// Mode is the interaction mode.
type Mode int

const (
	ModeNormal Mode = iota // clicks and double clicks go to zones
	ModeGrab               // dragging pans the view
	ModeSelect             // dragging draws a rectangle that becomes the new window
)

// Modes lists every mode in declaration order.
var Modes = []Mode{ModeNormal, ModeGrab, ModeSelect}

var modeNames = []string{"normal", "grab", "select"}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= ModeNormal && m <= ModeSelect
}

// Cursor returns the cursor hint for the mode.
func (m Mode) Cursor() Cursor {
	switch m {
	case ModeGrab:
		return CursorOpenHand
	case ModeSelect:
		return CursorCrosshair
	default:
		return CursorArrow
	}
}

// InvalidModeError is returned when a mode outside the defined set is
// requested.
type InvalidModeError struct {
	Value   string
	Allowed []string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid interaction mode %q (allowed: %s)", e.Value, strings.Join(e.Allowed, ", "))
}

func invalidMode(value string) *InvalidModeError {
	return &InvalidModeError{Value: value, Allowed: append([]string(nil), modeNames...)}
}

// ParseMode converts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModeNormal, invalidMode(s)
}

// Cursor is the pointer shape the host should show.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorOpenHand
	CursorCrosshair
	CursorClosedHand
)

func (c Cursor) String() string {
	switch c {
	case CursorOpenHand:
		return "open-hand"
	case CursorCrosshair:
		return "crosshair"
	case CursorClosedHand:
		return "closed-hand"
	default:
		return "arrow"
	}
}
