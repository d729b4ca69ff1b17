package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"graphfield/internal/nav"
	"graphfield/pkg/colorutil"
)

// Validate checks every setting and joins all problems found. Each problem
// is a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	f := c.Field
	if !positive(f.XRange) {
		add(invalid("field.x_range", "must be positive, got %g", f.XRange))
	}
	if !positive(f.YRange) {
		add(invalid("field.y_range", "must be positive, got %g", f.YRange))
	}
	if f.Margin < 0 || math.IsNaN(f.Margin) {
		add(invalid("field.margin", "must not be negative, got %g", f.Margin))
	}
	if f.Width < 0 || f.Height < 0 {
		add(invalid("field.width", "surface size must not be negative, got %gx%g", f.Width, f.Height))
	}
	if _, err := nav.ParseMode(f.Mode); err != nil {
		add(invalid("field.mode", "%v", err))
	}
	if f.MaskLoader != "go" && f.MaskLoader != "opencv" {
		add(invalid("field.mask_loader", "must be go or opencv, got %q", f.MaskLoader))
	}
	add(checkColor("field.background", f.Background))

	widgets := make(map[string]map[string]bool)
	for i, a := range c.Axes {
		prefix := fmt.Sprintf("axes[%d]", i)
		if a.Name == "" {
			add(invalid(prefix+".name", "must be set"))
		} else if widgets[a.Name] != nil {
			add(invalid(prefix+".name", "duplicate widget %q", a.Name))
		}
		names := make(map[string]bool)
		widgets[a.Name] = names
		errs = append(errs, a.validate(prefix, names)...)
	}

	ids := make(map[string]bool)
	for i, z := range c.Zones {
		prefix := fmt.Sprintf("zones[%d]", i)
		if z.ID == "" {
			add(invalid(prefix+".id", "must be set"))
		} else if ids[z.ID] {
			add(invalid(prefix+".id", "duplicate zone %q", z.ID))
		}
		ids[z.ID] = true
		errs = append(errs, z.validate(prefix)...)
		if z.Activates != "" {
			widget, axis, _ := strings.Cut(z.Activates, ".")
			names, ok := widgets[widget]
			if !ok || (axis != "" && !names[axis]) {
				add(invalid(prefix+".activates", "no widget or axis %q", z.Activates))
			}
		}
	}
	return errors.Join(errs...)
}

func (a AxesConfig) validate(prefix string, names map[string]bool) []error {
	var errs []error
	if !positive(a.ArrowLength) {
		errs = append(errs, invalid(prefix+".arrow_length", "must be positive, got %g", a.ArrowLength))
	}
	if a.FontSizeRel < 0 || a.FontSize < 0 {
		errs = append(errs, invalid(prefix+".font_size", "must not be negative"))
	}
	if err := checkColor(prefix+".pen_color", a.PenColor); err != nil {
		errs = append(errs, err)
	}
	if err := checkColor(prefix+".pen_color_activated", a.PenColorActivated); err != nil {
		errs = append(errs, err)
	}
	if a.Arrow.Angle <= 0 || a.Arrow.Angle >= 90 {
		errs = append(errs, invalid(prefix+".arrow.angle", "must be in (0, 90), got %g", a.Arrow.Angle))
	}

	straight := make(map[string]bool)
	for j, ax := range a.Axis {
		p := fmt.Sprintf("%s.axis[%d]", prefix, j)
		if ax.Name == "" || names[ax.Name] {
			errs = append(errs, invalid(p+".name", "must be set and unique, got %q", ax.Name))
		}
		names[ax.Name] = true
		straight[ax.Name] = true
	}
	for j, r := range a.RoundAxis {
		p := fmt.Sprintf("%s.round_axis[%d]", prefix, j)
		if r.Name == "" || names[r.Name] {
			errs = append(errs, invalid(p+".name", "must be set and unique, got %q", r.Name))
		}
		names[r.Name] = true
		if !straight[r.Parent] {
			errs = append(errs, invalid(p+".parent", "no straight axis %q", r.Parent))
		}
		if !positive(r.RelWidth) {
			errs = append(errs, invalid(p+".rel_width", "must be positive, got %g", r.RelWidth))
		}
	}
	return errs
}

func (z ZoneConfig) validate(prefix string) []error {
	var errs []error
	switch z.Kind {
	case ZoneRect:
		if z.Rect[2] == 0 || z.Rect[3] == 0 {
			errs = append(errs, invalid(prefix+".rect", "width and height must be non-zero"))
		}
	case ZoneCircle:
		if !positive(z.Radius) {
			errs = append(errs, invalid(prefix+".radius", "must be positive, got %g", z.Radius))
		}
	case ZonePolygon:
		if len(z.Points) < 3 {
			errs = append(errs, invalid(prefix+".points", "need at least 3 points, got %d", len(z.Points)))
		}
	case ZoneMask:
		if z.Mask == "" {
			errs = append(errs, invalid(prefix+".mask", "must name an image file"))
		}
	case ZoneNone:
	default:
		errs = append(errs, invalid(prefix+".kind", "must be one of rect, circle, polygon, mask, none; got %q", z.Kind))
	}
	if z.Threshold != nil && (*z.Threshold < 0 || *z.Threshold > 255) {
		errs = append(errs, invalid(prefix+".threshold", "must be in [0, 255], got %d", *z.Threshold))
	}
	return errs
}

func checkColor(field, s string) error {
	if _, err := colorutil.ParseHex(s); err != nil {
		return invalid(field, "%v", err)
	}
	return nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
