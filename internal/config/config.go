// Package config holds the settings a field is built from and loads them
// from TOML or YAML files. Unknown keys are rejected.
package config

// DefaultThreshold is the mask threshold used when a zone sets none.
const DefaultThreshold = 10

// Config is the root of a field configuration file.
type Config struct {
	Field FieldConfig  `toml:"field" yaml:"field"`
	Axes  []AxesConfig `toml:"axes" yaml:"axes"`
	Zones []ZoneConfig `toml:"zones" yaml:"zones"`
}

// FieldConfig sets up the view and the interaction defaults.
type FieldConfig struct {
	XRange     float64 `toml:"x_range" yaml:"x_range"`
	YRange     float64 `toml:"y_range" yaml:"y_range"`
	Margin     float64 `toml:"margin" yaml:"margin"`
	KeepRatio  bool    `toml:"keep_ratio" yaml:"keep_ratio"`
	Scale      bool    `toml:"scale" yaml:"scale"`
	Width      float64 `toml:"width" yaml:"width"`   // initial surface width, pixels
	Height     float64 `toml:"height" yaml:"height"` // initial surface height, pixels
	Mode       string  `toml:"mode" yaml:"mode"`
	MaskLoader string  `toml:"mask_loader" yaml:"mask_loader"` // "go" or "opencv"
	Background string  `toml:"background" yaml:"background"`

	// BackgroundImage is drawn at the origin, stretched over the logical
	// space. With UsePictureCoordinates the logical space takes the image's
	// pixel size.
	BackgroundImage       string `toml:"background_image" yaml:"background_image"`
	UsePictureCoordinates bool   `toml:"use_picture_coordinates" yaml:"use_picture_coordinates"`
}

// ArrowParams shapes arrow heads.
type ArrowParams struct {
	FixedWidth float64 `toml:"fixed_width" yaml:"fixed_width"`
	RelWidth   float64 `toml:"rel_width" yaml:"rel_width"`
	Angle      float64 `toml:"angle" yaml:"angle"`
	FilledHead bool    `toml:"filled_head" yaml:"filled_head"`
}

// AxisConfig is one straight axis.
type AxisConfig struct {
	Name          string     `toml:"name" yaml:"name"`
	Definition    [3]int     `toml:"definition" yaml:"definition"`
	NotationShift [2]float64 `toml:"notation_shift" yaml:"notation_shift"`
}

// RoundAxisConfig is one circular axis drawn beyond its parent. It takes
// the parent's definition. An empty name becomes "R" plus the parent name.
type RoundAxisConfig struct {
	Name              string     `toml:"name" yaml:"name"`
	Parent            string     `toml:"parent" yaml:"parent"`
	NotationShift     [2]float64 `toml:"notation_shift" yaml:"notation_shift"`
	AxisNotationShift [2]float64 `toml:"axis_notation_shift" yaml:"axis_notation_shift"` // replaces the parent's notation_shift
	Shift             float64    `toml:"shift" yaml:"shift"`
	RelWidth          float64    `toml:"rel_width" yaml:"rel_width"`
	StartAngle        float64    `toml:"start_angle" yaml:"start_angle"`
	EndAngle          float64    `toml:"end_angle" yaml:"end_angle"`
	Rotation          float64    `toml:"rotation" yaml:"rotation"`
}

// AxesConfig is one axes widget.
type AxesConfig struct {
	Name              string            `toml:"name" yaml:"name"`
	X                 float64           `toml:"x" yaml:"x"`
	Y                 float64           `toml:"y" yaml:"y"`
	ArrowLength       float64           `toml:"arrow_length" yaml:"arrow_length"`
	FontSizeRel       float64           `toml:"font_size_rel" yaml:"font_size_rel"`
	FontSize          float64           `toml:"font_size" yaml:"font_size"`
	PenWidth          float64           `toml:"pen_width" yaml:"pen_width"`
	PenColor          string            `toml:"pen_color" yaml:"pen_color"`
	PenWidthActivated float64           `toml:"pen_width_activated" yaml:"pen_width_activated"`
	PenColorActivated string            `toml:"pen_color_activated" yaml:"pen_color_activated"`
	Clockwise         bool              `toml:"clockwise" yaml:"clockwise"`
	Activated         bool              `toml:"activated" yaml:"activated"`
	Arrow             ArrowParams       `toml:"arrow" yaml:"arrow"`
	Axis              []AxisConfig      `toml:"axis" yaml:"axis"`
	RoundAxis         []RoundAxisConfig `toml:"round_axis" yaml:"round_axis"`
}

// Zone kinds.
const (
	ZoneRect    = "rect"
	ZoneCircle  = "circle"
	ZonePolygon = "polygon"
	ZoneMask    = "mask"
	ZoneNone    = "none"
)

// ZoneConfig is one hit-test zone in normalized coordinates.
type ZoneConfig struct {
	ID        string       `toml:"id" yaml:"id"`
	Kind      string       `toml:"kind" yaml:"kind"`
	Rect      [4]float64   `toml:"rect" yaml:"rect"` // x, y, width, height
	Center    [2]float64   `toml:"center" yaml:"center"`
	Radius    float64      `toml:"radius" yaml:"radius"`
	Points    [][2]float64 `toml:"points" yaml:"points"`
	Mask      string       `toml:"mask" yaml:"mask"`
	Threshold *int         `toml:"threshold,omitempty" yaml:"threshold,omitempty"`
	// Activates names a widget ("axes") or one of its axes ("axes.x")
	// that is highlighted while the pointer is inside the zone.
	Activates string `toml:"activates" yaml:"activates"`
}

// MaskThreshold returns the configured threshold or DefaultThreshold.
func (z ZoneConfig) MaskThreshold() uint8 {
	if z.Threshold == nil {
		return DefaultThreshold
	}
	return uint8(*z.Threshold)
}

// Default returns a 1000x1000 field with one axes widget in the middle that
// lights up when the pointer is near it.
func Default() *Config {
	c := &Config{
		Field: defaultField(),
		Axes: []AxesConfig{{
			Name: "axes",
			X:    500,
			Y:    500,
			Axis: []AxisConfig{
				{Name: "x", Definition: [3]int{0, 1, 0}},
				{Name: "y", Definition: [3]int{0, 0, 1}},
			},
			RoundAxis: []RoundAxisConfig{{Parent: "y"}},
		}},
		Zones: []ZoneConfig{
			{ID: "centre", Kind: ZoneCircle, Center: [2]float64{500, 500}, Radius: 150, Activates: "axes"},
		},
	}
	c.applyDefaults()
	return c
}

func defaultField() FieldConfig {
	return FieldConfig{
		XRange:     1000,
		YRange:     1000,
		KeepRatio:  true,
		Scale:      true,
		Width:      500,
		Height:     500,
		Mode:       "normal",
		MaskLoader: "go",
		Background: "#ffffff",
	}
}

// applyDefaults fills settings left at their zero value. A zero shift or
// notation shift counts as unset.
func (c *Config) applyDefaults() {
	for i := range c.Axes {
		a := &c.Axes[i]
		if a.ArrowLength == 0 {
			a.ArrowLength = 100
		}
		if a.FontSizeRel == 0 && a.FontSize == 0 {
			a.FontSizeRel = 0.15
		}
		if a.PenWidth == 0 {
			a.PenWidth = 1
		}
		if a.PenWidthActivated == 0 {
			a.PenWidthActivated = 2 * a.PenWidth
		}
		if a.PenColor == "" {
			a.PenColor = "#000000"
		}
		if a.PenColorActivated == "" {
			a.PenColorActivated = "#ff0000"
		}
		if a.Arrow.FixedWidth == 0 && a.Arrow.RelWidth == 0 {
			a.Arrow.RelWidth = 0.1
		}
		if a.Arrow.Angle == 0 {
			a.Arrow.Angle = 33
		}
		for j := range a.Axis {
			if a.Axis[j].NotationShift == [2]float64{} {
				a.Axis[j].NotationShift = [2]float64{0.7, 0.7}
			}
		}
		for j := range a.RoundAxis {
			r := &a.RoundAxis[j]
			if r.Name == "" && r.Parent != "" {
				r.Name = "R" + r.Parent
			}
			if r.NotationShift == [2]float64{} {
				r.NotationShift = [2]float64{0.72, 0.72}
			}
			if r.AxisNotationShift == [2]float64{} {
				r.AxisNotationShift = [2]float64{0, 0.9}
			}
			if r.Shift == 0 {
				r.Shift = 0.15
			}
			if r.StartAngle == 0 && r.EndAngle == 0 {
				r.StartAngle, r.EndAngle = -150, 150
			}
			if r.RelWidth == 0 {
				r.RelWidth = 0.3
			}
		}
	}
	if c.Field.Mode == "" {
		c.Field.Mode = "normal"
	}
	if c.Field.MaskLoader == "" {
		c.Field.MaskLoader = "go"
	}
	if c.Field.Background == "" {
		c.Field.Background = "#ffffff"
	}
}
