package app

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"graphfield/internal/config"
	"graphfield/internal/mask"
	"graphfield/internal/nav"
	"graphfield/internal/paint"
	"graphfield/internal/view"
	"graphfield/internal/zone"
	"graphfield/pkg/colorutil"
	"graphfield/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func newField(t *testing.T, cfg *config.Config) *Field {
	t.Helper()
	require.NoError(t, cfg.Validate())
	f, err := NewField(cfg, nil)
	require.NoError(t, err)
	return f
}

func TestNewFieldFromDefault(t *testing.T) {
	f := newField(t, config.Default())
	require.Len(t, f.Widgets(), 1)
	assert.Len(t, f.View.Objects(), 1)
	assert.Len(t, f.Zones.Zones(), 1)
	assert.Equal(t, nav.ModeNormal, f.Nav.Mode())

	w := f.Widgets()[0]
	assert.Equal(t, pt(250, 250), w.Bounds().Center())
}

func TestInitialModeFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Field.Mode = "select"
	f := newField(t, cfg)
	assert.Equal(t, nav.CursorCrosshair, f.Nav.Cursor())
}

func TestZoneActivatesWidget(t *testing.T) {
	f := newField(t, config.Default())
	w := f.Widgets()[0]

	var entered, left []string
	f.On(EventZoneEnter, func(data any) { entered = append(entered, data.(zone.Event).Zone.ID) })
	f.On(EventZoneLeave, func(data any) { left = append(left, data.(zone.Event).Zone.ID) })

	f.Nav.Move(pt(250, 250))
	assert.True(t, w.Activated)
	assert.True(t, f.View.NeedsRepaint())
	f.Nav.Move(pt(260, 250))
	f.Nav.Move(pt(5, 5))
	assert.False(t, w.Activated)
	assert.Equal(t, []string{"centre"}, entered)
	assert.Equal(t, []string{"centre"}, left)
}

func TestZoneActivatesSingleAxis(t *testing.T) {
	cfg := config.Default()
	cfg.Zones = append(cfg.Zones, config.ZoneConfig{
		ID: "corner", Kind: config.ZoneRect, Rect: [4]float64{0, 0, 100, 100}, Activates: "axes.x",
	})
	f := newField(t, cfg)
	x, ok := f.Widgets()[0].Axis("x")
	require.True(t, ok)

	f.Nav.Move(pt(10, 10))
	assert.True(t, x.Activated)
	assert.False(t, f.Widgets()[0].Activated)
}

func TestClickEvents(t *testing.T) {
	f := newField(t, config.Default())
	var clicked, double int
	f.On(EventZoneClicked, func(any) { clicked++ })
	f.On(EventZoneDoubleClicked, func(any) { double++ })

	f.Nav.Click(pt(250, 250))
	f.Nav.DoubleClick(pt(250, 250))
	f.Nav.Click(pt(1, 1))
	assert.Equal(t, 1, clicked)
	assert.Equal(t, 1, double)
}

func TestViewAndCursorEvents(t *testing.T) {
	f := newField(t, config.Default())
	var views int
	var cursors []nav.Cursor
	f.On(EventViewChanged, func(data any) {
		_, ok := data.(*view.View)
		assert.True(t, ok)
		views++
	})
	f.On(EventCursorChanged, func(data any) { cursors = append(cursors, data.(nav.Cursor)) })

	require.NoError(t, f.View.ZoomIn(view.DefaultZoomStep))
	require.NoError(t, f.Nav.SetMode(nav.ModeGrab))
	assert.Equal(t, 1, views)
	assert.Equal(t, []nav.Cursor{nav.CursorOpenHand}, cursors)
}

func TestActivate(t *testing.T) {
	f := newField(t, config.Default())
	require.NoError(t, f.Activate("axes.Ry", true))
	ry, _ := f.Widgets()[0].Axis("Ry")
	assert.True(t, ry.Activated)

	assert.ErrorIs(t, f.Activate("nope", true), ErrUnknownTarget)
	assert.ErrorIs(t, f.Activate("axes.nope", true), ErrUnknownTarget)
}

func TestMaskZoneUsesLoader(t *testing.T) {
	cfg := config.Default()
	threshold := 123
	cfg.Zones = []config.ZoneConfig{{ID: "m", Kind: config.ZoneMask, Mask: "shape.png", Threshold: &threshold}}

	var gotPath string
	var gotThreshold uint8
	loader := func(path string, th uint8) (*mask.Mask, error) {
		gotPath, gotThreshold = path, th
		m, err := mask.New(10, 10)
		if err != nil {
			return nil, err
		}
		m.Set(5, 5, true)
		return m, nil
	}
	f, err := NewField(cfg, loader)
	require.NoError(t, err)
	assert.Equal(t, "shape.png", gotPath)
	assert.Equal(t, uint8(123), gotThreshold)

	// 10 columns over 1000 units: cell (5,5) is nearest for 450..550
	assert.Equal(t, []string{"m"}, f.ZonesAt(520, 480))
	assert.Empty(t, f.ZonesAt(440, 520))

	_, err = NewField(cfg, nil)
	assert.Error(t, err)
}

func TestPaint(t *testing.T) {
	f := newField(t, config.Default())
	rec := paint.NewRecorder(500, 500)
	f.Paint(rec)

	require.Greater(t, len(rec.Ops), 2)
	assert.Equal(t, paint.OpFillRect, rec.Ops[0].Kind)
	assert.Equal(t, "#808080", rec.Ops[0].Color)
	assert.Equal(t, paint.OpFillRect, rec.Ops[1].Kind)
	assert.Equal(t, "#ffffff", rec.Ops[1].Color)
	assert.Equal(t, geometry.NewRect(0, 0, 500, 500), rec.Ops[1].Rect)
	assert.Len(t, rec.Filter(paint.OpArc), 1)
	assert.Len(t, rec.Filter(paint.OpText), 3)
	assert.False(t, f.View.NeedsRepaint())
}

func TestPaintSampleAreaFollowsZoom(t *testing.T) {
	f := newField(t, config.Default())
	require.NoError(t, f.View.ZoomIn(0.5))

	rec := paint.NewRecorder(500, 500)
	f.Paint(rec)
	// one pixel per unit, window starting at 250
	assert.Equal(t, geometry.NewRect(-250, -250, 1000, 1000), rec.Ops[1].Rect)
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bg.png")
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(out, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, out.Close())
	return path
}

func TestBackgroundUsesPictureCoordinates(t *testing.T) {
	cfg := config.Default()
	cfg.Zones = []config.ZoneConfig{{ID: "m", Kind: config.ZoneMask, Mask: "shape.png"}}
	loader := func(string, uint8) (*mask.Mask, error) {
		m, err := mask.New(10, 10)
		if err != nil {
			return nil, err
		}
		m.Set(5, 5, true)
		return m, nil
	}
	f, err := NewField(cfg, loader)
	require.NoError(t, err)
	assert.Empty(t, f.ZonesAt(52, 48))

	require.NoError(t, f.SetBackgroundFromFile(writePNG(t, 100, 50), true))
	s := f.View.State()
	assert.Equal(t, 100.0, s.XRange)
	assert.Equal(t, 50.0, s.YRange)
	assert.Equal(t, 100.0, s.ZoomW)
	// mask cells now span 10 units
	assert.Equal(t, []string{"m"}, f.ZonesAt(52, 48))

	rec := paint.NewRecorder(500, 500)
	f.Paint(rec)
	imgs := rec.Filter(paint.OpImage)
	require.Len(t, imgs, 1)
	assert.Equal(t, geometry.NewRect(0, 0, 500, 250), imgs[0].Rect)
	// the sample area is square on XRange
	assert.Equal(t, geometry.NewRect(0, 0, 500, 500), rec.Ops[1].Rect)

	assert.Error(t, f.SetBackgroundFromFile(filepath.Join(t.TempDir(), "missing.png"), true))
}

func TestBackgroundFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Field.BackgroundImage = writePNG(t, 40, 30)
	f := newField(t, cfg)
	pic, ok := f.View.Background()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 40, 30), pic.Image().Bounds())
	assert.Equal(t, 1000.0, f.View.State().XRange, "ranges stay without picture coordinates")
}

func TestPaintSelection(t *testing.T) {
	f := newField(t, config.Default())
	require.NoError(t, f.Nav.SetMode(nav.ModeSelect))
	f.Nav.Press(pt(10, 10))
	f.Nav.Move(pt(30, 20))

	rec := paint.NewRecorder(500, 500)
	f.Paint(rec)
	yellow := colorutil.Hex(colorutil.Yellow)
	dashes := 0
	for _, op := range rec.Filter(paint.OpLine) {
		if op.Color == yellow {
			dashes++
		}
	}
	// 20 + 10 + 20 + 10 px of edge in 4 px periods
	assert.Equal(t, 5+3+5+3, dashes)
	assert.Equal(t, paint.DefaultPen, rec.Pen())
}

func TestConfigWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field.toml")
	require.NoError(t, os.WriteFile(path, []byte("[field]\n"), 0o644))

	w, err := NewConfigWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	changed := make(chan string, 4)
	w.OnChange(func(p string) { changed <- p })
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("[field]\nmargin = 1\n"), 0o644))

	select {
	case p := <-changed:
		assert.Equal(t, w.Path(), p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
