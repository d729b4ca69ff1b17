package axes

import (
	"math"
	"testing"

	"graphfield/internal/arrow"
	"graphfield/internal/paint"
	"graphfield/internal/view"
	"graphfield/pkg/colorutil"
	"graphfield/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPoint(t *testing.T, want, got geometry.Point2D) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
}

func TestDirection(t *testing.T) {
	s3 := math.Sqrt(3) / 2
	tests := []struct {
		def  [3]int
		want geometry.Point2D
	}{
		{def: [3]int{1, 0, 0}, want: geometry.NewPoint2D(-s3, 0.5)},
		{def: [3]int{0, 1, 0}, want: geometry.NewPoint2D(s3, 0.5)},
		{def: [3]int{0, 0, 1}, want: geometry.NewPoint2D(0, -1)},
		{def: [3]int{1, -1, 0}, want: geometry.NewPoint2D(-2*s3, 0)},
		{def: [3]int{1, 1, 0}, want: geometry.NewPoint2D(0, 1)},
		{def: [3]int{0, 0, -2}, want: geometry.NewPoint2D(0, 2)},
		{def: [3]int{1, 1, 1}, want: geometry.NewPoint2D(0, 0)},
		{def: [3]int{0, 0, 0}, want: geometry.NewPoint2D(0, 0)},
	}
	for _, tt := range tests {
		assertPoint(t, tt.want, Direction(tt.def))
	}
}

func newWidget(t *testing.T) *Widget {
	t.Helper()
	p := DefaultParams()
	p.FontSizeRel = 0.2
	w := New(500, 500, p)
	require.NoError(t, w.AddAxis(&Axis{Name: "x", Definition: [3]int{0, 1, 0}, NotationShift: [2]float64{1, 0}}))
	require.NoError(t, w.AddAxis(&Axis{Name: "y", Definition: [3]int{0, 0, 1}, NotationShift: [2]float64{1, 0}}))
	return w
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0.15, p.FontSizeRel)
	assert.Equal(t, colorutil.Red, p.PenColorActivated)
	assert.Equal(t, 33.0, p.Arrow.Angle)
	assert.Equal(t, 3.0, New(0, 0, p).RelWidth())
}

func TestReserveBudget(t *testing.T) {
	w := newWidget(t)
	assert.Equal(t, 3.0, w.RelWidth())

	require.NoError(t, w.AddRoundAxis(&RoundAxis{
		Axis:              Axis{Name: "rx", NotationShift: [2]float64{1, 0.5}},
		Parent:            "x",
		Shift:             0.1,
		RelWidth:          0.3,
		AxisNotationShift: [2]float64{0, 0.9},
	}))
	require.NoError(t, w.Reserve())
	// 3 + 2*(0.3 + 0.1 + 2*2*1*0.2)
	assert.InDelta(t, 5.4, w.RelWidth(), 1e-12)

	x, ok := w.Axis("x")
	require.True(t, ok)
	assert.Equal(t, [2]float64{0, 0.9}, x.LabelShift())
	y, _ := w.Axis("y")
	assert.Equal(t, [2]float64{1, 0}, y.LabelShift())

	// rerunning starts from the configured values
	require.NoError(t, w.Reserve())
	assert.InDelta(t, 5.4, w.RelWidth(), 1e-12)
	assert.Equal(t, [2]float64{0, 0.9}, x.LabelShift())
}

func TestReserveInvertFollowsParent(t *testing.T) {
	w := newWidget(t)
	require.NoError(t, w.AddAxis(&Axis{Name: "d", Definition: [3]int{1, -1, 0}}))
	require.NoError(t, w.AddAxis(&Axis{Name: "n", Definition: [3]int{0, 0, -1}}))
	up := &RoundAxis{Axis: Axis{Name: "ry", Definition: [3]int{0, 0, -1}}, Parent: "y", RelWidth: 0.2}
	balanced := &RoundAxis{Axis: Axis{Name: "rd"}, Parent: "d", RelWidth: 0.2}
	down := &RoundAxis{Axis: Axis{Name: "rn"}, Parent: "n", RelWidth: 0.2}
	for _, r := range []*RoundAxis{up, balanced, down} {
		require.NoError(t, w.AddRoundAxis(r))
	}

	require.NoError(t, w.Reserve())
	assert.False(t, up.Inverted(), "parent (0,0,1) sums to 1")
	assert.Equal(t, [3]int{0, 0, 1}, up.Definition, "definition comes from the parent")
	assert.True(t, balanced.Inverted(), "parent (1,-1,0) sums to 0")
	assert.True(t, down.Inverted())

	w.Clockwise = true
	require.NoError(t, w.Reserve())
	assert.True(t, up.Inverted())
	assert.False(t, balanced.Inverted())
	assert.False(t, down.Inverted())
}

func TestReserveErrors(t *testing.T) {
	w := newWidget(t)
	require.NoError(t, w.AddRoundAxis(&RoundAxis{Axis: Axis{Name: "r"}, Parent: "missing"}))
	assert.ErrorIs(t, w.Reserve(), ErrUnknownParent)

	w = newWidget(t)
	assert.ErrorIs(t, w.AddAxis(&Axis{Name: "x", Definition: [3]int{1, 0, 0}}), ErrDuplicateAxis)
	assert.ErrorIs(t, w.AddRoundAxis(&RoundAxis{Axis: Axis{Name: "y"}, Parent: "x"}), ErrDuplicateAxis)
}

func placed(t *testing.T, w *Widget) *view.View {
	t.Helper()
	v, err := view.New(view.Config{XRange: 1000, YRange: 1000, KeepRatio: true, Scale: true, Width: 500, Height: 500})
	require.NoError(t, err)
	require.NoError(t, w.Reserve())
	v.AddObject(w)
	return v
}

func TestSizeFollowsView(t *testing.T) {
	w := newWidget(t)
	v := placed(t, w)
	// arrow length 100 units is 50 px
	assert.Equal(t, 150.0, w.Bounds().Width)
	assertPoint(t, geometry.NewPoint2D(250, 250), w.Bounds().Center())

	require.NoError(t, v.ZoomIn(0.5))
	assert.Equal(t, 300.0, w.Bounds().Width)
}

func TestSizeRoundsToWholePixels(t *testing.T) {
	w := newWidget(t)
	require.NoError(t, w.AddRoundAxis(&RoundAxis{Axis: Axis{Name: "r"}, Parent: "y", Shift: 0.013}))
	placed(t, w)
	// 3.026 arrow lengths of 50 px
	assert.Equal(t, 151.0, w.Bounds().Width)
}

func TestPaintStraightAxes(t *testing.T) {
	w := newWidget(t)
	placed(t, w)
	rec := paint.NewRecorder(500, 500)
	w.Paint(rec)

	lines := rec.Filter(paint.OpLine)
	require.Len(t, lines, 6)
	assert.Equal(t, geometry.NewPoint2D(250, 250), lines[0].Points[0])
	// 250 + 50*sqrt(3)/2, 250 + 25
	assert.Equal(t, geometry.NewPoint2D(293, 275), lines[0].Points[1])
	assert.Equal(t, geometry.NewPoint2D(250, 200), lines[3].Points[1])
	assert.Equal(t, 1.0, lines[0].Width)
	assert.Equal(t, "#000000", lines[0].Color)

	texts := rec.Filter(paint.OpText)
	require.Len(t, texts, 2)
	// font is round(0.2 * 50) px; label one font size past the tip
	assert.Equal(t, "x", texts[0].Text)
	assertPoint(t, geometry.NewPoint2D(302, 280), texts[0].Rect.Center())
	assert.Equal(t, "y", texts[1].Text)
	assertPoint(t, geometry.NewPoint2D(250, 190), texts[1].Rect.Center())
	assert.InDelta(t, 20, texts[1].Rect.Width, 1e-9)
	assert.False(t, texts[1].Bold)

	assert.Equal(t, paint.DefaultPen, rec.Pen(), "pen is restored")
}

func TestPaintFontSizeIsRounded(t *testing.T) {
	w := newWidget(t)
	w.FontSizeRel = 0.15
	placed(t, w)
	rec := paint.NewRecorder(500, 500)
	w.Paint(rec)
	// 0.15 * 50 = 7.5
	assert.Equal(t, 8.0, rec.Filter(paint.OpText)[0].FontSize)

	w.FontSize = 13
	rec.Reset()
	w.Paint(rec)
	assert.Equal(t, 13.0, rec.Filter(paint.OpText)[0].FontSize)
}

func TestPaintZeroDefinition(t *testing.T) {
	w := newWidget(t)
	require.NoError(t, w.AddAxis(&Axis{Name: "z", Definition: [3]int{1, 1, 1}, NotationShift: [2]float64{1, 1}}))
	placed(t, w)
	rec := paint.NewRecorder(500, 500)
	w.Paint(rec)

	lines := rec.Filter(paint.OpLine)
	require.Len(t, lines, 7, "a zero-length arrow is a bare shaft")
	assert.Equal(t, []geometry.Point2D{{X: 250, Y: 250}, {X: 250, Y: 250}}, lines[6].Points)
	texts := rec.Filter(paint.OpText)
	require.Len(t, texts, 3)
	assertPoint(t, geometry.NewPoint2D(250, 250), texts[2].Rect.Center())
}

func TestPaintActivated(t *testing.T) {
	w := newWidget(t)
	placed(t, w)
	y, _ := w.Axis("y")
	y.Activated = true

	rec := paint.NewRecorder(500, 500)
	w.Paint(rec)
	lines := rec.Filter(paint.OpLine)
	assert.Equal(t, 1.0, lines[0].Width)
	assert.Equal(t, 2.0, lines[3].Width)
	assert.Equal(t, "#ff0000", lines[3].Color)
	assert.True(t, rec.Filter(paint.OpText)[1].Bold)

	y.Activated = false
	w.Activated = true
	rec.Reset()
	w.Paint(rec)
	for _, op := range rec.Filter(paint.OpLine) {
		assert.Equal(t, 2.0, op.Width)
	}
}

func TestPaintRoundAxis(t *testing.T) {
	w := newWidget(t)
	require.NoError(t, w.AddRoundAxis(&RoundAxis{
		Axis:              Axis{Name: "ry", NotationShift: [2]float64{1, 1}},
		Parent:            "y",
		Shift:             0.2,
		RelWidth:          0.4,
		AxisNotationShift: [2]float64{0, 0.9},
		Style:             arrow.DefaultRoundStyle(),
	}))
	placed(t, w)
	// 3 + 2*(0.4 + 0.2 + 2*2*1*0.2) arrow lengths
	assert.Equal(t, 290.0, w.Bounds().Width)

	rec := paint.NewRecorder(500, 500)
	rec.SetFont(paint.Font{Size: 11})
	w.Paint(rec)

	arcs := rec.Filter(paint.OpArc)
	require.Len(t, arcs, 1)
	// centre at (1 + 0.2 + 0.2) arrow lengths above the widget centre
	assert.Equal(t, geometry.NewPoint2D(250, 180), arcs[0].Points[0])
	assert.Equal(t, 20.0, arcs[0].Diameter)

	texts := rec.Filter(paint.OpText)
	require.Len(t, texts, 3)
	// parent label moved 0.9 font sizes to the left of its tip
	assertPoint(t, geometry.NewPoint2D(241, 200), texts[1].Rect.Center())
	assert.Equal(t, 10.0, texts[1].FontSize)

	// (-10,-10) stretched by 1 + 20/(2*|(-10,-10)|), rounded
	assertPoint(t, geometry.NewPoint2D(233, 163), texts[2].Rect.Center())
	assert.Equal(t, 9.0, texts[2].FontSize)
	assert.InDelta(t, 2*9*2, texts[2].Rect.Width, 1e-9)

	assert.Equal(t, paint.Font{Size: 11}, rec.Font(), "font is restored")
}
