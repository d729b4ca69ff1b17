package zone

import (
	"testing"

	"graphfield/internal/mask"
	"graphfield/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskZoneIndexing(t *testing.T) {
	m, err := mask.New(10, 10)
	require.NoError(t, err)
	m.Set(5, 5, true)
	z := NewMask("m", m)

	assert.Equal(t, KindMask, z.Kind())
	assert.True(t, z.Contains(54, 54, 100))
	assert.True(t, z.Contains(46, 53, 100))
	assert.False(t, z.Contains(44, 54, 100))
	assert.False(t, z.Contains(1000, 1000, 100))
	assert.False(t, z.Contains(-5, -5, 100))
}

func TestMaskZoneRoundsToNearestCell(t *testing.T) {
	m, err := mask.New(10, 10)
	require.NoError(t, err)
	m.Set(6, 6, true)
	m.Set(4, 4, true)
	z := NewMask("m", m)

	assert.True(t, z.Contains(59, 59, 100), "5.9 rounds up to cell 6")
	assert.True(t, z.Contains(55, 55, 100), "5.5 is a tie and goes to the even cell")
	assert.True(t, z.Contains(45, 45, 100), "4.5 is a tie and goes to the even cell")
	assert.False(t, z.Contains(51, 51, 100))
	assert.True(t, z.Contains(36, 40, 100))
}

func TestMaskZoneUsesColumnScaleForRows(t *testing.T) {
	// 20 columns by 5 rows over a 100 wide space: k = 0.2 on both axes
	m, err := mask.New(5, 20)
	require.NoError(t, err)
	m.Set(2, 2, true)
	z := NewMask("wide", m)

	assert.True(t, z.Contains(10, 10, 100))
	assert.False(t, z.Contains(10, 50, 100), "row 10 is outside the grid")
}

func TestNullAndNilZones(t *testing.T) {
	for _, z := range []*Zone{NewNull("n"), NewPredicate("p", nil), NewMask("m", nil)} {
		assert.Equal(t, KindNone, z.Kind())
		assert.False(t, z.Contains(1, 1, 100))
	}
}

func TestShapePredicates(t *testing.T) {
	rect := Rect(geometry.NewRect(10, 10, -5, 5))
	assert.True(t, rect(7, 12))
	assert.False(t, rect(11, 12))

	circle := Circle(geometry.NewPoint2D(0, 0), 5)
	assert.True(t, circle(3, 4))
	assert.False(t, circle(4, 4))

	tri := Polygon([]geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}})
	assert.True(t, tri(2, 2))
	assert.False(t, tri(8, 8))
}

func TestClickFiresAllMatchingZonesInOrder(t *testing.T) {
	r := NewRegistry(100)
	a := NewPredicate("a", Rect(geometry.NewRect(0, 0, 50, 50)))
	b := NewPredicate("b", Rect(geometry.NewRect(25, 25, 50, 50)))
	c := NewNull("c")
	r.Register(a)
	r.Register(b)
	r.Register(c)
	r.Register(a)

	var got []string
	r.On(EventClicked, func(e Event) { got = append(got, e.Zone.ID) })

	fired := r.Click(30, 30)
	assert.Equal(t, []string{"a", "b"}, got)
	require.Len(t, fired, 2)
	assert.Equal(t, EventClicked, fired[0].Type)

	got = nil
	r.DoubleClick(30, 30)
	assert.Empty(t, got, "double click has its own event type")
}

func TestHoverSequence(t *testing.T) {
	r := NewRegistry(100)
	z := NewPredicate("z", Rect(geometry.NewRect(10, 10, 10, 10)))
	r.Register(z)

	var events []EventType
	r.OnAny(func(e Event) { events = append(events, e.Type) })

	r.Motion(0, 0)
	assert.Empty(t, events)
	r.Motion(15, 15)
	assert.Equal(t, []EventType{EventMouseEnter}, events)
	assert.True(t, z.Activated())
	r.Motion(16, 12)
	r.Motion(18, 18)
	assert.Len(t, events, 1)
	r.Motion(50, 50)
	assert.Equal(t, []EventType{EventMouseEnter, EventMouseLeave}, events)
	assert.False(t, z.Activated())
}

func TestLeaveAndUnregister(t *testing.T) {
	r := NewRegistry(100)
	z := NewPredicate("z", func(x, y float64) bool { return true })
	r.Register(z)
	r.Motion(1, 1)
	require.True(t, z.Activated())

	fired := r.Leave()
	require.Len(t, fired, 1)
	assert.Equal(t, EventMouseLeave, fired[0].Type)
	assert.False(t, z.Activated())

	r.Motion(1, 1)
	r.Unregister(z)
	assert.False(t, z.Activated())
	assert.Empty(t, r.Zones())
	_, ok := r.Lookup("z")
	assert.False(t, ok)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "mouse-enter", EventMouseEnter.String())
	assert.Equal(t, "EventType(9)", EventType(9).String())
}
