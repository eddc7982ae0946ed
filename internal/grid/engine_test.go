package grid

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/sereni/internal/mood"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func ms(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

// newEngine returns an active engine whose viewport is exactly the grid, so
// with a zero offset viewport pixels equal grid coordinates.
func newEngine(t *testing.T, opts ...Option) (*Engine, *mood.Catalogue) {
	t.Helper()
	cat := mood.MustCatalogue()
	e := New(cat, append([]Option{WithOffset(mood.Vec{})}, opts...)...)
	e.Resize(mood.GridWidth, mood.GridHeight)
	e.Activate()
	return e, cat
}

func settle(t *testing.T, e *Engine, maxTicks int) int {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if !e.Tick() {
			return i + 1
		}
	}
	t.Fatalf("engine still %s after %d ticks", e.State(), maxTicks)
	return maxTicks
}

func TestNewSelectsInitialMood(t *testing.T) {
	cat := mood.MustCatalogue()
	e := New(cat)
	assert.Equal(t, InitialOffset, e.Offset())
	assert.Equal(t, Idle, e.State())
	want, _ := cat.FindClosest(InitialOffset)
	assert.Equal(t, want, e.Selected())
	assert.NotEmpty(t, e.Selected().ID)
}

func TestDragPansAndEstimatesVelocity(t *testing.T) {
	e, _ := newEngine(t)

	e.PointerDown(mood.Vec{X: 100, Y: 100}, ms(0))
	assert.Equal(t, Dragging, e.State())

	e.PointerMove(mood.Vec{X: 150, Y: 120}, ms(16))
	assert.Equal(t, mood.Vec{X: 50, Y: 20}, e.Offset())
	v := e.Snapshot().Velocity
	assert.InDelta(t, 40, v.X, 1e-9)
	assert.InDelta(t, 16, v.Y, 1e-9)

	// second sample over 32ms: raw (10, 0) per 16ms
	e.PointerMove(mood.Vec{X: 170, Y: 120}, ms(48))
	v = e.Snapshot().Velocity
	assert.InDelta(t, 0.8*10+0.2*40, v.X, 1e-9)
	assert.InDelta(t, 0.2*16, v.Y, 1e-9)
}

func TestVelocityGuardsZeroElapsed(t *testing.T) {
	e, _ := newEngine(t)
	e.PointerDown(mood.Vec{X: 0, Y: 0}, ms(0))
	e.PointerMove(mood.Vec{X: 10, Y: 0}, ms(0))
	v := e.Snapshot().Velocity
	assert.False(t, math.IsInf(v.X, 0))
	assert.InDelta(t, 0.8*10*16, v.X, 1e-9)
}

func TestSelectionFollowsOffset(t *testing.T) {
	e, cat := newEngine(t)
	target := cat.At(0)

	// drag so that entry 0 sits under the viewport center
	want := mood.CenterOffset(target)
	e.PointerDown(mood.Vec{}, ms(0))
	e.PointerMove(want, ms(100))
	assert.Equal(t, target.ID, e.Selected().ID)
}

func TestTapSnapsToEntry(t *testing.T) {
	e, cat := newEngine(t)
	target := cat.At(0)
	p := mood.Vec{X: target.GX + 30, Y: target.GY - 20}

	e.PointerDown(p, ms(0))
	e.PointerUp(p, ms(80))
	require.Equal(t, Snapping, e.State())
	assert.Equal(t, mood.CenterOffset(target), e.Snapshot().Target)

	settle(t, e, 200)
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, mood.CenterOffset(target), e.Offset())
	assert.Equal(t, target.ID, e.Selected().ID)
}

func TestTapWithJitterIsStillATap(t *testing.T) {
	e, cat := newEngine(t)
	target := cat.At(4)
	p := target.Home()

	e.PointerDown(p, ms(0))
	e.PointerMove(p.Add(mood.Vec{X: 3, Y: -3}), ms(10))
	e.PointerUp(p.Add(mood.Vec{X: 3, Y: -3}), ms(20))
	require.Equal(t, Snapping, e.State())
	assert.Equal(t, mood.CenterOffset(target), e.Snapshot().Target)
}

func TestTapOutsideCutoffIsIgnored(t *testing.T) {
	e, _ := newEngine(t)
	before := e.Snapshot()

	p := mood.Vec{X: -400, Y: -400}
	e.PointerDown(p, ms(0))
	e.PointerUp(p, ms(50))

	after := e.Snapshot()
	assert.Equal(t, Idle, after.State)
	assert.Equal(t, before.Offset, after.Offset)
	assert.Equal(t, before.Selected, after.Selected)
	assert.False(t, e.Tick())
}

func TestTapUsesViewportGeometry(t *testing.T) {
	e, cat := newEngine(t)
	e.Resize(300, 200)
	target := cat.At(8)

	p := e.ToViewport(target.Home())
	assert.Equal(t, target.Home(), e.ToGrid(p))

	e.PointerDown(p, ms(0))
	e.PointerUp(p, ms(10))
	assert.Equal(t, mood.CenterOffset(target), e.Snapshot().Target)
}

func TestFlingThenSnapConverges(t *testing.T) {
	e, _ := newEngine(t)

	e.PointerDown(mood.Vec{X: 300, Y: 300}, ms(0))
	e.PointerMove(mood.Vec{X: 330, Y: 310}, ms(16))
	e.PointerMove(mood.Vec{X: 370, Y: 325}, ms(32))
	e.PointerUp(mood.Vec{X: 370, Y: 325}, ms(40))
	require.Equal(t, Flinging, e.State())

	var (
		prev     = math.Inf(1)
		snapping bool
		ticks    int
	)
	for e.Tick() {
		ticks++
		require.Less(t, ticks, 1000, "fling did not settle")
		s := e.Snapshot()
		if s.State != Snapping {
			require.False(t, snapping, "left snapping before idle")
			continue
		}
		snapping = true
		d := s.Target.Sub(s.Offset).Len()
		assert.LessOrEqual(t, d, prev)
		prev = d
	}
	assert.True(t, snapping)

	s := e.Snapshot()
	assert.Equal(t, Idle, s.State)
	assert.Equal(t, mood.CenterOffset(s.Selected), s.Offset)
}

func TestSnapTerminatesFromFarAway(t *testing.T) {
	for _, v := range []mood.Vec{{X: 5000, Y: -3000}, {X: -1e6, Y: 1e6}, {X: 0.3, Y: 0}} {
		e, _ := newEngine(t, WithOffset(v))
		m, _ := mood.MustCatalogue().FindClosest(v)
		require.True(t, e.SnapTo(m.ID))
		settle(t, e, 200)
		assert.Equal(t, mood.CenterOffset(m), e.Offset())
	}
}

func TestSlowReleaseSnapsImmediately(t *testing.T) {
	e, _ := newEngine(t)
	e.PointerDown(mood.Vec{X: 200, Y: 200}, ms(0))
	e.PointerMove(mood.Vec{X: 210, Y: 200}, ms(1000))
	e.PointerUp(mood.Vec{X: 210, Y: 200}, ms(1100))
	assert.Equal(t, Snapping, e.State())
}

func TestPointerDownCancelsAnimation(t *testing.T) {
	e, cat := newEngine(t)
	require.True(t, e.SnapTo(cat.At(35).ID))
	e.Tick()
	mid := e.Offset()

	e.PointerDown(mood.Vec{X: 10, Y: 10}, ms(0))
	assert.Equal(t, Dragging, e.State())
	assert.Equal(t, mood.Vec{}, e.Snapshot().Velocity)
	assert.False(t, e.Tick())
	assert.Equal(t, mid, e.Offset())
}

func TestStrayEventsAreIgnored(t *testing.T) {
	e, _ := newEngine(t)
	before := e.Snapshot()
	e.PointerMove(mood.Vec{X: 50, Y: 50}, ms(0))
	e.PointerUp(mood.Vec{X: 50, Y: 50}, ms(10))
	assert.Equal(t, before, e.Snapshot())
}

func TestDeactivateStopsAnimation(t *testing.T) {
	e, cat := newEngine(t)
	require.True(t, e.SnapTo(cat.At(20).ID))
	e.Deactivate()

	off := e.Offset()
	assert.False(t, e.Tick())
	assert.Equal(t, off, e.Offset())
	assert.Equal(t, Idle, e.State())

	e.PointerDown(mood.Vec{}, ms(0))
	assert.Equal(t, Idle, e.State())
	assert.False(t, e.SnapTo(cat.At(0).ID))
}

func TestStepMovesToNeighbour(t *testing.T) {
	e, cat := newEngine(t)
	require.True(t, e.SnapTo(cat.At(0).ID))
	settle(t, e, 200)

	e.Step(1, 0)
	assert.Equal(t, mood.CenterOffset(cat.At(1)), e.Snapshot().Target)
	// stepping again mid-snap continues from the pending target
	e.Step(1, 0)
	assert.Equal(t, mood.CenterOffset(cat.At(2)), e.Snapshot().Target)
	settle(t, e, 200)
	assert.Equal(t, cat.At(2).ID, e.Selected().ID)
}

func TestSnapToUnknown(t *testing.T) {
	e, _ := newEngine(t)
	assert.False(t, e.SnapTo("nope"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "flinging", Flinging.String())
	assert.Equal(t, "unknown", State(9).String())
}
