// Package grid animates the mood grid viewport: drag to pan, release to
// fling, and snap the nearest mood under the viewport center.
package grid

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/mood"
)

const (
	// TapThreshold is how far, in pixels on either axis, the pointer may
	// travel before a press counts as a drag.
	TapThreshold = 3.0
	// SnapEase is the fraction of the remaining distance covered per frame.
	SnapEase = 0.14
	// SnapEpsilon is the per-axis distance under which a snap completes.
	SnapEpsilon = 0.5
	// FlingDecay multiplies the velocity every frame.
	FlingDecay = 0.94
	// FlingMin is the per-axis speed under which a release snaps at once.
	FlingMin = 1.0
	// FlingStop is the per-axis speed under which a fling turns into a snap.
	FlingStop = 0.4
	// VelocityWeight is the share of the newest sample in the velocity estimate.
	VelocityWeight = 0.8

	frameMillis = 16.0
)

// InitialOffset leans slightly toward the low-pleasant quadrant so a calm
// mood is selected before the user touches anything.
var InitialOffset = mood.Vec{X: -8, Y: -8}

type State int

const (
	Idle State = iota
	Dragging
	Flinging
	Snapping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Flinging:
		return "flinging"
	case Snapping:
		return "snapping"
	}
	return "unknown"
}

// Snapshot is a read-only copy of the viewport for rendering.
type Snapshot struct {
	Offset   mood.Vec
	Velocity mood.Vec
	State    State
	Selected mood.Entry
	Viewport mood.Vec
	// Target is the snap destination while Snapping.
	Target mood.Vec
}

// Animating reports whether frames are still needed.
func (s Snapshot) Animating() bool { return s.State == Flinging || s.State == Snapping }

type gesture struct {
	start  mood.Vec
	origin mood.Vec
	moved  bool
	last   mood.Vec
	lastAt time.Time
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithOffset sets the starting offset instead of InitialOffset.
func WithOffset(o mood.Vec) Option {
	return func(e *Engine) { e.offset = o }
}

// Engine owns the viewport state. It is driven from a single event loop and
// is not safe for concurrent use. Pointer positions are in pixels relative
// to the viewport's top-left corner.
type Engine struct {
	cat *mood.Catalogue
	log *zap.Logger

	active   bool
	viewport mood.Vec
	offset   mood.Vec
	velocity mood.Vec
	state    State
	target   mood.Vec
	gesture  *gesture
	selected mood.Entry
}

// New returns an inactive engine over cat.
func New(cat *mood.Catalogue, opts ...Option) *Engine {
	e := &Engine{
		cat:      cat,
		log:      zap.NewNop(),
		offset:   InitialOffset,
		viewport: mood.Vec{X: mood.GridWidth, Y: mood.GridHeight},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reselect()
	return e
}

// Activate starts accepting gestures and frames.
func (e *Engine) Activate() {
	e.active = true
}

// Deactivate stops any animation and drops the gesture in progress. Ticks
// after this are no-ops until the next Activate.
func (e *Engine) Deactivate() {
	e.cancel()
	e.gesture = nil
	e.active = false
}

func (e *Engine) Active() bool { return e.active }

// Resize sets the viewport size in pixels.
func (e *Engine) Resize(w, h float64) {
	e.viewport = mood.Vec{X: w, Y: h}
}

// PointerDown starts a drag, cancelling any fling or snap in flight.
func (e *Engine) PointerDown(p mood.Vec, at time.Time) {
	if !e.active {
		return
	}
	e.cancel()
	e.gesture = &gesture{start: p, origin: e.offset, last: p, lastAt: at}
	e.setState(Dragging)
}

// PointerMove pans the viewport with the pointer and refreshes the velocity
// estimate. Moves without a pointer down are ignored.
func (e *Engine) PointerMove(p mood.Vec, at time.Time) {
	g := e.gesture
	if g == nil {
		return
	}
	d := p.Sub(g.start)
	if math.Abs(d.X) > TapThreshold || math.Abs(d.Y) > TapThreshold {
		g.moved = true
	}

	dt := math.Max(float64(at.Sub(g.lastAt))/float64(time.Millisecond), 1)
	sample := p.Sub(g.last).Scale(frameMillis / dt)
	e.velocity = sample.Scale(VelocityWeight).Add(e.velocity.Scale(1 - VelocityWeight))
	g.last, g.lastAt = p, at

	e.setOffset(g.origin.Add(d))
}

// PointerUp ends the gesture. A tap snaps to the mood under the pointer, if
// any lies within a cell of it; a drag flings. A release without a press is
// ignored.
func (e *Engine) PointerUp(p mood.Vec, at time.Time) {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil

	if !g.moved {
		if m, ok := e.cat.FindTapped(e.ToGrid(p)); ok {
			e.log.Debug("tap", zap.String("mood", m.ID))
			e.snapTo(m)
			return
		}
		e.velocity = mood.Vec{}
		e.setState(Idle)
		return
	}
	e.fling()
}

// ToGrid converts a viewport pixel position to grid space for the current
// offset.
func (e *Engine) ToGrid(p mood.Vec) mood.Vec {
	origin := e.viewport.Scale(0.5).Sub(mood.GridCenter).Add(e.offset)
	return p.Sub(origin)
}

// ToViewport converts a grid-space point to viewport pixels.
func (e *Engine) ToViewport(g mood.Vec) mood.Vec {
	origin := e.viewport.Scale(0.5).Sub(mood.GridCenter).Add(e.offset)
	return g.Add(origin)
}

// Tick advances one frame. It reports whether another frame is needed.
func (e *Engine) Tick() bool {
	if !e.active {
		return false
	}
	switch e.state {
	case Flinging:
		e.velocity = e.velocity.Scale(FlingDecay)
		if math.Abs(e.velocity.X) < FlingStop && math.Abs(e.velocity.Y) < FlingStop {
			m, _ := e.cat.FindClosest(e.offset)
			e.snapTo(m)
		} else {
			e.setOffset(e.offset.Add(e.velocity))
		}
	case Snapping:
		e.snapStep()
	}
	return e.Animating()
}

// SnapTo animates the viewport to the mood with the given id.
func (e *Engine) SnapTo(id string) bool {
	m, ok := e.cat.Lookup(id)
	if !ok || !e.active {
		return false
	}
	e.gesture = nil
	e.snapTo(m)
	return true
}

// Step snaps to the neighbouring mood in direction (dx, dy).
func (e *Engine) Step(dx, dy int) {
	if !e.active || e.gesture != nil {
		return
	}
	base := e.offset
	if e.state == Snapping {
		base = e.target
	}
	e.snapTo(e.cat.Neighbor(base, dx, dy))
}

func (e *Engine) Animating() bool { return e.state == Flinging || e.state == Snapping }

func (e *Engine) State() State { return e.state }

func (e *Engine) Offset() mood.Vec { return e.offset }

// Selected is the mood nearest the viewport center. It is never empty.
func (e *Engine) Selected() mood.Entry { return e.selected }

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Offset:   e.offset,
		Velocity: e.velocity,
		State:    e.state,
		Selected: e.selected,
		Viewport: e.viewport,
		Target:   e.target,
	}
}

func (e *Engine) fling() {
	if math.Abs(e.velocity.X) < FlingMin && math.Abs(e.velocity.Y) < FlingMin {
		m, _ := e.cat.FindClosest(e.offset)
		e.snapTo(m)
		return
	}
	e.setState(Flinging)
}

// snapTo begins a snap and runs its first step at once.
func (e *Engine) snapTo(m mood.Entry) {
	e.velocity = mood.Vec{}
	e.target = mood.CenterOffset(m)
	e.setState(Snapping)
	e.snapStep()
}

func (e *Engine) snapStep() {
	d := e.target.Sub(e.offset)
	if math.Abs(d.X) < SnapEpsilon && math.Abs(d.Y) < SnapEpsilon {
		e.setOffset(e.target)
		e.setState(Idle)
		return
	}
	e.setOffset(e.offset.Add(d.Scale(SnapEase)))
}

func (e *Engine) cancel() {
	e.velocity = mood.Vec{}
	if e.Animating() {
		e.setState(Idle)
	}
}

func (e *Engine) setOffset(o mood.Vec) {
	e.offset = o
	e.reselect()
}

func (e *Engine) reselect() {
	m, _ := e.cat.FindClosest(e.offset)
	if m.ID != e.selected.ID {
		e.log.Debug("selection changed", zap.String("mood", m.ID))
	}
	e.selected = m
}

func (e *Engine) setState(s State) {
	if s != e.state {
		e.log.Debug("grid state", zap.Stringer("from", e.state), zap.Stringer("to", s))
		e.state = s
	}
}
