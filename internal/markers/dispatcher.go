package markers

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/schedule"
)

// DefaultSettleDelay is how long text must stay unchanged before it is checked.
const DefaultSettleDelay = 800 * time.Millisecond

// Intervention is emitted once per new keyword per editing context.
type Intervention struct {
	Context  string
	Category Category
	Keyword  string
}

type Option func(*Dispatcher)

// WithDelay overrides the settle delay.
func WithDelay(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d >= 0 {
			disp.delay = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(disp *Dispatcher) {
		if l != nil {
			disp.log = l
		}
	}
}

type entryState struct {
	text      string
	gen       uint64
	pending   schedule.Task
	triggered map[string]struct{}
}

// Dispatcher debounces text changes per context and emits an Intervention
// the first time a settled text matches a keyword in that context. Only
// the trailing edge of a burst of changes is checked.
type Dispatcher struct {
	detector Detector
	sched    schedule.Scheduler
	emit     func(Intervention)
	delay    time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	contexts map[string]*entryState
	closed   bool
}

// NewDispatcher wires a detector to emit. A nil scheduler uses the wall clock.
func NewDispatcher(detector Detector, sched schedule.Scheduler, emit func(Intervention), opts ...Option) *Dispatcher {
	if sched == nil {
		sched = schedule.Wall{}
	}
	d := &Dispatcher{
		detector: detector,
		sched:    sched,
		emit:     emit,
		delay:    DefaultSettleDelay,
		log:      zap.NewNop(),
		contexts: make(map[string]*entryState),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TextChanged records the latest text of ctxID and restarts its settle timer.
func (d *Dispatcher) TextChanged(ctxID, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	st, ok := d.contexts[ctxID]
	if !ok {
		st = &entryState{triggered: make(map[string]struct{})}
		d.contexts[ctxID] = st
	}
	if st.pending != nil {
		st.pending.Stop()
	}
	st.text = text
	st.gen++
	gen := st.gen
	st.pending = d.sched.AfterFunc(d.delay, func() { d.settle(ctxID, gen) })
}

// settle runs the detector once the text of ctxID has been stable for the
// delay. gen guards against a timer that fired just as it was superseded.
func (d *Dispatcher) settle(ctxID string, gen uint64) {
	d.mu.Lock()
	st, ok := d.contexts[ctxID]
	if d.closed || !ok || st.gen != gen {
		d.mu.Unlock()
		return
	}
	st.pending = nil
	m, found := d.detector.Match(st.text)
	if !found {
		d.mu.Unlock()
		return
	}
	if _, seen := st.triggered[m.Keyword]; seen {
		d.mu.Unlock()
		d.log.Debug("marker already dispatched",
			zap.String("context", ctxID),
			zap.String("keyword", m.Keyword))
		return
	}
	st.triggered[m.Keyword] = struct{}{}
	d.mu.Unlock()

	d.log.Info("marker detected",
		zap.String("context", ctxID),
		zap.String("category", string(m.Category)),
		zap.String("keyword", m.Keyword))
	if d.emit != nil {
		d.emit(Intervention{Context: ctxID, Category: m.Category, Keyword: m.Keyword})
	}
}

// Reset abandons the editing context: the pending check is cancelled and
// the triggered keywords are forgotten.
func (d *Dispatcher) Reset(ctxID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if st, ok := d.contexts[ctxID]; ok {
		if st.pending != nil {
			st.pending.Stop()
		}
		delete(d.contexts, ctxID)
	}
}

// Triggered lists the keywords already dispatched for ctxID, sorted.
func (d *Dispatcher) Triggered(ctxID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.contexts[ctxID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(st.triggered))
	for kw := range st.triggered {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// Close cancels every pending check. Later text changes are ignored.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for _, st := range d.contexts {
		if st.pending != nil {
			st.pending.Stop()
			st.pending = nil
		}
	}
}
