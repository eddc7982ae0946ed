package schedule

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Task is a pending delayed callback.
type Task interface {
	// Stop cancels the task. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// Clock is a Scheduler that also tells the time.
type Clock interface {
	Scheduler
	Now() time.Time
}

// Wall schedules on the runtime timer; callbacks run on their own goroutine.
type Wall struct{}

func (Wall) Now() time.Time { return time.Now() }

func (Wall) AfterFunc(d time.Duration, f func()) Task { return time.AfterFunc(d, f) }

// Loop schedules on the runtime timer but hands every due callback to post,
// which is expected to run it on the caller's event loop. A task stopped
// after its timer fired but before the loop ran it is still suppressed.
type Loop struct {
	post func(func())
}

// NewLoop returns a Loop that delivers callbacks through post.
func NewLoop(post func(func())) *Loop {
	return &Loop{post: post}
}

type loopTask struct {
	timer     *time.Timer
	cancelled atomic.Bool
	ran       atomic.Bool
}

func (l *Loop) AfterFunc(d time.Duration, f func()) Task {
	t := &loopTask{}
	t.timer = time.AfterFunc(d, func() {
		l.post(func() {
			if t.cancelled.Load() {
				return
			}
			t.ran.Store(true)
			f()
		})
	})
	return t
}

func (t *loopTask) Stop() bool {
	t.timer.Stop()
	if t.ran.Load() {
		return false
	}
	return !t.cancelled.Swap(true)
}

// Virtual is a manually advanced clock. Callbacks run synchronously inside
// Advance, in deadline order; tasks sharing a deadline run in the order they
// were scheduled.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*virtualTask
}

type virtualTask struct {
	v    *Virtual
	at   time.Time
	seq  uint64
	f    func()
	done bool
}

// NewVirtual starts a virtual clock at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) AfterFunc(d time.Duration, f func()) Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	t := &virtualTask{v: v, at: v.now.Add(d), seq: v.seq, f: f}
	v.pending = append(v.pending, t)
	return t
}

func (t *virtualTask) Stop() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, p := range t.v.pending {
		if p == t {
			t.v.pending = append(t.v.pending[:i], t.v.pending[i+1:]...)
			break
		}
	}
	return true
}

// Pending is the number of tasks not yet run or stopped.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

// Advance moves the clock forward by d, running every task that falls due.
// Tasks scheduled by a callback run in the same call if they fall due too.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	end := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		sort.SliceStable(v.pending, func(i, j int) bool {
			a, b := v.pending[i], v.pending[j]
			if !a.at.Equal(b.at) {
				return a.at.Before(b.at)
			}
			return a.seq < b.seq
		})
		if len(v.pending) == 0 || v.pending[0].at.After(end) {
			v.now = end
			v.mu.Unlock()
			return
		}
		next := v.pending[0]
		v.pending = v.pending[1:]
		next.done = true
		v.now = next.at
		v.mu.Unlock()

		next.f()
	}
}
