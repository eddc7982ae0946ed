package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestVirtualRunsInDeadlineOrder(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var got []string
	v.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	v.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	v.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	v.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, v.Pending())

	v.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, time.Unix(0, 0).Add(30*time.Millisecond), v.Now())
}

func TestVirtualStop(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	fired := false
	task := v.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, task.Stop())
	assert.False(t, task.Stop())
	v.Advance(time.Hour)
	assert.False(t, fired)
	assert.Zero(t, v.Pending())
}

func TestVirtualStopAfterRun(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	task := v.AfterFunc(time.Millisecond, func() {})
	v.Advance(time.Millisecond)
	assert.False(t, task.Stop())
}

func TestVirtualCallbackSchedulesWithinWindow(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var at []time.Duration
	start := v.Now()
	v.AfterFunc(10*time.Millisecond, func() {
		at = append(at, v.Now().Sub(start))
		v.AfterFunc(10*time.Millisecond, func() {
			at = append(at, v.Now().Sub(start))
		})
	})
	v.Advance(50 * time.Millisecond)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, at)
}

func TestLoopDeliversThroughPost(t *testing.T) {
	defer goleak.VerifyNone(t)

	posted := make(chan func(), 1)
	l := NewLoop(func(f func()) { posted <- f })

	ran := false
	l.AfterFunc(time.Millisecond, func() { ran = true })

	select {
	case f := <-posted:
		f()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for post")
	}
	assert.True(t, ran)
}

func TestLoopStopSuppressesPostedCallback(t *testing.T) {
	defer goleak.VerifyNone(t)

	posted := make(chan func(), 1)
	l := NewLoop(func(f func()) { posted <- f })

	ran := false
	task := l.AfterFunc(time.Millisecond, func() { ran = true })

	var f func()
	select {
	case f = <-posted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for post")
	}
	// the timer fired, but the loop has not run the callback yet
	require.True(t, task.Stop())
	f()
	assert.False(t, ran)
	assert.False(t, task.Stop())
}

func TestWallAfterFunc(t *testing.T) {
	defer goleak.VerifyNone(t)

	var wg sync.WaitGroup
	wg.Add(1)
	Wall{}.AfterFunc(time.Millisecond, wg.Done)
	wg.Wait()

	task := Wall{}.AfterFunc(time.Hour, func() { t.Error("should not run") })
	assert.True(t, task.Stop())
}
