package markers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/sereni/internal/schedule"
)

type recorder struct {
	got []Intervention
}

func (r *recorder) emit(iv Intervention) { r.got = append(r.got, iv) }

func newTestDispatcher(t *testing.T) (*Dispatcher, *schedule.Virtual, *recorder) {
	t.Helper()
	clock := schedule.NewVirtual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	rec := &recorder{}
	d := NewDispatcher(NewMatcher(MustDefault()), clock, rec.emit)
	return d, clock, rec
}

func TestDispatchAfterSettle(t *testing.T) {
	d, clock, rec := newTestDispatcher(t)

	d.TextChanged("e1", "je suis épuisé")
	clock.Advance(799 * time.Millisecond)
	assert.Empty(t, rec.got)

	clock.Advance(time.Millisecond)
	require.Len(t, rec.got, 1)
	assert.Equal(t, Intervention{Context: "e1", Category: Insomnia, Keyword: "épuisé"}, rec.got[0])
}

func TestDispatchAtMostOncePerKeyword(t *testing.T) {
	d, clock, rec := newTestDispatcher(t)

	d.TextChanged("e1", "je me sens submergé")
	clock.Advance(time.Second)
	d.TextChanged("e1", "je me sens vraiment submergé")
	clock.Advance(time.Second)

	require.Len(t, rec.got, 1)
	assert.Equal(t, CognitiveDistortion, rec.got[0].Category)
	assert.Equal(t, []string{"submergé"}, d.Triggered("e1"))
}

func TestDispatchNewKeywordSameContext(t *testing.T) {
	d, clock, rec := newTestDispatcher(t)

	d.TextChanged("e1", "je me sens submergé")
	clock.Advance(time.Second)
	d.TextChanged("e1", "je me sens submergé, et insomnie depuis lundi")
	clock.Advance(time.Second)

	// the cognitive keyword still wins the match, so nothing new fires
	require.Len(t, rec.got, 1)

	d.TextChanged("e1", "insomnie depuis lundi")
	clock.Advance(time.Second)
	require.Len(t, rec.got, 2)
	assert.Equal(t, Insomnia, rec.got[1].Category)
}

func TestDebounceChecksOnlyFinalText(t *testing.T) {
	d, clock, rec := newTestDispatcher(t)

	// "en finir" appears in an intermediate text only
	d.TextChanged("e1", "je veux en finir")
	clock.Advance(300 * time.Millisecond)
	d.TextChanged("e1", "je veux en finir avec ce projet... non, je dors mal")
	clock.Advance(300 * time.Millisecond)
	d.TextChanged("e1", "je dors mal")
	clock.Advance(300 * time.Millisecond)
	assert.Empty(t, rec.got)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(500 * time.Millisecond)
	require.Len(t, rec.got, 1)
	assert.Equal(t, Insomnia, rec.got[0].Category)
	assert.Zero(t, clock.Pending())
}

func TestContextsAreIndependent(t *testing.T) {
	d, clock, rec := newTestDispatcher(t)

	d.TextChanged("e1", "cauchemars")
	clock.Advance(400 * time.Millisecond)
	d.TextChanged("e2", "cauchemars")
	clock.Advance(400 * time.Millisecond)
	require.Len(t, rec.got, 1)
	assert.Equal(t, "e1", rec.got[0].Context)

	clock.Advance(400 * time.Millisecond)
	require.Len(t, rec.got, 2)
	assert.Equal(t, "e2", rec.got[1].Context)
}

func TestResetForgetsTriggered(t *testing.T) {
	d, clock, rec := newTestDispatcher(t)

	d.TextChanged("e1", "cauchemars")
	clock.Advance(time.Second)
	d.TextChanged("e1", "cauchemars encore")
	d.Reset("e1")
	clock.Advance(time.Second)
	require.Len(t, rec.got, 1)
	assert.Nil(t, d.Triggered("e1"))

	d.TextChanged("e1", "cauchemars")
	clock.Advance(time.Second)
	assert.Len(t, rec.got, 2)
}

func TestNoMatchNoDispatch(t *testing.T) {
	d, clock, rec := newTestDispatcher(t)
	d.TextChanged("e1", "")
	d.TextChanged("e2", "une journée calme")
	clock.Advance(time.Minute)
	assert.Empty(t, rec.got)
}

func TestCloseCancelsPending(t *testing.T) {
	d, clock, rec := newTestDispatcher(t)
	d.TextChanged("e1", "cauchemars")
	d.Close()
	d.TextChanged("e2", "cauchemars")
	clock.Advance(time.Minute)
	assert.Empty(t, rec.got)
	assert.Zero(t, clock.Pending())
}

func TestWithDelay(t *testing.T) {
	clock := schedule.NewVirtual(time.Unix(0, 0))
	rec := &recorder{}
	d := NewDispatcher(MustDefault(), clock, rec.emit, WithDelay(50*time.Millisecond), WithLogger(nil))

	d.TextChanged("e1", "ruminer")
	clock.Advance(50 * time.Millisecond)
	assert.Len(t, rec.got, 1)
}

func TestEmitMayReenter(t *testing.T) {
	clock := schedule.NewVirtual(time.Unix(0, 0))
	var d *Dispatcher
	var got []Intervention
	d = NewDispatcher(MustDefault(), clock, func(iv Intervention) {
		got = append(got, iv)
		d.Reset(iv.Context)
	})
	d.TextChanged("e1", "ruminer")
	clock.Advance(time.Second)
	assert.Len(t, got, 1)
	assert.Nil(t, d.Triggered("e1"))
}
