package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/sereni/internal/config"
	"github.com/ramanasai/sereni/internal/exercise"
	"github.com/ramanasai/sereni/internal/mood"
	"github.com/ramanasai/sereni/internal/schedule"
	"github.com/ramanasai/sereni/internal/store"
)

var t0 = time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC)

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (f *fakeNotifier) Notify(title, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, title)
	return nil
}

type activityLog struct {
	got []store.Activity
}

func (a *activityLog) Record(act store.Activity) error {
	a.got = append(a.got, act)
	return nil
}

type harness struct {
	m        Model
	clock    *schedule.Virtual
	st       *store.Store
	notifier *fakeNotifier
	acts     *activityLog
}

func newHarness(t *testing.T, initial store.State) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Reminder.Timezone = "UTC"
	cfg.Markers.DesktopAlert = true

	h := &harness{
		clock:    schedule.NewVirtual(t0),
		notifier: &fakeNotifier{},
		acts:     &activityLog{},
	}
	h.st = store.New(initial, store.WithRecorder(h.acts), store.WithClock(h.clock.Now))
	h.m = New(Deps{
		Config:    cfg,
		Store:     h.st,
		Notifier:  h.notifier,
		Scheduler: h.clock,
		Now:       h.clock.Now,
	})
	t.Cleanup(h.m.Close)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		next, _ := h.m.Update(msg)
		h.m = next.(Model)
	}
}

func (h *harness) keys(keys ...string) {
	for _, k := range keys {
		switch k {
		case "enter":
			h.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			h.send(tea.KeyMsg{Type: tea.KeyEsc})
		case "tab":
			h.send(tea.KeyMsg{Type: tea.KeyTab})
		case "down":
			h.send(tea.KeyMsg{Type: tea.KeyDown})
		case " ":
			h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		default:
			h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

// settle lets the marker debounce elapse and hands the result to the
// event loop.
func (h *harness) settle() {
	h.clock.Advance(time.Second)
	h.send(loopMsg{f: func() {}})
}

func checkedIn() store.State {
	return store.State{QuestionnaireDone: true}
}

func TestCellToPixel(t *testing.T) {
	p := cellToPixel(10, 5, 0, 3, 8, 16)
	assert.Equal(t, mood.Vec{X: 84, Y: 40}, p)

	origin := cellToPixel(0, 3, 0, 3, 8, 16)
	assert.Equal(t, mood.Vec{X: 4, Y: 8}, origin)
}

func TestFade(t *testing.T) {
	assert.Equal(t, "#c62828", fade("#C62828", "#1E1E2E", 1))
	assert.Equal(t, "#1e1e2e", fade("#C62828", "#1E1E2E", 0))
	assert.Equal(t, "nope", fade("nope", "#1E1E2E", 0.5))
}

func TestStartsWithQuestionnaire(t *testing.T) {
	h := newHarness(t, store.State{})
	require.Equal(t, screenQuestionnaire, h.m.screen)

	h.keys("enter", "enter")
	// multiple choice needs an explicit selection
	h.keys("enter")
	assert.Equal(t, 2, h.m.form.Index())
	h.keys(" ", "down", " ", "enter")
	h.keys("enter")

	assert.Equal(t, screenCheckIn, h.m.screen)
	assert.True(t, h.m.engine.Active())
	s := h.st.Get()
	assert.True(t, s.QuestionnaireDone)
	assert.Len(t, s.Answers["q3"], 2)
}

func TestCheckInConfirmsMoodWithTags(t *testing.T) {
	h := newHarness(t, checkedIn())
	require.Equal(t, screenCheckIn, h.m.screen)
	want := h.m.engine.Selected()

	h.keys("enter")
	require.Equal(t, modeTags, h.m.mode)
	h.keys(" ", "l", "l", " ", "enter")

	assert.Equal(t, screenJournal, h.m.screen)
	assert.False(t, h.m.engine.Active())
	assert.True(t, h.m.editor.Focused())

	s := h.st.Get()
	require.Len(t, s.Journal, 1)
	e := s.Journal[0]
	assert.Equal(t, h.m.activeEntry, e.ID)
	assert.Equal(t, want.Label, e.Mood)
	assert.Equal(t, want.Color, e.MoodColor)
	assert.Equal(t, []string{"work", "friends"}, e.Tags)
	assert.True(t, s.Mood.CheckedIn)
}

func TestArrowKeysStepAcrossTheGrid(t *testing.T) {
	h := newHarness(t, checkedIn())
	before := h.m.engine.Selected()
	h.keys("l")
	for i := 0; i < 200 && h.m.engine.Animating(); i++ {
		h.send(frameMsg{})
	}
	assert.False(t, h.m.engine.Animating())
	after := h.m.engine.Selected()
	assert.NotEqual(t, before.ID, after.ID)
	assert.Equal(t, mood.CenterOffset(after), h.m.engine.Offset())
}

func TestSkipOpensEmptyEntry(t *testing.T) {
	h := newHarness(t, checkedIn())
	h.keys("p")
	s := h.st.Get()
	require.Len(t, s.Journal, 1)
	assert.Empty(t, s.Journal[0].Mood)
	assert.False(t, s.Mood.CheckedIn)
	assert.Equal(t, screenJournal, h.m.screen)
}

func TestTypingSavesEntry(t *testing.T) {
	h := newHarness(t, checkedIn())
	h.keys("p", "Belle journée")
	e, ok := h.st.Get().Entry(h.m.activeEntry)
	require.True(t, ok)
	assert.Equal(t, "Belle journée", e.Content)
}

func TestDangerMarkerShowsEmergency(t *testing.T) {
	h := newHarness(t, checkedIn())
	h.keys("p", "ce soir j'ai envie de mourir")
	assert.Equal(t, screenJournal, h.m.screen)

	h.settle()
	assert.Equal(t, screenEmergency, h.m.screen)
	assert.False(t, h.m.editor.Focused())
	assert.Equal(t, []string{"Sereni · Tu n'es pas seul·e"}, h.notifier.titles)
	assert.Contains(t, h.m.View(), "3114")

	var markersSeen []store.Activity
	for _, a := range h.acts.got {
		if a.Kind == store.KindMarker {
			markersSeen = append(markersSeen, a)
		}
	}
	require.Len(t, markersSeen, 1)
	assert.Equal(t, "danger", markersSeen[0].Label)
	assert.Equal(t, "envie de mourir", markersSeen[0].Detail)

	// the same keyword does not trigger twice for the entry
	h.keys("enter")
	require.Equal(t, screenJournal, h.m.screen)
	h.keys("e", " encore")
	h.settle()
	assert.Equal(t, screenJournal, h.m.screen)
	assert.Len(t, h.notifier.titles, 1)
}

func TestCognitiveMarkerRunsCirclesForEntry(t *testing.T) {
	h := newHarness(t, checkedIn())
	h.keys("p", "au travail tout me dépasse")
	entryID := h.m.activeEntry
	h.settle()

	require.Equal(t, modeSuggestion, h.m.mode)
	assert.Equal(t, exercise.CirclesID, h.m.suggestion.ExerciseID)
	assert.Contains(t, h.m.View(), "Commencer l'exercice")

	h.keys("enter")
	require.Equal(t, screenCircles, h.m.screen)
	assert.Equal(t, entryID, h.m.circlesEntry)

	// selection: first item, placement: in my control
	h.keys(" ", "tab", "1", "tab")
	require.Equal(t, exercise.StepActions, h.m.circles.Step())
	h.keys("enter", "Demander de l'aide", "enter", "tab")
	require.Equal(t, exercise.StepRecap, h.m.circles.Step())
	assert.Contains(t, h.m.View(), "Terminer l'exercice")

	h.keys("enter")
	assert.Equal(t, screenJournal, h.m.screen)
	s := h.st.Get()
	require.Len(t, s.Exercises, 1)
	assert.Equal(t, map[string][]string{"item-1": {"controle", "Demander de l'aide"}}, s.Exercises[0].Details)
	e, _ := s.Entry(entryID)
	require.NotNil(t, e.CompletedExercise)
	assert.Equal(t, "Cercles de contrôle", e.CompletedExercise.Title)
	assert.Equal(t, "Exercice complété · Cercles de contrôle", h.m.status)
}

func TestPlaceholderSuggestionDoesNotStartAnything(t *testing.T) {
	h := newHarness(t, checkedIn())
	h.keys("p", "encore une insomnie")
	h.settle()
	require.Equal(t, modeSuggestion, h.m.mode)
	assert.True(t, h.m.suggestion.Placeholder())

	h.keys("enter")
	assert.Equal(t, modeNormal, h.m.mode)
	assert.Equal(t, screenJournal, h.m.screen)
	assert.Contains(t, h.m.status, "bientôt disponible")
}

func TestCirclesFromListReturnsToList(t *testing.T) {
	h := newHarness(t, checkedIn())
	h.keys("3", "enter")
	require.Equal(t, screenCircles, h.m.screen)
	assert.Empty(t, h.m.circlesEntry)

	h.keys("tab")
	assert.Equal(t, exercise.StepSelection, h.m.circles.Step())
	assert.Equal(t, "Sélectionne au moins un élément", h.m.status)

	// nothing actionable, so the actions step is already complete
	h.keys(" ", "tab", "3", "tab", "tab")
	require.Equal(t, exercise.StepLetGo, h.m.circles.Step())
	h.keys("enter", "tab", "enter")

	assert.Equal(t, screenExercises, h.m.screen)
	assert.Len(t, h.st.Get().Exercises, 1)
}

func TestDebriefMarksSession(t *testing.T) {
	h := newHarness(t, func() store.State {
		s := store.Seed(t0)
		s.QuestionnaireDone = true
		return s
	}())
	h.keys("4")
	require.Equal(t, screenSessions, h.m.screen)
	assert.Contains(t, h.m.View(), "Debriefer")

	all := h.m.orderedSessions()
	for i, s := range all {
		if s.NeedsDebrief() {
			h.m.sessCursor = i
		}
	}
	target := all[h.m.sessCursor].ID

	h.keys("enter")
	require.Equal(t, screenDebrief, h.m.screen)
	for i := 0; i < 10 && !h.m.conv.Complete(); i++ {
		h.keys("enter")
	}
	require.True(t, h.m.conv.Complete())
	sess, _ := h.st.Get().Session(target)
	assert.True(t, sess.DebriefCompleted)
	assert.Contains(t, h.m.View(), "Retourner au journal")

	h.keys("enter")
	assert.Equal(t, screenJournal, h.m.screen)
}

func TestScheduleSession(t *testing.T) {
	h := newHarness(t, checkedIn())
	h.keys("4", "n")
	require.Equal(t, modeNewSession, h.m.mode)

	h.keys("2025-03-01 10:00", "enter")
	assert.Equal(t, "La date doit être dans le futur", h.m.status)

	h.m.dateInput.SetValue("")
	h.keys("2025-03-20 10:00", "enter")
	assert.Equal(t, modeNormal, h.m.mode)
	s := h.st.Get()
	require.Len(t, s.Sessions, 1)
	assert.Equal(t, store.Upcoming, s.Sessions[0].Kind)
	assert.True(t, s.Sessions[0].Date.Equal(time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)))
}

func TestViewShowsGrid(t *testing.T) {
	h := newHarness(t, checkedIn())
	v := h.m.View()
	assert.Contains(t, v, "Comment te sens-tu ?")
	assert.Contains(t, v, "Énergie haute ↑")
	assert.Contains(t, v, h.m.engine.Selected().Label)
}

func TestJournalShowsHistory(t *testing.T) {
	s := store.Seed(t0)
	s.QuestionnaireDone = true
	h := newHarness(t, s)
	h.keys("2")
	v := h.m.View()
	assert.Contains(t, v, "Mon journal")
	assert.Contains(t, v, "Hier")
	assert.True(t, strings.Contains(v, "Exercice complété") || strings.Contains(v, "Debrief de séance"))
}

func TestEmptyJournal(t *testing.T) {
	h := newHarness(t, checkedIn())
	h.keys("2")
	assert.Contains(t, h.m.View(), "Ton journal est vide pour le moment.")
}
