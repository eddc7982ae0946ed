package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityKind classifies ledger events.
type ActivityKind string

const (
	KindCheckIn  ActivityKind = "checkin"
	KindJournal  ActivityKind = "journal"
	KindMarker   ActivityKind = "marker"
	KindExercise ActivityKind = "exercise"
	KindDebrief  ActivityKind = "debrief"
)

// Activity is one event worth counting in the progression view.
type Activity struct {
	Kind   ActivityKind
	At     time.Time
	Ref    string
	Label  string
	Color  string
	Detail string
}

// Recorder receives activity after the state change it describes.
type Recorder interface {
	Record(a Activity) error
}

// MoodRecorder is what the mood check-in needs.
type MoodRecorder interface {
	ConfirmMood(label, color string, tags []string) JournalEntry
	SkipMood() JournalEntry
}

// JournalWriter is what the journal editor needs.
type JournalWriter interface {
	SetContent(entryID, content string) error
	AttachExercise(entryID string, ref ExerciseRef) error
}

// SessionDebriefer is what the debrief conversation needs.
type SessionDebriefer interface {
	MarkDebriefComplete(sessionID string) error
}

// ExerciseLog is what the exercise flow needs.
type ExerciseLog interface {
	RecordExercise(ex CompletedExercise) CompletedExercise
}

type Option func(*Store)

func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.rec = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the injected container around State. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state State
	rec   Recorder
	log   *zap.Logger
	now   func() time.Time
}

func New(initial State, opts ...Option) *Store {
	s := &Store{state: initial, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current snapshot.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update replaces the state with fn's result. The state is left untouched
// when fn fails.
func (s *Store) Update(fn func(State) (State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) apply(fn func(State) State) {
	s.mu.Lock()
	s.state = fn(s.state)
	s.mu.Unlock()
}

func (s *Store) record(a Activity) {
	if s.rec == nil {
		return
	}
	if err := s.rec.Record(a); err != nil {
		s.log.Warn("activity not recorded", zap.String("kind", string(a.Kind)), zap.Error(err))
	}
}

// ConfirmMood stores the check-in and opens a new journal entry carrying it.
func (s *Store) ConfirmMood(label, color string, tags []string) JournalEntry {
	now := s.now()
	e := JournalEntry{ID: uuid.NewString(), At: now, Mood: label, MoodColor: color, Tags: append([]string(nil), tags...)}
	s.apply(func(st State) State {
		return AddJournalEntry(WithMood(st, label, color, tags, now), e)
	})
	s.record(Activity{Kind: KindCheckIn, At: now, Ref: e.ID, Label: label, Color: color, Detail: strings.Join(tags, ",")})
	return e
}

// SkipMood opens a new journal entry without a mood.
func (s *Store) SkipMood() JournalEntry {
	e := JournalEntry{ID: uuid.NewString(), At: s.now()}
	s.apply(func(st State) State { return AddJournalEntry(ClearMood(st), e) })
	return e
}

func (s *Store) SetContent(entryID, content string) error {
	first := false
	err := s.Update(func(st State) (State, error) {
		if e, ok := st.Entry(entryID); ok && e.Content == "" && content != "" {
			first = true
		}
		return SetContent(st, entryID, content)
	})
	if err == nil && first {
		s.record(Activity{Kind: KindJournal, At: s.now(), Ref: entryID})
	}
	return err
}

func (s *Store) AttachExercise(entryID string, ref ExerciseRef) error {
	return s.Update(func(st State) (State, error) { return AttachExercise(st, entryID, ref) })
}

func (s *Store) MarkDebriefComplete(sessionID string) error {
	err := s.Update(func(st State) (State, error) { return MarkDebriefed(st, sessionID) })
	if err == nil {
		s.record(Activity{Kind: KindDebrief, At: s.now(), Ref: sessionID})
	}
	return err
}

// RecordExercise stores ex, filling in its id and time when missing.
func (s *Store) RecordExercise(ex CompletedExercise) CompletedExercise {
	if ex.ID == "" {
		ex.ID = ex.ExerciseID + "-" + uuid.NewString()
	}
	if ex.At.IsZero() {
		ex.At = s.now()
	}
	s.apply(func(st State) State { return AddExercise(st, ex) })
	s.record(Activity{Kind: KindExercise, At: ex.At, Ref: ex.ID, Label: ex.Title})
	return ex
}

// RecordMarker logs a detected marker to the ledger. The state itself does
// not track markers.
func (s *Store) RecordMarker(entryID, category, keyword string) {
	s.record(Activity{Kind: KindMarker, At: s.now(), Ref: entryID, Label: category, Detail: keyword})
}

func (s *Store) SetAnswer(questionID string, optionIDs []string) {
	s.apply(func(st State) State { return SetAnswer(st, questionID, optionIDs) })
}

func (s *Store) CompleteQuestionnaire() {
	s.apply(CompleteQuestionnaire)
}

// ScheduleSession adds an upcoming session with the demo therapist.
func (s *Store) ScheduleSession(date time.Time) Session {
	sess := Session{ID: "session-" + uuid.NewString(), Date: date, Therapist: Therapist, Kind: Upcoming}
	s.apply(func(st State) State { return AddSession(st, sess) })
	return sess
}
