// Package store holds the application state in typed slices. State values
// are never mutated in place: every update function returns a new State.
package store

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("store: not found")

// MoodState is the latest check-in.
type MoodState struct {
	CheckedIn bool
	Label     string
	Color     string
	Tags      []string
	At        time.Time
}

// ExerciseRef points a journal entry at a completed exercise.
type ExerciseRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type JournalEntry struct {
	ID                string       `json:"id"`
	At                time.Time    `json:"at"`
	Mood              string       `json:"mood,omitempty"`
	MoodColor         string       `json:"moodColor,omitempty"`
	Tags              []string     `json:"tags,omitempty"`
	Content           string       `json:"content"`
	CompletedExercise *ExerciseRef `json:"completedExercise,omitempty"`
	DebriefCompleted  bool         `json:"debriefCompleted,omitempty"`
}

type SessionKind string

const (
	Past     SessionKind = "past"
	Upcoming SessionKind = "upcoming"
)

type Session struct {
	ID               string      `json:"id"`
	Date             time.Time   `json:"date"`
	Therapist        string      `json:"therapist"`
	Kind             SessionKind `json:"type"`
	DebriefCompleted bool        `json:"debriefCompleted"`
}

// NeedsDebrief reports whether the session is over and not yet debriefed.
func (s Session) NeedsDebrief() bool { return s.Kind == Past && !s.DebriefCompleted }

type CompletedExercise struct {
	ID         string              `json:"id"`
	ExerciseID string              `json:"exerciseId"`
	Title      string              `json:"title"`
	At         time.Time           `json:"completedAt"`
	Details    map[string][]string `json:"details,omitempty"`
}

// State is one immutable snapshot of everything the app tracks.
type State struct {
	QuestionnaireDone bool
	Answers           map[string][]string
	Mood              MoodState
	Journal           []JournalEntry
	Sessions          []Session
	Exercises         []CompletedExercise
}

// WithMood records a confirmed check-in.
func WithMood(s State, label, color string, tags []string, at time.Time) State {
	s.Mood = MoodState{
		CheckedIn: true,
		Label:     label,
		Color:     color,
		Tags:      append([]string(nil), tags...),
		At:        at,
	}
	return s
}

// ClearMood forgets the last check-in.
func ClearMood(s State) State {
	s.Mood = MoodState{}
	return s
}

// AddJournalEntry appends e.
func AddJournalEntry(s State, e JournalEntry) State {
	s.Journal = append(append(make([]JournalEntry, 0, len(s.Journal)+1), s.Journal...), e)
	return s
}

// UpdateJournalEntry applies fn to a copy of the entry with the given id.
func UpdateJournalEntry(s State, id string, fn func(*JournalEntry)) (State, error) {
	for i, e := range s.Journal {
		if e.ID != id {
			continue
		}
		journal := append([]JournalEntry(nil), s.Journal...)
		fn(&journal[i])
		s.Journal = journal
		return s, nil
	}
	return s, fmt.Errorf("%w: journal entry %s", ErrNotFound, id)
}

// SetContent replaces an entry's text.
func SetContent(s State, id, content string) (State, error) {
	return UpdateJournalEntry(s, id, func(e *JournalEntry) { e.Content = content })
}

// AttachExercise links a completed exercise to an entry.
func AttachExercise(s State, id string, ref ExerciseRef) (State, error) {
	return UpdateJournalEntry(s, id, func(e *JournalEntry) {
		r := ref
		e.CompletedExercise = &r
	})
}

// AddSession prepends sess.
func AddSession(s State, sess Session) State {
	s.Sessions = append([]Session{sess}, s.Sessions...)
	return s
}

// MarkDebriefed flags the session's debrief as completed.
func MarkDebriefed(s State, id string) (State, error) {
	for i, sess := range s.Sessions {
		if sess.ID != id {
			continue
		}
		sessions := append([]Session(nil), s.Sessions...)
		sessions[i].DebriefCompleted = true
		s.Sessions = sessions
		return s, nil
	}
	return s, fmt.Errorf("%w: session %s", ErrNotFound, id)
}

// AddExercise appends a completed exercise.
func AddExercise(s State, ex CompletedExercise) State {
	s.Exercises = append(append(make([]CompletedExercise, 0, len(s.Exercises)+1), s.Exercises...), ex)
	return s
}

// SetAnswer stores the answer ids chosen for a question.
func SetAnswer(s State, questionID string, optionIDs []string) State {
	answers := make(map[string][]string, len(s.Answers)+1)
	for k, v := range s.Answers {
		answers[k] = v
	}
	answers[questionID] = append([]string(nil), optionIDs...)
	s.Answers = answers
	return s
}

func CompleteQuestionnaire(s State) State {
	s.QuestionnaireDone = true
	return s
}

// Entry finds a journal entry by id.
func (s State) Entry(id string) (JournalEntry, bool) {
	for _, e := range s.Journal {
		if e.ID == id {
			return e, true
		}
	}
	return JournalEntry{}, false
}

// Session finds a session by id.
func (s State) Session(id string) (Session, bool) {
	for _, sess := range s.Sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return Session{}, false
}
