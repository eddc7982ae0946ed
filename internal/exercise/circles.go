package exercise

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/store"
)

// MaxSelected is how many concerns can be picked in the first step.
const MaxSelected = 5

var (
	ErrTooMany     = errors.New("exercise: selection is full")
	ErrUnknownItem = errors.New("exercise: unknown item")
	ErrIncomplete  = errors.New("exercise: step is not complete")
	ErrNotRecap    = errors.New("exercise: not on the recap step")
)

type Step int

const (
	StepSelection Step = iota
	StepPlacement
	StepActions
	StepLetGo
	StepRecap
)

var stepLabels = [...]string{"Sélection", "Placement", "Actions", "Lâcher prise", "Récap"}

func (s Step) String() string {
	if s < StepSelection || s > StepRecap {
		return "?"
	}
	return stepLabels[s]
}

// Circles is the state of one run of the circles of control wizard.
type Circles struct {
	step       Step
	selected   []string
	placements map[string]Zone
	actions    map[string]string
	released   map[string]bool
}

func NewCircles() *Circles {
	return &Circles{
		placements: map[string]Zone{},
		actions:    map[string]string{},
		released:   map[string]bool{},
	}
}

func (c *Circles) Step() Step { return c.step }

// Progress is the share of steps reached, in (0, 1].
func (c *Circles) Progress() float64 {
	return float64(c.step+1) / float64(StepRecap+1)
}

// Toggle selects or deselects a concern during the selection step.
func (c *Circles) Toggle(id string) error {
	if _, ok := lookupItem(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	for i, s := range c.selected {
		if s == id {
			c.selected = append(c.selected[:i:i], c.selected[i+1:]...)
			delete(c.placements, id)
			delete(c.actions, id)
			return nil
		}
	}
	if len(c.selected) >= MaxSelected {
		return ErrTooMany
	}
	c.selected = append(c.selected, id)
	return nil
}

func (c *Circles) IsSelected(id string) bool {
	for _, s := range c.selected {
		if s == id {
			return true
		}
	}
	return false
}

// Selected returns the chosen items in catalogue order.
func (c *Circles) Selected() []Item {
	var out []Item
	for _, it := range items {
		if c.IsSelected(it.ID) {
			out = append(out, it)
		}
	}
	return out
}

// Place puts a selected item in a zone.
func (c *Circles) Place(id string, z Zone) error {
	if !c.IsSelected(id) {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if !z.valid() {
		return fmt.Errorf("exercise: unknown zone %q", z)
	}
	c.placements[id] = z
	if !z.Actionable() {
		delete(c.actions, id)
	}
	return nil
}

func (c *Circles) Placement(id string) (Zone, bool) {
	z, ok := c.placements[id]
	return z, ok
}

// InZone returns the selected items placed in z, in catalogue order.
func (c *Circles) InZone(z Zone) []Item {
	var out []Item
	for _, it := range c.Selected() {
		if c.placements[it.ID] == z {
			out = append(out, it)
		}
	}
	return out
}

// Actionable returns the items that need an action.
func (c *Circles) Actionable() []Item {
	var out []Item
	for _, it := range c.Selected() {
		if c.placements[it.ID].Actionable() {
			out = append(out, it)
		}
	}
	return out
}

// SetAction records what the user can do about an actionable item.
func (c *Circles) SetAction(id, text string) error {
	z, ok := c.placements[id]
	if !ok || !z.Actionable() {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	c.actions[id] = text
	return nil
}

func (c *Circles) Action(id string) string { return c.actions[id] }

// LetGo releases an item placed outside the user's control.
func (c *Circles) LetGo(id string) error {
	if c.placements[id] != Outside {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	c.released[id] = true
	return nil
}

// Remaining returns the outside items not released yet.
func (c *Circles) Remaining() []Item {
	var out []Item
	for _, it := range c.InZone(Outside) {
		if !c.released[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// CanAdvance reports whether the current step is complete.
func (c *Circles) CanAdvance() bool {
	switch c.step {
	case StepSelection:
		return len(c.selected) > 0
	case StepPlacement:
		for _, id := range c.selected {
			if _, ok := c.placements[id]; !ok {
				return false
			}
		}
		return true
	case StepActions:
		for _, it := range c.Actionable() {
			if strings.TrimSpace(c.actions[it.ID]) == "" {
				return false
			}
		}
		return true
	case StepLetGo:
		return len(c.Remaining()) == 0
	}
	return false
}

// Next moves to the following step. The let-go step is skipped when
// nothing was placed outside the user's control.
func (c *Circles) Next() error {
	if c.step == StepRecap {
		return ErrIncomplete
	}
	if !c.CanAdvance() {
		return fmt.Errorf("%w: %s", ErrIncomplete, c.step)
	}
	c.step++
	if c.step == StepLetGo && len(c.InZone(Outside)) == 0 {
		c.step = StepRecap
	}
	return nil
}

// Back returns to the previous step. It reports false on the first step.
func (c *Circles) Back() bool {
	if c.step == StepSelection {
		return false
	}
	c.step--
	if c.step == StepLetGo && len(c.InZone(Outside)) == 0 {
		c.step = StepActions
	}
	return true
}

// Result builds the completed exercise. Details maps each item id to its
// zone, followed by the action when there is one.
func (c *Circles) Result() (store.CompletedExercise, error) {
	if c.step != StepRecap {
		return store.CompletedExercise{}, ErrNotRecap
	}
	d, _ := Lookup(CirclesID)
	details := make(map[string][]string, len(c.selected))
	for _, id := range c.selected {
		v := []string{string(c.placements[id])}
		if a := strings.TrimSpace(c.actions[id]); a != "" {
			v = append(v, a)
		}
		details[id] = v
	}
	return store.CompletedExercise{ExerciseID: d.ID, Title: d.Title, Details: details}, nil
}

// Return says where a finished exercise goes back to. EntryID is the
// journal entry that suggested the exercise, if any.
type Return struct {
	EntryID string
	OnDone  func(store.CompletedExercise)
}

// Finisher records completed exercises.
type Finisher struct {
	exercises store.ExerciseLog
	journal   store.JournalWriter
	log       *zap.Logger
}

func NewFinisher(exercises store.ExerciseLog, journal store.JournalWriter, log *zap.Logger) *Finisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Finisher{exercises: exercises, journal: journal, log: log}
}

// Finish records ex, attaches it to the returning journal entry and then
// calls the return handler.
func (f *Finisher) Finish(ex store.CompletedExercise, ret Return) (store.CompletedExercise, error) {
	rec := f.exercises.RecordExercise(ex)
	f.log.Info("exercise completed", zap.String("exercise", rec.ExerciseID), zap.String("id", rec.ID))

	if ret.EntryID != "" {
		ref := store.ExerciseRef{ID: rec.ID, Title: rec.Title}
		if err := f.journal.AttachExercise(ret.EntryID, ref); err != nil {
			return rec, fmt.Errorf("attach exercise to %s: %w", ret.EntryID, err)
		}
	}
	if ret.OnDone != nil {
		ret.OnDone(rec)
	}
	return rec, nil
}
