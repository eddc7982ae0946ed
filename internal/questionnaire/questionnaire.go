// Package questionnaire holds the onboarding questions and walks the user
// through them one at a time.
package questionnaire

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultQuestions []byte

var (
	ErrInvalidAnswer = errors.New("questionnaire: invalid answer")
	ErrDone          = errors.New("questionnaire: already complete")
)

type Type string

const (
	Likert   Type = "likert"
	Single   Type = "single"
	Multiple Type = "multiple"
)

type Option struct {
	ID    string `yaml:"id" validate:"required"`
	Label string `yaml:"label" validate:"required"`
}

type Question struct {
	ID      string   `yaml:"id" validate:"required"`
	Text    string   `yaml:"text" validate:"required"`
	Type    Type     `yaml:"type" validate:"oneof=likert single multiple"`
	Options []Option `yaml:"options" validate:"min=2,dive"`
}

// Check reports whether answer is acceptable: exactly one option for likert
// and single questions, at least one distinct option for multiple ones.
func (q Question) Check(answer []string) error {
	switch {
	case len(answer) == 0:
		return fmt.Errorf("%w: %s needs an answer", ErrInvalidAnswer, q.ID)
	case q.Type != Multiple && len(answer) != 1:
		return fmt.Errorf("%w: %s takes one option", ErrInvalidAnswer, q.ID)
	}
	seen := map[string]bool{}
	for _, id := range answer {
		if seen[id] {
			return fmt.Errorf("%w: %s repeats %s", ErrInvalidAnswer, q.ID, id)
		}
		seen[id] = true
		if _, ok := q.Option(id); !ok {
			return fmt.Errorf("%w: %s has no option %s", ErrInvalidAnswer, q.ID, id)
		}
	}
	return nil
}

func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Parse decodes and validates a YAML question list.
func Parse(data []byte) ([]Question, error) {
	var qs []Question
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, errors.New("questionnaire: no questions")
	}
	v := validator.New()
	ids := map[string]bool{}
	for i, q := range qs {
		if err := v.Struct(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if ids[q.ID] {
			return nil, fmt.Errorf("questionnaire: duplicate question %s", q.ID)
		}
		ids[q.ID] = true
	}
	return qs, nil
}

// Default returns the built-in questions.
func Default() []Question {
	qs, err := Parse(defaultQuestions)
	if err != nil {
		panic(err)
	}
	return qs
}

// AnswerSink receives answers as the user moves forward.
type AnswerSink interface {
	SetAnswer(questionID string, optionIDs []string)
	CompleteQuestionnaire()
}

// Form is the state of one pass through the questions.
type Form struct {
	questions []Question
	index     int
	answers   map[string][]string
	done      bool
}

func NewForm(qs []Question) *Form {
	return &Form{questions: qs, answers: map[string][]string{}}
}

func (f *Form) Current() Question { return f.questions[f.index] }
func (f *Form) Index() int        { return f.index }
func (f *Form) Len() int          { return len(f.questions) }
func (f *Form) Done() bool        { return f.done }
func (f *Form) Last() bool        { return f.index == len(f.questions)-1 }

// Progress is the share of questions already answered.
func (f *Form) Progress() float64 {
	return float64(f.index) / float64(len(f.questions))
}

// Select picks an option of the current question. For multiple choice it
// toggles the option; otherwise it replaces the answer.
func (f *Form) Select(optionID string) error {
	q := f.Current()
	if _, ok := q.Option(optionID); !ok {
		return fmt.Errorf("%w: %s has no option %s", ErrInvalidAnswer, q.ID, optionID)
	}
	if q.Type != Multiple {
		f.answers[q.ID] = []string{optionID}
		return nil
	}
	prev := f.answers[q.ID]
	next := make([]string, 0, len(prev)+1)
	removed := false
	for _, id := range prev {
		if id == optionID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, optionID)
	}
	f.answers[q.ID] = next
	return nil
}

func (f *Form) Selected(optionID string) bool {
	for _, id := range f.answers[f.Current().ID] {
		if id == optionID {
			return true
		}
	}
	return false
}

func (f *Form) CanProceed() bool {
	return f.Current().Check(f.answers[f.Current().ID]) == nil
}

// Next stores the current answer in sink and moves on. After the last
// question the questionnaire is marked complete.
func (f *Form) Next(sink AnswerSink) error {
	if f.done {
		return ErrDone
	}
	q := f.Current()
	answer := f.answers[q.ID]
	if err := q.Check(answer); err != nil {
		return err
	}
	sink.SetAnswer(q.ID, append([]string(nil), answer...))
	if f.Last() {
		f.done = true
		sink.CompleteQuestionnaire()
		return nil
	}
	f.index++
	return nil
}
