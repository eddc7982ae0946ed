package questionnaire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/sereni/internal/store"
)

func TestDefaultQuestions(t *testing.T) {
	qs := Default()
	require.Len(t, qs, 4)
	assert.Equal(t, []Type{Likert, Likert, Multiple, Single}, []Type{qs[0].Type, qs[1].Type, qs[2].Type, qs[3].Type})
	assert.Len(t, qs[0].Options, 5)
	assert.Equal(t, "Quand j'en ressens le besoin", qs[3].Options[3].Label)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"empty":        `[]`,
		"bad type":     `[{id: a, text: t, type: open, options: [{id: x, label: X}, {id: y, label: Y}]}]`,
		"one option":   `[{id: a, text: t, type: single, options: [{id: x, label: X}]}]`,
		"no text":      `[{id: a, type: single, options: [{id: x, label: X}, {id: y, label: Y}]}]`,
		"blank option": `[{id: a, text: t, type: single, options: [{id: x}, {id: y, label: Y}]}]`,
		"duplicate":    `[{id: a, text: t, type: single, options: [{id: x, label: X}, {id: y, label: Y}]}, {id: a, text: u, type: single, options: [{id: x, label: X}, {id: y, label: Y}]}]`,
		"not yaml":     `{`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestCheck(t *testing.T) {
	qs := Default()
	likert, multiple := qs[0], qs[2]

	assert.NoError(t, likert.Check([]string{"q1-2"}))
	assert.ErrorIs(t, likert.Check(nil), ErrInvalidAnswer)
	assert.ErrorIs(t, likert.Check([]string{"q1-2", "q1-3"}), ErrInvalidAnswer)
	assert.ErrorIs(t, likert.Check([]string{"q2-2"}), ErrInvalidAnswer)

	assert.NoError(t, multiple.Check([]string{"q3-1", "q3-5"}))
	assert.ErrorIs(t, multiple.Check([]string{"q3-1", "q3-1"}), ErrInvalidAnswer)
	assert.ErrorIs(t, multiple.Check([]string{}), ErrInvalidAnswer)
}

func TestFormWalksToCompletion(t *testing.T) {
	now := time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC)
	st := store.New(store.Seed(now))
	f := NewForm(Default())

	assert.False(t, f.CanProceed())
	assert.ErrorIs(t, f.Next(st), ErrInvalidAnswer)

	require.NoError(t, f.Select("q1-1"))
	require.NoError(t, f.Select("q1-4"))
	assert.True(t, f.Selected("q1-4"))
	assert.False(t, f.Selected("q1-1"))
	require.NoError(t, f.Next(st))

	require.NoError(t, f.Select("q2-3"))
	require.NoError(t, f.Next(st))

	assert.Equal(t, 0.5, f.Progress())
	require.NoError(t, f.Select("q3-2"))
	require.NoError(t, f.Select("q3-3"))
	require.NoError(t, f.Select("q3-2"))
	assert.ErrorIs(t, f.Select("q4-1"), ErrInvalidAnswer)
	require.NoError(t, f.Next(st))

	assert.True(t, f.Last())
	require.NoError(t, f.Select("q4-2"))
	assert.False(t, st.Get().QuestionnaireDone)
	require.NoError(t, f.Next(st))

	assert.True(t, f.Done())
	assert.ErrorIs(t, f.Next(st), ErrDone)
	s := st.Get()
	assert.True(t, s.QuestionnaireDone)
	assert.Equal(t, map[string][]string{
		"q1": {"q1-4"},
		"q2": {"q2-3"},
		"q3": {"q3-3"},
		"q4": {"q4-2"},
	}, s.Answers)
}
