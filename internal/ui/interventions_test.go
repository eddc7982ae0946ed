package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ramanasai/sereni/internal/exercise"
	"github.com/ramanasai/sereni/internal/markers"
)

type recordingHandler struct {
	danger    []string
	suggested []Suggestion
}

func (r *recordingHandler) DangerDetected(entryID string) { r.danger = append(r.danger, entryID) }

func (r *recordingHandler) ExerciseSuggested(_ string, s Suggestion) {
	r.suggested = append(r.suggested, s)
}

func TestRouteIntervention(t *testing.T) {
	tests := []struct {
		category    markers.Category
		danger      bool
		title       string
		startable   bool
		placeholder bool
	}{
		{category: markers.Danger, danger: true},
		{category: markers.CognitiveDistortion, title: "Cercles de contrôle", startable: true},
		{category: markers.Insomnia, title: "Respiration guidée", placeholder: true},
		{category: markers.Rumination, title: "Ancrage sensoriel", placeholder: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			h := &recordingHandler{}
			ok := routeIntervention(markers.Intervention{Context: "e1", Category: tt.category, Keyword: "k"}, h)
			assert.True(t, ok)
			if tt.danger {
				assert.Equal(t, []string{"e1"}, h.danger)
				assert.Empty(t, h.suggested)
				return
			}
			assert.Empty(t, h.danger)
			if assert.Len(t, h.suggested, 1) {
				s := h.suggested[0]
				assert.Equal(t, tt.title, s.Title)
				assert.Equal(t, tt.placeholder, s.Placeholder())
				if tt.startable {
					assert.Equal(t, exercise.CirclesID, s.ExerciseID)
				}
			}
		})
	}
}

func TestRouteInterventionUnknownCategory(t *testing.T) {
	h := &recordingHandler{}
	assert.False(t, routeIntervention(markers.Intervention{Category: "boredom"}, h))
	assert.Empty(t, h.danger)
	assert.Empty(t, h.suggested)
}

func TestEveryCategoryHasAnAction(t *testing.T) {
	for _, c := range markers.Categories() {
		if c == markers.Danger {
			continue
		}
		_, ok := suggestions[c]
		assert.True(t, ok, c)
	}
}
