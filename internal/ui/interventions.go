package ui

import (
	"github.com/ramanasai/sereni/internal/exercise"
	"github.com/ramanasai/sereni/internal/markers"
)

// Suggestion is the exercise offered in the bottom sheet after a marker.
type Suggestion struct {
	Title       string
	Description string
	Duration    string
	Icon        string
	// ExerciseID is set when the exercise can be started from the sheet.
	ExerciseID string
}

func (s Suggestion) Placeholder() bool { return s.ExerciseID == "" }

var suggestions = map[markers.Category]Suggestion{
	markers.CognitiveDistortion: {
		Title:       "Cercles de contrôle",
		Description: "Cet exercice t'aide à distinguer ce que tu contrôles de ce qui te dépasse, pour mieux investir ton énergie.",
		Duration:    "10 min",
		Icon:        "🎯",
		ExerciseID:  exercise.CirclesID,
	},
	markers.Insomnia: {
		Title:       "Respiration guidée",
		Description: "Un exercice de relaxation pour apaiser ton esprit et favoriser un sommeil réparateur.",
		Duration:    "5 min",
		Icon:        "🌙",
	},
	markers.Rumination: {
		Title:       "Ancrage sensoriel",
		Description: "Recentre-toi sur le moment présent grâce à tes 5 sens pour briser le cycle des pensées.",
		Duration:    "5 min",
		Icon:        "🧘",
	},
}

// InterventionHandler is the UI side of a detected marker.
type InterventionHandler interface {
	DangerDetected(entryID string)
	ExerciseSuggested(entryID string, s Suggestion)
}

// routeIntervention maps a dispatched marker onto the handler. It reports
// false for a category with no UI action.
func routeIntervention(iv markers.Intervention, h InterventionHandler) bool {
	if iv.Category == markers.Danger {
		h.DangerDetected(iv.Context)
		return true
	}
	s, ok := suggestions[iv.Category]
	if !ok {
		return false
	}
	h.ExerciseSuggested(iv.Context, s)
	return true
}
