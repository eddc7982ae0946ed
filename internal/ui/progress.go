package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/sereni/internal/store"
)

var dayInitials = [...]string{"D", "L", "M", "M", "J", "V", "S"}

func (m Model) renderProgress(w, h int) string {
	p := m.progress
	rows := []string{
		m.th.Title.Render("Ma progression"),
		m.th.Hint.Render("Ton parcours en un coup d'œil"),
		"",
	}
	if !m.progressOK {
		rows = append(rows, m.th.Hint.Render("Pas encore assez de données"))
		return strings.Join(rows, "\n")
	}

	past := 0
	for _, s := range m.st.Get().Sessions {
		if s.Kind == store.Past {
			past++
		}
	}
	stat := func(n int, label string) string {
		return m.th.Border.Width(14).Align(lipgloss.Center).Render(
			m.th.Title.Render(fmt.Sprint(n)) + "\n" + m.th.Hint.Render(label))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
		stat(p.Entries, "Entrées"), " ",
		stat(p.Exercises, "Exercices"), " ",
		stat(past, "Séances"),
	), "")

	rows = append(rows, m.th.Label.Render("Activité de la semaine"))
	var days, marks []string
	for _, d := range p.Week {
		days = append(days, fmt.Sprintf("%-2s", dayInitials[d.Date.Weekday()]))
		if d.Active {
			marks = append(marks, m.th.Success.Render("● "))
		} else {
			marks = append(marks, m.th.Hint.Render("○ "))
		}
	}
	rows = append(rows, strings.Join(days, " "), strings.Join(marks, " "), "")

	if p.Streak > 0 {
		rows = append(rows,
			m.th.Warning.Render(fmt.Sprintf("🔥 %d jours consécutifs", p.Streak)),
			m.th.Hint.Render("Continue comme ça !"),
			"")
	}

	rows = append(rows, m.th.Label.Render("Humeurs récentes"))
	if len(p.Recent) == 0 {
		rows = append(rows, m.th.Hint.Render("Pas encore assez de données"))
	} else {
		var moods []string
		for _, pt := range p.Recent {
			dot := lipgloss.NewStyle().Foreground(lipgloss.Color(pt.Color)).Render("●")
			moods = append(moods, dot+" "+pt.Label)
		}
		rows = append(rows, strings.Join(moods, "  "))
	}

	if len(p.Tags) > 0 {
		rows = append(rows, "", m.th.Label.Render("Contextes fréquents"))
		top := p.Tags[0].Count
		for i, u := range p.Tags {
			if i == 5 {
				break
			}
			label := u.Tag
			if t, ok := tagByID(u.Tag); ok {
				label = t.Icon + " " + t.Label
			}
			bar := progressBar(float64(u.Count)/float64(max(1, top)), 20, m.th.Success)
			rows = append(rows, fmt.Sprintf("%-18s %s %d", label, bar, u.Count))
		}
	}
	return strings.Join(rows, "\n")
}
