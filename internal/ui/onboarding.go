package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ramanasai/sereni/internal/questionnaire"
)

func (m Model) updateQuestionnaire(msg tea.KeyMsg) (Model, tea.Cmd) {
	q := m.form.Current()
	switch msg.String() {
	case "up", "k":
		m.formCursor = max(0, m.formCursor-1)
	case "down", "j":
		m.formCursor = min(len(q.Options)-1, m.formCursor+1)
	case " ":
		_ = m.form.Select(q.Options[m.formCursor].ID)
	case "enter":
		// single-answer questions take the highlighted option on enter
		if q.Type != questionnaire.Multiple && !m.form.CanProceed() {
			_ = m.form.Select(q.Options[m.formCursor].ID)
		}
		err := m.form.Next(m.st)
		switch {
		case errors.Is(err, questionnaire.ErrInvalidAnswer):
			m.addNotification("Choisis une réponse pour continuer")
			return m, nil
		case err != nil:
			m.addNotification(err.Error())
			return m, nil
		}
		m.formCursor = 0
		m.status = ""
		if m.form.Done() {
			m.log.Info("questionnaire completed")
			return m.switchTo(screenCheckIn)
		}
	}
	return m, nil
}

func (m Model) renderQuestionnaire(w, h int) string {
	f := m.form
	q := f.Current()
	width := max(30, min(w-4, 80))

	rows := []string{
		m.th.Hint.Render(fmt.Sprintf("Question %d / %d", f.Index()+1, f.Len())),
		progressBar(f.Progress(), 30, m.th.Success),
		"",
		m.th.Title.Render(wordwrap.String(q.Text, width)),
	}
	if q.Type == questionnaire.Multiple {
		rows = append(rows, m.th.Hint.Render("Plusieurs réponses possibles"))
	}
	rows = append(rows, "")
	for i, o := range q.Options {
		mark := "○"
		if q.Type == questionnaire.Multiple {
			mark = "☐"
		}
		if f.Selected(o.ID) {
			mark = "●"
			if q.Type == questionnaire.Multiple {
				mark = "☑"
			}
		}
		line := mark + " " + o.Label
		if i == m.formCursor {
			line = m.th.Selected.Render("▶ " + line)
		} else {
			line = "  " + m.th.Value.Render(line)
		}
		rows = append(rows, line)
	}

	label := "Suivant"
	if f.Last() {
		label = "Terminer"
	}
	btn := m.th.Hint.Render(label)
	if f.CanProceed() || q.Type != questionnaire.Multiple {
		btn = m.th.Button.Render(label)
	}
	rows = append(rows, "", btn)

	intro := m.th.Title.Render("Bienvenue sur Sereni") + "\n" +
		m.th.Hint.Render("Quelques questions pour mieux te connaître") + "\n\n"
	return lipgloss.NewStyle().Padding(1, 2).Render(intro + strings.Join(rows, "\n"))
}
