package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/store"
)

func (m Model) updateJournal(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.editor.Focused() {
		if msg.String() == "esc" {
			m.editor.Blur()
			return m, nil
		}
		before := m.editor.Value()
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		if text := m.editor.Value(); text != before {
			m.contentChanged(text)
		}
		return m, cmd
	}

	switch msg.String() {
	case "e", "enter":
		if m.activeEntry == "" {
			m.addNotification("Choisis d'abord ton humeur (n)")
			return m, nil
		}
		cmd := m.editor.Focus()
		return m, cmd
	case "n":
		return m.switchTo(screenCheckIn)
	case "up", "k":
		m.journalScroll++
	case "down", "j":
		m.journalScroll = max(0, m.journalScroll-1)
	}
	return m, nil
}

// contentChanged saves the active entry and hands the text to the marker
// dispatcher.
func (m *Model) contentChanged(text string) {
	if err := m.st.SetContent(m.activeEntry, text); err != nil {
		m.log.Warn("journal entry not saved", zap.String("entry", m.activeEntry), zap.Error(err))
		m.addNotification("Impossible d'enregistrer : " + err.Error())
		return
	}
	m.dispatcher.TextChanged(m.activeEntry, text)
}

func (m Model) renderJournal(w, h int) string {
	now := m.now().In(m.loc)
	wrapW := max(20, min(w-6, 96))

	var lines []string
	groups := store.GroupByDay(m.st.Get().Journal)
	if len(groups) == 0 {
		lines = append(lines, m.th.Hint.Render("Ton journal est vide pour le moment."))
	}
	for _, g := range groups {
		lines = append(lines, "", m.th.Title.Render(store.DayHeading(g.Day, now)))
		for _, e := range g.Entries {
			if e.ID == m.activeEntry {
				continue
			}
			lines = append(lines, strings.Split(m.renderEntry(e, wrapW), "\n")...)
		}
	}

	// the entry being written stays pinned under the history
	var editor string
	if m.activeEntry != "" {
		if e, ok := m.st.Get().Entry(m.activeEntry); ok {
			editor = lipgloss.JoinVertical(lipgloss.Left,
				m.entryHeader(e),
				m.editorView(e),
			)
		}
	}

	avail := max(1, h-lipgloss.Height(editor)-2)
	end := max(0, len(lines)-m.journalScroll)
	start := max(0, end-avail)
	history := strings.Join(lines[start:end], "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.th.Title.Render("Mon journal"),
		history,
		"",
		editor,
	)
}

func (m Model) editorView(e store.JournalEntry) string {
	if m.editor.Focused() {
		return m.th.Border.Render(m.editor.View())
	}
	if e.Content == "" {
		return m.th.Border.Render(m.th.Hint.Render("Écris tes pensées ici...  (e)"))
	}
	return m.th.Border.Render(m.editor.View())
}

func (m Model) entryHeader(e store.JournalEntry) string {
	parts := []string{m.th.Hint.Render(e.At.In(m.loc).Format("15:04"))}
	if e.Mood != "" {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(e.MoodColor)).Render("●")
		parts = append(parts, dot+" "+m.th.Value.Bold(true).Render(e.Mood))
	}
	var tags []string
	for _, id := range e.Tags {
		if t, ok := tagByID(id); ok {
			tags = append(tags, t.Icon+" "+t.Label)
		}
	}
	if len(tags) > 0 {
		parts = append(parts, m.th.Label.Render(strings.Join(tags, " · ")))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderEntry(e store.JournalEntry, width int) string {
	rows := []string{m.entryHeader(e)}
	if c := strings.TrimSpace(e.Content); c != "" {
		rows = append(rows, m.th.Value.Render(wordwrap.String(c, width)))
	}
	if e.CompletedExercise != nil {
		rows = append(rows, m.th.Success.Render("✅ Exercice complété · "+e.CompletedExercise.Title))
	}
	if e.DebriefCompleted {
		rows = append(rows, m.th.Success.Render("💬 Debrief de séance · Complété"))
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(rows, "\n"))
}

// ---------- emergency ----------

func (m Model) updateEmergency(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		m, _ = m.switchTo(screenJournal)
		return m, nil
	}
	return m, nil
}

type helpline struct {
	number, label string
}

var helplines = []helpline{
	{"3114", "Numéro national de prévention du suicide"},
	{"112", "Urgences européennes"},
}

func (m Model) renderEmergency(w, h int) string {
	width := max(30, min(w-4, 70))
	rows := []string{
		m.th.Error.Render("Tu n'es pas seul·e"),
		"",
		m.th.Value.Render(wordwrap.String("Si tu traverses un moment difficile, n'hésite pas à contacter un professionnel. Tu mérites d'être écouté·e.", width)),
		"",
	}
	for _, l := range helplines {
		card := lipgloss.JoinVertical(lipgloss.Left,
			m.th.Title.Render("📞 "+l.number),
			m.th.Value.Render(l.label),
			m.th.Hint.Render("24h/24 · 7j/7 · Gratuit"),
		)
		rows = append(rows, m.th.Border.Width(width).Render(card))
	}
	rows = append(rows, "", m.th.Button.Render("Revenir à mon journal"))
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, rows...))
}
