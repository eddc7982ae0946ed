package ui

import (
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/debrief"
	"github.com/ramanasai/sereni/internal/store"
)

// sessionOrder is upcoming sessions soonest first, then past sessions
// latest first.
func sessionOrder(sessions []store.Session) (upcoming, past []store.Session) {
	for _, s := range sessions {
		if s.Kind == store.Upcoming {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	sort.SliceStable(past, func(i, j int) bool { return past[i].Date.After(past[j].Date) })
	return upcoming, past
}

func (m Model) orderedSessions() []store.Session {
	up, past := sessionOrder(m.st.Get().Sessions)
	return append(up, past...)
}

func (m Model) updateSessions(msg tea.KeyMsg) (Model, tea.Cmd) {
	all := m.orderedSessions()
	switch msg.String() {
	case "up", "k":
		m.sessCursor = max(0, m.sessCursor-1)
	case "down", "j":
		m.sessCursor = min(max(0, len(all)-1), m.sessCursor+1)
	case "n":
		m.mode = modeNewSession
		m.dateInput.Reset()
		cmd := m.dateInput.Focus()
		return m, cmd
	case "enter", "d":
		if m.sessCursor >= len(all) {
			return m, nil
		}
		s := all[m.sessCursor]
		if !s.NeedsDebrief() {
			if s.Kind == store.Upcoming {
				m.addNotification("Cette séance n'a pas encore eu lieu")
			}
			return m, nil
		}
		return m.startDebrief(s.ID)
	}
	return m, nil
}

func (m Model) updateNewSession(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.dateInput.Blur()
		return m, nil
	case "enter":
		at, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(m.dateInput.Value()), m.loc)
		if err != nil {
			m.addNotification("Date invalide, format AAAA-MM-JJ HH:MM")
			return m, nil
		}
		if !at.After(m.now()) {
			m.addNotification("La date doit être dans le futur")
			return m, nil
		}
		s := m.st.ScheduleSession(at)
		m.log.Info("session scheduled", zap.String("session", s.ID), zap.Time("at", at))
		m.mode = modeNormal
		m.dateInput.Blur()
		m.addNotification("Séance planifiée · " + store.FrenchDate(at) + " à " + at.Format("15:04"))
		return m, nil
	}
	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return m, cmd
}

func (m Model) renderNewSession() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.th.Value.Render("Avec "+store.Therapist),
		"",
		m.th.Label.Render("Date et heure"),
		m.dateInput.View(),
	)
	return m.modal("Nouvelle séance", body)
}

func (m Model) renderSessions(w, h int) string {
	up, past := sessionOrder(m.st.Get().Sessions)
	rows := []string{m.th.Title.Render("Mes séances"), ""}

	line := func(i int, s store.Session) string {
		p := "  "
		if i == m.sessCursor {
			p = m.th.Selected.Render("▶ ")
		}
		when := store.FrenchDate(s.Date.In(m.loc)) + " · " + s.Date.In(m.loc).Format("15:04")
		text := p + m.th.Value.Render(when) + "  " + m.th.Hint.Render(s.Therapist)
		switch {
		case s.Kind == store.Upcoming:
		case s.DebriefCompleted:
			text += "  " + m.th.Success.Render("Debriefé ✓")
		default:
			text += "  " + m.th.Warning.Render("Debriefer →")
		}
		return text
	}

	rows = append(rows, m.th.Label.Render("À venir"))
	if len(up) == 0 {
		rows = append(rows, m.th.Hint.Render("  Aucune séance prévue"))
	}
	for i, s := range up {
		rows = append(rows, line(i, s))
	}
	rows = append(rows, "", m.th.Label.Render("Passées"))
	if len(past) == 0 {
		rows = append(rows, m.th.Hint.Render("  Aucune séance passée"))
	}
	for i, s := range past {
		rows = append(rows, line(len(up)+i, s))
	}
	rows = append(rows, "", m.th.Hint.Render("n · Nouvelle séance"))
	return strings.Join(rows, "\n")
}

// ---------- debrief ----------

func (m Model) startDebrief(sessionID string) (Model, tea.Cmd) {
	m.conv = debrief.Start(m.script,
		debrief.WithSession(sessionID, m.st),
		debrief.WithLogger(m.log.Named("debrief")))
	m.convCursor = 0
	return m.switchTo(screenDebrief)
}

func (m Model) updateDebrief(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.conv == nil {
		return m, nil
	}
	if m.conv.Complete() {
		switch msg.String() {
		case "enter", "esc":
			m.conv = nil
			return m.switchTo(screenJournal)
		}
		return m, nil
	}
	opts := m.conv.Options()
	switch msg.String() {
	case "esc":
		m.conv = nil
		return m.switchTo(screenSessions)
	case "up", "k":
		m.convCursor = max(0, m.convCursor-1)
	case "down", "j":
		m.convCursor = min(max(0, len(opts)-1), m.convCursor+1)
	case "enter", " ":
		if m.convCursor >= len(opts) {
			return m, nil
		}
		if err := m.conv.Choose(opts[m.convCursor].ID); err != nil {
			m.log.Warn("debrief choice failed", zap.Error(err))
			m.addNotification(err.Error())
		}
		m.convCursor = 0
		if m.conv.Complete() {
			m.addNotification("Debrief de séance complété")
		}
	}
	return m, nil
}

func (m Model) renderDebrief(w, h int) string {
	if m.conv == nil {
		return ""
	}
	bubbleW := max(20, min(w*2/3, 70))
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.th.Title.Render("Debrief de séance"),
		m.th.Hint.Render("Discussion guidée"),
		"",
	)

	var chat []string
	for _, msg := range m.conv.Messages() {
		text := wordwrap.String(msg.Text, bubbleW-2)
		if msg.Speaker == debrief.User {
			b := m.th.UserBubble.Render(text)
			chat = append(chat, lipgloss.PlaceHorizontal(w, lipgloss.Right, b))
		} else {
			chat = append(chat, m.th.BotBubble.Render(text))
		}
		chat = append(chat, "")
	}

	var footer []string
	if m.conv.Complete() {
		footer = append(footer, m.th.Button.Render("Retourner au journal"))
	} else {
		for i, o := range m.conv.Options() {
			p := "  "
			st := m.th.Value
			if i == m.convCursor {
				p = m.th.Selected.Render("▶ ")
				st = m.th.Selected
			}
			footer = append(footer, p+st.Render(o.Label))
		}
	}

	// keep the latest messages in view
	foot := strings.Join(footer, "\n")
	avail := max(1, h-lipgloss.Height(header)-lipgloss.Height(foot)-1)
	lines := strings.Split(strings.Join(chat, "\n"), "\n")
	if len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n"), foot)
}
