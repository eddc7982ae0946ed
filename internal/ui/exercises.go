package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/exercise"
	"github.com/ramanasai/sereni/internal/store"
)

func (m Model) updateExercises(msg tea.KeyMsg) (Model, tea.Cmd) {
	list := exercise.List()
	switch msg.String() {
	case "up", "k":
		m.exCursor = max(0, m.exCursor-1)
	case "down", "j":
		m.exCursor = min(len(list)-1, m.exCursor+1)
	case "enter", " ":
		d := list[m.exCursor]
		if !d.Active {
			m.addNotification(d.Title + " · bientôt disponible")
			return m, nil
		}
		return m.startCircles("")
	}
	return m, nil
}

func (m Model) renderExercises(w, h int) string {
	width := max(30, min(w-4, 80))
	rows := []string{m.th.Title.Render("Exercices"), ""}
	for i, d := range exercise.List() {
		title := d.Icon + "  " + d.Title
		meta := d.Category + " · " + d.Duration
		if !d.Active {
			meta += " · bientôt"
		}
		card := lipgloss.JoinVertical(lipgloss.Left,
			m.th.Value.Bold(true).Render(title),
			m.th.Hint.Render(meta),
			m.th.Value.Render(wordwrap.String(d.Description, width-4)),
		)
		box := m.th.Border.Width(width)
		if i == m.exCursor {
			box = box.BorderForeground(m.th.Selected.GetForeground())
		}
		rows = append(rows, box.Render(card))
	}
	return strings.Join(rows, "\n")
}

// startCircles opens the wizard. entryID is the journal entry the result
// is attached to, empty when started from the list.
func (m Model) startCircles(entryID string) (Model, tea.Cmd) {
	m, _ = m.switchTo(screenCircles)
	m.circles = exercise.NewCircles()
	m.circCursor = 0
	m.circlesEntry = entryID
	m.editing = ""
	m.actionInput.Reset()
	return m, nil
}

// circleRows lists the items the cursor moves over at the current step.
func (m Model) circleRows() []exercise.Item {
	switch m.circles.Step() {
	case exercise.StepSelection:
		return exercise.Items()
	case exercise.StepPlacement:
		return m.circles.Selected()
	case exercise.StepActions:
		return m.circles.Actionable()
	case exercise.StepLetGo:
		return m.circles.Remaining()
	}
	return nil
}

func (m Model) updateCircles(msg tea.KeyMsg) (Model, tea.Cmd) {
	c := m.circles
	if m.editing != "" {
		switch msg.String() {
		case "esc":
			m.editing = ""
			m.actionInput.Blur()
			return m, nil
		case "enter":
			if err := c.SetAction(m.editing, m.actionInput.Value()); err != nil {
				m.addNotification(err.Error())
			}
			m.editing = ""
			m.actionInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.actionInput, cmd = m.actionInput.Update(msg)
		return m, cmd
	}

	rows := m.circleRows()
	cur := func() (exercise.Item, bool) {
		if m.circCursor < 0 || m.circCursor >= len(rows) {
			return exercise.Item{}, false
		}
		return rows[m.circCursor], true
	}

	switch msg.String() {
	case "esc", "backspace":
		if !c.Back() {
			return m.leaveCircles()
		}
		m.circCursor = 0
		return m, nil
	case "up", "k":
		m.circCursor = max(0, m.circCursor-1)
		return m, nil
	case "down", "j":
		m.circCursor = min(max(0, len(rows)-1), m.circCursor+1)
		return m, nil
	case "tab":
		if err := c.Next(); err != nil {
			m.addNotification(circlesBlocked(c.Step()))
			return m, nil
		}
		m.circCursor = 0
		m.status = ""
		return m, nil
	}

	switch c.Step() {
	case exercise.StepSelection:
		if it, ok := cur(); ok && (msg.String() == " " || msg.String() == "enter") {
			if err := c.Toggle(it.ID); errors.Is(err, exercise.ErrTooMany) {
				m.addNotification(fmt.Sprintf("Tu peux choisir jusqu'à %d éléments", exercise.MaxSelected))
			}
		}
	case exercise.StepPlacement:
		it, ok := cur()
		if !ok {
			break
		}
		var zone exercise.Zone
		switch msg.String() {
		case "1":
			zone = exercise.Control
		case "2":
			zone = exercise.Influence
		case "3":
			zone = exercise.Outside
		case "enter", " ", "right", "l":
			zone = nextZone(c, it.ID, 1)
		case "left", "h":
			zone = nextZone(c, it.ID, -1)
		default:
			return m, nil
		}
		if err := c.Place(it.ID, zone); err != nil {
			m.addNotification(err.Error())
		}
	case exercise.StepActions:
		if it, ok := cur(); ok && msg.String() == "enter" {
			m.editing = it.ID
			m.actionInput.SetValue(c.Action(it.ID))
			cmd := m.actionInput.Focus()
			return m, cmd
		}
	case exercise.StepLetGo:
		if it, ok := cur(); ok && (msg.String() == " " || msg.String() == "enter") {
			_ = c.LetGo(it.ID)
			m.circCursor = min(m.circCursor, max(0, len(c.Remaining())-1))
		}
	case exercise.StepRecap:
		if msg.String() == "enter" {
			return m.finishCircles()
		}
	}
	return m, nil
}

func nextZone(c *exercise.Circles, id string, dir int) exercise.Zone {
	z, ok := c.Placement(id)
	if !ok {
		if dir > 0 {
			return exercise.Zones[0]
		}
		return exercise.Zones[len(exercise.Zones)-1]
	}
	n := len(exercise.Zones)
	for i, zz := range exercise.Zones {
		if zz == z {
			return exercise.Zones[(i+dir+n)%n]
		}
	}
	return exercise.Zones[0]
}

func circlesBlocked(s exercise.Step) string {
	switch s {
	case exercise.StepSelection:
		return "Sélectionne au moins un élément"
	case exercise.StepPlacement:
		return "Place chaque élément dans un cercle"
	case exercise.StepActions:
		return "Écris une action pour chaque élément"
	case exercise.StepLetGo:
		return "Lâche prise sur chaque élément restant"
	}
	return "Étape incomplète"
}

func (m Model) leaveCircles() (Model, tea.Cmd) {
	m.circles = nil
	if m.circlesEntry != "" {
		m.circlesEntry = ""
		return m.switchTo(screenJournal)
	}
	return m.switchTo(screenExercises)
}

func (m Model) finishCircles() (Model, tea.Cmd) {
	res, err := m.circles.Result()
	if err != nil {
		m.addNotification(err.Error())
		return m, nil
	}
	ret := exercise.Return{
		EntryID: m.circlesEntry,
		OnDone: func(rec store.CompletedExercise) {
			m.addNotification("Exercice complété · " + rec.Title)
		},
	}
	if _, err := m.finisher.Finish(res, ret); err != nil {
		m.log.Warn("exercise not attached", zap.Error(err))
		m.addNotification("Exercice enregistré, mais pas relié au journal")
	}
	return m.leaveCircles()
}

func (m Model) renderCircles(w, h int) string {
	c := m.circles
	if c == nil {
		return ""
	}
	width := max(30, min(w-4, 80))
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.th.Title.Render("🎯 Cercles de contrôle")+"  "+m.th.Hint.Render(c.Step().String()),
		progressBar(c.Progress(), 30, m.th.Success),
		"",
	)

	var body []string
	rows := m.circleRows()
	pointer := func(i int) string {
		if i == m.circCursor {
			return m.th.Selected.Render("▶ ")
		}
		return "  "
	}

	switch c.Step() {
	case exercise.StepSelection:
		body = append(body,
			m.th.Title.Render("Choisis tes préoccupations"),
			m.th.Hint.Render("Sélectionne jusqu'à 5 éléments qui te parlent"),
			"")
		for i, it := range rows {
			box := "[ ]"
			if c.IsSelected(it.ID) {
				box = m.th.Success.Render("[x]")
			}
			body = append(body, pointer(i)+box+" "+it.Text)
		}
		body = append(body, "", m.th.Hint.Render(fmt.Sprintf("%d / 5 sélectionnés", len(c.Selected()))))

	case exercise.StepPlacement:
		body = append(body,
			m.th.Title.Render("Place chaque élément"),
			m.th.Hint.Render("1 Je contrôle · 2 J'influence · 3 Hors de mon contrôle"),
			"")
		for i, it := range rows {
			zone := m.th.Hint.Render("à placer")
			if z, ok := c.Placement(it.ID); ok {
				zone = zoneStyle(z).Render(z.Label())
			}
			body = append(body, pointer(i)+it.Text+"  "+zone)
		}

	case exercise.StepActions:
		body = append(body, m.th.Title.Render("Définis tes actions"), "")
		for i, it := range rows {
			z, _ := c.Placement(it.ID)
			body = append(body, pointer(i)+it.Text+"  "+zoneStyle(z).Render(z.Label()))
			if m.editing == it.ID {
				body = append(body, "    "+m.actionInput.View())
				continue
			}
			action := c.Action(it.ID)
			if strings.TrimSpace(action) == "" {
				action = m.th.Hint.Render("Ce que je peux faire concrètement...")
			}
			body = append(body, "    "+action)
		}

	case exercise.StepLetGo:
		body = append(body, m.th.Title.Render("Lâche prise"), "")
		if len(rows) == 0 {
			body = append(body, m.th.Success.Render("Tu as tout lâché. Bravo !"))
		}
		for i, it := range rows {
			body = append(body, pointer(i)+"🍃 "+it.Text)
		}

	case exercise.StepRecap:
		body = append(body,
			m.th.Title.Render("Bravo !"),
			m.th.Hint.Render("Voici le récap de ton exercice"),
			"")
		for _, z := range exercise.Zones {
			items := c.InZone(z)
			if len(items) == 0 {
				continue
			}
			body = append(body, zoneStyle(z).Render(z.Label()))
			for _, it := range items {
				line := "  • " + it.Text
				if a := strings.TrimSpace(c.Action(it.ID)); a != "" && z.Actionable() {
					line += m.th.Hint.Render(" → " + a)
				}
				body = append(body, wordwrap.String(line, width))
			}
		}
		body = append(body, "", m.th.Button.Render("Terminer l'exercice"))
	}

	if c.Step() != exercise.StepRecap {
		btn := m.th.Hint.Render("Continuer (Tab)")
		if c.CanAdvance() {
			btn = m.th.Button.Render("Continuer")
		}
		body = append(body, "", btn)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(body, "\n"))
}

func zoneStyle(z exercise.Zone) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(z.Color()))
}
