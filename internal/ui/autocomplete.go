package ui

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"

	"github.com/ramanasai/sereni/internal/db"
)

// ContextTag is something the user says influenced their mood.
type ContextTag struct {
	ID    string
	Label string
	Icon  string
}

var ContextTags = []ContextTag{
	{"work", "Travail", "💼"},
	{"family", "Famille", "👨‍👩‍👧"},
	{"friends", "Ami·es", "👋"},
	{"health", "Santé", "🏥"},
	{"rest", "Repos", "😴"},
	{"sport", "Sport", "🏃"},
	{"food", "Alimentation", "🍽️"},
	{"love", "Relation", "❤️"},
	{"money", "Finances", "💰"},
	{"studies", "Études", "📚"},
	{"hobby", "Loisir", "🎨"},
	{"therapy", "Thérapie", "🧠"},
}

func tagByID(id string) (ContextTag, bool) {
	for _, t := range ContextTags {
		if t.ID == id {
			return t, true
		}
	}
	return ContextTag{}, false
}

// AutocompleteMsg carries suggestions for the query they were computed for.
type AutocompleteMsg struct {
	Query       string
	Suggestions []ContextTag
}

// AutocompleteModel is a text input that suggests context tags, most used
// first.
type AutocompleteModel struct {
	input          textinput.Model
	suggestions    []ContextTag
	showing        bool
	selected       int
	db             *sql.DB
	loc            *time.Location
	style          lipgloss.Style
	maxSuggestions int
}

func NewAutocomplete(dbh *sql.DB, loc *time.Location, maxSuggestions int) AutocompleteModel {
	input := textinput.New()
	input.Placeholder = "Tape pour chercher un contexte…"
	input.CharLimit = 32
	input.Width = 30
	return AutocompleteModel{
		input:          input,
		db:             dbh,
		loc:            loc,
		maxSuggestions: maxSuggestions,
		style:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Update handles typing and suggestion navigation. Accepting a suggestion is
// left to the caller through Accept.
func (m AutocompleteModel) Update(msg tea.Msg) (AutocompleteModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyTab, tea.KeyDown:
			if m.showing && len(m.suggestions) > 0 {
				m.selected = (m.selected + 1) % len(m.suggestions)
			}
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			if m.showing && len(m.suggestions) > 0 {
				m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
			}
			return m, nil
		case tea.KeyEscape:
			m.showing = false
			m.selected = 0
			return m, nil
		}
		old := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != old {
			return m, tea.Batch(cmd, m.fetchSuggestions())
		}
		return m, cmd

	case AutocompleteMsg:
		// drop answers to a query the user has typed past
		if msg.Query != m.input.Value() {
			return m, nil
		}
		m.suggestions = msg.Suggestions
		m.showing = len(m.suggestions) > 0 && m.input.Value() != ""
		m.selected = 0
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Accept returns the highlighted suggestion and clears the input.
func (m *AutocompleteModel) Accept() (ContextTag, bool) {
	if !m.showing || len(m.suggestions) == 0 {
		return ContextTag{}, false
	}
	t := m.suggestions[m.selected]
	m.input.SetValue("")
	m.suggestions = nil
	m.showing = false
	m.selected = 0
	return t, true
}

func (m AutocompleteModel) fetchSuggestions() tea.Cmd {
	query := m.input.Value()
	dbh, loc, limit := m.db, m.loc, m.maxSuggestions
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			return AutocompleteMsg{Query: query}
		}
		var usage []db.TagUsage
		if dbh != nil {
			// ranking only; a failed query still gives catalogue order
			usage, _ = db.LoadTagUsage(dbh, loc)
		}
		return AutocompleteMsg{Query: query, Suggestions: suggestTags(query, usage, limit)}
	}
}

// suggestTags returns the tags whose id or label contains query, ignoring
// case, most used first.
func suggestTags(query string, usage []db.TagUsage, limit int) []ContextTag {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	count := map[string]int{}
	for _, u := range usage {
		count[u.Tag] = u.Count
	}

	var out []ContextTag
	for _, t := range ContextTags {
		if strings.Contains(fold.String(t.Label), q) || strings.Contains(t.ID, q) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return count[out[i].ID] > count[out[j].ID] })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m AutocompleteModel) View() string {
	var content strings.Builder
	content.WriteString(m.input.View())

	if m.showing && len(m.suggestions) > 0 {
		content.WriteString("\n")
		for i, s := range m.suggestions {
			if i >= m.maxSuggestions {
				break
			}
			line := s.Icon + " " + s.Label
			if i == m.selected {
				content.WriteString(m.style.Foreground(lipgloss.Color("12")).Render("▶ " + line))
			} else {
				content.WriteString(m.style.Render("  " + line))
			}
			content.WriteString("\n")
		}
	}
	return content.String()
}

func (m AutocompleteModel) Value() string { return m.input.Value() }

func (m *AutocompleteModel) Focus() tea.Cmd {
	m.showing = false
	m.selected = 0
	return m.input.Focus()
}

func (m *AutocompleteModel) Blur() {
	m.input.Blur()
	m.showing = false
	m.selected = 0
}

func (m *AutocompleteModel) Reset() {
	m.input.SetValue("")
	m.suggestions = nil
	m.showing = false
	m.selected = 0
}

func (m AutocompleteModel) Showing() bool { return m.showing }
