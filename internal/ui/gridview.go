package ui

import (
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ramanasai/sereni/internal/mood"
)

// Rows above and below the grid canvas on the check-in screen.
const (
	gridHeaderRows = 2
	gridFooterRows = 4
)

// gridRect is the canvas area in terminal cells, relative to the screen.
func (m Model) gridRect() (left, top, w, h int) {
	top = 1 + gridHeaderRows // top bar
	h = max(4, m.height-top-gridFooterRows-1)
	return 0, top, max(10, m.width), h
}

// cellToPixel maps a terminal cell to the pixel at its center.
func cellToPixel(x, y, left, top int, cellW, cellH float64) mood.Vec {
	return mood.Vec{
		X: (float64(x-left) + 0.5) * cellW,
		Y: (float64(y-top) + 0.5) * cellH,
	}
}

func (m *Model) resizeGrid() {
	if m.width == 0 {
		return
	}
	_, _, w, h := m.gridRect()
	m.engine.Resize(float64(w)*m.cfg.Grid.CellWidthPx, float64(h)*m.cfg.Grid.CellHeightPx)
}

// nextFrame schedules one animation frame unless one is already on its way.
func (m *Model) nextFrame() tea.Cmd {
	if m.framePending || !m.engine.Animating() {
		return nil
	}
	m.framePending = true
	return tea.Tick(m.cfg.Grid.FrameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.screen != screenCheckIn || m.mode != modeNormal {
		return m, nil
	}
	left, top, _, _ := m.gridRect()
	p := cellToPixel(msg.X, msg.Y, left, top, m.cfg.Grid.CellWidthPx, m.cfg.Grid.CellHeightPx)
	at := m.now()

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.engine.PointerDown(p, at)
		case tea.MouseButtonWheelUp:
			m.engine.Step(0, -1)
		case tea.MouseButtonWheelDown:
			m.engine.Step(0, 1)
		case tea.MouseButtonWheelLeft:
			m.engine.Step(-1, 0)
		case tea.MouseButtonWheelRight:
			m.engine.Step(1, 0)
		}
	case tea.MouseActionMotion:
		m.engine.PointerMove(p, at)
	case tea.MouseActionRelease:
		m.engine.PointerUp(p, at)
	}
	cmd := m.nextFrame()
	return m, cmd
}

func (m Model) updateGrid(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.engine.Step(-1, 0)
	case "right", "l":
		m.engine.Step(1, 0)
	case "up", "k":
		m.engine.Step(0, -1)
	case "down", "j":
		m.engine.Step(0, 1)
	case "enter", " ":
		m.tags = map[string]bool{}
		m.tagCursor = 0
		m.tagSearch = false
		m.tagInput.Reset()
		m.mode = modeTags
		return m, nil
	case "p", "s":
		e := m.st.SkipMood()
		return m.openEntry(e.ID)
	}
	cmd := m.nextFrame()
	return m, cmd
}

// ---------- tags sheet ----------

const tagColumns = 4

func (m Model) updateTags(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.tagSearch {
		switch msg.String() {
		case "esc":
			m.tagSearch = false
			m.tagInput.Blur()
			return m, nil
		case "enter":
			if t, ok := m.tagInput.Accept(); ok {
				m.tags[t.ID] = !m.tags[t.ID]
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.tagInput, cmd = m.tagInput.Update(msg)
		return m, cmd
	}

	n := len(ContextTags)
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
	case "left", "h":
		m.tagCursor = (m.tagCursor - 1 + n) % n
	case "right", "l":
		m.tagCursor = (m.tagCursor + 1) % n
	case "up", "k":
		m.tagCursor = (m.tagCursor - tagColumns + n) % n
	case "down", "j":
		m.tagCursor = (m.tagCursor + tagColumns) % n
	case " ":
		id := ContextTags[m.tagCursor].ID
		m.tags[id] = !m.tags[id]
	case "/":
		m.tagSearch = true
		cmd := m.tagInput.Focus()
		return m, cmd
	case "enter":
		return m.confirmMood()
	}
	return m, nil
}

// selectedTags lists the chosen tag ids in catalogue order.
func (m Model) selectedTags() []string {
	var out []string
	for _, t := range ContextTags {
		if m.tags[t.ID] {
			out = append(out, t.ID)
		}
	}
	return out
}

func (m Model) confirmMood() (Model, tea.Cmd) {
	sel := m.engine.Selected()
	e := m.st.ConfirmMood(sel.Label, sel.Color, m.selectedTags())
	m.mode = modeNormal
	m.addNotification("Humeur enregistrée · " + sel.Label)
	return m.openEntry(e.ID)
}

// openEntry makes id the entry being written and moves to the journal.
func (m Model) openEntry(id string) (Model, tea.Cmd) {
	if m.activeEntry != "" && m.activeEntry != id {
		m.dispatcher.Reset(m.activeEntry)
	}
	m.activeEntry = id
	m.editor.SetValue("")
	m.journalScroll = 0
	m, _ = m.switchTo(screenJournal)
	cmd := m.editor.Focus()
	return m, cmd
}

func (m Model) renderTags() string {
	sel := m.engine.Selected()
	feel := m.th.Value.Render("Je me sens ") +
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(sel.Color)).Render(sel.Label)

	var rows []string
	var row []string
	for i, t := range ContextTags {
		mark := "○"
		if m.tags[t.ID] {
			mark = "●"
		}
		chip := runewidth.FillRight(mark+" "+t.Icon+" "+t.Label, 18)
		switch {
		case i == m.tagCursor && !m.tagSearch:
			chip = m.th.Selected.Render(chip)
		case m.tags[t.ID]:
			chip = m.th.Success.Render(chip)
		default:
			chip = m.th.Value.Render(chip)
		}
		row = append(row, chip)
		if len(row) == tagColumns || i == len(ContextTags)-1 {
			rows = append(rows, strings.Join(row, " "))
			row = nil
		}
	}

	search := m.th.Hint.Render("/ pour chercher un contexte")
	if m.tagSearch {
		search = m.tagInput.View()
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		feel,
		"",
		m.th.Title.Render("Qu'est-ce qui influence ton humeur ?"),
		m.th.Hint.Render("Optionnel · tu peux en choisir plusieurs"),
		"",
		strings.Join(rows, "\n"),
		"",
		search,
		"",
		m.th.Button.Render("Valider"),
	)
	return m.modal("Contexte", body)
}

// ---------- grid canvas ----------

type canvasCell struct {
	r     rune
	style int // index into the style table, -1 for none
}

type canvas struct {
	w, h   int
	cells  []canvasCell
	styles []lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]canvasCell, w*h)}
	for i := range c.cells {
		c.cells[i] = canvasCell{r: ' ', style: -1}
	}
	return c
}

func (c *canvas) addStyle(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

// text writes s starting at (x, y), clipping at the edges. Wide runes are
// replaced so every rune takes one cell.
func (c *canvas) text(x, y int, s string, style int) {
	if y < 0 || y >= c.h {
		return
	}
	for _, r := range s {
		if runewidth.RuneWidth(r) != 1 {
			r = '·'
		}
		if x >= 0 && x < c.w {
			c.cells[y*c.w+x] = canvasCell{r: r, style: style}
		}
		x++
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		run, cur := []rune{}, -2
		flush := func() {
			if len(run) == 0 {
				return
			}
			if cur >= 0 {
				b.WriteString(c.styles[cur].Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			run = run[:0]
		}
		for x := 0; x < c.w; x++ {
			cell := c.cells[y*c.w+x]
			if cell.style != cur {
				flush()
				cur = cell.style
			}
			run = append(run, cell.r)
		}
		flush()
	}
	return b.String()
}

// fade blends hex toward the background as opacity drops.
func fade(hex, bg string, opacity float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	b, err := colorful.Hex(bg)
	if err != nil {
		return hex
	}
	return c.BlendLab(b, 1-opacity).Clamped().Hex()
}

type placedBubble struct {
	entry mood.Entry
	fish  mood.Fisheye
	x, y  int
}

// renderGridCanvas draws the bubbles around the viewport center, nearest on
// top, plus the axis labels.
func (m Model) renderGridCanvas(w, h int) string {
	c := newCanvas(w, h)
	cw, ch := m.cfg.Grid.CellWidthPx, m.cfg.Grid.CellHeightPx
	snap := m.engine.Snapshot()

	var bubbles []placedBubble
	for _, e := range m.moods.Entries() {
		p := m.engine.ToViewport(e.Home())
		bubbles = append(bubbles, placedBubble{
			entry: e,
			fish:  mood.FisheyeFor(e, snap.Offset),
			x:     int(p.X / cw),
			y:     int(p.Y / ch),
		})
	}
	sort.SliceStable(bubbles, func(i, j int) bool { return bubbles[i].fish.Depth < bubbles[j].fish.Depth })

	for _, b := range bubbles {
		label := b.entry.Label
		if b.fish.Scale >= 1.1 {
			label = "( " + label + " )"
		}
		color := fade(b.entry.Color, m.th.Background, b.fish.Opacity)
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		if b.fish.Depth >= 4 {
			st = st.Bold(true)
		}
		if b.entry.ID == snap.Selected.ID {
			st = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color(m.th.Background)).
				Background(lipgloss.Color(b.entry.Color))
		}
		n := len([]rune(label))
		c.text(b.x-n/2, b.y, label, c.addStyle(st))
	}

	axis := c.addStyle(m.th.Hint)
	top, bottom := "Énergie haute ↑", "Énergie basse ↓"
	c.text((w-len([]rune(top)))/2, 0, top, axis)
	c.text((w-len([]rune(bottom)))/2, h-1, bottom, axis)
	c.text(0, h/2, "Désagréable", axis)
	right := "Agréable"
	c.text(w-len([]rune(right)), h/2, right, axis)
	return c.String()
}

func (m Model) renderCheckIn(w, h int) string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.th.Title.Render("Comment te sens-tu ?")+"  "+m.th.Hint.Render("p · Passer"),
		"",
	)
	_, _, cw, chh := m.gridRect()
	grid := m.renderGridCanvas(min(cw, w), min(chh, max(1, h-gridHeaderRows-gridFooterRows)))

	sel := m.engine.Selected()
	q, _ := mood.QuadrantFor(sel.Quadrant)
	name := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(sel.Color)).Render(sel.Label)
	def := wordwrap.String(sel.Definition, max(20, min(w-4, 90)))
	footer := lipgloss.JoinVertical(lipgloss.Left,
		name+"  "+m.th.Hint.Render(q.Label),
		m.th.Value.Render(def),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, grid, footer)
}
