package ui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ramanasai/sereni/internal/config"
	"github.com/ramanasai/sereni/internal/db"
	"github.com/ramanasai/sereni/internal/debrief"
	"github.com/ramanasai/sereni/internal/exercise"
	"github.com/ramanasai/sereni/internal/grid"
	"github.com/ramanasai/sereni/internal/markers"
	"github.com/ramanasai/sereni/internal/mood"
	"github.com/ramanasai/sereni/internal/notify"
	"github.com/ramanasai/sereni/internal/questionnaire"
	"github.com/ramanasai/sereni/internal/schedule"
	"github.com/ramanasai/sereni/internal/store"
	"github.com/ramanasai/sereni/internal/version"
)

type screen int
type mode int

const (
	screenQuestionnaire screen = iota
	screenCheckIn
	screenJournal
	screenExercises
	screenCircles
	screenSessions
	screenDebrief
	screenProgress
	screenEmergency
)

const (
	modeNormal mode = iota
	modeTags
	modeSuggestion
	modeNewSession
	modeHelp
)

// Deps is everything the app is built from. Zero fields get defaults.
type Deps struct {
	Config    config.Config
	Log       *zap.Logger
	Store     *store.Store
	Ledger    *db.Ledger
	Moods     *mood.Catalogue
	Matcher   *markers.Matcher
	Script    *debrief.Script
	Questions []questionnaire.Question
	Notifier  notify.Notifier
	// Scheduler overrides the event-loop scheduler used to debounce
	// journal text.
	Scheduler schedule.Scheduler
	Now       func() time.Time
}

// core is shared by every copy of the Model. It is only touched from the
// program's event loop, except for post.
type core struct {
	inbox     chan func()
	done      chan struct{}
	closeOnce sync.Once
	pending   []markers.Intervention
}

func (c *core) post(f func()) {
	select {
	case c.inbox <- f:
	case <-c.done:
	}
}

func (c *core) emit(iv markers.Intervention) {
	c.pending = append(c.pending, iv)
}

func (c *core) drain() []markers.Intervention {
	out := c.pending
	c.pending = nil
	return out
}

type Model struct {
	cfg      config.Config
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
	st       *store.Store
	ledger   *db.Ledger
	notifier notify.Notifier
	core     *core

	moods        *mood.Catalogue
	engine       *grid.Engine
	framePending bool

	dispatcher *markers.Dispatcher
	finisher   *exercise.Finisher
	script     *debrief.Script

	width, height int
	screen        screen
	prevScreen    screen
	mode          mode
	status        string
	th            Theme

	// questionnaire
	form       *questionnaire.Form
	formCursor int

	// check-in
	tags      map[string]bool
	tagCursor int
	tagInput  AutocompleteModel
	tagSearch bool

	// journal
	activeEntry   string
	editor        textarea.Model
	journalScroll int

	// intervention sheet
	suggestion      Suggestion
	suggestionEntry string

	// exercises
	exCursor     int
	circles      *exercise.Circles
	circCursor   int
	circlesEntry string
	actionInput  textinput.Model
	editing      string

	// sessions
	sessCursor int
	dateInput  textinput.Model
	conv       *debrief.Conversation
	convCursor int

	progress    db.Progress
	progressErr error
	progressOK  bool
}

// New builds the model. Close must be called once the program has exited.
func New(d Deps) Model {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Store == nil {
		d.Store = store.New(store.State{}, store.WithLogger(d.Log))
	}
	if d.Moods == nil {
		d.Moods = mood.MustCatalogue()
	}
	if d.Matcher == nil {
		d.Matcher = markers.NewMatcher(markers.MustDefault())
	}
	if d.Script == nil {
		d.Script = debrief.MustDefault()
	}
	if d.Questions == nil {
		d.Questions = questionnaire.Default()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Desktop{Alert: true}
	}

	c := &core{inbox: make(chan func(), 64), done: make(chan struct{})}
	sched := d.Scheduler
	if sched == nil {
		sched = schedule.NewLoop(c.post)
	}

	ed := textarea.New()
	ed.Placeholder = "Écris tes pensées ici..."
	ed.SetHeight(6)
	ed.ShowLineNumbers = false
	ed.CharLimit = 0

	ai := textinput.New()
	ai.Placeholder = "Ce que je peux faire concrètement..."
	ai.CharLimit = 200
	ai.Width = 50

	di := textinput.New()
	di.Placeholder = "AAAA-MM-JJ HH:MM"
	di.CharLimit = 16
	di.Width = 20

	var tagDB *sql.DB
	if d.Ledger != nil {
		tagDB = d.Ledger.DB()
	}

	m := Model{
		cfg:      d.Config,
		log:      d.Log,
		loc:      d.Config.Location(),
		now:      d.Now,
		st:       d.Store,
		ledger:   d.Ledger,
		notifier: d.Notifier,
		core:     c,
		moods:    d.Moods,
		engine:   grid.New(d.Moods, grid.WithLogger(d.Log.Named("grid"))),
		dispatcher: markers.NewDispatcher(d.Matcher, sched, c.emit,
			markers.WithDelay(d.Config.Markers.SettleDelay),
			markers.WithLogger(d.Log.Named("markers"))),
		finisher:    exercise.NewFinisher(d.Store, d.Store, d.Log.Named("exercise")),
		script:      d.Script,
		th:          ThemeFor(d.Config.Theme),
		form:        questionnaire.NewForm(d.Questions),
		tags:        map[string]bool{},
		tagInput:    NewAutocomplete(tagDB, d.Config.Location(), 5),
		editor:      ed,
		actionInput: ai,
		dateInput:   di,
	}
	if d.Store.Get().QuestionnaireDone {
		m.screen = screenCheckIn
		m.engine.Activate()
	}
	return m
}

// Close stops pending marker checks and releases the event loop.
func (m Model) Close() {
	m.dispatcher.Close()
	m.core.closeOnce.Do(func() { close(m.core.done) })
}

// Run starts the terminal UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, d Deps) error {
	m := New(d)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickNow(), waitLoop(m.core), textarea.Blink)
}

// ---------- messages & commands ----------

type tickMsg struct{ now time.Time }

// loopMsg carries a scheduler callback onto the event loop.
type loopMsg struct{ f func() }

type frameMsg struct{}

type progressLoadedMsg struct {
	progress db.Progress
	err      error
}

func tickNow() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg{now: t} })
}

func waitLoop(c *core) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-c.inbox:
			return loopMsg{f: f}
		case <-c.done:
			return nil
		}
	}
}

func (m Model) loadProgressCmd() tea.Cmd {
	ledger, loc, now := m.ledger, m.loc, m.now()
	return func() tea.Msg {
		if ledger == nil {
			return progressLoadedMsg{err: errNoLedger}
		}
		p, err := db.LoadProgress(ledger.DB(), loc, now)
		return progressLoadedMsg{progress: p, err: err}
	}
}

var errNoLedger = errors.New("no activity ledger")

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	// marker callbacks run inside update; route what they produced
	if ivs := next.core.drain(); len(ivs) > 0 {
		for _, iv := range ivs {
			if routeIntervention(iv, &next) {
				next.st.RecordMarker(iv.Context, string(iv.Category), iv.Keyword)
			}
		}
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tickNow()

	case loopMsg:
		msg.f()
		return m, waitLoop(m.core)

	case frameMsg:
		m.framePending = false
		if m.engine.Tick() {
			cmd := m.nextFrame()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeGrid()
		m.editor.SetWidth(max(20, min(m.width-4, 100)))
		return m, nil

	case progressLoadedMsg:
		m.progress, m.progressErr = msg.progress, msg.err
		m.progressOK = msg.err == nil
		if msg.err != nil && !errors.Is(msg.err, errNoLedger) {
			m.log.Warn("progress load failed", zap.Error(msg.err))
			m.addNotification("Progression indisponible : " + msg.err.Error())
		}
		return m, nil

	case AutocompleteMsg:
		var cmd tea.Cmd
		m.tagInput, cmd = m.tagInput.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeHelp:
			m.mode = modeNormal
			return m, nil
		case modeTags:
			return m.updateTags(msg)
		case modeSuggestion:
			return m.updateSuggestion(msg)
		case modeNewSession:
			return m.updateNewSession(msg)
		}
		if m.typing() {
			return m.updateScreen(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.mode = modeHelp
			return m, nil
		}
		if s, ok := tabKey(msg.String()); ok && m.tabsEnabled() {
			return m.switchTo(s)
		}
		return m.updateScreen(msg)
	}

	// let the focused inputs see everything else, e.g. cursor blinks
	var cmd tea.Cmd
	switch {
	case m.screen == screenJournal && m.editor.Focused():
		m.editor, cmd = m.editor.Update(msg)
	case m.screen == screenCircles && m.editing != "":
		m.actionInput, cmd = m.actionInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateScreen(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.screen {
	case screenQuestionnaire:
		return m.updateQuestionnaire(msg)
	case screenCheckIn:
		return m.updateGrid(msg)
	case screenJournal:
		return m.updateJournal(msg)
	case screenExercises:
		return m.updateExercises(msg)
	case screenCircles:
		return m.updateCircles(msg)
	case screenSessions:
		return m.updateSessions(msg)
	case screenDebrief:
		return m.updateDebrief(msg)
	case screenProgress:
		if msg.String() == "r" {
			return m, m.loadProgressCmd()
		}
	case screenEmergency:
		return m.updateEmergency(msg)
	}
	return m, nil
}

// tabsEnabled reports whether the number keys switch tabs. Wizards keep
// them for their own choices.
func (m Model) tabsEnabled() bool {
	switch m.screen {
	case screenQuestionnaire, screenCircles, screenDebrief:
		return false
	}
	return true
}

// typing reports whether keys belong to a text field.
func (m Model) typing() bool {
	return (m.screen == screenJournal && m.editor.Focused()) ||
		(m.screen == screenCircles && m.editing != "")
}

var tabs = []struct {
	key    string
	screen screen
	label  string
}{
	{"1", screenCheckIn, "Humeur"},
	{"2", screenJournal, "Journal"},
	{"3", screenExercises, "Exercices"},
	{"4", screenSessions, "Séances"},
	{"5", screenProgress, "Progression"},
}

func tabKey(k string) (screen, bool) {
	for _, t := range tabs {
		if t.key == k {
			return t.screen, true
		}
	}
	return 0, false
}

// switchTo leaves the current screen and enters s.
func (m Model) switchTo(s screen) (Model, tea.Cmd) {
	if m.screen == screenCheckIn && s != screenCheckIn {
		m.engine.Deactivate()
		m.framePending = false
	}
	if m.screen == screenJournal {
		m.editor.Blur()
	}
	m.prevScreen = m.screen
	m.screen = s
	m.mode = modeNormal

	switch s {
	case screenCheckIn:
		m.engine.Activate()
		m.resizeGrid()
	case screenProgress:
		return m, m.loadProgressCmd()
	}
	return m, nil
}

func (m *Model) addNotification(msg string) {
	m.status = msg
}

// ---------- intervention handling ----------

// DangerDetected leaves whatever is on screen for the emergency numbers.
func (m *Model) DangerDetected(entryID string) {
	m.log.Warn("danger marker, showing emergency screen", zap.String("entry", entryID))
	if m.screen == screenCheckIn {
		m.engine.Deactivate()
	}
	m.editor.Blur()
	if m.screen != screenEmergency {
		m.prevScreen = m.screen
	}
	m.screen = screenEmergency
	m.mode = modeNormal
	if m.cfg.Markers.DesktopAlert {
		title, body := notify.FormatSafetyPrompt()
		if err := m.notifier.Notify(title, body); err != nil {
			m.log.Warn("desktop alert failed", zap.Error(err))
		}
	}
}

// ExerciseSuggested opens the suggestion sheet over the journal. It never
// covers the emergency screen.
func (m *Model) ExerciseSuggested(entryID string, s Suggestion) {
	if m.screen == screenEmergency {
		return
	}
	m.suggestion = s
	m.suggestionEntry = entryID
	m.editor.Blur()
	m.mode = modeSuggestion
}

func (m Model) updateSuggestion(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "l":
		m.mode = modeNormal
		return m, nil
	case "enter":
		m.mode = modeNormal
		if m.suggestion.Placeholder() {
			m.addNotification(m.suggestion.Title + " · bientôt disponible")
			return m, nil
		}
		return m.startCircles(m.suggestionEntry)
	}
	return m, nil
}

func (m Model) renderSuggestion() string {
	s := m.suggestion
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.th.Value.Width(50).Render(s.Description),
		"",
		m.th.Hint.Render("⏱ "+s.Duration),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.th.Button.Render("Commencer l'exercice"), "  ",
			m.th.Hint.Render("Esc · Plus tard")),
	)
	return m.modal(s.Icon+"  "+s.Title, body)
}

// ---------- view ----------

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	top := m.renderTopBar()
	status := m.statusBar()
	innerH := max(8, m.height-lipgloss.Height(top)-lipgloss.Height(status))

	var body string
	switch m.screen {
	case screenQuestionnaire:
		body = m.renderQuestionnaire(m.width, innerH)
	case screenCheckIn:
		body = m.renderCheckIn(m.width, innerH)
	case screenJournal:
		body = m.renderJournal(m.width, innerH)
	case screenExercises:
		body = m.renderExercises(m.width, innerH)
	case screenCircles:
		body = m.renderCircles(m.width, innerH)
	case screenSessions:
		body = m.renderSessions(m.width, innerH)
	case screenDebrief:
		body = m.renderDebrief(m.width, innerH)
	case screenProgress:
		body = m.renderProgress(m.width, innerH)
	case screenEmergency:
		body = m.renderEmergency(m.width, innerH)
	}
	body = lipgloss.NewStyle().Height(innerH).MaxHeight(innerH).Render(body)
	ui := lipgloss.JoinVertical(lipgloss.Left, top, body, status)

	// overlays
	switch m.mode {
	case modeTags:
		ui = overlayCenter(ui, m.renderTags())
	case modeSuggestion:
		ui = overlayCenter(ui, m.renderSuggestion())
	case modeNewSession:
		ui = overlayCenter(ui, m.renderNewSession())
	case modeHelp:
		ui = overlayCenter(ui, m.helpView())
	}
	return ui
}

func (m Model) renderTopBar() string {
	active := m.screen
	switch active {
	case screenCircles:
		active = screenExercises
	case screenDebrief:
		active = screenSessions
	}
	parts := []string{m.th.TopBar.Render("Sereni")}
	if m.screen != screenQuestionnaire {
		for _, t := range tabs {
			label := t.key + " " + t.label
			if t.screen == active {
				parts = append(parts, m.th.TabActive.Render(label))
			} else {
				parts = append(parts, m.th.Tab.Render(label))
			}
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) statusBar() string {
	hints := m.hints()
	if m.status != "" {
		hints = m.status
	}
	return m.th.StatusBar.Render(fmt.Sprintf("%s   |   %s", version.Short(), hints))
}

func (m Model) hints() string {
	switch m.mode {
	case modeTags:
		return "←/→/↑/↓ choisir • espace cocher • / chercher • Entrée valider • Esc retour"
	case modeSuggestion:
		return "Entrée commencer • Esc plus tard"
	case modeNewSession:
		return "Entrée planifier • Esc annuler"
	}
	switch m.screen {
	case screenQuestionnaire:
		return "↑/↓ choisir • espace cocher • Entrée suivant"
	case screenCheckIn:
		return "souris glisser • ←/→/↑/↓ voisin • Entrée choisir • p passer • ? aide • q quitter"
	case screenJournal:
		if m.editor.Focused() {
			return "Esc terminer l'écriture"
		}
		return "e écrire • n nouvelle humeur • ↑/↓ défiler • ? aide • q quitter"
	case screenExercises:
		return "↑/↓ choisir • Entrée commencer"
	case screenCircles:
		if m.editing != "" {
			return "Entrée enregistrer • Esc annuler"
		}
		return "Tab continuer • Esc retour"
	case screenSessions:
		return "↑/↓ choisir • Entrée debriefer • n nouvelle séance"
	case screenDebrief:
		return "↑/↓ choisir • Entrée répondre"
	case screenProgress:
		return "r actualiser"
	case screenEmergency:
		return "Entrée revenir à mon journal"
	}
	return ""
}

func (m Model) helpView() string {
	rows := []string{
		"1-5        changer d'onglet",
		"?          cette aide",
		"q, Ctrl+C  quitter",
		"",
		"Humeur     glisser à la souris ou flèches, Entrée pour choisir",
		"Journal    e pour écrire, Esc pour arrêter",
		"Exercices  Tab pour passer à l'étape suivante",
		"Séances    n pour planifier une séance",
	}
	return m.modal("Aide", strings.Join(rows, "\n"))
}

func (m Model) modal(title, content string) string {
	box := lipgloss.JoinVertical(lipgloss.Left,
		m.th.ModalTitle.Render(title),
		content,
	)
	return m.th.ModalBox.Render(box)
}

func overlayCenter(base, modal string) string {
	// naive center overlay using vertical join with blank lines
	baseH := lipgloss.Height(base)
	mh := lipgloss.Height(modal)
	topPad := max(0, (baseH-mh)/3)
	return lipgloss.JoinVertical(lipgloss.Left, strings.Repeat("\n", topPad), lipgloss.PlaceHorizontal(lipgloss.Width(base), lipgloss.Center, modal), "")
}

func progressBar(frac float64, width int, fill lipgloss.Style) string {
	frac = max(0, min(1, frac))
	n := int(frac*float64(width) + 0.5)
	return fill.Render(strings.Repeat("█", n)) + strings.Repeat("░", width-n)
}
