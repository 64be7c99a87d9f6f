package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/api"
	"github.com/tatianab/hidden-messages/internal/models"
	"github.com/tatianab/hidden-messages/internal/session"
)

const minParticipants = 3

type screen int

const (
	screenSetup screen = iota
	screenConversation
	screenSessions
	screenHistory
	screenTranscripts
)

// TranscriptStore keeps exported session histories so they can be read back
// without a backend. prefs.Store implements it.
type TranscriptStore interface {
	SaveTranscript(*models.SessionHistoryResponse) (string, error)
	ListTranscripts() ([]string, error)
	LoadTranscript(sessionID string) (*models.SessionHistoryResponse, error)
}

// Deps are the collaborators the UI drives.
type Deps struct {
	Machine     *session.Machine
	Gateway     *api.Gateway
	Transcripts TranscriptStore
}

type model struct {
	screen      screen
	machine     *session.Machine
	gateway     *api.Gateway
	transcripts TranscriptStore

	topic  textinput.Model
	secret textinput.Model
	focus  int
	roster []models.ParticipantConfig

	state          session.State
	revealThoughts bool
	sessions       []models.SessionSummary
	cursor         int
	history        *models.SessionHistoryResponse
	historyFrom    screen
	saved          []string

	viewport viewport.Model
	spinner  spinner.Model
	busy     bool
	notice   string
	err      error
	width    int
	height   int
}

func NewModel(deps Deps) model {
	topic := textinput.New()
	topic.Placeholder = "What should the agents talk about?"
	topic.CharLimit = models.MaxTopicLen
	topic.Width = 50
	topic.Focus()

	secret := textinput.New()
	secret.Placeholder = "leave empty for a random word"
	secret.CharLimit = models.MaxSecretWordLen
	secret.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return model{
		screen:      screenSetup,
		machine:     deps.Machine,
		gateway:     deps.Gateway,
		transcripts: deps.Transcripts,
		topic:       topic,
		secret:      secret,
		roster:      rosterFromDefaults(),
		viewport:    viewport.New(80, 20),
		spinner:     sp,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type sessionStartedMsg struct{ err error }

type turnDoneMsg struct{ err error }

type sessionResumedMsg struct{ err error }

type sessionsLoadedMsg struct {
	sessions []models.SessionSummary
	err      error
}

type historyLoadedMsg struct {
	history *models.SessionHistoryResponse
	from    screen
	err     error
}

type transcriptsListedMsg struct {
	names []string
	err   error
}

type transcriptSavedMsg struct {
	path string
	err  error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenSetup:
			return m.updateSetup(msg)
		case screenConversation:
			return m.updateConversation(msg)
		case screenSessions:
			return m.updateSessions(msg)
		case screenHistory:
			return m.updateHistory(msg)
		case screenTranscripts:
			return m.updateTranscripts(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = logWidth(msg.Width)
		m.viewport.Height = max(msg.Height-8, 5)
		m.refreshLog()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionStartedMsg:
		m.busy = false
		if m.ignore(msg.err) {
			return m, nil
		}
		m.sync()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.screen = screenConversation
		m.err = nil
		m.notice = ""
		return m, nil

	case turnDoneMsg:
		m.busy = false
		if m.ignore(msg.err) {
			return m, nil
		}
		m.sync()
		m.err = msg.err
		return m, nil

	case sessionResumedMsg:
		m.busy = false
		if m.ignore(msg.err) {
			return m, nil
		}
		m.sync()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.screen = screenConversation
		m.err = nil
		m.notice = ""
		if m.state.Degraded {
			m.notice = "History unavailable, continuing as a new session."
		}
		return m, nil

	case sessionsLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.sessions = msg.sessions
		m.cursor = 0
		m.err = nil
		m.screen = screenSessions
		return m, nil

	case historyLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.history = msg.history
		m.historyFrom = msg.from
		m.err = nil
		m.screen = screenHistory
		return m, nil

	case transcriptsListedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.saved = msg.names
		m.cursor = 0
		m.err = nil
		m.screen = screenTranscripts
		return m, nil

	case transcriptSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.notice = "Saved " + msg.path
		return m, nil
	}

	if m.screen == screenSetup {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.focus = 1 - m.focus
		var cmd tea.Cmd
		if m.focus == 0 {
			m.secret.Blur()
			cmd = m.topic.Focus()
		} else {
			m.topic.Blur()
			cmd = m.secret.Focus()
		}
		return m, cmd
	case "ctrl+a":
		m.roster = addBystander(m.roster)
		return m, nil
	case "ctrl+d":
		if len(m.roster) <= minParticipants {
			m.err = fmt.Errorf("at least %d participants are required", minParticipants)
			return m, nil
		}
		m.roster = removeBystander(m.roster)
		m.err = nil
		return m, nil
	case "ctrl+t":
		return m.toggleMode()
	case "ctrl+l":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.loadSessions())
	case "ctrl+o":
		return m.openTranscripts()
	case "enter":
		if m.busy {
			return m, nil
		}
		req := m.startRequest()
		if err := req.Validate(); err != nil {
			m.err = err
			return m, nil
		}
		m.busy = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.startSession(req))
	}
	return m.updateInputs(msg)
}

func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == 0 {
		m.topic, cmd = m.topic.Update(msg)
	} else {
		m.secret, cmd = m.secret.Update(msg)
	}
	return m, cmd
}

func (m model) updateConversation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "n", "enter":
		if m.busy || m.state.Phase != session.PhaseActive {
			return m, nil
		}
		m.busy = true
		m.err = nil
		m.state.Advancing = true
		return m, tea.Batch(m.spinner.Tick, m.nextTurn())
	case "t":
		m.revealThoughts = !m.revealThoughts
		m.refreshLog()
		return m, nil
	case "h":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.loadHistory(m.state.SessionID))
	case "l":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.loadSessions())
	case "o":
		return m.openTranscripts()
	case "r":
		m.machine.Reset()
		m.busy = false
		m.sync()
		m.err = nil
		m.notice = ""
		m.screen = screenSetup
		m.topic.Reset()
		m.secret.Reset()
		m.focus = 0
		m.secret.Blur()
		cmd := m.topic.Focus()
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) updateSessions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.screen = m.returnScreen()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case "enter":
		if m.busy || len(m.sessions) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.resume(m.sessions[m.cursor].SessionID))
	}
	return m, nil
}

func (m model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.screen = m.historyFrom
		return m, nil
	case "e":
		if m.transcripts == nil || m.history == nil {
			m.err = errors.New("transcript export is not configured")
			return m, nil
		}
		return m, m.saveTranscript(m.history)
	}
	return m, nil
}

func (m model) updateTranscripts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.screen = m.returnScreen()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.saved)-1 {
			m.cursor++
		}
	case "enter":
		if m.busy || len(m.saved) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.loadTranscript(m.saved[m.cursor]))
	}
	return m, nil
}

func (m model) openTranscripts() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if m.transcripts == nil {
		m.err = errors.New("transcript export is not configured")
		return m, nil
	}
	m.busy = true
	return m, tea.Batch(m.spinner.Tick, m.listTranscripts())
}

func (m model) toggleMode() (tea.Model, tea.Cmd) {
	next := m.gateway.Mode().Toggle()
	if err := m.gateway.SetMode(next); err != nil {
		log.Warn().Err(err).Msg("could not save api mode")
		m.err = err
		return m, nil
	}
	m.notice = "Switched to " + next.Label()
	return m, nil
}

func (m model) returnScreen() screen {
	if m.state.Phase == session.PhaseUninitialized {
		return screenSetup
	}
	return screenConversation
}

// ignore reports whether a result belongs to a session the user already
// left.
func (m model) ignore(err error) bool {
	return errors.Is(err, session.ErrStale)
}

func (m *model) sync() {
	m.state = m.machine.Snapshot()
	m.refreshLog()
}

func (m *model) refreshLog() {
	m.viewport.SetContent(m.renderTurns())
	m.viewport.GotoBottom()
}

func (m model) startRequest() models.StartSessionRequest {
	req := models.StartSessionRequest{
		Topic:        strings.TrimSpace(m.topic.Value()),
		Participants: append([]models.ParticipantConfig(nil), m.roster...),
	}
	if word := strings.TrimSpace(m.secret.Value()); word != "" {
		req.SecretWord = &word
	}
	return req
}

func (m model) startSession(req models.StartSessionRequest) tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		return sessionStartedMsg{err: machine.StartNew(context.Background(), req)}
	}
}

func (m model) nextTurn() tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		return turnDoneMsg{err: machine.Advance(context.Background())}
	}
}

func (m model) resume(id string) tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		return sessionResumedMsg{err: machine.Resume(context.Background(), id)}
	}
}

func (m model) loadSessions() tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		resp, err := gw.ListSessions(context.Background())
		if err != nil {
			return sessionsLoadedMsg{err: err}
		}
		return sessionsLoadedMsg{sessions: resp.Sessions}
	}
}

func (m model) loadHistory(id string) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		h, err := gw.SessionHistory(context.Background(), id)
		return historyLoadedMsg{history: h, from: screenConversation, err: err}
	}
}

func (m model) listTranscripts() tea.Cmd {
	store := m.transcripts
	return func() tea.Msg {
		names, err := store.ListTranscripts()
		return transcriptsListedMsg{names: names, err: err}
	}
}

func (m model) loadTranscript(name string) tea.Cmd {
	store := m.transcripts
	return func() tea.Msg {
		h, err := store.LoadTranscript(name)
		return historyLoadedMsg{history: h, from: screenTranscripts, err: err}
	}
}

func (m model) saveTranscript(h *models.SessionHistoryResponse) tea.Cmd {
	saver := m.transcripts
	return func() tea.Msg {
		path, err := saver.SaveTranscript(h)
		return transcriptSavedMsg{path: path, err: err}
	}
}

func Run(deps Deps) error {
	p := tea.NewProgram(NewModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
