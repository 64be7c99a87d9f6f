package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/hidden-messages/internal/models"
	"github.com/tatianab/hidden-messages/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7AF"))

	turnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5F5F87")).
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Bold(true)

	thoughtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true).
			PaddingLeft(2)

	guessStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#FFA500")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#00D75F")).
			Bold(true).
			Padding(0, 1)

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#AF0000")).
			Bold(true).
			Padding(0, 1)

	rosterStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
)

func logWidth(total int) int {
	return max(int(float64(total)*0.72), 40)
}

func (m model) View() string {
	var s string
	switch m.screen {
	case screenSetup:
		s = m.viewSetup()
	case screenConversation:
		s = m.viewConversation()
	case screenSessions:
		s = m.viewSessions()
	case screenHistory:
		s = m.viewHistory()
	case screenTranscripts:
		s = m.viewTranscripts()
	}
	if m.notice != "" {
		s += "\n" + accentStyle.Render(m.notice)
	}
	if m.err != nil {
		s += "\n" + errorStyle.Render("Error: "+m.err.Error())
	}
	return "\n" + s + "\n"
}

func (m model) modeBadge() string {
	if m.gateway == nil {
		return ""
	}
	return accentStyle.Render("[" + m.gateway.Mode().Label() + "]")
}

func (m model) viewSetup() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HIDDEN MESSAGES") + "  " + m.modeBadge() + "\n\n")
	b.WriteString("Topic\n" + m.topic.View() + "\n\n")
	b.WriteString("Secret word\n" + m.secret.View() + "\n\n")

	b.WriteString(titleStyle.Render("PARTICIPANTS") + "\n")
	for _, p := range m.roster {
		fmt.Fprintf(&b, "  %-8s %-12s %s\n", p.Name, p.Role, p.Provider)
	}
	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " Setting up agents...\n\n")
	}
	b.WriteString(helpStyle.Render("enter: start  tab: next field  ctrl+a/ctrl+d: add/remove bystander  ctrl+t: toggle mode  ctrl+l: sessions  ctrl+o: saved  esc: quit"))
	return b.String()
}

func (m model) viewConversation() string {
	header := titleStyle.Render("TOPIC") + " " + m.state.Topic + "  " + m.modeBadge()
	if m.state.SessionID != "" {
		header += "  " + helpStyle.Render(m.state.SessionID)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.renderRoster())

	var status string
	switch {
	case m.state.Phase == session.PhaseResolved:
		status = m.renderOutcome()
	case m.busy:
		status = m.spinner.View() + fmt.Sprintf(" Turn %d in progress...", m.state.TurnNumber()+1)
	default:
		status = fmt.Sprintf("Turn %d", m.state.TurnNumber())
	}

	keys := "n: next turn  t: thoughts  h: history  l: sessions  o: saved  r: new session  q: quit"
	if m.state.Phase == session.PhaseResolved {
		keys = "t: thoughts  h: history  l: sessions  o: saved  r: new session  q: quit"
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", status, helpStyle.Render(keys))
}

func (m model) renderOutcome() string {
	switch m.state.Outcome {
	case models.StatusWin:
		return winStyle.Render("GAME OVER: the receiver found the secret word")
	case models.StatusLoss:
		return lossStyle.Render("GAME OVER: the receiver ran out of guesses")
	}
	return ""
}

func (m model) renderTurns() string {
	if len(m.state.Turns) == 0 {
		return helpStyle.Render("No turns yet. Press n to start the conversation.")
	}
	names := map[string]string{}
	for _, p := range m.state.Participants {
		names[p.ID] = p.Name
	}

	var b strings.Builder
	for _, t := range m.state.Turns {
		b.WriteString(turnStyle.Render(fmt.Sprintf("[TURN_%03d]", t.Number)) + "\n")
		for _, msg := range t.Messages {
			name := msg.ParticipantName
			if name == "" {
				name = names[msg.ParticipantID]
			}
			fmt.Fprintf(&b, "%s %s\n", nameStyle.Render(name+":"), msg.Comms)
			if m.revealThoughts && msg.InternalThoughts != "" {
				b.WriteString(thoughtStyle.Render("thinks: "+msg.InternalThoughts) + "\n")
			}
		}
		if t.Guess != nil {
			b.WriteString(guessStyle.Render(guessLine(t.Guess, names)) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func guessLine(g *models.GuessResult, names map[string]string) string {
	who := names[g.Agent]
	if who == "" {
		who = g.Agent
	}
	verdict := "incorrect"
	if g.Correct {
		verdict = "CORRECT"
	}
	return fmt.Sprintf("%s guessed: %s (%d tries remaining)", who, verdict, g.TriesRemaining)
}

func (m model) renderRoster() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ROSTER") + "\n")
	for _, p := range m.state.Participants {
		fmt.Fprintf(&b, "%s\n  %s, %s\n", p.Name, p.Role, p.Provider)
		if p.Role == models.RoleReceiver {
			fmt.Fprintf(&b, "  tries: %d/%d\n", m.state.TriesLeft(p.ID), models.MaxTries)
		}
	}
	width := max(m.width-logWidth(m.width)-4, 20)
	return rosterStyle.Width(width).Height(m.viewport.Height).Render(b.String())
}

func (m model) viewSessions() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SESSIONS") + "  " + m.modeBadge() + "\n\n")
	if len(m.sessions) == 0 {
		b.WriteString("No sessions yet.\n")
	}
	for i, s := range m.sessions {
		state := "active"
		if s.GameOver {
			state = string(s.GameStatus)
		}
		line := fmt.Sprintf("%s  %-30s %3d msgs  %-6s %s", s.CreatedAt.Format("2006-01-02 15:04"), s.Topic, s.MessageCount, state, s.SessionID)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " Loading session...\n")
	}
	b.WriteString("\n" + helpStyle.Render("up/down: select  enter: resume  esc: back"))
	return b.String()
}

func (m model) viewTranscripts() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SAVED TRANSCRIPTS") + "\n\n")
	if len(m.saved) == 0 {
		b.WriteString("No saved transcripts. Press e on a history screen to save one.\n")
	}
	for i, name := range m.saved {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+name) + "\n")
		} else {
			b.WriteString("  " + name + "\n")
		}
	}
	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " Loading transcript...\n")
	}
	b.WriteString("\n" + helpStyle.Render("up/down: select  enter: open  esc: back"))
	return b.String()
}

func (m model) viewHistory() string {
	h := m.history
	if h == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("HISTORY") + "\n")
	fmt.Fprintf(&b, "Topic: %s\nSecret word: %s\nStarted: %s\n\n", h.Topic, h.SecretWord, h.CreatedAt.Format("2006-01-02 15:04:05"))

	guesses := map[int]models.HistoryGuess{}
	for _, g := range h.Guesses {
		guesses[g.Turn] = g
	}
	messages := append([]models.HistoryMessage(nil), h.Messages...)
	sort.SliceStable(messages, func(i, j int) bool { return messages[i].Turn < messages[j].Turn })

	turn := 0
	for _, msg := range messages {
		if msg.Turn != turn {
			if g, ok := guesses[turn]; ok {
				b.WriteString(historyGuessLine(g) + "\n")
			}
			turn = msg.Turn
			b.WriteString(turnStyle.Render(fmt.Sprintf("[TURN_%03d]", turn)) + "\n")
		}
		fmt.Fprintf(&b, "%s %s\n", nameStyle.Render(msg.ParticipantName+":"), msg.Comms)
		if msg.InternalThoughts != "" {
			b.WriteString(thoughtStyle.Render("thinks: "+msg.InternalThoughts) + "\n")
		}
	}
	if g, ok := guesses[turn]; ok {
		b.WriteString(historyGuessLine(g) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("e: export YAML  esc: back"))
	return b.String()
}

func historyGuessLine(g models.HistoryGuess) string {
	verdict := "incorrect"
	if g.Correct {
		verdict = "CORRECT"
	}
	return guessStyle.Render(fmt.Sprintf("%s guessed %q: %s (%d tries remaining)", g.ParticipantName, g.Guess, verdict, g.TriesRemaining))
}
