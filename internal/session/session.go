// Package session holds the state of the game a user is looking at: which
// turns have happened, how many guesses the receiver has left, and whether
// the game is over. All changes go through a Machine, which talks to the
// backend and folds each response into its state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/api"
	"github.com/tatianab/hidden-messages/internal/models"
)

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseActive
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseResolved:
		return "resolved"
	default:
		return "uninitialized"
	}
}

var (
	ErrNoSession       = errors.New("no active session")
	ErrResolved        = errors.New("session is already resolved")
	ErrAdvanceInFlight = errors.New("a turn is already in progress")
	// ErrStale is returned when a response arrives for a session the
	// machine has since left. The response is dropped.
	ErrStale = errors.New("response belongs to a previous session")
)

// Turn is one round of conversation.
type Turn struct {
	Number   int
	Messages []models.Message
	Guess    *models.GuessResult
}

// State is a copy of the machine's state, safe to read without locking.
type State struct {
	SessionID      string
	Topic          string
	Participants   []models.ParticipantInfo
	Turns          []Turn
	TriesRemaining map[string]int
	Phase          Phase
	Outcome        models.GameStatus

	// Advancing is true while a turn request is in flight.
	Advancing bool
	// Degraded marks a resume that could not load the session's history.
	Degraded bool
	// Err is the last failure, cleared by the next successful operation.
	Err error
}

func (s State) TurnNumber() int {
	return len(s.Turns)
}

// TriesLeft reports the remaining guesses for a participant. Participants
// without an entry have the full budget.
func (s State) TriesLeft(participantID string) int {
	if n, ok := s.TriesRemaining[participantID]; ok {
		return n
	}
	return models.MaxTries
}

func (s State) Receiver() (models.ParticipantInfo, bool) {
	for _, p := range s.Participants {
		if p.Role == models.RoleReceiver {
			return p, true
		}
	}
	return models.ParticipantInfo{}, false
}

// Machine drives one session at a time. The generation changes whenever the
// session being shown changes; turn responses from an older generation are
// discarded. Start and resume requests are numbered separately so that only
// the latest one lands, and a failed one leaves the current session alone.
type Machine struct {
	backend api.Backend

	mu        sync.Mutex
	gen       uint64
	ticket    uint64
	pending   bool
	advancing bool
	st        State
}

func New(b api.Backend) *Machine {
	return &Machine{backend: b}
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.st
	s.Participants = append([]models.ParticipantInfo(nil), m.st.Participants...)
	s.Turns = copyTurns(m.st.Turns)
	s.TriesRemaining = copyTries(m.st.TriesRemaining)
	s.Advancing = m.advancing
	return s
}

// begin registers a start or resume request. Advance is refused until the
// request settles.
func (m *Machine) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticket++
	m.pending = true
	return m.ticket
}

// settle reports whether ticket is still the latest request and, if so,
// clears the pending flag. Callers hold mu.
func (m *Machine) settle(ticket uint64) bool {
	if ticket != m.ticket {
		return false
	}
	m.pending = false
	return true
}

// replace installs st as a new session. Callers hold mu.
func (m *Machine) replace(st State) {
	m.gen++
	m.advancing = false
	m.st = st
}

// Reset leaves the current session. Anything still in flight for it is
// discarded when it returns.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticket++
	m.pending = false
	m.replace(State{})
}

// StartNew creates a session on the backend. On failure the previous state
// is kept and the error is recorded.
func (m *Machine) StartNew(ctx context.Context, req models.StartSessionRequest) error {
	ticket := m.begin()
	resp, err := m.backend.StartSession(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.settle(ticket) {
		return ErrStale
	}
	if err != nil {
		m.st.Err = err
		return err
	}

	topic := resp.Topic
	if topic == "" {
		topic = req.Topic
	}
	participants := append([]models.ParticipantInfo(nil), resp.Participants...)
	sort.SliceStable(participants, func(i, j int) bool { return participants[i].Order < participants[j].Order })

	m.replace(State{
		SessionID:      resp.SessionID,
		Topic:          topic,
		Participants:   participants,
		TriesRemaining: seedTries(participants),
		Phase:          PhaseActive,
	})
	log.Info().Str("session_id", resp.SessionID).Str("status", resp.Status).Msg("session started")
	return nil
}

// Resume rebuilds the state of an existing session from its history and
// status. If the history cannot be loaded the session is treated as freshly
// started.
func (m *Machine) Resume(ctx context.Context, sessionID string) error {
	ticket := m.begin()

	hist, err := m.backend.SessionHistory(ctx, sessionID)
	if err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		if !m.settle(ticket) {
			return ErrStale
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		log.Warn().Err(err).Str("session_id", sessionID).Msg("history unavailable, resuming as a fresh session")
		m.replace(State{
			SessionID:      sessionID,
			TriesRemaining: map[string]int{},
			Phase:          PhaseActive,
			Degraded:       true,
		})
		return nil
	}

	participants := participantsFromHistory(hist.Participants)
	turns := turnsFromHistory(hist)

	status, statusErr := m.backend.SessionStatus(ctx, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.settle(ticket) {
		return ErrStale
	}

	st := State{
		SessionID:    sessionID,
		Topic:        hist.Topic,
		Participants: participants,
		Turns:        turns,
		Phase:        PhaseActive,
	}
	tries, outcome := replayGuesses(participants, hist.Guesses)
	if statusErr == nil {
		tries = seedTries(participants)
		for id, n := range status.TriesRemaining {
			tries[id] = n
		}
		if status.GameOver {
			if status.GameStatus.Terminal() {
				outcome = status.GameStatus
			}
			if !outcome.Terminal() {
				outcome = models.StatusLoss
			}
		} else {
			outcome = models.StatusNone
		}
	} else {
		log.Warn().Err(statusErr).Str("session_id", sessionID).Msg("status unavailable, using recorded guesses")
	}
	st.TriesRemaining = tries
	if outcome.Terminal() {
		st.Phase = PhaseResolved
		st.Outcome = outcome
	}

	m.replace(st)
	log.Info().Str("session_id", sessionID).Int("turns", len(turns)).Str("phase", st.Phase.String()).Msg("session resumed")
	return nil
}

// Advance runs the next turn. It refuses, without calling the backend, when
// there is no session, the session is resolved, or a turn, start or resume
// is still pending. A failed turn leaves the state as it was.
func (m *Machine) Advance(ctx context.Context) error {
	m.mu.Lock()
	switch {
	case m.pending:
		m.mu.Unlock()
		return ErrAdvanceInFlight
	case m.st.Phase == PhaseUninitialized:
		m.mu.Unlock()
		return ErrNoSession
	case m.st.Phase == PhaseResolved:
		m.mu.Unlock()
		return ErrResolved
	case m.advancing:
		m.mu.Unlock()
		return ErrAdvanceInFlight
	}
	m.advancing = true
	gen := m.gen
	sessionID := m.st.SessionID
	m.mu.Unlock()

	resp, err := m.backend.NextTurn(ctx, models.NextTurnRequest{SessionID: sessionID})

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return ErrStale
	}
	m.advancing = false
	if err == nil {
		err = checkTurn(resp)
	}
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("turn failed")
		m.st.Err = err
		return err
	}

	turn := Turn{
		Number:   len(m.st.Turns) + 1,
		Messages: append([]models.Message(nil), resp.Messages...),
	}
	if resp.GuessResult != nil {
		g := *resp.GuessResult
		turn.Guess = &g
		if m.st.TriesRemaining == nil {
			m.st.TriesRemaining = map[string]int{}
		}
		m.st.TriesRemaining[g.Agent] = g.TriesRemaining
	}
	m.st.Turns = append(m.st.Turns, turn)
	m.st.Err = nil
	if resp.GameOver {
		m.st.Phase = PhaseResolved
		m.st.Outcome = resp.GameStatus
		log.Info().Str("session_id", sessionID).Str("outcome", string(resp.GameStatus)).Int("turn", turn.Number).Msg("session resolved")
	}
	return nil
}

// checkTurn rejects responses that would leave the state inconsistent.
func checkTurn(resp *models.NextTurnResponse) error {
	bad := func(reason string) error {
		return &api.BackendError{Op: api.OpNextTurn, Message: "Failed to execute turn: " + reason}
	}
	switch {
	case resp == nil:
		return bad("empty response")
	case resp.GuessResult != nil && resp.GuessResult.Agent == "":
		return bad("guess without a participant")
	case resp.GuessResult != nil && resp.GuessResult.TriesRemaining < 0:
		return bad(fmt.Sprintf("negative tries remaining (%d)", resp.GuessResult.TriesRemaining))
	case resp.GameOver && !resp.GameStatus.Terminal():
		return bad(fmt.Sprintf("game over with status %q", resp.GameStatus))
	}
	return nil
}

func seedTries(participants []models.ParticipantInfo) map[string]int {
	tries := map[string]int{}
	for _, p := range participants {
		if p.Role == models.RoleReceiver {
			tries[p.ID] = models.MaxTries
		}
	}
	return tries
}

func copyTries(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyTurns(in []Turn) []Turn {
	if in == nil {
		return nil
	}
	out := make([]Turn, len(in))
	for i, t := range in {
		out[i] = Turn{Number: t.Number, Messages: append([]models.Message(nil), t.Messages...)}
		if t.Guess != nil {
			g := *t.Guess
			out[i].Guess = &g
		}
	}
	return out
}
