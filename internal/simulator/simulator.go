// Package simulator is an offline stand-in for the agent conversation
// backend. It answers the same protocol as the live service from a canned
// script, so the client can be played and tested without network access.
package simulator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/models"
)

const (
	DefaultSecretWord = "oxygen"
	StatusCreated     = "agents_initialized_and_session_created"
	StatusHealthy     = "healthy (mock mode)"
)

// Delays emulate network and model latency per operation.
type Delays struct {
	Start   time.Duration
	Turn    time.Duration
	History time.Duration
	Status  time.Duration
	List    time.Duration
	Health  time.Duration
}

var DefaultDelays = Delays{
	Start:   800 * time.Millisecond,
	Turn:    1200 * time.Millisecond,
	History: 500 * time.Millisecond,
	Status:  300 * time.Millisecond,
	List:    300 * time.Millisecond,
	Health:  100 * time.Millisecond,
}

type Option func(*Simulator)

func WithDelays(d Delays) Option {
	return func(s *Simulator) { s.delays = d }
}

// WithScript replaces DefaultScript.
func WithScript(beats []Beat) Option {
	return func(s *Simulator) { s.script = beats }
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithSessionIDs replaces the mock-session-<ULID> id scheme.
func WithSessionIDs(gen func() string) Option {
	return func(s *Simulator) { s.newID = func(time.Time) string { return gen() } }
}

type record struct {
	id           string
	topic        string
	secretWord   string
	createdAt    time.Time
	participants []models.ParticipantInfo

	turn     int
	attempts int
	gameOver bool
	status   models.GameStatus

	messages []models.HistoryMessage
	guesses  []models.HistoryGuess
}

func (r *record) first(role models.Role) (models.ParticipantInfo, bool) {
	for _, p := range r.participants {
		if p.Role == role {
			return p, true
		}
	}
	return models.ParticipantInfo{}, false
}

// Simulator keeps every session it has started, keyed by id. The most
// recently started one is reported by Current.
type Simulator struct {
	mu       sync.Mutex
	sessions map[string]*record
	current  string

	script []Beat
	delays Delays
	now    func() time.Time
	newID  func(time.Time) string
}

func New(opts ...Option) *Simulator {
	s := &Simulator{
		sessions: make(map[string]*record),
		script:   DefaultScript,
		delays:   DefaultDelays,
		now:      time.Now,
		newID:    newSessionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the id of the last started session, or "". It is a test
// hook: tests use it to find the session a request created. Nothing in the
// client reads it.
func (s *Simulator) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Simulator) StartSession(ctx context.Context, req models.StartSessionRequest) (*models.StartSessionResponse, error) {
	if err := wait(ctx, s.delays.Start); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	secret := DefaultSecretWord
	if req.SecretWord != nil && strings.TrimSpace(*req.SecretWord) != "" {
		secret = strings.TrimSpace(*req.SecretWord)
	}

	participants := make([]models.ParticipantInfo, len(req.Participants))
	for i, p := range req.Participants {
		name := p.Name
		if name == "" {
			name = defaultName(i)
		}
		order := i
		if p.Order != nil {
			order = *p.Order
		}
		participants[i] = models.ParticipantInfo{
			ID:       participantID(p.Role, i),
			Name:     name,
			Role:     p.Role,
			Provider: p.Provider,
			Order:    order,
		}
	}

	now := s.now()
	rec := &record{
		id:           s.newID(now),
		topic:        strings.TrimSpace(req.Topic),
		secretWord:   secret,
		createdAt:    now,
		participants: participants,
	}

	s.mu.Lock()
	s.sessions[rec.id] = rec
	s.current = rec.id
	s.mu.Unlock()

	log.Debug().Str("session_id", rec.id).Str("topic", rec.topic).Int("participants", len(participants)).Msg("simulator session started")

	out := make([]models.ParticipantInfo, len(participants))
	copy(out, participants)
	return &models.StartSessionResponse{
		SessionID:    rec.id,
		Status:       StatusCreated,
		Topic:        rec.topic,
		Participants: out,
	}, nil
}

func (s *Simulator) NextTurn(ctx context.Context, req models.NextTurnRequest) (*models.NextTurnResponse, error) {
	if err := wait(ctx, s.delays.Turn); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[req.SessionID]
	if !ok {
		return nil, fmt.Errorf("next turn %q: %w", req.SessionID, models.ErrSessionNotFound)
	}
	if rec.gameOver {
		return nil, models.ErrGameOver
	}

	rec.turn++
	beat := fallbackBeat(rec.topic, rec.turn)
	if rec.turn <= len(s.script) {
		beat = s.script[rec.turn-1]
	}

	resp := &models.NextTurnResponse{Messages: make([]models.Message, 0, 3)}
	speak := func(role models.Role, line Line) {
		p, ok := rec.first(role)
		if !ok {
			return
		}
		msg := models.Message{
			ParticipantID:    p.ID,
			ParticipantName:  p.Name,
			ParticipantRole:  p.Role,
			Comms:            line.Comms,
			InternalThoughts: line.Internal,
		}
		resp.Messages = append(resp.Messages, msg)
		rec.messages = append(rec.messages, models.HistoryMessage{
			Turn:             rec.turn,
			ParticipantID:    msg.ParticipantID,
			ParticipantName:  msg.ParticipantName,
			ParticipantRole:  msg.ParticipantRole,
			Comms:            msg.Comms,
			InternalThoughts: msg.InternalThoughts,
		})
	}
	speak(models.RoleCommunicator, beat.Communicator)
	speak(models.RoleReceiver, beat.Receiver)
	speak(models.RoleBystander, beat.Bystander)

	if beat.Guess != nil {
		receiver, _ := rec.first(models.RoleReceiver)
		rec.attempts++
		tries := max(models.MaxTries-rec.attempts, 0)

		word := beat.Guess.Word
		if beat.Guess.Correct {
			word = rec.secretWord
		}
		resp.GuessResult = &models.GuessResult{
			Agent:          receiver.ID,
			Correct:        beat.Guess.Correct,
			TriesRemaining: tries,
		}
		rec.guesses = append(rec.guesses, models.HistoryGuess{
			Turn:            rec.turn,
			ParticipantID:   receiver.ID,
			ParticipantName: receiver.Name,
			ParticipantRole: receiver.Role,
			Guess:           word,
			Correct:         beat.Guess.Correct,
			TriesRemaining:  tries,
		})

		switch {
		case beat.Guess.Correct:
			rec.gameOver = true
			rec.status = models.StatusWin
		case rec.attempts >= models.MaxTries:
			rec.gameOver = true
			rec.status = models.StatusLoss
		}
	}

	resp.GameOver = rec.gameOver
	resp.GameStatus = rec.status

	log.Debug().Str("session_id", rec.id).Int("turn", rec.turn).Bool("game_over", rec.gameOver).Msg("simulator turn")
	return resp, nil
}

func (s *Simulator) SessionHistory(ctx context.Context, sessionID string) (*models.SessionHistoryResponse, error) {
	if err := wait(ctx, s.delays.History); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("history %q: %w", sessionID, models.ErrSessionNotFound)
	}

	participants := make(map[string]models.ParticipantMeta, len(rec.participants))
	for _, p := range rec.participants {
		participants[p.ID] = models.ParticipantMeta{Name: p.Name, Role: p.Role, Provider: p.Provider}
	}
	return &models.SessionHistoryResponse{
		SessionID:    rec.id,
		Topic:        rec.topic,
		SecretWord:   rec.secretWord,
		CreatedAt:    rec.createdAt,
		Participants: participants,
		Messages:     append([]models.HistoryMessage{}, rec.messages...),
		Guesses:      append([]models.HistoryGuess{}, rec.guesses...),
	}, nil
}

func (s *Simulator) SessionStatus(ctx context.Context, sessionID string) (*models.SessionStatusResponse, error) {
	if err := wait(ctx, s.delays.Status); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("status %q: %w", sessionID, models.ErrSessionNotFound)
	}

	tries := map[string]int{}
	if receiver, ok := rec.first(models.RoleReceiver); ok {
		tries[receiver.ID] = max(models.MaxTries-rec.attempts, 0)
	}
	return &models.SessionStatusResponse{
		SessionID:      rec.id,
		TurnNumber:     rec.turn,
		GameOver:       rec.gameOver,
		GameStatus:     rec.status,
		TriesRemaining: tries,
	}, nil
}

// ListSessions returns every simulated session, newest first.
func (s *Simulator) ListSessions(ctx context.Context) (*models.SessionListResponse, error) {
	if err := wait(ctx, s.delays.List); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.SessionSummary, 0, len(s.sessions))
	for _, rec := range s.sessions {
		out = append(out, models.SessionSummary{
			SessionID:    rec.id,
			Topic:        rec.topic,
			CreatedAt:    rec.createdAt,
			MessageCount: len(rec.messages),
			GameOver:     rec.gameOver,
			GameStatus:   rec.status,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].SessionID > out[j].SessionID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return &models.SessionListResponse{Sessions: out}, nil
}

func (s *Simulator) Health(ctx context.Context) (*models.HealthResponse, error) {
	if err := wait(ctx, s.delays.Health); err != nil {
		return nil, err
	}
	return &models.HealthResponse{Status: StatusHealthy}, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
