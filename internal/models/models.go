package models

import (
	"encoding/json"
	"time"
)

// MaxTries is the receiver's guess budget at the start of a session.
const MaxTries = 3

// Provider is the model vendor behind a participant.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderGoogleGLA Provider = "google-gla"
)

// Role is what a participant is trying to do in the conversation.
type Role string

const (
	RoleCommunicator Role = "communicator" // hides the secret word
	RoleReceiver     Role = "receiver"     // tries to guess it
	RoleBystander    Role = "bystander"
)

// GameStatus is the terminal outcome of a session. The zero value means the
// game is still running and is encoded as JSON null.
type GameStatus string

const (
	StatusNone GameStatus = ""
	StatusWin  GameStatus = "win"
	StatusLoss GameStatus = "loss"
)

func (s GameStatus) MarshalJSON() ([]byte, error) {
	if s == StatusNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// Terminal reports whether s is one of the two end states.
func (s GameStatus) Terminal() bool {
	return s == StatusWin || s == StatusLoss
}

// ParticipantConfig is one entry of a start-session request.
type ParticipantConfig struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name,omitempty"`
	Provider Provider `json:"provider"`
	Role     Role     `json:"role"`
	Order    *int     `json:"order,omitempty"`
}

type StartSessionRequest struct {
	Topic        string              `json:"topic"`
	SecretWord   *string             `json:"secret_word"`
	Participants []ParticipantConfig `json:"participants"`
}

// ParticipantInfo is a participant as assigned by the backend.
type ParticipantInfo struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Role     Role     `json:"role" yaml:"role"`
	Provider Provider `json:"provider" yaml:"provider"`
	Order    int      `json:"order" yaml:"order"`
}

type StartSessionResponse struct {
	SessionID    string            `json:"session_id"`
	Status       string            `json:"status"`
	Topic        string            `json:"topic"`
	Participants []ParticipantInfo `json:"participants"`
}

type NextTurnRequest struct {
	SessionID string `json:"session_id"`
}

// Message is one participant's contribution to a turn. InternalThoughts is
// always transmitted; hiding it is up to the view.
type Message struct {
	ParticipantID    string `json:"participant_id" yaml:"participant_id"`
	ParticipantName  string `json:"participant_name,omitempty" yaml:"participant_name,omitempty"`
	ParticipantRole  Role   `json:"participant_role,omitempty" yaml:"participant_role,omitempty"`
	Comms            string `json:"comms" yaml:"comms"`
	InternalThoughts string `json:"internal_thoughts" yaml:"internal_thoughts"`
}

type GuessResult struct {
	Agent          string `json:"agent" yaml:"agent"`
	Correct        bool   `json:"correct" yaml:"correct"`
	TriesRemaining int    `json:"tries_remaining" yaml:"tries_remaining"`
}

type NextTurnResponse struct {
	Messages    []Message    `json:"messages"`
	GuessResult *GuessResult `json:"guess_result"`
	GameOver    bool         `json:"game_over"`
	GameStatus  GameStatus   `json:"game_status"`
}

// HistoryMessage is a Message tagged with the turn it was spoken in.
type HistoryMessage struct {
	Turn             int    `json:"turn" yaml:"turn"`
	ParticipantID    string `json:"participant_id" yaml:"participant_id"`
	ParticipantName  string `json:"participant_name,omitempty" yaml:"participant_name,omitempty"`
	ParticipantRole  Role   `json:"participant_role,omitempty" yaml:"participant_role,omitempty"`
	Comms            string `json:"comms" yaml:"comms"`
	InternalThoughts string `json:"internal_thoughts" yaml:"internal_thoughts"`
}

type HistoryGuess struct {
	Turn            int    `json:"turn" yaml:"turn"`
	ParticipantID   string `json:"participant_id" yaml:"participant_id"`
	ParticipantName string `json:"participant_name,omitempty" yaml:"participant_name,omitempty"`
	ParticipantRole Role   `json:"participant_role,omitempty" yaml:"participant_role,omitempty"`
	Guess           string `json:"guess" yaml:"guess"`
	Correct         bool   `json:"correct" yaml:"correct"`
	TriesRemaining  int    `json:"tries_remaining" yaml:"tries_remaining"`
}

type ParticipantMeta struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Role     Role     `json:"role,omitempty" yaml:"role,omitempty"`
	Provider Provider `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// SessionHistoryResponse is the full transcript of a session, secret word
// included.
type SessionHistoryResponse struct {
	SessionID    string                     `json:"session_id" yaml:"session_id"`
	Topic        string                     `json:"topic" yaml:"topic"`
	SecretWord   string                     `json:"secret_word" yaml:"secret_word"`
	CreatedAt    time.Time                  `json:"created_at" yaml:"created_at"`
	Participants map[string]ParticipantMeta `json:"participants" yaml:"participants"`
	Messages     []HistoryMessage           `json:"messages" yaml:"messages"`
	Guesses      []HistoryGuess             `json:"guesses" yaml:"guesses"`
}

type SessionStatusResponse struct {
	SessionID      string         `json:"session_id"`
	TurnNumber     int            `json:"turn_number"`
	GameOver       bool           `json:"game_over"`
	GameStatus     GameStatus     `json:"game_status"`
	TriesRemaining map[string]int `json:"tries_remaining"`
}

type SessionSummary struct {
	SessionID    string     `json:"session_id"`
	Topic        string     `json:"topic"`
	CreatedAt    time.Time  `json:"created_at"`
	MessageCount int        `json:"message_count"`
	GameOver     bool       `json:"game_over"`
	GameStatus   GameStatus `json:"game_status"`
}

type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// DefaultParticipants is the roster offered by the setup screen.
func DefaultParticipants() []ParticipantConfig {
	return []ParticipantConfig{
		{Name: "Participant Alpha", Provider: ProviderOpenAI, Role: RoleCommunicator, Order: intPtr(0)},
		{Name: "Participant Beta", Provider: ProviderAnthropic, Role: RoleReceiver, Order: intPtr(1)},
		{Name: "Participant Gamma", Provider: ProviderGoogleGLA, Role: RoleBystander, Order: intPtr(2)},
	}
}

func intPtr(v int) *int { return &v }
