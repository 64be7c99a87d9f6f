package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTopicLen      = 500
	MaxSecretWordLen = 100
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrGameOver is returned when a turn is requested on a finished session.
	ErrGameOver = errors.New("game is already over")
)

// ValidationError describes a malformed start-session request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (r Role) Valid() bool {
	switch r {
	case RoleCommunicator, RoleReceiver, RoleBystander:
		return true
	}
	return false
}

func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderGoogleGLA:
		return true
	}
	return false
}

// Trimmed returns a copy of r with surrounding whitespace removed from the
// topic and secret word.
func (r StartSessionRequest) Trimmed() StartSessionRequest {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.SecretWord != nil {
		word := strings.TrimSpace(*r.SecretWord)
		r.SecretWord = &word
	}
	r.Participants = append([]ParticipantConfig(nil), r.Participants...)
	return r
}

// Validate checks the request before it is sent to any backend. Lengths are
// counted on the values as given, the way the backend counts them; send a
// Trimmed request to keep padding from counting.
func (r StartSessionRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return invalid("topic", "Topic is required")
	}
	if utf8.RuneCountInString(r.Topic) > MaxTopicLen {
		return invalid("topic", "Topic must be at most %d characters", MaxTopicLen)
	}
	if r.SecretWord != nil {
		if strings.TrimSpace(*r.SecretWord) == "" {
			return invalid("secret_word", "Secret word must not be blank")
		}
		if utf8.RuneCountInString(*r.SecretWord) > MaxSecretWordLen {
			return invalid("secret_word", "Secret word must be at most %d characters", MaxSecretWordLen)
		}
	}

	var communicators, receivers int
	orders := make(map[int]bool, len(r.Participants))
	for i, p := range r.Participants {
		if !p.Role.Valid() {
			return invalid("participants", "Participant %d has unknown role %q", i+1, p.Role)
		}
		if !p.Provider.Valid() {
			return invalid("participants", "Participant %d has unknown provider %q", i+1, p.Provider)
		}
		switch p.Role {
		case RoleCommunicator:
			communicators++
		case RoleReceiver:
			receivers++
		}
		if p.Order != nil {
			if orders[*p.Order] {
				return invalid("participants", "Speaking order %d is used twice", *p.Order)
			}
			orders[*p.Order] = true
		}
	}
	if communicators != 1 {
		return invalid("participants", "Exactly one communicator required")
	}
	if receivers != 1 {
		return invalid("participants", "Exactly one receiver required")
	}
	return nil
}
