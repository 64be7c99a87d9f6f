package api

import (
	"fmt"
	"strings"
	"sync"
)

// Mode selects which backend the gateway talks to.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeReal Mode = "real"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMock:
		return ModeMock, nil
	case ModeReal:
		return ModeReal, nil
	}
	return "", fmt.Errorf("unknown api mode %q (want mock or real)", s)
}

// DefaultMode is real in production and mock everywhere else.
func DefaultMode(environment string) Mode {
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "production", "prod":
		return ModeReal
	default:
		return ModeMock
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeReal {
		return ModeMock
	}
	return ModeReal
}

// Label is the short form shown in the UI.
func (m Mode) Label() string {
	if m == ModeReal {
		return "LIVE API"
	}
	return "MOCK MODE"
}

// ModeStore holds the current mode. Writes are last-write-wins.
type ModeStore interface {
	Mode() Mode
	SetMode(Mode) error
}

// MemoryModeStore is a ModeStore that is not persisted.
type MemoryModeStore struct {
	mu   sync.RWMutex
	mode Mode
}

func NewMemoryModeStore(m Mode) *MemoryModeStore {
	return &MemoryModeStore{mode: m}
}

func (s *MemoryModeStore) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *MemoryModeStore) SetMode(m Mode) error {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
	return nil
}
