package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tatianab/hidden-messages/internal/api"
	"github.com/tatianab/hidden-messages/internal/models"
)

func TestModeDefaultsToFallback(t *testing.T) {
	s, err := Open(t.TempDir(), api.ModeReal)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.Mode() != api.ModeReal {
		t.Errorf("Mode() = %q, want real", s.Mode())
	}
}

func TestSetModePersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, api.ModeMock)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.SetMode(api.ModeReal); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "prefs.yaml"))
	if err != nil {
		t.Fatalf("read prefs: %v", err)
	}
	if string(data) != "api_mode: real\n" {
		t.Errorf("prefs.yaml = %q", data)
	}

	reopened, err := Open(dir, api.ModeMock)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if reopened.Mode() != api.ModeReal {
		t.Errorf("reopened Mode() = %q, want real", reopened.Mode())
	}
}

func TestInvalidSavedModeIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prefs.yaml"), []byte("api_mode: hybrid\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(dir, api.ModeMock)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.Mode() != api.ModeMock {
		t.Errorf("Mode() = %q, want mock", s.Mode())
	}
}

func TestStoreSatisfiesModeStore(t *testing.T) {
	s, err := Open(t.TempDir(), api.ModeMock)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	var _ api.ModeStore = s
}

func TestTranscriptRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir(), api.ModeMock)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	list, err := s.ListTranscripts()
	if err != nil || len(list) != 0 {
		t.Fatalf("ListTranscripts() = %v, %v", list, err)
	}

	h := &models.SessionHistoryResponse{
		SessionID:  "mock-session-01",
		Topic:      "colonizing Mars",
		SecretWord: "oxygen",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Guesses: []models.HistoryGuess{
			{Turn: 3, ParticipantID: "mock-receiver-001", Guess: "oxygen", Correct: true, TriesRemaining: 1},
		},
	}
	path, err := s.SaveTranscript(h)
	if err != nil {
		t.Fatalf("SaveTranscript() error = %v", err)
	}
	if filepath.Base(path) != "mock-session-01.yaml" {
		t.Errorf("path = %q", path)
	}

	got, err := s.LoadTranscript(h.SessionID)
	if err != nil {
		t.Fatalf("LoadTranscript() error = %v", err)
	}
	if got.SecretWord != "oxygen" || len(got.Guesses) != 1 || !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("LoadTranscript() = %+v", got)
	}

	list, err = s.ListTranscripts()
	if err != nil || len(list) != 1 || list[0] != "mock-session-01" {
		t.Errorf("ListTranscripts() = %v, %v", list, err)
	}
}

func TestFileNameSanitizes(t *testing.T) {
	if got := fileName("../etc/passwd"); got != "___etc_passwd.yaml" {
		t.Errorf("fileName() = %q", got)
	}
}
