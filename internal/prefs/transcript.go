package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/hidden-messages/internal/models"
)

// SaveTranscript writes a session's full history to
// transcripts/<session id>.yaml and returns the path.
func (s *Store) SaveTranscript(h *models.SessionHistoryResponse) (string, error) {
	if h == nil || h.SessionID == "" {
		return "", errors.New("transcript has no session id")
	}
	dir := filepath.Join(s.dir, transcriptsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(h)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName(h.SessionID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) LoadTranscript(sessionID string) (*models.SessionHistoryResponse, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, transcriptsDir, fileName(sessionID)))
	if err != nil {
		return nil, err
	}
	var h models.SessionHistoryResponse
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", sessionID, err)
	}
	return &h, nil
}

// ListTranscripts returns the names of saved transcripts, sorted.
func (s *Store) ListTranscripts() ([]string, error) {
	dir := filepath.Join(s.dir, transcriptsDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	return sortedNames(entries), nil
}
