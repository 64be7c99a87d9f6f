// Package prefs persists client preferences and exported transcripts as YAML
// under a state directory.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/hidden-messages/internal/api"
)

const (
	prefsFile      = "prefs.yaml"
	transcriptsDir = "transcripts"
)

// Prefs is the on-disk shape of prefs.yaml.
type Prefs struct {
	APIMode api.Mode `yaml:"api_mode,omitempty"`
}

// Store is an api.ModeStore backed by prefs.yaml. A missing or unreadable
// mode falls back to the mode given to Open.
type Store struct {
	dir      string
	fallback api.Mode

	mu    sync.Mutex
	prefs Prefs
}

func Open(dir string, fallback api.Mode) (*Store, error) {
	s := &Store{dir: dir, fallback: fallback}

	data, err := os.ReadFile(filepath.Join(dir, prefsFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, err
	}
	if err := yaml.Unmarshal(data, &s.prefs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", prefsFile, err)
	}
	if s.prefs.APIMode != "" {
		if _, err := api.ParseMode(string(s.prefs.APIMode)); err != nil {
			log.Warn().Err(err).Msg("ignoring saved api mode")
			s.prefs.APIMode = ""
		}
	}
	return s, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Mode() api.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prefs.APIMode == "" {
		return s.fallback
	}
	return s.prefs.APIMode
}

// SetMode records m and writes prefs.yaml. The in-memory value changes even
// if the write fails.
func (s *Store) SetMode(m api.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.APIMode = m
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, prefsFile), data, 0o644)
}

// fileName maps a session id onto a safe file name.
func fileName(sessionID string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, sessionID)
	return clean + ".yaml"
}

func sortedNames(entries []fs.DirEntry) []string {
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}
