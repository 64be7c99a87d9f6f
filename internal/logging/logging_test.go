package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/config"
)

func TestRotatingWriterKeepsOneBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	writer, err := newRotatingWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	defer writer.Close()

	chunk := make([]byte, 512*1024)
	for i := 0; i < 5; i++ {
		chunk[0] = byte('a' + i)
		if _, err := writer.Write(chunk); err != nil {
			t.Fatalf("write chunk %d: %v", i, err)
		}
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(current) != len(chunk) || current[0] != 'e' {
		t.Errorf("current log has %d bytes, want only the last chunk", len(current))
	}
	backup, err := os.ReadFile(backupPath(path))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if len(backup) != 2*len(chunk) || backup[0] != 'c' {
		t.Errorf("backup has %d bytes, want the two chunks before the last", len(backup))
	}
	if _, err := os.Stat(path + ".2"); !os.IsNotExist(err) {
		t.Errorf("unexpected second backup: %v", err)
	}
}

func TestRotatingWriterAppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	if err := os.WriteFile(path, []byte("earlier\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	writer, err := newRotatingWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	if _, err := writer.Write([]byte("later\n")); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "earlier\nlater\n" {
		t.Errorf("log = %q", data)
	}
	if _, err := os.Stat(backupPath(path)); !os.IsNotExist(err) {
		t.Errorf("rotated without reaching the limit: %v", err)
	}
}

func TestInitWritesToFile(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "client.log")
	closer, err := Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	log.Debug().Str("session_id", "s-1").Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !bytes.Contains(data, []byte(`"session_id":"s-1"`)) {
		t.Errorf("log file = %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"DEBUG": zerolog.DebugLevel,
		" warn": zerolog.WarnLevel,
		"loud":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
