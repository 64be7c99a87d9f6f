// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/config"
)

// Init installs the global logger described by cfg. When cfg.File is set,
// output goes to that file and the returned closer releases it; otherwise
// output goes to stdout and the closer is a no-op.
func Init(cfg config.LogConfig) (io.Closer, error) {
	var (
		output io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if path := strings.TrimSpace(cfg.File); path != "" {
		w, err := newRotatingWriter(path, cfg.MaxMB)
		if err != nil {
			return nil, err
		}
		output, closer = w, w
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, NoColor: cfg.File != ""}
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return closer, nil
}

func parseLevel(v string) zerolog.Level {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(v)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
