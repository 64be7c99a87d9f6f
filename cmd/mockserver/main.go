package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/config"
	"github.com/tatianab/hidden-messages/internal/logging"
	"github.com/tatianab/hidden-messages/internal/mockserver"
	"github.com/tatianab/hidden-messages/internal/simulator"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	closer, err := logging.Init(cfg.Log)
	if err != nil {
		fmt.Printf("Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	server := newServer(cfg.Server)
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("mock server listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func newServer(cfg config.ServerConfig) *http.Server {
	// The live client only accepts UUID session ids.
	opts := []simulator.Option{simulator.WithSessionIDs(uuid.NewString)}
	if !cfg.SimDelays {
		opts = append(opts, simulator.WithDelays(simulator.Delays{}))
	}
	sim := simulator.New(opts...)

	reqLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mockserver.NewRouter(sim, reqLogger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
