package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/api"
	"github.com/tatianab/hidden-messages/internal/config"
	"github.com/tatianab/hidden-messages/internal/logging"
	"github.com/tatianab/hidden-messages/internal/prefs"
	"github.com/tatianab/hidden-messages/internal/session"
	"github.com/tatianab/hidden-messages/internal/simulator"
	"github.com/tatianab/hidden-messages/internal/tui"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs always go to a file.
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Client.StateDir, "client.log")
	}
	closer, err := logging.Init(cfg.Log)
	if err != nil {
		fmt.Printf("Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	fallback := api.DefaultMode(cfg.Client.Environment)
	store, err := prefs.Open(cfg.Client.StateDir, fallback)
	if err != nil {
		fmt.Printf("Error loading preferences: %v\n", err)
		os.Exit(1)
	}
	if cfg.Client.Mode != "" {
		mode, err := api.ParseMode(cfg.Client.Mode)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.SetMode(mode); err != nil {
			log.Warn().Err(err).Msg("could not save api mode")
		}
	}

	var simOpts []simulator.Option
	if !cfg.Client.SimDelays {
		simOpts = append(simOpts, simulator.WithDelays(simulator.Delays{}))
	}
	gateway := api.NewGateway(
		store,
		simulator.New(simOpts...),
		api.NewClient(cfg.Client.BaseURL, cfg.Client.Timeout),
	)
	log.Info().
		Str("mode", string(gateway.Mode())).
		Str("base_url", cfg.Client.BaseURL).
		Str("env", cfg.Client.Environment).
		Msg("client starting")

	err = tui.Run(tui.Deps{
		Machine:     session.New(gateway),
		Gateway:     gateway,
		Transcripts: store,
	})
	if err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
