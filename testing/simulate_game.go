package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tatianab/hidden-messages/internal/api"
	"github.com/tatianab/hidden-messages/internal/config"
	"github.com/tatianab/hidden-messages/internal/logging"
	"github.com/tatianab/hidden-messages/internal/models"
	"github.com/tatianab/hidden-messages/internal/session"
	"github.com/tatianab/hidden-messages/internal/simulator"
	"github.com/tatianab/hidden-messages/internal/topic"
)

const (
	maxTurns     = 10
	defaultTopic = "colonizing Mars"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadApp()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	closer, err := logging.Init(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}
	defer closer.Close()

	mode := api.DefaultMode(cfg.Client.Environment)
	if cfg.Client.Mode != "" {
		if mode, err = api.ParseMode(cfg.Client.Mode); err != nil {
			log.Fatalf("Bad API_MODE: %v", err)
		}
	}
	var simOpts []simulator.Option
	if !cfg.Client.SimDelays {
		simOpts = append(simOpts, simulator.WithDelays(simulator.Delays{}))
	}
	gateway := api.NewGateway(
		api.NewMemoryModeStore(mode),
		simulator.New(simOpts...),
		api.NewClient(cfg.Client.BaseURL, cfg.Client.Timeout),
	)
	machine := session.New(gateway)

	sessionTopic := strings.Join(os.Args[1:], " ")
	if sessionTopic == "" {
		sessionTopic = pickTopic(ctx, cfg.Player)
	}

	fmt.Printf("--- Starting session (%s) ---\n", mode.Label())
	if err := machine.StartNew(ctx, models.StartSessionRequest{
		Topic:        sessionTopic,
		Participants: models.DefaultParticipants(),
	}); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	st := machine.Snapshot()
	fmt.Printf("Session: %s\nTopic: %s\n", st.SessionID, st.Topic)
	for _, p := range st.Participants {
		fmt.Printf("  %s (%s, %s)\n", p.Name, p.Role, p.Provider)
	}
	fmt.Println()

	for turn := 1; turn <= maxTurns; turn++ {
		if err := machine.Advance(ctx); err != nil {
			fmt.Printf("Error processing turn: %v\n", err)
			break
		}
		st = machine.Snapshot()
		last := st.Turns[len(st.Turns)-1]

		fmt.Printf("--- Turn %d ---\n", last.Number)
		for _, msg := range last.Messages {
			fmt.Printf("%s: %s\n", msg.ParticipantName, msg.Comms)
			fmt.Printf("  (thinks: %s)\n", msg.InternalThoughts)
		}
		if g := last.Guess; g != nil {
			fmt.Printf("Guess by %s: correct=%t, tries remaining=%d\n", g.Agent, g.Correct, g.TriesRemaining)
		}
		fmt.Println()

		if st.Phase == session.PhaseResolved {
			break
		}
	}

	switch machine.Snapshot().Outcome {
	case models.StatusWin:
		fmt.Println("Game Ended: the receiver found the secret word!")
	case models.StatusLoss:
		fmt.Println("Game Ended: the receiver ran out of guesses.")
	default:
		fmt.Printf("Stopped after %d turns without a result.\n", maxTurns)
	}

	hist, err := gateway.SessionHistory(ctx, st.SessionID)
	if err != nil {
		fmt.Printf("History unavailable: %v\n", err)
		return
	}
	fmt.Printf("The secret word was %q.\n", hist.SecretWord)
}

// pickTopic asks the player model for a topic when an API key is
// configured.
func pickTopic(ctx context.Context, cfg config.PlayerConfig) string {
	if cfg.GeminiAPIKey == "" {
		return defaultTopic
	}
	player, err := topic.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		fmt.Printf("Player model unavailable: %v\n", err)
		return defaultTopic
	}
	defer player.Close()

	fmt.Println("--- Requesting a topic from the player model ---")
	t := topic.Choose(ctx, player, defaultTopic)
	fmt.Printf("Player chose topic: %s\n\n", t)
	return t
}
