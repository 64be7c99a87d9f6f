// Package api is the single entry point for session operations. A Gateway
// routes every call to either the local simulator or the live backend,
// depending on the mode in effect when the call is made.
package api

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/models"
)

// Backend is the capability both the simulator and the live client provide.
type Backend interface {
	StartSession(ctx context.Context, req models.StartSessionRequest) (*models.StartSessionResponse, error)
	NextTurn(ctx context.Context, req models.NextTurnRequest) (*models.NextTurnResponse, error)
	SessionHistory(ctx context.Context, sessionID string) (*models.SessionHistoryResponse, error)
	SessionStatus(ctx context.Context, sessionID string) (*models.SessionStatusResponse, error)
	ListSessions(ctx context.Context) (*models.SessionListResponse, error)
	Health(ctx context.Context) (*models.HealthResponse, error)
}

// Gateway implements Backend by delegating to mock or live per call.
type Gateway struct {
	modes ModeStore
	mock  Backend
	live  Backend
}

func NewGateway(modes ModeStore, mock, live Backend) *Gateway {
	return &Gateway{modes: modes, mock: mock, live: live}
}

func (g *Gateway) Mode() Mode {
	return g.modes.Mode()
}

// SetMode takes effect on the next call; calls in flight are not affected.
func (g *Gateway) SetMode(m Mode) error {
	return g.modes.SetMode(m)
}

func (g *Gateway) backend(op string) (Backend, Mode) {
	mode := g.modes.Mode()
	log.Debug().Str("op", op).Str("mode", string(mode)).Msg("dispatch")
	if mode == ModeReal {
		return g.live, mode
	}
	return g.mock, mode
}

// StartSession validates the request before either backend sees it.
// StartSession trims the request, validates it and forwards it.
func (g *Gateway) StartSession(ctx context.Context, req models.StartSessionRequest) (*models.StartSessionResponse, error) {
	req = req.Trimmed()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b, mode := g.backend(OpStartSession)
	resp, err := b.StartSession(ctx, req)
	if err != nil {
		return nil, normalize(mode, OpStartSession, err)
	}
	if resp == nil {
		return nil, malformed(OpStartSession)
	}
	return resp, nil
}

func (g *Gateway) NextTurn(ctx context.Context, req models.NextTurnRequest) (*models.NextTurnResponse, error) {
	b, mode := g.backend(OpNextTurn)
	resp, err := b.NextTurn(ctx, req)
	if err != nil {
		return nil, normalize(mode, OpNextTurn, err)
	}
	if resp == nil {
		return nil, malformed(OpNextTurn)
	}
	return resp, nil
}

func (g *Gateway) SessionHistory(ctx context.Context, sessionID string) (*models.SessionHistoryResponse, error) {
	b, mode := g.backend(OpHistory)
	resp, err := b.SessionHistory(ctx, sessionID)
	if err != nil {
		return nil, normalize(mode, OpHistory, err)
	}
	if resp == nil {
		return nil, malformed(OpHistory)
	}
	return resp, nil
}

func (g *Gateway) SessionStatus(ctx context.Context, sessionID string) (*models.SessionStatusResponse, error) {
	b, mode := g.backend(OpStatus)
	resp, err := b.SessionStatus(ctx, sessionID)
	if err != nil {
		return nil, normalize(mode, OpStatus, err)
	}
	if resp == nil {
		return nil, malformed(OpStatus)
	}
	return resp, nil
}

func (g *Gateway) ListSessions(ctx context.Context) (*models.SessionListResponse, error) {
	b, mode := g.backend(OpListSessions)
	resp, err := b.ListSessions(ctx)
	if err != nil {
		return nil, normalize(mode, OpListSessions, err)
	}
	if resp == nil {
		return nil, malformed(OpListSessions)
	}
	return resp, nil
}

func (g *Gateway) Health(ctx context.Context) (*models.HealthResponse, error) {
	b, mode := g.backend(OpHealth)
	resp, err := b.Health(ctx)
	if err != nil {
		return nil, normalize(mode, OpHealth, err)
	}
	if resp == nil {
		return nil, malformed(OpHealth)
	}
	return resp, nil
}

// normalize leaves simulator errors as they are and makes sure anything the
// live side returns is a *BackendError.
func normalize(mode Mode, op string, err error) error {
	if mode != ModeReal {
		return err
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Message: "Failed to " + opVerbs[op] + ": " + err.Error(), Err: err}
}

func malformed(op string) error {
	return &BackendError{Op: op, Message: "Failed to " + opVerbs[op] + ": empty response"}
}
