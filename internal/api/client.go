package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/models"
)

// Operation names, as used in BackendError.Op.
const (
	OpStartSession = "start-session"
	OpNextTurn     = "next-turn"
	OpHistory      = "get-history"
	OpStatus       = "get-status"
	OpListSessions = "list-sessions"
	OpHealth       = "health-check"
)

var opVerbs = map[string]string{
	OpStartSession: "start session",
	OpNextTurn:     "execute turn",
	OpHistory:      "fetch history",
	OpStatus:       "fetch status",
	OpListSessions: "fetch sessions",
	OpHealth:       "check health",
}

// Client talks to the live agent backend over HTTP. Each call is a single
// attempt; there is no retry and no caching.
type Client struct {
	baseURL string
	inner   *http.Client
}

// NewClient returns a client for the backend at baseURL (without the /api
// suffix). A zero timeout leaves the bound to the transport.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		inner:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) StartSession(ctx context.Context, req models.StartSessionRequest) (*models.StartSessionResponse, error) {
	var out models.StartSessionResponse
	if err := c.do(ctx, OpStartSession, http.MethodPost, "/start-session", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) NextTurn(ctx context.Context, req models.NextTurnRequest) (*models.NextTurnResponse, error) {
	if err := validateSessionID(OpNextTurn, req.SessionID); err != nil {
		return nil, err
	}
	var out models.NextTurnResponse
	if err := c.do(ctx, OpNextTurn, http.MethodPost, "/next-turn", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SessionHistory(ctx context.Context, sessionID string) (*models.SessionHistoryResponse, error) {
	if err := validateSessionID(OpHistory, sessionID); err != nil {
		return nil, err
	}
	var out models.SessionHistoryResponse
	if err := c.do(ctx, OpHistory, http.MethodGet, "/session/"+url.PathEscape(sessionID)+"/history", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SessionStatus(ctx context.Context, sessionID string) (*models.SessionStatusResponse, error) {
	if err := validateSessionID(OpStatus, sessionID); err != nil {
		return nil, err
	}
	var out models.SessionStatusResponse
	if err := c.do(ctx, OpStatus, http.MethodGet, "/session/"+url.PathEscape(sessionID)+"/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSessions(ctx context.Context) (*models.SessionListResponse, error) {
	var out models.SessionListResponse
	if err := c.do(ctx, OpListSessions, http.MethodGet, "/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.do(ctx, OpHealth, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	verb := opVerbs[op]

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &BackendError{Op: op, Message: fmt.Sprintf("Failed to %s: %v", verb, err), Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &BackendError{Op: op, Message: fmt.Sprintf("Failed to %s: %v", verb, err), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.inner.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("backend request failed")
		return &BackendError{Op: op, Message: fmt.Sprintf("Failed to %s: %v", verb, err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &BackendError{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("Failed to %s: %v", verb, err), Err: err}
	}
	log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("backend response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &BackendError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Failed to %s: malformed response", verb),
			Err:        err,
		}
	}
	return nil
}

func statusError(op string, resp *http.Response, body []byte) error {
	e := &BackendError{Op: op, StatusCode: resp.StatusCode}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		e.Err = models.ErrSessionNotFound
	case resp.StatusCode == http.StatusBadRequest && op == OpNextTurn:
		e.Err = models.ErrGameOver
	default:
		e.Err = errors.New(resp.Status)
	}

	if op == OpHealth {
		e.Message = "Health check failed"
		return e
	}
	e.Message = detailMessage(body)
	if e.Message == "" {
		text := http.StatusText(resp.StatusCode)
		if text == "" {
			text = resp.Status
		}
		e.Message = fmt.Sprintf("Failed to %s: %s", opVerbs[op], text)
	}
	log.Warn().Str("op", op).Int("status", resp.StatusCode).Str("detail", e.Message).Msg("backend returned error")
	return e
}

// validateSessionID rejects ids the live backend could never have issued,
// without a round trip.
func validateSessionID(op, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return &BackendError{
			Op:      op,
			Message: fmt.Sprintf("Failed to %s: invalid session id %q", opVerbs[op], sessionID),
			Err:     models.ErrSessionNotFound,
		}
	}
	return nil
}
