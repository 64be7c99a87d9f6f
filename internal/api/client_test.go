package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tatianab/hidden-messages/internal/api"
	"github.com/tatianab/hidden-messages/internal/mockserver"
	"github.com/tatianab/hidden-messages/internal/models"
	"github.com/tatianab/hidden-messages/internal/simulator"
)

func newLiveClient(t *testing.T) *api.Client {
	t.Helper()
	sim := simulator.New(
		simulator.WithDelays(simulator.Delays{}),
		simulator.WithSessionIDs(uuid.NewString),
	)
	srv := httptest.NewServer(mockserver.NewRouter(sim, slog.New(slog.NewJSONHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, 0)
}

func TestClientPlaysScriptedGame(t *testing.T) {
	c := newLiveClient(t)
	ctx := context.Background()
	word := "oxygen"

	start, err := c.StartSession(ctx, models.StartSessionRequest{
		Topic:        "colonizing Mars",
		SecretWord:   &word,
		Participants: models.DefaultParticipants(),
	})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	var last *models.NextTurnResponse
	for i := 0; i < 3; i++ {
		last, err = c.NextTurn(ctx, models.NextTurnRequest{SessionID: start.SessionID})
		if err != nil {
			t.Fatalf("NextTurn() error = %v", err)
		}
	}
	if !last.GameOver || last.GameStatus != models.StatusWin || !last.GuessResult.Correct {
		t.Errorf("turn 3 = %+v", last)
	}

	_, err = c.NextTurn(ctx, models.NextTurnRequest{SessionID: start.SessionID})
	var be *api.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("NextTurn() after win error = %v, want *BackendError", err)
	}
	if be.Message != "Game is already over" || !errors.Is(err, models.ErrGameOver) {
		t.Errorf("error = %+v", be)
	}

	hist, err := c.SessionHistory(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("SessionHistory() error = %v", err)
	}
	if len(hist.Messages) != 9 || len(hist.Guesses) != 2 {
		t.Errorf("history has %d messages and %d guesses", len(hist.Messages), len(hist.Guesses))
	}

	status, err := c.SessionStatus(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("SessionStatus() error = %v", err)
	}
	if status.TurnNumber != 3 || status.GameStatus != models.StatusWin {
		t.Errorf("status = %+v", status)
	}

	list, err := c.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(list.Sessions) != 1 || list.Sessions[0].MessageCount != 9 {
		t.Errorf("sessions = %+v", list.Sessions)
	}
}

func TestClientUnknownSession(t *testing.T) {
	c := newLiveClient(t)

	_, err := c.SessionHistory(context.Background(), uuid.NewString())
	if !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("SessionHistory() error = %v, want ErrSessionNotFound", err)
	}
	if err.Error() != "Session not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestClientRejectsMalformedSessionID(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL, 0)
	_, err := c.SessionStatus(context.Background(), "mock-session-1")
	if !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("SessionStatus() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("server called %d times", calls)
	}
}

func TestClientErrorMessages(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		call   func(*api.Client) error
		want   string
	}{
		{
			name:   "string detail",
			status: http.StatusInternalServerError,
			body:   `{"detail":"Failed to start session: provider down"}`,
			call: func(c *api.Client) error {
				_, err := c.StartSession(context.Background(), models.StartSessionRequest{Topic: "t"})
				return err
			},
			want: "Failed to start session: provider down",
		},
		{
			name:   "validation list",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail":[{"msg":"field required"},{"msg":"too long"}]}`,
			call: func(c *api.Client) error {
				_, err := c.StartSession(context.Background(), models.StartSessionRequest{Topic: "t"})
				return err
			},
			want: "field required; too long",
		},
		{
			name:   "no body",
			status: http.StatusBadGateway,
			call: func(c *api.Client) error {
				_, err := c.ListSessions(context.Background())
				return err
			},
			want: "Failed to fetch sessions: Bad Gateway",
		},
		{
			name:   "health",
			status: http.StatusServiceUnavailable,
			body:   `{"detail":"db down"}`,
			call: func(c *api.Client) error {
				_, err := c.Health(context.Background())
				return err
			},
			want: "Health check failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			err := tc.call(api.NewClient(srv.URL, 0))
			var be *api.BackendError
			if !errors.As(err, &be) {
				t.Fatalf("error = %v, want *BackendError", err)
			}
			if be.Message != tc.want {
				t.Errorf("Message = %q, want %q", be.Message, tc.want)
			}
			if be.StatusCode != tc.status {
				t.Errorf("StatusCode = %d, want %d", be.StatusCode, tc.status)
			}
		})
	}
}

func TestClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":`)
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL, 0).Health(context.Background())
	var be *api.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BackendError", err)
	}
}

func TestClientTransportFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := api.NewClient(url, 0).ListSessions(context.Background())
	var be *api.BackendError
	if !errors.As(err, &be) || be.Op != api.OpListSessions {
		t.Fatalf("error = %v, want *BackendError for %s", err, api.OpListSessions)
	}
}
