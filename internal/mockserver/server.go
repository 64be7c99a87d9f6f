// Package mockserver exposes a Backend over the same HTTP routes as the live
// agent service. Pointing the client at it in real mode exercises the whole
// network path without any model providers.
package mockserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/hidden-messages/internal/api"
	"github.com/tatianab/hidden-messages/internal/models"
)

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		logger,
		&httplog.Options{
			Level:           slog.LevelInfo,
			Schema:          httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogRequestBody:  func(*http.Request) bool { return false },
			LogResponseBody: func(*http.Request) bool { return false },
		},
	)
}

// NewRouter serves b under /api.
func NewRouter(b api.Backend, logger *slog.Logger) *chi.Mux {
	h := &handlers{backend: b}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(requestLogger(logger))
		r.Get("/health", h.health)
		r.Get("/sessions", h.listSessions)
		r.Post("/start-session", h.startSession)
		r.Post("/next-turn", h.nextTurn)
		r.Get("/session/{session_id}/history", h.history)
		r.Get("/session/{session_id}/status", h.status)
	})
	return r
}

type handlers struct {
	backend api.Backend
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	resp, err := h.backend.Health(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.backend.ListSessions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) startSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.Participants == nil {
		req.Participants = models.DefaultParticipants()
	}
	resp, err := h.backend.StartSession(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) nextTurn(w http.ResponseWriter, r *http.Request) {
	var req models.NextTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	resp, err := h.backend.NextTurn(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	resp, err := h.backend.SessionHistory(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	resp, err := h.backend.SessionStatus(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeDetail(w, http.StatusUnprocessableEntity, verr.Message)
	case errors.Is(err, models.ErrSessionNotFound):
		writeDetail(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, models.ErrGameOver):
		writeDetail(w, http.StatusBadRequest, "Game is already over")
	default:
		log.Error().Err(err).Msg("backend call failed")
		writeDetail(w, http.StatusInternalServerError, err.Error())
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
