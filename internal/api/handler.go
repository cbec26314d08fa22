// Package api exposes the assistant over HTTP (health, conversation
// messages as SSE, profile management) and over MCP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/chat"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds the handler's collaborators.
type Deps struct {
	Chat     *chat.Manager
	Profiles *profile.Manager
	// Model is the active backend model, reported by /health.
	Model string
	// AuthToken guards the profile endpoints; empty disables them.
	AuthToken string
}

// NewHandler returns the HTTP API router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(deps.Model))
	r.Post("/v1/conversations/{id}/messages", handleMessage(deps.Chat))
	r.Route("/v1/conversations/{id}/profile", func(r chi.Router) {
		r.Use(BearerAuth(deps.AuthToken))
		r.Get("/", handleGetProfile(deps.Profiles))
		r.Delete("/", handleResetProfile(deps.Profiles))
	})

	return r
}

func handleHealth(model string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"model":  model,
		})
	}
}

type messageRequest struct {
	Text string `json:"text"`
}

func handleMessage(m *chat.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Text == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "text is required and must not be empty")
			return
		}

		conversationID := chi.URLParam(r, "id")
		events, err := m.Session(conversationID).HandleMessage(r.Context(), req.Text)
		if err != nil {
			if errors.Is(err, chat.ErrBusy) {
				httpError(w, http.StatusConflict, "conflict_error", "a turn is already in flight for this conversation")
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "starting turn: %v", err)
			return
		}

		streamEvents(w, events)
	}
}

func handleGetProfile(profiles *profile.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := profiles.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading profile: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

func handleResetProfile(profiles *profile.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := profiles.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "resetting profile: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "reset"})
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
