package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yourusername/xchat/internal/color"
)

// SystemMessageRequest is the body of POST /api/system-message
type SystemMessageRequest struct {
	Message string     `json:"message"`
	Author  string     `json:"author,omitempty"`
	Color   *color.RGB `json:"color,omitempty"`
}

type statusResponse struct {
	OK      bool `json:"ok"`
	Players int  `json:"players,omitempty"`
}

// Routes returns the HTTP handler for the websocket endpoint and the admin API
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequireRank(RankAdmin))
		r.Post("/api/system-message", s.handleSystemMessage)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{OK: true, Players: s.directory.Len()})
}

func (s *Server) handleSystemMessage(w http.ResponseWriter, r *http.Request) {
	var req SystemMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message required", http.StatusBadRequest)
		return
	}

	c := color.White
	if req.Color != nil {
		c = *req.Color
	}

	claims, _ := ClaimsFromContext(r.Context())
	if claims != nil {
		s.log.Info().Str("issuer", claims.Subject).Str("request_id", middleware.GetReqID(r.Context())).Msg("system message via api")
	}

	s.chat.SendSystemMessage(req.Message, req.Author, c)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{OK: true})
}
