package bridge

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yourusername/xchat/internal/client/chat"
)

// Handler serves POST /{resource}/sendMessage and /{resource}/closeChat for
// panels talking to the bridge over HTTP
func (b *Bridge) Handler(resource string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/"+resource, func(r chi.Router) {
		r.Post("/sendMessage", b.handleSendMessage)
		r.Post("/closeChat", b.handleCloseChat)
	})
	return r
}

func (b *Bridge) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req chat.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeResult(w, b.SendMessage(req.Message))
}

func (b *Bridge) handleCloseChat(w http.ResponseWriter, r *http.Request) {
	writeResult(w, b.CloseChat())
}

func writeResult(w http.ResponseWriter, ok bool) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chat.Result{OK: ok})
}
