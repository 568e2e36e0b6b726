package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Htoledo30/jogo1/internal/eventbus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleStream upgrades a battle's /events endpoint to a websocket and
// pushes every event.Bus entry drained since the last tick, one JSON
// message per event, until the connection closes or the battle ends.
// Grounded on pefman-w40k-duel's cmd/game upgrader/handleWS live
// battle-update pattern.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, ok := s.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown battle id")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("httpapi: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		for _, ev := range c.Events() {
			if err := conn.WriteJSON(eventEnvelope(ev)); err != nil {
				return
			}
		}
		if c.IsDone() {
			_ = conn.WriteJSON(map[string]any{"kind": "done", "outcome": c.Outcome()})
			return
		}
	}
}

func eventEnvelope(ev eventbus.Event) map[string]any {
	return map[string]any{
		"kind":      ev.Kind,
		"pos":       ev.Pos,
		"damage":    ev.Damage,
		"entity_id": ev.EntityID,
		"tier":      ev.Tier,
		"text":      ev.Text,
		"amount":    ev.Amount,
		"message":   ev.Message,
	}
}
