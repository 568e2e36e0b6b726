// Package httpapi exposes registered arena battles over HTTP for
// headless and automated play (spec §6 shell boundary), grounded on
// pefman-w40k-duel's cmd/api router-per-resource layout, rewired from
// gorilla/mux's per-resource Router instead of that teacher's bare
// http.ServeMux since this package serves nested resources
// (/battles/{id}/tick) that benefit from mux's path variables.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/Htoledo30/jogo1/internal/arena"
	"github.com/Htoledo30/jogo1/internal/geo"
	"github.com/Htoledo30/jogo1/internal/troopai"
)

// Snapshot is the read-only view of a battle returned by GET endpoints.
type Snapshot struct {
	Done    bool          `json:"done"`
	Outcome arena.Outcome `json:"outcome,omitempty"`
}

// Server owns a set of in-flight battle controllers keyed by id and
// answers HTTP requests against them. The zero value is not usable;
// construct with NewServer.
type Server struct {
	mu      sync.Mutex
	battles map[string]*arena.Controller
}

// NewServer builds an httpapi.Server with no battles registered.
func NewServer() *Server {
	s := &Server{battles: map[string]*arena.Controller{}}
	return s
}

// Register adds a running controller under id, replacing any prior
// controller registered under the same id.
func (s *Server) Register(id string, c *arena.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battles[id] = c
}

func (s *Server) get(id string) (*arena.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.battles[id]
	return c, ok
}

// Router builds the gorilla/mux route table: one resource per battle,
// a tick endpoint accepting an Input body, and a snapshot endpoint for
// polling outcome/done state.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/battles/{id}", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/battles/{id}/tick", s.handleTick).Methods(http.MethodPost)
	r.HandleFunc("/battles/{id}/events", s.handleStream)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, ok := s.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown battle id")
		return
	}
	snap := Snapshot{Done: c.IsDone()}
	if snap.Done {
		snap.Outcome = c.Outcome()
	}
	writeJSON(w, http.StatusOK, snap)
}

// tickRequest mirrors arena.Input over the wire; OrderKey/FormationKey
// travel as plain ints since the shell owns the authoritative order
// and formation enumerations.
type tickRequest struct {
	MoveX        int     `json:"move_x"`
	MoveY        int     `json:"move_y"`
	AttackHeld   bool    `json:"attack_held"`
	Heavy        bool    `json:"heavy"`
	BlockHeld    bool    `json:"block_held"`
	AimX         float64 `json:"aim_x"`
	AimY         float64 `json:"aim_y"`
	OrderKey     int     `json:"order_key"`
	FormationKey int     `json:"formation_key"`
}

func (req tickRequest) toInput() arena.Input {
	return arena.Input{
		MoveX:        req.MoveX,
		MoveY:        req.MoveY,
		AttackHeld:   req.AttackHeld,
		Heavy:        req.Heavy,
		BlockHeld:    req.BlockHeld,
		Aim:          geo.Vec2{X: req.AimX, Y: req.AimY},
		OrderKey:     troopai.Order(req.OrderKey),
		FormationKey: troopai.Formation(req.FormationKey),
	}
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, ok := s.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown battle id")
		return
	}

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := req.toInput()
	c.Tick(1.0/60.0, in)
	c.Events() // drain so an idle poller doesn't build an unbounded backlog

	snap := Snapshot{Done: c.IsDone()}
	if snap.Done {
		snap.Outcome = c.Outcome()
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
