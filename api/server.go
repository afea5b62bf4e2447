package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mazehack/quizmaze/game/service"
	"github.com/mazehack/quizmaze/transport/websocket"
)

// Server is the REST API front end.
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil to disable
// WebSocket broadcasting.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game lifecycle
	api.HandleFunc("/games", s.handleNewGame).Methods("POST")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")

	// Gameplay
	api.HandleFunc("/games/{id}/command", s.handleCommand).Methods("POST")
	api.HandleFunc("/games/{id}/view", s.handleView).Methods("GET")

	// Catalogue and leaderboard
	api.HandleFunc("/mazes", s.handleListMazes).Methods("GET")
	api.HandleFunc("/scores", s.handleScores).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerHandle string `json:"player_handle"`
		Maze         string `json:"maze,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerHandle == "" {
		respondError(w, http.StatusBadRequest, "player_handle is required")
		return
	}

	info, err := s.service.NewGame(r.Context(), req.PlayerHandle, req.Maze)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	info, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		Line string `json:"line"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.Command(r.Context(), gameID, req.Line)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	// Push the update to WebSocket watchers of this game
	if s.hub != nil {
		s.hub.BroadcastView(gameID, &result.View, result.Messages)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	view, err := s.service.View(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleListMazes(w http.ResponseWriter, r *http.Request) {
	infos, err := s.service.ListMazes(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mazeID := query.Get("maze_id")
	if mazeID == "" {
		respondError(w, http.StatusBadRequest, "maze_id query parameter is required")
		return
	}

	limit := 10
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	scores, err := s.service.TopScores(r.Context(), mazeID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, scores)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusNotImplemented, "websocket support disabled")
		return
	}

	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		respondError(w, http.StatusBadRequest, "gameId query parameter is required")
		return
	}

	s.hub.ServeWS(w, r, gameID)
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrGameNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}
