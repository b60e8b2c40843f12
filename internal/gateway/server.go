package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/duelforge/duel-server-go/internal/battle"
	"github.com/duelforge/duel-server-go/internal/match"
)

// Server is the HTTP and websocket face of the orchestrator. REST endpoints
// drive matches; a websocket per match pushes sanitized views on every
// committed transition.
type Server struct {
	orch     *match.Orchestrator
	log      *zap.Logger
	hub      *hub
	upgrader websocket.Upgrader
}

// New wires a gateway to the orchestrator and registers for state change
// notifications.
func New(orch *match.Orchestrator, log *zap.Logger) *Server {
	s := &Server{
		orch: orch,
		log:  log,
		hub:  newHub(log),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	orch.SetNotifier(s.broadcast)
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /matches", s.handleCreateMatch)
	mux.HandleFunc("POST /matches/{id}/actions", s.handleAction)
	mux.HandleFunc("GET /matches/{id}/state", s.handleState)
	mux.HandleFunc("DELETE /matches/{id}", s.handleAbandon)
	mux.HandleFunc("GET /matches/{id}/ws", s.handleWS)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var params match.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, errorBody("BAD_REQUEST", "invalid JSON body"), http.StatusBadRequest)
		return
	}

	res, err := s.orch.CreateMatch(r.Context(), params)
	if err != nil {
		s.writeMatchError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")

	var action battle.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		s.writeError(w, errorBody("BAD_REQUEST", "invalid JSON body"), http.StatusBadRequest)
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	res, err := s.orch.ApplyAction(r.Context(), matchID, idemKey, action)
	if err != nil {
		s.writeMatchError(w, err)
		return
	}
	if res.Rejection != nil {
		// Rejections are a normal outcome: the request was understood and
		// answered, the action just isn't legal.
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	viewer := battle.Side(r.URL.Query().Get("viewer"))

	view, err := s.orch.View(matchID, viewer)
	if err != nil {
		s.writeMatchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if err := s.orch.Abandon(matchID); err != nil {
		s.writeMatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	viewer := battle.Side(r.URL.Query().Get("viewer"))

	// Validate before upgrading so bad requests get a plain HTTP error.
	view, err := s.orch.View(matchID, viewer)
	if err != nil {
		s.writeMatchError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		conn:    conn,
		send:    make(chan []byte, clientSendBuffer),
		matchID: matchID,
		viewer:  viewer,
	}
	s.hub.add(client)
	go client.writePump()
	go client.readPump(s.hub)

	// Seed the subscriber with the current view.
	if payload, err := json.Marshal(view); err == nil {
		s.hub.push(client, payload)
	}
}

// broadcast fans the fresh per-viewer views out to every subscriber. It runs
// under the match entry lock, so it only marshals and pushes.
func (s *Server) broadcast(matchID string, version int64, views map[battle.Side]battle.View) {
	subs := s.hub.subscribers(matchID)
	if len(subs) == 0 {
		return
	}

	payloads := make(map[battle.Side][]byte, len(views))
	for _, c := range subs {
		payload, ok := payloads[c.viewer]
		if !ok {
			view, have := views[c.viewer]
			if !have {
				continue
			}
			var err error
			payload, err = json.Marshal(view)
			if err != nil {
				s.log.Warn("view marshal for broadcast failed",
					zap.String("match_id", matchID),
					zap.Error(err),
				)
				continue
			}
			payloads[c.viewer] = payload
		}
		s.hub.push(c, payload)
	}

	s.log.Debug("state broadcast",
		zap.String("match_id", matchID),
		zap.Int64("version", version),
		zap.Int("subscribers", len(subs)),
	)
}

type errorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Rejection *battle.Rejection `json:"rejection,omitempty"`
}

func errorBody(code, message string) errorResponse {
	return errorResponse{Code: code, Message: message}
}

func (s *Server) writeMatchError(w http.ResponseWriter, err error) {
	if errors.Is(err, match.ErrNotFound) {
		s.writeError(w, errorBody("NOT_FOUND", "match not found"), http.StatusNotFound)
		return
	}

	var merr *match.Error
	if errors.As(err, &merr) {
		status := http.StatusInternalServerError
		switch merr.Code {
		case match.CodeValidationRejected:
			status = http.StatusBadRequest
		case match.CodeUpstreamUnavailable:
			status = http.StatusBadGateway
		case match.CodeBotProposalInvalid, match.CodeInternalError:
			status = http.StatusInternalServerError
		}
		s.writeError(w, errorResponse{
			Code:      string(merr.Code),
			Message:   merr.Message,
			Rejection: merr.Rejection,
		}, status)
		return
	}

	s.log.Error("unclassified gateway error", zap.Error(err))
	s.writeError(w, errorBody(string(match.CodeInternalError), "internal error"), http.StatusInternalServerError)
}

func (s *Server) writeError(w http.ResponseWriter, body errorResponse, status int) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
