// internal/httpserver/socket.go
//
// Live round socket: GET /game/{id}/ws.
//
// Every connection is registered with the hub under its round ID. Guesses
// and power-up choices (from a socket or from the REST endpoints) are
// broadcast to all viewers of that round; errors go only to the sender.
//
// Client → server:
//   {"action":"guess","guess":"e"}
//   {"action":"powerup","slot":4}
// Server → client:
//   {"action":"state","round":{...}}                      on connect
//   {"action":"guess","outcome":"correct","round":{...}}
//   {"action":"powerup","activation":{...},"message":"...","round":{...}}
//   {"action":"error","error":"already_guessed"}

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/round"
)

const (
	actionState   = "state"
	actionGuess   = "guess"
	actionPowerUp = "powerup"
	actionError   = "error"

	socketWriteWait  = 5 * time.Second
	socketMaxMessage = 1 << 10
)

// socketMsg is the envelope for every socket frame.
type socketMsg struct {
	Action     string           `json:"action"`
	Guess      string           `json:"guess,omitempty"`
	Slot       int              `json:"slot,omitempty"`
	Outcome    game.Outcome     `json:"outcome,omitempty"`
	Activation *game.Activation `json:"activation,omitempty"`
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
	Round      *round.View      `json:"round,omitempty"`
}

// socketClient serialises writes to one connection.
type socketClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *socketClient) send(m socketMsg) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
	return c.conn.WriteJSON(m)
}

// hub tracks the socket viewers of each round.
type hub struct {
	mu      sync.Mutex
	viewers map[string]map[*socketClient]struct{}
}

func newHub() *hub {
	return &hub{viewers: make(map[string]map[*socketClient]struct{})}
}

func (h *hub) join(id string, c *socketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.viewers[id] == nil {
		h.viewers[id] = make(map[*socketClient]struct{})
	}
	h.viewers[id][c] = struct{}{}
}

func (h *hub) leave(id string, c *socketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.viewers[id], c)
	if len(h.viewers[id]) == 0 {
		delete(h.viewers, id)
	}
}

// broadcast sends m to every viewer of round id. A viewer whose write
// fails is closed; its read loop then removes it.
func (h *hub) broadcast(id string, m socketMsg) {
	h.mu.Lock()
	targets := make([]*socketClient, 0, len(h.viewers[id]))
	for c := range h.viewers[id] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.send(m); err != nil {
			log.Debug().Err(err).Str("gameId", id).Msg("drop socket viewer")
			_ = c.conn.Close()
		}
	}
}

// checkOrigin accepts same-host requests, the configured client origin
// and non-browser clients that send no Origin header.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.cfg.ClientOrigin || origin == "http://"+r.Host || origin == "https://"+r.Host
}

// handleRoundSocket upgrades the request and serves one viewer until it
// disconnects.
func (s *Server) handleRoundSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.store.View(r.Context(), id)
	if err != nil {
		s.writeRoundError(w, err)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Debug().Err(err).Str("gameId", id).Msg("socket upgrade")
		return
	}
	conn.SetReadLimit(socketMaxMessage)

	c := &socketClient{conn: conn}
	s.hub.join(id, c)
	defer func() {
		s.hub.leave(id, c)
		_ = conn.Close()
	}()

	if err := c.send(socketMsg{Action: actionState, Round: &view}); err != nil {
		return
	}

	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("gameId", id).Msg("socket closed")
			}
			return
		}

		var in socketMsg
		if err := json.Unmarshal(data, &in); err != nil {
			_ = c.send(socketMsg{Action: actionError, Error: "bad_json"})
			continue
		}

		switch in.Action {
		case actionGuess:
			_, err = s.applyGuess(ctx, id, in.Guess)
		case actionPowerUp:
			_, err = s.applyPowerUp(ctx, id, in.Slot)
		default:
			_ = c.send(socketMsg{Action: actionError, Error: "unknown_action"})
			continue
		}
		if err != nil {
			_, code := roundError(err)
			_ = c.send(socketMsg{Action: actionError, Error: code})
		}
	}
}
