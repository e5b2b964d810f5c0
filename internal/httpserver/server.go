// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/categories".
//   - Round endpoints (optional auth): POST /game/new, POST /game/guess,
//     POST /game/powerup, GET /game/{id}.
//   - Live round socket: GET /game/{id}/ws (see socket.go).
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me, /rounds/mine.
//   - Best-effort persistence of round progress and player stats.
//
// Notes:
//   - Live rounds are held in the in-memory store; the database only keeps
//     history and counters, never the secret word.
//   - Every round mutation runs inside store.Update, one request at a time.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/round"
	"github.com/robalobadob/hangman/internal/storage"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

// Round modes accepted by POST /game/new.
const (
	modeRandom = "random"
	modeDaily  = "daily"
)

// WordLists is what the server needs from the word source.
type WordLists interface {
	round.WordSource
	Categories() []string
	DailyWord(category string, date time.Time, salt string) (string, error)
	Stats() map[string]int
}

var _ WordLists = (*words.Lists)(nil)

// Server bundles router, live round store, word lists and DB handle.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	store store.Store
	db    *storage.DB
	words WordLists
	rng   game.Rand
	now   func() time.Time
	hub   *hub
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *storage.DB, wl WordLists, rng game.Rand) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, store: st, db: db, words: wl, rng: rng, now: time.Now, hub: newHub()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(accessLog)
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// live round sockets outlive the request timeout
	s.r.Get("/game/{id}/ws", s.handleRoundSocket)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","/categories","POST /game/new","POST /game/guess","POST /game/powerup","/game/{id}/ws","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string][]string{"categories": s.words.Categories()})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, s.words.Stats())
		})

		// Round endpoints: optional auth, guests can play
		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth())
			r.Post("/game/new", s.handleNewRound)
			r.Post("/game/guess", s.handleGuess)
			r.Post("/game/powerup", s.handlePowerUp)
			r.Get("/game/{id}", s.handleGetRound)
		})

		s.mountAuthRoutes(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("took", d).
			Msg("request")
	})(next)
	return hlog.NewHandler(log.Logger)(h)
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ ROUNDS -------------------------------------

type newRoundReq struct {
	Category string `json:"category"` // optional; random when empty
	Mode     string `json:"mode"`     // "random" (default) | "daily"
}

// handleNewRound starts a round and records its owner row.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Mode == "" {
		req.Mode = modeRandom
	}

	playerID, anonID := s.owner(w, r)
	rec := storage.RoundRecord{ID: storage.NewID(), PlayerID: playerID, AnonymousID: anonID, Mode: req.Mode}

	var (
		rd  *round.Round
		err error
	)
	switch req.Mode {
	case modeRandom:
		rd, err = round.Start(rec.ID, s.words, req.Category, s.cfg.StartingLives, s.rng)
	case modeDaily:
		rd, rec.DailyKey, err = s.startDaily(r, rec, req.Category)
	default:
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	if err != nil {
		s.writeRoundError(w, err)
		return
	}
	rec.Category = rd.Category
	view := rd.View()

	// The daily row is the once-per-day claim, so it must land before the
	// round goes live; other rows are history only.
	if err := s.db.InsertRound(r.Context(), rec); err != nil {
		switch {
		case errors.Is(err, errAlreadyPlayed):
			s.writeRoundError(w, err)
			return
		case rec.DailyKey != "":
			log.Error().Err(err).Str("gameId", rec.ID).Msg("insert daily round row")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		log.Warn().Err(err).Str("gameId", rec.ID).Msg("insert round row")
	}
	if err := s.store.Save(r.Context(), rd); err != nil {
		log.Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("gameId", rec.ID).Str("category", rd.Category).Str("mode", req.Mode).Msg("round started")

	writeJSON(w, view)
}

// errAlreadyPlayed is also what the rounds table reports when two daily
// starts race past PlayedDaily.
var errAlreadyPlayed = storage.ErrDailyPlayed

// startDaily builds today's round for the category. Without a category
// the day's category is derived from the same salt.
func (s *Server) startDaily(r *http.Request, rec storage.RoundRecord, category string) (*round.Round, string, error) {
	now := s.now()
	if category == "" {
		cats := s.words.Categories()
		if len(cats) == 0 {
			return nil, "", words.ErrNoCategories
		}
		category = cats[daily.Index(now, s.cfg.DailySalt, "category", len(cats))]
	}
	category = strings.ToLower(strings.TrimSpace(category))
	key := category + "|" + daily.DateKey(now)

	played, err := s.db.PlayedDaily(r.Context(), rec.PlayerID, rec.AnonymousID, key)
	if err != nil {
		log.Warn().Err(err).Msg("check daily round")
	}
	if played {
		return nil, "", errAlreadyPlayed
	}

	word, err := s.words.DailyWord(category, now, s.cfg.DailySalt)
	if err != nil {
		return nil, "", err
	}
	return round.New(rec.ID, category, word, s.cfg.StartingLives, s.rng), key, nil
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Outcome game.Outcome `json:"outcome"`
	Round   round.View   `json:"round"`
}

// handleGuess applies one letter to a live round and persists progress.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res, err := s.applyGuess(r.Context(), req.GameID, req.Guess)
	if err != nil {
		s.writeRoundError(w, err)
		return
	}
	writeJSON(w, res)
}

var errInvalidGuess = errors.New("guess must be one letter")

// applyGuess runs one guess against the stored round, persists the
// counters and pushes the result to socket viewers.
func (s *Server) applyGuess(ctx context.Context, id, guess string) (guessRes, error) {
	letters := []rune(strings.TrimSpace(guess))
	if len(letters) != 1 {
		return guessRes{}, errInvalidGuess
	}

	var (
		res  round.GuessResult
		snap progress
	)
	err := s.store.Update(ctx, id, func(rd *round.Round) error {
		var err error
		if res, err = rd.Guess(letters[0]); err != nil {
			return err
		}
		snap = snapshot(rd)
		return nil
	})
	if err != nil {
		return guessRes{}, err
	}

	log.Debug().Str("gameId", id).Str("outcome", string(res.Outcome)).Msg("guess")
	s.saveProgress(ctx, id, snap)
	out := guessRes{Outcome: res.Outcome, Round: snap.view}
	s.hub.broadcast(id, socketMsg{Action: actionGuess, Outcome: out.Outcome, Round: &out.Round})
	return out, nil
}

type powerUpReq struct {
	GameID string `json:"gameId"`
	Slot   int    `json:"slot"` // 1-based box number
}

type powerUpRes struct {
	Activation game.Activation `json:"activation"`
	Message    string          `json:"message"`
	Round      round.View      `json:"round"`
}

// handlePowerUp resolves the pending power-up menu.
func (s *Server) handlePowerUp(w http.ResponseWriter, r *http.Request) {
	var req powerUpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res, err := s.applyPowerUp(r.Context(), req.GameID, req.Slot)
	if err != nil {
		s.writeRoundError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) applyPowerUp(ctx context.Context, id string, slot int) (powerUpRes, error) {
	var (
		act  game.Activation
		snap progress
	)
	err := s.store.Update(ctx, id, func(rd *round.Round) error {
		var err error
		if act, err = rd.ChooseSlot(slot); err != nil {
			return err
		}
		snap = snapshot(rd)
		return nil
	})
	if err != nil {
		return powerUpRes{}, err
	}

	log.Info().Str("gameId", id).Int("slot", slot).Stringer("effect", act.Effect).Msg("power-up")
	s.saveProgress(ctx, id, snap)
	out := powerUpRes{Activation: act, Message: act.String(), Round: snap.view}
	s.hub.broadcast(id, socketMsg{Action: actionPowerUp, Activation: &out.Activation, Message: out.Message, Round: &out.Round})
	return out, nil
}

// handleGetRound returns the render snapshot of a live round.
func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRoundError(w, err)
		return
	}
	writeJSON(w, v)
}

// progress is the part of a round copied out of the store lock.
type progress struct {
	view     round.View
	guesses  int
	powerUps int
}

func snapshot(rd *round.Round) progress {
	return progress{view: rd.View(), guesses: rd.Guesses(), powerUps: rd.PowerUps()}
}

// saveProgress persists counters and finish state (best effort).
func (s *Server) saveProgress(ctx context.Context, id string, p progress) {
	status := storage.StatusPlaying
	switch p.view.Phase {
	case round.PhaseWon:
		status = storage.StatusWon
	case round.PhaseLost:
		status = storage.StatusLost
	}
	if err := s.db.SaveProgress(ctx, id, status, p.guesses, p.powerUps); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("save round progress")
	}
}

// writeRoundError maps engine, store and word-source errors to HTTP.
func (s *Server) writeRoundError(w http.ResponseWriter, err error) {
	status, code := roundError(err)
	writeError(w, status, code)
}

// roundError returns the HTTP status and error code for err.
func roundError(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errInvalidGuess):
		return http.StatusBadRequest, "invalid_guess"
	case errors.Is(err, game.ErrNotALetter):
		return http.StatusBadRequest, "not_a_letter"
	case errors.Is(err, game.ErrAlreadyGuessed):
		return http.StatusBadRequest, "already_guessed"
	case errors.Is(err, round.ErrRoundOver):
		return http.StatusConflict, "round_over"
	case errors.Is(err, round.ErrPowerUpPending):
		return http.StatusConflict, "powerup_pending"
	case errors.Is(err, round.ErrNoPowerUp):
		return http.StatusConflict, "no_powerup"
	case errors.Is(err, errAlreadyPlayed):
		return http.StatusConflict, "already_played"
	case errors.Is(err, words.ErrUnknownCategory):
		return http.StatusNotFound, "unknown_category"
	case errors.Is(err, words.ErrEmptyCategory), errors.Is(err, words.ErrNoCategories):
		return http.StatusServiceUnavailable, "no_words"
	}
	log.Error().Err(err).Msg("round request failed")
	return http.StatusInternalServerError, "internal"
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError writes a {"error":code} body with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	http.Error(w, `{"error":"`+code+`"}`, status)
}
