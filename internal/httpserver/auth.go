// internal/httpserver/auth.go
//
// Player accounts for the HTTP driver.
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me, /stats/me, /rounds/mine (require auth)
//
// Tokens are HS256 JWTs carried in an HttpOnly cookie or a Bearer header.
// Guests get a long-lived anonymous cookie; their rounds are claimed by
// the account on signup/login.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/storage"
)

const anonCookieName = "hangman_anon"

// authPlayer is placed into request context by auth middleware.
type authPlayer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxPlayerKey is the context key type for storing authPlayer.
type ctxPlayerKey struct{}

func playerFrom(ctx context.Context) *authPlayer {
	p, _ := ctx.Value(ctxPlayerKey{}).(*authPlayer)
	return p
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes on r.
func (s *Server) mountAuthRoutes(r chi.Router) {
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, playerFrom(r.Context()))
		})
		r.Get("/stats/me", s.handleStats)
		r.Get("/rounds/mine", s.handleMyRounds)
	})
}

// handleSignup creates a player, signs a JWT, sets the cookie and claims guest rounds.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := s.db.CreatePlayer(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username_taken")
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"error": "invalid_signup", "detail": err.Error()})
		return
	}
	s.signIn(w, r, p)
}

// handleLogin authenticates a player, sets the cookie and claims guest rounds.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := s.db.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	s.signIn(w, r, p)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, p *storage.Player) {
	tok, exp, err := s.signJWT(p.ID, p.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setCookie(w, s.cfg.CookieName, tok, exp)
	if err := s.db.ClaimAnonRounds(r.Context(), s.ensureAnonID(w, r), p.ID); err != nil {
		log.Warn().Err(err).Str("player", p.ID).Msg("claim anon rounds")
	}
	writeJSON(w, authPlayer{ID: p.ID, Username: p.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, s.cfg.CookieName, "", time.Time{})
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := playerFrom(r.Context())
	p, err := s.db.FindPlayerByID(r.Context(), me.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "not_found")
		return
	}
	writeJSON(w, map[string]any{
		"id":           p.ID,
		"roundsPlayed": p.RoundsPlayed,
		"wins":         p.Wins,
		"streak":       p.Streak,
	})
}

func (s *Server) handleMyRounds(w http.ResponseWriter, r *http.Request) {
	me := playerFrom(r.Context())
	rounds, err := s.db.ListRounds(r.Context(), me.ID, 50)
	if err != nil {
		log.Error().Err(err).Msg("list rounds")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, rounds)
}

// --------------------------- auth middleware -------------------------------

// playerFromToken validates a JWT and loads the player it names.
func (s *Server) playerFromToken(ctx context.Context, tokenStr string) (*authPlayer, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errors.New("invalid token")
	}
	// Ensure player still exists
	p, err := s.db.FindPlayerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &authPlayer{ID: p.ID, Username: p.Username}, nil
}

// withOptionalAuth decorates requests with the player if a valid JWT is
// present. It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := s.bearerOrCookie(r); tok != "" {
				if p, err := s.playerFromToken(r.Context(), tok); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authPlayer into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := s.bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			p, err := s.playerFromToken(r.Context(), tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, p)))
		})
	}
}

// owner returns the player ID for signed-in requests, or the guest's
// anonymous ID otherwise. Exactly one of the two is non-empty.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (playerID, anonID string) {
	if me := playerFrom(r.Context()); me != nil {
		return me.ID, ""
	}
	return "", s.ensureAnonID(w, r)
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := storage.NewID()
	s.setCookie(w, anonCookieName, id, s.now().Add(180*24*time.Hour))
	return id
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// setCookie writes an HttpOnly cookie. A zero expiry deletes it.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	}
	if exp.IsZero() {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}
