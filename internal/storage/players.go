package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken  = errors.New("username taken")
	ErrPlayerNotFound = errors.New("player not found")
)

// Player matches the players table shape.
type Player struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	RoundsPlayed int       `json:"roundsPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
}

// NormalizeUsername trims whitespace.
func NormalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8–72 chars")
	}
	return nil
}

// CreatePlayer validates input, checks uniqueness, hashes the password
// and inserts a new player.
func (d *DB) CreatePlayer(ctx context.Context, username, pw string) (*Player, error) {
	username = NormalizeUsername(username)
	if err := ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	err := d.SQL.QueryRowContext(ctx, `SELECT 1 FROM players WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	p := &Player{
		ID:           NewID(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := d.SQL.ExecContext(ctx,
		`INSERT INTO players (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		p.ID, p.Username, p.PasswordHash, p.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return p, nil
}

// Authenticate returns the player when the password matches.
func (d *DB) Authenticate(ctx context.Context, username, pw string) (*Player, error) {
	p, err := d.FindPlayerByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(pw)) != nil {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// FindPlayerByUsername looks a player up case-insensitively.
func (d *DB) FindPlayerByUsername(ctx context.Context, username string) (*Player, error) {
	row := d.SQL.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, rounds_played, wins, streak
	                                   FROM players WHERE lower(username)=lower(?)`, username)
	return scanPlayer(row)
}

// FindPlayerByID loads a player by ID.
func (d *DB) FindPlayerByID(ctx context.Context, id string) (*Player, error) {
	row := d.SQL.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, rounds_played, wins, streak
	                                   FROM players WHERE id=?`, id)
	return scanPlayer(row)
}

func scanPlayer(row *sql.Row) (*Player, error) {
	var p Player
	var created string
	if err := row.Scan(&p.ID, &p.Username, &p.PasswordHash, &created, &p.RoundsPlayed, &p.Wins, &p.Streak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &p, nil
}

// bumpStats increments rounds played and updates wins and streak (within tx).
func bumpStats(ctx context.Context, tx *sql.Tx, playerID string, won bool) error {
	var played, wins, streak int
	row := tx.QueryRowContext(ctx, `SELECT rounds_played, wins, streak FROM players WHERE id=?`, playerID)
	if err := row.Scan(&played, &wins, &streak); err != nil {
		return err
	}
	played++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE players SET rounds_played=?, wins=?, streak=? WHERE id=?`, played, wins, streak, playerID)
	return err
}
