package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Round statuses as stored in the rounds table.
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// ErrDailyPlayed is returned by InsertRound when the owner already has a
// round for the same daily key.
var ErrDailyPlayed = errors.New("daily round already played")

// RoundRecord is one row of the rounds table. Exactly one of PlayerID
// and AnonymousID is set.
type RoundRecord struct {
	ID          string `json:"id"`
	PlayerID    string `json:"-"`
	AnonymousID string `json:"-"`
	Category    string `json:"category"`
	Mode        string `json:"mode"`
	DailyKey    string `json:"-"`
	Status      string `json:"status"`
	Guesses     int    `json:"guesses"`
	PowerUps    int    `json:"powerUps"`
	StartedAt   string `json:"startedAt"`
	FinishedAt  string `json:"finishedAt,omitempty"`
}

// InsertRound records a newly started round.
func (d *DB) InsertRound(ctx context.Context, r RoundRecord) error {
	if r.StartedAt == "" {
		r.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if r.Status == "" {
		r.Status = StatusPlaying
	}
	_, err := d.SQL.ExecContext(ctx, `
        INSERT INTO rounds (id, player_id, anonymous_id, category, mode, daily_key, status, guesses, powerups, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, nullable(r.PlayerID), nullable(r.AnonymousID), r.Category, r.Mode, nullable(r.DailyKey),
		r.Status, r.Guesses, r.PowerUps, r.StartedAt,
	)
	var se sqlite3.Error
	if r.DailyKey != "" && errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDailyPlayed
	}
	return err
}

/**
 * SaveProgress stores the counters of a round and, the first time it
 * leaves the "playing" status, its finish time and the owner's stats.
 *
 * - Runs in one transaction so a round is only ever counted once.
 * - Anonymous rounds finish without touching any player row.
 */
func (d *DB) SaveProgress(ctx context.Context, id, status string, guesses, powerUps int) error {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE rounds SET guesses=?, powerups=? WHERE id=?`, guesses, powerUps, id); err != nil {
		return err
	}

	if status != StatusPlaying {
		res, err := tx.ExecContext(ctx, `UPDATE rounds SET status=?, finished_at=? WHERE id=? AND status=?`,
			status, time.Now().UTC().Format(time.RFC3339), id, StatusPlaying)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 1 {
			var playerID sql.NullString
			if err := tx.QueryRowContext(ctx, `SELECT player_id FROM rounds WHERE id=?`, id).Scan(&playerID); err != nil {
				return err
			}
			if playerID.Valid {
				if err := bumpStats(ctx, tx, playerID.String, status == StatusWon); err != nil {
					return err
				}
			}
		}
	}
	return tx.Commit()
}

// PlayedDaily reports whether the owner already started the daily round
// identified by key.
func (d *DB) PlayedDaily(ctx context.Context, playerID, anonymousID, key string) (bool, error) {
	var cnt int
	err := d.SQL.QueryRowContext(ctx, `
        SELECT COUNT(1) FROM rounds
        WHERE daily_key=? AND ((player_id IS NOT NULL AND player_id=?) OR (anonymous_id IS NOT NULL AND anonymous_id=?))`,
		key, playerID, anonymousID,
	).Scan(&cnt)
	return cnt > 0, err
}

// ListRounds returns a player's most recent rounds, newest first.
func (d *DB) ListRounds(ctx context.Context, playerID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.SQL.QueryContext(ctx, `
        SELECT id, category, mode, status, guesses, powerups, started_at, COALESCE(finished_at, '')
        FROM rounds WHERE player_id=?
        ORDER BY started_at DESC, rowid DESC
        LIMIT ?`, playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RoundRecord{}
	for rows.Next() {
		r := RoundRecord{PlayerID: playerID}
		if err := rows.Scan(&r.ID, &r.Category, &r.Mode, &r.Status, &r.Guesses, &r.PowerUps, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonRounds transfers a guest's rounds to a player account. A guest
// daily round for a day the player already played stays with the guest.
func (d *DB) ClaimAnonRounds(ctx context.Context, anonID, playerID string) error {
	if anonID == "" || playerID == "" {
		return nil
	}
	_, err := d.SQL.ExecContext(ctx, `UPDATE OR IGNORE rounds SET player_id=?, anonymous_id=NULL WHERE anonymous_id=?`, playerID, anonID)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
