package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/hangman/assets"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(assets.Migrations()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(assets.Migrations()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := db.SQL.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("_migrations rows = %d, want 2", n)
	}
}

func TestCreateAndAuthenticatePlayer(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	p, err := db.CreatePlayer(ctx, "  ada_l ", "correct horse")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if p.Username != "ada_l" || p.ID == "" {
		t.Fatalf("player = %+v", p)
	}
	if _, err := db.CreatePlayer(ctx, "ADA_L", "another pass"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate err = %v", err)
	}
	if _, err := db.Authenticate(ctx, "ada_l", "correct horse"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := db.Authenticate(ctx, "ada_l", "wrong password"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("bad password err = %v", err)
	}
	if _, err := db.FindPlayerByID(ctx, "missing"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("missing player err = %v", err)
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		user, pass string
		ok         bool
	}{
		{"bob", "password1", true},
		{"bo", "password1", false},
		{"bob!", "password1", false},
		{"bob", "short", false},
	}
	for _, tt := range tests {
		if err := ValidateSignup(tt.user, tt.pass); (err == nil) != tt.ok {
			t.Errorf("ValidateSignup(%q, %q) = %v", tt.user, tt.pass, err)
		}
	}
}

func TestSaveProgressBumpsStatsOnce(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	p, err := db.CreatePlayer(ctx, "grace", "hopper1906")
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"r1", "r2"} {
		if err := db.InsertRound(ctx, RoundRecord{ID: id, PlayerID: p.ID, Category: "planets", Mode: "random"}); err != nil {
			t.Fatalf("InsertRound: %v", err)
		}
	}
	if err := db.SaveProgress(ctx, "r1", StatusPlaying, 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveProgress(ctx, "r1", StatusWon, 4, 1); err != nil {
		t.Fatal(err)
	}
	// repeated finish must not count twice
	if err := db.SaveProgress(ctx, "r1", StatusWon, 4, 1); err != nil {
		t.Fatal(err)
	}

	got, _ := db.FindPlayerByID(ctx, p.ID)
	if got.RoundsPlayed != 1 || got.Wins != 1 || got.Streak != 1 {
		t.Fatalf("after win: %+v", got)
	}

	if err := db.SaveProgress(ctx, "r2", StatusLost, 6, 0); err != nil {
		t.Fatal(err)
	}
	got, _ = db.FindPlayerByID(ctx, p.ID)
	if got.RoundsPlayed != 2 || got.Wins != 1 || got.Streak != 0 {
		t.Fatalf("after loss: %+v", got)
	}

	rounds, err := db.ListRounds(ctx, p.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 2 {
		t.Fatalf("ListRounds = %+v", rounds)
	}
	for _, r := range rounds {
		if r.ID == "r1" && (r.Status != StatusWon || r.Guesses != 4 || r.PowerUps != 1 || r.FinishedAt == "") {
			t.Fatalf("r1 = %+v", r)
		}
	}
}

func TestAnonymousRoundsAndClaim(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.InsertRound(ctx, RoundRecord{ID: "g1", AnonymousID: "anon", Category: "fruits", Mode: "daily", DailyKey: "fruits|2026-10-19"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveProgress(ctx, "g1", StatusLost, 6, 0); err != nil {
		t.Fatalf("anonymous finish: %v", err)
	}

	played, err := db.PlayedDaily(ctx, "", "anon", "fruits|2026-10-19")
	if err != nil || !played {
		t.Fatalf("PlayedDaily = %v, %v", played, err)
	}
	played, _ = db.PlayedDaily(ctx, "", "other", "fruits|2026-10-19")
	if played {
		t.Fatal("PlayedDaily true for a different guest")
	}

	p, err := db.CreatePlayer(ctx, "linus", "penguins!")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.ClaimAnonRounds(ctx, "anon", p.ID); err != nil {
		t.Fatal(err)
	}
	rounds, _ := db.ListRounds(ctx, p.ID, 0)
	if len(rounds) != 1 || rounds[0].ID != "g1" {
		t.Fatalf("claimed rounds = %+v", rounds)
	}
	played, _ = db.PlayedDaily(ctx, p.ID, "", "fruits|2026-10-19")
	if !played {
		t.Fatal("claimed daily round not visible to player")
	}
}

func TestDailyRoundOncePerOwner(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	const key = "fruits|2026-10-19"

	if err := db.InsertRound(ctx, RoundRecord{ID: "d1", AnonymousID: "anon", Category: "fruits", Mode: "daily", DailyKey: key}); err != nil {
		t.Fatal(err)
	}
	err := db.InsertRound(ctx, RoundRecord{ID: "d2", AnonymousID: "anon", Category: "fruits", Mode: "daily", DailyKey: key})
	if !errors.Is(err, ErrDailyPlayed) {
		t.Fatalf("second daily insert err = %v, want ErrDailyPlayed", err)
	}
	if err := db.InsertRound(ctx, RoundRecord{ID: "d3", AnonymousID: "other", Category: "fruits", Mode: "daily", DailyKey: key}); err != nil {
		t.Fatalf("other guest: %v", err)
	}
	// random rounds carry no daily key and never collide
	for _, id := range []string{"r1", "r2"} {
		if err := db.InsertRound(ctx, RoundRecord{ID: id, AnonymousID: "anon", Category: "fruits", Mode: "random"}); err != nil {
			t.Fatalf("random round %s: %v", id, err)
		}
	}

	// a player who already played today keeps their row; the guest's
	// duplicate stays unclaimed instead of failing the claim
	p, err := db.CreatePlayer(ctx, "ada", "lovelace1815")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.InsertRound(ctx, RoundRecord{ID: "d4", PlayerID: p.ID, Category: "fruits", Mode: "daily", DailyKey: key}); err != nil {
		t.Fatal(err)
	}
	if err := db.ClaimAnonRounds(ctx, "anon", p.ID); err != nil {
		t.Fatalf("ClaimAnonRounds: %v", err)
	}
	rounds, _ := db.ListRounds(ctx, p.ID, 0)
	if len(rounds) != 3 {
		t.Fatalf("player rounds = %+v, want d4 plus r1, r2", rounds)
	}
}

func TestNewIDLength(t *testing.T) {
	if id := NewID(); len(id) != 22 {
		t.Fatalf("NewID() = %q (%d chars)", id, len(id))
	}
}
