// internal/config/config.go
//
// Process configuration, read once at start-up.
// A .env file in the working directory is loaded first (development),
// then real environment variables are parsed into Config.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server and the terminal game.
type Config struct {
	Port          string `env:"PORT"           envDefault:"5175"`
	LogLevel      string `env:"LOG_LEVEL"      envDefault:"info"`
	DatabasePath  string `env:"DATABASE_PATH"  envDefault:"./data/hangman.db"`
	WordsDir      string `env:"WORDS_DIR"`
	StartingLives int    `env:"STARTING_LIVES" envDefault:"6"`

	// RNGSeed seeds the shared random source once; 0 picks a random seed.
	RNGSeed   uint64        `env:"RNG_SEED"`
	DailySalt string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	RoundTTL  time.Duration `env:"ROUND_TTL"  envDefault:"2h"`

	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"hangman_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`
	AppEnv         string `env:"APP_ENV"          envDefault:"development"`
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.AppEnv == "production" }

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.StartingLives <= 0 {
		return Config{}, fmt.Errorf("STARTING_LIVES must be positive, got %d", cfg.StartingLives)
	}
	return cfg, nil
}
