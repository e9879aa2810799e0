// internal/config/config.go
//
// Process configuration read from the environment.
// A .env file in the working directory is loaded first (missing file is fine),
// then each setting falls back to a development default.
//
// Environment variables:
//   PORT, LOG_LEVEL, HANGMAN_WORDS_FILE, DB_PATH, JWT_SECRET, JWT_EXPIRES_DAYS,
//   COOKIE_NAME, CLIENT_ORIGIN, DAILY_SALT, ROUND_RETENTION_MINUTES, NODE_ENV

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every tunable the binary reads.
type Config struct {
	Port           string
	LogLevel       zerolog.Level
	WordsFile      string // empty = embedded dictionary
	DBPath         string
	JWTSecret      string
	JWTExpiry      time.Duration
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	RoundRetention time.Duration // finished games stay readable this long
	Production     bool
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	days := getEnvInt("JWT_EXPIRES_DAYS", 14)
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       lvl,
		WordsFile:      os.Getenv("HANGMAN_WORDS_FILE"),
		DBPath:         getEnv("DB_PATH", "./data/hangman.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiry:      time.Duration(days) * 24 * time.Hour,
		CookieName:     getEnv("COOKIE_NAME", "hangman_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		RoundRetention: time.Duration(getEnvInt("ROUND_RETENTION_MINUTES", 15)) * time.Minute,
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
