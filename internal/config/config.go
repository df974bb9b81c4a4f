package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"lottery-predictor/internal/lottery"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Storage
	DataDir    string
	PredictDir string

	// Prediction
	ExcludeRecent int    // newest draws left out of the frequency window
	Timezone      string // location of report timestamps and the scheduler

	// Fetching
	HTTPTimeout    time.Duration
	UserAgent      string
	SourceEncoding string // "auto" sniffs the page charset

	// Logging
	LogLevel string

	// Server
	ServerAddr string

	// Scheduler
	Schedule string // cron spec with seconds

	// Games
	GamesFile string
	Games     []lottery.Game
}

// Load reads .env (if present), the environment and the optional games file.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:        getEnv("LOTTERY_DATA_DIR", "./data"),
		PredictDir:     getEnv("LOTTERY_PREDICT_DIR", ""),
		ExcludeRecent:  getEnvInt("LOTTERY_EXCLUDE_RECENT", lottery.DefaultExcludeRecent),
		Timezone:       getEnv("LOTTERY_TIMEZONE", "Asia/Shanghai"),
		HTTPTimeout:    getEnvDuration("LOTTERY_HTTP_TIMEOUT", 30*time.Second),
		UserAgent:      getEnv("LOTTERY_USER_AGENT", ""),
		SourceEncoding: getEnv("LOTTERY_SOURCE_ENCODING", "auto"),
		LogLevel:       getEnv("LOTTERY_LOG_LEVEL", "INFO"),
		ServerAddr:     getEnv("LOTTERY_SERVER_ADDR", ":8080"),
		Schedule:       getEnv("LOTTERY_SCHEDULE", "0 30 21 * * *"),
		GamesFile:      getEnv("LOTTERY_GAMES_FILE", "games.yaml"),
	}
	if cfg.PredictDir == "" {
		cfg.PredictDir = filepath.Join(cfg.DataDir, "predict")
	}

	gamesFile, err := LoadGamesFile(cfg.GamesFile)
	if err != nil {
		return nil, fmt.Errorf("load games file %s: %w", cfg.GamesFile, err)
	}
	cfg.Games = gamesFile.Apply(lottery.DefaultGames())
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DataPath returns the data file of game inside DataDir.
func (c *Config) DataPath(game lottery.Game) string {
	if filepath.IsAbs(game.DataFile) {
		return game.DataFile
	}
	return filepath.Join(c.DataDir, game.DataFile)
}
