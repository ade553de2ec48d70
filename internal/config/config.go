package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DoyleJ11/quiz-contest-backend/internal/bank"
	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                   string
	LogLevel               string
	LogFormat              string
	CORSAllowedOrigins     []string
	Locale                 bank.Locale
	FinalSeconds           int
	FinalMaxQuestions      int
	Round1PerTeam          int
	PointsPerCorrect       int
	CueFromSecond          int
	ShutdownTimeoutSeconds int
}

func Default() Config {
	rules := engine.DefaultRules()
	return Config{
		Port:                   "8080",
		LogLevel:               "info",
		LogFormat:              "json",
		CORSAllowedOrigins:     []string{"*"},
		Locale:                 bank.LocaleEnglish,
		FinalSeconds:           rules.FinalSeconds,
		FinalMaxQuestions:      rules.FinalMaxQuestions,
		Round1PerTeam:          rules.Round1PerTeam,
		PointsPerCorrect:       rules.PointsPerCorrect,
		CueFromSecond:          rules.CueFromSecond,
		ShutdownTimeoutSeconds: 5,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 && value < 65536 {
			cfg.Port = raw
		}
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		switch level := strings.ToLower(raw); level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		}
	}
	if raw := os.Getenv("LOG_FORMAT"); raw != "" {
		switch format := strings.ToLower(raw); format {
		case "json", "console":
			cfg.LogFormat = format
		}
	}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSAllowedOrigins = origins
		}
	}
	if raw := os.Getenv("CONTEST_LOCALE"); raw != "" {
		if locale := bank.Locale(strings.ToLower(raw)); locale.Valid() {
			cfg.Locale = locale
		}
	}
	positive(&cfg.FinalSeconds, "FINAL_SECONDS")
	positive(&cfg.FinalMaxQuestions, "FINAL_MAX_QUESTIONS")
	positive(&cfg.Round1PerTeam, "ROUND1_PER_TEAM")
	positive(&cfg.PointsPerCorrect, "POINTS_PER_CORRECT")
	if raw := os.Getenv("CUE_FROM_SECOND"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.CueFromSecond = value
		}
	}
	positive(&cfg.ShutdownTimeoutSeconds, "SHUTDOWN_TIMEOUT_SECONDS")
	return cfg
}

func positive(dst *int, key string) {
	if raw := os.Getenv(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			*dst = value
		}
	}
}

func (c Config) Addr() string { return ":" + c.Port }

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Rules is copied into every new contest.
func (c Config) Rules() engine.Rules {
	return engine.Rules{
		Round1PerTeam:     c.Round1PerTeam,
		PointsPerCorrect:  c.PointsPerCorrect,
		FinalSeconds:      c.FinalSeconds,
		FinalMaxQuestions: c.FinalMaxQuestions,
		CueFromSecond:     c.CueFromSecond,
	}
}

// NewContest returns a fresh landing-screen contest with the configured rules and locale.
func (c Config) NewContest() engine.State {
	s := engine.NewState(c.Rules())
	s.Locale = c.Locale
	return s
}
