package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DoyleJ11/quiz-contest-backend/internal/bank"
	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS", "CONTEST_LOCALE", "FINAL_SECONDS",
		"FINAL_MAX_QUESTIONS", "ROUND1_PER_TEAM", "POINTS_PER_CORRECT", "CUE_FROM_SECOND", "SHUTDOWN_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, engine.DefaultRules(), cfg.Rules())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout())
}

func TestLoadOverlay(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, cfg Config)
	}{
		{"port", "PORT", "9090", func(t *testing.T, cfg Config) { assert.Equal(t, ":9090", cfg.Addr()) }},
		{"bad port", "PORT", "http", func(t *testing.T, cfg Config) { assert.Equal(t, "8080", cfg.Port) }},
		{"level", "LOG_LEVEL", "DEBUG", func(t *testing.T, cfg Config) { assert.Equal(t, "debug", cfg.LogLevel) }},
		{"bad level", "LOG_LEVEL", "loud", func(t *testing.T, cfg Config) { assert.Equal(t, "info", cfg.LogLevel) }},
		{"format", "LOG_FORMAT", "console", func(t *testing.T, cfg Config) { assert.Equal(t, "console", cfg.LogFormat) }},
		{"origins", "CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,", func(t *testing.T, cfg Config) {
			assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
		}},
		{"locale", "CONTEST_LOCALE", "AR", func(t *testing.T, cfg Config) { assert.Equal(t, bank.LocaleArabic, cfg.Locale) }},
		{"bad locale", "CONTEST_LOCALE", "fr", func(t *testing.T, cfg Config) { assert.Equal(t, bank.LocaleEnglish, cfg.Locale) }},
		{"final seconds", "FINAL_SECONDS", "90", func(t *testing.T, cfg Config) { assert.Equal(t, 90, cfg.Rules().FinalSeconds) }},
		{"zero final seconds", "FINAL_SECONDS", "0", func(t *testing.T, cfg Config) { assert.Equal(t, 60, cfg.FinalSeconds) }},
		{"cap", "FINAL_MAX_QUESTIONS", "15", func(t *testing.T, cfg Config) { assert.Equal(t, 15, cfg.Rules().FinalMaxQuestions) }},
		{"cue off", "CUE_FROM_SECOND", "0", func(t *testing.T, cfg Config) { assert.Zero(t, cfg.Rules().CueFromSecond) }},
		{"draws", "ROUND1_PER_TEAM", "x", func(t *testing.T, cfg Config) { assert.Equal(t, 8, cfg.Round1PerTeam) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			tc.check(t, Load())
		})
	}
}

func TestNewContestUsesConfiguredRules(t *testing.T) {
	cfg := Default()
	cfg.FinalSeconds = 30
	cfg.Locale = bank.LocaleKurdish

	s := cfg.NewContest()
	assert.Equal(t, engine.PhaseLanding, s.Phase)
	assert.Equal(t, 30, s.Rules.FinalSeconds)
	assert.Equal(t, bank.LocaleKurdish, s.Locale)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("QUIZ_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("QUIZ_TEST_DOTENV", "")
	os.Unsetenv("QUIZ_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("QUIZ_TEST_DOTENV"))
}
