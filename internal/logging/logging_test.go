package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name    string
		level   string
		format  string
		wantErr bool
		enabled zapcore.Level
		off     zapcore.Level
	}{
		{"json info", "info", "json", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"console debug", "debug", "console", false, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"default format", "warn", "", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"bad level", "loud", "json", true, 0, 0},
		{"bad format", "info", "xml", true, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := New(tc.level, tc.format)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tc.enabled))
			assert.False(t, log.Core().Enabled(tc.off))
		})
	}
}
