package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-inspector/internal/config"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.LoggerConfig
	}{
		{"json encoding", config.LoggerConfig{Level: "debug", Encoding: "json"}},
		{"console encoding", config.LoggerConfig{Level: "info", Encoding: "console"}},
		{"bad level falls back to info", config.LoggerConfig{Level: "nope", Encoding: "json"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := NewLogger(tc.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.NotPanics(t, func() { logger.Named("Test").Debug("smoke line") })
		})
	}
}
