package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.OneFrame.MaxRetries)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ONEFRAME_MAX_RETRIES", "7")
	t.Setenv("ONEFRAME_TIMEOUT", "2s")
	t.Setenv("VALKEY_URI", "redis://example:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.OneFrame.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.OneFrame.Timeout)
	assert.Equal(t, "redis://example:6379", cfg.Valkey.URI)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("ONEFRAME_MAX_RETRIES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.OneFrame.MaxRetries)
}
