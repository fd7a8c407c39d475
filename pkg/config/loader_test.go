package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `env:"TEST_PORT" envDefault:"8080"`
	LogLevel string `env:"TEST_LOG_LEVEL" envDefault:"info"`
	Flag     bool   `env:"TEST_FLAG" envDefault:"false"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.Flag)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TEST_PORT", "9000")
		t.Setenv("TEST_FLAG", "true")

		var cfg testConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, 9000, cfg.Port)
		assert.True(t, cfg.Flag)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("TEST_PORT", "not-a-number")

		var cfg testConfig
		assert.Error(t, Load(&cfg))
	})
}
