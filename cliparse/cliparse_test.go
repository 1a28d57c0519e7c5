// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, DefaultSQLiteURL, cfg.DatabaseURL)
	assert.Equal(t, DefaultKitchenAPIURL, cfg.KitchenAPIURL)
	assert.Equal(t, "http://localhost:3318", cfg.PublicBaseURL)
	assert.Equal(t, 5*time.Second, cfg.SpinDuration)
	assert.Equal(t, time.Hour, cfg.WheelIdleTTL)
	assert.Equal(t, 30*time.Minute, cfg.RecipeCacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisURL)
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "Postgres")
	t.Setenv("KITCHEN_API_URL", "http://kitchen:5000/")
	t.Setenv("SPIN_DURATION", "2s")
	t.Setenv("WHEEL_IDLE_TTL", "15m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "http://kitchen:5000", cfg.KitchenAPIURL)
	assert.Equal(t, 2*time.Second, cfg.SpinDuration)
	assert.Equal(t, 15*time.Minute, cfg.WheelIdleTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SPIN_DURATION", "2s")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-spin", "750ms", "-public-url", "https://meals.example/"})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "file:test.db", cfg.DatabaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.SpinDuration)
	assert.Equal(t, "https://meals.example", cfg.PublicBaseURL)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port", map[string]string{"PORT": "abc"}, nil},
		{"unknown database type", nil, []string{"-t", "mysql"}},
		{"postgres without url", map[string]string{"DATABASE_TYPE": "postgres"}, nil},
		{"bad duration", map[string]string{"SPIN_DURATION": "soon"}, nil},
		{"zero duration", map[string]string{"KITCHEN_TIMEOUT": "0s"}, nil},
		{"unknown flag", nil, []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}
