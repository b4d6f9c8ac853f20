package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/clinic")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BEARER_TOKEN", "gateway-token")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/clinic", cfg.DBURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisAddress)
	assert.Equal(t, "gateway-token", cfg.GetBearerToken())
	assert.Equal(t, ":8930", cfg.ListenAddr)
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoadOptionalOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("AMQP_URL", "amqp://localhost:5672")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "amqp://localhost:5672", cfg.AMQPURL)
}

func TestLoadMissingRequiredVars(t *testing.T) {
	for _, name := range []string{"DB_URL", "REDIS_URL", "BEARER_TOKEN"} {
		name := name
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(name, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
