package config

import (
	"errors"
	"os"
)

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string
	AMQPURL      string
	ListenAddr   string
}

// Load reads the application configuration from environment variables.
// AMQP_URL is optional; booking events are skipped without it.
func Load() (*AppConfig, error) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("missing DB_URL environment variable")
	}

	redisAddress := os.Getenv("REDIS_URL")
	if redisAddress == "" {
		return nil, errors.New("missing REDIS_URL environment variable")
	}

	bearerToken := os.Getenv("BEARER_TOKEN")
	if bearerToken == "" {
		return nil, errors.New("missing BEARER_TOKEN environment variable")
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8930"
	}

	return &AppConfig{
		DBURL:        dbURL,
		RedisAddress: redisAddress,
		BearerToken:  bearerToken,
		AMQPURL:      os.Getenv("AMQP_URL"),
		ListenAddr:   listenAddr,
	}, nil
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}
