package config

import (
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	switch name {
	case "Redis-Cache", "Redis-Auth":
		timeout = 5 * time.Second
	case "PostgreSQL-Roles", "PostgreSQL-Lookups":
		timeout = 10 * time.Second
	default:
		// RabbitMQ and other slower collaborators
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CRITICAL] Circuit Breaker %s: %s -> %s", name, from, to)
		},
	})
}
