package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// CircuitBreakerService shields the pipeline from flapping upstream APIs.
// Every provider host gets its own breaker; a tripped breaker makes the
// fetchers fall back to their neutral defaults instead of waiting on dead
// endpoints.
type CircuitBreakerService struct {
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewCircuitBreakerService(threshold int, timeout time.Duration, logger *logrus.Logger) *CircuitBreakerService {
	newBreaker := func(name string) *gobreaker.CircuitBreaker {
		return gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: uint32(threshold),
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"component": "circuit_breaker",
					"service":   name,
					"from":      from.String(),
					"to":        to.String(),
				}).Info("Circuit breaker state changed")
			},
		})
	}

	breakers := map[string]*gobreaker.CircuitBreaker{
		"espn":        newBreaker("espn"),
		"oddsapi":     newBreaker("oddsapi"),
		"weather-gov": newBreaker("weather-gov"),
	}

	return &CircuitBreakerService{
		breakers: breakers,
		logger:   logger,
	}
}

// Execute wraps a function call with circuit breaker protection
func (cb *CircuitBreakerService) Execute(service string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, exists := cb.breakers[service]
	if !exists {
		cb.logger.WithFields(logrus.Fields{
			"component": "circuit_breaker",
			"service":   service,
		}).Warn("No circuit breaker found for service, executing without protection")
		return fn()
	}

	return breaker.Execute(fn)
}

// GetState returns the current state of a circuit breaker
func (cb *CircuitBreakerService) GetState(service string) gobreaker.State {
	if breaker, exists := cb.breakers[service]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

// States reports every breaker's current state keyed by service name, for
// the health endpoint.
func (cb *CircuitBreakerService) States() map[string]string {
	states := make(map[string]string, len(cb.breakers))
	for name := range cb.breakers {
		states[name] = cb.GetState(name).String()
	}
	return states
}
