// Package circuitbreaker configures github.com/sony/gobreaker breakers for
// news sites, notification channels and the database.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"lima-segura/internal/observability/metrics"
)

// Config describes when a breaker trips. With ConsecutiveFailures set the
// breaker trips after that many failures in a row; otherwise it trips when
// at least MinRequests were made in the current Interval and the failure
// ratio reaches FailureThreshold.
type Config struct {
	Name string

	// MaxRequests are let through while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts; zero never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	FailureThreshold    float64
	MinRequests         uint32
	ConsecutiveFailures uint32
}

// SourceConfig guards one news site. Once open, the site is skipped by the
// following scans until the timeout elapses.
func SourceConfig(source string) Config {
	return Config{
		Name:             "source:" + source,
		MaxRequests:      1,
		Interval:         10 * time.Minute,
		Timeout:          30 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// NotifyChannelConfig guards one notification channel. Five failed
// deliveries in a row silence the channel for five minutes.
func NotifyChannelConfig(channel string) Config {
	return Config{
		Name:                "notify:" + channel,
		MaxRequests:         1,
		Timeout:             5 * time.Minute,
		ConsecutiveFailures: 5,
	}
}

// CircuitBreaker is a named gobreaker.CircuitBreaker that logs and exports
// its state changes.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

func New(cfg Config) *CircuitBreaker {
	metrics.SetCircuitBreakerState(cfg.Name, int(gobreaker.StateClosed))
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: readyToTrip(cfg),
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings), name: cfg.Name}
}

func readyToTrip(cfg Config) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if cfg.ConsecutiveFailures > 0 {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		}
		if counts.Requests < cfg.MinRequests || counts.Requests == 0 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
	}
}

// Execute runs fn unless the breaker is open, in which case it returns
// gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }

func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
